// Package config resolves tada's settings from defaults, a TOML file and
// the environment. CLI flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Makepad-fr/tada/internal/logging"
)

const (
	// AppName is the application directory name.
	AppName = "tada"

	// ConfigFileName is the config file looked up in the config directory.
	ConfigFileName = "config.toml"

	// DataFileName is the todo data file in the data directory.
	DataFileName = "todos.json"

	// LogFileName receives logs while the TUI owns the terminal.
	LogFileName = "tada.log"
)

// Environment variables that override the config file.
const (
	EnvDataFile  = "TADA_DATA_FILE"
	EnvTheme     = "TADA_THEME"
	EnvLogLevel  = "TADA_LOG_LEVEL"
	EnvLogFormat = "TADA_LOG_FORMAT"
)

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

// Config holds resolved settings.
type Config struct {
	DataFile  string `toml:"data_file"`
	Theme     string `toml:"theme"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// File is the config file that was read, or "" if none was.
	File string `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataFile:  filepath.Join(DefaultDataDir(), DataFileName),
		Theme:     "classic",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load resolves settings in order: defaults, config file, environment.
// If path is empty the default config file is used when it exists; an
// explicit path must exist. The result is not validated: callers apply
// their flag overrides first and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(DefaultConfigDir(), ConfigFileName)
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	cfg.loadEnv()
	cfg.DataFile = expandHome(cfg.DataFile)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	c.File = path
	return nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDataFile); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.Theme = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
}

// Validate checks that every setting has a usable value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return errors.New("data_file must not be empty")
	}
	if !validTheme(c.Theme) {
		return fmt.Errorf("unknown theme %q (want one of %s)", c.Theme, strings.Join(Themes, ", "))
	}
	if _, err := logging.FromConfig(c.LogLevel, c.LogFormat); err != nil {
		return err
	}
	return nil
}

// LogFile returns the TUI log file path, next to the data file.
func (c *Config) LogFile() string {
	return filepath.Join(filepath.Dir(c.DataFile), LogFileName)
}

func validTheme(name string) bool {
	for _, t := range Themes {
		if strings.EqualFold(name, t) {
			return true
		}
	}
	return false
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/tada or $HOME/.config/tada.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultDataDir returns $XDG_DATA_HOME/tada or $HOME/.local/share/tada.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~/")
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

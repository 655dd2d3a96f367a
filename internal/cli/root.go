// Package cli wires tada's subcommands. Every command runs against a
// store built for that invocation and handed in explicitly.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// TUIRunner starts the interactive views on a loaded store.
type TUIRunner func(ctx context.Context, s *jsonstore.Store, opts tui.Options) error

// Options carries the process-level collaborators.
type Options struct {
	Out    io.Writer
	Err    io.Writer
	Now    func() time.Time
	RunTUI TUIRunner
}

func (o *Options) setDefaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.RunTUI == nil {
		o.RunTUI = tui.Run
	}
}

// exitError carries a specific exit code. Errors without one are usage
// errors, which covers everything cobra itself reports.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func failure(err error) error { return &exitError{code: ExitFailure, err: err} }

func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsage
}

// app is the per-invocation state shared by the subcommands.
type app struct {
	opts   Options
	cfg    *config.Config
	logger *log.Logger
	store  *jsonstore.Store

	configFile string
	dataFile   string
	theme      string
	logLevel   string
	color      bool
	noColor    bool
}

// Execute runs tada with args and returns the process exit code.
func Execute(ctx context.Context, args []string, opts Options) int {
	opts.setDefaults()
	root := NewRootCommand(opts)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil {
		ui.Fail(opts.Err, err.Error())
	}
	return exitCode(err)
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	opts.setDefaults()
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   "tada",
		Short: "A tiny personal to-do manager",
		Long: `tada keeps a personal to-do list on local disk.

Run without arguments to open the interactive list.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\nRun '%s --help' for usage", err, cmd.CommandPath())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/tada/config.toml)")
	pf.StringVar(&a.dataFile, "data", "", "data file (default $XDG_DATA_HOME/tada/todos.json)")
	pf.StringVar(&a.theme, "theme", "", "output theme: classic, neon or mono")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&a.color, "color", false, "force colored output")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.newListCommand(),
		a.newAddCommand(),
		a.newShowCommand(),
		a.newEditCommand(),
		a.newDoneCommand(),
		a.newRemoveCommand(),
		a.newPathCommand(),
		a.newTUICommand(),
	)
	return root
}

// setup resolves config, logger and store before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataFile = a.dataFile
	}
	if flags.Changed("theme") {
		cfg.Theme = a.theme
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logOpts, err := logging.FromConfig(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logging.New(a.opts.Err, logOpts)

	ui.SetColorForcing(a.color, a.noColor)
	ui.SetTheme(cfg.Theme)

	a.store = jsonstore.New(cfg.DataFile,
		jsonstore.WithLogger(a.logger),
		jsonstore.WithClock(a.opts.Now),
	)
	res := a.store.Load()
	if res.Warning != nil {
		ui.Warn(a.opts.Err, fmt.Sprintf("could not read %s, showing sample items: %v", a.store.Path(), res.Warning))
	}
	a.logger.Debug("store ready", "source", res.Source, "count", res.Count, "config", cfg.File)
	return nil
}

// save persists the store; a failure becomes exit code 1.
func (a *app) save() error {
	if err := a.store.Save(); err != nil {
		return failure(fmt.Errorf("save: %w", err))
	}
	return nil
}

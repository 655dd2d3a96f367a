// Package jsonstore owns the in-memory todo collection and persists it as
// a single JSON file. Every save rewrites the whole file.
//
// A Store is not safe for concurrent use; callers serialize access.
package jsonstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
)

// DataFileName is the default name of the data file.
const DataFileName = "todos.json"

// ErrIndexOutOfRange is returned by At for a position outside the collection.
var ErrIndexOutOfRange = errors.New("index out of range")

// Source says where the collection came from on Load.
type Source int

const (
	// SourceSamples means the built-in sample set was used.
	SourceSamples Source = iota
	// SourceDisk means the data file was read.
	SourceDisk
)

func (s Source) String() string {
	if s == SourceDisk {
		return "disk"
	}
	return "samples"
}

// LoadResult reports the outcome of Load. Warning is set when the file
// existed but could not be read or decoded.
type LoadResult struct {
	Source  Source
	Count   int
	Warning error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the clock used to date the sample entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the single owner of the todo collection.
type Store struct {
	path   string
	logger *log.Logger
	now    func() time.Time
	todos  []model.ToDo
}

// New returns an empty store bound to path. Call Load to populate it.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: logging.Discard(),
		now:    time.Now,
		todos:  []model.ToDo{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the data file path.
func (s *Store) Path() string { return s.path }

// Load replaces the collection with the file contents. When the file is
// missing or unreadable the collection becomes the sample set instead;
// Load itself never fails.
func (s *Store) Load() LoadResult {
	todos, err := readFile(s.path)
	if err == nil {
		s.todos = todos
		s.logger.Debug("loaded todos", "path", s.path, "count", len(todos))
		return LoadResult{Source: SourceDisk, Count: len(todos)}
	}

	res := LoadResult{Source: SourceSamples}
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no data file, using samples", "path", s.path)
	} else {
		s.logger.Warn("could not load todos, using samples", "path", s.path, "err", err)
		res.Warning = err
	}
	s.todos = model.SampleToDos(s.now())
	res.Count = len(s.todos)
	return res
}

// Save writes the whole collection to disk. The file is replaced
// atomically: either the new content is in place or the old file is
// untouched. A failed save leaves the in-memory collection as it was.
func (s *Store) Save() error {
	data, err := Encode(s.todos)
	if err != nil {
		s.logger.Warn("could not encode todos", "err", err)
		return err
	}
	if err := writeAtomic(s.path, data); err != nil {
		s.logger.Warn("could not save todos", "path", s.path, "err", err)
		return err
	}
	s.logger.Debug("saved todos", "path", s.path, "count", len(s.todos))
	return nil
}

// All returns the collection in display order. The slice is a copy.
func (s *Store) All() []model.ToDo {
	out := make([]model.ToDo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.todos) }

// At returns the entry at the 0-based position i.
func (s *Store) At(i int) (model.ToDo, error) {
	if i < 0 || i >= len(s.todos) {
		return model.ToDo{}, fmt.Errorf("%w: have %d, got %d", ErrIndexOutOfRange, len(s.todos), i)
	}
	return s.todos[i], nil
}

// Get returns the first entry with the given id.
func (s *Store) Get(id uuid.UUID) (model.ToDo, bool) {
	if i := s.index(id); i >= 0 {
		return s.todos[i], true
	}
	return model.ToDo{}, false
}

// AddNew appends t. It does not check for an existing entry with t's id.
func (s *Store) AddNew(t model.ToDo) {
	s.todos = append(s.todos, t)
}

// Remove deletes every entry equal to t and reports whether any was found.
func (s *Store) Remove(t model.ToDo) bool {
	kept := s.todos[:0]
	for _, cur := range s.todos {
		if !cur.Equal(t) {
			kept = append(kept, cur)
		}
	}
	removed := len(kept) != len(s.todos)
	clear(s.todos[len(kept):])
	s.todos = kept
	return removed
}

// ReplaceOrAppend overwrites the entry equal to t in place, keeping its
// position, or appends t when there is none. It returns true for a
// replacement (an edit) and false for an append (a creation).
func (s *Store) ReplaceOrAppend(t model.ToDo) bool {
	if i := s.index(t.ID()); i >= 0 {
		s.todos[i] = t
		return true
	}
	s.todos = append(s.todos, t)
	return false
}

// Update applies fn to the first entry with the given id and reports
// whether the change was kept. A change that replaces the entry with one
// of a different id is discarded.
func (s *Store) Update(id uuid.UUID, fn func(*model.ToDo)) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	t := s.todos[i]
	fn(&t)
	if !t.Equal(s.todos[i]) {
		// fn swapped in a different entry; ids are immutable.
		return false
	}
	s.todos[i] = t
	return true
}

func (s *Store) index(id uuid.UUID) int {
	for i := range s.todos {
		if s.todos[i].ID() == id {
			return i
		}
	}
	return -1
}

func readFile(path string) ([]model.ToDo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	todos, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return todos, nil
}

// writeAtomic writes data to a temp file next to path and renames it over
// path once it is synced.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

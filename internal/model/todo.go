package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultTitle is the title given to a freshly created reminder.
const DefaultTitle = "New Reminder"

// ToDo is the domain model for a todo entry.
// Identity is the id alone: two values with the same id are the same
// entry even when their other fields differ.
type ToDo struct {
	id uuid.UUID

	Title      string
	IsComplete bool
	DueDate    time.Time
	Notes      *string // nil when the entry has no notes
}

// New returns a ToDo with a fresh random id.
func New(title string, isComplete bool, dueDate time.Time, notes *string) ToDo {
	return ToDo{
		id:         uuid.New(),
		Title:      title,
		IsComplete: isComplete,
		DueDate:    dueDate.Round(0),
		Notes:      notes,
	}
}

// NewReminder returns the default entry offered when the user creates one:
// due a day after now, not complete, no notes.
func NewReminder(now time.Time) ToDo {
	return New(DefaultTitle, false, now.Add(24*time.Hour), nil)
}

// ID returns the identifier assigned at construction.
func (t ToDo) ID() uuid.UUID { return t.id }

// Key returns the value to use when keying a map or set by entry.
// It agrees with Equal.
func (t ToDo) Key() uuid.UUID { return t.id }

// Equal reports whether t and o are the same entry.
func (t ToDo) Equal(o ToDo) bool { return t.id == o.id }

// SameFields reports whether every field of t and o matches, id included.
func SameFields(a, b ToDo) bool {
	if a.id != b.id || a.Title != b.Title || a.IsComplete != b.IsComplete {
		return false
	}
	if !a.DueDate.Equal(b.DueDate) {
		return false
	}
	switch {
	case a.Notes == nil && b.Notes == nil:
		return true
	case a.Notes == nil || b.Notes == nil:
		return false
	}
	return *a.Notes == *b.Notes
}

// NotesText returns the notes, or "" when there are none.
func (t ToDo) NotesText() string {
	if t.Notes == nil {
		return ""
	}
	return *t.Notes
}

// IsOverdue reports whether an incomplete entry is past its due date.
func (t ToDo) IsOverdue(now time.Time) bool {
	return !t.IsComplete && t.DueDate.Before(now)
}

// ErrInvalidText is returned for titles or notes that are not valid UTF-8.
// JSON would replace the bad bytes, so they could not be stored faithfully.
var ErrInvalidText = errors.New("not valid UTF-8")

// CheckText reports ErrInvalidText, naming field, when s is not valid UTF-8.
func CheckText(field, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s: %w", field, ErrInvalidText)
	}
	return nil
}

// WithNotes returns a pointer to s, or nil if s is empty.
func WithNotes(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type wireToDo struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	IsComplete bool      `json:"is_complete"`
	DueDate    time.Time `json:"due_date"`
	Notes      *string   `json:"notes,omitempty"`
}

// ErrMissingID is returned when a ToDo without an id is encoded or decoded.
var ErrMissingID = errors.New("todo: missing id")

// MarshalJSON encodes every field, id included. A zero ToDo has no id
// and is refused, since it could not be read back.
func (t ToDo) MarshalJSON() ([]byte, error) {
	if t.id == uuid.Nil {
		return nil, ErrMissingID
	}
	return json.Marshal(wireToDo{
		ID:         t.id,
		Title:      t.Title,
		IsComplete: t.IsComplete,
		DueDate:    t.DueDate,
		Notes:      t.Notes,
	})
}

// UnmarshalJSON restores a ToDo, keeping the persisted id.
func (t *ToDo) UnmarshalJSON(b []byte) error {
	var w wireToDo
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ID == uuid.Nil {
		return ErrMissingID
	}
	*t = ToDo{
		id:         w.ID,
		Title:      w.Title,
		IsComplete: w.IsComplete,
		DueDate:    w.DueDate,
		Notes:      w.Notes,
	}
	return nil
}

func (t ToDo) String() string {
	return fmt.Sprintf("%s %q", t.id, t.Title)
}

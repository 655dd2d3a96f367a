package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

var errEmptyTitle = errors.New("title cannot be empty")

type field int

const (
	fieldTitle field = iota
	fieldDue
	fieldNotes
	fieldComplete
	fieldCount
)

// detailModel edits one entry. The entry's id is kept from original, so
// saving it either replaces the stored entry or appends a new one.
type detailModel struct {
	original model.ToDo
	isNew    bool

	title    textinput.Model
	due      textinput.Model
	notes    textarea.Model
	complete bool

	focus field
	err   string
	keys  detailKeys
	help  help.Model
}

func newDetail(td model.ToDo, isNew bool) detailModel {
	title := textinput.New()
	title.Prompt = ""
	title.Placeholder = "Title"
	title.CharLimit = 200
	title.SetValue(td.Title)
	title.CursorEnd()

	due := textinput.New()
	due.Prompt = ""
	due.Placeholder = model.DueLayout
	due.CharLimit = 40
	due.SetValue(model.FormatDue(td.DueDate))

	notes := textarea.New()
	notes.Placeholder = "Notes"
	notes.ShowLineNumbers = false
	notes.SetHeight(4)
	notes.SetValue(td.NotesText())
	notes.Blur()

	d := detailModel{
		original: td,
		isNew:    isNew,
		title:    title,
		due:      due,
		notes:    notes,
		complete: td.IsComplete,
		keys:     newDetailKeys(),
		help:     help.New(),
	}
	d.title.Focus()
	return d
}

func (d *detailModel) setWidth(w int) {
	if w < 20 {
		w = 20
	}
	d.title.Width = w
	d.due.Width = w
	d.notes.SetWidth(w)
}

// result builds the edited entry. It fails while the title is empty or
// the due date does not parse.
func (d detailModel) result(now time.Time) (model.ToDo, error) {
	td := d.original
	title := strings.TrimSpace(d.title.Value())
	if title == "" {
		return td, errEmptyTitle
	}
	if err := model.CheckText("title", title); err != nil {
		return td, err
	}
	td.Title = title

	// An untouched due field keeps full precision instead of the
	// minute-rounded rendering.
	if dueText := strings.TrimSpace(d.due.Value()); dueText != model.FormatDue(d.original.DueDate) {
		due, err := model.ParseDue(dueText, now)
		if err != nil {
			return td, err
		}
		td.DueDate = due
	}

	notes := d.notes.Value()
	if err := model.CheckText("notes", notes); err != nil {
		return td, err
	}
	if strings.TrimSpace(notes) == "" {
		td.Notes = nil
	} else {
		td.Notes = &notes
	}
	td.IsComplete = d.complete
	return td, nil
}

func (d *detailModel) setFocus(f field) tea.Cmd {
	d.focus = (f + fieldCount) % fieldCount
	d.title.Blur()
	d.due.Blur()
	d.notes.Blur()
	switch d.focus {
	case fieldTitle:
		return d.title.Focus()
	case fieldDue:
		return d.due.Focus()
	case fieldNotes:
		return d.notes.Focus()
	}
	return nil
}

func (d detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, d.keys.Next):
			return d, d.setFocus(d.focus + 1)
		case key.Matches(km, d.keys.Prev):
			return d, d.setFocus(d.focus - 1)
		case d.focus == fieldComplete && key.Matches(km, d.keys.Toggle):
			d.complete = !d.complete
			return d, nil
		case km.Type == tea.KeyEnter && d.focus != fieldNotes:
			return d, d.setFocus(d.focus + 1)
		}
		d.err = ""
	}

	var cmd tea.Cmd
	switch d.focus {
	case fieldTitle:
		d.title, cmd = d.title.Update(msg)
	case fieldDue:
		d.due, cmd = d.due.Update(msg)
	case fieldNotes:
		d.notes, cmd = d.notes.Update(msg)
	}
	return d, cmd
}

func (d detailModel) label(f field, text string) string {
	if d.focus == f {
		return ui.FocusStyle.Render("> " + text)
	}
	return ui.LabelStyle.Render("  " + text)
}

func (d detailModel) view() string {
	heading := "Edit item"
	if d.isNew {
		heading = "Add new item"
	}
	if d.err != "" {
		heading += ": " + ui.ErrorStyle.Render(d.err)
	}

	box := boxUnchecked
	if d.complete {
		box = boxChecked
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(heading) + "\n\n")
	b.WriteString(d.label(fieldTitle, "Title") + "\n")
	b.WriteString(ui.InputBox(d.title.View()) + "\n")
	b.WriteString(d.label(fieldDue, "Due") + "\n")
	b.WriteString(ui.InputBox(d.due.View()) + "\n")
	b.WriteString(d.label(fieldNotes, "Notes") + "\n")
	b.WriteString(ui.InputBox(d.notes.View()) + "\n")
	b.WriteString(d.label(fieldComplete, "Done ") + " " + box + "\n\n")
	b.WriteString(ui.HelpStyle.Render(d.help.ShortHelpView(d.keys.help())))
	return b.String()
}

package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// listItem adapts a ToDo to bubbles/list.Item.
type listItem struct {
	todo model.ToDo
}

func (i listItem) FilterValue() string { return i.todo.Title }

// itemDelegate renders one line per entry.
type itemDelegate struct {
	now func() time.Time
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	td := it.todo

	box := ui.MutedStyle.Render(boxUnchecked)
	title := td.Title
	if td.IsComplete {
		box = ui.SuccessStyle.Render(boxChecked)
		title = ui.DoneStyle.Render(title)
	}
	due := ui.MutedStyle.Render(model.FormatDue(td.DueDate))
	if td.IsOverdue(d.now()) {
		due = ui.OverdueStyle.Render(model.FormatDue(td.DueDate))
	}
	notes := ""
	if td.Notes != nil {
		notes = ui.MutedStyle.Render(" ✎")
	}

	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s  %s%s", prefix, box, title, due, notes)
}

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const maxTitleWidth = 60

func renderList(w io.Writer, todos []model.ToDo, group bool, now time.Time) {
	th := ui.Current()
	d, p := stats(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(th.Title, "Todos"),
		ui.C(th.Success, th.SymDone), d,
		ui.C(th.Pending, th.SymUnchecked), p,
		ui.C(th.Accent, "Total"), len(todos),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(th.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if group {
		lines = append(lines, groupLines(todos, now)...)
	} else {
		lines = append(lines, flatLines(todos, now)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(th.Muted, "Tip: add with `tada add Buy milk`"))
	ui.Panel(w, lines)
}

func stats(todos []model.ToDo) (done, pending int) {
	for _, td := range todos {
		if td.IsComplete {
			done++
		} else {
			pending++
		}
	}
	return
}

// flatLines renders one numbered line per entry.
func flatLines(todos []model.ToDo, now time.Time) []string {
	if len(todos) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	th := ui.Current()
	out := make([]string, 0, len(todos))
	for i, td := range todos {
		out = append(out, entryLine(i+1, td, now, th))
	}
	return out
}

func entryLine(n int, td model.ToDo, now time.Time, th ui.Theme) string {
	box, color := th.BoxUnchecked, th.Muted
	if td.IsComplete {
		box, color = th.BoxChecked, th.Success
	}
	dueColor := th.Muted
	if td.IsOverdue(now) {
		dueColor = th.Error
	}
	line := fmt.Sprintf("%s %s %s  %s",
		ui.C(ui.Dim, fmt.Sprintf("%2d.", n)),
		ui.C(color, box),
		ui.Truncate(td.Title, maxTitleWidth),
		ui.C(dueColor, model.FormatDue(td.DueDate)))
	if td.Notes != nil {
		line += ui.C(th.Muted, " ✎")
	}
	return line
}

func groupLines(todos []model.ToDo, now time.Time) []string {
	th := ui.Current()
	var pend, done []string
	for i, td := range todos {
		if td.IsComplete {
			done = append(done, entryLine(i+1, td, now, th))
		} else {
			pend = append(pend, entryLine(i+1, td, now, th))
		}
	}
	section := func(name string, rows []string) []string {
		out := []string{ui.C(th.Accent, name)}
		if len(rows) == 0 {
			return append(out, ui.C(th.Muted, "(none)"))
		}
		return append(out, rows...)
	}

	var lines []string
	lines = append(lines, section("Pending", pend)...)
	lines = append(lines, "")
	lines = append(lines, section("Done", done)...)
	return lines
}

func renderDetail(w io.Writer, td model.ToDo, now time.Time) {
	th := ui.Current()
	status := ui.C(th.Pending, "pending")
	if td.IsComplete {
		status = ui.C(th.Success, "done")
	} else if td.IsOverdue(now) {
		status = ui.C(th.Error, "overdue")
	}
	notes := td.NotesText()
	if td.Notes == nil {
		notes = ui.C(th.Muted, "(none)")
	}
	fmt.Fprintf(w, "%s\n", ui.C(th.Title, td.Title))
	fmt.Fprintf(w, "  id:     %s\n", td.ID())
	fmt.Fprintf(w, "  status: %s\n", status)
	fmt.Fprintf(w, "  due:    %s\n", model.FormatDue(td.DueDate))
	fmt.Fprintf(w, "  notes:  %s\n", notes)
}

// Package tui is the interactive list and detail views. All store calls
// happen inside Update, so the store is only touched from the program loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options configures the interactive views.
type Options struct {
	Now    func() time.Time
	Logger *log.Logger
}

type screen int

const (
	screenList screen = iota
	screenDetail
)

// suspendMsg asks the model to persist and exit, e.g. on SIGTERM.
type suspendMsg struct{ sig os.Signal }

// Model is the Bubble Tea model for both screens.
type Model struct {
	store  *jsonstore.Store
	now    func() time.Time
	logger *log.Logger

	screen screen
	list   list.Model
	detail detailModel
	keys   listKeys

	status    string
	statusErr bool
	width     int
	height    int
}

// New builds the model around a loaded store.
func New(s *jsonstore.Store, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	keys := newListKeys()
	l := list.New(nil, itemDelegate{now: opts.Now}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = keys.help
	l.AdditionalFullHelpKeys = keys.help

	m := Model{
		store:  s,
		now:    opts.Now,
		logger: opts.Logger,
		list:   l,
		keys:   keys,
		width:  80,
		height: 24,
	}
	m.refresh(0)
	m.resize()
	return m
}

// Run starts the program and saves the store when it ends, whatever the
// reason: quit key, signal or context cancellation.
func Run(ctx context.Context, s *jsonstore.Store, opts Options) error {
	m := New(s, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	defer signal.Stop(sigs)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-sigs:
			p.Send(suspendMsg{sig: sig})
		case <-done:
		}
	}()

	_, err := p.Run()
	return finish(s, m.logger, err)
}

// finish saves the store once the program has ended. An interrupt is a
// normal way out; a failed save is reported either way.
func finish(s *jsonstore.Store, logger *log.Logger, runErr error) error {
	if errors.Is(runErr, tea.ErrInterrupted) || errors.Is(runErr, tea.ErrProgramKilled) {
		logger.Info("tui stopped", "reason", runErr)
		runErr = nil
	}
	if err := s.Save(); err != nil {
		logger.Warn("save on exit failed", "path", s.Path(), "err", err)
		return errors.Join(runErr, fmt.Errorf("save on exit: %w", err))
	}
	return runErr
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case suspendMsg:
		m.logger.Info("signal received, saving", "signal", msg.sig)
		m.save("saved")
		return m, tea.Quit
	}

	if m.screen == screenDetail {
		return m.updateDetail(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Quit):
			m.save("saved")
			return m, tea.Quit
		case key.Matches(km, m.keys.Toggle):
			if td, ok := m.selected(); ok {
				m.store.Update(td.ID(), func(t *model.ToDo) { t.IsComplete = !t.IsComplete })
				m.save("toggled")
				m.refresh(m.list.Index())
			}
			return m, nil
		case key.Matches(km, m.keys.Delete):
			if td, ok := m.selected(); ok {
				i := m.list.Index()
				m.store.Remove(td)
				m.save("removed")
				m.refresh(i)
			}
			return m, nil
		case key.Matches(km, m.keys.Add):
			return m.openDetail(model.NewReminder(m.now()), true)
		case key.Matches(km, m.keys.Open):
			if td, ok := m.selected(); ok {
				return m.openDetail(td, false)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.detail.keys.ForceOut):
			m.save("saved")
			return m, tea.Quit
		case key.Matches(km, m.detail.keys.Cancel):
			m.screen = screenList
			m.setStatus("discarded", false)
			return m, nil
		case key.Matches(km, m.detail.keys.Save):
			return m.commitDetail()
		}
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.update(msg)
	return m, cmd
}

func (m Model) openDetail(td model.ToDo, isNew bool) (tea.Model, tea.Cmd) {
	m.detail = newDetail(td, isNew)
	m.detail.setWidth(m.width - 10)
	m.screen = screenDetail
	m.status = ""
	return m, textinput.Blink
}

// commitDetail stores the edited entry: an entry already in the store is
// replaced in place, a new one is appended.
func (m Model) commitDetail() (tea.Model, tea.Cmd) {
	td, err := m.detail.result(m.now())
	if err != nil {
		m.detail.err = err.Error()
		return m, nil
	}
	if !m.detail.isNew && model.SameFields(td, m.detail.original) {
		m.screen = screenList
		m.setStatus("no changes", false)
		return m, nil
	}

	replaced := m.store.ReplaceOrAppend(td)
	msg := "added"
	if replaced {
		msg = "updated"
	}
	m.save(msg)
	m.screen = screenList
	m.refresh(m.indexOf(td))
	return m, nil
}

// save writes the store and records the outcome in the status line.
// A failed save leaves the session running.
func (m *Model) save(okMsg string) {
	if err := m.store.Save(); err != nil {
		m.setStatus("not saved: "+err.Error(), true)
		return
	}
	m.setStatus(okMsg, false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *Model) refresh(selected int) {
	todos := m.store.All()
	items := make([]list.Item, len(todos))
	for i, td := range todos {
		items[i] = listItem{todo: td}
	}
	m.list.SetItems(items)

	d, p := 0, 0
	for _, td := range todos {
		if td.IsComplete {
			d++
		} else {
			p++
		}
	}
	m.list.Title = "Todos   " +
		ui.SuccessStyle.Render(fmt.Sprintf("✔ %d", d)) + "  " +
		ui.PendingStyle.Render(fmt.Sprintf("• %d", p)) + "  " +
		ui.AccentStyle.Render(fmt.Sprintf("Total %d", len(todos)))

	if selected >= len(items) {
		selected = len(items) - 1
	}
	if selected < 0 {
		selected = 0
	}
	m.list.Select(selected)
}

func (m *Model) resize() {
	listHeight := m.height - 4
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)
	if m.screen == screenDetail {
		m.detail.setWidth(m.width - 10)
	}
}

func (m Model) selected() (model.ToDo, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.ToDo{}, false
	}
	return it.todo, true
}

func (m Model) indexOf(td model.ToDo) int {
	for i, t := range m.store.All() {
		if t.Equal(td) {
			return i
		}
	}
	return 0
}

// View implements tea.Model.
func (m Model) View() string {
	var content string
	if m.screen == screenDetail {
		content = m.detail.view()
	} else {
		content = m.list.View()
	}
	if m.status != "" {
		style := ui.MutedStyle
		if m.statusErr {
			style = ui.ErrorStyle
		}
		content += "\n" + style.Render(m.status)
	}
	return ui.Frame(content)
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kidplan/internal/config"
	"github.com/five82/kidplan/internal/logging"
	"github.com/five82/kidplan/internal/planner"
	"github.com/five82/kidplan/internal/prefs"
	"github.com/five82/kidplan/internal/schedule"
)

// View represents the current active view.
type View int

const (
	ViewMonth View = iota
	ViewYear
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Planner   *planner.Planner
	Config    config.Config
	ThemeName string
	ViewName  string
	PrefsPath string
	// Today overrides the current day, for tests.
	Today schedule.Date
	// Incoming is a decoded share link awaiting the user's decision.
	Incoming    schedule.Schedule
	HasIncoming bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	planner   *planner.Planner
	cfg       config.Config
	prefsPath string
	keys      keyMap

	// UI state
	theme  Theme
	view   View
	width  int
	height int
	ready  bool

	// Calendar state
	today    schedule.Date
	cursor   schedule.Date
	snapshot planner.Snapshot

	// Overlays
	modal    Modal
	showHelp bool

	// Last action result
	status    string
	statusErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	today := opts.Today
	if today.IsZero() {
		today = schedule.Today()
	}

	view := ViewMonth
	if opts.ViewName == prefs.ViewYear {
		view = ViewYear
	}

	m := Model{
		planner:   opts.Planner,
		cfg:       opts.Config,
		prefsPath: prefsPath,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		view:      view,
		today:     today,
		cursor:    today,
	}
	m.refresh()

	if opts.HasIncoming {
		m.modal = m.importPrompt(opts.Incoming)
	}
	return m
}

func (m Model) importPrompt(incoming schedule.Schedule) Modal {
	body := []string{
		fmt.Sprintf("This link carries a schedule with %d days.", len(incoming)),
		fmt.Sprintf("Replace your %d local days with it?", len(m.snapshot.Schedule)),
	}
	if m.snapshot.Dirty {
		body = append(body, "", "Your unshared changes will be lost.")
	}
	return confirmModal{
		title: "Import shared schedule?",
		body:  body,
		yes:   importDecisionMsg{accept: true, schedule: incoming},
		no:    importDecisionMsg{accept: false},
	}
}

func (m Model) quitPrompt() Modal {
	return confirmModal{
		title: "Unshared changes",
		body: []string{
			"The other parent has not received your latest edits.",
			"Quit anyway?",
		},
		yes: quitConfirmedMsg{},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case saveDayMsg:
		err := m.planner.SaveDay(msg.day, msg.parent, msg.notes, msg.rangeEnd)
		m.refresh()
		if err != nil {
			m.setStatus(err, "")
			return m, nil
		}
		days := 1
		if msg.rangeEnd != nil {
			start, end := msg.day, *msg.rangeEnd
			if end.Before(start) {
				start, end = end, start
			}
			days = len(schedule.Span(start, end))
		}
		m.setStatus(nil, fmt.Sprintf("Saved %d day(s) for %s", days, m.cfg.ParentName(msg.parent)))
		return m, nil

	case cancelEditMsg:
		m.planner.CancelEdit()
		m.refresh()
		return m, nil

	case importDecisionMsg:
		if !msg.accept {
			m.planner.DeclineImport()
			m.setStatus(nil, "Kept your local schedule")
			return m, nil
		}
		err := m.planner.ImportConfirmed(msg.schedule)
		m.refresh()
		m.setStatus(err, fmt.Sprintf("Imported %d days", len(msg.schedule)))
		return m, nil

	case quitConfirmedMsg:
		return m, tea.Quit

	case copyResultMsg:
		if m.modal != nil {
			m.modal, _, _ = m.modal.Update(msg, m.keys)
		}
		m.setStatus(msg.err, "Link copied")
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.overlay(m.modal.View(m.theme, m.width, m.height), ModalWidth)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		m.modal = next
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	m.setStatus(nil, "")

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.planner.NeedsExitConfirmation() {
			m.modal = m.quitPrompt()
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleView):
		if m.view == ViewMonth {
			m.view = ViewYear
		} else {
			m.view = ViewMonth
		}
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Share):
		return m.share()
	}

	if m.view == ViewYear {
		return m.handleYearKey(msg)
	}
	return m.handleMonthKey(msg)
}

// handleMonthKey processes keyboard input for month view.
func (m Model) handleMonthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursor = m.cursor.AddDays(-1)
	case key.Matches(msg, m.keys.Right):
		m.cursor = m.cursor.AddDays(1)
	case key.Matches(msg, m.keys.Up):
		m.cursor = m.cursor.AddDays(-7)
	case key.Matches(msg, m.keys.Down):
		m.cursor = m.cursor.AddDays(7)
	case key.Matches(msg, m.keys.PrevMonth):
		m.cursor = addMonths(m.cursor, -1)
	case key.Matches(msg, m.keys.NextMonth):
		m.cursor = addMonths(m.cursor, 1)
	case key.Matches(msg, m.keys.Today):
		m.cursor = m.today

	case key.Matches(msg, m.keys.RangeMode):
		if m.planner.ToggleRangeMode() {
			m.setStatus(nil, "Range mode: pick the first day")
		} else {
			m.setStatus(nil, "Range mode off")
		}
		m.refresh()

	case key.Matches(msg, m.keys.Escape):
		m.planner.CancelEdit()
		m.refresh()

	case key.Matches(msg, m.keys.Select):
		req, ok := m.planner.SelectDay(m.cursor)
		m.refresh()
		if ok {
			m.modal = newEditModal(req, m.cfg.ParentName)
		}
	}
	return m, nil
}

// handleYearKey processes keyboard input for year view.
func (m Model) handleYearKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursor = addMonths(m.cursor, -1)
	case key.Matches(msg, m.keys.Right):
		m.cursor = addMonths(m.cursor, 1)
	case key.Matches(msg, m.keys.Up):
		m.cursor = addMonths(m.cursor, -LayoutYearColumns)
	case key.Matches(msg, m.keys.Down):
		m.cursor = addMonths(m.cursor, LayoutYearColumns)
	case key.Matches(msg, m.keys.PrevMonth):
		m.cursor = addMonths(m.cursor, -12)
	case key.Matches(msg, m.keys.NextMonth):
		m.cursor = addMonths(m.cursor, 12)
	case key.Matches(msg, m.keys.Today):
		m.cursor = m.today
	case key.Matches(msg, m.keys.Select):
		m.view = ViewMonth
	}
	return m, nil
}

func (m Model) share() (tea.Model, tea.Cmd) {
	link, err := m.planner.Share()
	m.refresh()
	if err != nil {
		// The link is valid even when the flag could not be stored.
		logging.Warn("share completed with storage error", "error", err)
	}
	m.modal = shareModal{link: link, days: len(m.snapshot.Schedule)}
	return m, nil
}

func (m *Model) refresh() {
	if m.planner != nil {
		m.snapshot = m.planner.Snapshot()
	}
}

func (m *Model) setStatus(err error, ok string) {
	if err != nil {
		m.status = err.Error()
		m.statusErr = true
		return
	}
	m.status = ok
	m.statusErr = false
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	view := prefs.ViewMonth
	if m.view == ViewYear {
		view = prefs.ViewYear
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, View: view}); err != nil {
		logging.Warn("save prefs failed", "error", err)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n\n")

	if m.view == ViewYear {
		b.WriteString(m.renderYear())
	} else {
		b.WriteString(m.renderMonth())
		b.WriteString("\n\n")
		b.WriteString(m.renderDayDetail())
		b.WriteString("\n")
		b.WriteString(m.renderCounts())
	}

	if status := m.renderStatus(); status != "" {
		b.WriteString("\n\n")
		b.WriteString(status)
	}
	return b.String()
}

// addMonths moves d by n months, clamping the day to the target month.
func addMonths(d schedule.Date, n int) schedule.Date {
	first := schedule.NewDate(d.Year, d.Month+time.Month(n), 1)
	day := d.Day
	if last := schedule.DaysIn(first.Year, first.Month); day > last {
		day = last
	}
	return schedule.NewDate(first.Year, first.Month, day)
}

// Messages

type saveDayMsg struct {
	day      schedule.Date
	parent   schedule.Parent
	notes    string
	rangeEnd *schedule.Date
}

type cancelEditMsg struct{}

type importDecisionMsg struct {
	accept   bool
	schedule schedule.Schedule
}

type quitConfirmedMsg struct{}

type copyResultMsg struct {
	err error
}

// ErrNoPlanner is returned by Run when Options.Planner is nil.
var ErrNoPlanner = errors.New("ui: planner is required")

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Planner == nil {
		return ErrNoPlanner
	}
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	return err
}

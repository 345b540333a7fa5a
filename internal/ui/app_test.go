package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kidplan/internal/config"
	"github.com/five82/kidplan/internal/planner"
	"github.com/five82/kidplan/internal/schedule"
	"github.com/five82/kidplan/internal/share"
	"github.com/five82/kidplan/internal/sharelink"
	"github.com/five82/kidplan/internal/storage"
)

type testEnv struct {
	planner   *planner.Planner
	prefsPath string
}

func newTestEnv(t *testing.T, link string) testEnv {
	t.Helper()
	dir := t.TempDir()
	loc, err := sharelink.Parse(link)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, err := planner.New(planner.Options{
		KV:       storage.NewFileKV(filepath.Join(dir, "kidplan.toml")),
		Location: loc,
	})
	if err != nil {
		t.Fatalf("planner.New: %v", err)
	}
	return testEnv{planner: p, prefsPath: filepath.Join(dir, "prefs.toml")}
}

func (e testEnv) model(opts Options) Model {
	opts.Planner = e.planner
	opts.Config = config.Config{CarineName: "Carine", RobertName: "Robert", WeekStart: 1}
	opts.PrefsPath = e.prefsPath
	if opts.Today.IsZero() {
		opts.Today = schedule.MustParseDate("2024-03-10")
	}
	m := New(opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

// press feeds keys in order and returns the model and the last command.
func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

// deliver runs a dialog command and feeds its message back into the model.
func deliver(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command, got nil")
	}
	next, out := m.Update(cmd())
	return next.(Model), out
}

func TestEnterEditsDayUnderCursor(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/")
	m := env.model(Options{})

	m, _ = press(t, m, enterKey)
	if _, ok := m.modal.(editModal); !ok {
		t.Fatalf("modal = %T, want editModal", m.modal)
	}

	m, cmd := press(t, m, enterKey)
	if m.modal != nil {
		t.Fatalf("editor still open after confirm")
	}
	m, _ = deliver(t, m, cmd)

	got, ok := env.planner.Get(schedule.MustParseDate("2024-03-10"))
	if !ok || got.Parent != schedule.ParentCarine {
		t.Fatalf("saved day = %+v, %v; want CARINE", got, ok)
	}
	if !env.planner.Dirty() {
		t.Fatalf("save did not mark the session dirty")
	}
	if !strings.Contains(m.status, "Saved 1 day") {
		t.Fatalf("status = %q", m.status)
	}
	if view := m.View(); !strings.Contains(view, "UNSHARED CHANGES") {
		t.Fatalf("view does not show the unshared banner:\n%s", view)
	}
}

func TestEditorNotesAndParent(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/")
	m := env.model(Options{})

	m, _ = press(t, m, enterKey, runes("2"), tabKey, runes("g"), runes("y"), runes("m"))
	m, cmd := press(t, m, enterKey)
	deliver(t, m, cmd)

	got, _ := env.planner.Get(schedule.MustParseDate("2024-03-10"))
	if got.Parent != schedule.ParentRobert || got.Notes != "gym" {
		t.Fatalf("saved day = %+v, want ROBERT with notes gym", got)
	}
}

func TestEditorCancel(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/")
	m := env.model(Options{})

	m, cmd := press(t, m, enterKey, escKey)
	m, _ = deliver(t, m, cmd)
	if m.modal != nil || env.planner.Dirty() {
		t.Fatalf("cancel left modal=%T dirty=%v", m.modal, env.planner.Dirty())
	}
}

func TestRangeModeSavesWholeRange(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/")
	m := env.model(Options{})

	// Anchor on the 12th, then walk back to the 10th: the range is normalised.
	m, _ = press(t, m, runes("r"), runes("l"), runes("l"), enterKey)
	if m.modal != nil {
		t.Fatalf("first range click opened %T", m.modal)
	}
	m, _ = press(t, m, runes("h"), runes("h"), enterKey)
	edit, ok := m.modal.(editModal)
	if !ok {
		t.Fatalf("modal = %T, want editModal", m.modal)
	}
	if edit.req.Start.String() != "2024-03-10" || edit.req.End.String() != "2024-03-12" {
		t.Fatalf("range = %s..%s", edit.req.Start, edit.req.End)
	}

	m, cmd := press(t, m, runes("2"), enterKey)
	m, _ = deliver(t, m, cmd)

	c := env.planner.MonthlyCounts(2024, 3)
	if c.Robert != 3 {
		t.Fatalf("Robert days = %d, want 3", c.Robert)
	}
	if m.snapshot.Selection.Active() {
		t.Fatalf("range mode still active after save")
	}
}

func TestQuitWhileDirtyAsksFirst(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/")
	m := env.model(Options{})

	m, cmd := press(t, m, runes("q"))
	if cmd == nil || cmd() != tea.Quit() {
		t.Fatalf("clean quit did not quit")
	}

	if err := env.planner.SaveDay(schedule.MustParseDate("2024-03-11"), schedule.ParentCarine, "", nil); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}
	m, cmd = press(t, m, runes("q"))
	if cmd != nil {
		t.Fatalf("dirty quit returned a command before confirmation")
	}
	if _, ok := m.modal.(confirmModal); !ok {
		t.Fatalf("modal = %T, want confirmModal", m.modal)
	}

	m, cmd = press(t, m, runes("n"))
	if m.modal != nil || cmd != nil {
		t.Fatalf("declining quit left modal=%T cmd=%v", m.modal, cmd)
	}

	m, cmd = press(t, m, runes("q"), runes("y"))
	_, cmd = deliver(t, m, cmd)
	if cmd == nil || cmd() != tea.Quit() {
		t.Fatalf("confirmed quit did not quit")
	}
}

func TestIncomingLinkPromptsForImport(t *testing.T) {
	incoming := schedule.Schedule{
		schedule.MustParseDate("2024-03-01"): {Date: schedule.MustParseDate("2024-03-01"), Parent: schedule.ParentRobert},
	}
	env := newTestEnv(t, "https://kidplan.app/#"+share.Fragment(share.Encode(incoming)))

	decoded, ok := env.planner.DetectShareToken()
	if !ok {
		t.Fatalf("DetectShareToken returned false")
	}
	m := env.model(Options{Incoming: decoded, HasIncoming: true})
	if _, ok := m.modal.(confirmModal); !ok {
		t.Fatalf("modal = %T, want import prompt", m.modal)
	}

	m, cmd := press(t, m, runes("y"))
	m, _ = deliver(t, m, cmd)

	if len(m.snapshot.Schedule) != 1 || env.planner.Dirty() {
		t.Fatalf("import not applied: %v dirty=%v", m.snapshot.Schedule, env.planner.Dirty())
	}
	if !strings.Contains(env.planner.Link(), "https://kidplan.app/") || strings.Contains(env.planner.Link(), "data=") {
		t.Fatalf("link after import = %q, want fragment cleared", env.planner.Link())
	}
}

func TestDeclinedImportKeepsLocal(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/#"+share.Fragment(share.Encode(schedule.Schedule{})))
	if err := env.planner.SaveDay(schedule.MustParseDate("2024-03-02"), schedule.ParentCarine, "", nil); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}
	decoded, _ := env.planner.DetectShareToken()
	m := env.model(Options{Incoming: decoded, HasIncoming: true})

	m, cmd := press(t, m, runes("n"))
	m, _ = deliver(t, m, cmd)
	if len(m.snapshot.Schedule) != 1 || !env.planner.Dirty() {
		t.Fatalf("decline changed local state")
	}
}

func TestConfirmDialogsDismissWithEscAndCtrlC(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/#"+share.Fragment(share.Encode(schedule.Schedule{})))
	if err := env.planner.SaveDay(schedule.MustParseDate("2024-03-02"), schedule.ParentCarine, "", nil); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}
	decoded, _ := env.planner.DetectShareToken()

	for _, dismiss := range []tea.KeyMsg{escKey, {Type: tea.KeyCtrlC}} {
		m := env.model(Options{Incoming: decoded, HasIncoming: true})
		m, cmd := press(t, m, dismiss)
		if m.modal != nil {
			t.Fatalf("%s left the import prompt open", dismiss)
		}
		m, _ = deliver(t, m, cmd)
		if len(m.snapshot.Schedule) != 1 || !env.planner.Dirty() {
			t.Fatalf("%s on the import prompt changed local state", dismiss)
		}

		m, _ = press(t, m, runes("q"))
		if _, ok := m.modal.(confirmModal); !ok {
			t.Fatalf("modal = %T, want quit prompt", m.modal)
		}
		m, cmd = press(t, m, dismiss)
		if m.modal != nil || cmd != nil {
			t.Fatalf("%s on the quit prompt: modal=%T cmd=%v", dismiss, m.modal, cmd)
		}
	}
}

func TestShareOpensLinkDialog(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/")
	if err := env.planner.SaveDay(schedule.MustParseDate("2024-03-02"), schedule.ParentCarine, "", nil); err != nil {
		t.Fatalf("SaveDay: %v", err)
	}
	m := env.model(Options{})

	m, _ = press(t, m, runes("s"))
	sm, ok := m.modal.(shareModal)
	if !ok {
		t.Fatalf("modal = %T, want shareModal", m.modal)
	}
	if !strings.HasPrefix(sm.link, "https://kidplan.app/#data=") {
		t.Fatalf("link = %q", sm.link)
	}
	if env.planner.Dirty() || m.snapshot.Dirty {
		t.Fatalf("share did not clear the dirty flag")
	}

	m, _ = press(t, m, escKey)
	if m.modal != nil {
		t.Fatalf("esc did not close the share dialog")
	}
}

func TestThemeAndViewArePersisted(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/")
	m := env.model(Options{})

	m, _ = press(t, m, runes("T"), runes("v"))
	if m.theme.Name != "Kanagawa" || m.view != ViewYear {
		t.Fatalf("theme/view = %s/%v", m.theme.Name, m.view)
	}

	data, err := os.ReadFile(env.prefsPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "Kanagawa") || !strings.Contains(string(data), "year") {
		t.Fatalf("prefs file = %q", data)
	}
	if view := m.View(); !strings.Contains(view, "September") {
		t.Fatalf("year view missing month names:\n%s", view)
	}
}

func TestYearViewNavigation(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/")
	m := env.model(Options{ViewName: "year"})

	m, _ = press(t, m, runes("j"), runes("l"))
	if m.cursor.Month != 7 {
		t.Fatalf("cursor month = %v, want July", m.cursor.Month)
	}
	m, _ = press(t, m, enterKey)
	if m.view != ViewMonth {
		t.Fatalf("enter in year view did not open the month")
	}
}

func TestHelpOverlay(t *testing.T) {
	env := newTestEnv(t, "https://kidplan.app/")
	m := env.model(Options{})

	m, _ = press(t, m, runes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m, _ = press(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/five82/kidplan/internal/audit"
	"github.com/five82/kidplan/internal/logging"
	"github.com/five82/kidplan/internal/pattern"
	"github.com/five82/kidplan/internal/rangesel"
	"github.com/five82/kidplan/internal/schedule"
	"github.com/five82/kidplan/internal/share"
	"github.com/five82/kidplan/internal/sharelink"
	"github.com/five82/kidplan/internal/state"
	"github.com/five82/kidplan/internal/storage"
)

// Options configures a Planner.
type Options struct {
	KV       storage.KV
	Location sharelink.Location
	// Journal is optional; nil disables the edit history.
	Journal *audit.Journal
	// WarnAfter is the number of consecutive failed writes before storage
	// is reported degraded. Zero uses the tracker default.
	WarnAfter int
}

// Snapshot is what a presentation layer needs to draw one frame.
type Snapshot struct {
	Schedule  schedule.Schedule
	Dirty     bool
	Selection rangesel.Selection
	Storage   state.Snapshot
}

// EditRequest asks the presentation layer to open the edit surface for a day
// or a range. Current holds the existing record of Start, if any, to prefill
// the form.
type EditRequest struct {
	rangesel.Request
	Current  schedule.Assignment
	Existing bool
}

// RangeEnd returns the end day to pass back to SaveDay, or nil for a single
// day.
func (r EditRequest) RangeEnd() *schedule.Date {
	if !r.IsRange() {
		return nil
	}
	end := r.End
	return &end
}

// Planner is one editing session over a persisted schedule.
type Planner struct {
	mu        sync.Mutex
	kv        storage.KV
	loc       sharelink.Location
	journal   *audit.Journal
	store     *schedule.Store
	tracker   *state.Tracker
	selection rangesel.Selection
}

// New restores the schedule and the unshared flag from opts.KV. Unreadable or
// corrupt stored data is logged and the session starts empty and clean.
func New(opts Options) (*Planner, error) {
	if opts.KV == nil {
		return nil, errors.New("planner: storage is required")
	}
	if opts.Location == nil {
		return nil, errors.New("planner: share location is required")
	}

	tracker, err := state.NewTracker(opts.KV, opts.WarnAfter)
	if err != nil {
		logging.Warn("unshared flag unreadable, starting clean", "error", err)
	}

	p := &Planner{
		kv:      opts.KV,
		loc:     opts.Location,
		journal: opts.Journal,
		store:   schedule.NewStore(loadSchedule(opts.KV)),
		tracker: tracker,
	}
	logging.Info("planner ready", "days", p.store.Len(), "dirty", tracker.Dirty())
	return p, nil
}

func loadSchedule(kv storage.KV) schedule.Schedule {
	raw, ok, err := kv.ReadString(storage.KeySchedule)
	if err != nil {
		logging.Error("read stored schedule", err)
		return nil
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var s schedule.Schedule
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		logging.Error("stored schedule is corrupt, starting empty", err, "bytes", len(raw))
		return nil
	}
	if err := s.Validate(); err != nil {
		logging.Error("stored schedule is invalid, starting empty", err)
		return nil
	}
	return s
}

// Snapshot returns a copy of the session state.
func (p *Planner) Snapshot() Snapshot {
	p.mu.Lock()
	sel := p.selection
	p.mu.Unlock()

	tracked := p.tracker.Snapshot()
	return Snapshot{
		Schedule:  p.store.Snapshot(),
		Dirty:     tracked.Dirty,
		Selection: sel,
		Storage:   tracked,
	}
}

// Get returns the record for day.
func (p *Planner) Get(day schedule.Date) (schedule.Assignment, bool) {
	return p.store.Get(day)
}

// Dirty reports whether there are unshared changes.
func (p *Planner) Dirty() bool {
	return p.tracker.Dirty()
}

// NeedsExitConfirmation reports whether leaving now would lose unshared edits.
func (p *Planner) NeedsExitConfirmation() bool {
	return p.tracker.NeedsExitConfirmation()
}

// Selection returns the current range selection.
func (p *Planner) Selection() rangesel.Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selection
}

// SelectDay applies a day click. It returns an edit request when the edit
// surface should open: always outside range mode, and on the second click
// inside it.
func (p *Planner) SelectDay(day schedule.Date) (EditRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, req, ok := p.selection.Click(day)
	p.selection = next
	if !ok {
		return EditRequest{}, false
	}
	current, existing := p.store.Get(req.Start)
	return EditRequest{Request: req, Current: current, Existing: existing}, true
}

// ToggleRangeMode switches range mode and returns whether it is now on.
func (p *Planner) ToggleRangeMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = p.selection.Toggle()
	return p.selection.Active()
}

// CancelEdit closes the edit surface without saving.
func (p *Planner) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = p.selection.Cancel()
}

// SaveDay assigns parent and notes to day, or to every day from day through
// rangeEnd when rangeEnd is set. A reversed pair is reordered. The change is
// applied and the session marked dirty even if persisting it fails; the
// write error is returned and counted.
func (p *Planner) SaveDay(day schedule.Date, parent schedule.Parent, notes string, rangeEnd *schedule.Date) error {
	if !parent.Valid() {
		return fmt.Errorf("save %s: invalid parent %q", day, parent)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	before := p.store.Snapshot()
	var days []schedule.Date
	if rangeEnd == nil {
		p.store.UpsertSingle(day, parent, notes)
		days = []schedule.Date{day}
	} else {
		start, end := day, *rangeEnd
		if end.Before(start) {
			start, end = end, start
		}
		p.store.UpsertRange(start, end, parent, notes)
		days = schedule.Span(start, end)
	}
	p.selection = p.selection.Commit()

	logging.Info("days saved", "from", days[0], "to", days[len(days)-1], "parent", parent)
	return p.commitEdit(before, days)
}

// ApplyPattern assigns parent and notes to every day matched by an RRULE
// between from and until inclusive. It returns the days assigned.
func (p *Planner) ApplyPattern(rule string, from, until schedule.Date, parent schedule.Parent, notes string) ([]schedule.Date, error) {
	if !parent.Valid() {
		return nil, fmt.Errorf("apply pattern: invalid parent %q", parent)
	}
	days, err := pattern.Expand(rule, from, until)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	before := p.store.Snapshot()
	for _, day := range days {
		p.store.UpsertSingle(day, parent, notes)
	}
	p.selection = p.selection.Commit()

	logging.Info("pattern applied", "rule", rule, "days", len(days), "parent", parent)
	return days, p.commitEdit(before, days)
}

// commitEdit marks the session dirty, persists the schedule and journals the
// changed days. Callers hold p.mu.
func (p *Planner) commitEdit(before schedule.Schedule, days []schedule.Date) error {
	flagErr := p.tracker.MarkDirty()
	dataErr := p.persist()
	p.journalChanges(before, days)
	return errors.Join(dataErr, flagErr)
}

// Share encodes the whole schedule, writes it into the location fragment and
// marks the session clean. It returns the shareable link.
func (p *Planner) Share() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	token := share.Encode(p.store.Snapshot())
	p.loc.SetFragment(share.Fragment(token))
	err := p.tracker.MarkShared()
	if err != nil {
		logging.Error("persist shared flag", err)
	}

	link := linkOf(p.loc)
	logging.Info("schedule shared", "days", p.store.Len(), "token_bytes", len(token))
	return link, err
}

// Link returns the current location as a link.
func (p *Planner) Link() string {
	return linkOf(p.loc)
}

func linkOf(loc sharelink.Location) string {
	if s, ok := loc.(fmt.Stringer); ok {
		return s.String()
	}
	fragment, _ := loc.ReadFragment()
	return "#" + fragment
}

// DetectShareToken looks for a share token in the location fragment and
// decodes it. Nothing is applied; a bad token is logged and ignored.
func (p *Planner) DetectShareToken() (schedule.Schedule, bool) {
	fragment, ok := p.loc.ReadFragment()
	if !ok {
		return nil, false
	}
	token, ok := share.TokenFromFragment(fragment)
	if !ok {
		return nil, false
	}
	decoded, err := share.Decode(token)
	if err != nil {
		var derr *share.DecodeError
		kind := "unknown"
		if errors.As(err, &derr) {
			kind = derr.Kind.String()
		}
		logging.Warn("ignoring share link", "kind", kind, "error", err)
		return nil, false
	}
	logging.Info("share link detected", "days", len(decoded))
	return decoded, true
}

// ImportConfirmed replaces the local schedule with an imported one, marks the
// session clean and removes the token from the location.
func (p *Planner) ImportConfirmed(imported schedule.Schedule) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	before := p.store.Snapshot()
	p.store.ReplaceAll(imported)
	// A half-built range refers to the replaced schedule.
	p.selection = p.selection.Cancel()

	flagErr := p.tracker.MarkImported()
	p.loc.ClearFragment()
	dataErr := p.persist()

	after := p.store.Snapshot()
	p.journalChanges(before, unionDays(before, after))

	logging.Info("schedule imported", "days", len(after), "replaced", len(before))
	return errors.Join(dataErr, flagErr)
}

// DeclineImport leaves the schedule, the dirty flag and the location as they
// are.
func (p *Planner) DeclineImport() {
	logging.Info("share link import declined")
}

// MonthlyCounts counts each parent's days in a month.
func (p *Planner) MonthlyCounts(year int, month time.Month) schedule.Counts {
	return schedule.MonthlyCounts(p.store.Snapshot(), year, month)
}

// YearSummary returns per-month counts for a year.
func (p *Planner) YearSummary(year int) [12]schedule.Counts {
	return schedule.YearSummary(p.store.Snapshot(), year)
}

// History returns the latest n journal entries, oldest first.
func (p *Planner) History(n int) ([]audit.Entry, error) {
	if p.journal == nil {
		return nil, nil
	}
	return p.journal.Recent(n)
}

// persist writes the schedule and feeds the result to the tracker. Callers
// hold p.mu.
func (p *Planner) persist() error {
	data, err := json.Marshal(p.store.Snapshot())
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	err = p.kv.WriteString(storage.KeySchedule, string(data))
	p.tracker.RecordWrite(err)
	if err != nil {
		logging.Error("persist schedule", err, "failures", p.tracker.Snapshot().ConsecutiveFailures)
		return fmt.Errorf("persist schedule: %w", err)
	}
	return nil
}

func (p *Planner) journalChanges(before schedule.Schedule, days []schedule.Date) {
	if p.journal == nil {
		return
	}
	entries := p.journal.Diff(before, p.store.Snapshot(), days)
	if len(entries) == 0 {
		return
	}
	if err := p.journal.Append(entries...); err != nil {
		logging.Warn("journal append failed", "error", err, "entries", len(entries))
	}
}

func unionDays(a, b schedule.Schedule) []schedule.Date {
	seen := make(map[schedule.Date]struct{}, len(a)+len(b))
	days := make([]schedule.Date, 0, len(a)+len(b))
	for _, s := range []schedule.Schedule{a, b} {
		for day := range s {
			if _, ok := seen[day]; ok {
				continue
			}
			seen[day] = struct{}{}
			days = append(days, day)
		}
	}
	schedule.SortDates(days)
	return days
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kidplan/internal/planner"
	"github.com/five82/kidplan/internal/schedule"
)

const (
	editFocusParent = iota
	editFocusNotes
)

// editModal picks a parent and notes for a day or a range.
type editModal struct {
	req       planner.EditRequest
	names     func(schedule.Parent) string
	parentIdx int
	focus     int
	notes     textinput.Model
}

func newEditModal(req planner.EditRequest, names func(schedule.Parent) string) editModal {
	notes := textinput.New()
	notes.Placeholder = "school pickup, handover time..."
	notes.CharLimit = 200
	notes.Width = ModalWidth - 8

	idx := 0
	if req.Existing {
		notes.SetValue(req.Current.Notes)
		for i, p := range schedule.Parents {
			if p == req.Current.Parent {
				idx = i
			}
		}
	}

	return editModal{req: req, names: names, parentIdx: idx, notes: notes}
}

func (e editModal) parent() schedule.Parent {
	return schedule.Parents[e.parentIdx]
}

func (e editModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if e.focus == editFocusNotes {
			var cmd tea.Cmd
			e.notes, cmd = e.notes.Update(msg)
			return e, cmd, false
		}
		return e, nil, false
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return e, emit(cancelEditMsg{}), true
	case key.Matches(keyMsg, keys.Confirm):
		return e, emit(saveDayMsg{
			day:      e.req.Start,
			parent:   e.parent(),
			notes:    strings.TrimSpace(e.notes.Value()),
			rangeEnd: e.req.RangeEnd(),
		}), true
	case key.Matches(keyMsg, keys.NextField), key.Matches(keyMsg, keys.PrevField):
		return e.toggleFocus(), nil, false
	}

	if e.focus == editFocusNotes {
		var cmd tea.Cmd
		e.notes, cmd = e.notes.Update(msg)
		return e, cmd, false
	}

	switch {
	case key.Matches(keyMsg, keys.Left), key.Matches(keyMsg, keys.Up):
		e.parentIdx = (e.parentIdx + len(schedule.Parents) - 1) % len(schedule.Parents)
	case key.Matches(keyMsg, keys.Right), key.Matches(keyMsg, keys.Down):
		e.parentIdx = (e.parentIdx + 1) % len(schedule.Parents)
	default:
		switch keyMsg.String() {
		case "1", "2", "3":
			e.parentIdx = int(keyMsg.String()[0] - '1')
		}
	}
	return e, nil, false
}

func (e editModal) toggleFocus() editModal {
	if e.focus == editFocusParent {
		e.focus = editFocusNotes
		e.notes.Focus()
	} else {
		e.focus = editFocusParent
		e.notes.Blur()
	}
	return e
}

func (e editModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.AccentText.Bold(true).Render(e.title()))
	b.WriteString("\n\n")

	label := styles.MutedText
	if e.focus == editFocusParent {
		label = styles.Text.Bold(true)
	}
	b.WriteString(label.Render("With"))
	b.WriteString("\n")
	for i, p := range schedule.Parents {
		name := fmt.Sprintf(" %d %s ", i+1, e.names(p))
		if i == e.parentIdx {
			b.WriteString(styles.ParentStyle(p).Bold(true).Render(name))
		} else {
			b.WriteString(styles.FaintText.Render(name))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	label = styles.MutedText
	if e.focus == editFocusNotes {
		label = styles.Text.Bold(true)
	}
	b.WriteString(label.Render("Notes"))
	b.WriteString("\n")
	b.WriteString(e.notes.View())
	b.WriteString("\n\n")

	b.WriteString(styles.FaintText.Render("tab switch field · enter save · esc cancel"))
	return b.String()
}

func (e editModal) title() string {
	if !e.req.IsRange() {
		return "Edit " + e.req.Start.Time().Format("Mon 2 Jan 2006")
	}
	return fmt.Sprintf("Edit %s → %s (%d days)",
		e.req.Start.Time().Format("2 Jan"),
		e.req.End.Time().Format("2 Jan 2006"),
		e.req.Days())
}

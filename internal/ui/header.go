package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the title bar with the shown period and any warnings.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	period := m.cursor.Time().Format("January 2006")
	if m.view == ViewYear {
		period = fmt.Sprintf("%d", m.cursor.Year)
	}

	parts := []string{
		bg.Render("kidplan", styles.Logo),
		bg.Render(period, styles.Text.Bold(true)),
	}

	if m.snapshot.Dirty {
		parts = append(parts, bg.Render("UNSHARED CHANGES", styles.WarningText.Bold(true)))
	}
	if m.snapshot.Selection.Active() {
		parts = append(parts, bg.Render(m.rangeHint(), styles.InfoText))
	}
	if m.snapshot.Storage.StorageDegraded() {
		parts = append(parts, bg.Render(
			fmt.Sprintf("STORAGE FAILING (%d writes)", m.snapshot.Storage.ConsecutiveFailures),
			styles.DangerText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

func (m Model) rangeHint() string {
	if anchor, ok := m.snapshot.Selection.Anchor(); ok {
		return "RANGE from " + anchor.Time().Format("2 Jan") + ", pick end day"
	}
	return "RANGE pick start day"
}

// renderCommandBar renders the key hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	bindings := m.keys.ShortHelp()
	segments := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments,
			bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render(firstKey(m.keys.CycleTheme), styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatus renders the last action result under the calendar.
func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	styles := m.theme.Styles()
	if m.statusErr {
		return styles.DangerText.Render(m.status)
	}
	return styles.SuccessText.Render(m.status)
}

func firstKey(b key.Binding) string {
	if keys := b.Keys(); len(keys) > 0 {
		return keys[0]
	}
	return ""
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kidplan/internal/schedule"
)

// monthGrid returns the weeks covering a month, each a row of seven days
// starting on weekStart. Leading and trailing cells belong to the
// neighbouring months.
func monthGrid(year int, month time.Month, weekStart time.Weekday) [][]schedule.Date {
	first := schedule.NewDate(year, month, 1)
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	cells := offset + schedule.DaysIn(year, month)
	rows := (cells + 6) / 7

	start := first.AddDays(-offset)
	grid := make([][]schedule.Date, rows)
	for r := range grid {
		grid[r] = make([]schedule.Date, 7)
		for c := range grid[r] {
			grid[r][c] = start.AddDays(r*7 + c)
		}
	}
	return grid
}

// weekdayLabels returns the column headings for a week starting on weekStart.
func weekdayLabels(weekStart time.Weekday) []string {
	labels := make([]string, 7)
	for i := range labels {
		labels[i] = time.Weekday((int(weekStart) + i) % 7).String()[:3]
	}
	return labels
}

func (m Model) cellWidth() int {
	if m.width > 0 && m.width < LayoutCompactWidth {
		return CompactCellWidth
	}
	return CellWidth
}

// renderMonth renders the month containing the cursor.
func (m Model) renderMonth() string {
	styles := m.theme.Styles()
	width := m.cellWidth()
	compact := width == CompactCellWidth

	year, month := m.cursor.Year, m.cursor.Month
	var rows []string

	var heading []string
	for _, label := range weekdayLabels(m.cfg.WeekStart) {
		heading = append(heading, styles.MutedText.Width(width).Align(lipgloss.Center).Render(label))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, heading...))

	for _, week := range monthGrid(year, month, m.cfg.WeekStart) {
		cells := make([]string, 0, len(week))
		for _, day := range week {
			cells = append(cells, m.renderCell(day, width, compact, styles))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(day schedule.Date, width int, compact bool, styles Styles) string {
	a, assigned := m.snapshot.Schedule[day]

	style := styles.ParentStyle(schedule.ParentNone)
	if assigned {
		style = styles.ParentStyle(a.Parent)
	}
	if day.Month != m.cursor.Month {
		style = styles.SurfaceAlt
	}
	if m.snapshot.Selection.Contains(day) {
		style = styles.InRange
	}
	if day == m.cursor {
		style = styles.Selected
	}
	style = style.Width(width).Padding(0, 1)

	number := fmt.Sprintf("%2d", day.Day)
	if day == m.today {
		number += "•"
	}
	if assigned && a.Notes != "" {
		number += "*"
	}
	if compact {
		return style.Height(1).Render(number)
	}

	label := ""
	if assigned && day.Month == m.cursor.Month {
		label = truncate(m.cfg.ParentName(a.Parent), width-2)
		if a.Parent == schedule.ParentNone {
			label = "·"
		}
	}
	return style.Height(2).Render(number + "\n" + label)
}

// renderDayDetail describes the day under the cursor.
func (m Model) renderDayDetail() string {
	styles := m.theme.Styles()
	parts := []string{styles.Text.Bold(true).Render(m.cursor.Time().Format("Monday 2 January 2006"))}

	a, ok := m.snapshot.Schedule[m.cursor]
	switch {
	case !ok:
		parts = append(parts, styles.FaintText.Render("not planned"))
	default:
		parts = append(parts, styles.ParentText(a.Parent).Render(m.cfg.ParentName(a.Parent)))
		if a.Notes != "" {
			parts = append(parts, styles.MutedText.Render(truncate(a.Notes, 60)))
		}
	}
	return strings.Join(parts, "  ")
}

// renderCounts renders the per-parent tally for the cursor's month.
func (m Model) renderCounts() string {
	styles := m.theme.Styles()
	c := schedule.MonthlyCounts(m.snapshot.Schedule, m.cursor.Year, m.cursor.Month)
	open := schedule.DaysIn(m.cursor.Year, m.cursor.Month) - c.Total()

	return strings.Join([]string{
		styles.ParentText(schedule.ParentCarine).Render(fmt.Sprintf("%s %d", m.cfg.ParentName(schedule.ParentCarine), c.Carine)),
		styles.ParentText(schedule.ParentRobert).Render(fmt.Sprintf("%s %d", m.cfg.ParentName(schedule.ParentRobert), c.Robert)),
		styles.FaintText.Render(fmt.Sprintf("open %d", open)),
	}, styles.FaintText.Render("  ·  "))
}

// renderYear renders twelve month blocks with their split bars.
func (m Model) renderYear() string {
	styles := m.theme.Styles()
	summary := schedule.YearSummary(m.snapshot.Schedule, m.cursor.Year)

	blocks := make([]string, 0, 12)
	for i, c := range summary {
		month := time.Month(i + 1)
		title := styles.Text.Bold(true).Render(month.String())
		if month == m.cursor.Month {
			title = styles.Selected.Padding(0, 1).Render(month.String())
		}
		line := fmt.Sprintf("%s %d  %s %d",
			initial(m.cfg.ParentName(schedule.ParentCarine)), c.Carine,
			initial(m.cfg.ParentName(schedule.ParentRobert)), c.Robert)
		block := lipgloss.JoinVertical(lipgloss.Left,
			title,
			styles.MutedText.Render(line),
			m.splitBar(c, schedule.DaysIn(m.cursor.Year, month), styles),
		)
		blocks = append(blocks, lipgloss.NewStyle().Width(YearBarWidth+4).MarginBottom(1).Render(block))
	}

	var rows []string
	for i := 0; i < len(blocks); i += LayoutYearColumns {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks[i:i+LayoutYearColumns]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// splitBar draws a bar of YearBarWidth cells proportioned by each parent's
// share of the month.
func (m Model) splitBar(c schedule.Counts, days int, styles Styles) string {
	carine, robert := barWidths(c, days, YearBarWidth)
	rest := YearBarWidth - carine - robert
	return styles.ParentText(schedule.ParentCarine).Render(strings.Repeat("█", carine)) +
		styles.ParentText(schedule.ParentRobert).Render(strings.Repeat("█", robert)) +
		styles.FaintText.Render(strings.Repeat("░", rest))
}

func barWidths(c schedule.Counts, days, width int) (carine, robert int) {
	if days <= 0 || width <= 0 {
		return 0, 0
	}
	carine = c.Carine * width / days
	robert = c.Robert * width / days
	if carine+robert > width {
		robert = width - carine
	}
	return carine, robert
}

func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return "?"
}

package ui

import (
	"testing"
	"time"

	"github.com/five82/kidplan/internal/schedule"
)

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		weekStart time.Weekday
		rows      int
		first     string
		last      string
	}{
		{"march 2024 monday", 2024, time.March, time.Monday, 5, "2024-02-26", "2024-03-31"},
		{"march 2024 sunday", 2024, time.March, time.Sunday, 6, "2024-02-25", "2024-04-06"},
		{"february 2015 fits four weeks", 2015, time.February, time.Sunday, 4, "2015-02-01", "2015-02-28"},
		{"leap february", 2024, time.February, time.Monday, 5, "2024-01-29", "2024-03-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := monthGrid(tt.year, tt.month, tt.weekStart)
			if len(grid) != tt.rows {
				t.Fatalf("rows = %d, want %d", len(grid), tt.rows)
			}
			if got := grid[0][0].String(); got != tt.first {
				t.Fatalf("first cell = %s, want %s", got, tt.first)
			}
			last := grid[len(grid)-1]
			if got := last[6].String(); got != tt.last {
				t.Fatalf("last cell = %s, want %s", got, tt.last)
			}
			for _, week := range grid {
				if week[0].Weekday() != tt.weekStart {
					t.Fatalf("week starts on %v, want %v", week[0].Weekday(), tt.weekStart)
				}
			}
		})
	}
}

func TestWeekdayLabels(t *testing.T) {
	labels := weekdayLabels(time.Monday)
	if labels[0] != "Mon" || labels[6] != "Sun" {
		t.Fatalf("weekdayLabels(Monday) = %v", labels)
	}
	if labels := weekdayLabels(time.Sunday); labels[0] != "Sun" || labels[6] != "Sat" {
		t.Fatalf("weekdayLabels(Sunday) = %v", labels)
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		from string
		n    int
		want string
	}{
		{"2024-01-31", 1, "2024-02-29"},
		{"2023-03-31", -1, "2023-02-28"},
		{"2024-12-15", 1, "2025-01-15"},
		{"2024-01-10", -12, "2023-01-10"},
		{"2024-05-20", 0, "2024-05-20"},
	}
	for _, tt := range tests {
		if got := addMonths(schedule.MustParseDate(tt.from), tt.n).String(); got != tt.want {
			t.Fatalf("addMonths(%s, %d) = %s, want %s", tt.from, tt.n, got, tt.want)
		}
	}
}

func TestBarWidths(t *testing.T) {
	tests := []struct {
		counts       schedule.Counts
		days         int
		carine, robe int
	}{
		{schedule.Counts{Carine: 15, Robert: 15}, 30, 10, 10},
		{schedule.Counts{Carine: 31}, 31, 20, 0},
		{schedule.Counts{}, 30, 0, 0},
		{schedule.Counts{Carine: 1, Robert: 1}, 0, 0, 0},
	}
	for _, tt := range tests {
		c, r := barWidths(tt.counts, tt.days, 20)
		if c != tt.carine || r != tt.robe {
			t.Fatalf("barWidths(%+v, %d) = %d/%d, want %d/%d", tt.counts, tt.days, c, r, tt.carine, tt.robe)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  Carine  ", 10); got != "Carine" {
		t.Fatalf("truncate = %q, want Carine", got)
	}
	if got := truncate("Grandparents", 9); got != "Grandp..." {
		t.Fatalf("truncate = %q, want Grandp...", got)
	}
	if got := truncate("Robert", 2); got != "Ro" {
		t.Fatalf("truncate = %q, want Ro", got)
	}
}

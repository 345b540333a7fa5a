package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/kidplan/internal/schedule"
	"github.com/five82/kidplan/internal/share"
)

func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := "data_dir = \"" + filepath.Join(dir, "data") + "\"\n" +
		"log_file = \"" + filepath.Join(dir, "kidplan.log") + "\"\n" +
		"user = \"tester\"\n" + extra
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestOpen_PersistsAcrossSessions(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := writeConfig(t, dir, "storage = \""+backend+"\"\n")

			s, err := Open(Options{ConfigPath: cfgPath})
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			day := schedule.MustParseDate("2024-03-10")
			if err := s.Planner.SaveDay(day, schedule.ParentCarine, "", nil); err != nil {
				t.Fatalf("SaveDay: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			s, err = Open(Options{ConfigPath: cfgPath})
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer s.Close()
			got, ok := s.Planner.Get(day)
			if !ok || got.Parent != schedule.ParentCarine {
				t.Fatalf("Get after reopen = %+v, %v; want CARINE", got, ok)
			}
			if !s.Planner.Dirty() {
				t.Fatalf("dirty flag did not survive the restart")
			}

			entries, err := s.Planner.History(10)
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(entries) != 1 || entries[0].User != "tester" {
				t.Fatalf("History = %+v, want one entry by tester", entries)
			}
		})
	}
}

func TestOpen_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(Options{ConfigPath: writeConfig(t, dir, "")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()

	data, err := os.ReadFile(filepath.Join(dir, "kidplan.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "session opened") {
		t.Fatalf("log file = %q", data)
	}
}

func TestOpen_StartLinkIsDetected(t *testing.T) {
	dir := t.TempDir()
	shared := schedule.Schedule{
		schedule.MustParseDate("2024-03-01"): {Date: schedule.MustParseDate("2024-03-01"), Parent: schedule.ParentRobert},
	}
	link := "https://kidplan.app/#" + share.Fragment(share.Encode(shared))

	s, err := Open(Options{ConfigPath: writeConfig(t, dir, ""), OpenLink: link})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	got, ok := s.Planner.DetectShareToken()
	if !ok || len(got) != 1 {
		t.Fatalf("DetectShareToken = %v, %v", got, ok)
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		link  string
		want  string
	}{
		{"bad config", "storage = \"redis\"\n", "", "load config"},
		{"relative link", "", "kidplan/#data=abc", "absolute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := Open(Options{ConfigPath: writeConfig(t, dir, tt.extra), OpenLink: tt.link})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Open error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

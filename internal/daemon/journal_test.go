package daemon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/retroshell/internal/wm"
)

func testEvent(kind wm.EventKind) wm.Event {
	return wm.Event{
		Kind: kind,
		ID:   "notepad-1",
		Snapshot: wm.Snapshot{
			Desktop: wm.DefaultDesktop,
			Windows: []wm.Record{{
				ID:       "notepad-1",
				AppID:    "notepad",
				Title:    "Untitled - Notepad",
				Geometry: wm.Geometry{X: 100, Y: 50, Width: 500, Height: 400},
			}},
		},
	}
}

func TestJournal_Disabled(t *testing.T) {
	j, err := NewJournal(JournalConfig{Enabled: false, FilePath: filepath.Join(t.TempDir(), "x.log")})
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	j.Record(testEvent(wm.EventOpened))
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	var nilJournal *Journal
	nilJournal.Record(testEvent(wm.EventOpened))
}

func TestJournal_FormatAndLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	j, err := NewJournal(JournalConfig{Enabled: true, Level: LevelInfo, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	j.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

	j.Record(testEvent(wm.EventOpened))
	j.Record(testEvent(wm.EventUpdated))
	desktop := testEvent(wm.EventDesktop)
	desktop.ID = ""
	j.Record(desktop)
	j.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := strings.Join([]string{
		`2024-03-01 09:30:00 [OPENED] id=notepad-1 app=notepad title="Untitled - Notepad" x=100 y=50 w=500 h=400 windows=1`,
		`2024-03-01 09:30:00 [DESKTOP] width=1024 height=736 windows=1`,
		"",
	}, "\n")
	if string(data) != want {
		t.Fatalf("unexpected journal:\n%s\nwant:\n%s", data, want)
	}
}

func TestJournal_Rotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	j, err := NewJournal(JournalConfig{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	defer j.Close()

	j.Record(testEvent(wm.EventOpened))
	j.currentSize = 1024 * 1024
	j.Record(testEvent(wm.EventFocused))

	rotated, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	if !strings.Contains(string(rotated), "[OPENED]") {
		t.Fatalf("rotated file missing first entry: %s", rotated)
	}
	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(current), "[FOCUSED]") || strings.Contains(string(current), "[OPENED]") {
		t.Fatalf("unexpected current file: %s", current)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJournal_Reconfigure(t *testing.T) {
	dir := t.TempDir()
	j, err := NewJournal(JournalConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewJournal: %v", err)
	}
	defer j.Close()

	first := filepath.Join(dir, "first.log")
	if err := j.Reconfigure(JournalConfig{Enabled: true, Level: LevelInfo, FilePath: first, MaxSizeMB: 1, MaxFiles: 2}); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	j.Record(testEvent(wm.EventOpened))

	second := filepath.Join(dir, "second.log")
	if err := j.Reconfigure(JournalConfig{Enabled: true, Level: LevelDebug, FilePath: second, MaxSizeMB: 1, MaxFiles: 2}); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	j.Record(testEvent(wm.EventUpdated))

	if err := j.Reconfigure(JournalConfig{Enabled: false}); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	j.Record(testEvent(wm.EventClosed))

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first: %v", err)
	}
	if !strings.Contains(string(data), "[OPENED]") || strings.Contains(string(data), "[UPDATED]") {
		t.Fatalf("unexpected first journal: %s", data)
	}
	data, err = os.ReadFile(second)
	if err != nil {
		t.Fatalf("read second: %v", err)
	}
	if !strings.Contains(string(data), "[UPDATED]") || strings.Contains(string(data), "[CLOSED]") {
		t.Fatalf("unexpected second journal: %s", data)
	}

	// A path that cannot be opened keeps the journal as it was.
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := j.Reconfigure(JournalConfig{Enabled: true, FilePath: filepath.Join(blocker, "x.log")}); err == nil {
		t.Fatalf("expected error for unusable path")
	}
}

package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/retroshell/internal/config"
	"github.com/1broseidon/retroshell/internal/wm"
)

// LogLevel defines the journal verbosity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// eventLevel returns the journal level for a window event. Geometry updates
// arrive on every drag step, so they are debug only.
func eventLevel(kind wm.EventKind) LogLevel {
	switch kind {
	case wm.EventUpdated:
		return LevelDebug
	default:
		return LevelInfo
	}
}

// JournalConfig holds configuration for the window action journal.
type JournalConfig struct {
	Enabled   bool
	Level     LogLevel
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// JournalConfigFrom converts the logging section of the config.
func JournalConfigFrom(cfg *config.Config) JournalConfig {
	lc := cfg.GetLoggingConfig()
	return JournalConfig{
		Enabled:   lc.Enabled,
		Level:     ParseLogLevel(lc.Level),
		FilePath:  lc.File,
		MaxSizeMB: lc.MaxSizeMB,
		MaxFiles:  lc.MaxFiles,
	}
}

// Journal appends one line per window event to a size-rotated file.
type Journal struct {
	mu          sync.Mutex
	file        *os.File
	config      JournalConfig
	currentSize int64
	now         func() time.Time
}

// NewJournal opens the journal file. A disabled journal is a valid no-op.
func NewJournal(cfg JournalConfig) (*Journal, error) {
	f, size, err := openJournal(cfg)
	if err != nil {
		return nil, err
	}
	return &Journal{
		file:        f,
		config:      cfg,
		currentSize: size,
		now:         time.Now,
	}, nil
}

// openJournal returns a nil file when cfg is disabled.
func openJournal(cfg JournalConfig) (*os.File, int64, error) {
	if !cfg.Enabled {
		return nil, 0, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, 0, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open journal %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat journal: %w", err)
	}
	return f, stat.Size(), nil
}

// Reconfigure switches the journal to cfg, reopening the file. On error
// the journal keeps its current file and settings.
func (j *Journal) Reconfigure(cfg JournalConfig) error {
	if j == nil {
		return nil
	}
	f, size, err := openJournal(cfg)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	old := j.file
	j.file = f
	j.config = cfg
	j.currentSize = size
	if old != nil {
		old.Close()
	}
	return nil
}

// Record writes ev to the journal. It is safe to use as a Manager listener.
func (j *Journal) Record(ev wm.Event) {
	if j == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.config.Enabled || j.file == nil {
		return
	}
	if eventLevel(ev.Kind) < j.config.Level {
		return
	}

	maxBytes := int64(j.config.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && j.currentSize >= maxBytes {
		if err := j.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "journal rotation failed: %v\n", err)
		}
		if j.file == nil {
			return
		}
	}

	n, err := j.file.WriteString(formatEvent(j.now(), ev))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write journal entry: %v\n", err)
		return
	}
	j.currentSize += int64(n)
}

func formatEvent(at time.Time, ev wm.Event) string {
	var sb strings.Builder
	sb.WriteString(at.Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(strings.ToUpper(string(ev.Kind)))
	sb.WriteString("]")

	if ev.Kind == wm.EventDesktop {
		d := ev.Snapshot.Desktop
		fmt.Fprintf(&sb, " width=%d height=%d", d.Width, d.Height)
	} else {
		fmt.Fprintf(&sb, " id=%s", ev.ID)
		if rec, ok := ev.Snapshot.Find(ev.ID); ok {
			g := rec.Geometry
			fmt.Fprintf(&sb, " app=%s title=%q x=%d y=%d w=%d h=%d", rec.AppID, rec.Title, g.X, g.Y, g.Width, g.Height)
		}
	}
	fmt.Fprintf(&sb, " windows=%d\n", ev.Snapshot.Len())
	return sb.String()
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// rotate shifts actions.log -> actions.log.1 -> ... and drops the oldest.
// With MaxFiles=3, .1, .2 and .3 are kept.
func (j *Journal) rotate() error {
	if j.file != nil {
		j.file.Close()
		j.file = nil
	}

	basePath := j.config.FilePath
	for i := j.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == j.config.MaxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
		}
	}

	if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate journal: %w", err)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new journal: %w", err)
	}

	j.file = f
	j.currentSize = 0
	return nil
}

// ParseLogLevel converts a string to LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

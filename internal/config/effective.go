package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/1broseidon/retroshell/internal/settings"
	"github.com/1broseidon/retroshell/internal/wm"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Desktop != nil {
		cfg.Desktop.Width = derefInt(raw.Desktop.Width, cfg.Desktop.Width)
		cfg.Desktop.Height = derefInt(raw.Desktop.Height, cfg.Desktop.Height)
		cfg.Desktop.TaskbarHeight = derefInt(raw.Desktop.TaskbarHeight, cfg.Desktop.TaskbarHeight)
	}
	if raw.SpawnRegion != nil {
		cfg.SpawnRegion = wm.SpawnRegion{
			MinX: derefInt(raw.SpawnRegion.MinX, cfg.SpawnRegion.MinX),
			MaxX: derefInt(raw.SpawnRegion.MaxX, cfg.SpawnRegion.MaxX),
			MinY: derefInt(raw.SpawnRegion.MinY, cfg.SpawnRegion.MinY),
			MaxY: derefInt(raw.SpawnRegion.MaxY, cfg.SpawnRegion.MaxY),
		}
	}
	if raw.Window != nil {
		cfg.Window.MinWidth = derefInt(raw.Window.MinWidth, cfg.Window.MinWidth)
		cfg.Window.MinHeight = derefInt(raw.Window.MinHeight, cfg.Window.MinHeight)
	}
	if raw.FallbackApp != nil {
		cfg.FallbackApp.Width = derefInt(raw.FallbackApp.Width, cfg.FallbackApp.Width)
		cfg.FallbackApp.Height = derefInt(raw.FallbackApp.Height, cfg.FallbackApp.Height)
	}

	if raw.Apps != nil {
		for id, app := range raw.Apps {
			base, ok := cfg.Apps[id]
			if !ok {
				// New apps default to their id as title and the fallback size.
				base = wm.AppSpec{Title: id, Width: cfg.FallbackApp.Width, Height: cfg.FallbackApp.Height}
			}
			if app.Title != nil {
				base.Title = *app.Title
			}
			base.Width = derefInt(app.Width, base.Width)
			base.Height = derefInt(app.Height, base.Height)
			cfg.Apps[id] = base
		}
	}

	if raw.Taskbar != nil && raw.Taskbar.ShowMinimized != nil {
		cfg.Taskbar.ShowMinimized = *raw.Taskbar.ShowMinimized
	}
	if raw.Arrange != nil {
		cfg.Arrange.Gap = derefInt(raw.Arrange.Gap, cfg.Arrange.Gap)
		cfg.Arrange.CascadeStep = derefInt(raw.Arrange.CascadeStep, cfg.Arrange.CascadeStep)
	}
	if raw.TUI != nil {
		cfg.TUI.CellWidth = derefInt(raw.TUI.CellWidth, cfg.TUI.CellWidth)
		cfg.TUI.CellHeight = derefInt(raw.TUI.CellHeight, cfg.TUI.CellHeight)
	}

	if raw.Settings != nil {
		categories := make([]string, 0, len(raw.Settings))
		for category := range raw.Settings {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			if err := cfg.Settings.Merge(category, raw.Settings[category]); err != nil {
				return nil, &ValidationError{Path: settingsErrorPath(category, raw.Settings[category], err), Err: err}
			}
		}
	}

	if raw.Logging != nil {
		if raw.Logging.Enabled != nil {
			cfg.Logging.Enabled = *raw.Logging.Enabled
		}
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		cfg.Logging.MaxSizeMB = derefInt(raw.Logging.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(raw.Logging.MaxFiles, cfg.Logging.MaxFiles)
	}

	return cfg, nil
}

// settingsErrorPath points at the offending field when the merge error
// names one, so the error can carry its YAML source line.
func settingsErrorPath(category string, fields map[string]any, err error) string {
	path := "settings." + category
	if !slices.Contains(settings.Categories, category) {
		return path
	}
	msg := err.Error()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(msg, `"`+k+`"`) || strings.Contains(msg, " "+k+" ") {
			return path + "." + k
		}
	}
	if len(keys) == 1 {
		return path + "." + keys[0]
	}
	return path
}

func derefInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

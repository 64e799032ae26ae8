package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawDesktop struct {
	Width         *int `yaml:"width"`
	Height        *int `yaml:"height"`
	TaskbarHeight *int `yaml:"taskbar_height"`
}

type RawSpawnRegion struct {
	MinX *int `yaml:"min_x"`
	MaxX *int `yaml:"max_x"`
	MinY *int `yaml:"min_y"`
	MaxY *int `yaml:"max_y"`
}

type RawWindow struct {
	MinWidth  *int `yaml:"min_width"`
	MinHeight *int `yaml:"min_height"`
}

type RawFallbackApp struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawApp struct {
	Title  *string `yaml:"title"`
	Width  *int    `yaml:"width"`
	Height *int    `yaml:"height"`
}

type RawTaskbar struct {
	ShowMinimized *bool `yaml:"show_minimized"`
}

type RawArrange struct {
	Gap         *int `yaml:"gap"`
	CascadeStep *int `yaml:"cascade_step"`
}

type RawTUI struct {
	CellWidth  *int `yaml:"cell_width"`
	CellHeight *int `yaml:"cell_height"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawSettings holds per-category field overrides. They are applied with the
// same shallow merge the settings store uses at runtime.
type RawSettings map[string]map[string]any

type RawConfig struct {
	Include     IncludeList       `yaml:"include"`
	LogLevel    *string           `yaml:"log_level"`
	Desktop     *RawDesktop       `yaml:"desktop"`
	SpawnRegion *RawSpawnRegion   `yaml:"spawn_region"`
	Window      *RawWindow        `yaml:"window"`
	FallbackApp *RawFallbackApp   `yaml:"fallback_app"`
	Apps        map[string]RawApp `yaml:"apps"`
	Taskbar     *RawTaskbar       `yaml:"taskbar"`
	Arrange     *RawArrange       `yaml:"arrange"`
	TUI         *RawTUI           `yaml:"tui"`
	Settings    RawSettings       `yaml:"settings"`
	Logging     *RawLoggingConfig `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Desktop != nil {
		if out.Desktop == nil {
			out.Desktop = &RawDesktop{}
		}
		merged := mergeRawDesktop(*out.Desktop, *overlay.Desktop)
		out.Desktop = &merged
	}
	if overlay.SpawnRegion != nil {
		if out.SpawnRegion == nil {
			out.SpawnRegion = &RawSpawnRegion{}
		}
		merged := mergeRawSpawnRegion(*out.SpawnRegion, *overlay.SpawnRegion)
		out.SpawnRegion = &merged
	}
	if overlay.Window != nil {
		if out.Window == nil {
			out.Window = &RawWindow{}
		}
		merged := *out.Window
		if overlay.Window.MinWidth != nil {
			merged.MinWidth = overlay.Window.MinWidth
		}
		if overlay.Window.MinHeight != nil {
			merged.MinHeight = overlay.Window.MinHeight
		}
		out.Window = &merged
	}
	if overlay.FallbackApp != nil {
		if out.FallbackApp == nil {
			out.FallbackApp = &RawFallbackApp{}
		}
		merged := *out.FallbackApp
		if overlay.FallbackApp.Width != nil {
			merged.Width = overlay.FallbackApp.Width
		}
		if overlay.FallbackApp.Height != nil {
			merged.Height = overlay.FallbackApp.Height
		}
		out.FallbackApp = &merged
	}

	if overlay.Apps != nil {
		apps := make(map[string]RawApp, len(out.Apps)+len(overlay.Apps))
		for id, app := range out.Apps {
			apps[id] = app
		}
		for id, app := range overlay.Apps {
			base, ok := apps[id]
			if !ok {
				apps[id] = app
				continue
			}
			apps[id] = mergeRawApp(base, app)
		}
		out.Apps = apps
	}

	if overlay.Taskbar != nil {
		if out.Taskbar == nil {
			out.Taskbar = &RawTaskbar{}
		}
		merged := *out.Taskbar
		if overlay.Taskbar.ShowMinimized != nil {
			merged.ShowMinimized = overlay.Taskbar.ShowMinimized
		}
		out.Taskbar = &merged
	}
	if overlay.Arrange != nil {
		if out.Arrange == nil {
			out.Arrange = &RawArrange{}
		}
		merged := *out.Arrange
		if overlay.Arrange.Gap != nil {
			merged.Gap = overlay.Arrange.Gap
		}
		if overlay.Arrange.CascadeStep != nil {
			merged.CascadeStep = overlay.Arrange.CascadeStep
		}
		out.Arrange = &merged
	}
	if overlay.TUI != nil {
		if out.TUI == nil {
			out.TUI = &RawTUI{}
		}
		merged := *out.TUI
		if overlay.TUI.CellWidth != nil {
			merged.CellWidth = overlay.TUI.CellWidth
		}
		if overlay.TUI.CellHeight != nil {
			merged.CellHeight = overlay.TUI.CellHeight
		}
		out.TUI = &merged
	}

	if overlay.Settings != nil {
		s := make(RawSettings, len(out.Settings)+len(overlay.Settings))
		for category, fields := range out.Settings {
			s[category] = fields
		}
		for category, fields := range overlay.Settings {
			merged := make(map[string]any, len(s[category])+len(fields))
			for k, v := range s[category] {
				merged[k] = v
			}
			for k, v := range fields {
				merged[k] = v
			}
			s[category] = merged
		}
		out.Settings = s
	}

	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		merged := *out.Logging
		if overlay.Logging.Enabled != nil {
			merged.Enabled = overlay.Logging.Enabled
		}
		if overlay.Logging.Level != nil {
			merged.Level = overlay.Logging.Level
		}
		if overlay.Logging.File != nil {
			merged.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			merged.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			merged.MaxFiles = overlay.Logging.MaxFiles
		}
		out.Logging = &merged
	}

	return out
}

func mergeRawDesktop(base RawDesktop, overlay RawDesktop) RawDesktop {
	out := base
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.TaskbarHeight != nil {
		out.TaskbarHeight = overlay.TaskbarHeight
	}
	return out
}

func mergeRawSpawnRegion(base RawSpawnRegion, overlay RawSpawnRegion) RawSpawnRegion {
	out := base
	if overlay.MinX != nil {
		out.MinX = overlay.MinX
	}
	if overlay.MaxX != nil {
		out.MaxX = overlay.MaxX
	}
	if overlay.MinY != nil {
		out.MinY = overlay.MinY
	}
	if overlay.MaxY != nil {
		out.MaxY = overlay.MaxY
	}
	return out
}

func mergeRawApp(base RawApp, overlay RawApp) RawApp {
	out := base
	if overlay.Title != nil {
		out.Title = overlay.Title
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	return out
}

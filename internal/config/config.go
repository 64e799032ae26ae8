package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retroshell/internal/arrange"
	"github.com/1broseidon/retroshell/internal/settings"
	"github.com/1broseidon/retroshell/internal/wm"
)

// DesktopConfig sizes the simulated screen.
type DesktopConfig struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	TaskbarHeight int `yaml:"taskbar_height"`
}

// WindowConfig bounds interactive resizing.
type WindowConfig struct {
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`
}

// FallbackApp sizes windows of applications missing from the app table.
type FallbackApp struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TaskbarConfig configures the taskbar.
type TaskbarConfig struct {
	// ShowMinimized keeps minimized windows on the taskbar.
	ShowMinimized bool `yaml:"show_minimized"`
}

// ArrangeConfig spaces windows laid out by the cascade and tile commands.
type ArrangeConfig struct {
	Gap         int `yaml:"gap"`
	CascadeStep int `yaml:"cascade_step"`
}

// TUIConfig maps terminal cells to desktop pixels.
type TUIConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// LoggingConfig configures the window action journal.
type LoggingConfig struct {
	// Enabled turns the journal on/off
	Enabled bool `yaml:"enabled"`
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File is the journal path (default: ~/.local/share/retroshell/actions.log)
	File string `yaml:"file"`
	// MaxSizeMB is the maximum file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files"`
}

type Config struct {
	LogLevel    string                `yaml:"log_level"`
	Desktop     DesktopConfig         `yaml:"desktop"`
	SpawnRegion wm.SpawnRegion        `yaml:"spawn_region"`
	Window      WindowConfig          `yaml:"window"`
	FallbackApp FallbackApp           `yaml:"fallback_app"`
	Apps        map[string]wm.AppSpec `yaml:"apps"`
	Taskbar     TaskbarConfig         `yaml:"taskbar"`
	Arrange     ArrangeConfig         `yaml:"arrange"`
	TUI         TUIConfig             `yaml:"tui"`
	Settings    settings.Settings     `yaml:"settings"`
	Logging     LoggingConfig         `yaml:"logging"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Desktop: DesktopConfig{
			Width:         1024,
			Height:        768,
			TaskbarHeight: 32,
		},
		SpawnRegion: wm.DefaultSpawnRegion,
		Window: WindowConfig{
			MinWidth:  120,
			MinHeight: 80,
		},
		FallbackApp: FallbackApp{
			Width:  wm.DefaultFallbackWidth,
			Height: wm.DefaultFallbackHeight,
		},
		Apps: BuiltinApps(),
		Arrange: ArrangeConfig{
			Gap:         4,
			CascadeStep: 24,
		},
		TUI: TUIConfig{
			CellWidth:  8,
			CellHeight: 16,
		},
		Settings: settings.Defaults(),
	}
}

// DesktopArea is the region a maximized window covers: the screen minus
// the taskbar.
func (c *Config) DesktopArea() wm.Geometry {
	return wm.Geometry{
		Width:  c.Desktop.Width,
		Height: c.Desktop.Height - c.Desktop.TaskbarHeight,
	}
}

// AppTable returns a copy of the configured application table.
func (c *Config) AppTable() wm.AppTable {
	out := make(wm.AppTable, len(c.Apps))
	for id, spec := range c.Apps {
		out[id] = spec
	}
	return out
}

// AppIDs returns the configured application identifiers, sorted.
func (c *Config) AppIDs() []string {
	ids := make([]string, 0, len(c.Apps))
	for id := range c.Apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ManagerOptions builds window manager options from the config.
func (c *Config) ManagerOptions() wm.Options {
	return wm.Options{
		Apps:           c.AppTable(),
		FallbackWidth:  c.FallbackApp.Width,
		FallbackHeight: c.FallbackApp.Height,
		Desktop:        c.DesktopArea(),
		Spawn:          c.SpawnRegion,
	}
}

// ArrangeOptions returns the spacing for cascade and tile layouts.
func (c *Config) ArrangeOptions() arrange.Options {
	return arrange.Options{Gap: c.Arrange.Gap, CascadeStep: c.Arrange.CascadeStep}
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/retroshell/actions.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path. Built-in app entries that were
// not changed are left out so the file stays short.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Apps = appsForSave(c.Apps)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func appsForSave(apps map[string]wm.AppSpec) map[string]wm.AppSpec {
	builtin := BuiltinApps()
	out := make(map[string]wm.AppSpec)
	for id, spec := range apps {
		if base, ok := builtin[id]; ok && base == spec {
			continue
		}
		out[id] = spec
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if c.Desktop.Width <= 0 {
		return &ValidationError{Path: "desktop.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Desktop.Height <= 0 {
		return &ValidationError{Path: "desktop.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.Desktop.TaskbarHeight < 0 || c.Desktop.TaskbarHeight >= c.Desktop.Height {
		return &ValidationError{Path: "desktop.taskbar_height", Err: fmt.Errorf("taskbar_height must be >= 0 and smaller than desktop.height")}
	}

	if c.SpawnRegion.MinX > c.SpawnRegion.MaxX {
		return &ValidationError{Path: "spawn_region.min_x", Err: fmt.Errorf("min_x must be <= max_x")}
	}
	if c.SpawnRegion.MinY > c.SpawnRegion.MaxY {
		return &ValidationError{Path: "spawn_region.min_y", Err: fmt.Errorf("min_y must be <= max_y")}
	}

	if c.Window.MinWidth <= 0 {
		return &ValidationError{Path: "window.min_width", Err: fmt.Errorf("min_width must be > 0")}
	}
	if c.Window.MinHeight <= 0 {
		return &ValidationError{Path: "window.min_height", Err: fmt.Errorf("min_height must be > 0")}
	}
	if c.FallbackApp.Width <= 0 {
		return &ValidationError{Path: "fallback_app.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.FallbackApp.Height <= 0 {
		return &ValidationError{Path: "fallback_app.height", Err: fmt.Errorf("height must be > 0")}
	}

	for _, id := range c.AppIDs() {
		spec := c.Apps[id]
		if strings.TrimSpace(id) == "" {
			return &ValidationError{Path: "apps", Err: fmt.Errorf("apps contains an empty app id")}
		}
		if strings.TrimSpace(spec.Title) == "" {
			return &ValidationError{Path: "apps." + id + ".title", Err: fmt.Errorf("title must not be empty")}
		}
		if spec.Width <= 0 {
			return &ValidationError{Path: "apps." + id + ".width", Err: fmt.Errorf("width must be > 0")}
		}
		if spec.Height <= 0 {
			return &ValidationError{Path: "apps." + id + ".height", Err: fmt.Errorf("height must be > 0")}
		}
	}

	if c.Arrange.Gap < 0 {
		return &ValidationError{Path: "arrange.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	if c.Arrange.CascadeStep <= 0 {
		return &ValidationError{Path: "arrange.cascade_step", Err: fmt.Errorf("cascade_step must be > 0")}
	}

	if c.TUI.CellWidth <= 0 {
		return &ValidationError{Path: "tui.cell_width", Err: fmt.Errorf("cell_width must be > 0")}
	}
	if c.TUI.CellHeight <= 0 {
		return &ValidationError{Path: "tui.cell_height", Err: fmt.Errorf("cell_height must be > 0")}
	}

	if err := validateSettings(c.Settings); err != nil {
		return err
	}

	if c.Logging.Level != "" {
		switch c.Logging.Level {
		case "debug", "info", "warn", "error":
		default:
			return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
		}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}

	return nil
}

func validateSettings(s settings.Settings) error {
	switch s.DateTime.Format {
	case "12-hour", "24-hour":
	default:
		return &ValidationError{Path: "settings.dateTime.format", Err: fmt.Errorf("format must be one of: 12-hour, 24-hour")}
	}
	switch s.Desktop.IconSize {
	case "Small", "Normal", "Large":
	default:
		return &ValidationError{Path: "settings.desktop.iconSize", Err: fmt.Errorf("iconSize must be one of: Small, Normal, Large")}
	}
	if s.Mouse.DoubleClickSpeed < 0 || s.Mouse.DoubleClickSpeed > 100 {
		return &ValidationError{Path: "settings.mouse.doubleClickSpeed", Err: fmt.Errorf("doubleClickSpeed must be between 0 and 100")}
	}
	if s.Sounds.Volume < 0 || s.Sounds.Volume > 100 {
		return &ValidationError{Path: "settings.sounds.volume", Err: fmt.Errorf("volume must be between 0 and 100")}
	}
	return nil
}

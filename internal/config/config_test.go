package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/retroshell/internal/settings"
	"github.com/1broseidon/retroshell/internal/wm"
)

func writeFile(t *testing.T, path string, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.Apps) != 28 {
		t.Fatalf("expected 28 builtin apps, got %d", len(cfg.Apps))
	}
	if got := cfg.DesktopArea(); got != (wm.Geometry{Width: 1024, Height: 736}) {
		t.Fatalf("unexpected desktop area %+v", got)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), res.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_AppsOverrideAndAdd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"apps:",
		"  notepad:",
		"    width: 640",
		"  hearts:",
		"    title: Hearts",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := wm.AppSpec{Title: "Untitled - Notepad", Width: 640, Height: 400}
	if diff := cmp.Diff(want, res.Config.Apps["notepad"]); diff != "" {
		t.Fatalf("notepad mismatch (-want +got):\n%s", diff)
	}
	want = wm.AppSpec{Title: "Hearts", Width: 400, Height: 300}
	if diff := cmp.Diff(want, res.Config.Apps["hearts"]); diff != "" {
		t.Fatalf("hearts mismatch (-want +got):\n%s", diff)
	}
	if _, ok := res.Config.AppTable().Lookup("calculator"); !ok {
		t.Fatalf("expected builtin calculator to remain")
	}
}

func TestLoadFromPath_InvalidAppSizeReportsSourceLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"log_level: debug",
		"apps:",
		"  notepad:",
		"    width: 0",
		"",
	}, "\n"))

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if verr.Path != "apps.notepad.width" {
		t.Fatalf("expected path apps.notepad.width, got %q", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 4 {
		t.Fatalf("expected file source on line 4, got %+v", verr.Source)
	}
	if !strings.Contains(err.Error(), ":4:") {
		t.Fatalf("expected error to include the line, got %v", err)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "desktop:\n  width: 800\n  height: 600\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "desktop:\n  width: 1280\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"desktop:",
		"  taskbar_height: 40",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DesktopConfig{Width: 1280, Height: 600, TaskbarHeight: 40}
	if diff := cmp.Diff(want, res.Config.Desktop); diff != "" {
		t.Fatalf("desktop mismatch (-want +got):\n%s", diff)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files loaded, got %v", res.Files)
	}
	if !strings.HasSuffix(res.Files[2], "config.yaml") {
		t.Fatalf("expected main file last, got %v", res.Files)
	}

	_, src, err := Explain(res, "desktop.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasSuffix(src.File, "20-override.yaml") {
		t.Fatalf("expected desktop.width from 20-override.yaml, got %+v", src)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_SettingsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"settings:",
		"  dateTime:",
		"    format: 24-hour",
		"  mouse:",
		"    doubleClickSpeed: 90",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := settings.Defaults()
	want.DateTime.Format = "24-hour"
	want.Mouse.DoubleClickSpeed = 90
	if diff := cmp.Diff(want, res.Config.Settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromPath_SettingsErrors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantPath string
	}{
		{
			name:     "unknown category",
			yaml:     "settings:\n  printers:\n    paper: A4\n",
			wantPath: "settings.printers",
		},
		{
			name:     "unknown field",
			yaml:     "settings:\n  mouse:\n    scrollSpeed: 3\n",
			wantPath: "settings.mouse.scrollSpeed",
		},
		{
			name:     "invalid value",
			yaml:     "settings:\n  dateTime:\n    format: sundial\n",
			wantPath: "settings.dateTime.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.yaml)

			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Path != tt.wantPath {
				t.Fatalf("expected path %q, got %q", tt.wantPath, verr.Path)
			}
			if verr.Source.Kind != SourceFile {
				t.Fatalf("expected file source, got %+v", verr.Source)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"taskbar taller than screen", func(c *Config) { c.Desktop.TaskbarHeight = 768 }, "desktop.taskbar_height"},
		{"spawn region inverted", func(c *Config) { c.SpawnRegion.MinX = 500 }, "spawn_region.min_x"},
		{"min window", func(c *Config) { c.Window.MinHeight = 0 }, "window.min_height"},
		{"fallback", func(c *Config) { c.FallbackApp.Width = -1 }, "fallback_app.width"},
		{"app title", func(c *Config) { c.Apps["run"] = wm.AppSpec{Width: 1, Height: 1} }, "apps.run.title"},
		{"cell size", func(c *Config) { c.TUI.CellWidth = 0 }, "tui.cell_width"},
		{"icon size", func(c *Config) { c.Settings.Desktop.IconSize = "Huge" }, "settings.desktop.iconSize"},
		{"logging level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"arrange gap", func(c *Config) { c.Arrange.Gap = -1 }, "arrange.gap"},
		{"cascade step", func(c *Config) { c.Arrange.CascadeStep = 0 }, "arrange.cascade_step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Path != tt.wantPath {
				t.Fatalf("expected path %q, got %q", tt.wantPath, verr.Path)
			}
		})
	}
}

func TestExplain_Sources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "taskbar:\n  show_minimized: true\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "taskbar.show_minimized")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != true || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result %#v %+v", val, src)
	}

	val, src, err = Explain(res, "apps.calculator.width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 250 || src.Kind != SourceBuiltin {
		t.Fatalf("unexpected explain result %#v %+v", val, src)
	}

	val, src, err = Explain(res, "settings.mouse.doubleClickSpeed")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 50 || src.Kind != SourceDefault {
		t.Fatalf("unexpected explain result %#v %+v", val, src)
	}

	if _, _, err := Explain(res, "desktop.depth"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apps["hearts"] = wm.AppSpec{Title: "Hearts", Width: 700, Height: 500}
	cfg.Taskbar.ShowMinimized = true
	cfg.Settings.Mouse.LeftHanded = true

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "Untitled - Notepad") {
		t.Fatalf("expected unchanged builtin apps to be omitted:\n%s", data)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(cfg, res.Config); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGetLoggingConfigDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := DefaultConfig()
	got := cfg.GetLoggingConfig()
	if got.MaxSizeMB != 10 || got.MaxFiles != 3 || got.Level != "info" {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if !strings.HasSuffix(got.File, filepath.Join("retroshell", "actions.log")) {
		t.Fatalf("unexpected default file %q", got.File)
	}
}

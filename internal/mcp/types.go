package mcp

import (
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/wm"
)

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	AppID string `json:"app_id" jsonschema:"required,Application identifier (e.g. notepad, calculator, minesweeper). Unknown ids open a placeholder window."`
}

// OpenWindowOutput is the output for the open_window tool.
type OpenWindowOutput struct {
	ID     wm.WindowID `json:"id"`
	Window WindowInfo  `json:"window"`
}

// WindowInput addresses a single window.
type WindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id as returned by open_window or list_windows"`
}

// WindowOpOutput is the output for tools acting on one window. Applied is
// false when the window does not exist.
type WindowOpOutput struct {
	ID      wm.WindowID `json:"id"`
	Applied bool        `json:"applied"`
	Window  *WindowInfo `json:"window,omitempty"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id"`
	X  int    `json:"x" jsonschema:"required,New left edge in desktop pixels (may be negative or beyond the desktop)"`
	Y  int    `json:"y" jsonschema:"required,New top edge in desktop pixels"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     string `json:"id" jsonschema:"required,Window id"`
	Width  int    `json:"width" jsonschema:"required,New width in pixels (>= 1)"`
	Height int    `json:"height" jsonschema:"required,New height in pixels (>= 1)"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	IncludeMinimized *bool `json:"include_minimized,omitempty" jsonschema:"Include minimized windows (default: true)"`
}

// WindowInfo describes one window as the desktop shows it.
type WindowInfo struct {
	ID         wm.WindowID `json:"id"`
	AppID      string      `json:"app_id"`
	Title      string      `json:"title"`
	Geometry   wm.Geometry `json:"geometry"`
	Focused    bool        `json:"focused"`
	Minimized  bool        `json:"minimized"`
	Maximized  bool        `json:"maximized"`
	StackOrder uint64      `json:"stack_order"`
	// Rendered is the on-screen rectangle: the desktop area while maximized.
	Rendered wm.Geometry `json:"rendered"`
	// Layer is the 0-based stacking position among visible windows, 0 at
	// the bottom; -1 for minimized windows.
	Layer int `json:"layer"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Desktop wm.Geometry  `json:"desktop"`
	Focused wm.WindowID  `json:"focused,omitempty"`
	Windows []WindowInfo `json:"windows"`
}

// ListAppsInput is the input for the list_apps tool.
type ListAppsInput struct{}

// ListAppsOutput is the output for the list_apps tool.
type ListAppsOutput struct {
	Apps []ipc.AppInfo `json:"apps"`
}

// GetSettingsInput is the input for the get_settings tool.
type GetSettingsInput struct {
	Category string `json:"category,omitempty" jsonschema:"Settings category (display, sounds, mouse, keyboard, system, dateTime, regional, desktop). Empty returns all."`
}

// SettingsOutput is the output for the settings tools.
type SettingsOutput struct {
	Category string         `json:"category,omitempty"`
	Values   map[string]any `json:"values"`
}

// UpdateSettingsInput is the input for the update_settings tool.
type UpdateSettingsInput struct {
	Category string         `json:"category" jsonschema:"required,Settings category to update"`
	Updates  map[string]any `json:"updates" jsonschema:"required,Fields to replace; other fields of the category are kept"`
}

// ArrangeInput is the input for the arrange_windows tool.
type ArrangeInput struct {
	Mode string `json:"mode" jsonschema:"required,Layout mode: cascade, grid, rows or columns"`
}

// ArrangeOutput is the output for the arrange_windows tool.
type ArrangeOutput struct {
	Mode    string        `json:"mode"`
	Changed []wm.WindowID `json:"changed"`
	Windows []WindowInfo  `json:"windows"`
}

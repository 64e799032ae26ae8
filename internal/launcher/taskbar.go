// Package launcher implements the surfaces that start and list windows:
// the taskbar, the start menu, desktop icons and the tray clock. None of
// them holds window state; they read snapshots and call the window manager.
package launcher

import "github.com/1broseidon/retroshell/internal/wm"

// Opener starts applications.
type Opener interface {
	Open(appID string) (wm.WindowID, error)
}

// Focuser brings a window to the front.
type Focuser interface {
	Focus(id wm.WindowID) bool
}

// Button is one taskbar entry.
type Button struct {
	ID        wm.WindowID `json:"id"`
	Title     string      `json:"title"`
	Focused   bool        `json:"focused"`
	Minimized bool        `json:"minimized"`
}

// Taskbar lists open windows and focuses them on click.
type Taskbar struct {
	focus Focuser
	// ShowMinimized keeps minimized windows on the taskbar so they can be
	// restored from it.
	ShowMinimized bool
}

// NewTaskbar creates a taskbar that calls f on click.
func NewTaskbar(f Focuser, showMinimized bool) *Taskbar {
	return &Taskbar{focus: f, ShowMinimized: showMinimized}
}

// Buttons derives the taskbar entries from snap in insertion order.
func (t *Taskbar) Buttons(snap wm.Snapshot) []Button {
	out := make([]Button, 0, len(snap.Windows))
	for _, rec := range snap.Windows {
		if rec.Minimized && !t.ShowMinimized {
			continue
		}
		out = append(out, Button{
			ID:        rec.ID,
			Title:     rec.Title,
			Focused:   rec.Focused,
			Minimized: rec.Minimized,
		})
	}
	return out
}

// Click focuses the window behind a taskbar button.
func (t *Taskbar) Click(id wm.WindowID) bool {
	return t.focus.Focus(id)
}

package launcher

import (
	"time"

	"github.com/1broseidon/retroshell/internal/settings"
	"github.com/1broseidon/retroshell/internal/wm"
)

// Icon is a desktop shortcut.
type Icon struct {
	Name  string `json:"name"`
	AppID string `json:"app_id"`
}

// DefaultIcons returns the classic desktop shortcuts.
func DefaultIcons() []Icon {
	return []Icon{
		{Name: "My Computer", AppID: "explorer"},
		{Name: "Recycle Bin", AppID: "recycle"},
		{Name: "Internet Explorer", AppID: "ie"},
		{Name: "My Documents", AppID: "documents"},
		{Name: "Network Neighborhood", AppID: "network"},
		{Name: "Control Panel", AppID: "control"},
		{Name: "Notepad", AppID: "notepad"},
		{Name: "Calculator", AppID: "calculator"},
		{Name: "Paint", AppID: "paint"},
		{Name: "Solitaire", AppID: "solitaire"},
		{Name: "Minesweeper", AppID: "minesweeper"},
		{Name: "Snake", AppID: "snake"},
		{Name: "Media Player", AppID: "mediaplayer"},
	}
}

// IconPixels maps the desktop.iconSize setting to an icon edge length.
func IconPixels(size string) int {
	switch size {
	case "Small":
		return 24
	case "Large":
		return 40
	default:
		return 32
	}
}

// Desktop holds the icon grid. Icons open their application on
// double-click.
type Desktop struct {
	opener   Opener
	icons    []Icon
	settings *settings.Store
	clicks   *DoubleClick

	selected string
}

// NewDesktop creates a desktop over icons.
func NewDesktop(opener Opener, icons []Icon, store *settings.Store) *Desktop {
	if icons == nil {
		icons = DefaultIcons()
	}
	return &Desktop{
		opener:   opener,
		icons:    icons,
		settings: store,
		clicks:   NewDoubleClick(DoubleClickInterval(store.Get().Mouse.DoubleClickSpeed)),
	}
}

// Icons returns the icons to draw; none when desktop icons are hidden.
func (d *Desktop) Icons() []Icon {
	if !d.settings.Get().Desktop.ShowDesktopIcons {
		return nil
	}
	return d.icons
}

// Selected returns the app id of the highlighted icon.
func (d *Desktop) Selected() string { return d.selected }

// Deselect clears the highlight, e.g. on a press on empty desktop.
func (d *Desktop) Deselect() {
	d.selected = ""
	d.clicks.Reset()
}

// Click selects the icon for appID. The second click within the
// double-click interval opens the application.
func (d *Desktop) Click(appID string, at time.Time) (wm.WindowID, bool, error) {
	d.selected = appID
	d.clicks.SetInterval(DoubleClickInterval(d.settings.Get().Mouse.DoubleClickSpeed))
	if !d.clicks.Click(appID, at) {
		return "", false, nil
	}
	id, err := d.Activate(appID)
	return id, err == nil, err
}

// Activate opens appID.
func (d *Desktop) Activate(appID string) (wm.WindowID, error) {
	return d.opener.Open(appID)
}

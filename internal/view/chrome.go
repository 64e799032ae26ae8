package view

import "github.com/1broseidon/retroshell/internal/wm"

// Region identifies the part of a window under the pointer.
type Region int

const (
	RegionNone Region = iota
	RegionBody
	RegionTitleBar
	RegionResizeHandle
	RegionMinimize
	RegionMaximize
	RegionClose
)

// String returns the string representation of the region
func (r Region) String() string {
	switch r {
	case RegionNone:
		return "none"
	case RegionBody:
		return "body"
	case RegionTitleBar:
		return "title_bar"
	case RegionResizeHandle:
		return "resize_handle"
	case RegionMinimize:
		return "minimize"
	case RegionMaximize:
		return "maximize"
	case RegionClose:
		return "close"
	default:
		return "unknown"
	}
}

// ParseRegion is the inverse of Region.String.
func ParseRegion(s string) (Region, bool) {
	for r := RegionNone; r <= RegionClose; r++ {
		if r.String() == s {
			return r, true
		}
	}
	return RegionNone, false
}

// Chrome describes the window decorations in desktop units. Buttons are
// right-aligned in the title bar: minimize, maximize, close.
type Chrome struct {
	TitleBarHeight int
	ButtonWidth    int
	ButtonGap      int
	// Inset is the padding between the last button and the right edge.
	Inset        int
	HandleWidth  int
	HandleHeight int
}

// DefaultChrome matches the classic pixel decorations: a 24px title bar,
// 16px buttons with 4px gaps and a 12px resize grip.
var DefaultChrome = Chrome{
	TitleBarHeight: 24,
	ButtonWidth:    16,
	ButtonGap:      4,
	Inset:          4,
	HandleWidth:    12,
	HandleHeight:   12,
}

// RegionAt classifies a point relative to a window drawn at g. Maximized
// windows have no resize handle.
func (c Chrome) RegionAt(g wm.Geometry, maximized bool, x, y int) Region {
	if !g.Contains(x, y) {
		return RegionNone
	}
	if !maximized &&
		x >= g.X+g.Width-c.HandleWidth &&
		y >= g.Y+g.Height-c.HandleHeight {
		return RegionResizeHandle
	}
	if y >= g.Y+c.TitleBarHeight {
		return RegionBody
	}

	right := g.X + g.Width - c.Inset
	for _, r := range []Region{RegionClose, RegionMaximize, RegionMinimize} {
		left := right - c.ButtonWidth
		if x >= left && x < right {
			return r
		}
		right = left - c.ButtonGap
	}
	return RegionTitleBar
}

// ButtonRect returns the rectangle of a title-bar button of a window drawn
// at g.
func (c Chrome) ButtonRect(g wm.Geometry, r Region) (wm.Geometry, bool) {
	var slot int
	switch r {
	case RegionClose:
		slot = 0
	case RegionMaximize:
		slot = 1
	case RegionMinimize:
		slot = 2
	default:
		return wm.Geometry{}, false
	}
	right := g.X + g.Width - c.Inset - slot*(c.ButtonWidth+c.ButtonGap)
	return wm.Geometry{
		X:      right - c.ButtonWidth,
		Y:      g.Y,
		Width:  c.ButtonWidth,
		Height: c.TitleBarHeight,
	}, true
}

// Hit is the result of hit-testing the desktop.
type Hit struct {
	ID     wm.WindowID
	Region Region
}

// HitTest returns the topmost visible window under the point.
func (c Chrome) HitTest(snap wm.Snapshot, x, y int) Hit {
	visible := snap.Visible()
	for i := len(visible) - 1; i >= 0; i-- {
		rec := visible[i]
		if r := c.RegionAt(snap.Rendered(rec), rec.Maximized, x, y); r != RegionNone {
			return Hit{ID: rec.ID, Region: r}
		}
	}
	return Hit{Region: RegionNone}
}

package view

import "github.com/1broseidon/retroshell/internal/wm"

// Operations is the subset of the window manager a view calls back into.
// *wm.Manager satisfies it.
type Operations interface {
	Get(id wm.WindowID) (wm.Record, bool)
	Snapshot() wm.Snapshot
	Focus(id wm.WindowID) bool
	Minimize(id wm.WindowID) bool
	Maximize(id wm.WindowID) bool
	Close(id wm.WindowID) bool
	Update(id wm.WindowID, p wm.Patch) bool
}

// Phase is the interaction state of one window view.
type Phase int

const (
	// PhaseNormal means no pointer interaction is in progress
	PhaseNormal Phase = iota
	// PhaseDragging means the title bar is held and moves reposition the window
	PhaseDragging
	// PhaseResizing means the resize handle is held and moves resize the window
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseNormal:
		return "normal"
	case PhaseDragging:
		return "dragging"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// MinSize bounds interactive resizing.
type MinSize struct {
	Width  int
	Height int
}

const (
	DefaultMinWidth  = 120
	DefaultMinHeight = 80
)

// Controller translates pointer gestures on one window into window manager
// operations. It holds no window state beyond the in-flight gesture.
type Controller struct {
	id      wm.WindowID
	ops     Operations
	minSize MinSize

	phase Phase
	// Dragging: pointer offset from the window's top-left corner.
	offsetX, offsetY int
	// Resizing: pointer and size at pointer-down.
	startX, startY int
	startW, startH int
}

// NewController creates a controller for the window id.
func NewController(id wm.WindowID, ops Operations, minSize MinSize) *Controller {
	if minSize.Width <= 0 {
		minSize.Width = DefaultMinWidth
	}
	if minSize.Height <= 0 {
		minSize.Height = DefaultMinHeight
	}
	return &Controller{id: id, ops: ops, minSize: minSize}
}

// ID returns the window the controller drives.
func (c *Controller) ID() wm.WindowID { return c.id }

// Phase returns the current interaction phase.
func (c *Controller) Phase() Phase { return c.phase }

// Active reports whether a drag or resize is in progress.
func (c *Controller) Active() bool { return c.phase != PhaseNormal }

// PointerDown handles a press inside the window. It reports whether the
// controller now needs the pointer captured.
func (c *Controller) PointerDown(region Region, x, y int) bool {
	c.phase = PhaseNormal

	switch region {
	case RegionMinimize:
		c.ops.Minimize(c.id)
		return false
	case RegionMaximize:
		c.ops.Maximize(c.id)
		return false
	case RegionClose:
		c.ops.Close(c.id)
		return false
	case RegionBody:
		c.ops.Focus(c.id)
		return false
	case RegionTitleBar, RegionResizeHandle:
	default:
		return false
	}

	if !c.ops.Focus(c.id) {
		return false
	}
	rec, ok := c.ops.Get(c.id)
	if !ok || rec.Maximized {
		return false
	}

	if region == RegionTitleBar {
		c.phase = PhaseDragging
		c.offsetX = x - rec.Geometry.X
		c.offsetY = y - rec.Geometry.Y
		return true
	}
	c.phase = PhaseResizing
	c.startX, c.startY = x, y
	c.startW, c.startH = rec.Geometry.Width, rec.Geometry.Height
	return true
}

// PointerMove continues a drag or resize. It returns false when no
// interaction is in progress, including when the window was closed,
// minimized or maximized since the press; the interaction is then abandoned
// without emitting an update.
func (c *Controller) PointerMove(x, y int) bool {
	if c.phase == PhaseNormal {
		return false
	}
	rec, ok := c.ops.Get(c.id)
	if !ok || rec.Minimized || rec.Maximized {
		c.phase = PhaseNormal
		return false
	}

	switch c.phase {
	case PhaseDragging:
		c.ops.Update(c.id, wm.MovePatch(x-c.offsetX, y-c.offsetY))
	case PhaseResizing:
		w := max(c.startW+x-c.startX, c.minSize.Width)
		h := max(c.startH+y-c.startY, c.minSize.Height)
		c.ops.Update(c.id, wm.ResizePatch(w, h))
	}
	return true
}

// PointerUp ends any interaction.
func (c *Controller) PointerUp() {
	c.phase = PhaseNormal
}

// PointerLeave ends any interaction, same as PointerUp.
func (c *Controller) PointerLeave() {
	c.phase = PhaseNormal
}

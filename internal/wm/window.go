package wm

import "errors"

// ErrEmptyAppID is returned by Open when no application identifier is given.
var ErrEmptyAppID = errors.New("app id is required")

// WindowID identifies one open window for its whole lifetime.
type WindowID string

// Geometry is a rectangle in desktop pixel units.
type Geometry struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Contains reports whether the point lies inside the rectangle.
func (g Geometry) Contains(x, y int) bool {
	return x >= g.X && x < g.X+g.Width && y >= g.Y && y < g.Y+g.Height
}

// Record is the authoritative state of one open window.
type Record struct {
	ID        WindowID `json:"id"`
	AppID     string   `json:"app_id"`
	Title     string   `json:"title"`
	Geometry  Geometry `json:"geometry"`
	Focused   bool     `json:"focused"`
	Minimized bool     `json:"minimized"`
	Maximized bool     `json:"maximized"`
	// StackOrder grows every time the window is opened or focused; higher
	// values render on top.
	StackOrder uint64 `json:"stack_order"`
}

// Patch is the restricted set of fields Update may change. Nil fields are
// left untouched.
type Patch struct {
	X      *int `json:"x,omitempty"`
	Y      *int `json:"y,omitempty"`
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

// MovePatch builds a patch that only changes the position.
func MovePatch(x, y int) Patch {
	return Patch{X: &x, Y: &y}
}

// ResizePatch builds a patch that only changes the size.
func ResizePatch(width, height int) Patch {
	return Patch{Width: &width, Height: &height}
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil
}

// apply merges the patch into g. Non-positive sizes are ignored.
func (p Patch) apply(g Geometry) Geometry {
	if p.X != nil {
		g.X = *p.X
	}
	if p.Y != nil {
		g.Y = *p.Y
	}
	if p.Width != nil && *p.Width > 0 {
		g.Width = *p.Width
	}
	if p.Height != nil && *p.Height > 0 {
		g.Height = *p.Height
	}
	return g
}

// AppSpec is the static configuration of one hosted application.
type AppSpec struct {
	Title  string `json:"title" yaml:"title"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// AppTable maps application identifiers to their window defaults.
type AppTable map[string]AppSpec

// Lookup returns the spec for appID, if configured.
func (t AppTable) Lookup(appID string) (AppSpec, bool) {
	spec, ok := t[appID]
	return spec, ok
}

// SpawnRegion bounds the randomized top-left corner of new windows.
// Bounds are inclusive.
type SpawnRegion struct {
	MinX int `json:"min_x" yaml:"min_x"`
	MaxX int `json:"max_x" yaml:"max_x"`
	MinY int `json:"min_y" yaml:"min_y"`
	MaxY int `json:"max_y" yaml:"max_y"`
}

// DefaultSpawnRegion keeps new windows reachable and slightly staggered.
var DefaultSpawnRegion = SpawnRegion{MinX: 100, MaxX: 300, MinY: 50, MaxY: 200}

const (
	DefaultFallbackWidth  = 400
	DefaultFallbackHeight = 300
)

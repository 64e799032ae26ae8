package view

import (
	"io"
	"log/slog"

	"github.com/1broseidon/retroshell/internal/wm"
)

// SurfaceOptions configures a Surface.
type SurfaceOptions struct {
	Chrome  Chrome
	MinSize MinSize
	Logger  *slog.Logger
}

// Surface routes desktop pointer events to per-window controllers. While a
// controller is dragging or resizing, the surface holds the pointer capture
// so moves and releases outside the window still reach it. A Surface is
// not safe for concurrent use.
type Surface struct {
	ops     Operations
	chrome  Chrome
	minSize MinSize
	logger  *slog.Logger

	controllers map[wm.WindowID]*Controller
	capture     *Controller
}

// NewSurface creates a surface over ops.
func NewSurface(ops Operations, opts SurfaceOptions) *Surface {
	if opts.Chrome == (Chrome{}) {
		opts.Chrome = DefaultChrome
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Surface{
		ops:         ops,
		chrome:      opts.Chrome,
		minSize:     opts.MinSize,
		logger:      opts.Logger,
		controllers: make(map[wm.WindowID]*Controller),
	}
}

// Chrome returns the decoration metrics used for hit-testing.
func (s *Surface) Chrome() Chrome { return s.chrome }

// Captured returns the window holding the pointer capture.
func (s *Surface) Captured() (wm.WindowID, Phase, bool) {
	if s.capture == nil {
		return "", PhaseNormal, false
	}
	return s.capture.ID(), s.capture.Phase(), true
}

// PointerDown hit-tests the current snapshot and dispatches the press to
// the topmost window under the pointer. A press on empty desktop returns a
// Hit with RegionNone.
func (s *Surface) PointerDown(x, y int) Hit {
	s.release()

	snap := s.ops.Snapshot()
	s.Sync(snap)

	hit := s.chrome.HitTest(snap, x, y)
	if hit.Region == RegionNone {
		return hit
	}
	c := s.controller(hit.ID)
	if c.PointerDown(hit.Region, x, y) {
		s.capture = c
		s.logger.Debug("pointer captured", "id", hit.ID, "phase", c.Phase())
	}
	return hit
}

// PointerMove forwards the move to the capturing controller, if any.
func (s *Surface) PointerMove(x, y int) {
	if s.capture == nil {
		return
	}
	if !s.capture.PointerMove(x, y) {
		s.logger.Debug("interaction abandoned", "id", s.capture.ID())
		s.capture = nil
	}
}

// PointerUp ends any interaction and releases the capture.
func (s *Surface) PointerUp() {
	s.release()
}

// PointerLeave is handled like PointerUp.
func (s *Surface) PointerLeave() {
	if s.capture != nil {
		s.capture.PointerLeave()
		s.capture = nil
	}
}

// Sync prunes controllers of windows no longer in snap and releases the
// capture if its window is gone.
func (s *Surface) Sync(snap wm.Snapshot) {
	for id := range s.controllers {
		if _, ok := snap.Find(id); !ok {
			delete(s.controllers, id)
		}
	}
	if s.capture == nil {
		return
	}
	if _, ok := s.controllers[s.capture.ID()]; !ok {
		s.capture.PointerUp()
		s.capture = nil
	}
}

// Controllers returns the number of live controllers.
func (s *Surface) Controllers() int {
	return len(s.controllers)
}

func (s *Surface) controller(id wm.WindowID) *Controller {
	c, ok := s.controllers[id]
	if !ok {
		c = NewController(id, s.ops, s.minSize)
		s.controllers[id] = c
	}
	return c
}

func (s *Surface) release() {
	if s.capture != nil {
		s.capture.PointerUp()
		s.capture = nil
	}
}

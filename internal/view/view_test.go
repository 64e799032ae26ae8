package view

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/retroshell/internal/wm"
)

func newTestManager(t *testing.T) *wm.Manager {
	t.Helper()
	n := 0
	return wm.NewManager(wm.Options{
		Apps: wm.AppTable{
			"notepad":    {Title: "Untitled - Notepad", Width: 500, Height: 400},
			"calculator": {Title: "Calculator", Width: 250, Height: 300},
		},
		IntN: func(int) int { return 0 },
		NewID: func(appID string) wm.WindowID {
			n++
			return wm.WindowID(fmt.Sprintf("%s-%d", appID, n))
		},
	})
}

func open(t *testing.T, m *wm.Manager, appID string) wm.WindowID {
	t.Helper()
	id, err := m.Open(appID)
	if err != nil {
		t.Fatalf("Open(%q): %v", appID, err)
	}
	return id
}

func geometry(t *testing.T, m *wm.Manager, id wm.WindowID) wm.Geometry {
	t.Helper()
	rec, ok := m.Get(id)
	if !ok {
		t.Fatalf("record %q not found", id)
	}
	return rec.Geometry
}

func TestChromeRegionAt(t *testing.T) {
	g := wm.Geometry{X: 100, Y: 50, Width: 500, Height: 400}
	tests := []struct {
		name      string
		x, y      int
		maximized bool
		want      Region
	}{
		{"outside", 50, 50, false, RegionNone},
		{"title bar", 200, 60, false, RegionTitleBar},
		{"close", 590, 60, false, RegionClose},
		{"gap between buttons", 578, 60, false, RegionTitleBar},
		{"maximize", 565, 60, false, RegionMaximize},
		{"minimize", 545, 60, false, RegionMinimize},
		{"body", 200, 200, false, RegionBody},
		{"resize handle", 595, 445, false, RegionResizeHandle},
		{"handle hidden while maximized", 595, 445, true, RegionBody},
		{"right inset", 598, 60, false, RegionTitleBar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultChrome.RegionAt(g, tt.maximized, tt.x, tt.y); got != tt.want {
				t.Fatalf("RegionAt(%d, %d) = %s, want %s", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestChromeButtonRectMatchesRegion(t *testing.T) {
	g := wm.Geometry{X: 10, Y: 10, Width: 300, Height: 200}
	for _, r := range []Region{RegionMinimize, RegionMaximize, RegionClose} {
		rect, ok := DefaultChrome.ButtonRect(g, r)
		if !ok {
			t.Fatalf("no rect for %s", r)
		}
		if got := DefaultChrome.RegionAt(g, false, rect.X, rect.Y); got != r {
			t.Fatalf("top-left of %s rect classified as %s", r, got)
		}
	}
	if _, ok := DefaultChrome.ButtonRect(g, RegionBody); ok {
		t.Fatalf("expected no rect for body")
	}
}

func TestParseRegion(t *testing.T) {
	for r := RegionNone; r <= RegionClose; r++ {
		got, ok := ParseRegion(r.String())
		if !ok || got != r {
			t.Fatalf("ParseRegion(%q) = %v, %v", r.String(), got, ok)
		}
	}
	if _, ok := ParseRegion("chin"); ok {
		t.Fatalf("expected unknown region to fail")
	}
}

func TestSurface_DragMovesWithoutClamping(t *testing.T) {
	m := newTestManager(t)
	id := open(t, m, "notepad")
	s := NewSurface(m, SurfaceOptions{})

	hit := s.PointerDown(110, 60)
	if diff := cmp.Diff(Hit{ID: id, Region: RegionTitleBar}, hit); diff != "" {
		t.Fatalf("hit mismatch (-want +got):\n%s", diff)
	}
	if got, phase, ok := s.Captured(); !ok || got != id || phase != PhaseDragging {
		t.Fatalf("expected %q dragging, got %q %s %v", id, got, phase, ok)
	}

	s.PointerMove(300, 300)
	if g := geometry(t, m, id); g.X != 290 || g.Y != 290 {
		t.Fatalf("expected (290,290), got (%d,%d)", g.X, g.Y)
	}
	s.PointerMove(-500, -500)
	if g := geometry(t, m, id); g.X != -510 || g.Y != -510 {
		t.Fatalf("expected (-510,-510), got (%d,%d)", g.X, g.Y)
	}

	s.PointerUp()
	if _, _, ok := s.Captured(); ok {
		t.Fatalf("expected capture released on pointer up")
	}
	s.PointerMove(0, 0)
	if g := geometry(t, m, id); g.X != -510 {
		t.Fatalf("move after release changed geometry: %+v", g)
	}
}

func TestSurface_ResizeClampsToMinimum(t *testing.T) {
	m := newTestManager(t)
	id := open(t, m, "notepad")
	s := NewSurface(m, SurfaceOptions{MinSize: MinSize{Width: 120, Height: 80}})

	if hit := s.PointerDown(595, 445); hit.Region != RegionResizeHandle {
		t.Fatalf("expected resize handle, got %s", hit.Region)
	}
	s.PointerMove(695, 545)
	if g := geometry(t, m, id); g.Width != 600 || g.Height != 500 {
		t.Fatalf("expected 600x500, got %dx%d", g.Width, g.Height)
	}
	s.PointerMove(0, 0)
	g := geometry(t, m, id)
	if g.Width != 120 || g.Height != 80 {
		t.Fatalf("expected clamp to 120x80, got %dx%d", g.Width, g.Height)
	}
	if g.X != 100 || g.Y != 50 {
		t.Fatalf("resize moved the window: %+v", g)
	}
	s.PointerLeave()
	if _, _, ok := s.Captured(); ok {
		t.Fatalf("expected capture released on pointer leave")
	}
}

func TestSurface_MaximizedIgnoresDragAndResize(t *testing.T) {
	m := newTestManager(t)
	id := open(t, m, "notepad")
	m.Maximize(id)
	before := geometry(t, m, id)

	s := NewSurface(m, SurfaceOptions{})
	if hit := s.PointerDown(10, 10); hit.ID != id || hit.Region != RegionTitleBar {
		t.Fatalf("unexpected hit %+v", hit)
	}
	if _, _, ok := s.Captured(); ok {
		t.Fatalf("maximized window must not start a drag")
	}
	s.PointerMove(400, 400)

	desk := m.Desktop()
	if hit := s.PointerDown(desk.Width-1, desk.Height-1); hit.Region != RegionBody {
		t.Fatalf("expected body at bottom-right of maximized window, got %s", hit.Region)
	}
	if _, _, ok := s.Captured(); ok {
		t.Fatalf("maximized window must not start a resize")
	}
	if diff := cmp.Diff(before, geometry(t, m, id)); diff != "" {
		t.Fatalf("geometry changed (-want +got):\n%s", diff)
	}
}

func TestSurface_CloseMidDragAbandons(t *testing.T) {
	m := newTestManager(t)
	id := open(t, m, "notepad")
	s := NewSurface(m, SurfaceOptions{})

	var updates int
	m.Subscribe(func(ev wm.Event) {
		if ev.Kind == wm.EventUpdated {
			updates++
		}
	})

	s.PointerDown(110, 60)
	m.Close(id)
	s.PointerMove(200, 200)

	if updates != 0 {
		t.Fatalf("expected no updates after close, got %d", updates)
	}
	if _, _, ok := s.Captured(); ok {
		t.Fatalf("expected capture released after abandonment")
	}
}

func TestSurface_SyncPrunesAndReleases(t *testing.T) {
	m := newTestManager(t)
	a := open(t, m, "notepad")
	open(t, m, "calculator")
	s := NewSurface(m, SurfaceOptions{})

	s.PointerDown(400, 300) // notepad body
	s.PointerDown(110, 60)  // notepad title, now on top
	if got, _, ok := s.Captured(); !ok || got != a {
		t.Fatalf("expected %q captured", a)
	}

	m.Close(a)
	s.Sync(m.Snapshot())
	if _, _, ok := s.Captured(); ok {
		t.Fatalf("expected capture released when window disappears")
	}
	if s.Controllers() != 0 {
		t.Fatalf("expected controllers pruned, got %d", s.Controllers())
	}
}

func TestSurface_MaximizeMidDragAbandons(t *testing.T) {
	m := newTestManager(t)
	id := open(t, m, "notepad")
	s := NewSurface(m, SurfaceOptions{})

	s.PointerDown(110, 60)
	m.Maximize(id)
	s.PointerMove(200, 200)
	m.Maximize(id)

	if g := geometry(t, m, id); g.X != 100 || g.Y != 50 {
		t.Fatalf("expected restore geometry untouched, got %+v", g)
	}
	if _, _, ok := s.Captured(); ok {
		t.Fatalf("expected capture released")
	}
}

func TestSurface_TopmostWindowReceivesPress(t *testing.T) {
	m := newTestManager(t)
	notepad := open(t, m, "notepad")
	calc := open(t, m, "calculator")
	s := NewSurface(m, SurfaceOptions{})

	if hit := s.PointerDown(110, 100); hit.ID != calc {
		t.Fatalf("expected %q under pointer, got %q", calc, hit.ID)
	}
	s.PointerUp()

	// Only notepad covers this point.
	if hit := s.PointerDown(400, 300); hit.ID != notepad || hit.Region != RegionBody {
		t.Fatalf("unexpected hit %+v", hit)
	}
	rec, _ := m.Get(notepad)
	if !rec.Focused {
		t.Fatalf("expected body press to focus")
	}
	if _, _, ok := s.Captured(); ok {
		t.Fatalf("body press must not capture")
	}

	if hit := s.PointerDown(110, 100); hit.ID != notepad {
		t.Fatalf("expected focused %q on top, got %q", notepad, hit.ID)
	}
}

func TestSurface_TitleBarButtons(t *testing.T) {
	m := newTestManager(t)
	id := open(t, m, "notepad")
	s := NewSurface(m, SurfaceOptions{})

	s.PointerDown(565, 60)
	if rec, _ := m.Get(id); !rec.Maximized {
		t.Fatalf("expected maximize button to maximize")
	}
	desk := m.Desktop()
	rect, _ := DefaultChrome.ButtonRect(desk, RegionMaximize)
	s.PointerDown(rect.X, rect.Y)
	if rec, _ := m.Get(id); rec.Maximized {
		t.Fatalf("expected maximize button to restore")
	}

	s.PointerDown(545, 60)
	rec, _ := m.Get(id)
	if !rec.Minimized || rec.Focused {
		t.Fatalf("expected minimized and unfocused, got %+v", rec)
	}
	if hit := s.PointerDown(545, 60); hit.Region != RegionNone {
		t.Fatalf("minimized window must not be hit, got %+v", hit)
	}

	m.Focus(id)
	s.PointerDown(590, 60)
	if _, ok := m.Get(id); ok {
		t.Fatalf("expected close button to close")
	}
}

func TestSurface_DesktopPress(t *testing.T) {
	m := newTestManager(t)
	open(t, m, "notepad")
	s := NewSurface(m, SurfaceOptions{})

	if hit := s.PointerDown(5, 5); hit.Region != RegionNone || hit.ID != "" {
		t.Fatalf("expected empty desktop hit, got %+v", hit)
	}
}

package wm

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testApps = AppTable{
	"notepad":    {Title: "Untitled - Notepad", Width: 500, Height: 400},
	"calculator": {Title: "Calculator", Width: 250, Height: 300},
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	n := 0
	return NewManager(Options{
		Apps: testApps,
		IntN: func(int) int { return 0 },
		NewID: func(appID string) WindowID {
			n++
			return WindowID(fmt.Sprintf("%s-%d", appID, n))
		},
	})
}

func mustOpen(t *testing.T, m *Manager, appID string) WindowID {
	t.Helper()
	id, err := m.Open(appID)
	if err != nil {
		t.Fatalf("Open(%q): %v", appID, err)
	}
	return id
}

func mustGet(t *testing.T, m *Manager, id WindowID) Record {
	t.Helper()
	rec, ok := m.Get(id)
	if !ok {
		t.Fatalf("record %q not found", id)
	}
	return rec
}

// checkFocusInvariant fails when more than one visible record is focused.
func checkFocusInvariant(t *testing.T, s Snapshot) {
	t.Helper()
	focused := 0
	for _, rec := range s.Windows {
		if rec.Focused {
			if rec.Minimized {
				t.Fatalf("minimized record %q is focused", rec.ID)
			}
			focused++
		}
	}
	if focused > 1 {
		t.Fatalf("expected at most one focused record, got %d", focused)
	}
}

func TestOpen_NotepadThenCalculator(t *testing.T) {
	m := newTestManager(t)

	notepad := mustOpen(t, m, "notepad")
	rec := mustGet(t, m, notepad)
	if rec.Title != "Untitled - Notepad" {
		t.Fatalf("expected title %q, got %q", "Untitled - Notepad", rec.Title)
	}
	if rec.Geometry.Width != 500 || rec.Geometry.Height != 400 {
		t.Fatalf("expected 500x400, got %dx%d", rec.Geometry.Width, rec.Geometry.Height)
	}
	if !rec.Focused || rec.Minimized || rec.Maximized {
		t.Fatalf("unexpected flags: %+v", rec)
	}

	calc := mustOpen(t, m, "calculator")
	if mustGet(t, m, notepad).Focused {
		t.Fatalf("expected notepad to lose focus")
	}
	if !mustGet(t, m, calc).Focused {
		t.Fatalf("expected calculator to be focused")
	}
	if got := m.Snapshot().Len(); got != 2 {
		t.Fatalf("expected 2 records, got %d", got)
	}
}

func TestOpen_UnknownAppUsesFallback(t *testing.T) {
	m := newTestManager(t)

	id := mustOpen(t, m, "unknown-app-xyz")
	rec := mustGet(t, m, id)
	want := Record{
		ID:         id,
		AppID:      "unknown-app-xyz",
		Title:      "unknown-app-xyz",
		Geometry:   Geometry{X: 100, Y: 50, Width: 400, Height: 300},
		Focused:    true,
		StackOrder: 1,
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_EmptyAppID(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Open("  "); !errors.Is(err, ErrEmptyAppID) {
		t.Fatalf("expected ErrEmptyAppID, got %v", err)
	}
	if m.Snapshot().Len() != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestOpen_SpawnPositionWithinRegion(t *testing.T) {
	m := NewManager(Options{Apps: testApps})
	for i := 0; i < 200; i++ {
		id := mustOpen(t, m, "notepad")
		g := mustGet(t, m, id).Geometry
		if g.X < 100 || g.X > 300 || g.Y < 50 || g.Y > 200 {
			t.Fatalf("spawn position out of region: %+v", g)
		}
	}
}

func TestOpen_SpawnUsesUpperBound(t *testing.T) {
	m := NewManager(Options{IntN: func(n int) int { return n - 1 }})
	id := mustOpen(t, m, "notepad")
	g := mustGet(t, m, id).Geometry
	if g.X != 300 || g.Y != 200 {
		t.Fatalf("expected (300,200), got (%d,%d)", g.X, g.Y)
	}
}

func TestOpenClose_CountAndUniqueIDs(t *testing.T) {
	m := NewManager(Options{Apps: testApps})

	seen := map[WindowID]bool{}
	var ids []WindowID
	for i := 0; i < 50; i++ {
		id := mustOpen(t, m, "notepad")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		if !strings.HasPrefix(string(id), "notepad-") {
			t.Fatalf("expected id prefixed with app id, got %q", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	closed := 0
	for i, id := range ids {
		if i%3 != 0 {
			continue
		}
		if m.Close(id) {
			closed++
		}
		// Second close is a no-op.
		if m.Close(id) {
			t.Fatalf("expected second close of %q to be a no-op", id)
		}
	}

	if got, want := m.Snapshot().Len(), len(ids)-closed; got != want {
		t.Fatalf("expected %d records, got %d", want, got)
	}
}

func TestNewID_CollisionIsRedrawn(t *testing.T) {
	calls := 0
	m := NewManager(Options{
		NewID: func(appID string) WindowID {
			calls++
			if calls <= 2 {
				return "same"
			}
			return WindowID(fmt.Sprintf("id-%d", calls))
		},
	})
	first := mustOpen(t, m, "a")
	m.Close(first)
	second := mustOpen(t, m, "a")
	if first == second {
		t.Fatalf("id %q was reused", first)
	}
}

func TestNewID_LiveCollisionIsRedrawn(t *testing.T) {
	ids := []WindowID{"live", "live", "fresh"}
	m := NewManager(Options{
		NewID: func(string) WindowID {
			id := ids[0]
			ids = ids[1:]
			return id
		},
	})
	first := mustOpen(t, m, "a")
	second := mustOpen(t, m, "a")
	if first != "live" || second != "fresh" {
		t.Fatalf("ids = %q, %q", first, second)
	}
}

func TestClose_RetiredIDsAreBounded(t *testing.T) {
	m := newTestManager(t)
	for i := 0; i < maxRetiredIDs+500; i++ {
		m.Close(mustOpen(t, m, "notepad"))
	}
	if len(m.retired) != maxRetiredIDs || len(m.retiredQ) != maxRetiredIDs {
		t.Fatalf("retired = %d, queue = %d, want %d", len(m.retired), len(m.retiredQ), maxRetiredIDs)
	}
	if _, ok := m.retired["notepad-1"]; ok {
		t.Fatalf("oldest id should have been forgotten")
	}
	last := WindowID(fmt.Sprintf("notepad-%d", maxRetiredIDs+500))
	if _, ok := m.retired[last]; !ok {
		t.Fatalf("latest id %q should be remembered", last)
	}
}

func TestOpen_KeepsAppIDAsGiven(t *testing.T) {
	m := newTestManager(t)
	id := mustOpen(t, m, " notepad")
	rec := mustGet(t, m, id)
	if rec.AppID != " notepad" || rec.Title != " notepad" {
		t.Fatalf("app id rewritten: %+v", rec)
	}
	if rec.Geometry.Width != DefaultFallbackWidth || rec.Geometry.Height != DefaultFallbackHeight {
		t.Fatalf("expected fallback size, got %+v", rec.Geometry)
	}
}

func TestClose_GhostOnEmptyRegistry(t *testing.T) {
	m := newTestManager(t)
	if m.Close("ghost-123") {
		t.Fatalf("expected close of unknown id to report false")
	}
	if m.Snapshot().Len() != 0 {
		t.Fatalf("expected registry to stay empty")
	}
}

// Closing the focused window does not focus another one. This mirrors the
// current behavior; most desktops would promote the next window.
func TestClose_DoesNotRefocus(t *testing.T) {
	m := newTestManager(t)
	a := mustOpen(t, m, "notepad")
	b := mustOpen(t, m, "calculator")

	m.Close(b)
	if mustGet(t, m, a).Focused {
		t.Fatalf("expected no window to be focused after closing the focused one")
	}
	if _, ok := m.Snapshot().Focused(); ok {
		t.Fatalf("expected no focused record")
	}
}

func TestFocus_ExclusiveAndRaises(t *testing.T) {
	m := newTestManager(t)
	a := mustOpen(t, m, "notepad")
	b := mustOpen(t, m, "calculator")
	c := mustOpen(t, m, "paint")

	if !m.Focus(a) {
		t.Fatalf("expected focus to apply")
	}
	snap := m.Snapshot()
	checkFocusInvariant(t, snap)
	for _, rec := range snap.Windows {
		if (rec.ID == a) != rec.Focused {
			t.Fatalf("record %q focused=%v", rec.ID, rec.Focused)
		}
	}

	visible := snap.Visible()
	if top := visible[len(visible)-1].ID; top != a {
		t.Fatalf("expected %q on top, got %q", a, top)
	}
	// Taskbar order is untouched.
	order := []WindowID{snap.Windows[0].ID, snap.Windows[1].ID, snap.Windows[2].ID}
	if diff := cmp.Diff([]WindowID{a, b, c}, order); diff != "" {
		t.Fatalf("insertion order changed (-want +got):\n%s", diff)
	}
}

func TestFocus_UnknownIsNoop(t *testing.T) {
	m := newTestManager(t)
	a := mustOpen(t, m, "notepad")
	before := m.Snapshot()
	if m.Focus("missing") {
		t.Fatalf("expected focus of unknown id to report false")
	}
	after := m.Snapshot()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("snapshot changed (-before +after):\n%s", diff)
	}
	if !mustGet(t, m, a).Focused {
		t.Fatalf("expected %q to stay focused", a)
	}
}

func TestMinimizeThenFocusRestores(t *testing.T) {
	m := newTestManager(t)
	a := mustOpen(t, m, "notepad")
	b := mustOpen(t, m, "calculator")

	m.Minimize(b)
	rec := mustGet(t, m, b)
	if !rec.Minimized || rec.Focused {
		t.Fatalf("expected minimized and unfocused, got %+v", rec)
	}
	// No promotion of another window.
	if mustGet(t, m, a).Focused {
		t.Fatalf("expected %q to remain unfocused", a)
	}
	checkFocusInvariant(t, m.Snapshot())

	m.Focus(b)
	rec = mustGet(t, m, b)
	if rec.Minimized || !rec.Focused {
		t.Fatalf("expected restored and focused, got %+v", rec)
	}
}

func TestMinimize_ExcludedFromVisible(t *testing.T) {
	m := newTestManager(t)
	a := mustOpen(t, m, "notepad")
	b := mustOpen(t, m, "calculator")
	m.Minimize(a)

	visible := m.Snapshot().Visible()
	if len(visible) != 1 || visible[0].ID != b {
		t.Fatalf("expected only %q visible, got %+v", b, visible)
	}
}

func TestMaximize_TwiceRestoresGeometry(t *testing.T) {
	m := newTestManager(t)
	id := mustOpen(t, m, "notepad")
	before := mustGet(t, m, id)

	m.Maximize(id)
	maxed := mustGet(t, m, id)
	if !maxed.Maximized {
		t.Fatalf("expected maximized")
	}
	if maxed.Geometry != before.Geometry || maxed.Focused != before.Focused || maxed.Minimized != before.Minimized {
		t.Fatalf("maximize changed more than the flag: %+v -> %+v", before, maxed)
	}
	if got := m.Snapshot().Rendered(maxed); got != m.Desktop() {
		t.Fatalf("expected rendered geometry %+v, got %+v", m.Desktop(), got)
	}

	m.Maximize(id)
	after := mustGet(t, m, id)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("record mismatch after double maximize (-want +got):\n%s", diff)
	}
}

func TestUpdate_WhileMaximizedChangesRestoreGeometry(t *testing.T) {
	m := newTestManager(t)
	id := mustOpen(t, m, "notepad")
	m.Maximize(id)

	if !m.Update(id, MovePatch(10, 20)) {
		t.Fatalf("expected update to apply")
	}
	snap := m.Snapshot()
	rec, _ := snap.Find(id)
	if got := snap.Rendered(rec); got != snap.Desktop {
		t.Fatalf("rendered geometry moved while maximized: %+v", got)
	}

	m.Maximize(id)
	g := mustGet(t, m, id).Geometry
	if g.X != 10 || g.Y != 20 {
		t.Fatalf("expected restore position (10,20), got (%d,%d)", g.X, g.Y)
	}
}

func TestUpdate_RestrictedFields(t *testing.T) {
	m := newTestManager(t)
	id := mustOpen(t, m, "notepad")
	before := mustGet(t, m, id)

	m.Update(id, ResizePatch(640, 480))
	after := mustGet(t, m, id)
	want := before
	want.Geometry.Width = 640
	want.Geometry.Height = 480
	if diff := cmp.Diff(want, after); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	zero := 0
	if m.Update(id, Patch{Width: &zero}) {
		t.Fatalf("expected zero width to be ignored")
	}
	if m.Update(id, Patch{}) {
		t.Fatalf("expected empty patch to be a no-op")
	}
	if m.Update("missing", MovePatch(1, 1)) {
		t.Fatalf("expected update of unknown id to report false")
	}
}

func TestFocusedAlwaysTopmost(t *testing.T) {
	m := newTestManager(t)
	a := mustOpen(t, m, "notepad")
	b := mustOpen(t, m, "calculator")
	c := mustOpen(t, m, "paint")

	steps := []func(){
		func() { m.Focus(a) },
		func() { m.Minimize(c) },
		func() { m.Focus(c) },
		func() { m.Maximize(b) },
		func() { m.Focus(b) },
		func() { m.Close(a) },
		func() { mustOpen(t, m, "snake") },
	}
	for i, step := range steps {
		step()
		snap := m.Snapshot()
		checkFocusInvariant(t, snap)
		focused, ok := snap.Focused()
		if !ok {
			continue
		}
		visible := snap.Visible()
		if top := visible[len(visible)-1]; top.ID != focused.ID {
			t.Fatalf("step %d: focused %q is not topmost (%q is)", i, focused.ID, top.ID)
		}
	}
}

func TestSubscribe_EventsInOrderAndSkipsNoops(t *testing.T) {
	m := newTestManager(t)

	var kinds []EventKind
	var lengths []int
	cancel := m.Subscribe(func(ev Event) {
		kinds = append(kinds, ev.Kind)
		lengths = append(lengths, ev.Snapshot.Len())
	})

	id := mustOpen(t, m, "notepad")
	m.Focus("ghost")
	m.Update(id, MovePatch(1, 2))
	m.Maximize(id)
	m.Maximize(id)
	m.Minimize(id)
	m.Focus(id)
	m.Close(id)
	m.Close(id)

	wantKinds := []EventKind{EventOpened, EventUpdated, EventMaximized, EventRestored, EventMinimized, EventFocused, EventClosed}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 1, 1, 1, 1, 1, 0}, lengths); diff != "" {
		t.Fatalf("snapshot lengths mismatch (-want +got):\n%s", diff)
	}

	cancel()
	mustOpen(t, m, "notepad")
	if len(kinds) != len(wantKinds) {
		t.Fatalf("expected no events after cancel, got %v", kinds[len(wantKinds):])
	}
}

func TestSubscribe_ListenerMayReadManager(t *testing.T) {
	m := newTestManager(t)
	var seen int
	m.Subscribe(func(ev Event) {
		seen = m.Snapshot().Len()
	})
	mustOpen(t, m, "notepad")
	if seen != 1 {
		t.Fatalf("expected listener to observe 1 record, got %d", seen)
	}
}

func TestSetDesktop(t *testing.T) {
	m := newTestManager(t)
	var events int
	m.Subscribe(func(Event) { events++ })

	m.SetDesktop(Geometry{Width: 800, Height: 568})
	m.SetDesktop(Geometry{Width: 800, Height: 568})
	m.SetDesktop(Geometry{Width: 0, Height: 10})

	if got := m.Desktop(); got != (Geometry{Width: 800, Height: 568}) {
		t.Fatalf("unexpected desktop %+v", got)
	}
	if events != 1 {
		t.Fatalf("expected one desktop event, got %d", events)
	}
}

func TestReconfigure(t *testing.T) {
	m := newTestManager(t)
	id := mustOpen(t, m, "notepad")
	before := mustGet(t, m, id).Geometry

	var events int
	m.Subscribe(func(Event) { events++ })

	m.Reconfigure(Options{
		Apps:  AppTable{"notepad": {Title: "Editor", Width: 320, Height: 200}},
		Spawn: SpawnRegion{MinX: 10, MaxX: 10, MinY: 20, MaxY: 20},
	})
	if events != 0 {
		t.Fatalf("expected no event without a desktop change, got %d", events)
	}
	if got := mustGet(t, m, id).Geometry; got != before {
		t.Fatalf("open window moved: %+v -> %+v", before, got)
	}

	id2 := mustOpen(t, m, "notepad")
	want := Geometry{X: 10, Y: 20, Width: 320, Height: 200}
	if got := mustGet(t, m, id2).Geometry; got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	m.Reconfigure(Options{Desktop: Geometry{Width: 640, Height: 448}})
	if m.Desktop() != (Geometry{Width: 640, Height: 448}) {
		t.Fatalf("desktop not updated: %+v", m.Desktop())
	}
}

func TestGeometryContains(t *testing.T) {
	g := Geometry{X: 10, Y: 10, Width: 20, Height: 10}
	tests := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{29, 19, true},
		{30, 10, false},
		{10, 20, false},
		{9, 15, false},
	}
	for _, tt := range tests {
		if got := g.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFocusInvariant_RandomSequences(t *testing.T) {
	apps := []string{"notepad", "calculator", "paint", "snake"}
	for seed := uint64(1); seed <= 20; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*7919))
		m := newTestManager(t)

		for step := 0; step < 300; step++ {
			snap := m.Snapshot()
			pick := func() WindowID {
				if snap.Len() == 0 || r.IntN(10) == 0 {
					return "ghost"
				}
				return snap.Windows[r.IntN(snap.Len())].ID
			}

			var want WindowID
			switch r.IntN(6) {
			case 0:
				want = mustOpen(t, m, apps[r.IntN(len(apps))])
			case 1:
				m.Close(pick())
			case 2:
				id := pick()
				if m.Focus(id) {
					want = id
				}
			case 3:
				m.Minimize(pick())
			case 4:
				m.Maximize(pick())
			case 5:
				m.Update(pick(), MovePatch(r.IntN(800)-100, r.IntN(600)-100))
			}

			after := m.Snapshot()
			checkFocusInvariant(t, after)
			if want != "" {
				focused, ok := after.Focused()
				if !ok || focused.ID != want {
					t.Fatalf("seed %d step %d: expected %q focused, got %+v", seed, step, want, focused)
				}
			}
			if focused, ok := after.Focused(); ok {
				visible := after.Visible()
				if top := visible[len(visible)-1]; top.ID != focused.ID {
					t.Fatalf("seed %d step %d: focused %q is not topmost (%q is)", seed, step, focused.ID, top.ID)
				}
			}
		}
	}
}

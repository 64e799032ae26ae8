package arrange

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/retroshell/internal/wm"
)

var desktop = wm.Geometry{Width: 1024, Height: 736}

func TestCalculateGrid(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 2},
		{4, 2, 2},
		{5, 2, 3},
		{7, 3, 3},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("CalculateGrid(%d) = %d,%d, want %d,%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestPositions(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		n    int
		area wm.Geometry
		opts Options
		want []wm.Geometry
	}{
		{
			name: "grid stretches short last row",
			mode: ModeGrid,
			n:    3,
			area: desktop,
			opts: Options{Gap: 4},
			want: []wm.Geometry{
				{X: 4, Y: 4, Width: 506, Height: 362},
				{X: 514, Y: 4, Width: 506, Height: 362},
				{X: 4, Y: 370, Width: 1016, Height: 362},
			},
		},
		{
			name: "rows",
			mode: ModeRows,
			n:    2,
			area: wm.Geometry{X: 10, Y: 20, Width: 100, Height: 50},
			want: []wm.Geometry{
				{X: 10, Y: 20, Width: 100, Height: 25},
				{X: 10, Y: 45, Width: 100, Height: 25},
			},
		},
		{
			name: "columns",
			mode: ModeColumns,
			n:    2,
			area: wm.Geometry{Width: 100, Height: 50},
			opts: Options{Gap: 2},
			want: []wm.Geometry{
				{X: 2, Y: 2, Width: 47, Height: 46},
				{X: 51, Y: 2, Width: 47, Height: 46},
			},
		},
		{
			name: "cascade",
			mode: ModeCascade,
			n:    3,
			area: desktop,
			opts: Options{CascadeStep: 24},
			want: []wm.Geometry{
				{X: 0, Y: 0, Width: 682, Height: 490},
				{X: 24, Y: 24, Width: 682, Height: 490},
				{X: 48, Y: 48, Width: 682, Height: 490},
			},
		},
		{
			name: "cascade wraps inside area",
			mode: ModeCascade,
			n:    5,
			area: wm.Geometry{Width: 90, Height: 90},
			opts: Options{CascadeStep: 10},
			want: []wm.Geometry{
				{X: 0, Y: 0, Width: 60, Height: 60},
				{X: 10, Y: 10, Width: 60, Height: 60},
				{X: 20, Y: 20, Width: 60, Height: 60},
				{X: 30, Y: 30, Width: 60, Height: 60},
				{X: 0, Y: 0, Width: 60, Height: 60},
			},
		},
		{
			name: "no windows",
			mode: ModeGrid,
			area: desktop,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Positions(tt.mode, tt.n, tt.area, tt.opts)
			if err != nil {
				t.Fatalf("Positions error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("positions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPositionsErrors(t *testing.T) {
	if _, err := Positions(ModeGrid, 4, wm.Geometry{Width: 10, Height: 10}, Options{Gap: 4}); err == nil {
		t.Fatalf("expected insufficient space error")
	}
	if _, err := Positions(ModeCascade, 2, desktop, Options{}); err == nil {
		t.Fatalf("expected error for zero cascade step")
	}
	if _, err := Positions(Mode("spiral"), 2, desktop, DefaultOptions); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(" Grid "); err != nil || m != ModeGrid {
		t.Fatalf("ParseMode(Grid) = %q, %v", m, err)
	}
	if _, err := ParseMode("spiral"); err == nil {
		t.Fatalf("expected error")
	}
}

func newManager() *wm.Manager {
	n := 0
	return wm.NewManager(wm.Options{
		Desktop: desktop,
		IntN:    func(int) int { return 0 },
		NewID: func(appID string) wm.WindowID {
			n++
			return wm.WindowID(fmt.Sprintf("%s-%d", appID, n))
		},
	})
}

func TestApplySkipsMinimizedAndMaximized(t *testing.T) {
	m := newManager()
	for _, app := range []string{"notepad", "calculator", "paint", "snake"} {
		if _, err := m.Open(app); err != nil {
			t.Fatalf("Open(%s): %v", app, err)
		}
	}
	m.Minimize("snake-4")
	m.Maximize("paint-3")
	m.Focus("paint-3")
	before, _ := m.Get("paint-3")

	changed, err := Apply(m, ModeGrid, Options{Gap: 4})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff([]wm.WindowID{"notepad-1", "calculator-2"}, changed); diff != "" {
		t.Fatalf("changed mismatch (-want +got):\n%s", diff)
	}

	snap := m.Snapshot()
	want := map[wm.WindowID]wm.Geometry{
		"notepad-1":    {X: 4, Y: 4, Width: 506, Height: 728},
		"calculator-2": {X: 514, Y: 4, Width: 506, Height: 728},
		"paint-3":      before.Geometry,
	}
	for id, g := range want {
		rec, ok := snap.Find(id)
		if !ok {
			t.Fatalf("%s missing", id)
		}
		if diff := cmp.Diff(g, rec.Geometry); diff != "" {
			t.Fatalf("%s geometry mismatch (-want +got):\n%s", id, diff)
		}
	}
	if f, _ := snap.Focused(); f.ID != "paint-3" {
		t.Fatalf("focus moved to %s", f.ID)
	}

	again, err := Apply(m, ModeGrid, Options{Gap: 4})
	if err != nil || len(again) != 0 {
		t.Fatalf("second Apply = %v, %v; want no changes", again, err)
	}
}

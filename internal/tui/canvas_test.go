package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/retroshell/internal/wm"
)

func TestCanvasTextClipsAndHandlesWideRunes(t *testing.T) {
	c := newCanvas(8, 2, styleDesktop)

	if n := c.text(1, 0, "hello world", styleBody, 5); n != 5 {
		t.Fatalf("text() wrote %d columns, want 5", n)
	}
	if got := c.plain(0); got != " hello  " {
		t.Fatalf("row 0 = %q", got)
	}

	// A wide rune that would straddle the limit is dropped.
	if n := c.text(0, 1, "日本語", styleBody, 5); n != 4 {
		t.Fatalf("text() wrote %d columns, want 4", n)
	}
	if got := c.plain(1); got != "日本    " {
		t.Fatalf("row 1 = %q", got)
	}
	if c.at(1, 1).r != 0 {
		t.Fatalf("right half of wide rune should be a continuation cell")
	}
}

func TestCanvasSetOutOfBoundsIgnored(t *testing.T) {
	c := newCanvas(2, 1, styleDesktop)
	c.set(-1, 0, 'x', styleBody)
	c.set(2, 0, 'x', styleBody)
	c.set(0, 1, 'x', styleBody)
	if got := c.plain(0); got != "  " {
		t.Fatalf("row = %q", got)
	}
}

func TestCanvasRenderRows(t *testing.T) {
	c := newCanvas(4, 2, styleDesktop)
	c.fill(cellRect{X: 1, Y: 0, W: 2, H: 2}, '#', styleBody)

	styles := make([]lipgloss.Style, styleCount)
	for i := range styles {
		styles[i] = lipgloss.NewStyle()
	}
	got := strings.Split(c.render(styles), "\n")
	if diff := cmp.Diff([]string{" ## ", " ## "}, got); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestGridSpan(t *testing.T) {
	g := grid{cw: 8, ch: 16}
	tests := []struct {
		name string
		geom wm.Geometry
		want cellRect
	}{
		{"aligned", wm.Geometry{X: 16, Y: 32, Width: 80, Height: 48}, cellRect{X: 2, Y: 2, W: 10, H: 3}},
		{"unaligned", wm.Geometry{X: 100, Y: 50, Width: 250, Height: 300}, cellRect{X: 13, Y: 4, W: 31, H: 18}},
		{"negative origin", wm.Geometry{X: -20, Y: 0, Width: 40, Height: 16}, cellRect{X: -2, Y: 0, W: 5, H: 1}},
		{"too small", wm.Geometry{X: 1, Y: 1, Width: 2, Height: 2}, cellRect{X: 1, Y: 1, W: 0, H: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, g.span(tt.geom)); diff != "" {
				t.Fatalf("span mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cellRect is a rectangle of terminal cells.
type cellRect struct {
	X, Y, W, H int
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

type cell struct {
	r     rune // 0 marks the right half of a wide rune
	style styleID
}

// canvas is a grid of styled runes flattened to a string by render.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int, bg styleID) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', style: bg}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, st styleID) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, style: st}
}

func (c *canvas) at(x, y int) cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return cell{}
	}
	return c.cells[y*c.w+x]
}

func (c *canvas) fill(r cellRect, ch rune, st styleID) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			c.set(x, y, ch, st)
		}
	}
}

// text writes s starting at (x, y), clipped to maxWidth columns. It
// returns the number of columns written.
func (c *canvas) text(x, y int, s string, st styleID, maxWidth int) int {
	col := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > maxWidth {
			break
		}
		c.set(x+col, y, r, st)
		if rw == 2 {
			c.set(x+col+1, y, 0, st)
		}
		col += rw
	}
	return col
}

// render joins runs of equally styled cells and styles each run once.
func (c *canvas) render(styles []lipgloss.Style) string {
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		cur := styleID(0)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(styles[cur].Render(run.String()))
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.r == 0 {
				continue
			}
			if cl.style != cur {
				flush()
				cur = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return out.String()
}

// plain returns row y without styling, for tests.
func (c *canvas) plain(y int) string {
	var sb strings.Builder
	for x := 0; x < c.w; x++ {
		if r := c.cells[y*c.w+x].r; r != 0 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

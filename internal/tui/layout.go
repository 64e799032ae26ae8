package tui

import (
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/retroshell/internal/launcher"
	"github.com/1broseidon/retroshell/internal/view"
	"github.com/1broseidon/retroshell/internal/wm"
)

// grid maps terminal cells to desktop pixels. Cell (cx, cy) covers the
// pixels starting at (cx*cw, cy*ch).
type grid struct {
	cw, ch int
}

func (g grid) toPx(cx, cy int) (int, int) {
	return cx * g.cw, cy * g.ch
}

// span returns the cells whose origin pixel lies inside r.
func (g grid) span(r wm.Geometry) cellRect {
	x0, y0 := ceilDiv(r.X, g.cw), ceilDiv(r.Y, g.ch)
	x1, y1 := ceilDiv(r.X+r.Width, g.cw), ceilDiv(r.Y+r.Height, g.ch)
	return cellRect{X: x0, Y: y0, W: max(x1-x0, 0), H: max(y1-y0, 0)}
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// chrome sizes window decorations so that every region is a whole number
// of cells: a one-row title bar, three-column buttons and a one-cell grip.
func (g grid) chrome() view.Chrome {
	return view.Chrome{
		TitleBarHeight: g.ch,
		ButtonWidth:    3 * g.cw,
		ButtonGap:      0,
		Inset:          g.cw,
		HandleWidth:    g.cw,
		HandleHeight:   g.ch,
	}
}

const (
	startLabel      = "[Start]"
	taskButtonWidth = 18
	menuPadding     = 4
	iconWidth       = 12
)

type taskButton struct {
	rect   cellRect
	button launcher.Button
}

type taskbarLayout struct {
	row     int
	start   cellRect
	buttons []taskButton
	status  cellRect
	clock   cellRect
}

// layoutTaskbar places the taskbar on the last row. Buttons that do not
// fit between Start and the clock are left out.
func layoutTaskbar(w, h int, buttons []launcher.Button, clock string) taskbarLayout {
	row := h - 1
	l := taskbarLayout{row: row}
	l.start = cellRect{X: 0, Y: row, W: min(len(startLabel), w), H: 1}

	clockW := runewidth.StringWidth(clock) + 2
	if clock == "" {
		clockW = 0
	}
	clockX := max(w-clockW, l.start.W)
	l.clock = cellRect{X: clockX, Y: row, W: w - clockX, H: 1}

	x := l.start.W + 1
	for _, b := range buttons {
		if x+taskButtonWidth > clockX {
			break
		}
		l.buttons = append(l.buttons, taskButton{
			rect:   cellRect{X: x, Y: row, W: taskButtonWidth, H: 1},
			button: b,
		})
		x += taskButtonWidth + 1
	}
	l.status = cellRect{X: x, Y: row, W: max(clockX-x-1, 0), H: 1}
	return l
}

type menuEntry struct {
	rect     cellRect
	item     launcher.MenuItem
	path     []string
	expanded bool
}

// layoutMenu stacks the start menu columns side by side, bottom-aligned
// above the taskbar at row bottom.
func layoutMenu(cols [][]launcher.MenuItem, expanded []string, bottom int) []menuEntry {
	var out []menuEntry
	x := 0
	for c, items := range cols {
		width := 0
		for _, it := range items {
			width = max(width, runewidth.StringWidth(it.Name))
		}
		width += menuPadding
		top := bottom - len(items)
		for i, it := range items {
			path := make([]string, 0, c+1)
			path = append(path, expanded[:c]...)
			path = append(path, it.Name)
			out = append(out, menuEntry{
				rect:     cellRect{X: x, Y: top + i, W: width, H: 1},
				item:     it,
				path:     path,
				expanded: c < len(expanded) && expanded[c] == it.Name,
			})
		}
		x += width
	}
	return out
}

type iconEntry struct {
	rect cellRect
	icon launcher.Icon
}

// iconRows is the glyph height of an icon in cells, plus one label row.
func iconRows(size string, ch int) int {
	return max(launcher.IconPixels(size)/ch, 1) + 1
}

// layoutIcons arranges icons top to bottom in columns down the left edge
// of a desktop rows cells high.
func layoutIcons(icons []launcher.Icon, size string, ch, rows int) []iconEntry {
	h := iconRows(size, ch)
	out := make([]iconEntry, 0, len(icons))
	x, y := 1, 1
	for _, ic := range icons {
		if y+h > rows && y > 1 {
			x += iconWidth + 1
			y = 1
		}
		out = append(out, iconEntry{
			rect: cellRect{X: x, Y: y, W: iconWidth, H: h},
			icon: ic,
		})
		y += h + 1
	}
	return out
}

package tui

import (
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/retroshell/internal/view"
	"github.com/1broseidon/retroshell/internal/wm"
)

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	return m.draw().render(palette[:])
}

// draw paints the desktop bottom to top: icons, windows by stack order,
// the start menu, the taskbar.
func (m *Model) draw() *canvas {
	c := newCanvas(m.width, m.height, styleDesktop)
	snap := m.manager.Snapshot()

	m.drawIcons(c)
	chrome := m.surface.Chrome()
	for _, rec := range snap.Visible() {
		m.drawWindow(c, chrome, rec, snap.Rendered(rec))
	}
	if m.menu.IsOpen() {
		m.drawMenu(c)
	}
	m.drawTaskbar(c, snap)
	return c
}

func (m *Model) drawIcons(c *canvas) {
	glyphRows := iconRows(m.store.Get().Desktop.IconSize, m.grid.ch) - 1
	for _, e := range m.iconLayout() {
		r := e.rect
		for i := 0; i < glyphRows; i++ {
			c.text(r.X+(r.W-4)/2, r.Y+i, "▓▓▓▓", styleIcon, 4)
		}
		label := runewidth.Truncate(e.icon.Name, r.W, "…")
		st := styleIcon
		if m.desktop.Selected() == e.icon.AppID {
			st = styleIconSelected
		}
		pad := (r.W - runewidth.StringWidth(label)) / 2
		c.text(r.X+pad, r.Y+glyphRows, label, st, r.W-pad)
	}
}

var buttonGlyphs = map[view.Region]string{
	view.RegionMinimize: "[_]",
	view.RegionMaximize: "[^]",
	view.RegionClose:    "[x]",
}

// drawWindow styles each cell by the chrome region under its origin pixel,
// so what is drawn matches what a press on that cell hits.
func (m *Model) drawWindow(c *canvas, chrome view.Chrome, rec wm.Record, g wm.Geometry) {
	r := m.grid.span(g)
	if r.W == 0 || r.H == 0 {
		return
	}
	title := styleTitleInactive
	if rec.Focused {
		title = styleTitleActive
	}
	for cy := r.Y; cy < r.Y+r.H; cy++ {
		for cx := r.X; cx < r.X+r.W; cx++ {
			px, py := m.grid.toPx(cx, cy)
			ch := ' '
			var st styleID
			switch chrome.RegionAt(g, rec.Maximized, px, py) {
			case view.RegionTitleBar:
				st = title
			case view.RegionMinimize, view.RegionMaximize, view.RegionClose:
				st = styleButton
			case view.RegionResizeHandle:
				st, ch = styleHandle, '◢'
			case view.RegionBody:
				st = styleBody
			default:
				continue
			}
			c.set(cx, cy, ch, st)
		}
	}

	titleEnd := r.X + r.W
	for _, region := range []view.Region{view.RegionMinimize, view.RegionMaximize, view.RegionClose} {
		br, _ := chrome.ButtonRect(g, region)
		bc := m.grid.span(br)
		if bc.W == 0 || bc.H == 0 {
			continue
		}
		glyph := buttonGlyphs[region]
		if region == view.RegionMaximize && rec.Maximized {
			glyph = "[=]"
		}
		c.text(bc.X, bc.Y, glyph, styleButton, bc.W)
		titleEnd = min(titleEnd, bc.X)
	}
	c.text(r.X+1, r.Y, rec.Title, title, titleEnd-r.X-2)

	cols, rows := r.W-2, r.H-2
	if cols <= 0 || rows <= 0 {
		return
	}
	for i, line := range m.contentFor(rec).Render(cols, rows) {
		c.text(r.X+1, r.Y+1+i, line, styleBody, cols)
	}
}

func (m *Model) drawMenu(c *canvas) {
	for _, e := range m.menuLayout() {
		st := styleMenu
		if e.expanded {
			st = styleMenuExpanded
		}
		c.fill(e.rect, ' ', st)
		c.text(e.rect.X+1, e.rect.Y, e.item.Name, st, e.rect.W-3)
		if e.item.HasSubmenu() {
			c.set(e.rect.X+e.rect.W-2, e.rect.Y, '>', st)
		}
	}
}

func (m *Model) drawTaskbar(c *canvas, snap wm.Snapshot) {
	l := m.taskbarLayout(snap)
	c.fill(cellRect{X: 0, Y: l.row, W: m.width, H: 1}, ' ', styleTaskbar)

	start := styleStart
	if m.menu.IsOpen() {
		start = styleStartOpen
	}
	c.text(l.start.X, l.start.Y, startLabel, start, l.start.W)

	for _, b := range l.buttons {
		st := styleTaskButton
		switch {
		case b.button.Focused:
			st = styleTaskButtonActive
		case b.button.Minimized:
			st = styleTaskButtonMinimized
		}
		c.fill(b.rect, ' ', st)
		c.text(b.rect.X+1, b.rect.Y, b.button.Title, st, b.rect.W-2)
	}

	switch {
	case m.running:
		line := m.prompt.Prompt + m.prompt.Value() + "_"
		c.text(l.status.X+1, l.status.Y, line, styleStatus, l.status.W-1)
	case m.status != "":
		c.text(l.status.X+1, l.status.Y, m.status, styleStatus, l.status.W-1)
	}
	if clock := m.clockText(); clock != "" {
		c.fill(l.clock, ' ', styleClock)
		c.text(l.clock.X+1, l.clock.Y, clock, styleClock, l.clock.W-1)
	}
}

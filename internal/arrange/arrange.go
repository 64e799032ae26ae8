// Package arrange lays out the visible windows of a desktop: cascaded, in
// an automatic grid, or as full-width rows or full-height columns.
package arrange

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/retroshell/internal/wm"
)

// Mode selects a layout.
type Mode string

const (
	ModeCascade Mode = "cascade"
	ModeGrid    Mode = "grid"
	ModeRows    Mode = "rows"
	ModeColumns Mode = "columns"
)

// Modes returns every supported mode.
func Modes() []Mode {
	return []Mode{ModeCascade, ModeGrid, ModeRows, ModeColumns}
}

// ParseMode validates a mode name. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	names := make([]string, 0, len(Modes()))
	for _, known := range Modes() {
		names = append(names, string(known))
	}
	return "", fmt.Errorf("unknown arrange mode %q (expected one of: %s)", s, strings.Join(names, ", "))
}

// Options spaces the layout.
type Options struct {
	// Gap is the space around and between tiled windows.
	Gap int
	// CascadeStep is the offset between cascaded windows.
	CascadeStep int
}

// DefaultOptions match the config defaults.
var DefaultOptions = Options{Gap: 4, CascadeStep: 24}

// CalculateGrid determines the grid dimensions for n windows: as many
// columns as the ceiling of the square root, and enough rows to hold them.
func CalculateGrid(n int) (rows, cols int) {
	if n == 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return rows, cols
}

// Positions computes the geometry of n windows inside area.
func Positions(mode Mode, n int, area wm.Geometry, opts Options) ([]wm.Geometry, error) {
	if n == 0 {
		return nil, nil
	}
	switch mode {
	case ModeCascade:
		return cascade(n, area, opts.CascadeStep)
	case ModeGrid:
		rows, cols := CalculateGrid(n)
		return tile(n, rows, cols, area, opts.Gap, true)
	case ModeRows:
		return tile(n, n, 1, area, opts.Gap, false)
	case ModeColumns:
		return tile(n, 1, n, area, opts.Gap, false)
	default:
		return nil, fmt.Errorf("unsupported arrange mode: %q", mode)
	}
}

// cascade gives every window two thirds of the area, each offset by step
// from the previous one. Offsets wrap before a window would leave the area.
func cascade(n int, area wm.Geometry, step int) ([]wm.Geometry, error) {
	if step <= 0 {
		return nil, fmt.Errorf("cascade step must be > 0, got %d", step)
	}
	w, h := area.Width*2/3, area.Height*2/3
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("insufficient space for cascade: area=%dx%d", area.Width, area.Height)
	}
	steps := min((area.Width-w)/step, (area.Height-h)/step) + 1

	out := make([]wm.Geometry, n)
	for i := range out {
		off := (i % steps) * step
		out[i] = wm.Geometry{X: area.X + off, Y: area.Y + off, Width: w, Height: h}
	}
	return out, nil
}

// tile places n windows in a rows x cols grid with gap pixels around every
// slot. With flexibleLastRow, a short last row stretches to the full width.
func tile(n, rows, cols int, area wm.Geometry, gap int, flexibleLastRow bool) ([]wm.Geometry, error) {
	slotWidth := (area.Width - (cols+1)*gap) / cols
	slotHeight := (area.Height - (rows+1)*gap) / rows
	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, gap, slotWidth, slotHeight,
		)
	}

	lastRow := rows - 1
	inLastRow := n - lastRow*cols
	lastRowWidth := slotWidth
	if flexibleLastRow && inLastRow > 0 && inLastRow < cols {
		lastRowWidth = (area.Width - (inLastRow+1)*gap) / inLastRow
	}

	out := make([]wm.Geometry, n)
	for i := range out {
		row, col := i/cols, i%cols
		width := slotWidth
		if row == lastRow {
			width = lastRowWidth
		}
		out[i] = wm.Geometry{
			X:      area.X + gap + col*(width+gap),
			Y:      area.Y + gap + row*(slotHeight+gap),
			Width:  width,
			Height: slotHeight,
		}
	}
	return out, nil
}

// Operations is the subset of the window manager Apply needs.
type Operations interface {
	Snapshot() wm.Snapshot
	Update(id wm.WindowID, p wm.Patch) bool
}

// Apply lays out the visible, non-maximized windows in stack order, so the
// topmost window gets the last slot. Focus and stacking are unchanged. It
// returns the ids of the windows whose geometry changed.
func Apply(ops Operations, mode Mode, opts Options) ([]wm.WindowID, error) {
	snap := ops.Snapshot()
	var targets []wm.Record
	for _, rec := range snap.Visible() {
		if !rec.Maximized {
			targets = append(targets, rec)
		}
	}
	positions, err := Positions(mode, len(targets), snap.Desktop, opts)
	if err != nil {
		return nil, err
	}

	var changed []wm.WindowID
	for i, rec := range targets {
		g := positions[i]
		p := wm.Patch{X: &g.X, Y: &g.Y, Width: &g.Width, Height: &g.Height}
		if ops.Update(rec.ID, p) {
			changed = append(changed, rec.ID)
		}
	}
	return changed, nil
}

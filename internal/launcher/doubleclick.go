package launcher

import "time"

const (
	slowestDoubleClick = 900 * time.Millisecond
	fastestDoubleClick = 200 * time.Millisecond
)

// DoubleClickInterval maps mouse.doubleClickSpeed (0 slow .. 100 fast) to
// the longest gap between two clicks that still counts as a double-click.
func DoubleClickInterval(speed int) time.Duration {
	speed = min(max(speed, 0), 100)
	span := slowestDoubleClick - fastestDoubleClick
	return slowestDoubleClick - span*time.Duration(speed)/100
}

// DoubleClick detects two clicks on the same target within an interval.
type DoubleClick struct {
	interval time.Duration
	target   string
	at       time.Time
}

// NewDoubleClick creates a detector.
func NewDoubleClick(interval time.Duration) *DoubleClick {
	return &DoubleClick{interval: interval}
}

// SetInterval changes the interval for subsequent clicks.
func (d *DoubleClick) SetInterval(interval time.Duration) {
	d.interval = interval
}

// Click records a click on target and reports whether it completes a
// double-click. A completed double-click resets the detector.
func (d *DoubleClick) Click(target string, at time.Time) bool {
	if target == d.target && !d.at.IsZero() && at.Sub(d.at) <= d.interval {
		d.Reset()
		return true
	}
	d.target = target
	d.at = at
	return false
}

// Reset forgets the previous click.
func (d *DoubleClick) Reset() {
	d.target = ""
	d.at = time.Time{}
}

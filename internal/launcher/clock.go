package launcher

import (
	"context"
	"time"

	"github.com/1broseidon/retroshell/internal/settings"
)

// DefaultClockInterval is the tray clock refresh rate.
const DefaultClockInterval = time.Second

// Clock drives the tray clock.
type Clock struct {
	Interval time.Duration
	Now      func() time.Time
}

// Run calls tick with the current time immediately and then on every
// interval until ctx is done.
func (c Clock) Run(ctx context.Context, tick func(time.Time)) {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultClockInterval
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}

	tick(now())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(now())
		}
	}
}

// windowsZones maps the display names used by the dateTime settings to
// IANA locations.
var windowsZones = map[string]string{
	"Pacific Standard Time":  "America/Los_Angeles",
	"Mountain Standard Time": "America/Denver",
	"Central Standard Time":  "America/Chicago",
	"Eastern Standard Time":  "America/New_York",
	"GMT Standard Time":      "Europe/London",
	"Central European Time":  "Europe/Berlin",
	"Tokyo Standard Time":    "Asia/Tokyo",
}

// Location resolves a dateTime.timeZone value. Unknown names fall back to
// the local zone.
func Location(name string) *time.Location {
	if iana, ok := windowsZones[name]; ok {
		name = iana
	}
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// FormatTime renders t for the tray according to the dateTime settings.
func FormatTime(t time.Time, dt settings.DateTime) string {
	t = t.In(Location(dt.TimeZone))
	layout := "3:04 PM"
	if dt.Format == "24-hour" {
		layout = "15:04"
	}
	if dt.ShowSeconds {
		if dt.Format == "24-hour" {
			layout = "15:04:05"
		} else {
			layout = "3:04:05 PM"
		}
	}
	return t.Format(layout)
}

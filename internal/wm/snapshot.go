package wm

import "sort"

// EventKind names the operation that produced an Event.
type EventKind string

const (
	EventOpened    EventKind = "opened"
	EventClosed    EventKind = "closed"
	EventFocused   EventKind = "focused"
	EventMinimized EventKind = "minimized"
	EventMaximized EventKind = "maximized"
	EventRestored  EventKind = "restored"
	EventUpdated   EventKind = "updated"
	EventDesktop   EventKind = "desktop"
)

// Event is delivered to subscribers after every effective mutation.
type Event struct {
	Kind     EventKind
	ID       WindowID
	Snapshot Snapshot
}

// Snapshot is a read-only copy of the registry. Windows are in insertion
// order.
type Snapshot struct {
	Version uint64   `json:"version"`
	Desktop Geometry `json:"desktop"`
	Windows []Record `json:"windows"`
}

// Find returns the record with the given id.
func (s Snapshot) Find(id WindowID) (Record, bool) {
	for _, rec := range s.Windows {
		if rec.ID == id {
			return rec, true
		}
	}
	return Record{}, false
}

// Focused returns the focused record, if any.
func (s Snapshot) Focused() (Record, bool) {
	for _, rec := range s.Windows {
		if rec.Focused {
			return rec, true
		}
	}
	return Record{}, false
}

// Visible returns the non-minimized records ordered bottom to top.
func (s Snapshot) Visible() []Record {
	out := make([]Record, 0, len(s.Windows))
	for _, rec := range s.Windows {
		if !rec.Minimized {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StackOrder < out[j].StackOrder
	})
	return out
}

// Rendered returns the on-screen geometry of rec: the whole desktop area
// while maximized, the stored geometry otherwise.
func (s Snapshot) Rendered(rec Record) Geometry {
	if rec.Maximized {
		return s.Desktop
	}
	return rec.Geometry
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.Windows)
}

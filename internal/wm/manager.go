package wm

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Options configures a Manager.
type Options struct {
	// Apps maps application identifiers to window defaults.
	Apps AppTable
	// FallbackWidth and FallbackHeight size windows of unknown apps.
	FallbackWidth  int
	FallbackHeight int
	// Desktop is the area a maximized window covers.
	Desktop Geometry
	// Spawn bounds the initial top-left corner of new windows.
	Spawn SpawnRegion
	// IntN returns a value in [0, n). Defaults to math/rand/v2.IntN.
	IntN func(n int) int
	// NewID generates window ids. Defaults to "<appID>-<uuid>".
	NewID  func(appID string) WindowID
	Logger *slog.Logger
}

type listener struct {
	id int
	fn func(Event)
}

// Manager owns the window registry. It is the only component allowed to
// mutate records; every other component works from Snapshots.
type Manager struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	records   []Record
	retired   map[WindowID]struct{}
	retiredQ  []WindowID
	nextStack uint64
	version   uint64
	desktop   Geometry

	apps           AppTable
	fallbackWidth  int
	fallbackHeight int
	spawn          SpawnRegion
	intn           func(n int) int
	newID          func(appID string) WindowID
	logger         *slog.Logger

	listeners      []listener
	nextListenerID int
}

// maxRetiredIDs bounds how many closed ids are remembered to keep a
// generator collision from reviving a recently closed window's id.
const maxRetiredIDs = 1024

// DefaultDesktop is a 1024x768 screen minus a 32px taskbar.
var DefaultDesktop = Geometry{X: 0, Y: 0, Width: 1024, Height: 736}

// NewManager creates an empty registry.
func NewManager(opts Options) *Manager {
	m := &Manager{
		retired:        make(map[WindowID]struct{}),
		desktop:        opts.Desktop,
		apps:           opts.Apps,
		fallbackWidth:  opts.FallbackWidth,
		fallbackHeight: opts.FallbackHeight,
		spawn:          opts.Spawn,
		intn:           opts.IntN,
		newID:          opts.NewID,
		logger:         opts.Logger,
	}
	if m.desktop.Width <= 0 || m.desktop.Height <= 0 {
		m.desktop = DefaultDesktop
	}
	if m.apps == nil {
		m.apps = AppTable{}
	}
	if m.fallbackWidth <= 0 {
		m.fallbackWidth = DefaultFallbackWidth
	}
	if m.fallbackHeight <= 0 {
		m.fallbackHeight = DefaultFallbackHeight
	}
	if m.spawn == (SpawnRegion{}) {
		m.spawn = DefaultSpawnRegion
	}
	if m.intn == nil {
		m.intn = rand.IntN
	}
	if m.newID == nil {
		m.newID = func(appID string) WindowID {
			return WindowID(appID + "-" + uuid.NewString())
		}
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m
}

// Open creates a focused, topmost window for appID. Unknown identifiers
// are accepted and get the fallback title and size. The identifier is
// stored as given; a blank one is rejected.
func (m *Manager) Open(appID string) (WindowID, error) {
	if strings.TrimSpace(appID) == "" {
		return "", ErrEmptyAppID
	}

	m.mu.Lock()
	spec, ok := m.apps.Lookup(appID)
	if !ok {
		spec = AppSpec{Title: appID, Width: m.fallbackWidth, Height: m.fallbackHeight}
	}
	id := m.uniqueIDLocked(appID)
	for i := range m.records {
		m.records[i].Focused = false
	}
	m.nextStack++
	m.records = append(m.records, Record{
		ID:    id,
		AppID: appID,
		Title: spec.Title,
		Geometry: Geometry{
			X:      m.between(m.spawn.MinX, m.spawn.MaxX),
			Y:      m.between(m.spawn.MinY, m.spawn.MaxY),
			Width:  spec.Width,
			Height: spec.Height,
		},
		Focused:    true,
		StackOrder: m.nextStack,
	})
	m.logger.Debug("window opened", "id", id, "app", appID, "known_app", ok)
	m.publishLocked(EventOpened, id)
	return id, nil
}

// Close removes the window. Focus of the remaining windows is unchanged.
func (m *Manager) Close(id WindowID) bool {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	m.records = slices.Delete(m.records, idx, idx+1)
	m.retireLocked(id)
	m.logger.Debug("window closed", "id", id)
	m.publishLocked(EventClosed, id)
	return true
}

// Focus makes the window the only focused one, restores it if minimized
// and raises it to the top of the stack.
func (m *Manager) Focus(id WindowID) bool {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	for i := range m.records {
		m.records[i].Focused = i == idx
	}
	m.records[idx].Minimized = false
	m.nextStack++
	m.records[idx].StackOrder = m.nextStack
	m.publishLocked(EventFocused, id)
	return true
}

// Minimize hides the window and drops its focus. No other window is
// promoted.
func (m *Manager) Minimize(id WindowID) bool {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	m.records[idx].Minimized = true
	m.records[idx].Focused = false
	m.publishLocked(EventMinimized, id)
	return true
}

// Maximize toggles the maximized flag. Stored geometry is kept so that the
// window restores exactly.
func (m *Manager) Maximize(id WindowID) bool {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	m.records[idx].Maximized = !m.records[idx].Maximized
	kind := EventMaximized
	if !m.records[idx].Maximized {
		kind = EventRestored
	}
	m.publishLocked(kind, id)
	return true
}

// Update merges geometry fields into the stored geometry. While the window
// is maximized this changes the restore geometry only.
func (m *Manager) Update(id WindowID, p Patch) bool {
	if p.Empty() {
		return false
	}
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	next := p.apply(m.records[idx].Geometry)
	if next == m.records[idx].Geometry {
		m.mu.Unlock()
		return false
	}
	m.records[idx].Geometry = next
	m.publishLocked(EventUpdated, id)
	return true
}

// Get returns a copy of the record.
func (m *Manager) Get(id WindowID) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexLocked(id)
	if idx < 0 {
		return Record{}, false
	}
	return m.records[idx], true
}

// Snapshot returns a copy of the registry.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Desktop returns the area maximized windows cover.
func (m *Manager) Desktop() Geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.desktop
}

// SetDesktop changes the desktop area, e.g. after a terminal resize.
func (m *Manager) SetDesktop(g Geometry) {
	if g.Width <= 0 || g.Height <= 0 {
		return
	}
	m.mu.Lock()
	if g == m.desktop {
		m.mu.Unlock()
		return
	}
	m.desktop = g
	m.publishLocked(EventDesktop, "")
}

// Reconfigure swaps the app table, fallback size and spawn region used by
// later Opens, and the desktop area. Open windows keep their geometry.
func (m *Manager) Reconfigure(opts Options) {
	m.mu.Lock()
	if opts.Apps != nil {
		m.apps = opts.Apps
	}
	if opts.FallbackWidth > 0 {
		m.fallbackWidth = opts.FallbackWidth
	}
	if opts.FallbackHeight > 0 {
		m.fallbackHeight = opts.FallbackHeight
	}
	if opts.Spawn != (SpawnRegion{}) {
		m.spawn = opts.Spawn
	}
	g := opts.Desktop
	if g.Width <= 0 || g.Height <= 0 || g == m.desktop {
		m.mu.Unlock()
		return
	}
	m.desktop = g
	m.publishLocked(EventDesktop, "")
}

// Subscribe registers fn to be called after every effective mutation, in
// mutation order. fn must not call mutating Manager methods synchronously.
func (m *Manager) Subscribe(fn func(Event)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextListenerID++
	id := m.nextListenerID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.listeners = slices.DeleteFunc(m.listeners, func(l listener) bool {
			return l.id == id
		})
	}
}

// publishLocked must be called with m.mu held and releases it. Delivery
// holds notifyMu so listeners observe events in mutation order.
func (m *Manager) publishLocked(kind EventKind, id WindowID) {
	m.version++
	ev := Event{Kind: kind, ID: id, Snapshot: m.snapshotLocked()}
	fns := make([]func(Event), len(m.listeners))
	for i, l := range m.listeners {
		fns[i] = l.fn
	}

	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	windows := make([]Record, len(m.records))
	copy(windows, m.records)
	return Snapshot{
		Version: m.version,
		Desktop: m.desktop,
		Windows: windows,
	}
}

func (m *Manager) indexLocked(id WindowID) int {
	for i := range m.records {
		if m.records[i].ID == id {
			return i
		}
	}
	return -1
}

// uniqueIDLocked draws ids until one is neither open nor recently closed.
func (m *Manager) uniqueIDLocked(appID string) WindowID {
	for {
		id := m.newID(appID)
		if m.indexLocked(id) >= 0 {
			continue
		}
		if _, dup := m.retired[id]; dup {
			continue
		}
		return id
	}
}

func (m *Manager) retireLocked(id WindowID) {
	if len(m.retiredQ) >= maxRetiredIDs {
		delete(m.retired, m.retiredQ[0])
		m.retiredQ = m.retiredQ[1:]
	}
	m.retired[id] = struct{}{}
	m.retiredQ = append(m.retiredQ, id)
}

func (m *Manager) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + m.intn(hi-lo+1)
}

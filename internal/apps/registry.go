// Package apps provides the content renderers hosted inside desktop windows.
// Applications register a Factory under their identifier; the window manager
// never needs to know which ones exist.
package apps

import (
	"sort"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/retroshell/internal/settings"
)

// App renders the content area of a window. Render must return exactly
// height lines, each at most width cells wide.
type App interface {
	Render(width, height int) []string
}

// Env is handed to factories when a window is opened.
type Env struct {
	AppID    string
	Settings *settings.Store
}

// Factory creates the content for one window.
type Factory func(env Env) App

// Registry maps application identifiers to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default holds the built-in applications.
var Default = NewRegistry()

// Register adds f to the Default registry.
func Register(appID string, f Factory) {
	Default.Register(appID, f)
}

// Register adds or replaces the factory for appID.
func (r *Registry) Register(appID string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[appID] = f
}

// Has reports whether appID has a real implementation.
func (r *Registry) Has(appID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[appID]
	return ok
}

// IDs returns the registered identifiers, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve returns the content for appID. It never fails: identifiers
// without a factory get a placeholder.
func (r *Registry) Resolve(env Env) App {
	r.mu.RLock()
	f, ok := r.factories[env.AppID]
	r.mu.RUnlock()
	if !ok {
		return Placeholder(env.AppID)
	}
	return f(env)
}

// Lines is an App with fixed content.
type Lines []string

// Render implements App.
func (l Lines) Render(width, height int) []string {
	return Fit(l, width, height)
}

// Fit clips or pads lines to exactly width x height cells.
func Fit(lines []string, width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = strings.ReplaceAll(lines[i], "\t", "    ")
		}
		line = runewidth.Truncate(line, width, "")
		out[i] = runewidth.FillRight(line, width)
	}
	return out
}

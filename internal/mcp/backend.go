package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/retroshell/internal/apps"
	"github.com/1broseidon/retroshell/internal/arrange"
	"github.com/1broseidon/retroshell/internal/config"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/settings"
	"github.com/1broseidon/retroshell/internal/wm"
)

// Backend is the desktop session the tools operate on. *ipc.Client talks
// to a running daemon; LocalBackend drives an in-process session.
type Backend interface {
	Open(appID string) (wm.WindowID, error)
	Close(id wm.WindowID) (bool, error)
	Focus(id wm.WindowID) (bool, error)
	Minimize(id wm.WindowID) (bool, error)
	Maximize(id wm.WindowID) (bool, error)
	Update(id wm.WindowID, p wm.Patch) (bool, error)
	Snapshot() (wm.Snapshot, error)
	Apps() ([]ipc.AppInfo, error)
	Settings() (settings.Settings, error)
	SettingsCategory(category string) (map[string]any, error)
	UpdateSettings(category string, updates map[string]any) (map[string]any, error)
	Arrange(mode string) ([]wm.WindowID, error)
}

var _ Backend = (*ipc.Client)(nil)

// LocalBackend serves the tools from an in-process session, for running
// the MCP server without a daemon.
type LocalBackend struct {
	Config  *config.Config
	Manager *wm.Manager
	Store   *settings.Store
}

// NewLocalBackend creates a fresh session from cfg.
func NewLocalBackend(cfg *config.Config) *LocalBackend {
	return &LocalBackend{
		Config:  cfg,
		Manager: wm.NewManager(cfg.ManagerOptions()),
		Store:   settings.NewStore(cfg.Settings),
	}
}

func (b *LocalBackend) Open(appID string) (wm.WindowID, error) { return b.Manager.Open(appID) }

func (b *LocalBackend) Close(id wm.WindowID) (bool, error)    { return b.Manager.Close(id), nil }
func (b *LocalBackend) Focus(id wm.WindowID) (bool, error)    { return b.Manager.Focus(id), nil }
func (b *LocalBackend) Minimize(id wm.WindowID) (bool, error) { return b.Manager.Minimize(id), nil }
func (b *LocalBackend) Maximize(id wm.WindowID) (bool, error) { return b.Manager.Maximize(id), nil }

func (b *LocalBackend) Update(id wm.WindowID, p wm.Patch) (bool, error) {
	return b.Manager.Update(id, p), nil
}

func (b *LocalBackend) Snapshot() (wm.Snapshot, error) { return b.Manager.Snapshot(), nil }

func (b *LocalBackend) Apps() ([]ipc.AppInfo, error) {
	table := b.Config.AppTable()
	out := make([]ipc.AppInfo, 0, len(table))
	for _, id := range b.Config.AppIDs() {
		spec := table[id]
		out = append(out, ipc.AppInfo{
			ID:          id,
			Title:       spec.Title,
			Width:       spec.Width,
			Height:      spec.Height,
			Implemented: apps.Default.Has(id),
		})
	}
	return out, nil
}

func (b *LocalBackend) Settings() (settings.Settings, error) { return b.Store.Get(), nil }

func (b *LocalBackend) SettingsCategory(category string) (map[string]any, error) {
	v, err := b.Store.Category(category)
	if err != nil {
		return nil, err
	}
	return toMap(v)
}

func (b *LocalBackend) UpdateSettings(category string, updates map[string]any) (map[string]any, error) {
	if err := b.Store.Update(category, updates); err != nil {
		return nil, err
	}
	return b.SettingsCategory(category)
}

func (b *LocalBackend) Arrange(mode string) ([]wm.WindowID, error) {
	m, err := arrange.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return arrange.Apply(b.Manager, m, b.Config.ArrangeOptions())
}

// toMap converts a settings value to its JSON object form so local and
// daemon-backed results look the same.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return out, nil
}

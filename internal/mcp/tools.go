package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/retroshell/internal/wm"
)

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OpenWindowOutput, error) {
	appID := strings.TrimSpace(args.AppID)
	if appID == "" {
		return nil, OpenWindowOutput{}, fmt.Errorf("app_id is required")
	}
	id, err := s.backend.Open(appID)
	if err != nil {
		return nil, OpenWindowOutput{}, fmt.Errorf("failed to open %s: %w", appID, err)
	}
	s.logger.Info("mcp: window opened", "id", id, "app", appID)

	info, _, err := s.lookup(id)
	if err != nil {
		return nil, OpenWindowOutput{}, err
	}
	return nil, OpenWindowOutput{ID: id, Window: info}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("close_window", args.ID, s.backend.Close)
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("focus_window", args.ID, s.backend.Focus)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("minimize_window", args.ID, s.backend.Minimize)
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("maximize_window", args.ID, s.backend.Maximize)
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	patch := wm.MovePatch(args.X, args.Y)
	return s.windowOp("move_window", args.ID, func(id wm.WindowID) (bool, error) {
		return s.backend.Update(id, patch)
	})
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	if args.Width < 1 || args.Height < 1 {
		return nil, WindowOpOutput{}, fmt.Errorf("width and height must be >= 1 (got %dx%d)", args.Width, args.Height)
	}
	patch := wm.ResizePatch(args.Width, args.Height)
	return s.windowOp("resize_window", args.ID, func(id wm.WindowID) (bool, error) {
		return s.backend.Update(id, patch)
	})
}

// windowOp runs op and reports the window state afterwards. Unknown ids are
// not errors: the result has applied=false and no window.
func (s *Server) windowOp(tool string, rawID string, op func(wm.WindowID) (bool, error)) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	id := wm.WindowID(strings.TrimSpace(rawID))
	if id == "" {
		return nil, WindowOpOutput{}, fmt.Errorf("id is required")
	}
	applied, err := op(id)
	if err != nil {
		return nil, WindowOpOutput{}, fmt.Errorf("%s: %w", tool, err)
	}
	s.logger.Debug("mcp: window operation", "tool", tool, "id", id, "applied", applied)

	out := WindowOpOutput{ID: id, Applied: applied}
	info, ok, err := s.lookup(id)
	if err != nil {
		return nil, WindowOpOutput{}, err
	}
	if ok {
		out.Window = &info
	}
	return nil, out, nil
}

func (s *Server) lookup(id wm.WindowID) (WindowInfo, bool, error) {
	snap, err := s.backend.Snapshot()
	if err != nil {
		return WindowInfo{}, false, fmt.Errorf("failed to list windows: %w", err)
	}
	for _, info := range describe(snap) {
		if info.ID == id {
			return info, true, nil
		}
	}
	return WindowInfo{}, false, nil
}

// describe annotates every record with its rendered geometry and layer.
func describe(snap wm.Snapshot) []WindowInfo {
	layers := make(map[wm.WindowID]int)
	for i, rec := range snap.Visible() {
		layers[rec.ID] = i
	}
	out := make([]WindowInfo, 0, snap.Len())
	for _, rec := range snap.Windows {
		layer, ok := layers[rec.ID]
		if !ok {
			layer = -1
		}
		out = append(out, WindowInfo{
			ID:         rec.ID,
			AppID:      rec.AppID,
			Title:      rec.Title,
			Geometry:   rec.Geometry,
			Focused:    rec.Focused,
			Minimized:  rec.Minimized,
			Maximized:  rec.Maximized,
			StackOrder: rec.StackOrder,
			Rendered:   snap.Rendered(rec),
			Layer:      layer,
		})
	}
	return out
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	snap, err := s.backend.Snapshot()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("failed to list windows: %w", err)
	}
	includeMinimized := args.IncludeMinimized == nil || *args.IncludeMinimized

	out := ListWindowsOutput{Desktop: snap.Desktop, Windows: []WindowInfo{}}
	if rec, ok := snap.Focused(); ok {
		out.Focused = rec.ID
	}
	for _, info := range describe(snap) {
		if info.Minimized && !includeMinimized {
			continue
		}
		out.Windows = append(out.Windows, info)
	}
	return nil, out, nil
}

func (s *Server) handleListApps(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListAppsInput) (*mcpsdk.CallToolResult, ListAppsOutput, error) {
	list, err := s.backend.Apps()
	if err != nil {
		return nil, ListAppsOutput{}, fmt.Errorf("failed to list apps: %w", err)
	}
	return nil, ListAppsOutput{Apps: list}, nil
}

func (s *Server) handleGetSettings(_ context.Context, _ *mcpsdk.CallToolRequest, args GetSettingsInput) (*mcpsdk.CallToolResult, SettingsOutput, error) {
	category := strings.TrimSpace(args.Category)
	if category == "" {
		all, err := s.backend.Settings()
		if err != nil {
			return nil, SettingsOutput{}, fmt.Errorf("failed to read settings: %w", err)
		}
		values, err := toMap(all)
		if err != nil {
			return nil, SettingsOutput{}, err
		}
		return nil, SettingsOutput{Values: values}, nil
	}

	values, err := s.backend.SettingsCategory(category)
	if err != nil {
		return nil, SettingsOutput{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return nil, SettingsOutput{Category: category, Values: values}, nil
}

func (s *Server) handleUpdateSettings(_ context.Context, _ *mcpsdk.CallToolRequest, args UpdateSettingsInput) (*mcpsdk.CallToolResult, SettingsOutput, error) {
	category := strings.TrimSpace(args.Category)
	if category == "" {
		return nil, SettingsOutput{}, fmt.Errorf("category is required")
	}
	if len(args.Updates) == 0 {
		return nil, SettingsOutput{}, fmt.Errorf("updates must not be empty")
	}
	values, err := s.backend.UpdateSettings(category, args.Updates)
	if err != nil {
		return nil, SettingsOutput{}, fmt.Errorf("failed to update settings: %w", err)
	}
	s.logger.Info("mcp: settings updated", "category", category, "fields", len(args.Updates))
	return nil, SettingsOutput{Category: category, Values: values}, nil
}

func (s *Server) handleArrangeWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeInput) (*mcpsdk.CallToolResult, ArrangeOutput, error) {
	mode := strings.ToLower(strings.TrimSpace(args.Mode))
	if mode == "" {
		return nil, ArrangeOutput{}, fmt.Errorf("mode is required")
	}
	changed, err := s.backend.Arrange(mode)
	if err != nil {
		return nil, ArrangeOutput{}, fmt.Errorf("arrange_windows failed: %w", err)
	}
	snap, err := s.backend.Snapshot()
	if err != nil {
		return nil, ArrangeOutput{}, fmt.Errorf("failed to read windows: %w", err)
	}
	s.logger.Info("mcp: windows arranged", "mode", mode, "changed", len(changed))
	if changed == nil {
		changed = []wm.WindowID{}
	}
	return nil, ArrangeOutput{Mode: mode, Changed: changed, Windows: describe(snap)}, nil
}

package mcp

import (
	"context"
	"io"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName    = "retroshell"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing desktop window operations.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	logger    *slog.Logger
}

// NewServer creates a new MCP server over backend. Logs go to logger,
// never to stdout, which carries the protocol.
func NewServer(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		backend: backend,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a new window for an application. The window is focused and placed on top of the stack at a randomized position. Unknown app ids are accepted and show a placeholder. Returns the new window id.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. No other window gains focus. applied=false when the id is unknown.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window: it becomes the only focused window, is restored if minimized and is raised to the top.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window. It disappears from the desktop and loses focus; focus_window restores it.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Toggle the maximized state of a window. A maximized window covers the desktop area; toggling again restores its previous geometry exactly.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window's top-left corner. Positions are not clamped. On a maximized window this changes the restore position only.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window. On a maximized window this changes the restore size only.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List open windows in taskbar (insertion) order with their focus, minimized and maximized state, stored and rendered geometry and stacking layer.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_apps",
		Description: "List the configured applications with their default window title and size.",
	}, s.handleListApps)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_settings",
		Description: "Read system settings, either one category or all of them.",
	}, s.handleGetSettings)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_settings",
		Description: "Update fields of one settings category. Named fields are replaced, all others are kept. Unknown categories and fields are rejected.",
	}, s.handleUpdateSettings)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Lay out all visible, non-maximized windows on the desktop: cascade, grid, rows or columns. Focus and stacking are unchanged. Returns the ids whose geometry changed.",
	}, s.handleArrangeWindows)
}

package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/retroshell/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandOpenWindow     CommandType = "OPEN_WINDOW"
	CommandCloseWindow    CommandType = "CLOSE_WINDOW"
	CommandFocusWindow    CommandType = "FOCUS_WINDOW"
	CommandMinimizeWindow CommandType = "MINIMIZE_WINDOW"
	CommandMaximizeWindow CommandType = "MAXIMIZE_WINDOW"
	CommandUpdateWindow   CommandType = "UPDATE_WINDOW"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandListApps       CommandType = "LIST_APPS"
	CommandGetSettings    CommandType = "GET_SETTINGS"
	CommandUpdateSettings CommandType = "UPDATE_SETTINGS"
	CommandArrange        CommandType = "ARRANGE"
	CommandPointer        CommandType = "POINTER"
	CommandWatch          CommandType = "WATCH"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int         `json:"window_count"`
	VisibleCount  int         `json:"visible_count"`
	Focused       wm.WindowID `json:"focused,omitempty"`
	Version       uint64      `json:"version"`
	Desktop       wm.Geometry `json:"desktop"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	DaemonRunning bool        `json:"daemon_running"`
}

type OpenWindowPayload struct {
	AppID string `json:"app_id"`
}

type OpenWindowData struct {
	ID wm.WindowID `json:"id"`
}

// WindowPayload addresses one window for CLOSE/FOCUS/MINIMIZE/MAXIMIZE.
type WindowPayload struct {
	ID wm.WindowID `json:"id"`
}

// UpdateWindowPayload carries the geometry fields to change; omitted
// fields are left untouched.
type UpdateWindowPayload struct {
	ID wm.WindowID `json:"id"`
	wm.Patch
}

// AppliedData reports whether an operation changed anything. Operations on
// unknown windows are not errors.
type AppliedData struct {
	Applied bool `json:"applied"`
}

type AppInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Implemented is false for apps that render the placeholder.
	Implemented bool `json:"implemented"`
}

type AppsData struct {
	Apps []AppInfo `json:"apps"`
}

// SettingsPayload selects a single category; empty means all settings.
type SettingsPayload struct {
	Category string `json:"category,omitempty"`
}

type UpdateSettingsPayload struct {
	Category string         `json:"category"`
	Updates  map[string]any `json:"updates"`
}

// Pointer event kinds.
const (
	PointerDown  = "down"
	PointerMove  = "move"
	PointerUp    = "up"
	PointerLeave = "leave"
)

// ArrangePayload selects the layout of ARRANGE: cascade, grid, rows or
// columns.
type ArrangePayload struct {
	Mode string `json:"mode"`
}

// ArrangeData lists the windows ARRANGE moved or resized.
type ArrangeData struct {
	Mode    string        `json:"mode"`
	Changed []wm.WindowID `json:"changed"`
}

type PointerPayload struct {
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// PointerData describes the outcome of a pointer event: the region hit by
// a press and the current pointer capture.
type PointerData struct {
	Region   string      `json:"region,omitempty"`
	ID       wm.WindowID `json:"id,omitempty"`
	Captured wm.WindowID `json:"captured,omitempty"`
	Phase    string      `json:"phase"`
}

// WatchEvent is one line of a WATCH stream. The first line has kind
// "snapshot" and carries the state at subscription time.
type WatchEvent struct {
	Kind     wm.EventKind `json:"kind"`
	ID       wm.WindowID  `json:"id,omitempty"`
	Snapshot wm.Snapshot  `json:"snapshot"`
}

// WatchSnapshot is the kind of the first WATCH line.
const WatchSnapshot wm.EventKind = "snapshot"

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

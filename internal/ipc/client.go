package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/retroshell/internal/runtimepath"
	"github.com/1broseidon/retroshell/internal/settings"
	"github.com/1broseidon/retroshell/internal/wm"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientForSocket(socketPath)
}

// NewClientForSocket creates a client talking to an explicit socket path.
func NewClientForSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	return conn, nil
}

func writeRequest(conn net.Conn, command CommandType, payload any) error {
	req := Request{Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = raw
	}
	reqData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

func readResponse(reader *bufio.Reader) (*Response, error) {
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// call sends one request and decodes the response data into out (if non-nil).
func (c *Client) call(command CommandType, payload any, out any) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := writeRequest(conn, command, payload); err != nil {
		return err
	}
	resp, err := readResponse(bufio.NewReader(conn))
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Open asks the daemon to open a window for appID.
func (c *Client) Open(appID string) (wm.WindowID, error) {
	var data OpenWindowData
	if err := c.call(CommandOpenWindow, OpenWindowPayload{AppID: appID}, &data); err != nil {
		return "", err
	}
	return data.ID, nil
}

func (c *Client) windowOp(command CommandType, id wm.WindowID) (bool, error) {
	var data AppliedData
	if err := c.call(command, WindowPayload{ID: id}, &data); err != nil {
		return false, err
	}
	return data.Applied, nil
}

// Close removes a window. It reports false for unknown ids.
func (c *Client) Close(id wm.WindowID) (bool, error) {
	return c.windowOp(CommandCloseWindow, id)
}

// Focus focuses and raises a window.
func (c *Client) Focus(id wm.WindowID) (bool, error) {
	return c.windowOp(CommandFocusWindow, id)
}

// Minimize hides a window.
func (c *Client) Minimize(id wm.WindowID) (bool, error) {
	return c.windowOp(CommandMinimizeWindow, id)
}

// Maximize toggles the maximized state of a window.
func (c *Client) Maximize(id wm.WindowID) (bool, error) {
	return c.windowOp(CommandMaximizeWindow, id)
}

// Update changes the stored geometry of a window.
func (c *Client) Update(id wm.WindowID, p wm.Patch) (bool, error) {
	var data AppliedData
	if err := c.call(CommandUpdateWindow, UpdateWindowPayload{ID: id, Patch: p}, &data); err != nil {
		return false, err
	}
	return data.Applied, nil
}

// Snapshot lists every open window.
func (c *Client) Snapshot() (wm.Snapshot, error) {
	var snap wm.Snapshot
	if err := c.call(CommandListWindows, nil, &snap); err != nil {
		return wm.Snapshot{}, err
	}
	return snap, nil
}

// Apps lists the configured application table.
func (c *Client) Apps() ([]AppInfo, error) {
	var data AppsData
	if err := c.call(CommandListApps, nil, &data); err != nil {
		return nil, err
	}
	return data.Apps, nil
}

// Settings returns all system settings.
func (c *Client) Settings() (settings.Settings, error) {
	var s settings.Settings
	if err := c.call(CommandGetSettings, nil, &s); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

// SettingsCategory returns one settings category as a generic map.
func (c *Client) SettingsCategory(category string) (map[string]any, error) {
	var out map[string]any
	if err := c.call(CommandGetSettings, SettingsPayload{Category: category}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSettings shallow-merges updates into a settings category and
// returns the category after the merge.
func (c *Client) UpdateSettings(category string, updates map[string]any) (map[string]any, error) {
	var out map[string]any
	if err := c.call(CommandUpdateSettings, UpdateSettingsPayload{Category: category, Updates: updates}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Pointer sends one pointer event to the daemon's desktop surface.
func (c *Client) Pointer(kind string, x, y int) (*PointerData, error) {
	var data PointerData
	if err := c.call(CommandPointer, PointerPayload{Kind: kind, X: x, Y: y}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Arrange lays out the visible windows and returns the ids that changed.
func (c *Client) Arrange(mode string) ([]wm.WindowID, error) {
	var data ArrangeData
	if err := c.call(CommandArrange, ArrangePayload{Mode: mode}, &data); err != nil {
		return nil, err
	}
	return data.Changed, nil
}

// Watch streams window events until ctx is cancelled, the daemon goes away
// or fn returns an error. The first event carries the current snapshot.
func (c *Client) Watch(ctx context.Context, fn func(WatchEvent) error) error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := writeRequest(conn, CommandWatch, nil); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	reader := bufio.NewReader(conn)
	for {
		resp, err := readResponse(reader)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		var ev WatchEvent
		if err := json.Unmarshal(resp.Data, &ev); err != nil {
			return fmt.Errorf("failed to parse watch event: %w", err)
		}
		if err := fn(ev); err != nil {
			if errors.Is(err, ErrStopWatch) {
				return nil
			}
			return err
		}
	}
}

// ErrStopWatch may be returned by a Watch callback to end the stream
// without an error.
var ErrStopWatch = errors.New("stop watch")

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

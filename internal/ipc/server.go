package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/retroshell/internal/apps"
	"github.com/1broseidon/retroshell/internal/arrange"
	"github.com/1broseidon/retroshell/internal/config"
	"github.com/1broseidon/retroshell/internal/runtimepath"
	"github.com/1broseidon/retroshell/internal/settings"
	"github.com/1broseidon/retroshell/internal/view"
	"github.com/1broseidon/retroshell/internal/wm"
)

// ServerOptions wires a Server to one desktop session.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Config     *config.Config
	Manager    *wm.Manager
	Settings   *settings.Store
	// Surface receives POINTER commands. Defaults to a surface over Manager
	// using the configured minimum window size.
	Surface *view.Surface
	// LoadConfig is used by RELOAD. Defaults to config.Load.
	LoadConfig func() (*config.Config, error)
	// ReloadChan is notified (non-blocking) after a successful RELOAD.
	ReloadChan chan<- *config.Config
	Logger     *slog.Logger
}

// requestTimeout bounds how long a client may take to send its request.
const requestTimeout = 5 * time.Second

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	listener   net.Listener
	cfg        *config.Config
	cfgMu      sync.RWMutex
	manager    *wm.Manager
	store      *settings.Store
	loadConfig func() (*config.Config, error)
	reloadChan chan<- *config.Config
	logger     *slog.Logger
	startTime  time.Time

	surfaceMu sync.Mutex
	surface   *view.Surface

	done         chan struct{}
	conns        sync.WaitGroup
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Manager == nil {
		return nil, errors.New("ipc server requires a window manager")
	}
	socketPath := opts.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store := opts.Settings
	if store == nil {
		store = settings.NewStore(cfg.Settings)
	}
	surface := opts.Surface
	if surface == nil {
		surface = view.NewSurface(opts.Manager, view.SurfaceOptions{
			MinSize: view.MinSize{Width: cfg.Window.MinWidth, Height: cfg.Window.MinHeight},
			Logger:  opts.Logger,
		})
	}
	loadConfig := opts.LoadConfig
	if loadConfig == nil {
		loadConfig = config.Load
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		manager:    opts.Manager,
		store:      store,
		surface:    surface,
		loadConfig: loadConfig,
		reloadChan: opts.ReloadChan,
		logger:     logger,
		startTime:  time.Now(),
		done:       make(chan struct{}),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				return
			}
			s.logger.Warn("IPC accept error", "err", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	conn.SetReadDeadline(time.Now().Add(requestTimeout))

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	if req.Command == CommandWatch {
		conn.SetReadDeadline(time.Time{})
		s.handleWatch(conn, reader)
		return
	}

	s.writeResponse(conn, s.handleCommand(req))
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandOpenWindow:
		return s.handleOpenWindow(req.Payload)
	case CommandCloseWindow:
		return s.handleWindowOp(req.Payload, s.manager.Close)
	case CommandFocusWindow:
		return s.handleWindowOp(req.Payload, s.manager.Focus)
	case CommandMinimizeWindow:
		return s.handleWindowOp(req.Payload, s.manager.Minimize)
	case CommandMaximizeWindow:
		return s.handleWindowOp(req.Payload, s.manager.Maximize)
	case CommandUpdateWindow:
		return s.handleUpdateWindow(req.Payload)
	case CommandListWindows:
		return okResponse(s.manager.Snapshot())
	case CommandListApps:
		return s.handleListApps()
	case CommandGetSettings:
		return s.handleGetSettings(req.Payload)
	case CommandUpdateSettings:
		return s.handleUpdateSettings(req.Payload)
	case CommandArrange:
		return s.handleArrange(req.Payload)
	case CommandPointer:
		return s.handlePointer(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD command")

	newCfg, err := s.loadConfig()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the daemon via channel (non-blocking)
	if s.reloadChan != nil {
		select {
		case s.reloadChan <- newCfg:
		default:
		}
	}

	s.logger.Info("IPC: config reloaded")
	return okResponse(nil)
}

func (s *Server) handleGetStatus() *Response {
	snap := s.manager.Snapshot()
	status := StatusData{
		WindowCount:   snap.Len(),
		VisibleCount:  len(snap.Visible()),
		Version:       snap.Version,
		Desktop:       snap.Desktop,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if rec, ok := snap.Focused(); ok {
		status.Focused = rec.ID
	}
	return okResponse(status)
}

func (s *Server) handleOpenWindow(payload json.RawMessage) *Response {
	var req OpenWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid open payload: %v", err))
	}
	id, err := s.manager.Open(req.AppID)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to open window: %v", err))
	}
	return okResponse(OpenWindowData{ID: id})
}

func (s *Server) handleWindowOp(payload json.RawMessage, op func(wm.WindowID) bool) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	return okResponse(AppliedData{Applied: op(req.ID)})
}

func (s *Server) handleUpdateWindow(payload json.RawMessage) *Response {
	var req UpdateWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid update payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	return okResponse(AppliedData{Applied: s.manager.Update(req.ID, req.Patch)})
}

func (s *Server) handleListApps() *Response {
	cfg := s.GetConfig()
	table := cfg.AppTable()
	ids := cfg.AppIDs()
	data := AppsData{Apps: make([]AppInfo, 0, len(ids))}
	for _, id := range ids {
		spec := table[id]
		data.Apps = append(data.Apps, AppInfo{
			ID:          id,
			Title:       spec.Title,
			Width:       spec.Width,
			Height:      spec.Height,
			Implemented: apps.Default.Has(id),
		})
	}
	return okResponse(data)
}

func (s *Server) handleGetSettings(payload json.RawMessage) *Response {
	var req SettingsPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid settings payload: %v", err))
		}
	}
	if req.Category == "" {
		return okResponse(s.store.Get())
	}
	v, err := s.store.Category(req.Category)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(v)
}

func (s *Server) handleUpdateSettings(payload json.RawMessage) *Response {
	var req UpdateSettingsPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid settings payload: %v", err))
	}
	if err := s.store.Update(req.Category, req.Updates); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to update settings: %v", err))
	}
	s.logger.Info("IPC: settings updated", "category", req.Category)
	v, _ := s.store.Category(req.Category)
	return okResponse(v)
}

func (s *Server) handleArrange(payload json.RawMessage) *Response {
	var req ArrangePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid arrange payload: %v", err))
	}
	mode, err := arrange.ParseMode(req.Mode)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	changed, err := arrange.Apply(s.manager, mode, s.GetConfig().ArrangeOptions())
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return okResponse(ArrangeData{Mode: string(mode), Changed: changed})
}

func (s *Server) handlePointer(payload json.RawMessage) *Response {
	var req PointerPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid pointer payload: %v", err))
	}

	s.surfaceMu.Lock()
	defer s.surfaceMu.Unlock()

	var data PointerData
	switch req.Kind {
	case PointerDown:
		hit := s.surface.PointerDown(req.X, req.Y)
		data.Region = hit.Region.String()
		data.ID = hit.ID
	case PointerMove:
		s.surface.PointerMove(req.X, req.Y)
	case PointerUp:
		s.surface.PointerUp()
	case PointerLeave:
		s.surface.PointerLeave()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown pointer kind: %q", req.Kind))
	}

	id, phase, _ := s.surface.Captured()
	data.Captured = id
	data.Phase = phase.String()
	return okResponse(data)
}

// handleWatch streams one WatchEvent per line, starting with the current
// snapshot, until the client disconnects or the server stops.
func (s *Server) handleWatch(conn net.Conn, reader *bufio.Reader) {
	events := make(chan wm.Event, 64)
	cancel := s.manager.Subscribe(func(ev wm.Event) {
		select {
		case events <- ev:
		default:
			s.logger.Warn("IPC: watch client too slow, dropping event", "kind", ev.Kind)
		}
	})
	defer cancel()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		io.Copy(io.Discard, reader)
	}()

	snap := s.manager.Snapshot()
	if !s.writeResponse(conn, okResponse(WatchEvent{Kind: WatchSnapshot, Snapshot: snap})) {
		return
	}

	for {
		select {
		case ev := <-events:
			if !s.writeResponse(conn, okResponse(WatchEvent{Kind: ev.Kind, ID: ev.ID, Snapshot: ev.Snapshot})) {
				return
			}
		case <-gone:
			return
		case <-s.done:
			return
		}
	}
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) bool {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		return false
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug("failed to send response", "err", err)
		return false
	}
	return true
}

func okResponse(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}

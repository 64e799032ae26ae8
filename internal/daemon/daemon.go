package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/retroshell/internal/config"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/settings"
	"github.com/1broseidon/retroshell/internal/wm"
)

// Options configures a Daemon.
type Options struct {
	// Config is the initial configuration. Defaults to LoadConfig().
	Config *config.Config
	// LoadConfig reloads configuration on SIGHUP or RELOAD. Defaults to
	// config.Load.
	LoadConfig func() (*config.Config, error)
	// SocketPath overrides the runtime socket location.
	SocketPath string
	// WatchPath, if set, reloads the configuration whenever that file
	// changes on disk.
	WatchPath string
	// Level, if set, is adjusted to log_level on every (re)load.
	Level  *slog.LevelVar
	Logger *slog.Logger
}

// Daemon owns one desktop session and serves it over IPC.
type Daemon struct {
	cfg        *config.Config
	loadConfig func() (*config.Config, error)
	level      *slog.LevelVar
	logger     *slog.Logger

	manager *wm.Manager
	store   *settings.Store
	journal *Journal
	server  *ipc.Server
	reload  chan *config.Config
	watch   string
	started time.Time
}

// New builds the session and the IPC server without starting them.
func New(opts Options) (*Daemon, error) {
	loadConfig := opts.LoadConfig
	if loadConfig == nil {
		loadConfig = config.Load
	}
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Level != nil {
		opts.Level.Set(cfg.SlogLevel())
	}

	journal, err := NewJournal(JournalConfigFrom(cfg))
	if err != nil {
		return nil, err
	}

	mopts := cfg.ManagerOptions()
	mopts.Logger = logger
	manager := wm.NewManager(mopts)
	store := settings.NewStore(cfg.Settings)
	reload := make(chan *config.Config, 1)

	server, err := ipc.NewServer(ipc.ServerOptions{
		SocketPath: opts.SocketPath,
		Config:     cfg,
		Manager:    manager,
		Settings:   store,
		LoadConfig: loadConfig,
		ReloadChan: reload,
		Logger:     logger,
	})
	if err != nil {
		journal.Close()
		return nil, fmt.Errorf("failed to create IPC server: %w", err)
	}

	return &Daemon{
		cfg:        cfg,
		loadConfig: loadConfig,
		level:      opts.Level,
		logger:     logger,
		manager:    manager,
		store:      store,
		journal:    journal,
		server:     server,
		reload:     reload,
		watch:      opts.WatchPath,
	}, nil
}

// Manager returns the session's window manager.
func (d *Daemon) Manager() *wm.Manager { return d.manager }

// Settings returns the session's settings store.
func (d *Daemon) Settings() *settings.Store { return d.store }

// SocketPath returns the IPC socket path.
func (d *Daemon) SocketPath() string { return d.server.SocketPath() }

// Run serves IPC until ctx is cancelled. SIGHUP and, when watching, edits
// of the config file reload the configuration.
func (d *Daemon) Run(ctx context.Context) error {
	cancel := d.manager.Subscribe(d.journal.Record)
	defer cancel()
	defer d.journal.Close()

	var changed <-chan struct{}
	if d.watch != "" {
		ch, err := watchConfig(ctx, d.watch, DefaultWatchDebounce, d.logger)
		if err != nil {
			d.logger.Warn("config watching disabled", "err", err)
		} else {
			changed = ch
			d.logger.Info("watching config file", "path", d.watch)
		}
	}

	if err := d.server.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer d.server.Stop()

	d.started = time.Now()
	d.logger.Info("retroshell daemon started",
		"socket", d.server.SocketPath(),
		"desktop", fmt.Sprintf("%dx%d", d.cfg.Desktop.Width, d.cfg.Desktop.Height),
		"apps", len(d.cfg.Apps))

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down retroshell daemon",
				"uptime", time.Since(d.started).Round(time.Second),
				"windows", d.manager.Snapshot().Len())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-hup:
			d.logger.Info("received SIGHUP, reloading config")
			d.reloadFromDisk()
		case <-changed:
			d.logger.Info("config file changed, reloading config")
			d.reloadFromDisk()
		case newCfg := <-d.reload:
			// RELOAD over IPC already swapped the server's copy.
			d.applyConfig(newCfg)
		}
	}
}

func (d *Daemon) reloadFromDisk() {
	newCfg, err := d.loadConfig()
	if err != nil {
		d.logger.Error("config reload failed", "err", err)
		return
	}
	d.server.UpdateConfig(newCfg)
	d.applyConfig(newCfg)
}

// applyConfig pushes a reloaded config into the running session. Settings
// are reset to the configured values and the journal is reopened; open
// windows keep their geometry.
func (d *Daemon) applyConfig(cfg *config.Config) {
	d.cfg = cfg
	if d.level != nil {
		d.level.Set(cfg.SlogLevel())
	}
	d.manager.Reconfigure(cfg.ManagerOptions())
	d.store.Replace(cfg.Settings)
	if err := d.journal.Reconfigure(JournalConfigFrom(cfg)); err != nil {
		d.logger.Error("journal reconfigure failed", "err", err)
	}
	d.logger.Info("config reloaded", "apps", len(cfg.Apps), "log_level", cfg.LogLevel)
}

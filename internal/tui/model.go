package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/retroshell/internal/apps"
	"github.com/1broseidon/retroshell/internal/arrange"
	"github.com/1broseidon/retroshell/internal/config"
	"github.com/1broseidon/retroshell/internal/launcher"
	"github.com/1broseidon/retroshell/internal/settings"
	"github.com/1broseidon/retroshell/internal/view"
	"github.com/1broseidon/retroshell/internal/wm"
)

// Options configures the terminal desktop.
type Options struct {
	Config *config.Config
	// ConfigPath is reloaded on ctrl+r. Empty means the default location.
	ConfigPath string
	// Manager lets a caller share its registry with the desktop. A new
	// one is created from Config when nil.
	Manager *wm.Manager
}

// clockMsg carries a tray clock tick.
type clockMsg time.Time

// Model is the bubbletea model of the desktop. It keeps only UI state;
// every window lives in the Manager.
type Model struct {
	cfg        *config.Config
	configPath string

	manager *wm.Manager
	store   *settings.Store
	surface *view.Surface
	taskbar *launcher.Taskbar
	menu    *launcher.StartMenu
	desktop *launcher.Desktop
	content map[wm.WindowID]apps.App

	grid   grid
	keys   KeyMap
	width  int
	height int
	clock  time.Time
	status string

	// Run prompt
	running bool
	prompt  textinput.Model

	now      func() time.Time
	copyText func(string) error
	load     func(path string) (*config.Config, error)
}

// New creates the desktop model.
func New(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	mgr := opts.Manager
	if mgr == nil {
		mgr = wm.NewManager(cfg.ManagerOptions())
	}
	store := settings.NewStore(cfg.Settings)

	ti := textinput.New()
	ti.Prompt = "Run: "
	ti.Placeholder = "notepad"
	ti.CharLimit = 32

	m := &Model{
		cfg:        cfg,
		configPath: opts.ConfigPath,
		manager:    mgr,
		store:      store,
		taskbar:    launcher.NewTaskbar(mgr, cfg.Taskbar.ShowMinimized),
		menu:       launcher.NewStartMenu(mgr, nil),
		desktop:    launcher.NewDesktop(mgr, nil, store),
		content:    make(map[wm.WindowID]apps.App),
		prompt:     ti,
		keys:       DefaultKeyMap,
		now:        time.Now,
		copyText:   clipboard.WriteAll,
		load:       loadConfig,
	}
	m.applyGrid(cfg)
	return m
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func (m *Model) applyGrid(cfg *config.Config) {
	m.grid = grid{cw: cfg.TUI.CellWidth, ch: cfg.TUI.CellHeight}
	m.surface = view.NewSurface(m.manager, view.SurfaceOptions{
		Chrome: m.grid.chrome(),
		MinSize: view.MinSize{
			Width:  cfg.Window.MinWidth,
			Height: cfg.Window.MinHeight,
		},
	})
}

// Manager returns the window registry behind the desktop.
func (m *Model) Manager() *wm.Manager { return m.manager }

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case clockMsg:
		m.clock = time.Time(msg)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	default:
		if m.running {
			m.prompt, cmd = m.prompt.Update(msg)
		}
	}
	m.pruneContent()
	return m, cmd
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.manager.SetDesktop(m.desktopArea())
}

// desktopArea is every row but the taskbar, in pixels.
func (m *Model) desktopArea() wm.Geometry {
	w, h := m.grid.toPx(m.width, m.height-1)
	return wm.Geometry{Width: w, Height: h}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.running {
		return m.updateRun(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.StartMenu):
		m.menu.Toggle()
	case key.Matches(msg, m.keys.Escape):
		m.menu.Close()
	case key.Matches(msg, m.keys.Close):
		m.onFocused(func(rec wm.Record) {
			m.manager.Close(rec.ID)
			m.status = "Closed " + rec.Title
		})
	case key.Matches(msg, m.keys.Minimize):
		m.onFocused(func(rec wm.Record) { m.manager.Minimize(rec.ID) })
	case key.Matches(msg, m.keys.Maximize):
		m.onFocused(func(rec wm.Record) { m.manager.Maximize(rec.ID) })
	case key.Matches(msg, m.keys.Yank):
		m.onFocused(func(rec wm.Record) {
			if err := m.copyText(string(rec.ID)); err != nil {
				m.status = "Copy failed: " + err.Error()
				return
			}
			m.status = "Copied: " + string(rec.ID)
		})
	case key.Matches(msg, m.keys.Run):
		m.menu.Close()
		m.running = true
		m.prompt.Reset()
		return m.prompt.Focus()
	case key.Matches(msg, m.keys.Cascade):
		m.arrange(arrange.ModeCascade)
	case key.Matches(msg, m.keys.Tile):
		m.arrange(arrange.ModeGrid)
	case key.Matches(msg, m.keys.Reload):
		m.reload()
	}
	return nil
}

// updateRun feeds keys to the run prompt. Enter opens the typed
// application, Esc cancels.
func (m *Model) updateRun(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		if appID := strings.TrimSpace(m.prompt.Value()); appID != "" {
			m.open(m.manager.Open, appID)
		}
		m.running = false
		m.prompt.Blur()
		return nil
	case tea.KeyEsc:
		m.running = false
		m.prompt.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

func (m *Model) arrange(mode arrange.Mode) {
	changed, err := arrange.Apply(m.manager, mode, m.cfg.ArrangeOptions())
	if err != nil {
		m.status = "Arrange failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("Arranged %d windows", len(changed))
}

func (m *Model) onFocused(fn func(rec wm.Record)) {
	rec, ok := m.manager.Snapshot().Focused()
	if !ok {
		m.status = "No focused window"
		return
	}
	fn(rec)
}

// reload re-reads the config. Open windows keep their geometry; the
// desktop keeps following the terminal size.
func (m *Model) reload() {
	cfg, err := m.load(m.configPath)
	if err != nil {
		m.status = "Reload failed: " + err.Error()
		return
	}
	m.cfg = cfg
	opts := cfg.ManagerOptions()
	m.applyGrid(cfg)
	if m.width > 0 && m.height > 1 {
		opts.Desktop = m.desktopArea()
	}
	m.manager.Reconfigure(opts)
	m.store.Replace(cfg.Settings)
	m.taskbar.ShowMinimized = cfg.Taskbar.ShowMinimized
	m.status = "Config reloaded"
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	px, py := m.grid.toPx(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.press(msg.X, msg.Y, px, py)
	case tea.MouseActionMotion:
		if msg.Button == tea.MouseButtonLeft {
			m.surface.PointerMove(px, py)
		}
	case tea.MouseActionRelease:
		m.surface.PointerUp()
	}
}

// press routes a left press, topmost layer first: taskbar, start menu,
// windows, desktop icons.
func (m *Model) press(x, y, px, py int) {
	snap := m.manager.Snapshot()

	if y == m.height-1 {
		m.pressTaskbar(x, y, snap)
		return
	}

	if m.menu.IsOpen() {
		for _, e := range m.menuLayout() {
			if !e.rect.contains(x, y) {
				continue
			}
			if e.item.HasSubmenu() {
				_ = m.menu.Expand(e.path...)
				return
			}
			m.open(m.menu.Activate, e.item.AppID)
			return
		}
		m.menu.Close()
	}

	if hit := m.surface.PointerDown(px, py); hit.Region != view.RegionNone {
		m.desktop.Deselect()
		return
	}

	for _, e := range m.iconLayout() {
		if !e.rect.contains(x, y) {
			continue
		}
		id, opened, err := m.desktop.Click(e.icon.AppID, m.now())
		switch {
		case err != nil:
			m.status = "Open failed: " + err.Error()
		case opened:
			m.status = fmt.Sprintf("Opened %s", id)
		}
		return
	}
	m.desktop.Deselect()
}

func (m *Model) pressTaskbar(x, y int, snap wm.Snapshot) {
	l := m.taskbarLayout(snap)
	if l.start.contains(x, y) {
		m.menu.Toggle()
		return
	}
	m.menu.Close()
	for _, b := range l.buttons {
		if b.rect.contains(x, y) {
			m.taskbar.Click(b.button.ID)
			return
		}
	}
}

func (m *Model) open(activate func(string) (wm.WindowID, error), appID string) {
	id, err := activate(appID)
	if err != nil {
		m.status = "Open failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("Opened %s", id)
}

func (m *Model) clockText() string {
	if m.clock.IsZero() {
		return ""
	}
	return launcher.FormatTime(m.clock, m.store.Get().DateTime)
}

func (m *Model) taskbarLayout(snap wm.Snapshot) taskbarLayout {
	return layoutTaskbar(m.width, m.height, m.taskbar.Buttons(snap), m.clockText())
}

func (m *Model) menuLayout() []menuEntry {
	return layoutMenu(m.menu.Columns(), m.menu.Expanded(), m.height-1)
}

func (m *Model) iconLayout() []iconEntry {
	size := m.store.Get().Desktop.IconSize
	return layoutIcons(m.desktop.Icons(), size, m.grid.ch, m.height-1)
}

// contentFor returns the hosted application of a window, created on first
// use.
func (m *Model) contentFor(rec wm.Record) apps.App {
	if a, ok := m.content[rec.ID]; ok {
		return a
	}
	a := apps.Default.Resolve(apps.Env{AppID: rec.AppID, Settings: m.store})
	m.content[rec.ID] = a
	return a
}

func (m *Model) pruneContent() {
	if len(m.content) == 0 {
		return
	}
	snap := m.manager.Snapshot()
	for id := range m.content {
		if _, ok := snap.Find(id); !ok {
			delete(m.content, id)
		}
	}
}

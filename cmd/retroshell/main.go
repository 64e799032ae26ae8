package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retroshell/internal/config"
	"github.com/1broseidon/retroshell/internal/daemon"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/tui"
)

// stdout receives command output; tests swap it for a buffer.
var stdout io.Writer = os.Stdout

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "close", "focus", "minimize", "maximize":
		os.Exit(runWindowOp(os.Args[1], os.Args[2:]))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "resize":
		os.Exit(runResize(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "apps":
		os.Exit(runApps(os.Args[2:]))
	case "settings":
		os.Exit(runSettings(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: retroshell <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the retroshell daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <app>          Open an application window")
	fmt.Fprintln(w, "  close <id>          Close a window")
	fmt.Fprintln(w, "  focus <id>          Focus (and restore) a window")
	fmt.Fprintln(w, "  minimize <id>       Minimize a window")
	fmt.Fprintln(w, "  maximize <id>       Toggle maximize/restore")
	fmt.Fprintln(w, "  move <id> <x> <y>   Move a window")
	fmt.Fprintln(w, "  resize <id> <w> <h> Resize a window")
	fmt.Fprintln(w, "  arrange <mode>      Cascade or tile the open windows")
	fmt.Fprintln(w, "  list                List open windows")
	fmt.Fprintln(w, "  watch               Stream window events")
	fmt.Fprintln(w, "  apps                List known applications")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  settings get        Show system settings")
	fmt.Fprintln(w, "  settings set        Update a settings category")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the terminal desktop")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'retroshell <command> --help' for command-specific options.")
}

// configLoader returns a loader for path, or for the default location
// when path is empty.
func configLoader(path string) func() (*config.Config, error) {
	return func() (*config.Config, error) {
		res, err := loadWithSources(path)
		if err != nil {
			return nil, err
		}
		return res.Config, nil
	}
}

func loadWithSources(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: retroshell daemon [--path PATH] [--socket PATH] [--watch]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a desktop session in the foreground and serve it over IPC.")
		fmt.Fprintln(os.Stderr, "SIGHUP reloads the configuration; with --watch, so does saving it.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/retroshell/config.yaml)")
	socket := fs.String("socket", "", "IPC socket path (default: $XDG_RUNTIME_DIR/retroshell.sock)")
	watch := fs.Bool("watch", false, "Reload the configuration when the config file changes")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	loadConfig := configLoader(*path)
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var watchPath string
	if *watch {
		watchPath = *path
		if watchPath == "" {
			if watchPath, err = config.DefaultConfigPath(); err != nil {
				log.Fatalf("Failed to resolve config path: %v", err)
			}
		}
	}

	d, err := daemon.New(daemon.Options{
		Config:     cfg,
		LoadConfig: loadConfig,
		SocketPath: *socket,
		WatchPath:  watchPath,
		Level:      level,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to create daemon: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		log.Fatalf("Daemon error: %v", err)
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: retroshell status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "daemon_running: %v\n", status.DaemonRunning)
	fmt.Fprintf(stdout, "windows:        %d (%d visible)\n", status.WindowCount, status.VisibleCount)
	if status.Focused != "" {
		fmt.Fprintf(stdout, "focused:        %s\n", status.Focused)
	}
	fmt.Fprintf(stdout, "desktop:        %dx%d\n", status.Desktop.Width, status.Desktop.Height)
	fmt.Fprintf(stdout, "version:        %d\n", status.Version)
	fmt.Fprintf(stdout, "uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  retroshell config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  retroshell config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  retroshell config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/retroshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadWithSources(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, "config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/retroshell/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadWithSources(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Fprintf(stdout, "# loaded: %s\n", f)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprint(stdout, string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/retroshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadWithSources(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Fprintf(stdout, "path: %s\n", queryPath)
		fmt.Fprintf(stdout, "source: %s\n", formatSource(src))
		fmt.Fprintf(stdout, "value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/retroshell/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: retroshell tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a desktop session in the terminal. Use the mouse to drag title")
		fmt.Fprintln(os.Stderr, "bars, resize from the bottom-right grip and click the taskbar.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  s         Toggle the start menu")
		fmt.Fprintln(os.Stderr, "  Esc       Close the start menu")
		fmt.Fprintln(os.Stderr, "  x/n/m     Close, minimize, maximize the focused window")
		fmt.Fprintln(os.Stderr, "  y         Copy the focused window id")
		fmt.Fprintln(os.Stderr, "  r         Run an application by id")
		fmt.Fprintln(os.Stderr, "  c/t       Cascade or tile the open windows")
		fmt.Fprintln(os.Stderr, "  Ctrl+R    Reload config")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := configLoader(*path)()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := tui.Run(tui.Options{Config: cfg, ConfigPath: *path}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fatih/color"

	"github.com/1broseidon/retroshell/internal/arrange"
	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/wm"
)

// newFlagSet builds a subcommand flag set whose usage prints the given
// synopsis and description.
func newFlagSet(name, synopsis, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: retroshell %s\n", synopsis)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, description)
		hasFlags := false
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parseFlags returns -1 when parsing succeeded, otherwise the exit code.
func parseFlags(fs *flag.FlagSet, args []string, nargs int) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != nargs {
		fmt.Fprintf(os.Stderr, "%s takes %d argument(s), got %d\n", fs.Name(), nargs, fs.NArg())
		fs.Usage()
		return 2
	}
	return -1
}

func runOpen(args []string) int {
	fs := newFlagSet("open", "open <app>", "Open a window for an application id (see 'retroshell apps').")
	if rc := parseFlags(fs, args, 1); rc >= 0 {
		return rc
	}

	id, err := ipc.NewClient().Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, id)
	return 0
}

var windowOps = map[string]struct {
	description string
	call        func(c *ipc.Client, id wm.WindowID) (bool, error)
}{
	"close":    {"Close a window.", (*ipc.Client).Close},
	"focus":    {"Focus a window, restoring it if minimized.", (*ipc.Client).Focus},
	"minimize": {"Minimize a window.", (*ipc.Client).Minimize},
	"maximize": {"Toggle a window between maximized and restored.", (*ipc.Client).Maximize},
}

func runWindowOp(name string, args []string) int {
	op, ok := windowOps[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown window operation: %s\n", name)
		return 2
	}
	fs := newFlagSet(name, name+" <id>", op.description)
	if rc := parseFlags(fs, args, 1); rc >= 0 {
		return rc
	}

	applied, err := op.call(ipc.NewClient(), wm.WindowID(fs.Arg(0)))
	return reportApplied(applied, err)
}

// reportApplied prints the outcome of a window operation. An unknown id
// is not an error; the operation is simply not applied.
func reportApplied(applied bool, err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "applied: %v\n", applied)
	return 0
}

func parseInts(names []string, values []string) ([]int, error) {
	out := make([]int, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: must be an integer", names[i], v)
		}
		out[i] = n
	}
	return out, nil
}

func runMove(args []string) int {
	fs := newFlagSet("move", "move <id> <x> <y>", "Move a window's top-left corner to (x, y) desktop pixels.")
	if rc := parseFlags(fs, args, 3); rc >= 0 {
		return rc
	}
	xy, err := parseInts([]string{"x", "y"}, fs.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	applied, err := ipc.NewClient().Update(wm.WindowID(fs.Arg(0)), wm.MovePatch(xy[0], xy[1]))
	return reportApplied(applied, err)
}

func runResize(args []string) int {
	fs := newFlagSet("resize", "resize <id> <width> <height>", "Resize a window in desktop pixels.")
	if rc := parseFlags(fs, args, 3); rc >= 0 {
		return rc
	}
	wh, err := parseInts([]string{"width", "height"}, fs.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if wh[0] < 1 || wh[1] < 1 {
		fmt.Fprintln(os.Stderr, "width and height must be >= 1")
		return 2
	}

	applied, err := ipc.NewClient().Update(wm.WindowID(fs.Arg(0)), wm.ResizePatch(wh[0], wh[1]))
	return reportApplied(applied, err)
}

func runList(args []string) int {
	fs := newFlagSet("list", "list [--json]", "List open windows in the order they were opened.")
	jsonOut := fs.Bool("json", false, "Output the full snapshot as JSON")
	if rc := parseFlags(fs, args, 0); rc >= 0 {
		return rc
	}

	snap, err := ipc.NewClient().Snapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return writeJSON(snap)
	}
	formatWindowList(stdout, snap)
	return 0
}

func writeJSON(v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// formatWindowList prints one line per window: focused windows in bold,
// minimized ones faint.
func formatWindowList(w io.Writer, snap wm.Snapshot) {
	if snap.Len() == 0 {
		fmt.Fprintln(w, "no open windows")
		return
	}
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	for _, rec := range snap.Windows {
		g := snap.Rendered(rec)
		line := fmt.Sprintf("%-28s %-14s %4d,%-4d %4dx%-4d %-10s %s",
			rec.ID, rec.AppID, g.X, g.Y, g.Width, g.Height, windowState(rec), rec.Title)
		switch {
		case rec.Focused:
			bold.Fprintln(w, line)
		case rec.Minimized:
			faint.Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
}

func windowState(rec wm.Record) string {
	switch {
	case rec.Minimized:
		return "minimized"
	case rec.Maximized:
		return "maximized"
	case rec.Focused:
		return "focused"
	default:
		return "normal"
	}
}

func runWatch(args []string) int {
	fs := newFlagSet("watch", "watch [--json]", "Stream window events until interrupted.")
	jsonOut := fs.Bool("json", false, "Output one JSON event per line")
	if rc := parseFlags(fs, args, 0); rc >= 0 {
		return rc
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(stdout)
	err := ipc.NewClient().Watch(ctx, func(ev ipc.WatchEvent) error {
		if *jsonOut {
			return enc.Encode(ev)
		}
		_, err := fmt.Fprintln(stdout, formatEvent(ev))
		return err
	})
	if err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func formatEvent(ev ipc.WatchEvent) string {
	s := fmt.Sprintf("v%d %s", ev.Snapshot.Version, ev.Kind)
	if ev.ID != "" {
		s += " " + string(ev.ID)
	}
	return fmt.Sprintf("%s windows=%d", s, ev.Snapshot.Len())
}

func runApps(args []string) int {
	fs := newFlagSet("apps", "apps [--json]", "List configured applications. Entries marked * have real content.")
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if rc := parseFlags(fs, args, 0); rc >= 0 {
		return rc
	}

	apps, err := ipc.NewClient().Apps()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return writeJSON(apps)
	}
	for _, a := range apps {
		mark := " "
		if a.Implemented {
			mark = "*"
		}
		fmt.Fprintf(stdout, "%s %-14s %4dx%-4d %s\n", mark, a.ID, a.Width, a.Height, a.Title)
	}
	return 0
}

func runArrange(args []string) int {
	fs := newFlagSet("arrange", "arrange <cascade|grid|rows|columns>",
		"Lay out all visible, non-maximized windows. Focus and stacking order are kept.")
	if rc := parseFlags(fs, args, 1); rc >= 0 {
		return rc
	}
	mode, err := arrange.ParseMode(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	changed, err := ipc.NewClient().Arrange(string(mode))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "arranged %d window(s) (%s)\n", len(changed), mode)
	for _, id := range changed {
		fmt.Fprintf(stdout, "  %s\n", id)
	}
	return 0
}

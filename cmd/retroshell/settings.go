package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/retroshell/internal/ipc"
	"github.com/1broseidon/retroshell/internal/settings"
)

func printSettingsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  retroshell settings get [category]")
	fmt.Fprintln(w, "  retroshell settings set <category> key=value [key=value...]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Categories: display, sounds, mouse, keyboard, system, dateTime, regional, desktop")
}

func runSettings(args []string) int {
	if len(args) == 0 {
		printSettingsUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "get":
		fs := newFlagSet("get", "settings get [category]", "Show all settings or one category as YAML.")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() > 1 {
			fs.Usage()
			return 2
		}

		client := ipc.NewClient()
		var v any
		var err error
		if fs.NArg() == 1 {
			v, err = client.SettingsCategory(fs.Arg(0))
		} else {
			v, err = client.Settings()
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return writeYAML(v)

	case "set":
		fs := newFlagSet("set", "settings set <category> key=value [key=value...]",
			"Merge field updates into one settings category. Values are YAML scalars.")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 2 {
			fs.Usage()
			return 2
		}
		updates, err := settings.ParseAssignments(fs.Args()[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}

		v, err := ipc.NewClient().UpdateSettings(fs.Arg(0), updates)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return writeYAML(v)

	case "help", "-h", "--help":
		printSettingsUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown settings subcommand: %s\n\n", args[0])
		printSettingsUsage(os.Stderr)
		return 2
	}
}

func writeYAML(v any) int {
	data, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprint(stdout, string(data))
	return 0
}

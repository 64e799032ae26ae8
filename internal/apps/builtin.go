package apps

import (
	"fmt"
	"strings"

	"github.com/1broseidon/retroshell/internal/settings"
)

func init() {
	Register("notepad", func(Env) App {
		return Lines{
			"File  Edit  Search  Help",
			"",
		}
	})
	Register("calculator", func(Env) App { return calculator{} })
	Register("minesweeper", func(Env) App { return minesweeper{rows: 9, cols: 9, mines: 10} })
	Register("snake", func(Env) App {
		return Lines{
			"Score: 0",
			"",
			"  Press an arrow key to start.",
		}
	})
	Register("paint", func(Env) App {
		return Lines{
			"File  Edit  View  Image  Colors  Help",
			"[/] [□] [○] [A] [▒]",
		}
	})
	for _, id := range []string{"explorer", "documents", "network"} {
		Register(id, func(env Env) App { return newExplorer(env.AppID) })
	}
	Register("solitaire", func(Env) App {
		return Lines{
			"Game  Help",
			"",
			" [##] [  ]      [  ] [  ] [  ] [  ]",
			"",
			" [##] [##] [##] [##] [##] [##] [##]",
		}
	})
	Register("control", func(env Env) App { return controlPanel{store: env.Settings} })
	Register("ie", func(Env) App {
		return Lines{
			"File  Edit  View  Go  Favorites  Help",
			"Address: http://www.microsoft.com",
			"",
			"  Welcome to Microsoft",
		}
	})
}

type calculator struct{}

func (calculator) Render(width, height int) []string {
	lines := []string{
		"                   0.",
		"",
		" Backspace  CE   C",
		" MC  7  8  9  /  sqrt",
		" MR  4  5  6  *  %",
		" MS  1  2  3  -  1/x",
		" M+  0 +/- .  +  =",
	}
	return Fit(lines, width, height)
}

type minesweeper struct {
	rows, cols, mines int
}

func (m minesweeper) Render(width, height int) []string {
	lines := []string{fmt.Sprintf(" %03d    :)    000", m.mines), ""}
	row := " " + strings.Repeat("■", m.cols)
	for i := 0; i < m.rows; i++ {
		lines = append(lines, row)
	}
	return Fit(lines, width, height)
}

type explorer struct {
	path    string
	entries []string
}

func newExplorer(appID string) explorer {
	switch appID {
	case "documents":
		return explorer{
			path:    `C:\My Documents\`,
			entries: []string{"[My Pictures]", "[My Music]", "Letter to Mom.doc", "Shopping List.txt"},
		}
	case "network":
		return explorer{
			path:    `\\WORKGROUP\`,
			entries: []string{"[Entire Network]"},
		}
	default:
		return explorer{
			path:    `C:\`,
			entries: []string{"[Program Files]", "[Windows]", "[My Documents]", "[Temp]", "autoexec.bat", "config.sys", "readme.txt"},
		}
	}
}

func (e explorer) Render(width, height int) []string {
	lines := []string{"Address: " + e.path, ""}
	for _, entry := range e.entries {
		lines = append(lines, "  "+entry)
	}
	lines = append(lines, "", fmt.Sprintf("%d object(s)", len(e.entries)))
	return Fit(lines, width, height)
}

type controlPanel struct {
	store *settings.Store
}

func (c controlPanel) Render(width, height int) []string {
	s := settings.Defaults()
	if c.store != nil {
		s = c.store.Get()
	}
	lines := []string{
		"Display    " + s.Display.Resolution + ", " + s.Display.Wallpaper,
		fmt.Sprintf("Sounds     %s, volume %d", s.Sounds.Scheme, s.Sounds.Volume),
		fmt.Sprintf("Mouse      double-click speed %d", s.Mouse.DoubleClickSpeed),
		fmt.Sprintf("Keyboard   repeat delay %d, rate %d", s.Keyboard.RepeatDelay, s.Keyboard.RepeatRate),
		"System     " + s.System.ComputerName + " (" + s.System.Workgroup + ")",
		"Date/Time  " + s.DateTime.TimeZone + ", " + s.DateTime.Format,
		"Regional   " + s.Regional.Language,
		"Desktop    " + s.Desktop.Theme + ", icons " + s.Desktop.IconSize,
	}
	return Fit(lines, width, height)
}

package config

import "github.com/1broseidon/retroshell/internal/wm"

// BuiltinApps returns the built-in application table.
//
// These are always available without being listed in YAML. Entries under
// apps: in the config file add to or override this table field by field.
func BuiltinApps() map[string]wm.AppSpec {
	return map[string]wm.AppSpec{
		"notepad":     {Title: "Untitled - Notepad", Width: 500, Height: 400},
		"calculator":  {Title: "Calculator", Width: 250, Height: 300},
		"minesweeper": {Title: "Minesweeper", Width: 300, Height: 350},
		"snake":       {Title: "Snake", Width: 400, Height: 500},
		"paint":       {Title: "untitled - Paint", Width: 600, Height: 450},
		"explorer":    {Title: `Exploring - C:\`, Width: 600, Height: 400},
		"documents":   {Title: "My Documents", Width: 600, Height: 400},
		"network":     {Title: "Network Neighborhood", Width: 600, Height: 400},
		"recycle":     {Title: "Recycle Bin", Width: 500, Height: 350},
		"solitaire":   {Title: "Solitaire", Width: 700, Height: 500},
		"control":     {Title: "Control Panel", Width: 600, Height: 450},
		"ie":          {Title: "Internet Explorer", Width: 800, Height: 600},
		"mediaplayer": {Title: "Windows Media Player", Width: 400, Height: 300},
		"taskmgr":     {Title: "Task Manager", Width: 400, Height: 300},
		"sysinfo":     {Title: "System Information", Width: 500, Height: 400},
		"wordpad":     {Title: "Document - WordPad", Width: 600, Height: 450},
		"charmap":     {Title: "Character Map", Width: 450, Height: 350},
		"volume":      {Title: "Volume Control", Width: 300, Height: 200},
		"soundrec":    {Title: "Sound Recorder", Width: 350, Height: 150},
		"freecell":    {Title: "FreeCell", Width: 700, Height: 500},
		"sysmon":      {Title: "System Monitor", Width: 500, Height: 400},
		"regedit":     {Title: "Registry Editor", Width: 600, Height: 450},
		"find":        {Title: "Find: All Files", Width: 500, Height: 350},
		"run":         {Title: "Run", Width: 350, Height: 150},
		"shutdown":    {Title: "Shut Down Windows", Width: 350, Height: 200},
		"cdplayer":    {Title: "CD Player", Width: 300, Height: 200},
		"outlook":     {Title: "Outlook Express", Width: 700, Height: 500},
		"defrag":      {Title: "Disk Defragmenter", Width: 500, Height: 350},
	}
}

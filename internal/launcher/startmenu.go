package launcher

import (
	"fmt"

	"github.com/1broseidon/retroshell/internal/wm"
)

// MenuItem is a start menu entry. Entries either launch AppID or open a
// submenu of Children.
type MenuItem struct {
	Name     string     `json:"name"`
	AppID    string     `json:"app_id,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
}

// HasSubmenu reports whether the item opens a submenu.
func (m MenuItem) HasSubmenu() bool {
	return len(m.Children) > 0
}

// DefaultMenu returns the classic start menu tree.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{Name: "Programs", Children: []MenuItem{
			{Name: "Accessories", Children: []MenuItem{
				{Name: "Notepad", AppID: "notepad"},
				{Name: "Calculator", AppID: "calculator"},
				{Name: "Paint", AppID: "paint"},
				{Name: "WordPad", AppID: "wordpad"},
				{Name: "Character Map", AppID: "charmap"},
				{Name: "System Information", AppID: "sysinfo"},
			}},
			{Name: "Games", Children: []MenuItem{
				{Name: "Solitaire", AppID: "solitaire"},
				{Name: "Minesweeper", AppID: "minesweeper"},
				{Name: "Snake", AppID: "snake"},
				{Name: "FreeCell", AppID: "freecell"},
				{Name: "Hearts", AppID: "hearts"},
			}},
			{Name: "Internet Tools", Children: []MenuItem{
				{Name: "Internet Explorer", AppID: "ie"},
				{Name: "Outlook Express", AppID: "outlook"},
			}},
			{Name: "Multimedia", Children: []MenuItem{
				{Name: "Media Player", AppID: "mediaplayer"},
				{Name: "Sound Recorder", AppID: "soundrec"},
				{Name: "CD Player", AppID: "cdplayer"},
				{Name: "Volume Control", AppID: "volume"},
			}},
			{Name: "System Tools", Children: []MenuItem{
				{Name: "Task Manager", AppID: "taskmgr"},
				{Name: "Registry Editor", AppID: "regedit"},
				{Name: "System Monitor", AppID: "sysmon"},
				{Name: "Disk Defragmenter", AppID: "defrag"},
			}},
		}},
		{Name: "Documents", AppID: "documents"},
		{Name: "Settings", Children: []MenuItem{
			{Name: "Control Panel", AppID: "control"},
			{Name: "Printers", AppID: "printers"},
			{Name: "Taskbar & Start Menu", AppID: "taskbar"},
			{Name: "Folder Options", AppID: "folder"},
			{Name: "Active Desktop", AppID: "desktop"},
		}},
		{Name: "Find", AppID: "find"},
		{Name: "Help", AppID: "help"},
		{Name: "Run...", AppID: "run"},
		{Name: "Shut Down...", AppID: "shutdown"},
	}
}

// StartMenu is the transient launcher overlay. Visibility and the expanded
// submenu path are local UI state.
type StartMenu struct {
	opener Opener
	items  []MenuItem

	open     bool
	expanded []string
}

// NewStartMenu creates a closed start menu over items.
func NewStartMenu(opener Opener, items []MenuItem) *StartMenu {
	if items == nil {
		items = DefaultMenu()
	}
	return &StartMenu{opener: opener, items: items}
}

// Items returns the top-level entries.
func (s *StartMenu) Items() []MenuItem { return s.items }

// IsOpen reports whether the overlay is visible.
func (s *StartMenu) IsOpen() bool { return s.open }

// Toggle shows or hides the overlay.
func (s *StartMenu) Toggle() {
	if s.open {
		s.Close()
		return
	}
	s.open = true
}

// Close hides the overlay and collapses every submenu.
func (s *StartMenu) Close() {
	s.open = false
	s.expanded = nil
}

// Expand opens the submenu at path, e.g. ("Programs", "Games"). An empty
// path collapses everything.
func (s *StartMenu) Expand(path ...string) error {
	if _, err := s.lookup(path); err != nil {
		return err
	}
	s.expanded = append([]string(nil), path...)
	return nil
}

// Expanded returns the submenu path currently open.
func (s *StartMenu) Expanded() []string {
	return append([]string(nil), s.expanded...)
}

// Columns returns the visible menu columns: the top level followed by one
// column per expanded submenu.
func (s *StartMenu) Columns() [][]MenuItem {
	cols := [][]MenuItem{s.items}
	level := s.items
	for _, name := range s.expanded {
		item, ok := find(level, name)
		if !ok || !item.HasSubmenu() {
			break
		}
		cols = append(cols, item.Children)
		level = item.Children
	}
	return cols
}

// Activate opens appID and closes the overlay.
func (s *StartMenu) Activate(appID string) (wm.WindowID, error) {
	id, err := s.opener.Open(appID)
	s.Close()
	return id, err
}

func (s *StartMenu) lookup(path []string) ([]MenuItem, error) {
	level := s.items
	for _, name := range path {
		item, ok := find(level, name)
		if !ok {
			return nil, fmt.Errorf("no menu entry %q", name)
		}
		if !item.HasSubmenu() {
			return nil, fmt.Errorf("menu entry %q has no submenu", name)
		}
		level = item.Children
	}
	return level, nil
}

func find(items []MenuItem, name string) (MenuItem, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}
	return MenuItem{}, false
}

// AppIDs returns every application reachable from items, depth first.
func AppIDs(items []MenuItem) []string {
	var out []string
	for _, item := range items {
		if item.AppID != "" {
			out = append(out, item.AppID)
		}
		out = append(out, AppIDs(item.Children)...)
	}
	return out
}

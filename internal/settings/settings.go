// Package settings holds the system settings object shared by the desktop
// surfaces. It is passed explicitly to every component that reads it.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownCategory is returned for a category name outside Categories.
var ErrUnknownCategory = errors.New("unknown settings category")

type Display struct {
	Resolution    string `json:"resolution" yaml:"resolution"`
	ColorDepth    string `json:"colorDepth" yaml:"colorDepth"`
	Wallpaper     string `json:"wallpaper" yaml:"wallpaper"`
	ScreenSaver   string `json:"screenSaver" yaml:"screenSaver"`
	ExtendDesktop bool   `json:"extendDesktop" yaml:"extendDesktop"`
}

type Sounds struct {
	Scheme string            `json:"scheme" yaml:"scheme"`
	Volume int               `json:"volume" yaml:"volume"`
	Events map[string]string `json:"events" yaml:"events"`
}

type Mouse struct {
	// DoubleClickSpeed ranges from 0 (slow) to 100 (fast).
	DoubleClickSpeed int  `json:"doubleClickSpeed" yaml:"doubleClickSpeed"`
	PointerSpeed     int  `json:"pointerSpeed" yaml:"pointerSpeed"`
	LeftHanded       bool `json:"leftHanded" yaml:"leftHanded"`
	ShowTrails       bool `json:"showTrails" yaml:"showTrails"`
}

type Keyboard struct {
	RepeatDelay     int `json:"repeatDelay" yaml:"repeatDelay"`
	RepeatRate      int `json:"repeatRate" yaml:"repeatRate"`
	CursorBlinkRate int `json:"cursorBlinkRate" yaml:"cursorBlinkRate"`
}

type System struct {
	ComputerName string `json:"computerName" yaml:"computerName"`
	Workgroup    string `json:"workgroup" yaml:"workgroup"`
	Description  string `json:"description" yaml:"description"`
}

type DateTime struct {
	TimeZone string `json:"timeZone" yaml:"timeZone"`
	// Format is "12-hour" or "24-hour".
	Format      string `json:"format" yaml:"format"`
	ShowSeconds bool   `json:"showSeconds" yaml:"showSeconds"`
}

type Regional struct {
	Language   string `json:"language" yaml:"language"`
	Country    string `json:"country" yaml:"country"`
	Currency   string `json:"currency" yaml:"currency"`
	DateFormat string `json:"dateFormat" yaml:"dateFormat"`
}

type Desktop struct {
	Theme string `json:"theme" yaml:"theme"`
	// IconSize is "Small", "Normal" or "Large".
	IconSize         string `json:"iconSize" yaml:"iconSize"`
	ShowDesktopIcons bool   `json:"showDesktopIcons" yaml:"showDesktopIcons"`
}

// Settings is the full settings object, one field per category.
type Settings struct {
	Display  Display  `json:"display" yaml:"display"`
	Sounds   Sounds   `json:"sounds" yaml:"sounds"`
	Mouse    Mouse    `json:"mouse" yaml:"mouse"`
	Keyboard Keyboard `json:"keyboard" yaml:"keyboard"`
	System   System   `json:"system" yaml:"system"`
	DateTime DateTime `json:"dateTime" yaml:"dateTime"`
	Regional Regional `json:"regional" yaml:"regional"`
	Desktop  Desktop  `json:"desktop" yaml:"desktop"`
}

// Categories lists the recognized category names in display order.
var Categories = []string{"display", "sounds", "mouse", "keyboard", "system", "dateTime", "regional", "desktop"}

// Defaults returns the factory settings.
func Defaults() Settings {
	return Settings{
		Display: Display{
			Resolution:  "1024 x 768",
			ColorDepth:  "True Color (32 bit)",
			Wallpaper:   "Windows 98",
			ScreenSaver: "None",
		},
		Sounds: Sounds{
			Scheme: "Windows Default",
			Volume: 75,
			Events: map[string]string{
				"Windows Logon":  "logon.wav",
				"Windows Logoff": "logoff.wav",
				"Critical Stop":  "chord.wav",
				"Exclamation":    "exclamation.wav",
			},
		},
		Mouse: Mouse{
			DoubleClickSpeed: 50,
			PointerSpeed:     50,
		},
		Keyboard: Keyboard{
			RepeatDelay:     50,
			RepeatRate:      50,
			CursorBlinkRate: 50,
		},
		System: System{
			ComputerName: "WIN98-PC",
			Workgroup:    "WORKGROUP",
			Description:  "Windows 98 Emulator",
		},
		DateTime: DateTime{
			TimeZone:    "Pacific Standard Time",
			Format:      "12-hour",
			ShowSeconds: true,
		},
		Regional: Regional{
			Language:   "English (United States)",
			Country:    "United States",
			Currency:   "Dollar",
			DateFormat: "M/d/yyyy",
		},
		Desktop: Desktop{
			Theme:            "Windows Standard",
			IconSize:         "Normal",
			ShowDesktopIcons: true,
		},
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	events := make(map[string]string, len(s.Sounds.Events))
	for k, v := range s.Sounds.Events {
		events[k] = v
	}
	s.Sounds.Events = events
	return s
}

// category returns a pointer to the named category struct inside s.
func (s *Settings) category(name string) (any, error) {
	switch name {
	case "display":
		return &s.Display, nil
	case "sounds":
		return &s.Sounds, nil
	case "mouse":
		return &s.Mouse, nil
	case "keyboard":
		return &s.Keyboard, nil
	case "system":
		return &s.System, nil
	case "dateTime":
		return &s.DateTime, nil
	case "regional":
		return &s.Regional, nil
	case "desktop":
		return &s.Desktop, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
}

// Merge applies updates to one category of s. Fields named in updates
// replace the stored values wholesale; all other fields of the category
// and every other category are kept.
func (s *Settings) Merge(category string, updates map[string]any) error {
	target, err := s.category(category)
	if err != nil {
		return err
	}

	current, err := yaml.Marshal(target)
	if err != nil {
		return fmt.Errorf("encode %s: %w", category, err)
	}
	fields := map[string]any{}
	if err := yaml.Unmarshal(current, &fields); err != nil {
		return fmt.Errorf("decode %s: %w", category, err)
	}
	for k, v := range updates {
		if _, ok := fields[k]; !ok {
			return fmt.Errorf("%s: unknown field %q", category, k)
		}
		fields[k] = v
	}

	merged, err := yaml.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", category, err)
	}

	// Decode into a zero value so maps are replaced rather than extended,
	// and so a type error leaves s untouched.
	fresh := reflect.New(reflect.TypeOf(target).Elem())
	dec := yaml.NewDecoder(bytes.NewReader(merged))
	dec.KnownFields(true)
	if err := dec.Decode(fresh.Interface()); err != nil {
		return fmt.Errorf("%s: %w", category, err)
	}
	reflect.ValueOf(target).Elem().Set(fresh.Elem())
	return nil
}

// Store guards a Settings value for concurrent readers and writers.
type Store struct {
	mu sync.RWMutex
	s  Settings
}

// NewStore creates a store seeded with initial.
func NewStore(initial Settings) *Store {
	return &Store{s: initial.Clone()}
}

// Get returns a copy of the current settings.
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Clone()
}

// Category returns a copy of the named category.
func (st *Store) Category(name string) (any, error) {
	s := st.Get()
	ptr, err := s.category(name)
	if err != nil {
		return nil, err
	}
	switch v := ptr.(type) {
	case *Display:
		return *v, nil
	case *Sounds:
		return *v, nil
	case *Mouse:
		return *v, nil
	case *Keyboard:
		return *v, nil
	case *System:
		return *v, nil
	case *DateTime:
		return *v, nil
	case *Regional:
		return *v, nil
	case *Desktop:
		return *v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Update shallow-merges updates into one category.
func (st *Store) Update(category string, updates map[string]any) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.Merge(category, updates)
}

// Replace swaps in a new settings value, e.g. after a config reload.
func (st *Store) Replace(s Settings) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = s.Clone()
}

// ParseAssignments turns key=value arguments into an update map. Values are
// parsed as YAML scalars, so "70" becomes an int and "true" a bool.
func ParseAssignments(args []string) (map[string]any, error) {
	out := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", arg)
		}
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if v == nil {
			v = ""
		}
		out[key] = v
	}
	return out, nil
}

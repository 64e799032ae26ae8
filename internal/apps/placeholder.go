package apps

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// PlaceholderText is shown for applications without an implementation.
func PlaceholderText(appID string) string {
	return appID + " is not implemented yet. Stay tuned!"
}

type placeholder struct {
	text string
}

// Placeholder returns the content used for unknown identifiers.
func Placeholder(appID string) App {
	return placeholder{text: PlaceholderText(appID)}
}

// Render word-wraps the message so the app id stays visible in narrow
// windows.
func (p placeholder) Render(width, height int) []string {
	if width <= 0 {
		return Fit(nil, width, height)
	}
	lines := append([]string{""}, strings.Split(runewidth.Wrap(p.text, width), "\n")...)
	return Fit(lines, width, height)
}

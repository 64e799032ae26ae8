// Package tui renders the desktop in a terminal. Terminal cells are mapped
// onto desktop pixels so that windows, the pointer state machine and the
// launchers work in the same units as every other front-end.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/retroshell/internal/launcher"
)

// Run starts the terminal desktop and blocks until the user quits.
func Run(opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("retroshell tui requires an interactive terminal")
	}

	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go launcher.Clock{Interval: launcher.DefaultClockInterval}.Run(ctx, func(t time.Time) {
		p.Send(clockMsg(t))
	})

	_, err := p.Run()
	return err
}

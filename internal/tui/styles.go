package tui

import "github.com/charmbracelet/lipgloss"

type styleID int

const (
	styleDesktop styleID = iota
	styleIcon
	styleIconSelected
	styleTitleActive
	styleTitleInactive
	styleButton
	styleBody
	styleHandle
	styleTaskbar
	styleStart
	styleStartOpen
	styleTaskButton
	styleTaskButtonActive
	styleTaskButtonMinimized
	styleStatus
	styleClock
	styleMenu
	styleMenuExpanded
	styleCount
)

var (
	desktopStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("30"))

	iconStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("30"))

	iconSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("18"))

	activeTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("18"))

	inactiveTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("244"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("250"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("252"))

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Background(lipgloss.Color("252"))

	taskbarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("250"))

	startStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("250"))

	startOpenStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("240"))

	taskButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("252"))

	taskButtonActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("62"))

	taskButtonMinimizedStyle = lipgloss.NewStyle().
					Faint(true).
					Foreground(lipgloss.Color("0")).
					Background(lipgloss.Color("252"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("22")).
			Background(lipgloss.Color("250"))

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("248"))

	menuStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("252"))

	menuExpandedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("18"))
)

// palette is indexed by styleID.
var palette = [styleCount]lipgloss.Style{
	styleDesktop:             desktopStyle,
	styleIcon:                iconStyle,
	styleIconSelected:        iconSelectedStyle,
	styleTitleActive:         activeTitleStyle,
	styleTitleInactive:       inactiveTitleStyle,
	styleButton:              buttonStyle,
	styleBody:                bodyStyle,
	styleHandle:              handleStyle,
	styleTaskbar:             taskbarStyle,
	styleStart:               startStyle,
	styleStartOpen:           startOpenStyle,
	styleTaskButton:          taskButtonStyle,
	styleTaskButtonActive:    taskButtonActiveStyle,
	styleTaskButtonMinimized: taskButtonMinimizedStyle,
	styleStatus:              statusStyle,
	styleClock:               clockStyle,
	styleMenu:                menuStyle,
	styleMenuExpanded:        menuExpandedStyle,
}

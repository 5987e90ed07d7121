package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	PrimaryColor = lipgloss.Color("39")  // Blue
	AccentColor  = lipgloss.Color("76")  // Green
	ErrorColor   = lipgloss.Color("196") // Red
	WarningColor = lipgloss.Color("214") // Orange
	MutedColor   = lipgloss.Color("240") // Gray
	MatchColor   = lipgloss.Color("11")  // Yellow
)

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)

	ModeStyle = lipgloss.NewStyle().
			Background(PrimaryColor).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)

	ChatModeStyle = ModeStyle.Copy().Background(AccentColor)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	InputFocusedStyle = InputStyle.Copy().BorderForeground(AccentColor)

	BoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	UserMessageStyle      = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	AssistantMessageStyle = lipgloss.NewStyle().Foreground(AccentColor).Bold(true)
	SourceStyle           = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)

	HighlightStyle = lipgloss.NewStyle().Foreground(MatchColor).Bold(true)

	DialogStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2)

	DialogTitleStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true).MarginBottom(1)

	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(AccentColor).Bold(true)
	BusyStyle    = lipgloss.NewStyle().Foreground(WarningColor)
	HelpStyle    = lipgloss.NewStyle().Foreground(MutedColor)
)

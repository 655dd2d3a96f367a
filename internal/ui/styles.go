package ui

import "github.com/charmbracelet/lipgloss"

// Lip Gloss styles shared by the interactive views.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	OverdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	DoneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	HelpStyle     = lipgloss.NewStyle().Faint(true)
	LabelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	FocusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// Frame wraps inner in the rounded border used by every screen.
func Frame(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}

// InputBox is the bordered box around an inline input.
func InputBox(inner string) string {
	bar := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return bar.Render(inner)
}

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Version is shown in the header; the CLI sets it from its build version.
var Version = "dev"

func renderHeader(width int, title string) string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")). // Pink/magenta color
		Bold(true)

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorNormal))

	logo := logoStyle.Render("metacols " + Version)

	// -2 for left and right padding
	contentWidth := max(width-2, 0)
	gap := max(contentWidth-lipgloss.Width(title)-lipgloss.Width(logo), 1)

	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleStyle.Render(title),
		lipgloss.NewStyle().Width(gap).Render(""),
		logo,
	)

	return lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1).
		Width(width).
		MaxWidth(width).
		Render(headerContent)
}

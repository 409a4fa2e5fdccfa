package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color constants
const (
	ColorActive   = "170" // Purple/magenta for the focused column
	ColorInactive = "240" // Gray for other columns
	ColorNormal   = "245"
	ColorDim      = "241"
	ColorWarning  = "214"
	ColorDanger   = "196"
	ColorSuccess  = "28"
	ColorWhite    = "255"
	ColorStatus   = "62"
	ColorStatusFg = "230"
)

var (
	ActiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorActive))

	InactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorInactive))

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			PaddingLeft(1)

	DiffSideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDim)).
			Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(ColorStatus)).
			Foreground(lipgloss.Color(ColorStatusFg)).
			Padding(0, 1)

	StatusErrorStyle = lipgloss.NewStyle().
				Background(lipgloss.Color(ColorDanger)).
				Foreground(lipgloss.Color(ColorWhite)).
				Padding(0, 1)

	WaitingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWarning)).
			Bold(true)

	ContentPaddingStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				PaddingRight(1)

	ConfirmYesDangerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDanger)).
				Bold(true)

	ConfirmNoSafeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSuccess)).
				Bold(true)
)

// formatConfirmOptions renders the [Y]es / [N]o hint. Destructive prompts
// color Yes red and No green.
func formatConfirmOptions(destructive bool) string {
	if destructive {
		return ConfirmYesDangerStyle.Render("[Y]es") + " / " + ConfirmNoSafeStyle.Render("[N]o")
	}
	return ConfirmNoSafeStyle.Render("[Y]es") + " / " + ConfirmYesDangerStyle.Render("[N]o")
}

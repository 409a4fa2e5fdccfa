package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/metacols/metacols/pkg/models"
)

// Styles holds the rendering styles derived from a theme
type Styles struct {
	Text        lipgloss.Style
	CurrentLine lipgloss.Style
	Gutter      lipgloss.Style
	Cursor      lipgloss.Style
	Added       lipgloss.Style
	Removed     lipgloss.Style
	Changed     lipgloss.Style
}

// NewStyles builds the styles for a theme. Only background and foreground
// are overridden; everything else keeps the dark base look.
func NewStyles(theme models.Theme) Styles {
	base := lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Background)).
		Foreground(lipgloss.Color(theme.Foreground))

	return Styles{
		Text:        base,
		CurrentLine: base.Background(lipgloss.Color("#3c3c3c")),
		Gutter:      base.Foreground(lipgloss.Color("#858585")),
		Cursor:      base.Reverse(true),
		Added:       base.Background(lipgloss.Color("#2d4b2d")),
		Removed:     base.Background(lipgloss.Color("#5a2d2d")),
		Changed:     base.Background(lipgloss.Color("#2d3f5a")),
	}
}

func displayWidth(r []rune) int {
	return runewidth.StringWidth(string(r))
}

func (m *Model) gutterWidth() int {
	if !m.profile.LineNumbers {
		return 0
	}
	digits := len(fmt.Sprint(len(m.lines)))
	return max(digits, m.profile.LineNumbersMinChars) + 1
}

func (m *Model) textWidth() int {
	return max(m.width-m.gutterWidth(), 1)
}

// View renders the visible window of the buffer
func (m *Model) View() string {
	rows := make([]string, m.height)
	for i := 0; i < m.height; i++ {
		rows[i] = m.renderLine(m.top + i)
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderLine(idx int) string {
	gutterWidth := m.gutterWidth()
	textWidth := m.textWidth()

	if idx >= len(m.lines) {
		return m.styles.Text.Render(strings.Repeat(" ", gutterWidth+textWidth))
	}

	style := m.lineStyle(idx)

	var b strings.Builder
	if gutterWidth > 0 {
		num := fmt.Sprintf("%*d ", gutterWidth-1, idx+1)
		b.WriteString(m.styles.Gutter.Render(num))
	}

	line := m.lines[idx]
	left := 0
	if idx == m.row {
		left = m.left
	}
	left = min(left, len(line))
	visible := line[left:]

	if idx == m.row && m.focused {
		cursorAt := min(max(m.col-left, 0), len(visible))
		before := runewidth.Truncate(string(visible[:cursorAt]), textWidth, "")
		used := runewidth.StringWidth(before)
		b.WriteString(style.Render(before))

		under := " "
		if cursorAt < len(visible) {
			under = string(visible[cursorAt])
		}
		if used < textWidth {
			b.WriteString(m.styles.Cursor.Render(under))
			used += runewidth.StringWidth(under)
		}

		if cursorAt < len(visible) && used < textWidth {
			after := runewidth.Truncate(string(visible[cursorAt+1:]), textWidth-used, "")
			b.WriteString(style.Render(after))
			used += runewidth.StringWidth(after)
		}
		if used < textWidth {
			b.WriteString(style.Render(strings.Repeat(" ", textWidth-used)))
		}
		return b.String()
	}

	text := runewidth.Truncate(string(visible), textWidth, "")
	text = runewidth.FillRight(text, textWidth)
	b.WriteString(style.Render(text))
	return b.String()
}

func (m *Model) lineStyle(idx int) lipgloss.Style {
	switch m.marks[idx] {
	case MarkAdded:
		return m.styles.Added
	case MarkRemoved:
		return m.styles.Removed
	case MarkChanged:
		return m.styles.Changed
	}
	if idx == m.row && m.profile.RenderLineHighlight {
		return m.styles.CurrentLine
	}
	return m.styles.Text
}

package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/metacols/metacols/pkg/models"
)

// Update applies a key or mouse event typed by the user. It returns
// whether the event was consumed.
func (m *Model) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return false
}

func (m *Model) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		if msg.Alt {
			m.ScrollBy(-1)
			return true
		}
		m.userMove(m.row-1, m.col)
	case tea.KeyDown:
		if msg.Alt {
			m.ScrollBy(1)
			return true
		}
		m.userMove(m.row+1, m.col)
	case tea.KeyLeft:
		if m.col == 0 && m.row > 0 {
			m.userMove(m.row-1, len(m.lines[m.row-1]))
		} else {
			m.userMove(m.row, m.col-1)
		}
	case tea.KeyRight:
		if m.col == len(m.lines[m.row]) && m.row < len(m.lines)-1 {
			m.userMove(m.row+1, 0)
		} else {
			m.userMove(m.row, m.col+1)
		}
	case tea.KeyHome:
		m.userMove(m.row, 0)
	case tea.KeyEnd:
		m.userMove(m.row, len(m.lines[m.row]))
	case tea.KeyCtrlHome:
		m.userMove(0, 0)
	case tea.KeyCtrlEnd:
		last := len(m.lines) - 1
		m.userMove(last, len(m.lines[last]))
	case tea.KeyPgUp:
		m.userMove(m.row-m.height, m.col)
	case tea.KeyPgDown:
		m.userMove(m.row+m.height, m.col)

	case tea.KeyRunes, tea.KeySpace:
		if m.readOnly {
			return true
		}
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		m.InsertText(text)
	case tea.KeyEnter:
		if m.readOnly {
			return true
		}
		m.InsertText("\n")
	case tea.KeyBackspace:
		if m.readOnly {
			return true
		}
		m.backspace()
	case tea.KeyDelete:
		if m.readOnly {
			return true
		}
		m.deleteForward()
	default:
		return false
	}
	return true
}

func (m *Model) handleMouse(msg tea.MouseMsg) bool {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ScrollBy(-3)
	case tea.MouseButtonWheelDown:
		m.ScrollBy(3)
	default:
		return false
	}
	return true
}

// userMove moves the cursor on behalf of the user and keeps it in view.
func (m *Model) userMove(row, col int) {
	m.moveTo(row, col)
	m.revealColumn()
	m.emitCursor(models.OriginKeyboard)
	m.revealRow()
}

// InsertText types text at the cursor. Tabs expand to spaces when the
// profile asks for it; newlines split the line.
func (m *Model) InsertText(text string) {
	if m.readOnly || text == "" {
		return
	}
	if m.profile.InsertSpaces {
		text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", m.profile.TabSize))
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	parts := strings.Split(text, "\n")
	line := m.lines[m.row]
	head := append([]rune{}, line[:m.col]...)
	tail := append([]rune{}, line[m.col:]...)

	if len(parts) == 1 {
		ins := []rune(parts[0])
		m.lines[m.row] = append(append(head, ins...), tail...)
		m.col += len(ins)
	} else {
		inserted := make([][]rune, len(parts))
		inserted[0] = append(head, []rune(parts[0])...)
		for i := 1; i < len(parts)-1; i++ {
			inserted[i] = []rune(parts[i])
		}
		last := []rune(parts[len(parts)-1])
		inserted[len(parts)-1] = append(append([]rune{}, last...), tail...)

		lines := make([][]rune, 0, len(m.lines)+len(parts)-1)
		lines = append(lines, m.lines[:m.row]...)
		lines = append(lines, inserted...)
		lines = append(lines, m.lines[m.row+1:]...)
		m.lines = lines

		m.row += len(parts) - 1
		m.col = len(last)
	}
	m.edited()
}

func (m *Model) backspace() {
	switch {
	case m.col > 0:
		line := m.lines[m.row]
		m.lines[m.row] = append(line[:m.col-1:m.col-1], line[m.col:]...)
		m.col--
	case m.row > 0:
		prev := m.lines[m.row-1]
		m.col = len(prev)
		m.lines[m.row-1] = append(prev[:len(prev):len(prev)], m.lines[m.row]...)
		m.lines = append(m.lines[:m.row], m.lines[m.row+1:]...)
		m.row--
	default:
		return
	}
	m.edited()
}

func (m *Model) deleteForward() {
	line := m.lines[m.row]
	switch {
	case m.col < len(line):
		m.lines[m.row] = append(line[:m.col:m.col], line[m.col+1:]...)
	case m.row < len(m.lines)-1:
		m.lines[m.row] = append(line[:len(line):len(line)], m.lines[m.row+1]...)
		m.lines = append(m.lines[:m.row+1], m.lines[m.row+2:]...)
	default:
		return
	}
	m.edited()
}

// edited raises the events of a user edit: content first, then cursor,
// then any scroll needed to keep the cursor visible.
func (m *Model) edited() {
	m.clampTop()
	m.revealColumn()
	m.emitContent(false)
	m.emitCursor(models.OriginKeyboard)
	m.revealRow()
}

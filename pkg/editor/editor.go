// Package editor implements the terminal text surface used for every
// field view: a line buffer with a cursor and a vertical scroll offset
// that reports its changes through coordinator event handlers.
package editor

import (
	"strings"

	"github.com/metacols/metacols/pkg/coordinator"
	"github.com/metacols/metacols/pkg/models"
)

// LineMark highlights a line, used by diff pairs.
type LineMark int

const (
	MarkNone LineMark = iota
	MarkAdded
	MarkRemoved
	MarkChanged
)

// Model is a single-buffer text surface. It satisfies coordinator.Surface.
type Model struct {
	lines    [][]rune
	row, col int // 0-based cursor
	top      int // first visible line
	left     int // first visible column, word wrap is off
	width    int
	height   int
	focused  bool
	readOnly bool
	profile  models.EditorProfile
	marks    map[int]LineMark
	styles   Styles

	onCursor  coordinator.CursorHandler
	onScroll  coordinator.ScrollHandler
	onContent coordinator.ContentHandler
}

var _ coordinator.Surface = (*Model)(nil)

// New creates an empty surface using the given profile
func New(profile models.EditorProfile) *Model {
	return &Model{
		lines:   [][]rune{{}},
		width:   40,
		height:  10,
		profile: profile,
		styles:  NewStyles(profile.Theme),
	}
}

// SetReadOnly makes the surface refuse edits
func (m *Model) SetReadOnly(readOnly bool) {
	m.readOnly = readOnly
}

// ReadOnly reports whether edits are refused
func (m *Model) ReadOnly() bool {
	return m.readOnly
}

// SetSize sets the outer size, gutter included
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 1)
	m.clampTop()
}

// Width returns the outer width
func (m *Model) Width() int {
	return m.width
}

// Height returns the outer height
func (m *Model) Height() int {
	return m.height
}

// SetMarks replaces the line highlights, keyed by 0-based line
func (m *Model) SetMarks(marks map[int]LineMark) {
	m.marks = marks
}

// LineCount returns the number of lines in the buffer
func (m *Model) LineCount() int {
	return len(m.lines)
}

// Line returns the text of a 0-based line
func (m *Model) Line(i int) string {
	if i < 0 || i >= len(m.lines) {
		return ""
	}
	return string(m.lines[i])
}

// OnCursorChange implements coordinator.EventSource
func (m *Model) OnCursorChange(h coordinator.CursorHandler) {
	m.onCursor = h
}

// OnScrollChange implements coordinator.EventSource
func (m *Model) OnScrollChange(h coordinator.ScrollHandler) {
	m.onScroll = h
}

// OnContentChange implements coordinator.EventSource
func (m *Model) OnContentChange(h coordinator.ContentHandler) {
	m.onContent = h
}

// Value returns the buffer joined with newlines
func (m *Model) Value() string {
	parts := make([]string, len(m.lines))
	for i, l := range m.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

// SetValue replaces the whole buffer. The cursor returns to the start.
func (m *Model) SetValue(text string) {
	split := strings.Split(text, "\n")
	m.lines = make([][]rune, len(split))
	for i, l := range split {
		m.lines[i] = []rune(l)
	}
	m.row, m.col, m.left = 0, 0, 0
	m.clampTop()

	m.emitContent(true)
	m.emitCursor(models.OriginModel)
}

// Position returns the 1-based cursor position
func (m *Model) Position() models.Position {
	return models.Position{Line: m.row + 1, Column: m.col + 1}
}

// SetPosition moves the cursor without scrolling vertically.
func (m *Model) SetPosition(pos models.Position) {
	m.moveTo(pos.Line-1, pos.Column-1)
	m.revealColumn()
	m.emitCursor(models.OriginAPI)
}

// ScrollTop returns the first visible line, 0-based
func (m *Model) ScrollTop() int {
	return m.top
}

// SetScrollTop scrolls to a line. A scroll event is raised only when the
// offset actually changes.
func (m *Model) SetScrollTop(top int) {
	m.scrollTo(top)
}

// ScrollBy scrolls by delta lines on behalf of the user
func (m *Model) ScrollBy(delta int) {
	m.scrollTo(m.top + delta)
}

// Focus implements coordinator.Surface
func (m *Model) Focus() {
	m.focused = true
}

// Blur implements coordinator.Surface
func (m *Model) Blur() {
	m.focused = false
}

// Focused reports whether the surface has input focus
func (m *Model) Focused() bool {
	return m.focused
}

func (m *Model) scrollTo(top int) {
	prev := m.top
	m.top = top
	m.clampTop()
	if m.top != prev {
		m.emitScroll()
	}
}

func (m *Model) maxTop() int {
	if m.profile.ScrollBeyondLastLine {
		return max(len(m.lines)-1, 0)
	}
	return max(len(m.lines)-m.height, 0)
}

func (m *Model) clampTop() {
	m.top = min(max(m.top, 0), m.maxTop())
}

func (m *Model) moveTo(row, col int) {
	m.row = min(max(row, 0), len(m.lines)-1)
	m.col = min(max(col, 0), len(m.lines[m.row]))
}

// revealRow scrolls so the cursor keeps the configured number of
// surrounding lines in view.
func (m *Model) revealRow() {
	margin := min(m.profile.CursorSurroundingLines, (m.height-1)/2)
	top := m.top
	if m.row < top+margin {
		top = m.row - margin
	}
	if m.row > top+m.height-1-margin {
		top = m.row - m.height + 1 + margin
	}
	m.scrollTo(top)
}

func (m *Model) revealColumn() {
	textWidth := m.textWidth()
	if m.col < m.left {
		m.left = m.col
	}
	line := m.lines[m.row]
	for m.left < m.col && displayWidth(line[m.left:m.col]) >= textWidth {
		m.left++
	}
}

func (m *Model) emitCursor(origin models.Origin) {
	if m.onCursor != nil {
		m.onCursor(m.Position(), origin)
	}
}

func (m *Model) emitScroll() {
	if m.onScroll != nil {
		m.onScroll(m.top)
	}
}

func (m *Model) emitContent(flush bool) {
	if m.onContent != nil {
		m.onContent(flush)
	}
}

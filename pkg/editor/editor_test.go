package editor

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metacols/metacols/pkg/models"
)

type recorder struct {
	events []string
	origin []models.Origin
	flush  []bool
	tops   []int
}

func attach(m *Model) *recorder {
	r := &recorder{}
	m.OnCursorChange(func(pos models.Position, origin models.Origin) {
		r.events = append(r.events, "cursor")
		r.origin = append(r.origin, origin)
	})
	m.OnScrollChange(func(top int) {
		r.events = append(r.events, "scroll")
		r.tops = append(r.tops, top)
	})
	m.OnContentChange(func(flush bool) {
		r.events = append(r.events, "content")
		r.flush = append(r.flush, flush)
	})
	return r
}

func newModel(text string) *Model {
	m := New(models.DefaultEditorProfile())
	m.SetSize(30, 5)
	m.SetValue(text)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_SetValueIsFlush(t *testing.T) {
	m := New(models.DefaultEditorProfile())
	r := attach(m)

	m.SetValue("a\nb")

	assert.Equal(t, "a\nb", m.Value())
	assert.Equal(t, 2, m.LineCount())
	assert.Equal(t, []string{"content", "cursor"}, r.events)
	assert.Equal(t, []bool{true}, r.flush)
	assert.Equal(t, []models.Origin{models.OriginModel}, r.origin)
}

func TestModel_SetPositionIsProgrammatic(t *testing.T) {
	m := newModel("hello\nworld")
	r := attach(m)

	m.SetPosition(models.Position{Line: 2, Column: 3})

	assert.Equal(t, models.Position{Line: 2, Column: 3}, m.Position())
	assert.Equal(t, []models.Origin{models.OriginAPI}, r.origin)
}

func TestModel_SetPositionClamps(t *testing.T) {
	m := newModel("ab\ncd")

	m.SetPosition(models.Position{Line: 9, Column: 9})
	assert.Equal(t, models.Position{Line: 2, Column: 3}, m.Position())

	m.SetPosition(models.Position{Line: 0, Column: 0})
	assert.Equal(t, models.Position{Line: 1, Column: 1}, m.Position())
}

func TestModel_TypingRaisesUserEvents(t *testing.T) {
	m := newModel("abc")
	r := attach(m)

	m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	m.Update(runes("d"))

	assert.Equal(t, "abcd", m.Value())
	assert.Equal(t, models.Position{Line: 1, Column: 5}, m.Position())
	assert.Equal(t, []string{"cursor", "content", "cursor"}, r.events)
	assert.Equal(t, []bool{false}, r.flush)
	for _, o := range r.origin {
		assert.False(t, o.Programmatic())
	}
}

func TestModel_Editing(t *testing.T) {
	tests := []struct {
		name string
		text string
		keys []tea.KeyMsg
		want string
		pos  models.Position
	}{
		{
			name: "enter splits the line",
			text: "abcd",
			keys: []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyRight}, {Type: tea.KeyEnter}},
			want: "ab\ncd",
			pos:  models.Position{Line: 2, Column: 1},
		},
		{
			name: "backspace at line start joins lines",
			text: "ab\ncd",
			keys: []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyHome}, {Type: tea.KeyBackspace}},
			want: "abcd",
			pos:  models.Position{Line: 1, Column: 3},
		},
		{
			name: "backspace removes previous rune",
			text: "añb",
			keys: []tea.KeyMsg{{Type: tea.KeyEnd}, {Type: tea.KeyLeft}, {Type: tea.KeyBackspace}},
			want: "ab",
			pos:  models.Position{Line: 1, Column: 2},
		},
		{
			name: "delete at line end joins next line",
			text: "ab\ncd",
			keys: []tea.KeyMsg{{Type: tea.KeyEnd}, {Type: tea.KeyDelete}},
			want: "abcd",
			pos:  models.Position{Line: 1, Column: 3},
		},
		{
			name: "space inserts a space",
			text: "ab",
			keys: []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeySpace}},
			want: "a b",
			pos:  models.Position{Line: 1, Column: 3},
		},
		{
			name: "backspace at buffer start does nothing",
			text: "ab",
			keys: []tea.KeyMsg{{Type: tea.KeyBackspace}},
			want: "ab",
			pos:  models.Position{Line: 1, Column: 1},
		},
		{
			name: "left at line start wraps to previous line end",
			text: "ab\ncd",
			keys: []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyLeft}},
			want: "ab\ncd",
			pos:  models.Position{Line: 1, Column: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(tt.text)
			for _, k := range tt.keys {
				require.True(t, m.Update(k))
			}
			assert.Equal(t, tt.want, m.Value())
			assert.Equal(t, tt.pos, m.Position())
		})
	}
}

func TestModel_PasteExpandsTabsAndSplitsLines(t *testing.T) {
	m := newModel("xy")
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1\t2\n3"), Paste: true})

	assert.Equal(t, "x1    2\n3y", m.Value())
	assert.Equal(t, models.Position{Line: 2, Column: 2}, m.Position())
}

func TestModel_ReadOnly(t *testing.T) {
	m := newModel("1000\n1001")
	m.SetReadOnly(true)
	r := attach(m)

	m.Update(runes("9"))
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, "1000\n1001", m.Value())
	assert.Empty(t, r.flush, "no content events on a read-only surface")
	assert.Equal(t, models.Position{Line: 2, Column: 1}, m.Position())
}

func TestModel_ScrollEventsOnlyOnChange(t *testing.T) {
	m := newModel(strings.Repeat("line\n", 20))
	r := attach(m)

	m.SetScrollTop(4)
	m.SetScrollTop(4)
	m.SetScrollTop(-3)

	assert.Equal(t, []int{4, 0}, r.tops)
	assert.Equal(t, 0, m.ScrollTop())
}

func TestModel_CursorKeepsSurroundingLines(t *testing.T) {
	m := New(models.DefaultEditorProfile())
	m.SetSize(30, 10)
	m.SetValue(strings.Repeat("line\n", 30))
	r := attach(m)

	for i := 0; i < 7; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	// Row 7 with a 3-line margin in a 10-line window needs top 1.
	assert.Equal(t, 1, m.ScrollTop())
	assert.Equal(t, []int{1}, r.tops)
}

func TestModel_MouseWheelScrolls(t *testing.T) {
	m := newModel(strings.Repeat("line\n", 20))

	assert.True(t, m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress}))
	assert.Equal(t, 3, m.ScrollTop())

	assert.True(t, m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress}))
	assert.Equal(t, 0, m.ScrollTop())
}

func TestModel_View(t *testing.T) {
	m := newModel("first\nsecond")
	m.Focus()

	view := ansi.Strip(m.View())
	lines := strings.Split(view, "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, " 1 first", strings.TrimRight(lines[0], " "))
	assert.Equal(t, " 2 second", strings.TrimRight(lines[1], " "))
	for _, l := range lines {
		assert.Equal(t, 30, ansi.StringWidth(l))
	}
}

func TestModel_ViewTruncatesLongLines(t *testing.T) {
	m := newModel(strings.Repeat("x", 100))

	view := ansi.Strip(m.View())
	first := strings.Split(view, "\n")[0]
	assert.Equal(t, 30, ansi.StringWidth(first))
}

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metacols/metacols/pkg/codec"
	"github.com/metacols/metacols/pkg/editor"
	"github.com/metacols/metacols/pkg/models"
	"github.com/metacols/metacols/pkg/tui/testhelpers"
)

func typeText(ed *editor.Model, text string) {
	ed.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestColumnWidthPercent(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		hidden []string
		want   int
	}{
		{"id excluded", []string{"id", "track", "title"}, nil, 50},
		{"no id", []string{"track", "title", "artist"}, nil, 33},
		{"id first of four", []string{"id", "track", "title", "artist"}, nil, 33},
		{"id listed as hidden counts once", []string{"id", "track", "title"}, []string{"id"}, 50},
		{"hidden fields excluded", []string{"id", "track", "title", "artist"}, []string{"id", "track"}, 50},
		{"hidden field not in record", []string{"track", "title"}, []string{"genre"}, 50},
		{"everything hidden", []string{"id", "title"}, []string{"title"}, 100},
		{"id only", []string{"id"}, nil, 100},
		{"single field", []string{"title"}, nil, 100},
		{"no fields", nil, nil, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColumnWidthPercent(tt.fields, tt.hidden); got != tt.want {
				t.Errorf("ColumnWidthPercent(%v, %v) = %d, want %d", tt.fields, tt.hidden, got, tt.want)
			}
		})
	}
}

func TestViewBuilder_Build(t *testing.T) {
	layout, err := NewViewBuilder(models.DefaultSettings().Editor).Build(testhelpers.MakeSampleRecord())
	require.NoError(t, err)

	require.Len(t, layout.Columns, 4)
	assert.Equal(t, []string{"id", "track", "title", "artist"}, layout.Coordinator.Registry().Fields())

	id, ok := layout.Column("id")
	require.True(t, ok)
	assert.True(t, id.ReadOnly)
	assert.True(t, id.Hidden)
	assert.False(t, id.HasDiffPair(), "read-only id never gets a diff pair")
	assert.True(t, id.Normal.ReadOnly())
	assert.Equal(t, "1000\n1001\n1002", id.Normal.Value())

	title, ok := layout.Column("title")
	require.True(t, ok)
	assert.False(t, title.ReadOnly)
	require.True(t, title.HasDiffPair())
	assert.True(t, title.Original.ReadOnly())
	assert.Equal(t, "title1\ntitle2\ntitle3", title.Normal.Value())
	assert.Equal(t, title.Normal.Value(), title.Original.Value())
	assert.Equal(t, title.Normal.Value(), title.Modified.Value())

	// id has one view, every other field three.
	assert.Len(t, layout.Coordinator.Registry().Views(), 1+3*3)
	assert.Len(t, layout.VisibleColumns(), 3)

	focused := layout.FocusedColumn()
	require.NotNil(t, focused)
	assert.Equal(t, "track", focused.Field, "first visible field gets focus")
}

func TestViewBuilder_LightProfile(t *testing.T) {
	settings := models.DefaultSettings().Editor
	settings.Diff = false

	layout, err := NewViewBuilder(settings).Build(testhelpers.MakeSampleRecord())
	require.NoError(t, err)

	for _, c := range layout.Columns {
		assert.False(t, c.HasDiffPair(), c.Field)
	}
	assert.Len(t, layout.Coordinator.Registry().Views(), 4)
}

func TestViewBuilder_ConfiguredReadOnlyAndHidden(t *testing.T) {
	settings := models.DefaultSettings().Editor
	settings.ReadOnlyFields = append(settings.ReadOnlyFields, "artist")
	settings.HiddenFields = append(settings.HiddenFields, "track")

	layout, err := NewViewBuilder(settings).Build(testhelpers.MakeSampleRecord())
	require.NoError(t, err)

	artist, _ := layout.Column("artist")
	assert.True(t, artist.ReadOnly)
	assert.False(t, artist.HasDiffPair())

	track, _ := layout.Column("track")
	assert.True(t, track.Hidden)
	assert.Equal(t, "title", layout.FocusedColumn().Field)
}

func TestViewBuilder_EmptyRecord(t *testing.T) {
	_, err := NewViewBuilder(models.DefaultSettings().Editor).Build(models.Record{Fields: []string{"title"}})
	assert.ErrorIs(t, err, codec.ErrEmptyRecord)
}

func TestLayout_SetSize(t *testing.T) {
	layout, err := NewViewBuilder(models.DefaultSettings().Editor).Build(testhelpers.MakeSampleRecord())
	require.NoError(t, err)

	layout.SetSize(120, 20)

	title, _ := layout.Column("title")
	assert.Equal(t, 39, title.Width(), "33% of 120")
	assert.Equal(t, 37, title.Normal.Width())
	assert.Equal(t, 17, title.Normal.Height())
	assert.Equal(t, 18, title.Original.Width())
	assert.Equal(t, 18, title.Modified.Width())

	view := layout.View()
	testhelpers.AssertMaxLineWidth(t, view, 120)
	testhelpers.AssertViewContains(t, view, "title")
	testhelpers.AssertViewContains(t, view, "title2")
	testhelpers.AssertViewNotContains(t, view, "1001")
}

func TestLayout_SetSizeSkipsHiddenFields(t *testing.T) {
	settings := models.DefaultSettings().Editor
	settings.HiddenFields = append(settings.HiddenFields, "track")

	layout, err := NewViewBuilder(settings).Build(testhelpers.MakeSampleRecord())
	require.NoError(t, err)

	layout.SetSize(120, 20)

	for _, c := range layout.VisibleColumns() {
		assert.Equal(t, 60, c.Width(), c.Field)
	}
	testhelpers.AssertMaxLineWidth(t, layout.View(), 120)
}

func TestLayout_EditShowsDiffPair(t *testing.T) {
	layout, err := NewViewBuilder(models.DefaultSettings().Editor).Build(testhelpers.MakeSampleRecord())
	require.NoError(t, err)
	layout.SetSize(120, 20)

	require.True(t, layout.Coordinator.FocusField("title"))
	typeText(layout.FocusedEditor(), "X")

	title, _ := layout.Column("title")
	assert.True(t, layout.Coordinator.DiffVisible("title"))
	assert.Same(t, title.Modified, layout.FocusedEditor())
	assert.Equal(t, "Xtitle1\ntitle2\ntitle3", title.Modified.Value())
	assert.Equal(t, "title1\ntitle2\ntitle3", title.Original.Value())

	layout.RefreshMarks("title")
	testhelpers.AssertViewContains(t, layout.View(), "title *")

	payload, err := layout.Payload()
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"1000","track":"1","title":"Xtitle1","artist":"Artist"},
		{"id":"1001","track":"2","title":"title2","artist":"Artist"},
		{"id":"1002","track":"3","title":"title3","artist":"Artist"}
	]`, string(payload))
}

func TestDiffMarks(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		modified  string
		wantLeft  map[int]editor.LineMark
		wantRight map[int]editor.LineMark
	}{
		{
			name:      "identical",
			original:  "a\nb",
			modified:  "a\nb",
			wantLeft:  map[int]editor.LineMark{},
			wantRight: map[int]editor.LineMark{},
		},
		{
			name:      "changed line",
			original:  "a\nb\nc",
			modified:  "a\nB\nc",
			wantLeft:  map[int]editor.LineMark{1: editor.MarkChanged},
			wantRight: map[int]editor.LineMark{1: editor.MarkChanged},
		},
		{
			name:      "added line",
			original:  "a\nc",
			modified:  "a\nb\nc",
			wantLeft:  map[int]editor.LineMark{},
			wantRight: map[int]editor.LineMark{1: editor.MarkAdded},
		},
		{
			name:      "removed line",
			original:  "a\nb\nc",
			modified:  "a\nc",
			wantLeft:  map[int]editor.LineMark{1: editor.MarkRemoved},
			wantRight: map[int]editor.LineMark{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := DiffMarks(tt.original, tt.modified)
			assert.Equal(t, tt.wantLeft, left)
			assert.Equal(t, tt.wantRight, right)
		})
	}
}

package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/metacols/metacols/pkg/codec"
	"github.com/metacols/metacols/pkg/coordinator"
	"github.com/metacols/metacols/pkg/editor"
	"github.com/metacols/metacols/pkg/models"
)

// Column holds the views of one field. Original and Modified are nil
// when the field has no diff pair.
type Column struct {
	Field    string
	Color    string
	ReadOnly bool
	Hidden   bool
	Normal   *editor.Model
	Original *editor.Model
	Modified *editor.Model

	width int
}

// HasDiffPair reports whether the column can switch to diff presentation
func (c *Column) HasDiffPair() bool {
	return c.Modified != nil
}

// Width is the rendered width of the column including its border
func (c *Column) Width() int {
	return c.width
}

// Layout is the editor built for one record.
type Layout struct {
	Record      models.Record
	Columns     []*Column
	Coordinator *coordinator.Coordinator

	width  int
	height int
}

// ViewBuilder turns records into layouts. The editor profile is shared by
// every view it creates.
type ViewBuilder struct {
	settings models.EditorSettings
	profile  models.EditorProfile
}

// NewViewBuilder creates a builder for the given editor settings
func NewViewBuilder(settings models.EditorSettings) *ViewBuilder {
	return &ViewBuilder{
		settings: settings,
		profile:  settings.Profile,
	}
}

// ColumnWidthPercent returns the share of the terminal width each visible
// column gets. Neither the id field nor the hidden fields are laid out, so
// they do not count: with only id hidden this is 100/(n-1).
func ColumnWidthPercent(fields, hidden []string) int {
	n := 0
	for _, f := range fields {
		if f == models.IDField || slices.Contains(hidden, f) {
			continue
		}
		n++
	}
	if n == 0 {
		return 100
	}
	return 100 / n
}

// Build creates the views for rec, registers them with a new coordinator
// and focuses the first visible field. Records without rows are refused
// with codec.ErrEmptyRecord.
func (b *ViewBuilder) Build(rec models.Record) (*Layout, error) {
	columns, err := codec.RowsToColumns(rec.Rows, rec.Fields)
	if err != nil {
		return nil, err
	}

	reg := coordinator.NewRegistry()
	layout := &Layout{Record: rec}

	for _, field := range rec.Fields {
		col := b.newColumn(field)
		content := columns[field]

		col.Normal.SetValue(content)
		if _, err := reg.Register(field, models.RoleNormal, content, col.Normal); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", field, err)
		}

		if col.HasDiffPair() {
			col.Original.SetValue(content)
			col.Modified.SetValue(content)
			if _, err := reg.Register(field, models.RoleDiffOriginal, content, col.Original); err != nil {
				return nil, fmt.Errorf("failed to register %s: %w", field, err)
			}
			if _, err := reg.Register(field, models.RoleDiffModified, content, col.Modified); err != nil {
				return nil, fmt.Errorf("failed to register %s: %w", field, err)
			}
		}

		layout.Columns = append(layout.Columns, col)
	}

	layout.Coordinator = coordinator.New(reg, b.hiddenFields(rec.Fields))
	layout.Coordinator.Attach()
	layout.Coordinator.FocusFirst()
	return layout, nil
}

func (b *ViewBuilder) newColumn(field string) *Column {
	readOnly := field == models.IDField || b.settings.IsReadOnly(field)

	col := &Column{
		Field:    field,
		Color:    models.LabelColor(field, b.settings.LabelColors),
		ReadOnly: readOnly,
		Hidden:   field == models.IDField || b.settings.IsHidden(field),
		Normal:   editor.New(b.profile),
	}
	col.Normal.SetReadOnly(readOnly)

	// Read-only fields can never differ from their original.
	if b.settings.Diff && !readOnly {
		col.Original = editor.New(b.profile)
		col.Original.SetReadOnly(true)
		col.Modified = editor.New(b.profile)
	}
	return col
}

func (b *ViewBuilder) hiddenFields(fields []string) []string {
	var hidden []string
	for _, f := range fields {
		if f == models.IDField || b.settings.IsHidden(f) {
			hidden = append(hidden, f)
		}
	}
	return hidden
}

// Column returns the column of a field
func (l *Layout) Column(field string) (*Column, bool) {
	for _, c := range l.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return nil, false
}

// VisibleColumns returns the columns that are laid out, in field order
func (l *Layout) VisibleColumns() []*Column {
	var cols []*Column
	for _, c := range l.Columns {
		if !c.Hidden {
			cols = append(cols, c)
		}
	}
	return cols
}

// SetSize distributes width and height over the visible columns.
func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height

	var hidden []string
	for _, c := range l.Columns {
		if c.Hidden {
			hidden = append(hidden, c.Field)
		}
	}
	percent := ColumnWidthPercent(l.Record.Fields, hidden)
	colWidth := width * percent / 100
	// label row plus top and bottom border
	editorHeight := max(height-3, 1)

	for _, c := range l.Columns {
		c.width = colWidth
		inner := max(colWidth-2, 2)

		c.Normal.SetSize(inner, editorHeight)
		if c.HasDiffPair() {
			left := max((inner-1)/2, 1)
			c.Original.SetSize(left, editorHeight)
			c.Modified.SetSize(max(inner-1-left, 1), editorHeight)
		}
	}
}

// FocusedColumn returns the column whose view has input focus
func (l *Layout) FocusedColumn() *Column {
	v := l.Coordinator.Focused()
	if v == nil {
		return nil
	}
	c, _ := l.Column(v.Field)
	return c
}

// FocusedEditor returns the surface with input focus
func (l *Layout) FocusedEditor() *editor.Model {
	v := l.Coordinator.Focused()
	if v == nil {
		return nil
	}
	m, _ := v.Surface.(*editor.Model)
	return m
}

// RefreshMarks recomputes the changed-line marks of a field's diff pair.
func (l *Layout) RefreshMarks(field string) {
	c, ok := l.Column(field)
	if !ok || !c.HasDiffPair() {
		return
	}
	original, modified := DiffMarks(c.Original.Value(), c.Modified.Value())
	c.Original.SetMarks(original)
	c.Modified.SetMarks(modified)
}

// DiffMarks compares two texts line by line and returns the marks for
// the original and the modified side.
func DiffMarks(original, modified string) (map[int]editor.LineMark, map[int]editor.LineMark) {
	a := codec.SplitLines(original)
	b := codec.SplitLines(modified)

	left := make(map[int]editor.LineMark)
	right := make(map[int]editor.LineMark)

	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'r':
			for i := op.I1; i < op.I2; i++ {
				left[i] = editor.MarkChanged
			}
			for j := op.J1; j < op.J2; j++ {
				right[j] = editor.MarkChanged
			}
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				left[i] = editor.MarkRemoved
			}
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				right[j] = editor.MarkAdded
			}
		}
	}
	return left, right
}

// Payload encodes the current content of every normal view as the JSON
// array sent back to the server.
func (l *Layout) Payload() ([]byte, error) {
	rows := codec.ColumnsToRows(l.Coordinator.Columns(), l.Record.Fields)
	return codec.EncodeRecord(rows, l.Record.Fields)
}

// View renders the visible columns side by side
func (l *Layout) View() string {
	cols := l.VisibleColumns()
	if len(cols) == 0 {
		return ""
	}

	focused := l.FocusedColumn()
	rendered := make([]string, 0, len(cols))
	for _, c := range cols {
		rendered = append(rendered, l.renderColumn(c, c == focused))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (l *Layout) renderColumn(c *Column, active bool) string {
	inner := max(c.width-2, 2)

	label := c.Field
	diff := c.HasDiffPair() && l.Coordinator.DiffVisible(c.Field)
	if diff {
		label += " *"
	}
	label = truncate.StringWithTail(label, uint(max(inner-1, 1)), "…")
	header := LabelStyle.Foreground(lipgloss.Color(c.Color)).Width(inner).Render(label)

	var body string
	if diff {
		sep := strings.TrimSuffix(strings.Repeat("│\n", c.Modified.Height()), "\n")
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			c.Original.View(),
			DiffSideStyle.Render(sep),
			c.Modified.View(),
		)
	} else {
		body = c.Normal.View()
	}

	border := InactiveBorderStyle
	if active {
		border = ActiveBorderStyle
	}
	return border.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

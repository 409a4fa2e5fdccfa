// Package coordinator keeps the views of one record consistent: cursor
// rows, scroll offsets and field content are propagated from the view the
// user touched to every other view, and each field shows either its normal
// view or its original/modified diff pair.
package coordinator

import (
	"github.com/metacols/metacols/pkg/models"
)

// Coordinator owns the registry for one record and the per-field
// visibility state. It is not safe for concurrent use; all calls are
// expected on the UI event loop.
type Coordinator struct {
	registry    *Registry
	hidden      map[string]bool
	diffVisible map[string]bool
	focused     *View
	scrolling   bool
}

// New creates a coordinator over reg. Hidden fields take part in
// synchronization but are skipped by field navigation.
func New(reg *Registry, hidden []string) *Coordinator {
	c := &Coordinator{
		registry:    reg,
		hidden:      make(map[string]bool, len(hidden)),
		diffVisible: make(map[string]bool),
	}
	for _, f := range hidden {
		c.hidden[f] = true
	}
	return c
}

// Registry returns the underlying registry
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Attach registers the coordinator's handlers on every view.
func (c *Coordinator) Attach() {
	for _, v := range c.registry.Views() {
		view := v
		view.Surface.OnCursorChange(func(pos models.Position, origin models.Origin) {
			c.OnCursorMove(view, pos, origin)
		})
		view.Surface.OnScrollChange(func(top int) {
			c.OnScroll(view, top)
		})
		if view.Role == models.RoleNormal || view.Role == models.RoleDiffModified {
			view.Surface.OnContentChange(func(flush bool) {
				c.OnContentChange(view, flush)
			})
		}
	}
}

// OnCursorMove mirrors a user cursor move. Views of the same field get
// the exact position; views of other fields only get the line, column 1.
// Programmatic moves are not propagated.
func (c *Coordinator) OnCursorMove(source *View, pos models.Position, origin models.Origin) {
	if origin.Programmatic() {
		return
	}

	for _, other := range c.registry.Views() {
		if other == source {
			continue
		}
		if other.Field == source.Field {
			other.Surface.SetPosition(pos)
		} else {
			other.Surface.SetPosition(models.Position{Line: pos.Line, Column: 1})
		}
	}
}

// OnScroll mirrors a scroll offset to every other view. Scroll events
// raised by the views while the offset is being applied are dropped.
func (c *Coordinator) OnScroll(source *View, top int) {
	if c.scrolling {
		return
	}
	c.scrolling = true
	defer func() { c.scrolling = false }()

	for _, other := range c.registry.Views() {
		if other != source {
			other.Surface.SetScrollTop(top)
		}
	}
}

// OnContentChange keeps a field's normal view and modified view in step
// and switches the field between normal and diff presentation.
func (c *Coordinator) OnContentChange(source *View, flush bool) {
	if flush {
		return
	}

	switch source.Role {
	case models.RoleNormal:
		value := source.Surface.Value()
		modified, ok := c.registry.Lookup(source.Field, models.RoleDiffModified)
		if !ok {
			return
		}
		modified.Surface.SetValue(value)
		modified.Surface.SetPosition(source.Surface.Position())
		if value != source.OriginalContent {
			c.showDiff(source.Field)
		}

	case models.RoleDiffModified:
		value := source.Surface.Value()
		normal, ok := c.registry.Lookup(source.Field, models.RoleNormal)
		if !ok {
			return
		}
		normal.Surface.SetValue(value)
		normal.Surface.SetPosition(source.Surface.Position())
		if value == source.OriginalContent {
			c.showNormal(source.Field)
		}
	}
}

func (c *Coordinator) showDiff(field string) {
	modified, ok := c.registry.Lookup(field, models.RoleDiffModified)
	if !ok {
		return
	}
	c.diffVisible[field] = true
	c.Focus(modified)
}

func (c *Coordinator) showNormal(field string) {
	normal, ok := c.registry.Lookup(field, models.RoleNormal)
	if !ok {
		return
	}
	c.diffVisible[field] = false
	c.Focus(normal)
}

// DiffVisible reports whether the field currently shows its diff pair.
func (c *Coordinator) DiffVisible(field string) bool {
	return c.diffVisible[field]
}

// VisibleView returns the view that takes input for a field: the
// modified side when the diff pair is shown, otherwise the normal view.
func (c *Coordinator) VisibleView(field string) (*View, bool) {
	if c.diffVisible[field] {
		return c.registry.Lookup(field, models.RoleDiffModified)
	}
	return c.registry.Lookup(field, models.RoleNormal)
}

// Focus moves input focus to v.
func (c *Coordinator) Focus(v *View) {
	if c.focused == v {
		return
	}
	if c.focused != nil {
		c.focused.Surface.Blur()
	}
	c.focused = v
	if v != nil {
		v.Surface.Focus()
	}
}

// Focused returns the view with input focus, or nil.
func (c *Coordinator) Focused() *View {
	return c.focused
}

// FocusField focuses the visible view of a field.
func (c *Coordinator) FocusField(field string) bool {
	v, ok := c.VisibleView(field)
	if !ok {
		return false
	}
	c.Focus(v)
	return true
}

// FocusFirst focuses the first field that is not hidden.
func (c *Coordinator) FocusFirst() bool {
	fields := c.navigable()
	if len(fields) == 0 {
		return false
	}
	return c.FocusField(fields[0])
}

// NextField moves focus to the next visible field, wrapping around.
func (c *Coordinator) NextField() bool {
	return c.step(1)
}

// PrevField moves focus to the previous visible field, wrapping around.
func (c *Coordinator) PrevField() bool {
	return c.step(-1)
}

func (c *Coordinator) step(delta int) bool {
	fields := c.navigable()
	if len(fields) == 0 {
		return false
	}

	idx := -1
	if c.focused != nil {
		for i, f := range fields {
			if f == c.focused.Field {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return c.FocusField(fields[0])
	}

	next := (idx + delta + len(fields)) % len(fields)
	if !c.FocusField(fields[next]) {
		return false
	}

	// Keep the row when moving across columns, like a cross-field cursor sync.
	if c.focused != nil {
		line := c.focused.Surface.Position().Line
		c.focused.Surface.SetPosition(models.Position{Line: line, Column: 1})
	}
	return true
}

func (c *Coordinator) navigable() []string {
	var fields []string
	for _, f := range c.registry.Fields() {
		if !c.hidden[f] {
			fields = append(fields, f)
		}
	}
	return fields
}

// Revert restores a field to the content it was loaded with and shows
// its normal view again.
func (c *Coordinator) Revert(field string) bool {
	normal, ok := c.registry.Lookup(field, models.RoleNormal)
	if !ok {
		return false
	}
	pos := normal.Surface.Position()
	normal.Surface.SetValue(normal.OriginalContent)
	normal.Surface.SetPosition(pos)
	if modified, ok := c.registry.Lookup(field, models.RoleDiffModified); ok {
		modified.Surface.SetValue(modified.OriginalContent)
		modified.Surface.SetPosition(pos)
	}
	if c.diffVisible[field] {
		c.showNormal(field)
	}
	return true
}

// DirtyFields lists the fields whose normal view differs from the loaded
// content, in field order.
func (c *Coordinator) DirtyFields() []string {
	var dirty []string
	for _, f := range c.registry.Fields() {
		if normal, ok := c.registry.Lookup(f, models.RoleNormal); ok {
			if normal.Surface.Value() != normal.OriginalContent {
				dirty = append(dirty, f)
			}
		}
	}
	return dirty
}

// Dirty reports whether any field has unsubmitted edits.
func (c *Coordinator) Dirty() bool {
	return len(c.DirtyFields()) > 0
}

// Columns returns the content of every normal view keyed by field.
func (c *Coordinator) Columns() map[string]string {
	columns := make(map[string]string, len(c.registry.Fields()))
	for _, f := range c.registry.Fields() {
		if normal, ok := c.registry.Lookup(f, models.RoleNormal); ok {
			columns[f] = normal.Surface.Value()
		}
	}
	return columns
}

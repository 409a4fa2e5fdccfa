package coordinator

import (
	"fmt"

	"github.com/metacols/metacols/pkg/models"
)

// CursorHandler receives cursor moves from a surface.
type CursorHandler func(pos models.Position, origin models.Origin)

// ScrollHandler receives vertical scroll offset changes from a surface.
type ScrollHandler func(top int)

// ContentHandler receives content changes from a surface. flush is true
// when the whole content was replaced programmatically.
type ContentHandler func(flush bool)

// EventSource is where a surface announces changes. A surface keeps one
// handler per event kind; registering again replaces it.
type EventSource interface {
	OnCursorChange(CursorHandler)
	OnScrollChange(ScrollHandler)
	OnContentChange(ContentHandler)
}

// Surface is one editable text area. Setters are programmatic: a surface
// reports the changes they cause with OriginAPI/OriginModel cursor events
// and flush content events.
type Surface interface {
	EventSource

	Value() string
	SetValue(text string)
	Position() models.Position
	SetPosition(pos models.Position)
	ScrollTop() int
	SetScrollTop(top int)
	Focus()
	Blur()
}

// View binds a surface to a field and role.
type View struct {
	Field           string
	Role            models.Role
	OriginalContent string
	Surface         Surface
}

type viewKey struct {
	field string
	role  models.Role
}

// Registry is the association table (field, role) -> view.
type Registry struct {
	fields []string
	views  map[viewKey]*View
	order  []*View
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[viewKey]*View),
	}
}

// Register adds a view. Each (field, role) pair may be registered once.
func (r *Registry) Register(field string, role models.Role, original string, surface Surface) (*View, error) {
	key := viewKey{field: field, role: role}
	if _, exists := r.views[key]; exists {
		return nil, fmt.Errorf("view %s/%s already registered", field, role)
	}
	if surface == nil {
		return nil, fmt.Errorf("view %s/%s has no surface", field, role)
	}

	v := &View{
		Field:           field,
		Role:            role,
		OriginalContent: original,
		Surface:         surface,
	}
	r.views[key] = v
	r.order = append(r.order, v)

	if !r.hasField(field) {
		r.fields = append(r.fields, field)
	}
	return v, nil
}

// Lookup finds the view for a field and role
func (r *Registry) Lookup(field string, role models.Role) (*View, bool) {
	v, ok := r.views[viewKey{field: field, role: role}]
	return v, ok
}

// Views returns all views in registration order
func (r *Registry) Views() []*View {
	return r.order
}

// Fields returns field names in registration order
func (r *Registry) Fields() []string {
	return r.fields
}

func (r *Registry) hasField(field string) bool {
	for _, f := range r.fields {
		if f == field {
			return true
		}
	}
	return false
}

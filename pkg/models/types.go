package models

// IDField is the read-only identity column. It is loaded and synchronized
// like any other field but never laid out on screen.
const IDField = "id"

// Row is one record entry: field name to single-line value.
type Row map[string]string

// Record is an ordered list of rows sharing one key set. Fields holds the
// key order of the first row, which is also the column order.
type Record struct {
	Fields []string
	Rows   []Row
}

// Len returns the number of rows.
func (r Record) Len() int {
	return len(r.Rows)
}

// HasField reports whether the record carries the given field.
func (r Record) HasField(name string) bool {
	for _, f := range r.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Role is the part a view plays for its field.
type Role int

const (
	RoleNormal Role = iota
	RoleDiffOriginal
	RoleDiffModified
)

func (r Role) String() string {
	switch r {
	case RoleNormal:
		return "normal"
	case RoleDiffOriginal:
		return "diff_original"
	case RoleDiffModified:
		return "diff_modified"
	default:
		return "unknown"
	}
}

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// Origin tells where a cursor change came from.
type Origin int

const (
	OriginKeyboard Origin = iota
	OriginMouse
	OriginAPI
	OriginModel
)

func (o Origin) String() string {
	switch o {
	case OriginKeyboard:
		return "keyboard"
	case OriginMouse:
		return "mouse"
	case OriginAPI:
		return "api"
	case OriginModel:
		return "model"
	default:
		return "unknown"
	}
}

// Programmatic reports whether the change was replayed by the program
// rather than made by the user.
func (o Origin) Programmatic() bool {
	return o == OriginAPI || o == OriginModel
}

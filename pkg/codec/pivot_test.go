package codec

import (
	"errors"
	"reflect"
	"testing"

	"github.com/metacols/metacols/pkg/models"
)

func TestRowsToColumns(t *testing.T) {
	rows := []models.Row{
		{"id": "1", "title": "Blue in Green", "artist": "Miles Davis"},
		{"id": "2", "title": "So What", "artist": "Miles Davis"},
		{"id": "3", "title": "Naima", "artist": "John Coltrane"},
	}

	columns, err := RowsToColumns(rows, []string{"id", "title", "artist"})
	if err != nil {
		t.Fatalf("RowsToColumns() error = %v", err)
	}

	want := map[string]string{
		"id":     "1\n2\n3",
		"title":  "Blue in Green\nSo What\nNaima",
		"artist": "Miles Davis\nMiles Davis\nJohn Coltrane",
	}
	if !reflect.DeepEqual(columns, want) {
		t.Errorf("RowsToColumns() = %q, want %q", columns, want)
	}
}

func TestRowsToColumns_Empty(t *testing.T) {
	columns, err := RowsToColumns(nil, []string{"id"})
	if !errors.Is(err, ErrEmptyRecord) {
		t.Errorf("RowsToColumns() error = %v, want ErrEmptyRecord", err)
	}
	if columns != nil {
		t.Errorf("RowsToColumns() = %v, want nil", columns)
	}
}

func TestColumnsToRows(t *testing.T) {
	tests := []struct {
		name    string
		columns map[string]string
		fields  []string
		want    []models.Row
	}{
		{
			name:    "pads missing trailing lines",
			columns: map[string]string{"a": "x\ny", "b": "z"},
			fields:  []string{"a", "b"},
			want: []models.Row{
				{"a": "x", "b": "z"},
				{"a": "y", "b": ""},
			},
		},
		{
			name:    "longest column wins even when it is not the first",
			columns: map[string]string{"a": "x", "b": "1\n2\n3"},
			fields:  []string{"a", "b"},
			want: []models.Row{
				{"a": "x", "b": "1"},
				{"a": "", "b": "2"},
				{"a": "", "b": "3"},
			},
		},
		{
			name:    "empty text is one empty row",
			columns: map[string]string{"a": ""},
			fields:  []string{"a"},
			want:    []models.Row{{"a": ""}},
		},
		{
			name:    "missing column reads as empty",
			columns: map[string]string{"a": "x"},
			fields:  []string{"a", "b"},
			want:    []models.Row{{"a": "x", "b": ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColumnsToRows(tt.columns, tt.fields); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ColumnsToRows() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPivotRoundTrip(t *testing.T) {
	records := []struct {
		name   string
		fields []string
		rows   []models.Row
	}{
		{
			name:   "single row",
			fields: []string{"id", "title"},
			rows:   []models.Row{{"id": "1000", "title": "title1"}},
		},
		{
			name:   "empty values survive",
			fields: []string{"id", "album", "track"},
			rows: []models.Row{
				{"id": "1", "album": "", "track": "1"},
				{"id": "2", "album": "Kind of Blue", "track": ""},
				{"id": "3", "album": "", "track": ""},
			},
		},
		{
			name:   "unicode and spaces",
			fields: []string{"title", "artist"},
			rows: []models.Row{
				{"title": "  Tränen ", "artist": "Björk"},
				{"title": "夜に駆ける", "artist": "YOASOBI"},
			},
		},
	}

	for _, tt := range records {
		t.Run(tt.name, func(t *testing.T) {
			columns, err := RowsToColumns(tt.rows, tt.fields)
			if err != nil {
				t.Fatalf("RowsToColumns() error = %v", err)
			}
			if got := ColumnsToRows(columns, tt.fields); !reflect.DeepEqual(got, tt.rows) {
				t.Errorf("round trip = %v, want %v", got, tt.rows)
			}
		})
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"a\n\nc", 3},
		{"a\n", 2},
	}

	for _, tt := range tests {
		if got := LineCount(tt.text); got != tt.want {
			t.Errorf("LineCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

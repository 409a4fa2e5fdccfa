package codec

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/metacols/metacols/pkg/models"
)

func mustDecode(t *testing.T, data string) models.Record {
	t.Helper()
	rec, err := DecodeRecord([]byte(data))
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}
	return rec
}

func TestDecodeRecord(t *testing.T) {
	rec := mustDecode(t, `[
		{"title": "title1", "id": 1000, "track": 1, "artist": "artist1", "comp": false, "genre": null},
		{"title": "title2", "id": 1001, "track": 2, "artist": "artist2", "comp": true, "genre": "Jazz"}
	]`)

	wantFields := []string{"title", "id", "track", "artist", "comp", "genre"}
	if !reflect.DeepEqual(rec.Fields, wantFields) {
		t.Errorf("Fields = %v, want %v", rec.Fields, wantFields)
	}
	if rec.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rec.Len())
	}

	wantRow := models.Row{
		"title": "title1", "id": "1000", "track": "1", "artist": "artist1", "comp": "false", "genre": "",
	}
	if !reflect.DeepEqual(rec.Rows[0], wantRow) {
		t.Errorf("Rows[0] = %v, want %v", rec.Rows[0], wantRow)
	}
	if got := rec.Rows[1]["genre"]; got != "Jazz" {
		t.Errorf("Rows[1][genre] = %q, want %q", got, "Jazz")
	}
	if got := rec.Rows[1]["comp"]; got != "true" {
		t.Errorf("Rows[1][comp] = %q, want %q", got, "true")
	}
}

func TestDecodeRecord_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "empty array", data: `[]`, wantErr: ErrEmptyRecord},
		{name: "malformed", data: `[{"a": 1`},
		{name: "not an array", data: `{"a": 1}`},
		{name: "row is not an object", data: `[1, 2]`},
		{name: "later row is null", data: `[{"a": "x"}, null]`},
		{name: "value with newline", data: `[{"id": 1, "title": "a\nb"}, {"id": 2, "title": "c"}]`, wantErr: ErrMultilineValue},
		{name: "value with carriage return", data: `[{"id": 1, "title": "a\rb"}]`, wantErr: ErrMultilineValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord([]byte(tt.data))
			if err == nil {
				t.Fatal("DecodeRecord() expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeRecord() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && errors.Is(err, ErrEmptyRecord) {
				t.Errorf("DecodeRecord() error = %v, did not expect ErrEmptyRecord", err)
			}
		})
	}
}

func TestDecodeRecord_MultilineNamesTheCell(t *testing.T) {
	_, err := DecodeRecord([]byte(`[{"id": 1, "title": "c"}, {"id": 2, "title": "a\nb"}]`))
	if err == nil {
		t.Fatal("DecodeRecord() expected an error")
	}
	want := `row 1 field "title": value contains a line break`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestDecodeRecord_NestedValuesStaySingleLine(t *testing.T) {
	rec := mustDecode(t, `[{"tags": {
		"mood": "calm\nquiet"
	}}]`)
	if got, want := rec.Rows[0]["tags"], `{"mood":"calm\nquiet"}`; got != want {
		t.Errorf("tags = %q, want %q", got, want)
	}
}

func TestValueText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"hello"`, "hello"},
		{`"tab\there"`, "tab\there"},
		{`null`, ""},
		{``, ""},
		{`3.50`, "3.50"},
		{`-12`, "-12"},
		{`true`, "true"},
		{`{ "a" : [1, 2] }`, `{"a":[1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ValueText(json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("ValueText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ValueText(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRawRecord_Select(t *testing.T) {
	raw, err := DecodeRaw([]byte(`[
		{"id": 1000, "track": 1, "title": "title1", "path": "/music/a.mp3"},
		{"id": 1001, "track": 2, "title": null, "path": "/music/b.mp3"}
	]`))
	if err != nil {
		t.Fatalf("DecodeRaw() error = %v", err)
	}

	tests := []struct {
		name    string
		fields  []string
		want    string
		wantErr bool
	}{
		{
			name:   "keeps the requested order",
			fields: []string{"title", "id"},
			want:   `[{"title":"title1","id":1000},{"title":null,"id":1001}]`,
		},
		{
			name:   "single field",
			fields: []string{"track"},
			want:   `[{"track":1},{"track":2}]`,
		},
		{
			name:    "unknown field",
			fields:  []string{"title", "genre"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, err := raw.Select(tt.fields)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Select() expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}

			out, err := selected.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Encode() = %s, want %s", out, tt.want)
			}
		})
	}

	if len(raw.Fields) != 4 {
		t.Errorf("Select() changed the source fields: %v", raw.Fields)
	}
}

func TestEncodeRecord_FieldOrder(t *testing.T) {
	rows := []models.Row{
		{"id": "1", "title": "A & B <live>"},
		{"id": "2", "title": `say "hi"`},
	}

	data, err := EncodeRecord(rows, []string{"title", "id"})
	if err != nil {
		t.Fatalf("EncodeRecord() error = %v", err)
	}

	want := `[{"title":"A & B <live>","id":"1"},{"title":"say \"hi\"","id":"2"}]`
	if string(data) != want {
		t.Errorf("EncodeRecord() = %s, want %s", data, want)
	}
}

func TestEncodeRecord_Empty(t *testing.T) {
	data, err := EncodeRecord(nil, []string{"id"})
	if err != nil {
		t.Fatalf("EncodeRecord() error = %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("EncodeRecord() = %s, want []", data)
	}
}

func TestEncodeValues(t *testing.T) {
	rows := []map[string]any{
		{"id": 1000, "track": 1, "title": "t"},
	}

	data, err := EncodeValues(rows, []string{"id", "track", "title"})
	if err != nil {
		t.Fatalf("EncodeValues() error = %v", err)
	}
	if want := `[{"id":1000,"track":1,"title":"t"}]`; string(data) != want {
		t.Errorf("EncodeValues() = %s, want %s", data, want)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	data := `[{"id":"1","title":"x"},{"id":"2","title":"y"}]`
	rec := mustDecode(t, data)

	columns, err := RowsToColumns(rec.Rows, rec.Fields)
	if err != nil {
		t.Fatalf("RowsToColumns() error = %v", err)
	}

	out, err := EncodeRecord(ColumnsToRows(columns, rec.Fields), rec.Fields)
	if err != nil {
		t.Fatalf("EncodeRecord() error = %v", err)
	}
	if string(out) != data {
		t.Errorf("round trip = %s, want %s", out, data)
	}
}

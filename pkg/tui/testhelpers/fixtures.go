package testhelpers

import (
	"strconv"

	"github.com/metacols/metacols/pkg/models"
)

// SampleRecordJSON is a small music library record as a server sends it
const SampleRecordJSON = `[
	{"id": 1000, "track": 1, "title": "title1", "artist": "Artist"},
	{"id": 1001, "track": 2, "title": "title2", "artist": "Artist"},
	{"id": 1002, "track": 3, "title": "title3", "artist": "Artist"}
]`

// RecordBuilder assembles test records field by field
type RecordBuilder struct {
	fields []string
	rows   []models.Row
}

// NewRecordBuilder starts a record with the given column order
func NewRecordBuilder(fields ...string) *RecordBuilder {
	return &RecordBuilder{fields: fields}
}

// WithRow appends a row; values are matched to fields by position
func (b *RecordBuilder) WithRow(values ...string) *RecordBuilder {
	row := make(models.Row, len(b.fields))
	for i, f := range b.fields {
		if i < len(values) {
			row[f] = values[i]
		} else {
			row[f] = ""
		}
	}
	b.rows = append(b.rows, row)
	return b
}

// Build returns the record
func (b *RecordBuilder) Build() models.Record {
	return models.Record{Fields: b.fields, Rows: b.rows}
}

// MakeSampleRecord returns the decoded form of SampleRecordJSON
func MakeSampleRecord() models.Record {
	return NewRecordBuilder(models.IDField, "track", "title", "artist").
		WithRow("1000", "1", "title1", "Artist").
		WithRow("1001", "2", "title2", "Artist").
		WithRow("1002", "3", "title3", "Artist").
		Build()
}

// MakeTrackRecord returns a record of n rows without an id field
func MakeTrackRecord(n int) models.Record {
	b := NewRecordBuilder("track", "title")
	for i := 1; i <= n; i++ {
		b.WithRow(strconv.Itoa(i), "title"+strconv.Itoa(i))
	}
	return b.Build()
}

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/metacols/metacols/pkg/models"
)

// ErrMultilineValue is returned for a value that would span more than one
// line of its column.
var ErrMultilineValue = errors.New("value contains a line break")

// RawRecord keeps every value as undecoded JSON, with the field order of
// the first row.
type RawRecord struct {
	Fields []string
	Rows   []map[string]json.RawMessage
}

// DecodeRaw parses a JSON array of row objects without interpreting the
// values. An empty array yields ErrEmptyRecord.
func DecodeRaw(data []byte) (RawRecord, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return RawRecord{}, fmt.Errorf("failed to decode record: %w", err)
	}
	if len(elements) == 0 {
		return RawRecord{}, ErrEmptyRecord
	}

	fields, err := objectKeys(elements[0])
	if err != nil {
		return RawRecord{}, fmt.Errorf("failed to decode row 0: %w", err)
	}

	rows := make([]map[string]json.RawMessage, len(elements))
	for i, element := range elements {
		var row map[string]json.RawMessage
		if err := json.Unmarshal(element, &row); err != nil {
			return RawRecord{}, fmt.Errorf("failed to decode row %d: %w", i, err)
		}
		if row == nil {
			return RawRecord{}, fmt.Errorf("failed to decode row %d: not an object", i)
		}
		rows[i] = row
	}

	return RawRecord{Fields: fields, Rows: rows}, nil
}

// HasField reports whether the record has a field
func (r RawRecord) HasField(name string) bool {
	for _, f := range r.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Select returns the record reduced to fields, in that order. Every field
// must exist in the record.
func (r RawRecord) Select(fields []string) (RawRecord, error) {
	for _, f := range fields {
		if !r.HasField(f) {
			return RawRecord{}, fmt.Errorf("field %q not found", f)
		}
	}

	rows := make([]map[string]json.RawMessage, len(r.Rows))
	for i, row := range r.Rows {
		selected := make(map[string]json.RawMessage, len(fields))
		for _, f := range fields {
			if v, ok := row[f]; ok {
				selected[f] = v
			}
		}
		rows[i] = selected
	}
	return RawRecord{Fields: append([]string(nil), fields...), Rows: rows}, nil
}

// Encode writes the record as a JSON array with keys in field order and
// every value as it was read. Missing values become null.
func (r RawRecord) Encode() ([]byte, error) {
	return encodeRows(len(r.Rows), r.Fields, func(i int, field string) any {
		return r.Rows[i][field]
	})
}

// Text renders every value as single-line text. A value holding a line
// break is refused with ErrMultilineValue: one value is one line.
func (r RawRecord) Text() (models.Record, error) {
	rec := models.Record{
		Fields: r.Fields,
		Rows:   make([]models.Row, len(r.Rows)),
	}
	for i, rawRow := range r.Rows {
		row := make(models.Row, len(r.Fields))
		for _, field := range r.Fields {
			text, err := ValueText(rawRow[field])
			if err != nil {
				return models.Record{}, fmt.Errorf("row %d field %q: %w", i, field, err)
			}
			if strings.ContainsAny(text, "\r\n") {
				return models.Record{}, fmt.Errorf("row %d field %q: %w", i, field, ErrMultilineValue)
			}
			row[field] = text
		}
		rec.Rows[i] = row
	}
	return rec, nil
}

// DecodeRecord parses a JSON array of row objects into a Record whose
// values are rendered as single-line text.
func DecodeRecord(data []byte) (models.Record, error) {
	raw, err := DecodeRaw(data)
	if err != nil {
		return models.Record{}, err
	}
	return raw.Text()
}

// ValueText renders one JSON value as editor text: strings as they are,
// null and missing values as "", numbers and booleans by their literal,
// and nested values as compact JSON.
func ValueText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n':
		return "", nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(trimmed), nil
	}
}

// EncodeRecord serializes rows as a JSON array of objects whose keys
// follow the given field order. Every value is a string.
func EncodeRecord(rows []models.Row, fields []string) ([]byte, error) {
	return encodeRows(len(rows), fields, func(i int, field string) any {
		return rows[i][field]
	})
}

// EncodeValues serializes typed rows the same way as EncodeRecord.
func EncodeValues(rows []map[string]any, fields []string) ([]byte, error) {
	return encodeRows(len(rows), fields, func(i int, field string) any {
		return rows[i][field]
	})
}

func encodeRows(n int, fields []string, value func(i int, field string) any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, field := range fields {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(&buf, field); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeJSON(&buf, value(i, field)); err != nil {
				return nil, fmt.Errorf("row %d field %q: %w", i, field, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// objectKeys returns the keys of a JSON object in document order.
func objectKeys(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("not an object")
	}

	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}

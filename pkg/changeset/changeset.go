// Package changeset reviews an edited record against the record that was
// served: which cells changed, which rows are refused, and what the
// merged output looks like.
package changeset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/metacols/metacols/pkg/codec"
	"github.com/metacols/metacols/pkg/models"
)

// Change is one edited cell
type Change struct {
	Row   int    `json:"row" yaml:"row"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Field string `json:"field" yaml:"field"`
	Old   string `json:"old" yaml:"old"`
	New   string `json:"new" yaml:"new"`
}

// Result is the review of one edit
type Result struct {
	Changes     []Change `json:"changes" yaml:"changes"`
	SkippedRows []int    `json:"skipped_rows,omitempty" yaml:"skipped_rows,omitempty"`
	Warnings    []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Empty reports whether nothing would be applied
func (r Result) Empty() bool {
	return len(r.Changes) == 0
}

func (r Result) skipped(row int) bool {
	for _, s := range r.SkippedRows {
		if s == row {
			return true
		}
	}
	return false
}

// Compare diffs the edited record against the original. Rows whose
// ignored fields were touched are refused as a whole, so an identity
// column cannot be clobbered by mistake. Fields missing from the edit were
// not served and are left alone.
func Compare(original codec.RawRecord, edited models.Record, ignoreFields []string) (Result, error) {
	var result Result

	if len(original.Rows) != edited.Len() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Number of objects changed from %d to %d", len(original.Rows), edited.Len()))
	}

	n := min(len(original.Rows), edited.Len())
	for i := 0; i < n; i++ {
		oldRow, err := rowText(original, i)
		if err != nil {
			return Result{}, err
		}
		newRow := edited.Rows[i]

		if field, forbidden := touchedIgnored(oldRow, newRow, ignoreFields); forbidden {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Ignoring object %d whose %s changed", i, field))
			result.SkippedRows = append(result.SkippedRows, i)
			continue
		}

		for _, field := range original.Fields {
			newValue, present := newRow[field]
			if !present || newValue == oldRow[field] {
				continue
			}
			result.Changes = append(result.Changes, Change{
				Row:   i,
				ID:    oldRow[models.IDField],
				Field: field,
				Old:   oldRow[field],
				New:   newValue,
			})
		}
	}

	return result, nil
}

// Apply merges the accepted changes into the full original rows, so
// fields that were not served keep their values. Values that
// were numbers or booleans stay typed when the edited text still parses
// as one; everything else becomes a string.
func Apply(original codec.RawRecord, result Result) ([]map[string]any, error) {
	rows := make([]map[string]any, len(original.Rows))
	for i, raw := range original.Rows {
		row := make(map[string]any, len(original.Fields))
		for _, field := range original.Fields {
			var v any
			if value, ok := raw[field]; ok {
				if err := json.Unmarshal(value, &v); err != nil {
					return nil, fmt.Errorf("row %d field %q: %w", i, field, err)
				}
				if num, isNum := jsonNumber(value); isNum {
					v = num
				}
			}
			row[field] = v
		}
		rows[i] = row
	}

	for _, c := range result.Changes {
		if c.Row >= len(rows) || result.skipped(c.Row) {
			continue
		}
		rows[c.Row][c.Field] = typedValue(original.Rows[c.Row][c.Field], c.New)
	}
	return rows, nil
}

// typedValue converts edited text back to the JSON kind of the original
// value when that is lossless.
func typedValue(original json.RawMessage, text string) any {
	trimmed := bytes.TrimSpace(original)
	if len(trimmed) == 0 {
		return text
	}

	switch trimmed[0] {
	case 't', 'f':
		if text == "true" || text == "false" {
			return text == "true"
		}
	case 'n':
		if text == "" {
			return nil
		}
	case '"', '{', '[':
	default:
		if num, ok := jsonNumber([]byte(text)); ok {
			return num
		}
	}
	return text
}

func jsonNumber(raw []byte) (json.Number, bool) {
	s := string(bytes.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return "", false
	}
	if !json.Valid([]byte(s)) {
		return "", false
	}
	return json.Number(s), true
}

func rowText(rec codec.RawRecord, i int) (models.Row, error) {
	row := make(models.Row, len(rec.Fields))
	for _, field := range rec.Fields {
		text, err := codec.ValueText(rec.Rows[i][field])
		if err != nil {
			return nil, fmt.Errorf("row %d field %q: %w", i, field, err)
		}
		row[field] = text
	}
	return row, nil
}

func touchedIgnored(oldRow, newRow models.Row, ignore []string) (string, bool) {
	for _, field := range ignore {
		oldValue, hadField := oldRow[field]
		newValue, served := newRow[field]
		if !hadField || !served {
			continue
		}
		if newValue != oldValue {
			return field, true
		}
	}
	return "", false
}

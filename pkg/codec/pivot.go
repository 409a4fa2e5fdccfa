// Package codec pivots records between row-oriented JSON and the
// column-oriented, one-line-per-row text that the editor views hold.
package codec

import (
	"errors"
	"strings"

	"github.com/metacols/metacols/pkg/models"
)

// ErrEmptyRecord is returned when a record has no rows, so no field list
// can be derived from it.
var ErrEmptyRecord = errors.New("empty record: no rows to derive fields from")

// RowsToColumns joins every field's values, in row order, with newlines.
func RowsToColumns(rows []models.Row, fields []string) (map[string]string, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyRecord
	}

	columns := make(map[string]string, len(fields))
	lines := make([]string, len(rows))
	for _, field := range fields {
		for i, row := range rows {
			lines[i] = row[field]
		}
		columns[field] = strings.Join(lines, "\n")
	}
	return columns, nil
}

// ColumnsToRows splits every column on newlines and reassembles rows.
// The row count is the longest column's line count; shorter columns are
// padded with empty values so rows stay aligned.
func ColumnsToRows(columns map[string]string, fields []string) []models.Row {
	split := make(map[string][]string, len(fields))
	count := 0
	for _, field := range fields {
		lines := SplitLines(columns[field])
		split[field] = lines
		if len(lines) > count {
			count = len(lines)
		}
	}

	rows := make([]models.Row, count)
	for i := range rows {
		row := make(models.Row, len(fields))
		for _, field := range fields {
			lines := split[field]
			if i < len(lines) {
				row[field] = lines[i]
			} else {
				row[field] = ""
			}
		}
		rows[i] = row
	}
	return rows
}

// SplitLines splits view text into lines. Empty text is one empty line.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// LineCount returns the number of lines in view text.
func LineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

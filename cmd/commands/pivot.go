package commands

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/metacols/metacols/internal/cli"
	"github.com/metacols/metacols/pkg/codec"
)

var (
	pivotField string
	pivotCopy  bool
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// FieldColumn is one field's column text
type FieldColumn struct {
	Field   string `json:"field" yaml:"field"`
	Lines   int    `json:"lines" yaml:"lines"`
	Content string `json:"content" yaml:"content"`
}

// NewPivotCommand creates the pivot command
func NewPivotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pivot <file.json>",
		Short: "Print a record file as per-field columns",
		Long: `Print the column text the editor builds for a record file: one block per
field, one line per row.

Examples:
  # Show every column
  metacols pivot tracks.json

  # Copy the title column to the clipboard
  metacols pivot tracks.json --field title --copy

  # Columns as JSON
  metacols pivot tracks.json -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runPivot,
	}

	cmd.Flags().StringVarP(&pivotField, "field", "f", "", "Only show this field")
	cmd.Flags().BoolVar(&pivotCopy, "copy", false, "Copy the column text to the clipboard")

	return cmd
}

func runPivot(cmd *cobra.Command, args []string) error {
	cc := cli.NewCommandContext(cmd)

	record, err := cli.LoadRecordFile(args[0])
	if err != nil {
		return err
	}
	rec, err := codec.DecodeRecord(record.Payload)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", record.Path, err)
	}

	fields := rec.Fields
	if pivotField != "" {
		if !rec.HasField(pivotField) {
			return fmt.Errorf("field %q not found (fields: %s)", pivotField, strings.Join(rec.Fields, ", "))
		}
		fields = []string{pivotField}
	}

	columns, err := codec.RowsToColumns(rec.Rows, rec.Fields)
	if err != nil {
		return err
	}

	result := make([]FieldColumn, 0, len(fields))
	for _, f := range fields {
		result = append(result, FieldColumn{
			Field:   f,
			Lines:   codec.LineCount(columns[f]),
			Content: columns[f],
		})
	}

	if pivotCopy {
		var text strings.Builder
		for i, c := range result {
			if i > 0 {
				text.WriteString("\n\n")
			}
			text.WriteString(c.Content)
		}
		if err := copyToClipboard(text.String()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		cli.PrintSuccess("Copied %d column(s) to clipboard", len(result))
		return nil
	}

	if cc.OutputFormat != string(cli.FormatText) {
		return cli.OutputResults(cmd.OutOrStdout(), cc.OutputFormat, result)
	}

	out := cmd.OutOrStdout()
	for i, c := range result {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "== %s (%d lines) ==\n", c.Field, c.Lines)
		fmt.Fprintln(out, c.Content)
	}
	return nil
}

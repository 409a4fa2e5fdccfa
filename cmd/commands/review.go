package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/metacols/metacols/internal/cli"
	"github.com/metacols/metacols/pkg/changeset"
	"github.com/metacols/metacols/pkg/codec"
	"github.com/metacols/metacols/pkg/models"
)

// reviewOptions control what happens to an edited record once it is back
type reviewOptions struct {
	Format       string
	OutPath      string
	IgnoreFields []string
}

// reviewResult compares the edited record with the served one, prints the
// review and writes the merged record when an output path is set.
func reviewResult(w io.Writer, original *cli.RecordFile, result []byte, opts reviewOptions) error {
	edited, err := codec.DecodeRecord(result)
	if err != nil && !errors.Is(err, codec.ErrEmptyRecord) {
		return fmt.Errorf("failed to decode edited record: %w", err)
	}
	if errors.Is(err, codec.ErrEmptyRecord) {
		edited = models.Record{Fields: original.Raw.Fields}
	}

	review, err := changeset.Compare(original.Raw, edited, opts.IgnoreFields)
	if err != nil {
		return fmt.Errorf("failed to compare records: %w", err)
	}

	for _, warning := range review.Warnings {
		cli.PrintWarning("%s", warning)
	}

	if err := printReview(w, opts.Format, review); err != nil {
		return err
	}

	if opts.OutPath == "" || review.Empty() {
		return nil
	}

	rows, err := changeset.Apply(original.Raw, review)
	if err != nil {
		return fmt.Errorf("failed to apply changes: %w", err)
	}
	data, err := codec.EncodeValues(rows, original.Raw.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	written, err := cli.WriteOutputFile(opts.OutPath, data)
	if err != nil {
		return err
	}
	if written {
		cli.PrintSuccess("Wrote %d changes to %s", len(review.Changes), opts.OutPath)
	} else {
		cli.PrintInfo("Left %s unchanged", opts.OutPath)
	}
	return nil
}

func printReview(w io.Writer, format string, review changeset.Result) error {
	if format != string(cli.FormatText) {
		return cli.OutputResults(w, format, review)
	}

	if review.Empty() {
		cli.PrintInfo("No changes to apply")
		return nil
	}

	table := cli.NewTableFormatter(w)
	table.Header("ROW", "ID", "FIELD", "OLD", "NEW")
	for _, c := range review.Changes {
		table.Row(
			fmt.Sprintf("%d", c.Row),
			c.ID,
			c.Field,
			cli.TruncateString(c.Old, 30),
			cli.TruncateString(c.New, 30),
		)
	}
	table.Flush()

	fmt.Fprintf(w, "\n%d change(s)", len(review.Changes))
	if n := len(review.SkippedRows); n > 0 {
		fmt.Fprintf(w, ", %d row(s) skipped", n)
	}
	fmt.Fprintln(w)
	return nil
}

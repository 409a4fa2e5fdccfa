package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metacols/metacols/internal/cli"
	"github.com/metacols/metacols/pkg/transport"
)

var (
	servePort    int
	serveOutPath string
	serveFields  []string
	serveAll     bool
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <file.json>",
		Short: "Host a record file for an editor to connect to",
		Long: `Host a JSON record file over a websocket and wait for one editor to
send it back.

The file must hold a JSON array of objects sharing the same keys. An editor
that connects and sends the handshake receives the record; the first JSON
array it sends back is reviewed against the file. Rows whose ignored fields
(server.ignore_fields, "path" by default) were changed are skipped.

Only the fields in server.fields are served, plus any given with --field
and always id. With no fields configured, or with --all, every field is
served. Fields that were not served keep their values in the merged record.

Examples:
  # Serve on the configured port and print the changes
  metacols serve tracks.json

  # Write the merged record to a new file
  metacols serve tracks.json --out tracks.edited.json

  # Edit only titles and artists
  metacols serve tracks.json -f title -f artist

  # Review as YAML
  metacols serve tracks.json -o yaml`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.ValidatePort(servePort)
		},
		RunE: runServe,
	}

	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default from settings)")
	cmd.Flags().StringVar(&serveOutPath, "out", "", "Write the merged record to this file")
	cmd.Flags().StringArrayVarP(&serveFields, "field", "f", nil, "Also serve this field (repeatable)")
	cmd.Flags().BoolVar(&serveAll, "all", false, "Serve every field")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cc := cli.NewCommandContext(cmd)
	settings, err := cc.LoadSettings()
	if err != nil {
		return err
	}
	closeLog, err := cc.SetupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog()

	record, err := cli.LoadRecordFile(args[0])
	if err != nil {
		return err
	}
	if err := record.Select(settings.Server.EditFields(serveFields, serveAll)); err != nil {
		return err
	}

	port := settings.Server.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	cli.PrintInfo("Serving %s (%d rows, fields: %s, %s) on ws://%s",
		record.Path, len(record.Raw.Rows), strings.Join(record.Fields, ", "),
		cli.FormatBytes(int64(len(record.Payload))), ln.Addr())

	return serveAndReview(ctx, cmd.OutOrStdout(), ln, record, settings.Transport.Handshake, reviewOptions{
		Format:       cc.OutputFormat,
		OutPath:      serveOutPath,
		IgnoreFields: settings.Server.IgnoreFields,
	})
}

// serveAndReview hosts the record on ln until an edited copy arrives, then
// reviews it.
func serveAndReview(ctx context.Context, w io.Writer, ln net.Listener, record *cli.RecordFile, handshake string, opts reviewOptions) error {
	server := transport.NewServer(handshake, record.Payload)

	result, err := server.Serve(ctx, ln)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			cli.PrintInfo("Stopped before an edited record arrived")
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}

	cli.PrintSuccess("Received edited record (%s)", cli.FormatBytes(int64(len(result))))
	return reviewResult(w, record, result, opts)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"net"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/metacols/metacols/internal/cli"
	"github.com/metacols/metacols/pkg/transport"
	"github.com/metacols/metacols/pkg/tui"
)

var (
	editOutPath string
	editFields  []string
	editAll     bool
)

// NewEditCommand creates the edit command
func NewEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <file.json>",
		Short: "Edit a record file in the terminal",
		Long: `Serve a JSON record file and edit it in the same process.

The editor closes as soon as the edited record is submitted with ctrl+s,
then the changes are reviewed exactly like 'metacols serve' does. Field
selection works as for 'metacols serve'.

Examples:
  # Edit and print the changes
  metacols edit tracks.json

  # Edit and write the merged record
  metacols edit tracks.json --out tracks.json

  # Edit every field, ignoring server.fields
  metacols edit tracks.json --all`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}

	cmd.Flags().StringVar(&editOutPath, "out", "", "Write the merged record to this file")
	cmd.Flags().StringArrayVarP(&editFields, "field", "f", nil, "Also edit this field (repeatable)")
	cmd.Flags().BoolVar(&editAll, "all", false, "Edit every field")

	return cmd
}

type serveOutcome struct {
	result []byte
	err    error
}

// serveEditor hosts the record for the in-process editor and calls quit
// once the server stops, on success and on failure alike.
func serveEditor(ctx context.Context, server *transport.Server, ln net.Listener, quit func()) serveOutcome {
	result, err := server.Serve(ctx, ln)
	quit()
	return serveOutcome{result: result, err: err}
}

func runEdit(cmd *cobra.Command, args []string) error {
	cc := cli.NewCommandContext(cmd)
	settings, err := cc.LoadSettings()
	if err != nil {
		return err
	}

	record, err := cli.LoadRecordFile(args[0])
	if err != nil {
		return err
	}
	if err := record.Select(settings.Server.EditFields(editFields, editAll)); err != nil {
		return err
	}

	closeLog, err := cc.SetupLogging(true)
	if err != nil {
		return err
	}
	defer closeLog()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := transport.NewClient(settings.Transport, transport.WithURL("ws://"+ln.Addr().String()))
	p := tea.NewProgram(tui.NewApp(client, settings), tea.WithAltScreen(), tea.WithMouseCellMotion())

	server := transport.NewServer(settings.Transport.Handshake, record.Payload)
	done := make(chan serveOutcome, 1)
	go func() {
		done <- serveEditor(ctx, server, ln, p.Quit)
	}()
	go client.Run(ctx)

	_, runErr := p.Run()
	cancel()
	outcome := <-done

	if runErr != nil {
		return fmt.Errorf("failed to start the terminal user interface: %w", runErr)
	}
	if outcome.err != nil {
		if errors.Is(outcome.err, context.Canceled) {
			cli.PrintInfo("Editor closed without submitting")
			return nil
		}
		return fmt.Errorf("server failed: %w", outcome.err)
	}

	return reviewResult(cmd.OutOrStdout(), record, outcome.result, reviewOptions{
		Format:       cc.OutputFormat,
		OutPath:      editOutPath,
		IgnoreFields: settings.Server.IgnoreFields,
	})
}

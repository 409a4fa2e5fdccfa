package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/metacols/metacols/internal/cli"
	"github.com/metacols/metacols/pkg/transport"
	"github.com/metacols/metacols/pkg/tui"
)

// NewConnectCommand creates the connect command
func NewConnectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect [url]",
		Short: "Edit records from a running record server",
		Long: `Connect to a record server and edit the records it sends.

Every record arrives as a JSON array of rows and is shown with one column
per field. Edits are sent back with ctrl+s. When the connection drops the
editor reconnects after a fixed delay and sends the handshake again.

Examples:
  # Connect to the configured server (ws://localhost:8889 by default)
  metacols connect

  # Connect to another server and keep a log
  metacols connect ws://music-box:8889 --log-file metacols.log`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return cli.ValidateServerURL(args[0])
			}
			return nil
		},
		RunE: runConnect,
	}

	return cmd
}

func runConnect(cmd *cobra.Command, args []string) error {
	cc := cli.NewCommandContext(cmd)
	settings, err := cc.LoadSettings()
	if err != nil {
		return err
	}
	closeLog, err := cc.SetupLogging(true)
	if err != nil {
		return err
	}
	defer closeLog()

	var url string
	if len(args) == 1 {
		url = args[0]
	}
	client := transport.NewClient(settings.Transport, transport.WithURL(url))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go client.Run(ctx)

	p := tea.NewProgram(tui.NewApp(client, settings), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start the terminal user interface: %w", err)
	}
	return nil
}

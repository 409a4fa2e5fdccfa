package commands

import (
	"github.com/spf13/cobra"

	"github.com/metacols/metacols/internal/cli"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings",
		Long: `Print the settings in effect: the defaults merged with the settings file
(metacols.yaml in the working directory, or --config).

The YAML output is a valid settings file to start from.

Examples:
  metacols config > metacols.yaml
  metacols config --config ~/metacols.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: runConfig,
	}

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	cc := cli.NewCommandContext(cmd)
	settings, err := cc.LoadSettings()
	if err != nil {
		return err
	}

	format := cc.OutputFormat
	if format == string(cli.FormatText) {
		format = string(cli.FormatYAML)
	}
	return cli.OutputResults(cmd.OutOrStdout(), format, settings)
}

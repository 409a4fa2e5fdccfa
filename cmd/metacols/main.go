package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/metacols/metacols/cmd/commands"
	"github.com/metacols/metacols/internal/cli"
	"github.com/metacols/metacols/pkg/models"
	"github.com/metacols/metacols/pkg/tui"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	configPath   string
	outputFormat string
	logFile      string
	quiet        bool
	noColor      bool
	assumeYes    bool
)

var rootCmd = &cobra.Command{
	Use:   "metacols",
	Short: "Terminal multi-column editor for tabular metadata records",
	Long: `Metacols edits tabular metadata records, such as a music library's track
tags, one column per field. Cursor rows and scrolling stay aligned across
columns, and every edited field shows a diff against what was loaded.

Records travel as JSON arrays over a websocket: 'metacols connect' edits
records from a running server, 'metacols serve' hosts a record file, and
'metacols edit' does both in one process.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli.SetGlobalFlags(quiet, noColor, assumeYes)
		return cli.ValidateOutputFormat(outputFormat)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Metacols",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Metacols version %s\n", version)
	},
}

func init() {
	tui.Version = version

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", models.DefaultSettingsFile, "Settings file")
	flags.StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json, yaml)")
	flags.StringVar(&logFile, "log-file", "", "Write diagnostic logs to this file")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Only print errors and results")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to confirmations")

	rootCmd.AddCommand(
		commands.NewConnectCommand(),
		commands.NewServeCommand(),
		commands.NewEditCommand(),
		commands.NewPivotCommand(),
		commands.NewConfigCommand(),
		versionCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		cli.PrintError("%v", err)
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/metacols/metacols/pkg/codec"
	"github.com/metacols/metacols/pkg/models"
)

// CommandContext carries what every command needs: the settings and the
// global flags.
type CommandContext struct {
	ConfigPath   string
	OutputFormat string
	LogFile      string
	Settings     *models.Settings
}

// NewCommandContext reads the inherited global flags of cmd. Flags that
// are not defined (a command run on its own in tests) keep their
// defaults.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	c := &CommandContext{
		ConfigPath:   models.DefaultSettingsFile,
		OutputFormat: string(FormatText),
	}
	if v, err := cmd.Flags().GetString("config"); err == nil && v != "" {
		c.ConfigPath = v
	}
	if v, err := cmd.Flags().GetString("output"); err == nil && v != "" {
		c.OutputFormat = v
	}
	if v, err := cmd.Flags().GetString("log-file"); err == nil {
		c.LogFile = v
	}
	return c
}

// LoadSettings loads the settings file once
func (c *CommandContext) LoadSettings() (*models.Settings, error) {
	if c.Settings != nil {
		return c.Settings, nil
	}

	settings, err := models.LoadSettings(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.Settings = settings
	return settings, nil
}

// SetupLogging points the log package at the log file. While a TUI owns
// the terminal and no file is given, log output is discarded. The
// returned func closes the log file, if any.
func (c *CommandContext) SetupLogging(interactive bool) (func(), error) {
	if c.LogFile != "" {
		f, err := tea.LogToFile(c.LogFile, "metacols")
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		return func() { f.Close() }, nil
	}

	if interactive {
		log.SetOutput(io.Discard)
	}
	return func() {}, nil
}

// RecordFile is a record loaded from disk, kept both as the raw bytes
// served to the editor and decoded for review. Raw always holds every
// field of the file.
type RecordFile struct {
	Path    string
	Payload []byte
	Raw     codec.RawRecord
	Fields  []string // fields in Payload
}

// LoadRecordFile reads and decodes a JSON record file
func LoadRecordFile(path string) (*RecordFile, error) {
	if err := ValidateFilePath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}

	raw, err := codec.DecodeRaw(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if _, err := raw.Text(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return &RecordFile{Path: path, Payload: data, Raw: raw, Fields: raw.Fields}, nil
}

// Select narrows the payload to fields. The id field is kept only when
// the file has one; any other unknown field is an error. No fields means
// the whole file.
func (r *RecordFile) Select(fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	keep := make([]string, 0, len(fields))
	for _, f := range fields {
		if r.Raw.HasField(f) {
			keep = append(keep, f)
			continue
		}
		if f != models.IDField {
			return fmt.Errorf("field %q not found in %s (fields: %s)", f, r.Path, strings.Join(r.Raw.Fields, ", "))
		}
	}

	if len(keep) == 0 {
		return fmt.Errorf("none of the selected fields are in %s", r.Path)
	}

	selected, err := r.Raw.Select(keep)
	if err != nil {
		return err
	}
	payload, err := selected.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.Path, err)
	}

	r.Payload = payload
	r.Fields = selected.Fields
	return nil
}

// WriteOutputFile writes data to path, asking first when the file exists.
func WriteOutputFile(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		ok, err := Confirm(fmt.Sprintf("Overwrite %s?", path), false)
		if err != nil {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			return false, nil
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is read from the working directory when no explicit
// config path is given.
const DefaultSettingsFile = "metacols.yaml"

// Settings represents the application configuration
type Settings struct {
	Transport TransportSettings `yaml:"transport"`
	Server    ServerSettings    `yaml:"server"`
	Editor    EditorSettings    `yaml:"editor"`
}

// TransportSettings controls the editor's websocket connection
type TransportSettings struct {
	URL              string `yaml:"url"`
	Handshake        string `yaml:"handshake"`
	ReconnectDelayMS int    `yaml:"reconnect_delay_ms"`
}

// ReconnectDelay returns the fixed wait before a reconnect attempt.
func (t TransportSettings) ReconnectDelay() time.Duration {
	return time.Duration(t.ReconnectDelayMS) * time.Millisecond
}

// ServerSettings controls the record server
type ServerSettings struct {
	Port         int      `yaml:"port"`
	Fields       []string `yaml:"fields,omitempty"` // served by default; empty serves every field
	IgnoreFields []string `yaml:"ignore_fields"`    // edits to these fields discard the row
}

// EditFields returns the fields to serve: the configured ones, then
// extra, then id, without duplicates. It returns nil, meaning every
// field, when all is set or nothing was configured or requested.
func (s ServerSettings) EditFields(extra []string, all bool) []string {
	if all || (len(s.Fields) == 0 && len(extra) == 0) {
		return nil
	}

	var fields []string
	seen := make(map[string]bool)
	for _, group := range [][]string{s.Fields, extra, {IDField}} {
		for _, f := range group {
			if f == "" || seen[f] {
				continue
			}
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields
}

// EditorSettings controls which views are built and how they look
type EditorSettings struct {
	Diff           bool              `yaml:"diff"` // false selects the lighter profile without diff pairs
	HiddenFields   []string          `yaml:"hidden_fields"`
	ReadOnlyFields []string          `yaml:"read_only_fields"`
	LabelColors    map[string]string `yaml:"label_colors,omitempty"`
	Profile        EditorProfile     `yaml:"profile"`
}

// EditorProfile is the static appearance configuration shared by every view
type EditorProfile struct {
	AutoDetectHighContrast bool   `yaml:"auto_detect_high_contrast"`
	TabSize                int    `yaml:"tab_size"`
	InsertSpaces           bool   `yaml:"insert_spaces"`
	Theme                  Theme  `yaml:"theme"`
	WordWrap               string `yaml:"word_wrap"` // only "off" is supported
	LineNumbers            bool   `yaml:"line_numbers"`
	LineNumbersMinChars    int    `yaml:"line_numbers_min_chars"`
	CursorSurroundingLines int    `yaml:"cursor_surrounding_lines"`
	ScrollBeyondLastLine   bool   `yaml:"scroll_beyond_last_line"`
	RenderLineHighlight    bool   `yaml:"render_line_highlight"`
}

// Theme is a base theme override
type Theme struct {
	Name       string `yaml:"name"`
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Transport: TransportSettings{
			URL:              "ws://localhost:8889",
			Handshake:        "Socket connected",
			ReconnectDelayMS: 1000,
		},
		Server: ServerSettings{
			Port:         8889,
			IgnoreFields: []string{"path"},
		},
		Editor: EditorSettings{
			Diff:           true,
			HiddenFields:   []string{IDField},
			ReadOnlyFields: []string{IDField},
			Profile:        DefaultEditorProfile(),
		},
	}
}

// DefaultEditorProfile returns the fixed view configuration
func DefaultEditorProfile() EditorProfile {
	return EditorProfile{
		AutoDetectHighContrast: true,
		TabSize:                4,
		InsertSpaces:           true,
		Theme: Theme{
			Name:       "dark-theme",
			Background: "#333333",
			Foreground: "#ffffff",
		},
		WordWrap:               "off",
		LineNumbers:            true,
		LineNumbersMinChars:    2,
		CursorSurroundingLines: 3,
		ScrollBeyondLastLine:   true,
		RenderLineHighlight:    true,
	}
}

// LoadSettings reads settings from a YAML file on top of the defaults.
// A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}

	return settings, nil
}

// Validate checks values the rest of the program relies on
func (s *Settings) Validate() error {
	if s.Transport.URL == "" {
		return fmt.Errorf("transport.url must not be empty")
	}
	if s.Transport.ReconnectDelayMS <= 0 {
		return fmt.Errorf("transport.reconnect_delay_ms must be positive")
	}
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", s.Server.Port)
	}
	if s.Editor.Profile.TabSize <= 0 {
		return fmt.Errorf("editor.profile.tab_size must be positive")
	}
	if s.Editor.Profile.WordWrap != "off" {
		return fmt.Errorf("editor.profile.word_wrap %q is not supported", s.Editor.Profile.WordWrap)
	}
	return nil
}

// IsHidden reports whether a field is left out of the layout
func (e EditorSettings) IsHidden(field string) bool {
	return contains(e.HiddenFields, field)
}

// IsReadOnly reports whether a field's views refuse edits
func (e EditorSettings) IsReadOnly(field string) bool {
	return contains(e.ReadOnlyFields, field)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

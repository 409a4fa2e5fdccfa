package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// TestEnvironment is a temporary working directory for command tests
type TestEnvironment struct {
	t       *testing.T
	TempDir string
}

// NewTestEnvironment creates a temporary directory removed after the test
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	return &TestEnvironment{
		t:       t,
		TempDir: t.TempDir(),
	}
}

// Path returns name inside the environment
func (e *TestEnvironment) Path(name string) string {
	return filepath.Join(e.TempDir, name)
}

// WriteFile writes content to name and returns its path
func (e *TestEnvironment) WriteFile(name, content string) string {
	e.t.Helper()

	path := e.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// ReadFile returns the content of name
func (e *TestEnvironment) ReadFile(name string) string {
	e.t.Helper()

	data, err := os.ReadFile(e.Path(name))
	if err != nil {
		e.t.Fatalf("Failed to read %s: %v", name, err)
	}
	return string(data)
}

// Chdir switches into the environment until the test ends
func (e *TestEnvironment) Chdir() {
	e.t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		e.t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(e.TempDir); err != nil {
		e.t.Fatalf("Failed to change directory: %v", err)
	}
	e.t.Cleanup(func() { os.Chdir(wd) })
}

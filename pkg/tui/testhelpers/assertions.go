package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// AssertViewContains checks a rendered view for text, ignoring styling
func AssertViewContains(t *testing.T, view, expected string) {
	t.Helper()

	if !strings.Contains(ansi.Strip(view), expected) {
		t.Errorf("View does not contain expected text %q\nView:\n%s", expected, ansi.Strip(view))
	}
}

// AssertViewNotContains checks that a rendered view lacks text
func AssertViewNotContains(t *testing.T, view, unexpected string) {
	t.Helper()

	if strings.Contains(ansi.Strip(view), unexpected) {
		t.Errorf("View contains unexpected text %q\nView:\n%s", unexpected, ansi.Strip(view))
	}
}

// AssertMaxLineWidth checks that no rendered line is wider than width
func AssertMaxLineWidth(t *testing.T, view string, width int) {
	t.Helper()

	for i, line := range strings.Split(view, "\n") {
		if w := ansi.StringWidth(line); w > width {
			t.Errorf("line %d is %d cells wide, want at most %d", i, w, width)
		}
	}
}

// WaitForCondition polls condition until it holds or timeout passes
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timeout waiting for condition: %s", msg)
}

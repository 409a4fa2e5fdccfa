package models

import (
	"testing"
)

func TestLabelColor(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		configured map[string]string
		want       string
	}{
		{
			name:       "configured color wins",
			field:      "title",
			configured: map[string]string{"title": "#ffffff"},
			want:       "#ffffff",
		},
		{
			name:       "empty configured color falls back to palette",
			field:      "title",
			configured: map[string]string{"title": ""},
			want:       LabelColor("title", nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabelColor(tt.field, tt.configured); got != tt.want {
				t.Errorf("LabelColor(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestLabelColor_StableAndCaseInsensitive(t *testing.T) {
	first := LabelColor("Artist", nil)
	second := LabelColor("artist", nil)
	if first != second {
		t.Errorf("expected same color for case variants, got %q and %q", first, second)
	}

	found := false
	for _, c := range DefaultLabelPalette {
		if c == first {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("color %q is not part of the palette", first)
	}
}

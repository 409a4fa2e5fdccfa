package models

import (
	"hash/fnv"
	"strings"
)

// DefaultLabelPalette provides the colors used for column labels.
// These colors are chosen for good contrast on the dark theme background.
var DefaultLabelPalette = []string{
	"#e74c3c", // red
	"#3498db", // blue
	"#2ecc71", // green
	"#f39c12", // orange
	"#9b59b6", // purple
	"#1abc9c", // turquoise
	"#e67e22", // dark orange
	"#16a085", // dark turquoise
	"#f1c40f", // yellow
	"#27ae60", // nephritis
	"#2980b9", // belize hole
}

// LabelColor returns the color for a field label, using the configured
// color if there is one or deriving a stable color from the field name.
func LabelColor(field string, configured map[string]string) string {
	if c, ok := configured[field]; ok && c != "" {
		return c
	}

	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(field)))
	hash := h.Sum32()

	return DefaultLabelPalette[int(hash%uint32(len(DefaultLabelPalette)))]
}

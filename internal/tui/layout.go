package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitLine pads or cuts s (ANSI-aware) to exactly width cells.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := xansi.StringWidth(s)
	switch {
	case w > width && width == 1:
		return xansi.Cut(s, 0, 1)
	case w > width:
		return xansi.Cut(s, 0, width-1) + "…"
	case w < width:
		return s + strings.Repeat(" ", width-w)
	default:
		return s
	}
}

// normalizePane forces s to exactly width columns and height lines.
func normalizePane(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i := range lines {
		lines[i] = fitLine(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

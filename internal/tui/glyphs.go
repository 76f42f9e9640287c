package tui

import (
	"os"
	"strings"
	"sync"
)

// Some fonts render box-drawing and arrow glyphs poorly; an ASCII set is offered.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference reads ACTIVIDADES_TUI_GLYPHS, then the stored config value.
func applyGlyphPreference(stored string) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ACTIVIDADES_TUI_GLYPHS")))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(stored))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphSeverity(sevName string) string {
	ascii := glyphs() == glyphSetASCII
	switch sevName {
	case "success":
		if ascii {
			return "+"
		}
		return "✓"
	case "warn":
		return "!"
	case "error":
		if ascii {
			return "x"
		}
		return "✗"
	default:
		return "i"
	}
}

package tui

import (
	"os"
	"strconv"
	"strings"

	"actividades-cli/internal/controller"
	"actividades-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette helpers. Colours are adaptive so the TUI stays readable on light
// and dark terminals; faint styling is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      = ac("240", "243")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorSurfaceBg  = ac("255", "235")
	colorSurfaceFg  = ac("235", "252")
	colorControlBg  = ac("252", "237")
	colorInputBg    = ac("254", "234")
	colorAccent     = ac("27", "62")
	colorAccentFg   = ac("255", "235")
	colorBorder     = ac("250", "243")

	colorPending    = ac("136", "221")
	colorInProgress = ac("31", "81")
	colorFinalized  = ac("28", "114")

	colorInfo    = ac("27", "75")
	colorSuccess = ac("28", "114")
	colorWarn    = ac("130", "214")
	colorError   = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleTitleBar() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorAccentFg).Background(colorAccent)
}

func stateStyle(s model.State) lipgloss.Style {
	st := lipgloss.NewStyle()
	switch s {
	case model.StatePending:
		return st.Foreground(colorPending)
	case model.StateInProgress:
		return st.Foreground(colorInProgress)
	case model.StateFinalized:
		return st.Foreground(colorFinalized)
	default:
		return st
	}
}

func severityStyle(sev controller.Severity) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	switch sev {
	case controller.SeveritySuccess:
		return st.Foreground(colorSuccess)
	case controller.SeverityWarn:
		return st.Foreground(colorWarn)
	case controller.SeverityError:
		return st.Foreground(colorError)
	default:
		return st.Foreground(colorInfo)
	}
}

// applyColorProfilePreference honours NO_COLOR and otherwise trusts
// TERM/COLORTERM when they claim more than termenv detects.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// themePreference returns "light", "dark" or "" (auto) from
// ACTIVIDADES_TUI_THEME, falling back to the COLORFGBG heuristic.
func themePreference() string {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv("ACTIVIDADES_TUI_THEME"))); v {
	case "light", "dark":
		return v
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg < 7 {
				return "dark"
			}
			return "light"
		}
	}
	return ""
}

func applyThemePreference() {
	switch themePreference() {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}
}

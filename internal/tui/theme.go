package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The view must stay readable on light and dark backgrounds, so colors are
// adaptive and "faint" is only applied on dark backgrounds.

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
	colorMuted     = ac("240", "243")
	colorSurfaceFg = ac("235", "252")
	colorControlBg = ac("252", "235")
	colorAccent    = ac("27", "62")
	colorSelected  = ac("#e9e9e9", "#262626")

	colorCritical = ac("160", "203")
	colorAtRisk   = ac("130", "214")
	colorHealthy  = ac("28", "114")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	styleHeading  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleSelected = lipgloss.NewStyle().Background(colorSelected).Bold(true)
	styleTimer    = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(colorAccent)
	styleError    = lipgloss.NewStyle().Foreground(colorCritical)
	styleFrame    = lipgloss.NewStyle().Padding(1, 2)
)

func tierStyle(tier string) lipgloss.Style {
	switch tier {
	case "critical":
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case "high":
		return lipgloss.NewStyle().Foreground(colorAtRisk)
	case "medium":
		return lipgloss.NewStyle().Foreground(colorSurfaceFg)
	default:
		return styleMuted()
	}
}

func healthStyle(status string) lipgloss.Style {
	switch status {
	case "critical":
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case "at_risk":
		return lipgloss.NewStyle().Foreground(colorAtRisk)
	default:
		return lipgloss.NewStyle().Foreground(colorHealthy)
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile honors CLICOLOR, which can disable colors in a TUI;
// here only NO_COLOR is honored and TERM/COLORTERM may upgrade the detected profile.
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

// themePreference reports whether a dark background was requested or detected.
//
// Priority:
// 1) FOCUS_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg", bg < 7 is dark)
func themePreference() (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FOCUS_TUI_THEME"))) {
	case "light":
		return false, true
	case "dark":
		return true, true
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return bg < 7, true
		}
	}
	return false, false
}

func applyThemePreference() {
	if dark, ok := themePreference(); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}

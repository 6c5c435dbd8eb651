package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"tagsheet/internal/grid"
	"tagsheet/internal/store"
)

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can disable colors in a
// TUI by accident. Only NO_COLOR is honored; otherwise the terminal's capabilities win.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector found.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// prefs are the resolved appearance settings for one TUI session.
type prefs struct {
	theme     string // light, dark or auto
	ascii     bool
	rowHeight int
	rounded   bool
}

// resolvePrefs merges the config file with the TAGSHEET_THEME and TAGSHEET_GLYPHS overrides.
func resolvePrefs(cfg *store.GlobalConfig) prefs {
	p := prefs{theme: "auto", rowHeight: 1}
	if cfg != nil && cfg.TUI != nil {
		if v := normTheme(cfg.TUI.Theme); v != "" {
			p.theme = v
		}
		p.ascii = strings.EqualFold(strings.TrimSpace(cfg.TUI.Glyphs), "ascii")
		if cfg.TUI.RowHeight > 0 {
			p.rowHeight = cfg.TUI.RowHeight
		}
		p.rounded = cfg.TUI.RoundedBubbles
	}
	if v := normTheme(os.Getenv("TAGSHEET_THEME")); v != "" {
		p.theme = v
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TAGSHEET_GLYPHS"))) {
	case "ascii":
		p.ascii = true
	case "unicode", "utf8":
		p.ascii = false
	}
	return p
}

func normTheme(s string) string {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "light", "dark", "auto":
		return v
	default:
		return ""
	}
}

// gridTheme builds the grid palette. "auto" follows Lip Gloss background detection,
// nudged by the COLORFGBG heuristic when the terminal sets it.
func (p prefs) gridTheme() grid.Theme {
	var t grid.Theme
	switch p.theme {
	case "light":
		t = grid.LightTheme()
	case "dark":
		t = grid.DarkTheme()
	default:
		applyBackgroundHeuristic()
		t = grid.AdaptiveTheme()
	}
	t.RoundedBubbles = p.rounded
	if p.ascii {
		t = t.WithASCIIGlyphs()
	}
	return t
}

// markdownStyle is the glamour standard style matching the grid palette.
func (p prefs) markdownStyle() string {
	switch p.theme {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// applyBackgroundHeuristic reads COLORFGBG ("fg;bg", last segment is bg) to avoid
// terminal queries that can block.
func applyBackgroundHeuristic() {
	v := strings.TrimSpace(os.Getenv("COLORFGBG"))
	if v == "" {
		return
	}
	parts := strings.Split(v, ";")
	if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
		// Common xterm palette: 0-6 dark colors, 7-15 light colors.
		lipgloss.SetHasDarkBackground(bg < 7)
	}
}

package tagcell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"tagsheet/internal/grid"
)

const (
	darkText  = lipgloss.Color("#000000")
	lightText = lipgloss.Color("#ffffff")
)

// luminance is the relative luminance (0..1) of a hex color.
func luminance(hex string) (float64, bool) {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return 0, false
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b, true
}

// bubbleColors returns the fill and text colors of a bubble.
func bubbleColors(e Entry, highlighted bool, t grid.Theme) (fill, text lipgloss.TerminalColor) {
	if e.Color == "" {
		if highlighted {
			return t.BgBubbleSelected, t.TextBubble
		}
		return t.BgBubble, t.TextBubble
	}
	fill = lipgloss.Color(e.Color)
	l, ok := luminance(e.Color)
	if !ok {
		// ANSI palette indices have no known luminance.
		return fill, t.TextBubble
	}
	if l > 0.5 {
		return fill, darkText
	}
	return fill, lightText
}

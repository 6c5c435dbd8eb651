package grid

import "github.com/charmbracelet/lipgloss"

// Theme is the host-supplied record cell renderers read colors and spacing from.
// Renderers must treat it as read-only.
type Theme struct {
	BgCell         lipgloss.TerminalColor
	BgCellSelected lipgloss.TerminalColor
	BgHeader       lipgloss.TerminalColor
	TextHeader     lipgloss.TerminalColor

	TextDark  lipgloss.TerminalColor
	TextLight lipgloss.TerminalColor

	BgBubble         lipgloss.TerminalColor
	BgBubbleSelected lipgloss.TerminalColor
	TextBubble       lipgloss.TerminalColor

	AccentColor lipgloss.TerminalColor
	AccentFg    lipgloss.TerminalColor
	AccentLight lipgloss.TerminalColor
	BorderColor lipgloss.TerminalColor

	CellHorizontalPadding int
	CellVerticalPadding   int

	// RoundedBubbles draws half-circle caps on tag bubbles. Needs a font with powerline glyphs.
	RoundedBubbles bool

	// Glyphs used by the grid chrome and editors.
	Separator   string
	RemoveGlyph string
}

// LightTheme mirrors the green spreadsheet palette used by the product grid.
func LightTheme() Theme {
	return Theme{
		BgCell:                lipgloss.Color("#FFFFFF"),
		BgCellSelected:        lipgloss.Color("#E5F3EC"),
		BgHeader:              lipgloss.Color("#F5F5F5"),
		TextHeader:            lipgloss.Color("#2A2A2A"),
		TextDark:              lipgloss.Color("#2A2A2A"),
		TextLight:             lipgloss.Color("#9B9B9B"),
		BgBubble:              lipgloss.Color("#217346"),
		BgBubbleSelected:      lipgloss.Color("#1A5C38"),
		TextBubble:            lipgloss.Color("#FFFFFF"),
		AccentColor:           lipgloss.Color("#217346"),
		AccentFg:              lipgloss.Color("#FFFFFF"),
		AccentLight:           lipgloss.Color("#E5F3EC"),
		BorderColor:           lipgloss.Color("#E0E0E0"),
		CellHorizontalPadding: 1,
		CellVerticalPadding:   0,
		Separator:             "│",
		RemoveGlyph:           "×",
	}
}

func DarkTheme() Theme {
	return Theme{
		BgCell:                lipgloss.Color("#121212"),
		BgCellSelected:        lipgloss.Color("#2E7D32"),
		BgHeader:              lipgloss.Color("#1E1E1E"),
		TextHeader:            lipgloss.Color("#E0E0E0"),
		TextDark:              lipgloss.Color("#E0E0E0"),
		TextLight:             lipgloss.Color("#707070"),
		BgBubble:              lipgloss.Color("#4CAF50"),
		BgBubbleSelected:      lipgloss.Color("#3D8B40"),
		TextBubble:            lipgloss.Color("#FFFFFF"),
		AccentColor:           lipgloss.Color("#4CAF50"),
		AccentFg:              lipgloss.Color("#FFFFFF"),
		AccentLight:           lipgloss.Color("#2E7D32"),
		BorderColor:           lipgloss.Color("#333333"),
		CellHorizontalPadding: 1,
		CellVerticalPadding:   0,
		Separator:             "│",
		RemoveGlyph:           "×",
	}
}

// AdaptiveTheme picks the light or dark variant per color at render time,
// following Lip Gloss background detection.
func AdaptiveTheme() Theme {
	l, d := LightTheme(), DarkTheme()
	pick := func(a, b lipgloss.TerminalColor) lipgloss.TerminalColor {
		lc, lok := a.(lipgloss.Color)
		dc, dok := b.(lipgloss.Color)
		if !lok || !dok {
			return a
		}
		return lipgloss.AdaptiveColor{Light: string(lc), Dark: string(dc)}
	}
	t := l
	t.BgCell = pick(l.BgCell, d.BgCell)
	t.BgCellSelected = pick(l.BgCellSelected, d.BgCellSelected)
	t.BgHeader = pick(l.BgHeader, d.BgHeader)
	t.TextHeader = pick(l.TextHeader, d.TextHeader)
	t.TextDark = pick(l.TextDark, d.TextDark)
	t.TextLight = pick(l.TextLight, d.TextLight)
	t.BgBubble = pick(l.BgBubble, d.BgBubble)
	t.BgBubbleSelected = pick(l.BgBubbleSelected, d.BgBubbleSelected)
	t.TextBubble = pick(l.TextBubble, d.TextBubble)
	t.AccentColor = pick(l.AccentColor, d.AccentColor)
	t.AccentFg = pick(l.AccentFg, d.AccentFg)
	t.AccentLight = pick(l.AccentLight, d.AccentLight)
	t.BorderColor = pick(l.BorderColor, d.BorderColor)
	return t
}

// WithASCIIGlyphs swaps box-drawing and symbol glyphs for plain ASCII.
func (t Theme) WithASCIIGlyphs() Theme {
	t.Separator = "|"
	t.RemoveGlyph = "x"
	t.RoundedBubbles = false
	return t
}

// CellBackground is the fill a renderer should assume behind its content.
func (t Theme) CellBackground(highlighted bool) lipgloss.TerminalColor {
	if highlighted {
		return t.BgCellSelected
	}
	return t.BgCell
}

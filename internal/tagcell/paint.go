package tagcell

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"tagsheet/internal/grid"
)

// Bubble geometry in terminal cells. BubblePadding is both the horizontal
// padding inside a bubble and the vertical gap between bubble rows.
const (
	BubbleHeight  = 1
	BubblePadding = 1
	BubbleMargin  = 1
)

const (
	capLeft  = ""
	capRight = ""
)

type placedBubble struct {
	entry Entry
	x, y  int
	// w is the full bubble width; visible is how much of it fits the area.
	w, visible int
}

func bubbleWidth(label string) int {
	return xansi.StringWidth(label) + 2*BubblePadding
}

// layoutBubbles places entries left to right inside area, wrapping onto as
// many rows as fit. Bubbles that overflow the last row are dropped.
func layoutBubbles(entries []Entry, area grid.Rect) []placedBubble {
	rows := max(1, area.H/(BubbleHeight+BubblePadding))

	x := area.X
	row := 1
	var y int
	if rows == 1 {
		y = area.Y + (area.H-BubbleHeight)/2
	} else {
		y = area.Y + (area.H-rows*BubbleHeight-(rows-1)*BubblePadding)/2
	}

	out := make([]placedBubble, 0, len(entries))
	for _, e := range entries {
		w := bubbleWidth(e.Label)
		if x != area.X && x+w > area.Right() {
			if row >= rows {
				break
			}
			row++
			y += BubbleHeight + BubblePadding
			x = area.X
		}
		visible := min(w, area.Right()-x)
		if visible <= 0 {
			break
		}
		out = append(out, placedBubble{entry: e, x: x, y: y, w: w, visible: visible})
		x += w + BubbleMargin
	}
	return out
}

// Draw paints the bubbles of c into args.Rect. It always reports the cell as handled.
func (Renderer) Draw(args grid.DrawArgs, c grid.Cell) bool {
	d, ok := FromCell(c)
	if !ok || d.Values == nil || args.Canvas == nil {
		return true
	}
	t := args.Theme
	area := args.Rect.Inset(t.CellHorizontalPadding, t.CellVerticalPadding)
	entries := Resolve(d.Values, NormalizeOptions(d.Options), false)
	bg := t.CellBackground(args.Highlighted)

	for _, b := range layoutBubbles(entries, area) {
		fill, text := bubbleColors(b.entry, args.Highlighted, t)
		label := strings.Repeat(" ", BubblePadding) + b.entry.Label + strings.Repeat(" ", BubblePadding)
		if b.visible < b.w {
			label = xansi.Truncate(label, b.visible, "")
		}
		args.Canvas.SetString(b.x, b.y, label, grid.CellStyle{Fg: text, Bg: fill}, args.Rect)
		if t.RoundedBubbles && b.visible == b.w {
			capStyle := grid.CellStyle{Fg: fill, Bg: bg}
			args.Canvas.SetString(b.x, b.y, capLeft, capStyle, args.Rect)
			args.Canvas.SetString(b.x+b.w-1, b.y, capRight, capStyle, args.Rect)
		}
	}
	return true
}

// Measure is the width needed to show every bubble of c on one line.
func (Renderer) Measure(args grid.MeasureArgs, c grid.Cell) int {
	base := 2 * args.Theme.CellHorizontalPadding
	d, ok := FromCell(c)
	if !ok || len(d.Values) == 0 {
		return base
	}
	sum := 0
	for _, e := range Resolve(d.Values, NormalizeOptions(d.Options), d.AllowDuplicates) {
		sum += bubbleWidth(e.Label) + BubbleMargin
	}
	// No margin after the last bubble.
	return sum - BubbleMargin + base
}

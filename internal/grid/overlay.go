package grid

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// placeOverlay draws fg on top of bg with its top-left corner at (x, y).
// Lines of fg that fall outside bg are dropped; bg keeps its styling around fg.
func placeOverlay(bg, fg string, x, y int) string {
	if fg == "" {
		return bg
	}
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	x = max(x, 0)
	y = max(y, 0)

	for i, fl := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		line := bgLines[row]
		lineW := xansi.StringWidth(line)
		fw := xansi.StringWidth(fl)

		left := xansi.Cut(line, 0, x)
		if lw := xansi.StringWidth(left); lw < x {
			left += strings.Repeat(" ", x-lw)
		}
		right := ""
		if x+fw < lineW {
			right = xansi.Cut(line, x+fw, lineW)
		}
		// Terminate styling so fg colors do not bleed into the rest of the row.
		bgLines[row] = left + "\x1b[0m" + fl + "\x1b[0m" + right
	}
	return strings.Join(bgLines, "\n")
}

// overlayOrigin keeps a w x h overlay anchored at mount inside screen,
// shifting it up or left when it would run off the bottom or right edge.
func overlayOrigin(mount Rect, w, h int, screen Rect) (int, int) {
	x, y := mount.X, mount.Y
	if x+w > screen.Right() {
		x = screen.Right() - w
	}
	if y+h > screen.Bottom() {
		y = screen.Bottom() - h
	}
	return max(x, screen.X), max(y, screen.Y)
}

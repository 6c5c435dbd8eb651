package grid

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Rect is a rectangle in terminal cells.
type Rect struct {
	X, Y int
	W, H int
}

func (r Rect) Right() int { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Inset shrinks r by dx columns on the left and right and dy rows on the top and bottom.
func (r Rect) Inset(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlap of r and o (possibly empty).
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// CellStyle is the style of one canvas cell.
type CellStyle struct {
	Fg   lipgloss.TerminalColor
	Bg   lipgloss.TerminalColor
	Bold bool
}

type canvasCell struct {
	ch    string
	style CellStyle
	// cont marks the trailing half of a double-width glyph.
	cont bool
}

// Canvas is a fixed-size character buffer that cell renderers paint into.
// The grid renders it to a string once per frame.
type Canvas struct {
	w, h  int
	cells []canvasCell
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{w: w, h: h, cells: make([]canvasCell, w*h)}
	for i := range c.cells {
		c.cells[i].ch = " "
	}
	return c
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) Bounds() Rect { return Rect{W: c.w, H: c.h} }

func (c *Canvas) at(x, y int) *canvasCell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return nil
	}
	return &c.cells[y*c.w+x]
}

// Fill paints r with blanks in bg.
func (c *Canvas) Fill(r Rect, bg lipgloss.TerminalColor) {
	r = r.Intersect(c.Bounds())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			cell := c.at(x, y)
			cell.ch = " "
			cell.cont = false
			cell.style = CellStyle{Bg: bg}
		}
	}
}

// SetString writes s starting at (x, y), never touching anything outside clip.
// It returns the number of columns written.
func (c *Canvas) SetString(x, y int, s string, st CellStyle, clip Rect) int {
	clip = clip.Intersect(c.Bounds())
	if y < clip.Y || y >= clip.Bottom() {
		return 0
	}
	written := 0
	col := x
	for _, r := range s {
		ch := string(r)
		w := xansi.StringWidth(ch)
		if w == 0 {
			continue
		}
		if col+w > clip.Right() {
			break
		}
		if col >= clip.X {
			cell := c.at(col, y)
			cell.ch = ch
			cell.cont = false
			cell.style = st
			for i := 1; i < w; i++ {
				if next := c.at(col+i, y); next != nil {
					next.ch = ""
					next.cont = true
					next.style = st
				}
			}
			written += w
		}
		col += w
	}
	return written
}

// Text returns the unstyled content of row y (used by tests).
func (c *Canvas) Text(y int) string {
	if y < 0 || y >= c.h {
		return ""
	}
	var b strings.Builder
	for x := 0; x < c.w; x++ {
		cell := c.at(x, y)
		if cell.cont {
			continue
		}
		b.WriteString(cell.ch)
	}
	return b.String()
}

// StyleAt reports the style painted at (x, y).
func (c *Canvas) StyleAt(x, y int) (CellStyle, bool) {
	cell := c.at(x, y)
	if cell == nil {
		return CellStyle{}, false
	}
	return cell.style, true
}

// Render converts the buffer into a styled string, one line per row.
// Runs of equally-styled cells are rendered together.
func (c *Canvas) Render() string {
	lines := make([]string, 0, c.h)
	for y := 0; y < c.h; y++ {
		var line strings.Builder
		var run strings.Builder
		var runStyle CellStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			line.WriteString(styleFor(runStyle).Render(run.String()))
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cell := c.at(x, y)
			if cell.cont {
				continue
			}
			if run.Len() > 0 && cell.style != runStyle {
				flush()
			}
			runStyle = cell.style
			run.WriteString(cell.ch)
		}
		flush()
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func styleFor(st CellStyle) lipgloss.Style {
	s := lipgloss.NewStyle().Inline(true)
	if st.Fg != nil {
		s = s.Foreground(st.Fg)
	}
	if st.Bg != nil {
		s = s.Background(st.Bg)
	}
	if st.Bold {
		s = s.Bold(true)
	}
	return s
}

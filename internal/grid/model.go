package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
)

// DataSource owns the cells. SetCell receives a fresh Cell on every edit;
// implementations persist it and must not keep references into previous values.
type DataSource interface {
	Rows() int
	Cell(col, row int) Cell
	SetCell(col, row int, c Cell) error
}

type Column struct {
	Title    string
	Width    int
	MinWidth int
}

const (
	headerHeight  = 1
	statusHeight  = 1
	minColWidth   = 4
	maxAutoWidth  = 80
	defaultColumn = 16
)

// Model is a spreadsheet-style grid with pluggable cell renderers.
type Model struct {
	cols     []Column
	src      DataSource
	registry *Registry
	theme    Theme
	clip     Clipboard
	log      zerolog.Logger
	keys     KeyMap

	width, height int
	rowHeight     int

	selCol, selRow int
	rowOffset      int
	colOffset      int

	editor           Editor
	editCol, editRow int

	status string
}

type Option func(*Model)

func WithTheme(t Theme) Option { return func(m *Model) { m.theme = t } }
func WithRegistry(r *Registry) Option { return func(m *Model) { m.registry = r } }
func WithClipboard(c Clipboard) Option { return func(m *Model) { m.clip = c } }
func WithLogger(l zerolog.Logger) Option { return func(m *Model) { m.log = l } }
func WithKeyMap(k KeyMap) Option { return func(m *Model) { m.keys = k } }
func WithSize(w, h int) Option { return func(m *Model) { m.width, m.height = w, h } }
func WithRowHeight(h int) Option {
	return func(m *Model) {
		if h > 0 {
			m.rowHeight = h
		}
	}
}

func New(src DataSource, cols []Column, opts ...Option) Model {
	m := Model{
		cols:      append([]Column(nil), cols...),
		src:       src,
		registry:  NewRegistry(),
		theme:     AdaptiveTheme(),
		clip:      SystemClipboard{},
		log:       zerolog.Nop(),
		keys:      DefaultKeyMap(),
		width:     80,
		height:    24,
		rowHeight: 1,
	}
	for i := range m.cols {
		if m.cols[i].Width <= 0 {
			m.cols[i].Width = defaultColumn
		}
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Selection() (col, row int) { return m.selCol, m.selRow }

func (m Model) Editing() bool { return m.editor != nil }

func (m Model) Status() string { return m.status }

func (m Model) Columns() []Column { return append([]Column(nil), m.cols...) }

// Select moves the selection, clamped to the grid.
func (m *Model) Select(col, row int) {
	m.selCol = clamp(col, 0, len(m.cols)-1)
	m.selRow = clamp(row, 0, m.src.Rows()-1)
	m.scrollToSelection()
}

func (m *Model) SetSize(w, h int) {
	m.width, m.height = w, h
	m.scrollToSelection()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	}

	if m.editor != nil {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		written := m.applyOutcome()
		return m, tea.Batch(cmd, written)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		return m.updateKeys(km)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Paste {
		return m, m.paste(string(msg.Runes))
	}
	rows := m.src.Rows()
	page := max(1, m.visibleRows()-1)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.Select(m.selCol, m.selRow-1)
	case key.Matches(msg, m.keys.Down):
		m.Select(m.selCol, m.selRow+1)
	case key.Matches(msg, m.keys.Left):
		m.Select(m.selCol-1, m.selRow)
	case key.Matches(msg, m.keys.Right):
		m.Select(m.selCol+1, m.selRow)
	case key.Matches(msg, m.keys.PageUp):
		m.Select(m.selCol, m.selRow-page)
	case key.Matches(msg, m.keys.PageDown):
		m.Select(m.selCol, m.selRow+page)
	case key.Matches(msg, m.keys.Home):
		m.Select(m.selCol, 0)
	case key.Matches(msg, m.keys.End):
		m.Select(m.selCol, rows-1)
	case key.Matches(msg, m.keys.Edit):
		return m, m.openEditor("")
	case key.Matches(msg, m.keys.Delete):
		return m, m.clearSelected()
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	case key.Matches(msg, m.keys.Paste):
		text, err := m.clip.ReadText()
		if err != nil {
			m.log.Warn().Err(err).Msg("clipboard read failed")
			return m, nil
		}
		return m, m.paste(text)
	case key.Matches(msg, m.keys.AutoSize):
		m.AutoSizeColumn(m.selCol)
	default:
		// Typing a printable character starts editing with that text.
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			return m, m.openEditor(string(msg.Runes))
		}
	}
	return m, nil
}

func (m *Model) valid(col, row int) bool {
	return col >= 0 && col < len(m.cols) && row >= 0 && row < m.src.Rows()
}

func (m *Model) write(col, row int, c Cell) tea.Cmd {
	if !m.valid(col, row) {
		return nil
	}
	if err := m.src.SetCell(col, row, c); err != nil {
		m.log.Error().Err(err).Int("col", col).Int("row", row).Msg("cell write failed")
		m.status = "write failed: " + err.Error()
		return nil
	}
	m.log.Debug().Int("col", col).Int("row", row).Str("kind", c.Kind.String()).Msg("cell written")
	return func() tea.Msg { return CellEditedMsg{Col: col, Row: row, Cell: c} }
}

func (m *Model) openEditor(initial string) tea.Cmd {
	if !m.valid(m.selCol, m.selRow) {
		return nil
	}
	c := m.src.Cell(m.selCol, m.selRow)
	mount, ok := m.cellRect(m.selCol, m.selRow)
	if !ok {
		return nil
	}
	ctx := EditorContext{
		Cell:         c,
		Col:          m.selCol,
		Row:          m.selRow,
		Mount:        mount,
		Screen:       Rect{W: m.width, H: m.height - statusHeight},
		Theme:        m.theme,
		InitialInput: initial,
	}
	switch c.Kind {
	case KindCustom:
		r, ok := m.registry.Find(c)
		if !ok {
			return nil
		}
		spec := r.ProvideEditor(c)
		if spec.New == nil {
			return nil
		}
		if !spec.DisablePadding {
			ctx.Mount = mount.Inset(m.theme.CellHorizontalPadding, m.theme.CellVerticalPadding)
		}
		m.editor = spec.New(ctx)
	case KindText, KindNumber:
		if c.Readonly {
			return nil
		}
		m.editor = newTextEditor(ctx)
	}
	if m.editor == nil {
		return nil
	}
	m.editCol, m.editRow = m.selCol, m.selRow
	m.status = ""
	return m.editor.Init()
}

// applyOutcome writes and closes as the open editor decided during its last Update.
func (m *Model) applyOutcome() tea.Cmd {
	if m.editor == nil {
		return nil
	}
	out := m.editor.Outcome()
	var cmd tea.Cmd
	if out.Write != nil {
		cmd = m.write(m.editCol, m.editRow, *out.Write)
	}
	if out.Close {
		m.closeEditor()
		m.Select(m.selCol+out.Move.DX, m.selRow+out.Move.DY)
	}
	return cmd
}

func (m *Model) closeEditor() {
	m.editor = nil
}

func (m *Model) clearSelected() tea.Cmd {
	if !m.valid(m.selCol, m.selRow) {
		return nil
	}
	c := m.src.Cell(m.selCol, m.selRow)
	if c.Readonly {
		return nil
	}
	switch c.Kind {
	case KindCustom:
		r, ok := m.registry.Find(c)
		if !ok {
			return nil
		}
		spec := r.ProvideEditor(c)
		if spec.DeletedValue == nil {
			return nil
		}
		return m.write(m.selCol, m.selRow, spec.DeletedValue(c))
	case KindNumber:
		// A cleared number is blank, not zero.
		cleared := TextCell("")
		cleared.Readonly = c.Readonly
		return m.write(m.selCol, m.selRow, cleared)
	default:
		return m.write(m.selCol, m.selRow, TextCell(""))
	}
}

// CopyText is the clipboard text for a cell.
func (m Model) CopyText(c Cell) string {
	if c.Kind == KindCustom {
		if r, ok := m.registry.Find(c); ok {
			if ct, ok := r.(CopyTexter); ok {
				return ct.CopyText(c)
			}
		}
		return c.CopyData
	}
	return c.DisplayText()
}

func (m *Model) copySelected() {
	if !m.valid(m.selCol, m.selRow) {
		return
	}
	text := m.CopyText(m.src.Cell(m.selCol, m.selRow))
	if err := m.clip.WriteText(text); err != nil {
		// Copy feedback simply doesn't update.
		m.log.Warn().Err(err).Msg("clipboard write failed")
		return
	}
	m.status = "copied"
}

func (m *Model) paste(text string) tea.Cmd {
	if !m.valid(m.selCol, m.selRow) {
		return nil
	}
	c := m.src.Cell(m.selCol, m.selRow)
	if c.Readonly {
		return nil
	}
	switch c.Kind {
	case KindCustom:
		r, ok := m.registry.Find(c)
		if !ok {
			return nil
		}
		next, ok := r.OnPaste(text, c)
		if !ok {
			m.status = "nothing to paste"
			return nil
		}
		m.status = "pasted"
		return m.write(m.selCol, m.selRow, next)
	case KindNumber:
		next, ok := ParseNumberCell(text)
		if !ok {
			m.status = "not a number"
			return nil
		}
		m.status = "pasted"
		return m.write(m.selCol, m.selRow, next)
	default:
		m.status = "pasted"
		return m.write(m.selCol, m.selRow, TextCell(strings.TrimRight(text, "\r\n")))
	}
}

// AutoSizeColumn fits col to the widest measured cell.
func (m *Model) AutoSizeColumn(col int) {
	if col < 0 || col >= len(m.cols) {
		return
	}
	w := xansi.StringWidth(m.cols[col].Title) + 2*m.theme.CellHorizontalPadding
	args := MeasureArgs{Theme: m.theme}
	for row := 0; row < m.src.Rows(); row++ {
		c := m.src.Cell(col, row)
		var cw int
		switch c.Kind {
		case KindCustom:
			if r, ok := m.registry.Find(c); ok {
				cw = r.Measure(args, c)
			} else {
				cw = xansi.StringWidth(c.CopyData) + 2*m.theme.CellHorizontalPadding
			}
		default:
			cw = xansi.StringWidth(c.DisplayText()) + 2*m.theme.CellHorizontalPadding
		}
		w = max(w, cw)
	}
	lo := max(minColWidth, m.cols[col].MinWidth)
	m.cols[col].Width = clamp(w, lo, maxAutoWidth)
	m.status = fmt.Sprintf("column %q width %d", m.cols[col].Title, m.cols[col].Width)
}

func (m Model) visibleRows() int {
	body := m.height - headerHeight - statusHeight
	return max(1, body/m.rowHeight)
}

func (m *Model) scrollToSelection() {
	vis := m.visibleRows()
	if m.selRow < m.rowOffset {
		m.rowOffset = m.selRow
	}
	if m.selRow >= m.rowOffset+vis {
		m.rowOffset = m.selRow - vis + 1
	}
	m.rowOffset = max(0, m.rowOffset)

	if m.selCol < m.colOffset {
		m.colOffset = m.selCol
	}
	for m.colOffset < m.selCol {
		if _, ok := m.cellRect(m.selCol, m.selRow); ok {
			break
		}
		m.colOffset++
	}
}

// cellRect returns the on-screen rectangle of (col, row), or false when it is scrolled out.
func (m Model) cellRect(col, row int) (Rect, bool) {
	if col < m.colOffset || col >= len(m.cols) {
		return Rect{}, false
	}
	if row < m.rowOffset || row >= m.rowOffset+m.visibleRows() {
		return Rect{}, false
	}
	sepW := xansi.StringWidth(m.theme.Separator)
	x := 0
	for c := m.colOffset; c < col; c++ {
		x += m.cols[c].Width + sepW
	}
	w := m.cols[col].Width
	if x >= m.width {
		return Rect{}, false
	}
	if x+w > m.width && col != m.colOffset {
		return Rect{}, false
	}
	y := headerHeight + (row-m.rowOffset)*m.rowHeight
	return Rect{X: x, Y: y, W: min(w, m.width-x), H: m.rowHeight}, true
}

func (m Model) View() string {
	bodyH := max(0, m.height-statusHeight)
	cv := NewCanvas(m.width, bodyH)
	cv.Fill(cv.Bounds(), m.theme.BgCell)

	header := Rect{W: m.width, H: headerHeight}
	cv.Fill(header, m.theme.BgHeader)

	lastRow := min(m.src.Rows(), m.rowOffset+m.visibleRows())
	for col := m.colOffset; col < len(m.cols); col++ {
		hr, ok := m.cellRect(col, m.rowOffset)
		if !ok {
			break
		}
		hr.Y, hr.H = 0, headerHeight
		title := xansi.Truncate(m.cols[col].Title, max(0, hr.W-2*m.theme.CellHorizontalPadding), "…")
		cv.SetString(hr.X+m.theme.CellHorizontalPadding, 0, title, CellStyle{Fg: m.theme.TextHeader, Bg: m.theme.BgHeader, Bold: true}, hr)
		m.drawSeparator(cv, hr.Right(), 0, bodyH)

		for row := m.rowOffset; row < lastRow; row++ {
			r, ok := m.cellRect(col, row)
			if !ok {
				continue
			}
			m.drawCell(cv, col, row, r)
		}
	}

	out := cv.Render()
	if m.editor != nil {
		if mount, ok := m.cellRect(m.editCol, m.editRow); ok {
			fg := m.editor.View()
			x, y := overlayOrigin(mount, lipgloss.Width(fg), lipgloss.Height(fg), Rect{W: m.width, H: bodyH})
			out = placeOverlay(out, fg, x, y)
		}
	}
	return out + "\n" + m.statusLine()
}

func (m Model) drawSeparator(cv *Canvas, x, y0, y1 int) {
	if m.theme.Separator == "" {
		return
	}
	st := CellStyle{Fg: m.theme.BorderColor, Bg: m.theme.BgCell}
	for y := y0; y < y1; y++ {
		if y < headerHeight {
			st.Bg = m.theme.BgHeader
		} else {
			st.Bg = m.theme.BgCell
		}
		cv.SetString(x, y, m.theme.Separator, st, cv.Bounds())
	}
}

func (m Model) drawCell(cv *Canvas, col, row int, r Rect) {
	selected := col == m.selCol && row == m.selRow
	cv.Fill(r, m.theme.CellBackground(selected))
	c := m.src.Cell(col, row)

	if c.Kind == KindCustom {
		if cr, ok := m.registry.Find(c); ok {
			args := DrawArgs{Canvas: cv, Theme: m.theme, Rect: r, Highlighted: selected, Col: col, Row: row}
			if cr.Draw(args, c) {
				return
			}
		}
	}
	inner := r.Inset(m.theme.CellHorizontalPadding, m.theme.CellVerticalPadding)
	text := xansi.Truncate(c.DisplayText(), max(0, inner.W), "…")
	fg := m.theme.TextDark
	if c.Readonly {
		fg = m.theme.TextLight
	}
	x := inner.X
	if c.Kind == KindNumber {
		x = inner.Right() - xansi.StringWidth(text)
	}
	y := inner.Y + max(0, inner.H-1)/2
	cv.SetString(x, y, text, CellStyle{Fg: fg, Bg: m.theme.CellBackground(selected)}, r)
}

func (m Model) statusLine() string {
	pos := fmt.Sprintf(" R%d C%d ", m.selRow+1, m.selCol+1)
	msg := m.status
	if m.editor != nil {
		msg = "editing"
	}
	line := pos + " " + msg
	return lipgloss.NewStyle().
		Width(m.width).
		MaxWidth(m.width).
		Foreground(m.theme.TextLight).
		Render(line)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

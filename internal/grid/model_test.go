package grid

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSource struct {
	cells  [][]Cell
	writes int
	err    error
}

func (s *memSource) Rows() int { return len(s.cells) }
func (s *memSource) Cell(col, row int) Cell { return s.cells[row][col] }
func (s *memSource) SetCell(col, row int, c Cell) error {
	if s.err != nil {
		return s.err
	}
	s.cells[row][col] = c
	s.writes++
	return nil
}

// stampData is a minimal custom payload: a word the renderer draws in brackets.
type stampData struct{ word string }

func (stampData) CustomKind() string { return "stamp" }

type stampRenderer struct{ opened *EditorContext }

func (r *stampRenderer) Kind() string { return "stamp" }

func (r *stampRenderer) IsMatch(c Cell) bool {
	_, ok := c.Custom.(stampData)
	return ok
}

func (r *stampRenderer) Draw(args DrawArgs, c Cell) bool {
	d := c.Custom.(stampData)
	args.Canvas.SetString(args.Rect.X, args.Rect.Y, "["+d.word+"]", CellStyle{}, args.Rect)
	return true
}

func (r *stampRenderer) Measure(args MeasureArgs, c Cell) int {
	return len(c.Custom.(stampData).word) + 2 + 2*args.Theme.CellHorizontalPadding
}

func (r *stampRenderer) ProvideEditor(Cell) EditorSpec {
	return EditorSpec{
		New: func(ctx EditorContext) Editor {
			r.opened = &ctx
			return &stampEditor{cell: ctx.Cell}
		},
		DeletedValue: func(c Cell) Cell {
			c.Custom = stampData{}
			c.CopyData = ""
			return c
		},
	}
}

func (r *stampRenderer) OnPaste(text string, c Cell) (Cell, bool) {
	if text == "" {
		return c, false
	}
	return stampCell(text), true
}

func stampCell(w string) Cell { return CustomCell(stampData{word: w}, w) }

// stampEditor replaces the word with whatever runes it receives.
type stampEditor struct {
	Session
	cell Cell
}

func (e *stampEditor) Init() tea.Cmd { return nil }

func (e *stampEditor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	switch km.Type {
	case tea.KeyRunes:
		e.cell = stampCell(string(km.Runes))
		e.Change(e.cell)
	case tea.KeyCtrlX:
		// Clear and close in one step.
		e.cell = stampCell("")
		e.Change(e.cell)
		e.Cancel()
	case tea.KeyEnter:
		e.Finish(nil, Move{DY: 1})
	case tea.KeyEscape:
		e.Cancel()
	}
	return e, nil
}

func (e *stampEditor) View() string { return "<editing>" }

func newTestGrid(t *testing.T) (Model, *memSource, *stampRenderer, *MemoryClipboard) {
	t.Helper()
	src := &memSource{cells: [][]Cell{
		{TextCell("apple"), NumberCell(1.5), stampCell("new")},
		{TextCell("pear"), NumberCell(2), stampCell("sale")},
		{TextCell("plum"), NumberCell(3), stampCell("")},
	}}
	r := &stampRenderer{}
	clip := &MemoryClipboard{}
	m := New(src, []Column{{Title: "Name", Width: 10}, {Title: "Price", Width: 8}, {Title: "Tags", Width: 12}},
		WithTheme(LightTheme()),
		WithRegistry(NewRegistry(r)),
		WithClipboard(clip),
		WithSize(60, 10),
	)
	return m, src, r, clip
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// feed applies msg and then every message its commands produce. Only used for
// steps that do not return cursor blink commands, which would block.
func feed(m Model, msg tea.Msg) (Model, []tea.Msg) {
	var seen []tea.Msg
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		var cmd tea.Cmd
		m, cmd = m.Update(next)
		if cmd == nil {
			continue
		}
		if out := cmd(); out != nil {
			seen = append(seen, out)
			queue = append(queue, out)
		}
	}
	return m, seen
}

func TestModel_Navigation(t *testing.T) {
	m, _, _, _ := newTestGrid(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	col, row := m.Selection()
	assert.Equal(t, 1, col)
	assert.Equal(t, 1, row)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	_, row = m.Selection()
	assert.Equal(t, 2, row)

	for i := 0; i < 5; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	col, _ = m.Selection()
	assert.Equal(t, 2, col, "selection clamps to the last column")
}

func TestModel_CustomEditorLifecycle(t *testing.T) {
	m, src, r, _ := newTestGrid(t)
	m.Select(2, 0)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Editing())
	require.NotNil(t, r.opened)
	assert.Equal(t, Rect{X: 21, Y: 1, W: 10, H: 1}, r.opened.Mount, "padding kept unless disabled")
	assert.Contains(t, m.View(), "<editing>")

	m, msgs := feed(m, runes("hot"))
	assert.Equal(t, "hot", src.cells[0][2].CopyData)
	require.NotEmpty(t, msgs)
	edited, ok := msgs[len(msgs)-1].(CellEditedMsg)
	require.True(t, ok)
	assert.Equal(t, 2, edited.Col)
	assert.Equal(t, 0, edited.Row)

	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Editing())
	col, row := m.Selection()
	assert.Equal(t, 2, col)
	assert.Equal(t, 1, row)
}

func TestModel_CancelLeavesCommittedValue(t *testing.T) {
	m, src, _, _ := newTestGrid(t)
	m.Select(2, 1)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = feed(m, runes("x"))
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, m.Editing())
	assert.Equal(t, "x", src.cells[1][2].CopyData)
	_, row := m.Selection()
	assert.Equal(t, 1, row)
}

func TestModel_EditorOutcomeAppliedBeforeCommandsRun(t *testing.T) {
	m, src, _, _ := newTestGrid(t)
	m.Select(2, 0)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Commands are dropped: the write must not depend on them running.
	m, _ = m.Update(runes("late"))
	assert.Equal(t, "late", src.cells[0][2].CopyData)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.False(t, m.Editing())
	assert.Equal(t, stampData{}, src.cells[0][2].Custom)
	require.NotNil(t, cmd)
	assert.IsType(t, CellEditedMsg{}, cmd())

	// A stray message after close goes to the grid, not a stale editor.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, m.Editing())
	assert.Equal(t, "", src.cells[0][2].CopyData)
}

func TestModel_TypingLettersStartsEditing(t *testing.T) {
	m, src, _, _ := newTestGrid(t)
	for _, r := range "gGhjklpyxe" {
		m, _ = m.Update(runes(string(r)))
		require.True(t, m.Editing(), "%q should start editing", r)
		col, row := m.Selection()
		assert.Equal(t, 0, col)
		assert.Equal(t, 0, row)
		assert.Equal(t, string(r), m.editor.(*textEditor).input.Value())
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
		require.False(t, m.Editing())
	}
	assert.Equal(t, 0, src.writes)
}

func TestModel_TextEditing(t *testing.T) {
	m, src, _, _ := newTestGrid(t)

	m, _ = m.Update(runes("Q"))
	require.True(t, m.Editing())
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.Editing())
	assert.Equal(t, "Q", src.cells[0][0].Text)
	col, _ := m.Selection()
	assert.Equal(t, 1, col)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	m, _ = m.Update(runes("abc"))
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.Editing(), "invalid number keeps the editor open")
	assert.Equal(t, 1.5, src.cells[0][1].Number)
}

func TestModel_DeleteUsesDeletedValue(t *testing.T) {
	m, src, _, _ := newTestGrid(t)
	m.Select(2, 1)
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, stampData{}, src.cells[1][2].Custom)
	assert.Equal(t, "", src.cells[1][2].CopyData)

	m.Select(1, 1)
	_, _ = feed(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, KindText, src.cells[1][1].Kind)
	assert.Equal(t, "", src.cells[1][1].DisplayText(), "cleared numbers are blank, not zero")
}

func TestModel_ReadonlyIgnoresEdits(t *testing.T) {
	m, src, _, _ := newTestGrid(t)
	src.cells[0][0].Readonly = true

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Editing())
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyDelete})
	_, _ = feed(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z"), Paste: true})
	assert.Equal(t, 0, src.writes)
}

func TestModel_CopyAndPaste(t *testing.T) {
	m, src, _, clip := newTestGrid(t)
	m.Select(2, 1)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "copied", m.Status())
	got, _ := clip.ReadText()
	assert.Equal(t, "sale", got)

	m.Select(2, 2)
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyCtrlV})
	assert.Equal(t, "sale", src.cells[2][2].CopyData)
	assert.Equal(t, "pasted", m.Status())

	m.Select(1, 0)
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("9.25"), Paste: true})
	assert.Equal(t, 9.25, src.cells[0][1].Number)

	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nine"), Paste: true})
	assert.Equal(t, "not a number", m.Status())
	assert.Equal(t, 9.25, src.cells[0][1].Number)
}

func TestModel_PasteNotApplicable(t *testing.T) {
	m, src, _, _ := newTestGrid(t)
	m.Select(2, 0)
	before := src.writes
	m, _ = feed(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(""), Paste: true})
	assert.Equal(t, before, src.writes)
	assert.Equal(t, "nothing to paste", m.Status())
}

func TestModel_CopyFailureIsSilent(t *testing.T) {
	m, _, _, clip := newTestGrid(t)
	clip.Err = errors.New("no clipboard")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "", m.Status())
}

func TestModel_WriteFailureSurfacesInStatus(t *testing.T) {
	m, src, _, _ := newTestGrid(t)
	src.err = errors.New("disk full")
	m, msgs := feed(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Empty(t, msgs)
	assert.True(t, strings.HasPrefix(m.Status(), "write failed"))
}

func TestModel_AutoSize(t *testing.T) {
	m, _, _, _ := newTestGrid(t)
	m.AutoSizeColumn(2)
	// "[sale]" measured as 4+2 plus padding on both sides.
	assert.Equal(t, 8, m.Columns()[2].Width)

	m.AutoSizeColumn(0)
	assert.Equal(t, 7, m.Columns()[0].Width)

	m.AutoSizeColumn(9)
}

func TestModel_View(t *testing.T) {
	m, _, _, _ := newTestGrid(t)
	out := m.View()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[1], "apple")
	assert.Contains(t, lines[1], "[new]")
	assert.Contains(t, lines[9], "R1 C1")
}

func TestModel_ScrollsToSelection(t *testing.T) {
	src := &memSource{}
	for i := 0; i < 50; i++ {
		src.cells = append(src.cells, []Cell{TextCell(strings.Repeat("r", i%5+1))})
	}
	m := New(src, []Column{{Title: "A"}}, WithTheme(LightTheme()), WithSize(30, 6), WithClipboard(&MemoryClipboard{}))
	m.Select(0, 40)
	_, ok := m.cellRect(0, 40)
	assert.True(t, ok)
	_, ok = m.cellRect(0, 0)
	assert.False(t, ok)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 60})
	_, ok = m.cellRect(0, 40)
	assert.True(t, ok)
}

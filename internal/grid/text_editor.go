package grid

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// textEditor is the built-in single-line editor for text and number cells.
type textEditor struct {
	Session

	cell  Cell
	input textinput.Model
	width int
	theme Theme
	bad   bool
}

func newTextEditor(ctx EditorContext) Editor {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 0
	v := ctx.Cell.DisplayText()
	if ctx.InitialInput != "" {
		v = ctx.InitialInput
	}
	in.SetValue(v)
	in.CursorEnd()
	w := max(ctx.Mount.W, 12)
	in.Width = w - 1
	in.Focus()
	return &textEditor{cell: ctx.Cell, input: in, width: w, theme: ctx.Theme}
}

func (e *textEditor) Init() tea.Cmd { return textinput.Blink }

func (e *textEditor) commit() (Cell, bool) {
	v := e.input.Value()
	if e.cell.Kind == KindNumber {
		c, ok := ParseNumberCell(v)
		if !ok {
			return Cell{}, false
		}
		c.Readonly = e.cell.Readonly
		return c, true
	}
	c := TextCell(v)
	c.Readonly = e.cell.Readonly
	return c, true
}

func (e *textEditor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			e.Cancel()
			return e, nil
		case "enter", "tab":
			c, ok := e.commit()
			if !ok {
				e.bad = true
				return e, nil
			}
			mv := Move{DY: 1}
			if km.String() == "tab" {
				mv = Move{DX: 1}
			}
			e.Finish(&c, mv)
			return e, nil
		}
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	e.bad = false
	return e, cmd
}

func (e *textEditor) View() string {
	border := e.theme.AccentColor
	if e.bad {
		border = lipgloss.Color("196")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Background(e.theme.BgCell).
		Foreground(e.theme.TextDark).
		Width(e.width).
		Render(e.input.View())
}

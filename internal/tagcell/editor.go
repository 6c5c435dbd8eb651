package tagcell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"tagsheet/internal/grid"
)

const (
	editorMinWidth = 30
	maxMenuRows    = 8
)

type menuEntry struct {
	option Option
	// create marks the "Create ..." entry; text is the value it adds.
	create bool
	text   string
}

// Editor is the overlay that edits one tag cell.
//
// It starts with the menu visible. Every change to the value list is staged
// on the embedded grid.Session as a new cell carrying prefix-free values; the
// grid writes it before the next message is handled.
type Editor struct {
	grid.Session

	cell     grid.Cell
	data     Data
	options  []Option
	readonly bool

	values   []string
	menuOpen bool
	input    textinput.Model
	cursor   int
	// focused is the chip left/right selected for removal, -1 for none.
	focused  int

	keys   EditorKeyMap
	theme  grid.Theme
	mount  grid.Rect
	screen grid.Rect
	width  int
}

// NewEditor opens an editor session for ctx.Cell.
func NewEditor(ctx grid.EditorContext) *Editor {
	d, _ := FromCell(ctx.Cell)
	e := &Editor{
		cell:     ctx.Cell,
		data:     d,
		options:  NormalizeOptions(d.Options),
		readonly: ctx.Cell.Readonly,
		values:   append([]string{}, d.Values...),
		menuOpen: !ctx.Cell.Readonly,
		focused:  -1,
		keys:     DefaultEditorKeyMap(),
		theme:    ctx.Theme,
		mount:    ctx.Mount,
		screen:   ctx.Screen,
		width:    max(ctx.Mount.W, editorMinWidth),
	}
	if e.screen.W > 0 {
		e.width = min(e.width, e.screen.W)
	}

	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 256
	switch {
	case e.readonly:
		in.Placeholder = ""
	case d.AllowCreation:
		in.Placeholder = "Add..."
	default:
		in.Placeholder = "Select..."
	}
	if !e.readonly {
		in.SetValue(ctx.InitialInput)
		in.CursorEnd()
		in.Focus()
	}
	e.input = in
	return e
}

func (e *Editor) Init() tea.Cmd {
	if e.readonly {
		return nil
	}
	return textinput.Blink
}

// Values is the current prefix-free selection.
func (e *Editor) Values() []string { return append([]string{}, e.values...) }

func (e *Editor) MenuOpen() bool { return e.menuOpen }

func (e *Editor) InputValue() string { return e.input.Value() }

// entries is the resolved selection; its keys are what the menu and selection operate on.
func (e *Editor) entries() []Entry {
	return Resolve(e.values, e.options, e.data.AllowDuplicates)
}

// menuDisabled hides the menu when free-text duplicates are the only way to add tags.
func (e *Editor) menuDisabled() bool {
	return e.data.AllowCreation && e.data.AllowDuplicates && len(e.options) == 0
}

func (e *Editor) menuEntries() []menuEntry {
	if e.readonly || e.menuDisabled() {
		return nil
	}
	selected := map[string]bool{}
	for _, en := range e.entries() {
		selected[en.Value] = true
	}
	candidates := make([]Option, 0, len(e.options))
	for _, o := range e.options {
		if !selected[o.Value] {
			candidates = append(candidates, o)
		}
	}

	query := strings.TrimSpace(e.input.Value())
	var out []menuEntry
	if query == "" {
		for _, o := range candidates {
			out = append(out, menuEntry{option: o})
		}
	} else {
		src := make([]string, len(candidates))
		for i, o := range candidates {
			src[i] = o.Label
			if o.Label != o.Value {
				src[i] += " " + o.Value
			}
		}
		for _, m := range fuzzy.Find(query, src) {
			out = append(out, menuEntry{option: candidates[m.Index]})
		}
	}
	if e.canCreate(query) {
		out = append(out, menuEntry{create: true, text: query})
	}
	return out
}

// canCreate reports whether query may be offered as a new tag.
func (e *Editor) canCreate(query string) bool {
	if !e.data.AllowCreation || query == "" {
		return false
	}
	q := strings.ToLower(query)
	for _, o := range e.options {
		if strings.ToLower(o.Label) == q || strings.ToLower(o.Value) == q {
			return false
		}
	}
	for _, v := range e.values {
		if strings.ToLower(v) == q {
			return false
		}
	}
	return true
}

// submit strips positional prefixes from keys, stores the result and stages it for the grid.
func (e *Editor) submit(keys []string) {
	e.values = StripPrefixes(keys, e.data.AllowDuplicates)
	e.cell = replaceData(e.cell, e.data.withValues(e.values))
	e.Change(e.cell)
}

func (e *Editor) pick(m menuEntry) {
	keys := entryKeys(e.entries())
	if m.create {
		keys = append(keys, m.text)
	} else {
		keys = append(keys, m.option.Value)
	}
	e.input.SetValue("")
	e.cursor = 0
	e.menuOpen = false
	e.focused = -1
	e.submit(keys)
}

func (e *Editor) pickFocused() {
	items := e.menuEntries()
	if !e.menuOpen || len(items) == 0 {
		return
	}
	e.pick(items[clampIndex(e.cursor, len(items))])
}

// remove drops the focused chip, or the last one when none is focused.
// Focus stays on the chip that took the removed one's place.
func (e *Editor) remove() {
	keys := entryKeys(e.entries())
	if len(keys) == 0 {
		return
	}
	i := len(keys) - 1
	if e.focused >= 0 && e.focused < len(keys) {
		i = e.focused
	}
	rest := append(append([]string{}, keys[:i]...), keys[i+1:]...)
	switch {
	case e.focused < 0:
	case len(rest) == 0:
		e.focused = -1
	default:
		e.focused = min(i, len(rest)-1)
	}
	e.submit(rest)
}

func (e *Editor) finish() {
	c := e.cell
	e.Finish(&c, grid.Move{DY: 1})
}

// FocusedChip is the index of the chip focused for removal, or -1.
func (e *Editor) FocusedChip() int { return e.focused }

func (e *Editor) Update(msg tea.Msg) (grid.Editor, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if e.readonly {
			return e, nil
		}
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		return e, cmd
	}

	if e.readonly {
		switch {
		case key.Matches(km, e.keys.Commit):
			e.finish()
		case key.Matches(km, e.keys.Close):
			e.Cancel()
		}
		return e, nil
	}

	text := e.input.Value()
	switch {
	case key.Matches(km, e.keys.Commit):
		switch {
		case text == "":
			e.finish()
		case e.data.AllowCreation && e.data.AllowDuplicates:
			e.input.SetValue("")
			e.menuOpen = false
			e.focused = -1
			e.submit(append(entryKeys(e.entries()), text))
		default:
			e.pickFocused()
		}
		return e, nil

	case key.Matches(km, e.keys.Close):
		switch {
		case e.menuOpen:
			e.menuOpen = false
		case e.focused >= 0:
			e.focused = -1
		default:
			e.Cancel()
		}
		return e, nil

	case key.Matches(km, e.keys.Down):
		if !e.menuOpen {
			e.menuOpen = true
			e.cursor = 0
			e.focused = -1
			return e, nil
		}
		if n := len(e.menuEntries()); n > 0 {
			e.cursor = (clampIndex(e.cursor, n) + 1) % n
		}
		return e, nil

	case key.Matches(km, e.keys.Up):
		if n := len(e.menuEntries()); e.menuOpen && n > 0 {
			e.cursor = (clampIndex(e.cursor, n) - 1 + n) % n
		}
		return e, nil

	case key.Matches(km, e.keys.ChipLeft) && text == "":
		if n := len(e.entries()); n > 0 {
			if e.focused < 0 {
				e.focused = n - 1
			} else {
				e.focused = max(e.focused-1, 0)
			}
		}
		return e, nil

	case key.Matches(km, e.keys.ChipRight) && text == "":
		if e.focused >= 0 {
			e.focused++
			if e.focused >= len(e.entries()) {
				e.focused = -1
			}
		}
		return e, nil

	case key.Matches(km, e.keys.Pick) && text == "":
		if !e.menuOpen {
			e.menuOpen = true
			return e, nil
		}
		e.pickFocused()
		return e, nil

	case key.Matches(km, e.keys.Remove) && text == "":
		e.remove()
		return e, nil

	case key.Matches(km, e.keys.ClearAll):
		e.focused = -1
		if len(e.values) > 0 {
			e.submit([]string{})
		}
		return e, nil
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(km)
	if e.input.Value() != text {
		e.cursor = 0
		e.focused = -1
		if e.input.Value() != "" {
			e.menuOpen = true
		}
	}
	return e, cmd
}

func (e *Editor) View() string {
	t := e.theme
	bodyW := max(e.width-2, 1)

	chips := make([]string, 0, len(e.values))
	for i, en := range e.entries() {
		focused := i == e.focused
		fill, fg := bubbleColors(en, focused, t)
		label := " " + en.Label
		if !e.readonly {
			label += " " + t.RemoveGlyph
		}
		label += " "
		chips = append(chips, lipgloss.NewStyle().Background(fill).Foreground(fg).Underline(focused).Bold(focused).Render(label))
	}
	lines := wrapChips(chips, bodyW)

	if !e.readonly {
		e.input.Width = max(bodyW-2, 1)
		lines = append(lines, e.input.View())
	}
	control := strings.Join(lines, "\n")
	if control == "" {
		control = " "
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.AccentColor).
		Width(bodyW)
	parts := []string{box.Render(control)}

	if menu := e.renderMenu(bodyW); menu != "" {
		parts = append(parts, menu)
	}
	if !e.readonly {
		help := "enter: done  space: pick  ←/→: tag  bksp: remove  ctrl+x: clear  esc: close"
		parts = append(parts, lipgloss.NewStyle().Foreground(t.TextLight).Render(xansi.Truncate(help, e.width, "…")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (e *Editor) renderMenu(bodyW int) string {
	if !e.menuOpen || e.readonly || e.menuDisabled() {
		return ""
	}
	t := e.theme
	items := e.menuEntries()
	base := lipgloss.NewStyle().Width(bodyW).Foreground(t.TextDark)
	focused := base.Background(t.AccentLight).Bold(true)

	var rows []string
	if len(items) == 0 {
		msg := "No options"
		if e.data.AllowCreation && e.data.AllowDuplicates && e.input.Value() != "" {
			msg = fmt.Sprintf("Create %q", e.input.Value())
		}
		rows = append(rows, base.Foreground(t.TextLight).Render(msg))
	} else {
		cur := clampIndex(e.cursor, len(items))
		start := 0
		if cur >= maxMenuRows {
			start = cur - maxMenuRows + 1
		}
		end := min(len(items), start+maxMenuRows)
		for i := start; i < end; i++ {
			it := items[i]
			label := it.option.Label
			if it.create {
				label = fmt.Sprintf("Create %q", it.text)
			}
			label = " " + xansi.Truncate(label, max(bodyW-2, 1), "…")
			if i == cur {
				rows = append(rows, focused.Render(label))
			} else {
				rows = append(rows, base.Render(label))
			}
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.BorderColor).
		Render(strings.Join(rows, "\n"))
}

// wrapChips lays chips out in lines no wider than w.
func wrapChips(chips []string, w int) []string {
	var lines []string
	var cur strings.Builder
	curW := 0
	for _, c := range chips {
		cw := lipgloss.Width(c)
		if curW > 0 && curW+1+cw > w {
			lines = append(lines, cur.String())
			cur.Reset()
			curW = 0
		}
		if curW > 0 {
			cur.WriteString(" ")
			curW++
		}
		cur.WriteString(c)
		curW += cw
	}
	if curW > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

package tagcell

import "github.com/charmbracelet/bubbles/key"

// EditorKeyMap holds the editor overlay bindings.
type EditorKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Pick   key.Binding
	Commit key.Binding

	// ChipLeft and ChipRight move the chip focus while nothing is typed.
	ChipLeft  key.Binding
	ChipRight key.Binding

	// Remove drops the focused chip, or the last one.
	Remove   key.Binding
	ClearAll key.Binding
	Close    key.Binding
}

func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev")),
		Down:      key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		Pick:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pick")),
		Commit:    key.NewBinding(key.WithKeys("enter", "tab"), key.WithHelp("enter", "add/done")),
		ChipLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous tag")),
		ChipRight: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next tag")),
		Remove:    key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("bksp", "remove")),
		ClearAll:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

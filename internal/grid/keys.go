package grid

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Copy     key.Binding
	Paste    key.Binding
	AutoSize key.Binding
}

// DefaultKeyMap binds no printable letters: typing a letter on a cell starts
// editing it with that text.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("←", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→", "right")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+f"), key.WithHelp("pgdn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "ctrl+home"), key.WithHelp("home", "first row")),
		End:      key.NewBinding(key.WithKeys("end", "ctrl+end"), key.WithHelp("end", "last row")),
		Edit:     key.NewBinding(key.WithKeys("enter", "f2"), key.WithHelp("enter", "edit")),
		Delete:   key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "clear")),
		Copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Paste:    key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		AutoSize: key.NewBinding(key.WithKeys("="), key.WithHelp("=", "fit column")),
	}
}

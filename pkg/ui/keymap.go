package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding the viewer responds to. Bindings carry help
// text so the overlay stays in sync with the actual keys.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding

	ZoomIn    key.Binding
	ZoomOut   key.Binding
	ZoomReset key.Binding

	Press     key.Binding
	Toggle    key.Binding
	Grab      key.Binding
	Cancel    key.Binding
	Highlight key.Binding
	Color     key.Binding
	Delete    key.Binding
	Copy      key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "cursor up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "cursor down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "cursor left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "cursor right")),

		PanUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "pan up")),
		PanDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "pan down")),
		PanLeft:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("shift+←", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift+→", "pan right")),

		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomReset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),

		Press:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select / clear")),
		Toggle:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle in selection")),
		Grab:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab / release")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel gesture")),
		Highlight: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "highlight mode")),
		Color:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle color")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete under cursor")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selected ids")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s", "s"), key.WithHelp("s", "save board")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpRows returns key/description pairs for the help overlay, in
// display order.
func (k KeyMap) helpRows() [][2]string {
	bindings := []key.Binding{
		k.Up, k.Down, k.Left, k.Right,
		k.PanUp, k.PanDown, k.PanLeft, k.PanRight,
		k.ZoomIn, k.ZoomOut, k.ZoomReset,
		k.Press, k.Toggle, k.Grab, k.Cancel,
		k.Highlight, k.Color, k.Delete, k.Copy,
		k.Save, k.Help, k.Quit,
	}
	rows := make([][2]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		rows = append(rows, [2]string{h.Key, h.Desc})
	}
	return rows
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit     key.Binding
	Up         key.Binding
	Down       key.Binding
	Delete     key.Binding
	Clear      key.Binding
	Export     key.Binding
	Retry      key.Binding
	Copy       key.Binding
	Bold       key.Binding
	Italic     key.Binding
	Font       key.Binding
	Bigger     key.Binding
	Smaller    key.Binding
	NextTarget key.Binding
	NextSource key.Binding
	Swap       key.Binding
	Help       key.Binding
	Cancel     key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Translate")),
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "Select note")),
		Down:       key.NewBinding(key.WithKeys("down")),
		Delete:     key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("Ctrl+D", "Delete note")),
		Clear:      key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("Ctrl+X", "Clear all")),
		Export:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("Ctrl+E", "Export")),
		Retry:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("Ctrl+R", "Retry failed")),
		Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("Ctrl+Y", "Copy translation")),
		Bold:       key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("Ctrl+B", "Bold")),
		Italic:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("Ctrl+O", "Italic")),
		Font:       key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("Ctrl+F", "Font")),
		Bigger:     key.NewBinding(key.WithKeys("alt+up"), key.WithHelp("Alt+↑/↓", "Font size")),
		Smaller:    key.NewBinding(key.WithKeys("alt+down")),
		NextTarget: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Target language")),
		NextSource: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("Shift+Tab", "Source language")),
		Swap:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("Ctrl+S", "Swap languages")),
		Help:       key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("Ctrl+G", "Toggle cheatsheet")),
		Cancel:     key.NewBinding(key.WithKeys("esc")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Quit")),
	}
}

// legend lists the bindings shown in the cheatsheet, in display order.
func (k keyMap) legend() []key.Binding {
	return []key.Binding{
		k.Submit, k.Up, k.Delete, k.Clear, k.Export, k.Retry,
		k.Copy, k.Bold, k.Italic, k.Font, k.Bigger, k.NextTarget,
		k.NextSource, k.Swap, k.Help, k.Quit,
	}
}

package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/lepinkainen/clipsorter/config"
)

type keyMap struct {
	Single key.Binding
	Multi  key.Binding
	Quit   key.Binding
	Open   key.Binding
	Play   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Undo   key.Binding
	Help   key.Binding
	Close  key.Binding
}

var keys = keyMap{
	Single: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "single file")),
	Multi:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "multiple files")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
	Play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
	Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous file")),
	Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next file")),
	Undo:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "undo move")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Close:  key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "close")),
}

// labelKeys binds each label's key to its folder. Labels without a key are button only.
func labelKeys(labels []config.Label) []key.Binding {
	var bindings []key.Binding
	for _, l := range labels {
		if l.Key == "" {
			continue
		}
		name := l.Name
		if name == "" {
			name = l.Folder
		}
		bindings = append(bindings, key.NewBinding(key.WithKeys(l.Key), key.WithHelp(l.Key, name)))
	}
	return bindings
}

// pageHelp adapts a page's bindings to help.KeyMap.
type pageHelp struct {
	short []key.Binding
	extra []key.Binding
}

func (h pageHelp) ShortHelp() []key.Binding { return h.short }

func (h pageHelp) FullHelp() [][]key.Binding {
	if len(h.extra) == 0 {
		return [][]key.Binding{h.short}
	}
	return [][]key.Binding{h.short, h.extra}
}

var pickerHelp = []key.Binding{
	key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "move")),
	key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/select")),
	key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "parent folder")),
	key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

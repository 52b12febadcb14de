package console

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab   key.Binding
	PrevBlock key.Binding
	NextBlock key.Binding
	Up        key.Binding
	Down      key.Binding
	Copy      key.Binding
	Unlink    key.Binding
	Refresh   key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:   key.NewBinding(key.WithKeys("tab")),
		PrevBlock: key.NewBinding(key.WithKeys("left", "h")),
		NextBlock: key.NewBinding(key.WithKeys("right", "l")),
		Up:        key.NewBinding(key.WithKeys("up", "k")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Copy:      key.NewBinding(key.WithKeys("c")),
		Unlink:    key.NewBinding(key.WithKeys("u")),
		Refresh:   key.NewBinding(key.WithKeys("r")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}

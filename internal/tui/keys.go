package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the dashboard key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	// Filters cycles the value of the filter at the same index in
	// services.FilterFields.
	Filters [4]key.Binding
	Clear   key.Binding

	InProgress key.Binding
	Complete   key.Binding
	Reload     key.Binding
	Quit       key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next page"),
	),
	Filters: [4]key.Binding{
		key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "location")),
		key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "condition")),
		key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "status")),
		key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "type")),
	},
	Clear: key.NewBinding(
		key.WithKeys("0", "esc"),
		key.WithHelp("0", "clear filters"),
	),
	InProgress: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "in progress"),
	),
	Complete: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "complete"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) helpLine() string {
	bindings := []key.Binding{k.Up, k.Down, k.PrevPage, k.NextPage}
	bindings = append(bindings, k.Filters[:]...)
	bindings = append(bindings, k.Clear, k.InProgress, k.Complete, k.Reload, k.Quit)
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

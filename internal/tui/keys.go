package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/julianstephens/habittracker/internal/tui/components/habits"
	"github.com/julianstephens/habittracker/internal/tui/components/month"
)

type keyMap struct {
	Habits  habits.KeyMap
	Month   month.KeyMap
	Sync    key.Binding
	Help    key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Habits.Toggle, k.Habits.Add, k.Month.Prev, k.Month.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Habits.Up, k.Habits.Down, k.Habits.Toggle},
		{k.Habits.Add, k.Habits.Rename, k.Habits.Delete},
		{k.Month.Prev, k.Month.Next, k.Month.Current},
		{k.Sync, k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Habits: habits.DefaultKeyMap(),
		Month:  month.DefaultKeyMap(),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync calendar"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

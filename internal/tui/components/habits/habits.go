package habits

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habittracker/internal/models"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID int64
}

type RenameHabitMsg struct {
	Habit models.Habit
}

type DeleteHabitMsg struct {
	Habit models.Habit
}

type Item struct {
	Habit  models.Habit
	Done   bool
	Streak int
}

func (i Item) Title() string {
	if i.Done {
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Add    key.Binding
	Rename key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter", "x"),
			key.WithHelp("space", "toggle done"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type Model struct {
	items  []Item
	cursor int
	Keys   KeyMap
}

func New() Model {
	return Model{Keys: DefaultKeyMap()}
}

// SetItems replaces the list, keeping the cursor in range
func (m *Model) SetItems(items []Item) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Items() []Item {
	return m.items
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Selected() (Item, bool) {
	if len(m.items) == 0 {
		return Item{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.Keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.Keys.Add):
		return m, func() tea.Msg { return AddHabitMsg{} }
	case key.Matches(keyMsg, m.Keys.Toggle):
		if i, ok := m.Selected(); ok {
			return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
		}
	case key.Matches(keyMsg, m.Keys.Rename):
		if i, ok := m.Selected(); ok {
			return m, func() tea.Msg { return RenameHabitMsg{Habit: i.Habit} }
		}
	case key.Matches(keyMsg, m.Keys.Delete):
		if i, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteHabitMsg{Habit: i.Habit} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.items) == 0 {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}

	var b strings.Builder
	for idx, item := range m.items {
		line := item.Title()
		if item.Done {
			line = doneStyle.Render(line)
		}
		if item.Streak > 0 {
			line += mutedStyle.Render(fmt.Sprintf("  %dd streak", item.Streak))
		}
		if idx == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

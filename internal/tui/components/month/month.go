package month

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/monthgrid"
)

// ChangedMsg asks the parent to load counts for a new month
type ChangedMsg struct {
	Month time.Time
}

type KeyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Current key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev month"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next month"),
		),
		Current: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "this month"),
		),
	}
}

var (
	todayStyle   = lipgloss.NewStyle().Reverse(true)
	allDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	someStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type Model struct {
	month time.Time
	today time.Time
	grid  monthgrid.Grid
	Keys  KeyMap
}

func New(today time.Time) Model {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return Model{
		month: first,
		today: today,
		grid:  monthgrid.Build(first, nil, 0),
		Keys:  DefaultKeyMap(),
	}
}

func (m Model) Month() time.Time {
	return m.month
}

func (m *Model) SetToday(today time.Time) {
	m.today = today
}

func (m *Model) SetCounts(counts map[string]int, total int) {
	m.grid = monthgrid.Build(m.month, counts, total)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	target := m.month
	switch {
	case key.Matches(keyMsg, m.Keys.Prev):
		target = m.month.AddDate(0, -1, 0)
	case key.Matches(keyMsg, m.Keys.Next):
		target = m.month.AddDate(0, 1, 0)
	case key.Matches(keyMsg, m.Keys.Current):
		target = time.Date(m.today.Year(), m.today.Month(), 1, 0, 0, 0, 0, m.today.Location())
	default:
		return m, nil
	}

	if target.Equal(m.month) {
		return m, nil
	}
	m.month = target
	return m, func() tea.Msg { return ChangedMsg{Month: target} }
}

func (m Model) View() string {
	today := m.today.Format(constants.DateFormat)
	return m.grid.Render(func(c monthgrid.Cell, text string) string {
		switch {
		case c.Date == today:
			return todayStyle.Render(text)
		case c.Count > 0 && c.Count >= m.grid.Total:
			return allDoneStyle.Render(text)
		case c.Count > 0:
			return someStyle.Render(text)
		}
		return text
	})
}

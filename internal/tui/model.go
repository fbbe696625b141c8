package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habittracker/internal/logger"
	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/tracker"
	"github.com/julianstephens/habittracker/internal/tui/components/habits"
	"github.com/julianstephens/habittracker/internal/tui/components/month"
)

type state int

const (
	stateBrowse state = iota
	stateAdd
	stateRename
	stateConfirmDelete
)

// Model is the interactive dashboard: today's habits on the left and the
// month grid on the right.
type Model struct {
	ctx  context.Context
	svc  *tracker.Service
	now  func() time.Time
	keys keyMap
	help help.Model

	habits habits.Model
	month  month.Model
	input  textinput.Model

	state  state
	target models.Habit
	done   int
	total  int
	status string
	err    error
	// busy is set while a calendar-backed action runs
	busy bool

	width    int
	height   int
	quitting bool
}

func NewModel(ctx context.Context, svc *tracker.Service, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "Habit name"
	ti.CharLimit = 120
	ti.Width = 40

	m := Model{
		ctx:    ctx,
		svc:    svc,
		now:    now,
		keys:   defaultKeyMap(),
		help:   help.New(),
		habits: habits.New(),
		month:  month.New(now()),
		input:  ti,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads today's list, the progress counter, and the visible month
func (m *Model) refresh() {
	today := m.now()
	m.month.SetToday(today)

	list, err := m.svc.ListHabits(m.ctx)
	if err != nil {
		m.fail(err)
		return
	}
	status, err := m.svc.CompletionStatusForDay(m.ctx, today)
	if err != nil {
		m.fail(err)
		return
	}

	items := make([]habits.Item, 0, len(list))
	m.done = 0
	for _, h := range list {
		streak, err := m.svc.Streak(m.ctx, h.ID, today)
		if err != nil {
			logger.Warn("Failed to compute streak", "habit", h.Name, "error", err)
		}
		if status[h.ID] {
			m.done++
		}
		items = append(items, habits.Item{Habit: h, Done: status[h.ID], Streak: streak})
	}
	m.total = len(list)
	m.habits.SetItems(items)

	m.loadMonth()
}

func (m *Model) loadMonth() {
	counts, err := m.svc.MonthCompletionCounts(m.ctx, m.month.Month())
	if err != nil {
		m.fail(err)
		return
	}
	m.month.SetCounts(counts, m.total)
}

func (m *Model) fail(err error) {
	logger.Error("Dashboard action failed", "error", err)
	m.err = err
	m.status = ""
}

func (m *Model) notify(status string) {
	m.err = nil
	m.status = status
}

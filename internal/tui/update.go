package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habittracker/internal/calendar"
	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/tui/components/habits"
	"github.com/julianstephens/habittracker/internal/tui/components/month"
)

// authHint tells the user how to grant calendar access outside the dashboard
var authHint = fmt.Sprintf("Run '%s calendar auth', then press s to sync.", constants.AppName)

// actionDoneMsg reports the outcome of a calendar-backed action
type actionDoneMsg struct {
	status string
	err    error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case habits.ToggleHabitMsg:
		done, err := m.svc.ToggleCompleted(m.ctx, msg.ID, m.now())
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.refresh()
		if done {
			m.notify("Marked done")
		} else {
			m.notify("Marked not done")
		}
		return m, nil

	case actionDoneMsg:
		m.busy = false
		if msg.err != nil {
			// a failed add or rename stays in the form so the name can be fixed
			m.fail(msg.err)
			return m, nil
		}
		if m.state == stateAdd || m.state == stateRename {
			m.state = stateBrowse
			m.input.Blur()
		}
		m.refresh()
		m.notify(msg.status)
		return m, nil

	case habits.AddHabitMsg:
		m.state = stateAdd
		m.err = nil
		m.input.Reset()
		cmd := m.input.Focus()
		return m, cmd

	case habits.RenameHabitMsg:
		m.state = stateRename
		m.err = nil
		m.target = msg.Habit
		m.input.SetValue(msg.Habit.Name)
		cmd := m.input.Focus()
		m.input.CursorEnd()
		return m, cmd

	case habits.DeleteHabitMsg:
		m.state = stateConfirmDelete
		m.target = msg.Habit
		return m, nil

	case month.ChangedMsg:
		m.loadMonth()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.state {
		case stateAdd, stateRename:
			return m.updateInput(msg)
		case stateConfirmDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.state == stateAdd || m.state == stateRename {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Sync):
		return m.run("Syncing calendar...", m.sync())
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	cmds = append(cmds, cmd)
	m.month, cmd = m.month.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = stateBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if m.state == stateAdd {
			return m.run("Adding habit...", m.createHabit(name))
		}
		return m.run("Renaming habit...", m.renameHabit(m.target, name))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.state = stateBrowse
		return m.run("Deleting habit...", m.deleteHabit(m.target))
	case key.Matches(msg, m.keys.Cancel):
		m.state = stateBrowse
		m.notify("")
	}
	return m, nil
}

// run starts a calendar-backed action off the update loop. Keys other than
// ctrl+c are ignored until its actionDoneMsg arrives.
func (m Model) run(status string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = true
	m.notify(status)
	return m, cmd
}

func (m Model) createHabit(name string) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		habit, err := svc.CreateHabit(ctx, name)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		status := fmt.Sprintf("Added %q", habit.Name)
		if svc.SyncEnabled() && !habit.HasEvent() {
			status += "; calendar event queued. " + authHint
		}
		return actionDoneMsg{status: status}
	}
}

func (m Model) renameHabit(habit models.Habit, name string) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		renamed, err := svc.RenameHabit(ctx, habit, name)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Renamed to %q", renamed.Name)}
	}
}

func (m Model) deleteHabit(habit models.Habit) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		if err := svc.DeleteHabit(ctx, habit); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Deleted %q", habit.Name)}
	}
}

func (m Model) sync() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		report, err := svc.Reconcile(ctx)
		switch {
		case errors.Is(err, calendar.ErrDisabled):
			return actionDoneMsg{status: "Calendar sync is not configured"}
		case errors.Is(err, calendar.ErrNoToken):
			return actionDoneMsg{status: "Calendar not authorized. " + authHint}
		case err != nil:
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Synced %d/%d pending operations", report.Succeeded, report.Attempted)}
	}
}

package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habittracker/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(constants.DisplayName)+"  "+m.now().Format("Monday, January 2"),
		fmt.Sprintf("%s %d/%d habits completed", titleStyle.Render("Today's Progress:"), m.done, m.total),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(m.habits.View()),
		" ",
		paneStyle.Render(m.month.View()),
	)

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		"",
		m.footer(),
	))
}

func (m Model) footer() string {
	switch m.state {
	case stateAdd, stateRename:
		prompt := "New habit: "
		if m.state == stateRename {
			prompt = fmt.Sprintf("Rename %q: ", m.target.Name)
		}
		lines := []string{prompt + m.input.View()}
		if m.err != nil {
			lines = append(lines, errorStyle.Render(m.err.Error()))
		}
		lines = append(lines, "enter to save, esc to cancel")
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	case stateConfirmDelete:
		return confirmStyle.Render(fmt.Sprintf("Delete %q and all its history? (y/n)", m.target.Name))
	}

	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		status = statusStyle.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys))
}

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	DoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
	HeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	TodayStyle   = lipgloss.NewStyle().Reverse(true)
)

// Check returns the completion marker used in listings
func Check(done bool) string {
	if done {
		return DoneStyle.Render("✓")
	}
	return PendingStyle.Render("○")
}

// ProgressLabel is the one-line daily summary
func ProgressLabel(done, total int) string {
	return fmt.Sprintf("%s %d/%d habits completed", HeaderStyle.Render("Today's Progress:"), done, total)
}

package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habittracker/internal/calendar"
	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/tracker"
	"github.com/julianstephens/habittracker/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	m := tui.NewModel(ctx.Context(), dashboardService(ctx), ctx.Now)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}

// dashboardService returns a tracker whose calendar only uses a stored token.
// The alt screen hides any consent prompt, so a missing token queues the
// change and the dashboard points the user at 'calendar auth' instead.
func dashboardService(ctx *cli.Context) *tracker.Service {
	if !ctx.Tracker.SyncEnabled() {
		return ctx.Tracker
	}
	cfg := ctx.Calendar
	cfg.Flow = calendar.StoredTokenOnly{}
	cfg.Prompt = nil
	return ctx.Tracker.WithSyncer(calendar.NewGoogleSyncer(cfg))
}

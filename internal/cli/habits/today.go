package habits

import (
	"fmt"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/utils"
)

type TodayCmd struct {
	Date string `help:"Show another day (YYYY-MM-DD or e.g. 'yesterday')."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	habits, err := ctx.Tracker.ListHabits(ctx.Context())
	if err != nil {
		return err
	}
	status, err := ctx.Tracker.CompletionStatusForDay(ctx.Context(), day)
	if err != nil {
		return err
	}
	done, total, err := ctx.Tracker.Progress(ctx.Context(), day)
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	fmt.Fprintln(out, cli.HeaderStyle.Render(day.Format("Monday, January 2 2006")))
	for _, h := range habits {
		fmt.Fprintf(out, "  %s %s\n", cli.Check(status[h.ID]), h.Name)
	}
	if len(habits) == 0 {
		fmt.Fprintln(out, "  No habits yet.")
	}
	fmt.Fprintln(out)
	if utils.FormatDate(day) == utils.FormatDate(ctx.Today()) {
		fmt.Fprintln(out, cli.ProgressLabel(done, total))
	} else {
		fmt.Fprintf(out, "%d/%d habits completed\n", done, total)
	}
	return nil
}

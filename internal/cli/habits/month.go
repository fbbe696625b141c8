package habits

import (
	"fmt"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/monthgrid"
	"github.com/julianstephens/habittracker/internal/utils"
)

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM). Defaults to the current month."`
	Plain bool   `help:"Disable colors."`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	month, err := utils.ParseMonth(c.Month, ctx.Today())
	if err != nil {
		return err
	}

	counts, err := ctx.Tracker.MonthCompletionCounts(ctx.Context(), month)
	if err != nil {
		return err
	}
	habits, err := ctx.Tracker.ListHabits(ctx.Context())
	if err != nil {
		return err
	}

	grid := monthgrid.Build(month, counts, len(habits))
	var style monthgrid.Styler
	if !c.Plain {
		today := utils.FormatDate(ctx.Today())
		style = func(cell monthgrid.Cell, text string) string {
			switch {
			case cell.Date == today:
				return cli.TodayStyle.Render(text)
			case cell.Count > 0 && cell.Count >= grid.Total:
				return cli.DoneStyle.Render(text)
			case cell.Count > 0:
				return cli.SuccessStyle.Render(text)
			}
			return text
		}
	}

	fmt.Fprint(ctx.Stdout(), grid.Render(style))
	return nil
}

package habits

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/constants"
	apperrors "github.com/julianstephens/habittracker/internal/errors"
	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/utils"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits." default:"1"`
	Rename HabitRenameCmd `cmd:"" help:"Rename a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	Mark   HabitMarkCmd   `cmd:"" help:"Mark a habit as done for a day."`
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Tracker.CreateHabit(ctx.Context(), c.Name)
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	fmt.Fprintf(out, "%s Added habit: %s (id %d)\n", cli.SuccessStyle.Render("✓"), habit.Name, habit.ID)
	if ctx.Tracker.SyncEnabled() && !habit.HasEvent() {
		fmt.Fprintln(out, cli.WarningStyle.Render(apperrors.Warning("calendar event not created; run '%s calendar sync' to retry", constants.AppName)))
	}
	return nil
}

// HabitRow is one line of 'habit list'
type HabitRow struct {
	models.Habit `yaml:",inline"`
	DoneToday    bool `json:"done_today" yaml:"done_today"`
	Streak       int  `json:"streak" yaml:"streak"`
}

type HabitListCmd struct {
	Format string `help:"Output format." enum:"text,json,yaml" default:"text"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	today := ctx.Today()
	habits, err := ctx.Tracker.ListHabits(ctx.Context())
	if err != nil {
		return err
	}
	status, err := ctx.Tracker.CompletionStatusForDay(ctx.Context(), today)
	if err != nil {
		return err
	}

	rows := make([]HabitRow, 0, len(habits))
	for _, h := range habits {
		streak, err := ctx.Tracker.Streak(ctx.Context(), h.ID, today)
		if err != nil {
			return err
		}
		rows = append(rows, HabitRow{Habit: h, DoneToday: status[h.ID], Streak: streak})
	}

	out := ctx.Stdout()
	return cli.Render(out, c.Format, rows, func() error {
		if len(rows) == 0 {
			fmt.Fprintln(out, "No habits yet. Add one with 'habittracker habit add <name>'.")
			return nil
		}
		t := cli.NewTable("ID", "HABIT", "TODAY", "STREAK", "CALENDAR")
		for _, r := range rows {
			synced := "-"
			if r.HasEvent() {
				synced = "synced"
			}
			t.Row(strconv.FormatInt(r.ID, 10), r.Name, cli.Check(r.DoneToday), strconv.Itoa(r.Streak), synced)
		}
		fmt.Fprintln(out, t)
		return nil
	})
}

type HabitRenameCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Name  string `arg:"" help:"New name."`
}

func (c *HabitRenameCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	renamed, err := ctx.Tracker.RenameHabit(ctx.Context(), habit, c.Name)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout(), "%s Renamed %q to %q\n", cli.SuccessStyle.Render("✓"), habit.Name, renamed.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Delete without asking for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and all of its completions?", habit.Name)).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !confirmed {
			fmt.Fprintln(ctx.Stdout(), "Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Tracker.DeleteHabit(ctx.Context(), habit); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout(), "%s Deleted habit: %s\n", cli.SuccessStyle.Render("✓"), habit.Name)
	return nil
}

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Day to mark (YYYY-MM-DD or e.g. 'yesterday'). Defaults to today."`
	Undo  bool   `help:"Mark as not done instead."`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	if err := ctx.Tracker.MarkCompleted(ctx.Context(), habit.ID, day, !c.Undo); err != nil {
		return err
	}

	state := "done"
	if c.Undo {
		state = "not done"
	}
	fmt.Fprintf(ctx.Stdout(), "%s %s marked %s for %s\n", cli.Check(!c.Undo), habit.Name, state, utils.FormatDate(day))
	return nil
}

package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/utils"
)

type StatsCmd struct {
	Daily  StatsDailyCmd  `cmd:"" help:"Completed habits per day." default:"1"`
	Habits StatsHabitsCmd `cmd:"" help:"Completed days per habit."`
}

// RangeFlags selects an inclusive date range; both default to the current month
type RangeFlags struct {
	From   string `help:"First day (YYYY-MM-DD or e.g. 'last monday')."`
	To     string `help:"Last day (YYYY-MM-DD or e.g. 'today')."`
	Format string `help:"Output format." enum:"text,json,yaml" default:"text"`
}

func (r RangeFlags) Resolve(ctx *cli.Context) (time.Time, time.Time, error) {
	first, last := utils.MonthBounds(ctx.Today())
	if r.From != "" {
		d, err := ctx.ParseDay(r.From)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		first = d
	}
	if r.To != "" {
		d, err := ctx.ParseDay(r.To)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		last = d
	}
	return first, last, nil
}

// Count is one row of a stats report
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

func sortedCounts(m map[string]int) []Count {
	rows := make([]Count, 0, len(m))
	for k, v := range m {
		rows = append(rows, Count{Key: k, Count: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

func printCounts(w io.Writer, header string, rows []Count) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No completions in range.")
		return nil
	}
	t := cli.NewTable(header, "COMPLETED")
	for _, r := range rows {
		t.Row(r.Key, strconv.Itoa(r.Count))
	}
	_, err := fmt.Fprintln(w, t)
	return err
}

type StatsDailyCmd struct {
	RangeFlags `embed:""`
}

func (c *StatsDailyCmd) Run(ctx *cli.Context) error {
	start, end, err := c.Resolve(ctx)
	if err != nil {
		return err
	}
	counts, err := ctx.Tracker.DailyCompletionCounts(ctx.Context(), start, end)
	if err != nil {
		return err
	}

	rows := sortedCounts(counts)
	return cli.Render(ctx.Stdout(), c.Format, rows, func() error {
		return printCounts(ctx.Stdout(), "DATE", rows)
	})
}

type StatsHabitsCmd struct {
	RangeFlags `embed:""`
}

func (c *StatsHabitsCmd) Run(ctx *cli.Context) error {
	start, end, err := c.Resolve(ctx)
	if err != nil {
		return err
	}
	counts, err := ctx.Tracker.HabitCompletionCounts(ctx.Context(), start, end)
	if err != nil {
		return err
	}

	rows := sortedCounts(counts)
	return cli.Render(ctx.Stdout(), c.Format, rows, func() error {
		return printCounts(ctx.Stdout(), "HABIT", rows)
	})
}

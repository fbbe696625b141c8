package stats

import (
	"fmt"
	"os"

	"github.com/julianstephens/habittracker/internal/cli"
)

type ExportCmd struct {
	From   string `help:"First day (YYYY-MM-DD). Defaults to the start of the current month."`
	To     string `help:"Last day (YYYY-MM-DD). Defaults to the end of the current month."`
	Format string `help:"Output format." enum:"json,yaml" default:"json"`
	Output string `short:"o" help:"Write to a file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	start, end, err := RangeFlags{From: c.From, To: c.To}.Resolve(ctx)
	if err != nil {
		return err
	}

	snap, err := ctx.Tracker.Export(ctx.Context(), start, end)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return cli.Render(ctx.Stdout(), c.Format, snap, nil)
	}

	f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := cli.Render(f, c.Format, snap, nil); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout(), "%s Exported %d habits to %s\n", cli.SuccessStyle.Render("✓"), len(snap.Habits), c.Output)
	return nil
}

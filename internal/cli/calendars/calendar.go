package calendars

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/julianstephens/habittracker/internal/calendar"
	"github.com/julianstephens/habittracker/internal/cli"
)

type CalendarCmd struct {
	Auth    CalendarAuthCmd    `cmd:"" help:"Authorize access to Google Calendar."`
	Sync    CalendarSyncCmd    `cmd:"" help:"Retry calendar changes that failed earlier."`
	Pending CalendarPendingCmd `cmd:"" help:"List calendar changes waiting to be retried."`
}

type CalendarAuthCmd struct {
	Force bool `help:"Discard the stored token and authorize again."`
}

func (c *CalendarAuthCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Calendar
	if cfg.CredentialsFile == "" || cfg.Tokens == nil {
		return calendar.ErrDisabled
	}

	secret, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to read calendar credentials: %w (download an OAuth client secret for a desktop app and pass --calendar-credentials)", err)
	}
	conf, err := calendar.OAuthConfig(secret)
	if err != nil {
		return err
	}

	if c.Force {
		if err := cfg.Tokens.Delete(); err != nil {
			return err
		}
	}

	flow := &calendar.LoopbackFlow{Prompt: cfg.Prompt}
	if _, err := calendar.Authorize(ctx.Context(), conf, cfg.Tokens, flow); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout(), "%s Calendar access authorized\n", cli.SuccessStyle.Render("✓"))
	return nil
}

type CalendarSyncCmd struct{}

func (c *CalendarSyncCmd) Run(ctx *cli.Context) error {
	report, err := ctx.Tracker.Reconcile(ctx.Context())
	if errors.Is(err, calendar.ErrDisabled) {
		return errors.New("calendar sync is not configured; pass --calendar-credentials or set HABITTRACKER_CALENDAR_CREDENTIALS")
	}
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	if report.Attempted == 0 {
		fmt.Fprintln(out, "Nothing to sync.")
		return nil
	}
	fmt.Fprintf(out, "Synced %d, dropped %d, still failing %d\n", report.Succeeded, report.Dropped, report.Failed)
	if report.Failed > 0 {
		fmt.Fprintln(out, cli.WarningStyle.Render("Run 'habittracker calendar pending' to see the errors."))
	}
	return nil
}

type CalendarPendingCmd struct {
	Format string `help:"Output format." enum:"text,json,yaml" default:"text"`
}

func (c *CalendarPendingCmd) Run(ctx *cli.Context) error {
	ops, err := ctx.Tracker.PendingSyncOps(ctx.Context())
	if err != nil {
		return err
	}

	out := ctx.Stdout()
	return cli.Render(out, c.Format, ops, func() error {
		if len(ops) == 0 {
			fmt.Fprintln(out, "No pending calendar changes.")
			return nil
		}
		t := cli.NewTable("ID", "OP", "HABIT", "TITLE", "ATTEMPTS", "LAST ERROR")
		for _, op := range ops {
			t.Row(strconv.FormatInt(op.ID, 10), string(op.Op), strconv.FormatInt(op.HabitID, 10), op.Title, strconv.Itoa(op.Attempts), op.LastError)
		}
		fmt.Fprintln(out, t)
		return nil
	})
}

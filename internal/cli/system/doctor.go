package system

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habittracker/internal/backup"
	"github.com/julianstephens/habittracker/internal/calendar"
	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/keyring"
)

// ErrChecksFailed is returned when at least one diagnostic fails
var ErrChecksFailed = errors.New("one or more health checks failed")

type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) (warn bool, err error)
}

var checks = []check{
	{"Database reachable", checkDBReachable},
	{"Schema version", checkSchemaVersion},
	{"Backups present", checkBackupsPresent},
	{"Calendar credentials", checkCalendar},
	{"Pending calendar changes", checkPendingSync},
	{"OS keyring", checkKeyring},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	fmt.Fprintln(out, "Running diagnostics...")
	fmt.Fprintln(out)

	failed := false
	for _, c := range checks {
		warn, err := c.run(ctx)
		report(out, c.name, warn, err)
		if err != nil && !warn {
			failed = true
		}
	}

	if failed {
		return ErrChecksFailed
	}
	return nil
}

func report(w io.Writer, name string, warn bool, err error) {
	switch {
	case err == nil:
		fmt.Fprintf(w, "✓ %s: OK\n", name)
	case warn:
		fmt.Fprintf(w, "⚠ %s: WARNING\n   %v\n", name, err)
	default:
		fmt.Fprintf(w, "❌ %s: FAIL\n   Error: %v\n", name, err)
	}
}

func checkDBReachable(ctx *cli.Context) (bool, error) {
	_, err := ctx.Store.ListHabits(ctx.Context())
	return false, err
}

func checkSchemaVersion(ctx *cli.Context) (bool, error) {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return true, errors.New("store does not report a schema version")
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return false, err
	}
	if current != latest {
		return false, fmt.Errorf("schema at version %d, expected %d", current, latest)
	}
	return false, nil
}

func checkBackupsPresent(ctx *cli.Context) (bool, error) {
	if !ctx.IsSQLite() {
		return false, nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return true, err
	}
	if len(backups) == 0 {
		return true, errors.New("no backups found; run 'habittracker backup create'")
	}
	return false, nil
}

func checkCalendar(ctx *cli.Context) (bool, error) {
	cfg := ctx.Calendar
	if cfg.CredentialsFile == "" {
		return true, calendar.ErrDisabled
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return true, fmt.Errorf("credentials file not readable: %w", err)
	}
	if cfg.Tokens != nil {
		if _, err := cfg.Tokens.Load(); err != nil {
			return true, fmt.Errorf("not authorized yet; run 'habittracker calendar auth' (%v)", err)
		}
	}
	return false, nil
}

func checkPendingSync(ctx *cli.Context) (bool, error) {
	ops, err := ctx.Tracker.PendingSyncOps(ctx.Context())
	if err != nil {
		return false, err
	}
	if len(ops) > 0 {
		return true, fmt.Errorf("%d change(s) queued; run 'habittracker calendar sync'", len(ops))
	}
	return false, nil
}

func checkKeyring(*cli.Context) (bool, error) {
	if !keyring.IsAvailable() {
		return true, keyring.ErrKeyringUnavailable
	}
	return false, nil
}

package backups

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habittracker/internal/backup"
	"github.com/julianstephens/habittracker/internal/cli"
)

var errNotSQLite = errors.New("backups are only available for SQLite databases; use pg_dump for PostgreSQL")

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errNotSQLite
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	path, err := mgr.Create(ctx.Context())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "%s Backup created: %s\n", cli.SuccessStyle.Render("✓"), path)
	return nil
}

type BackupListCmd struct {
	Format string `help:"Output format." enum:"text,json,yaml" default:"text"`
}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errNotSQLite
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	out := ctx.Stdout()
	return cli.Render(out, c.Format, backups, func() error {
		if len(backups) == 0 {
			fmt.Fprintln(out, "No backups found.")
			fmt.Fprintf(out, "Backups are stored in: %s\n", mgr.Dir())
			return nil
		}

		fmt.Fprintf(out, "Available backups (%d total, keeping most recent %d):\n\n", len(backups), mgr.Keep)
		t := cli.NewTable("CREATED", "NAME", "SIZE")
		for _, b := range backups {
			t.Row(b.Timestamp.Format("2006-01-02 15:04:05"), b.Name(), fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0))
		}
		fmt.Fprintln(out, t)
		fmt.Fprintf(out, "\nBackup directory: %s\n", mgr.Dir())
		return nil
	})
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Restore without asking for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errNotSQLite
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	path, err := mgr.Resolve(c.BackupFile)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Replace the current database with this backup?").
			Description(fmt.Sprintf("%s\nA backup of the current database is taken first. Close the TUI before continuing.", path)).
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirmed {
			fmt.Fprintln(ctx.Stdout(), "Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	previous, err := mgr.Restore(ctx.Context(), path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	out := ctx.Stdout()
	if previous != "" {
		fmt.Fprintf(out, "Previous database saved as: %s\n", previous)
	}
	fmt.Fprintf(out, "%s Database restored from %s\n", cli.SuccessStyle.Render("✓"), path)
	return nil
}

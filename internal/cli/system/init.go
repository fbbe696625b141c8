package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/storage"
	"github.com/julianstephens/habittracker/internal/storage/postgres"
	"github.com/julianstephens/habittracker/internal/storage/sqlite"
)

const (
	historyStart = "0001-01-01"
	historyEnd   = "9999-12-31"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite database before initialization."`
	Source string `help:"Source database path or connection string to copy habits from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if w, ok := ctx.Store.(storage.ProgressWriter); ok {
		w.SetOutput(ctx.Stdout())
	}
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "Initialized habittracker storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Fprintf(ctx.Stdout(), "Copying data from: %s\n", c.Source)
		source, err := openSource(c.Source)
		if err != nil {
			return err
		}
		defer source.Close()

		habits, completions, err := copyData(ctx.Context(), source, ctx.Store)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintf(ctx.Stdout(), "Copied %d habits and %d completion records\n", habits, completions)
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return errors.New("--force is only supported for SQLite databases")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, err1 := filepath.Abs(dbPath)
		absSrc, err2 := filepath.Abs(c.Source)
		if err1 == nil && err2 == nil && absDB == absSrc {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Fprintf(ctx.Stdout(), "Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func openSource(source string) (storage.Provider, error) {
	var store storage.Provider
	if postgres.IsConnString(source) {
		if ok, err := postgres.ValidateConnString(source); !ok {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, errors.New("source connection string contains embedded credentials; use environment variables or .pgpass instead")
			}
			return nil, err
		}
		store = postgres.New(source)
	} else {
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("source database not found: %w", err)
		}
		store = sqlite.NewStore(source)
	}

	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load source database: %w", err)
	}
	return store, nil
}

// copyData copies habits (with their calendar event ids) and completions.
// Habit ids are reassigned by the destination. Name conflicts are checked
// before anything is written.
func copyData(ctx context.Context, src, dst storage.Provider) (int, int, error) {
	habits, err := src.ListHabits(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list source habits: %w", err)
	}

	for _, h := range habits {
		_, err := dst.GetHabitByName(ctx, h.Name)
		switch {
		case err == nil:
			return 0, 0, fmt.Errorf("habit %q already exists in destination", h.Name)
		case !errors.Is(err, storage.ErrNotFound):
			return 0, 0, fmt.Errorf("failed to check destination for habit %q: %w", h.Name, err)
		}
	}

	copied := 0
	for _, h := range habits {
		created, err := dst.InsertHabit(ctx, h.Name, h.GoogleEventID)
		if err != nil {
			return 0, 0, err
		}

		completions, err := src.GetCompletionsForHabit(ctx, h.ID, historyStart, historyEnd)
		if err != nil {
			return 0, 0, err
		}
		for _, c := range completions {
			if err := dst.MarkCompleted(ctx, created.ID, c.Date, c.Completed); err != nil {
				return 0, 0, err
			}
			copied++
		}
	}
	return len(habits), copied, nil
}

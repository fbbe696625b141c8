package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habittracker/internal/backup"
	"github.com/julianstephens/habittracker/internal/calendar"
	"github.com/julianstephens/habittracker/internal/logger"
	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/storage"
	"github.com/julianstephens/habittracker/internal/tracker"
	"github.com/julianstephens/habittracker/internal/utils"
)

// Context is handed to every command's Run method
type Context struct {
	Ctx      context.Context
	Store    storage.Provider
	Tracker  *tracker.Service
	Calendar calendar.GoogleConfig
	Out      io.Writer
	// Now defaults to time.Now
	Now func() time.Time
}

func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return utils.StartOfDay(now())
}

// IsSQLite reports whether the store is a local database file
func (c *Context) IsSQLite() bool {
	return c.Store.GetConfigPath() != "postgresql"
}

// PerformAutomaticBackup snapshots a SQLite database and only logs failures
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(c.Context()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveHabit finds a habit by numeric id or by exact name
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		h, err := c.Tracker.GetHabit(c.Context(), id)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, err
		}
	}

	h, err := c.Tracker.GetHabitByName(c.Context(), ref)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, fmt.Errorf("no habit matches %q", ref)
	}
	return h, err
}

// ParseDay resolves a --date flag; empty means today
func (c *Context) ParseDay(input string) (time.Time, error) {
	return utils.ParseDay(input, c.Today())
}

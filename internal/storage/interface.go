package storage

import (
	"context"
	"errors"
	"io"

	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/models"
)

// ErrNotFound is returned when a habit, completion or sync op does not exist
var ErrNotFound = errors.New("not found")

// ProgressWriter is implemented by stores that report migration progress
// during Init. Progress goes to stdout unless SetOutput is called.
type ProgressWriter interface {
	SetOutput(w io.Writer)
}

// Provider is the persistence gateway. It owns the habit and
// habit_completion schema. Days are YYYY-MM-DD strings and ranges are inclusive.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	ListHabits(ctx context.Context) ([]models.Habit, error)
	GetHabit(ctx context.Context, id int64) (models.Habit, error)
	GetHabitByName(ctx context.Context, name string) (models.Habit, error)
	InsertHabit(ctx context.Context, name, eventID string) (models.Habit, error)
	UpdateHabitName(ctx context.Context, id int64, name string) error
	SetHabitEventID(ctx context.Context, id int64, eventID string) error
	// DeleteHabit removes the habit and all of its completions in one transaction.
	DeleteHabit(ctx context.Context, id int64) error

	// Completions
	GetCompletionStatusForDay(ctx context.Context, day string) (map[int64]bool, error)
	GetCompletion(ctx context.Context, habitID int64, day string) (models.Completion, error)
	GetCompletionsForHabit(ctx context.Context, habitID int64, startDay, endDay string) ([]models.Completion, error)
	MarkCompleted(ctx context.Context, habitID int64, day string, completed bool) error
	GetDailyCompletionCounts(ctx context.Context, startDay, endDay string) (map[string]int, error)
	GetHabitCompletionCounts(ctx context.Context, startDay, endDay string) (map[string]int, error)

	// Calendar sync outbox
	EnqueueSyncOp(ctx context.Context, op models.SyncOp) (int64, error)
	ListSyncOps(ctx context.Context) ([]models.SyncOp, error)
	RecordSyncFailure(ctx context.Context, id int64, errMsg string) error
	DeleteSyncOp(ctx context.Context, id int64) error

	// Utils
	GetConfigPath() string
}

// IsValidSyncOp reports whether op is one of the known outbox operations
func IsValidSyncOp(op constants.SyncOpType) bool {
	switch op {
	case constants.SyncOpCreate, constants.SyncOpUpdate, constants.SyncOpDelete:
		return true
	}
	return false
}

package models

import (
	"time"

	"github.com/julianstephens/habittracker/internal/constants"
)

// Habit represents a named activity tracked day by day
type Habit struct {
	ID            int64     `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	GoogleEventID string    `json:"google_event_id,omitempty" yaml:"google_event_id,omitempty"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// HasEvent reports whether the habit is mirrored by an external calendar event
func (h Habit) HasEvent() bool {
	return h.GoogleEventID != ""
}

// Completion is a single day's completion state for a habit.
// There is at most one Completion per (HabitID, Date).
type Completion struct {
	ID        int64  `json:"id" yaml:"id"`
	HabitID   int64  `json:"habit_id" yaml:"habit_id"`
	Date      string `json:"date" yaml:"date"` // YYYY-MM-DD format
	Completed bool   `json:"completed" yaml:"completed"`
}

// SyncOp is a calendar operation that failed and is waiting to be retried
type SyncOp struct {
	ID        int64                `json:"id" yaml:"id"`
	HabitID   int64                `json:"habit_id" yaml:"habit_id"`
	Op        constants.SyncOpType `json:"op" yaml:"op"`
	EventID   string               `json:"event_id,omitempty" yaml:"event_id,omitempty"`
	Title     string               `json:"title,omitempty" yaml:"title,omitempty"`
	Attempts  int                  `json:"attempts" yaml:"attempts"`
	LastError string               `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	CreatedAt time.Time            `json:"created_at" yaml:"created_at"`
}

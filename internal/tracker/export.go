package tracker

import (
	"context"
	"time"

	"github.com/julianstephens/habittracker/internal/models"
)

// HabitHistory is one habit with its completion records
type HabitHistory struct {
	models.Habit `yaml:",inline"`
	Completions  []models.Completion `json:"completions" yaml:"completions"`
	Streak       int                 `json:"streak" yaml:"streak"`
}

// Snapshot is the exportable state of every habit over a date range
type Snapshot struct {
	Start  string         `json:"start" yaml:"start"`
	End    string         `json:"end" yaml:"end"`
	Habits []HabitHistory `json:"habits" yaml:"habits"`
}

func (s *Service) Export(ctx context.Context, start, end time.Time) (Snapshot, error) {
	if day(start) > day(end) {
		return Snapshot{}, ErrInvalidRange
	}

	habits, err := s.ListHabits(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Start: day(start), End: day(end), Habits: make([]HabitHistory, 0, len(habits))}
	for _, h := range habits {
		completions, err := s.store.GetCompletionsForHabit(ctx, h.ID, day(start), day(end))
		if err != nil {
			return Snapshot{}, err
		}
		streak, err := s.Streak(ctx, h.ID, end)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Habits = append(snap.Habits, HabitHistory{Habit: h, Completions: completions, Streak: streak})
	}
	return snap, nil
}

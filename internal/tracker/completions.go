package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/logger"
	"github.com/julianstephens/habittracker/internal/storage"
)

// historyStart bounds full-history queries
const historyStart = "0001-01-01"

func day(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// CompletionStatusForDay maps habit id to completion state. Habits without a
// record for the day are absent.
func (s *Service) CompletionStatusForDay(ctx context.Context, d time.Time) (map[int64]bool, error) {
	status, err := s.store.GetCompletionStatusForDay(ctx, day(d))
	if err != nil {
		logger.Error("Failed to load completion status", "day", day(d), "error", err)
		return nil, err
	}
	return status, nil
}

// IsCompleted is false when no record exists for the day
func (s *Service) IsCompleted(ctx context.Context, habitID int64, d time.Time) (bool, error) {
	c, err := s.store.GetCompletion(ctx, habitID, day(d))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.Completed, nil
}

func (s *Service) MarkCompleted(ctx context.Context, habitID int64, d time.Time, completed bool) error {
	if err := s.store.MarkCompleted(ctx, habitID, day(d), completed); err != nil {
		logger.Error("Failed to update completion", "habit", habitID, "day", day(d), "error", err)
		return err
	}
	logger.Debug("Completion updated", "habit", habitID, "day", day(d), "completed", completed)
	return nil
}

// ToggleCompleted flips the day's state and returns the new value
func (s *Service) ToggleCompleted(ctx context.Context, habitID int64, d time.Time) (bool, error) {
	done, err := s.IsCompleted(ctx, habitID, d)
	if err != nil {
		return false, err
	}
	if err := s.MarkCompleted(ctx, habitID, d, !done); err != nil {
		return false, err
	}
	return !done, nil
}

// DailyCompletionCounts counts completed records per date in [start, end].
// Dates with no completions are absent.
func (s *Service) DailyCompletionCounts(ctx context.Context, start, end time.Time) (map[string]int, error) {
	if day(start) > day(end) {
		return nil, ErrInvalidRange
	}
	return s.store.GetDailyCompletionCounts(ctx, day(start), day(end))
}

// HabitCompletionCounts counts completed records per habit name in [start, end]
func (s *Service) HabitCompletionCounts(ctx context.Context, start, end time.Time) (map[string]int, error) {
	if day(start) > day(end) {
		return nil, ErrInvalidRange
	}
	return s.store.GetHabitCompletionCounts(ctx, day(start), day(end))
}

// MonthCompletionCounts returns the daily counts for the month containing m
func (s *Service) MonthCompletionCounts(ctx context.Context, m time.Time) (map[string]int, error) {
	first := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, m.Location())
	last := first.AddDate(0, 1, -1)
	return s.DailyCompletionCounts(ctx, first, last)
}

// Progress returns how many of the current habits are completed on the day
func (s *Service) Progress(ctx context.Context, d time.Time) (done, total int, err error) {
	habits, err := s.ListHabits(ctx)
	if err != nil {
		return 0, 0, err
	}
	status, err := s.CompletionStatusForDay(ctx, d)
	if err != nil {
		return 0, 0, err
	}
	for _, h := range habits {
		if status[h.ID] {
			done++
		}
	}
	return done, len(habits), nil
}

// Streak counts consecutive completed days ending at asOf. An open asOf
// (not yet completed) does not break the streak ending the day before.
func (s *Service) Streak(ctx context.Context, habitID int64, asOf time.Time) (int, error) {
	completions, err := s.store.GetCompletionsForHabit(ctx, habitID, historyStart, day(asOf))
	if err != nil {
		return 0, err
	}

	done := make(map[string]bool, len(completions))
	for _, c := range completions {
		if c.Completed {
			done[c.Date] = true
		}
	}

	cursor := asOf
	if !done[day(cursor)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for done[day(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak, nil
}

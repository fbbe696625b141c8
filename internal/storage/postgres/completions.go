package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/storage"
)

// completion_date is a DATE column; it is read back as YYYY-MM-DD text
const completionColumns = `id, habit_id, to_char(completion_date, 'YYYY-MM-DD'), completed`

func (s *Store) GetCompletionStatusForDay(ctx context.Context, day string) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT habit_id, completed FROM habit_completion WHERE completion_date = $1::date`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get completion status: %w", err)
	}
	defer rows.Close()

	status := make(map[int64]bool)
	for rows.Next() {
		var habitID int64
		var completed bool
		if err := rows.Scan(&habitID, &completed); err != nil {
			return nil, err
		}
		status[habitID] = completed
	}

	return status, rows.Err()
}

func (s *Store) GetCompletion(ctx context.Context, habitID int64, day string) (models.Completion, error) {
	var c models.Completion
	err := s.db.QueryRowContext(ctx, `
		SELECT `+completionColumns+`
		FROM habit_completion WHERE habit_id = $1 AND completion_date = $2::date`,
		habitID, day).Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Completion{}, fmt.Errorf("completion for habit %d on %s: %w", habitID, day, storage.ErrNotFound)
	}
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to get completion: %w", err)
	}
	return c, nil
}

func (s *Store) GetCompletionsForHabit(ctx context.Context, habitID int64, startDay, endDay string) ([]models.Completion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+completionColumns+`
		FROM habit_completion
		WHERE habit_id = $1 AND completion_date BETWEEN $2::date AND $3::date
		ORDER BY completion_date DESC`, habitID, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("failed to get completions: %w", err)
	}
	defer rows.Close()

	completions := []models.Completion{}
	for rows.Next() {
		var c models.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &c.Completed); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}

func (s *Store) MarkCompleted(ctx context.Context, habitID int64, day string, completed bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_completion (habit_id, completion_date, completed)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (habit_id, completion_date) DO UPDATE SET
			completed = EXCLUDED.completed`,
		habitID, day, completed)
	if err != nil {
		return fmt.Errorf("failed to mark habit %d on %s: %w", habitID, day, err)
	}
	return nil
}

func (s *Store) GetDailyCompletionCounts(ctx context.Context, startDay, endDay string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(completion_date, 'YYYY-MM-DD'), COUNT(*)
		FROM habit_completion
		WHERE completed AND completion_date BETWEEN $1::date AND $2::date
		GROUP BY completion_date`, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("failed to count daily completions: %w", err)
	}
	return scanCounts(rows)
}

func (s *Store) GetHabitCompletionCounts(ctx context.Context, startDay, endDay string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.name, COUNT(*)
		FROM habit_completion c
		JOIN habit h ON h.id = c.habit_id
		WHERE c.completed AND c.completion_date BETWEEN $1::date AND $2::date
		GROUP BY h.name`, startDay, endDay)
	if err != nil {
		return nil, fmt.Errorf("failed to count habit completions: %w", err)
	}
	return scanCounts(rows)
}

func scanCounts(rows *sql.Rows) (map[string]int, error) {
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}

	return counts, rows.Err()
}

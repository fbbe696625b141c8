package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/storage"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var eventID sql.NullString
	var createdAt string

	if err := row.Scan(&h.ID, &h.Name, &eventID, &createdAt); err != nil {
		return models.Habit{}, err
	}
	h.GoogleEventID = eventID.String

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %d: %w", h.ID, err)
	}
	h.CreatedAt = t

	return h, nil
}

func nullableEventID(eventID string) sql.NullString {
	return sql.NullString{String: eventID, Valid: eventID != ""}
}

func (s *Store) ListHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, google_event_id, created_at
		FROM habit ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (s *Store) GetHabit(ctx context.Context, id int64) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, google_event_id, created_at
		FROM habit WHERE id = ?`, id)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %d: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(ctx context.Context, name string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, google_event_id, created_at
		FROM habit WHERE name = ? ORDER BY id LIMIT 1`, name)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) InsertHabit(ctx context.Context, name, eventID string) (models.Habit, error) {
	createdAt := time.Now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO habit (name, google_event_id, created_at) VALUES (?, ?, ?)`,
		name, nullableEventID(eventID), createdAt.Format(time.RFC3339))
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to insert habit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to read habit id: %w", err)
	}

	return models.Habit{
		ID:            id,
		Name:          name,
		GoogleEventID: eventID,
		CreatedAt:     createdAt,
	}, nil
}

func (s *Store) UpdateHabitName(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE habit SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return expectOneRow(res, "habit", id)
}

func (s *Store) SetHabitEventID(ctx context.Context, id int64, eventID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE habit SET google_event_id = ? WHERE id = ?`,
		nullableEventID(eventID), id)
	if err != nil {
		return fmt.Errorf("failed to update habit event id: %w", err)
	}
	return expectOneRow(res, "habit", id)
}

func (s *Store) DeleteHabit(ctx context.Context, id int64) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM habit_completion WHERE habit_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete completions: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM habit WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete habit: %w", err)
		}
		return expectOneRow(res, "habit", id)
	})
}

func expectOneRow(res sql.Result, what string, id int64) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", what, id, storage.ErrNotFound)
	}
	return nil
}

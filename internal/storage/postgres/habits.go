package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/storage"
)

const habitColumns = `id, name, google_event_id, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var eventID sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &eventID, &h.CreatedAt); err != nil {
		return models.Habit{}, err
	}
	h.GoogleEventID = eventID.String
	return h, nil
}

func nullableEventID(eventID string) sql.NullString {
	return sql.NullString{String: eventID, Valid: eventID != ""}
}

func (s *Store) ListHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+habitColumns+` FROM habit ORDER BY id`)
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
	h, err := scanHabit(s.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habit WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %d: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetHabitByName(ctx context.Context, name string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habit WHERE name = $1 ORDER BY id LIMIT 1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %q: %w", name, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) InsertHabit(ctx context.Context, name, eventID string) (models.Habit, error) {
	h, err := scanHabit(s.db.QueryRowContext(ctx, `
		INSERT INTO habit (name, google_event_id) VALUES ($1, $2)
		RETURNING `+habitColumns, name, nullableEventID(eventID)))
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to insert habit: %w", err)
	}
	return h, nil
}

func (s *Store) UpdateHabitName(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE habit SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return expectOneRow(res, "habit", id)
}

func (s *Store) SetHabitEventID(ctx context.Context, id int64, eventID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE habit SET google_event_id = $1 WHERE id = $2`,
		nullableEventID(eventID), id)
	if err != nil {
		return fmt.Errorf("failed to update habit event id: %w", err)
	}
	return expectOneRow(res, "habit", id)
}

func (s *Store) DeleteHabit(ctx context.Context, id int64) error {
	return storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM habit_completion WHERE habit_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete completions: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM habit WHERE id = $1`, id)
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

package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/storage"
)

func (s *Store) EnqueueSyncOp(ctx context.Context, op models.SyncOp) (int64, error) {
	if !storage.IsValidSyncOp(op.Op) {
		return 0, fmt.Errorf("invalid sync operation %q", op.Op)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO calendar_sync (habit_id, op, event_id, title, attempts, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		op.HabitID, string(op.Op), op.EventID, op.Title, op.Attempts, op.LastError,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue sync op: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) ListSyncOps(ctx context.Context) ([]models.SyncOp, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, op, event_id, title, attempts, last_error, created_at
		FROM calendar_sync ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync ops: %w", err)
	}
	defer rows.Close()

	ops := []models.SyncOp{}
	for rows.Next() {
		var op models.SyncOp
		var kind, createdAt string
		if err := rows.Scan(&op.ID, &op.HabitID, &kind, &op.EventID, &op.Title,
			&op.Attempts, &op.LastError, &createdAt); err != nil {
			return nil, err
		}
		op.Op = constants.SyncOpType(kind)
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for sync op %d: %w", op.ID, err)
		}
		op.CreatedAt = t
		ops = append(ops, op)
	}

	return ops, rows.Err()
}

func (s *Store) RecordSyncFailure(ctx context.Context, id int64, errMsg string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE calendar_sync SET attempts = attempts + 1, last_error = ? WHERE id = ?`,
		errMsg, id)
	if err != nil {
		return fmt.Errorf("failed to record sync failure: %w", err)
	}
	return expectOneRow(res, "sync op", id)
}

func (s *Store) DeleteSyncOp(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calendar_sync WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sync op: %w", err)
	}
	return expectOneRow(res, "sync op", id)
}

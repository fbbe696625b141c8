package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/habittracker/internal/calendar"
	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/logger"
	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/storage"
)

// errObsolete marks an outbox op that no longer has anything to do
var errObsolete = errors.New("sync op is obsolete")

// ReconcileReport summarizes a Reconcile run
type ReconcileReport struct {
	Attempted int `json:"attempted" yaml:"attempted"`
	Succeeded int `json:"succeeded" yaml:"succeeded"`
	Failed    int `json:"failed" yaml:"failed"`
	Dropped   int `json:"dropped" yaml:"dropped"`
}

func (s *Service) PendingSyncOps(ctx context.Context) ([]models.SyncOp, error) {
	return s.store.ListSyncOps(ctx)
}

// Reconcile retries every queued calendar operation in order. Successful and
// obsolete ops are removed; failures stay queued with their attempt count bumped.
func (s *Service) Reconcile(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	if !s.SyncEnabled() {
		return report, calendar.ErrDisabled
	}

	ops, err := s.store.ListSyncOps(ctx)
	if err != nil {
		return report, err
	}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Attempted++

		err := s.apply(ctx, op)
		switch {
		case err == nil:
			report.Succeeded++
			logger.Info("Calendar change synced", "op", op.Op, "habit", op.HabitID, "event", op.EventID)
		case errors.Is(err, errObsolete):
			report.Dropped++
			logger.Debug("Dropping obsolete calendar change", "op", op.Op, "habit", op.HabitID)
		default:
			report.Failed++
			logger.Warn("Calendar change still failing", "op", op.Op, "habit", op.HabitID, "error", err)
			if recErr := s.store.RecordSyncFailure(ctx, op.ID, err.Error()); recErr != nil {
				return report, recErr
			}
			if errors.Is(err, calendar.ErrNoToken) {
				// every remaining op would fail the same way
				return report, err
			}
			continue
		}

		if err := s.store.DeleteSyncOp(ctx, op.ID); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (s *Service) apply(ctx context.Context, op models.SyncOp) error {
	switch op.Op {
	case constants.SyncOpCreate:
		return s.applyCreate(ctx, op)
	case constants.SyncOpUpdate:
		habit, err := s.store.GetHabit(ctx, op.HabitID)
		if errors.Is(err, storage.ErrNotFound) {
			return errObsolete
		}
		if err != nil {
			return err
		}
		if !habit.HasEvent() {
			return errObsolete
		}
		return s.syncer.UpdateEvent(ctx, habit.GoogleEventID, habit.Name, constants.EventDescription)
	case constants.SyncOpDelete:
		if op.EventID == "" {
			return errObsolete
		}
		return s.syncer.DeleteEvent(ctx, op.EventID)
	}
	return fmt.Errorf("unknown sync operation %q", op.Op)
}

func (s *Service) applyCreate(ctx context.Context, op models.SyncOp) error {
	habit, err := s.store.GetHabit(ctx, op.HabitID)
	if errors.Is(err, storage.ErrNotFound) {
		// the original create may have reached the calendar before failing
		return s.syncer.DeleteEvent(ctx, op.EventID)
	}
	if err != nil {
		return err
	}
	if habit.HasEvent() {
		return errObsolete
	}

	ev := s.eventFor(habit.Name)
	if op.EventID != "" {
		ev.ID = op.EventID
	}
	eventID, err := s.syncer.AddEvent(ctx, ev)
	if err != nil {
		return err
	}
	if err := s.store.SetHabitEventID(ctx, habit.ID, eventID); err != nil {
		return fmt.Errorf("failed to record event id: %w", err)
	}
	return nil
}

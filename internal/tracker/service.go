// Package tracker composes the habit store with calendar side effects.
//
// Local state is authoritative. Calendar calls are best effort: a failure is
// logged, recorded in the sync outbox and never aborts the local change.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habittracker/internal/calendar"
	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/logger"
	"github.com/julianstephens/habittracker/internal/models"
	"github.com/julianstephens/habittracker/internal/storage"
)

var (
	// ErrEmptyName is returned when a habit name is blank after trimming
	ErrEmptyName = errors.New("habit name cannot be empty")
	// ErrDuplicateName is returned when another habit already has the name
	ErrDuplicateName = errors.New("a habit with this name already exists")
	// ErrInvalidRange is returned when a date range ends before it starts
	ErrInvalidRange = errors.New("start date is after end date")
)

// Options tune how habits are mirrored to the calendar
type Options struct {
	// EventDuration is the length of a mirrored event
	EventDuration time.Duration
	// EventHour is the local hour at which a mirrored event starts
	EventHour int
	// Recurring makes mirrored events repeat daily
	Recurring bool
	// Now defaults to time.Now
	Now func() time.Time
}

type Service struct {
	store  storage.Provider
	syncer calendar.Syncer
	opts   Options
}

// New returns a Service. A nil syncer disables calendar sync.
func New(store storage.Provider, syncer calendar.Syncer, opts Options) *Service {
	if syncer == nil {
		syncer = calendar.Disabled{}
	}
	if opts.EventDuration <= 0 {
		opts.EventDuration = constants.DefaultEventDuration
	}
	if opts.EventHour < 0 || opts.EventHour > 23 {
		opts.EventHour = constants.DefaultEventHour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: store, syncer: syncer, opts: opts}
}

func (s *Service) Store() storage.Provider {
	return s.store
}

// WithSyncer returns a copy of s that mirrors changes through syncer.
// A nil syncer disables calendar sync.
func (s *Service) WithSyncer(syncer calendar.Syncer) *Service {
	if syncer == nil {
		syncer = calendar.Disabled{}
	}
	clone := *s
	clone.syncer = syncer
	return &clone
}

// SyncEnabled reports whether a calendar is configured
func (s *Service) SyncEnabled() bool {
	_, disabled := s.syncer.(calendar.Disabled)
	return !disabled
}

func (s *Service) ListHabits(ctx context.Context) ([]models.Habit, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		logger.Error("Failed to list habits", "error", err)
		return nil, err
	}
	return habits, nil
}

func (s *Service) GetHabit(ctx context.Context, id int64) (models.Habit, error) {
	return s.store.GetHabit(ctx, id)
}

func (s *Service) GetHabitByName(ctx context.Context, name string) (models.Habit, error) {
	return s.store.GetHabitByName(ctx, strings.TrimSpace(name))
}

// CreateHabit stores a new habit and mirrors it to the calendar. The event id
// is chosen up front so a create that times out can be retried or cleaned up.
func (s *Service) CreateHabit(ctx context.Context, name string) (models.Habit, error) {
	name, err := s.checkName(ctx, name, 0)
	if err != nil {
		return models.Habit{}, err
	}

	ev := s.eventFor(name)
	eventID, syncErr := s.syncer.AddEvent(ctx, ev)
	if syncErr != nil {
		eventID = ""
		if !errors.Is(syncErr, calendar.ErrDisabled) {
			logger.Warn("Failed to create calendar event", "habit", name, "error", syncErr)
		}
	}

	// the habit is saved even when ctx ended during the calendar call
	local := context.WithoutCancel(ctx)
	habit, err := s.store.InsertHabit(local, name, eventID)
	if err != nil {
		logger.Error("Failed to save habit", "habit", name, "error", err)
		if eventID != "" {
			s.discardEvent(ctx, eventID, name)
		}
		return models.Habit{}, err
	}

	if syncErr != nil && !errors.Is(syncErr, calendar.ErrDisabled) {
		s.enqueue(local, models.SyncOp{
			HabitID:   habit.ID,
			Op:        constants.SyncOpCreate,
			EventID:   ev.ID,
			Title:     name,
			LastError: syncErr.Error(),
		})
	}

	logger.Info("Habit created", "habit", habit.ID, "name", habit.Name, "event", habit.GoogleEventID)
	return habit, nil
}

// RenameHabit changes the habit's name. Its id and completions are unchanged.
func (s *Service) RenameHabit(ctx context.Context, habit models.Habit, newName string) (models.Habit, error) {
	name, err := s.checkName(ctx, newName, habit.ID)
	if err != nil {
		return models.Habit{}, err
	}

	if err := s.store.UpdateHabitName(ctx, habit.ID, name); err != nil {
		logger.Error("Failed to rename habit", "habit", habit.ID, "error", err)
		return models.Habit{}, err
	}
	habit.Name = name

	if err := s.syncer.UpdateEvent(ctx, habit.GoogleEventID, name, constants.EventDescription); err != nil {
		logger.Warn("Failed to rename calendar event", "habit", habit.ID, "event", habit.GoogleEventID, "error", err)
		s.enqueue(ctx, models.SyncOp{
			HabitID:   habit.ID,
			Op:        constants.SyncOpUpdate,
			EventID:   habit.GoogleEventID,
			Title:     name,
			LastError: err.Error(),
		})
	}

	logger.Info("Habit renamed", "habit", habit.ID, "name", name)
	return habit, nil
}

// DeleteHabit removes the calendar event, then the habit and its completions.
// A failed remote delete is queued once the local delete has committed.
func (s *Service) DeleteHabit(ctx context.Context, habit models.Habit) error {
	remoteErr := s.syncer.DeleteEvent(ctx, habit.GoogleEventID)
	if remoteErr != nil {
		logger.Warn("Failed to delete calendar event", "habit", habit.ID, "event", habit.GoogleEventID, "error", remoteErr)
	}

	local := context.WithoutCancel(ctx)
	if err := s.store.DeleteHabit(local, habit.ID); err != nil {
		logger.Error("Failed to delete habit", "habit", habit.ID, "error", err)
		if remoteErr == nil && habit.HasEvent() {
			// the event is gone but the habit survived
			if clearErr := s.store.SetHabitEventID(local, habit.ID, ""); clearErr != nil {
				logger.Warn("Failed to clear event id", "habit", habit.ID, "error", clearErr)
			}
		}
		return err
	}

	if remoteErr != nil {
		s.enqueue(local, models.SyncOp{
			HabitID:   habit.ID,
			Op:        constants.SyncOpDelete,
			EventID:   habit.GoogleEventID,
			Title:     habit.Name,
			LastError: remoteErr.Error(),
		})
	}

	logger.Info("Habit deleted", "habit", habit.ID, "name", habit.Name)
	return nil
}

func (s *Service) checkName(ctx context.Context, name string, selfID int64) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}

	existing, err := s.store.GetHabitByName(ctx, name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return name, nil
	case err != nil:
		return "", fmt.Errorf("failed to check habit name: %w", err)
	case existing.ID != selfID:
		return "", fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	return name, nil
}

func (s *Service) eventFor(name string) calendar.Event {
	now := s.opts.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), s.opts.EventHour, 0, 0, 0, now.Location())
	ev := calendar.Event{
		ID:          calendar.NewEventID(),
		Title:       name,
		Description: constants.EventDescription,
		Start:       start,
		Duration:    s.opts.EventDuration,
	}
	if s.opts.Recurring {
		ev.Recurrence = []string{"RRULE:FREQ=DAILY"}
	}
	return ev
}

// discardEvent removes an event whose habit could not be saved
func (s *Service) discardEvent(ctx context.Context, eventID, name string) {
	err := s.syncer.DeleteEvent(ctx, eventID)
	if err == nil {
		return
	}
	logger.Warn("Orphaned calendar event", "event", eventID, "habit", name, "error", err)
	s.enqueue(ctx, models.SyncOp{
		Op:        constants.SyncOpDelete,
		EventID:   eventID,
		Title:     name,
		LastError: err.Error(),
	})
}

func (s *Service) enqueue(ctx context.Context, op models.SyncOp) {
	if _, err := s.store.EnqueueSyncOp(context.WithoutCancel(ctx), op); err != nil {
		logger.Error("Failed to record pending calendar change", "op", op.Op, "habit", op.HabitID, "error", err)
	}
}

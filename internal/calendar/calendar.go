// Package calendar mirrors habits to events in an external calendar.
//
// Every call may block on the provider (and, the first time credentials are
// needed, on the user completing an OAuth consent in a browser). Callers treat
// failures as non-fatal.
package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrDisabled is returned when calendar sync has not been configured
var ErrDisabled = errors.New("calendar sync is disabled")

// Event is the subset of a remote calendar event that mirrors a habit
type Event struct {
	// ID is optional. When set, the provider creates the event under this id,
	// which lets a caller record the id before the remote call returns.
	ID          string
	Title       string
	Description string
	Start       time.Time
	Duration    time.Duration
	// Recurrence holds RFC 5545 RRULE lines, e.g. "RRULE:FREQ=DAILY"
	Recurrence []string
}

// Syncer creates, renames and deletes remote events
type Syncer interface {
	AddEvent(ctx context.Context, ev Event) (string, error)
	// UpdateEvent is a no-op when eventID is empty
	UpdateEvent(ctx context.Context, eventID, title, description string) error
	// DeleteEvent is a no-op when eventID is empty
	DeleteEvent(ctx context.Context, eventID string) error
}

// NewEventID returns a provider-compatible event id. Google event ids use the
// base32hex alphabet (a-v, 0-9); a hex-encoded UUID is a subset of it.
func NewEventID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Disabled is a Syncer used when no calendar is configured
type Disabled struct{}

func (Disabled) AddEvent(context.Context, Event) (string, error) {
	return "", ErrDisabled
}

func (Disabled) UpdateEvent(_ context.Context, eventID, _, _ string) error {
	if eventID == "" {
		return nil
	}
	return ErrDisabled
}

func (Disabled) DeleteEvent(_ context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	return ErrDisabled
}

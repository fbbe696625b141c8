package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habittracker/internal/constants"
)

const calendarTokenUser = "calendar-oauth-token"

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString retrieves the database connection string from the OS keyring.
// Returns ErrNotFound if no credentials are stored.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// SetConnectionString stores the database connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return set(constants.DefaultKeyringUser, connStr)
}

// DeleteConnectionString removes the database connection string from the OS keyring.
func DeleteConnectionString() error {
	return del(constants.DefaultKeyringUser)
}

// GetCalendarToken retrieves the serialized OAuth token for the calendar provider.
func GetCalendarToken() (string, error) {
	return get(calendarTokenUser)
}

// SetCalendarToken stores the serialized OAuth token for the calendar provider.
func SetCalendarToken(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	return set(calendarTokenUser, token)
}

// DeleteCalendarToken removes the stored calendar OAuth token.
func DeleteCalendarToken() error {
	return del(calendarTokenUser)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}

func get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func set(user, secret string) error {
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func del(user string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

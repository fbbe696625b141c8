package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habittracker/internal/calendar"
	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/keyring"
	"github.com/julianstephens/habittracker/internal/logger"
	"github.com/julianstephens/habittracker/internal/storage"
	"github.com/julianstephens/habittracker/internal/storage/postgres"
	"github.com/julianstephens/habittracker/internal/storage/sqlite"
	"github.com/julianstephens/habittracker/internal/utils"
)

// connectionEnv holds a PostgreSQL connection string that may carry a password
const connectionEnv = "HABITTRACKER_DB_CONNECTION"

// resolveConfig picks the database. An explicit --config wins, then the
// environment, then the OS keyring, then the default SQLite file.
func resolveConfig(config string) (resolved string, trusted bool) {
	if config != constants.DefaultConfigPath {
		return config, false
	}
	if conn := os.Getenv(connectionEnv); conn != "" {
		return conn, true
	}
	conn, err := keyring.GetConnectionString()
	switch {
	case err == nil && conn != "":
		return conn, true
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		logger.Debug("Keyring unavailable", "error", err)
	}
	return config, false
}

// openStore builds the provider for config and returns the directory that
// holds logs and backups.
func openStore(config string) (storage.Provider, string, error) {
	defaultDir := filepath.Dir(utils.ExpandPath(constants.DefaultConfigPath))

	resolved, trusted := resolveConfig(config)
	if postgres.IsConnString(resolved) {
		if !trusted {
			if ok, err := postgres.ValidateConnString(resolved); !ok {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, "", fmt.Errorf("%w; store it with '%s keyring set' or export %s instead", err, constants.AppName, connectionEnv)
				}
				return nil, "", err
			}
		}
		return postgres.New(resolved), defaultDir, nil
	}

	path := utils.ExpandPath(resolved)
	return sqlite.NewStore(path), filepath.Dir(path), nil
}

func calendarConfig(flags CalendarFlags) calendar.GoogleConfig {
	var tokens calendar.TokenStore
	if flags.TokenStore == "keyring" {
		tokens = calendar.KeyringTokenStore{}
	} else {
		tokens = calendar.NewFileTokenStore(utils.ExpandPath(flags.TokenDir), constants.TokenFileName)
	}

	return calendar.GoogleConfig{
		CredentialsFile: utils.ExpandPath(flags.Credentials),
		CalendarID:      flags.CalendarID,
		Tokens:          tokens,
		Prompt: func(url string) {
			fmt.Fprintf(os.Stderr, "Open this URL in a browser to authorize calendar access:\n\n  %s\n\n", url)
		},
	}
}

// newSyncer returns nil, which disables sync, unless a client secret is present
func newSyncer(flags CalendarFlags, cfg calendar.GoogleConfig) calendar.Syncer {
	if flags.Disable {
		logger.Debug("Calendar sync disabled by flag")
		return nil
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		logger.Debug("Calendar sync disabled, no client secret", "path", cfg.CredentialsFile)
		return nil
	}
	return calendar.NewGoogleSyncer(cfg)
}

package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habittracker/internal/logger"
	"github.com/julianstephens/habittracker/internal/migration"
	"github.com/julianstephens/habittracker/internal/storage"
	"github.com/julianstephens/habittracker/migrations"
)

var (
	_ storage.Provider       = (*Store)(nil)
	_ storage.ProgressWriter = (*Store)(nil)
)

type Store struct {
	path string
	db   *sql.DB
	out  io.Writer
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// dsn enables foreign keys and waits on a locked database instead of failing fast
func (s *Store) dsn() string {
	return "file:" + s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One long-lived connection keeps transactions and pragmas on the same handle
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

// SetOutput redirects the migration progress printed by Init
func (s *Store) SetOutput(w io.Writer) {
	s.out = w
}

func (s *Store) output() io.Writer {
	if s.out == nil {
		return os.Stdout
	}
	return s.out
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.runMigrations(func(msg string) { fmt.Fprintln(s.output(), msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Load opens the database, creating it on first use, and brings the schema up to date.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		logger.Info("Creating database", "path", s.path)
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.validateSchemaVersion(); err != nil {
		return err
	}

	return s.runMigrations(func(msg string) { logger.Debug(msg) })
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

func (s *Store) runMigrations(logFn func(string)) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(logFn)
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// SchemaVersion reports the applied and the newest known migration
func (s *Store) SchemaVersion() (current, latest int, err error) {
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

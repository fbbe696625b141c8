// Package backup snapshots the SQLite habit database next to the live file.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/logger"
)

const (
	stampMinute = "20060102-1504"
	stampSecond = "20060102-150405"
)

// ErrNoDatabase is returned when the database file to back up is missing
var ErrNoDatabase = errors.New("database does not exist")

// Info describes one snapshot on disk
type Info struct {
	Path      string    `json:"path" yaml:"path"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Size      int64     `json:"size" yaml:"size"`
}

func (i Info) Name() string {
	return filepath.Base(i.Path)
}

// Manager creates, lists, rotates and restores snapshots of one database.
// Snapshots live in <db dir>/backups and at most Keep are retained.
type Manager struct {
	dbPath    string
	backupDir string
	Keep      int
	now       func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		Keep:      constants.MaxBackups,
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a consistent copy of the database with VACUUM INTO and
// prunes the oldest snapshots beyond Keep.
func (m *Manager) Create(ctx context.Context) (string, error) {
	path, err := m.snapshot(ctx)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate backups", "dir", m.backupDir, "error", err)
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

func (m *Manager) snapshot(ctx context.Context) (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNoDatabase, m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dest, err := m.nextPath()
	if err != nil {
		return "", err
	}

	src, err := sql.Open("sqlite", "file:"+m.dbPath+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer src.Close()

	if _, err := src.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	return dest, nil
}

// nextPath picks an unused file name, widening the timestamp to seconds and
// then adding a counter when snapshots are taken in quick succession.
func (m *Manager) nextPath() (string, error) {
	now := m.now()
	candidates := []string{now.Format(stampMinute), now.Format(stampSecond)}
	for i := 1; i <= 100; i++ {
		candidates = append(candidates, fmt.Sprintf("%s-%d", now.Format(stampSecond), i))
	}

	for _, stamp := range candidates {
		path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", errors.New("failed to generate unique backup filename")
}

// List returns snapshots newest first. Files that do not follow the naming
// scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stamp, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: stamp,
			Size:      fi.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	// drop a trailing -N counter
	if parts := strings.Split(stamp, "-"); len(parts) == 3 {
		stamp = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{stampMinute, stampSecond} {
		if t, err := time.ParseInLocation(layout, stamp, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.Keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Resolve finds a backup by absolute path, relative path or bare file name
// inside the backup directory.
func (m *Manager) Resolve(name string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = append(candidates, filepath.Join(m.backupDir, name))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return filepath.Abs(c)
		}
	}
	return "", fmt.Errorf("backup file not found: %s", name)
}

// Restore replaces the database with backupPath. The current database is
// snapshotted first. The caller must close any open store beforehand.
func (m *Manager) Restore(ctx context.Context, backupPath string) (string, error) {
	if err := verify(ctx, backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		previous, err = m.snapshot(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("Database restored", "from", backupPath, "previous", previous)
	return previous, nil
}

// verify checks that path is a SQLite database holding the habit table
func verify(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var n int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'habit'").Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("no habit table")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"001_init.sql": {Data: []byte(`
CREATE TABLE IF NOT EXISTS habit (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS habit_completion (id INTEGER PRIMARY KEY AUTOINCREMENT, habit_id INTEGER NOT NULL);
`)},
		"002_add_event.sql": {Data: []byte(`ALTER TABLE habit ADD COLUMN google_event_id TEXT;`)},
		"README.md":         {Data: []byte("not a migration")},
	}
}

func TestApplyMigrations(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, testFS(), SQLite)

	var messages []string
	applied, err := runner.ApplyMigrations(func(msg string) { messages = append(messages, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations() failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("ApplyMigrations() applied %d, want 2", applied)
	}
	if len(messages) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("GetCurrentVersion() = %d, want 2", version)
	}

	if _, err := db.Exec("INSERT INTO habit (name, google_event_id) VALUES ('Exercise', 'abc')"); err != nil {
		t.Errorf("migrated schema rejected insert: %v", err)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, testFS(), SQLite)

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("first ApplyMigrations() failed: %v", err)
	}
	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations() failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second ApplyMigrations() applied %d, want 0", applied)
	}
}

func TestFailedMigrationRollsBack(t *testing.T) {
	db := openTestDB(t)
	fsys := testFS()
	fsys["003_broken.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE broken (id INTEGER); THIS IS NOT SQL;`)}
	runner := NewRunner(db, fsys, SQLite)

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("ApplyMigrations() should fail on broken migration")
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2 before failure", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version after failed migration = %d, want 2", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		want    []int
		wantErr string
	}{
		{
			name: "sorted by version",
			fsys: fstest.MapFS{
				"010_late.sql":  {Data: []byte("SELECT 1;")},
				"002_mid.sql":   {Data: []byte("SELECT 1;")},
				"001_first.sql": {Data: []byte("SELECT 1;")},
			},
			want: []int{1, 2, 10},
		},
		{
			name:    "bad filename",
			fsys:    fstest.MapFS{"init.sql": {Data: []byte("SELECT 1;")}},
			wantErr: "invalid migration filename",
		},
		{
			name:    "zero version",
			fsys:    fstest.MapFS{"000_zero.sql": {Data: []byte("SELECT 1;")}},
			wantErr: "must be at least 1",
		},
		{
			name: "duplicate version",
			fsys: fstest.MapFS{
				"001_a.sql": {Data: []byte("SELECT 1;")},
				"001_b.sql": {Data: []byte("SELECT 1;")},
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(nil, tt.fsys, SQLite)
			migrations, err := runner.ReadMigrationFiles()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ReadMigrationFiles() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadMigrationFiles() failed: %v", err)
			}
			if len(migrations) != len(tt.want) {
				t.Fatalf("got %d migrations, want %d", len(migrations), len(tt.want))
			}
			for i, v := range tt.want {
				if migrations[i].Version != v {
					t.Errorf("migrations[%d].Version = %d, want %d", i, migrations[i].Version, v)
				}
			}
		})
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, testFS(), SQLite)

	if err := runner.EnsureSchemaVersionTable(); err != nil {
		t.Fatalf("EnsureSchemaVersionTable() failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (99)"); err != nil {
		t.Fatalf("failed to seed version: %v", err)
	}

	if err := runner.ValidateVersion(); err == nil {
		t.Error("ValidateVersion() should fail when database is newer than the application")
	}
}

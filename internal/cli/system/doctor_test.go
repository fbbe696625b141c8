package system

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/storage/sqlite"
	"github.com/julianstephens/habittracker/internal/tracker"
)

func setupTestDoctorDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	return &cli.Context{
		Ctx:     context.Background(),
		Store:   store,
		Tracker: tracker.New(store, nil, tracker.Options{}),
		Out:     &out,
	}, &out
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, out := setupTestDoctorDB(t)

	// missing backups and calendar setup are warnings
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "✓ Database reachable: OK") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("output = %q, want backup warning", out.String())
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, out := setupTestDoctorDB(t)

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to reset schema version: %v", err)
	}

	err := (&DoctorCmd{}).Run(ctx)
	if !errors.Is(err, ErrChecksFailed) {
		t.Fatalf("Run() error = %v, want ErrChecksFailed", err)
	}
	if !strings.Contains(out.String(), "❌ Schema version: FAIL") {
		t.Errorf("output = %q", out.String())
	}
}

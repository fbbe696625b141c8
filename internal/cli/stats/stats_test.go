package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/storage/sqlite"
	"github.com/julianstephens/habittracker/internal/tracker"
)

var fixedNow = time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

func newTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "stats.db"))
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := func() time.Time { return fixedNow }
	svc := tracker.New(store, nil, tracker.Options{Now: now})
	ctx := context.Background()
	exercise, err := svc.CreateHabit(ctx, "Exercise")
	if err != nil {
		t.Fatal(err)
	}
	read, err := svc.CreateHabit(ctx, "Read")
	if err != nil {
		t.Fatal(err)
	}
	marks := []struct {
		id  int64
		day time.Time
	}{
		{exercise.ID, fixedNow},
		{exercise.ID, fixedNow.AddDate(0, 0, -1)},
		{read.ID, fixedNow},
		{read.ID, fixedNow.AddDate(0, -1, 0)},
	}
	for _, m := range marks {
		if err := svc.MarkCompleted(ctx, m.id, m.day, true); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	return &cli.Context{Ctx: ctx, Store: store, Tracker: svc, Out: &out, Now: now}, &out
}

func TestStatsDaily_DefaultsToCurrentMonth(t *testing.T) {
	ctx, out := newTestContext(t)

	cmd := &StatsDailyCmd{RangeFlags{Format: cli.FormatJSON}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var rows []Count
	if err := json.Unmarshal(out.Bytes(), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	want := []Count{{"2025-06-14", 1}, {"2025-06-15", 2}}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v, want %+v", rows, want)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestStatsHabits_Range(t *testing.T) {
	ctx, out := newTestContext(t)

	cmd := &StatsHabitsCmd{RangeFlags{From: "2025-05-01", To: "2025-06-15"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "HABIT") || !strings.Contains(text, "Exercise  2") || !strings.Contains(text, "Read      2") {
		t.Errorf("output = %q", text)
	}
}

func TestStats_InvalidRange(t *testing.T) {
	ctx, _ := newTestContext(t)

	cmd := &StatsDailyCmd{RangeFlags{From: "2025-06-15", To: "2025-06-01"}}
	if err := cmd.Run(ctx); err == nil {
		t.Error("expected an error for a reversed range")
	}
}

func TestExport_ToFile(t *testing.T) {
	ctx, _ := newTestContext(t)
	path := filepath.Join(t.TempDir(), "export.yaml")

	cmd := &ExportCmd{From: "2025-06-01", To: "2025-06-15", Format: cli.FormatYAML, Output: path}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var snap tracker.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		t.Fatalf("export is not YAML: %v", err)
	}
	if len(snap.Habits) != 2 {
		t.Fatalf("habits = %d, want 2", len(snap.Habits))
	}
	if snap.Habits[0].Name != "Exercise" || snap.Habits[0].Streak != 2 {
		t.Errorf("Exercise = %+v", snap.Habits[0])
	}
}

package system

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/storage/sqlite"
)

func newInitStore(t *testing.T, name string) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), name))
	store.SetOutput(&bytes.Buffer{})
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize %s: %v", name, err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitCmd_ReportsMigrationsToCommandOutput(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habits.db"))
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	ctx := &cli.Context{Ctx: context.Background(), Store: store, Out: &out}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Applying", "Migration 1", "Initialized habittracker storage at:"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestCopyData(t *testing.T) {
	ctx := context.Background()

	src := newInitStore(t, "src.db")
	read, err := src.InsertHabit(ctx, "Read", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := src.MarkCompleted(ctx, read.ID, "2025-06-14", true); err != nil {
		t.Fatal(err)
	}
	if _, err := src.InsertHabit(ctx, "Walk", "evt-walk"); err != nil {
		t.Fatal(err)
	}

	t.Run("copies habits and completions", func(t *testing.T) {
		dst := newInitStore(t, "dst.db")
		habits, completions, err := copyData(ctx, src, dst)
		if err != nil {
			t.Fatalf("copyData failed: %v", err)
		}
		if habits != 2 || completions != 1 {
			t.Errorf("copied %d habits and %d completions, want 2 and 1", habits, completions)
		}
		walk, err := dst.GetHabitByName(ctx, "Walk")
		if err != nil {
			t.Fatal(err)
		}
		if walk.GoogleEventID != "evt-walk" {
			t.Errorf("event id = %q, want evt-walk", walk.GoogleEventID)
		}
	})

	t.Run("conflict leaves destination untouched", func(t *testing.T) {
		dst := newInitStore(t, "conflict.db")
		if _, err := dst.InsertHabit(ctx, "Walk", ""); err != nil {
			t.Fatal(err)
		}

		if _, _, err := copyData(ctx, src, dst); err == nil || !strings.Contains(err.Error(), `"Walk" already exists`) {
			t.Fatalf("copyData error = %v, want conflict on Walk", err)
		}
		list, err := dst.ListHabits(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 {
			t.Errorf("destination has %d habits after conflict, want 1", len(list))
		}
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		dst := newInitStore(t, "closed.db")
		dst.GetDB().Close()

		_, _, err := copyData(ctx, src, dst)
		if err == nil || !strings.Contains(err.Error(), "failed to check destination") {
			t.Fatalf("copyData error = %v, want lookup failure", err)
		}
	})
}

package habits

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habittracker/internal/calendar"
	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/storage/sqlite"
	"github.com/julianstephens/habittracker/internal/tracker"
)

var fixedNow = time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

func newTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habits.db"))
	if err := store.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	now := func() time.Time { return fixedNow }
	var out bytes.Buffer
	return &cli.Context{
		Ctx:     context.Background(),
		Store:   store,
		Tracker: tracker.New(store, nil, tracker.Options{Now: now}),
		Out:     &out,
		Now:     now,
	}, &out
}

// offlineCalendar fails every call as an unreachable calendar would
type offlineCalendar struct{}

var errOffline = errors.New("calendar unreachable")

func (offlineCalendar) AddEvent(context.Context, calendar.Event) (string, error) {
	return "", errOffline
}

func (offlineCalendar) UpdateEvent(context.Context, string, string, string) error {
	return errOffline
}

func (offlineCalendar) DeleteEvent(context.Context, string) error {
	return errOffline
}

func TestHabitAddCmd_WarnsWhenEventNotCreated(t *testing.T) {
	ctx, out := newTestContext(t)
	ctx.Tracker = ctx.Tracker.WithSyncer(offlineCalendar{})

	if err := (&HabitAddCmd{Name: "Stretch"}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Added habit: Stretch") {
		t.Errorf("output = %q", got)
	}
	if !strings.Contains(got, "Warning: calendar event not created; run 'habittracker calendar sync' to retry") {
		t.Errorf("output = %q, want calendar warning", got)
	}
}

func TestHabitWorkflow(t *testing.T) {
	ctx, out := newTestContext(t)

	for _, name := range []string{"Exercise", "Read"} {
		if err := (&HabitAddCmd{Name: name}).Run(ctx); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	if !strings.Contains(out.String(), "Added habit: Read (id 2)") {
		t.Errorf("add output = %q", out.String())
	}
	if err := (&HabitAddCmd{Name: "Read"}).Run(ctx); err == nil {
		t.Error("duplicate add succeeded")
	}

	out.Reset()
	if err := (&HabitMarkCmd{Habit: "Exercise"}).Run(ctx); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !strings.Contains(out.String(), "Exercise marked done for 2025-06-15") {
		t.Errorf("mark output = %q", out.String())
	}
	if err := (&HabitMarkCmd{Habit: "2", Date: "2025-06-14"}).Run(ctx); err != nil {
		t.Fatalf("mark by id: %v", err)
	}

	out.Reset()
	if err := (&TodayCmd{}).Run(ctx); err != nil {
		t.Fatalf("today: %v", err)
	}
	if !strings.Contains(out.String(), "1/2 habits completed") {
		t.Errorf("today output = %q", out.String())
	}

	out.Reset()
	if err := (&TodayCmd{Date: "2025-06-14"}).Run(ctx); err != nil {
		t.Fatalf("today --date: %v", err)
	}
	if !strings.Contains(out.String(), "Saturday, June 14 2025") || !strings.Contains(out.String(), "1/2 habits completed") {
		t.Errorf("yesterday output = %q", out.String())
	}

	out.Reset()
	if err := (&HabitListCmd{Format: cli.FormatJSON}).Run(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	var rows []HabitRow
	if err := json.Unmarshal(out.Bytes(), &rows); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, out.String())
	}
	if len(rows) != 2 {
		t.Fatalf("list returned %d rows, want 2", len(rows))
	}
	if !rows[0].DoneToday || rows[0].Streak != 1 {
		t.Errorf("Exercise row = %+v", rows[0])
	}
	if rows[1].DoneToday || rows[1].Streak != 1 {
		t.Errorf("Read row = %+v", rows[1])
	}
}

func TestHabitRenameAndDelete(t *testing.T) {
	ctx, out := newTestContext(t)
	if err := (&HabitAddCmd{Name: "Read"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&HabitRenameCmd{Habit: "Read", Name: "Read 20 pages"}).Run(ctx); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !strings.Contains(out.String(), `Renamed "Read" to "Read 20 pages"`) {
		t.Errorf("rename output = %q", out.String())
	}

	if err := (&HabitDeleteCmd{Habit: "Read", Yes: true}).Run(ctx); err == nil {
		t.Error("delete by old name succeeded")
	}
	if err := (&HabitDeleteCmd{Habit: "Read 20 pages", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}

	habits, err := ctx.Tracker.ListHabits(ctx.Context())
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 0 {
		t.Errorf("habits after delete = %+v", habits)
	}
}

func TestMonthCmd_Plain(t *testing.T) {
	ctx, out := newTestContext(t)
	if err := (&HabitAddCmd{Name: "Exercise"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&HabitMarkCmd{Habit: "Exercise", Date: "2025-06-03"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&MonthCmd{Plain: true}).Run(ctx); err != nil {
		t.Fatalf("month: %v", err)
	}
	if !strings.Contains(out.String(), "June 2025") || !strings.Contains(out.String(), " 3 1/1") {
		t.Errorf("month output = %q", out.String())
	}
}

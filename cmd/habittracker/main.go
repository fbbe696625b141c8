package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/cli/backups"
	"github.com/julianstephens/habittracker/internal/cli/calendars"
	"github.com/julianstephens/habittracker/internal/cli/habits"
	"github.com/julianstephens/habittracker/internal/cli/stats"
	"github.com/julianstephens/habittracker/internal/cli/system"
	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/errors"
	"github.com/julianstephens/habittracker/internal/logger"
	"github.com/julianstephens/habittracker/internal/tracker"
	"github.com/julianstephens/habittracker/internal/utils"
)

// CalendarFlags configure the Google Calendar mirror
type CalendarFlags struct {
	Credentials   string        `name:"calendar-credentials" help:"OAuth client secret file for Google Calendar." type:"path" default:"${credentials}" env:"HABITTRACKER_CALENDAR_CREDENTIALS"`
	TokenDir      string        `name:"calendar-token-dir" help:"Directory holding the OAuth token when --calendar-token-store=file." type:"path" default:"${token_dir}" env:"HABITTRACKER_CALENDAR_TOKEN_DIR"`
	TokenStore    string        `name:"calendar-token-store" help:"Where to keep the OAuth token (${enum})." enum:"file,keyring" default:"file" env:"HABITTRACKER_CALENDAR_TOKEN_STORE"`
	CalendarID    string        `name:"calendar-id" help:"Calendar that receives habit events." default:"${calendar_id}" env:"HABITTRACKER_CALENDAR_ID"`
	EventHour     int           `name:"calendar-event-hour" help:"Hour of day (0-23) at which habit events start." default:"${event_hour}"`
	EventDuration time.Duration `name:"calendar-event-duration" help:"Length of habit events." default:"${event_duration}"`
	Recurring     bool          `name:"calendar-recurring" help:"Create habit events as daily recurring events."`
	Disable       bool          `name:"no-calendar" help:"Do not mirror habits to Google Calendar." env:"HABITTRACKER_NO_CALENDAR"`
}

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL passwords must NOT be embedded; use the OS keyring, HABITTRACKER_DB_CONNECTION, or .pgpass instead." type:"string" default:"${config}" env:"HABITTRACKER_CONFIG"`
	Debug   bool   `help:"Log debug output to stderr."`
	// Timezone decides which calendar day "today" is
	Timezone string `help:"IANA timezone for today, streaks and event times." default:"Local" env:"HABITTRACKER_TIMEZONE"`

	CalendarOpts CalendarFlags `embed:""`

	Init     system.InitCmd        `cmd:"" help:"Initialize habittracker storage."`
	Doctor   system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd         `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Habit    habits.HabitCmd       `cmd:"" help:"Manage habits and mark them done."`
	Today    habits.TodayCmd       `cmd:"" help:"Show today's habits and progress."`
	Month    habits.MonthCmd       `cmd:"" help:"Show the completion grid for a month."`
	Stats    stats.StatsCmd        `cmd:"" help:"Show completion counts over a date range."`
	Export   stats.ExportCmd       `cmd:"" help:"Export habits and completion history."`
	Calendar calendars.CalendarCmd `cmd:"" help:"Manage the Google Calendar mirror."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Track daily habits and mirror them to Google Calendar"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, constants.DefaultConfigFile),
		kong.Vars{
			"version":        constants.Version,
			"config":         constants.DefaultConfigPath,
			"credentials":    constants.DefaultCredentialsFile,
			"token_dir":      constants.DefaultTokenDir,
			"calendar_id":    constants.DefaultCalendarID,
			"event_hour":     "9",
			"event_duration": constants.DefaultEventDuration.String(),
		},
	)

	now, err := utils.Clock(CLI.Timezone)
	if err != nil {
		errors.Fatal(err)
	}

	store, configDir, err := openStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatal(err)
	}
	logger.Debug("Starting", "version", constants.Version, "command", ctx.Command(), "store", store.GetConfigPath())

	// init creates the schema itself and keyring never touches the database
	if needsStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	defer store.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	calCfg := calendarConfig(CLI.CalendarOpts)
	svc := tracker.New(store, newSyncer(CLI.CalendarOpts, calCfg), tracker.Options{
		EventDuration: CLI.CalendarOpts.EventDuration,
		EventHour:     CLI.CalendarOpts.EventHour,
		Recurring:     CLI.CalendarOpts.Recurring,
		Now:           now,
	})

	appCtx := &cli.Context{
		Ctx:      runCtx,
		Store:    store,
		Tracker:  svc,
		Calendar: calCfg,
		Now:      now,
	}

	if err := ctx.Run(appCtx); err != nil {
		stop()
		store.Close()
		errors.Fatal(err)
	}
}

func needsStore(command string) bool {
	return !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "keyring")
}

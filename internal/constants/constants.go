package constants

import "time"

// SyncOpType is the kind of calendar operation recorded in the sync outbox
type SyncOpType string

const (
	AppName            = "habittracker"
	DisplayName        = "Habit Tracker"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habittracker/habittracker.db"
	DefaultConfigFile  = "~/.config/habittracker/config.json"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat identifies a calendar month (YYYY-MM)
	MonthFormat = "2006-01"

	// Calendar defaults
	DefaultCalendarID      = "primary"
	DefaultCredentialsFile = "~/.config/habittracker/credentials.json"
	DefaultTokenDir        = "~/.config/habittracker/tokens"
	TokenFileName          = "token.json"
	DefaultEventDuration   = 30 * time.Minute
	DefaultEventHour       = 9
	EventDescription       = "Tracked habit"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habittracker-"
	BackupFileSuffix = ".db"

	// Sync outbox operations
	SyncOpCreate SyncOpType = "create"
	SyncOpUpdate SyncOpType = "update"
	SyncOpDelete SyncOpType = "delete"
)

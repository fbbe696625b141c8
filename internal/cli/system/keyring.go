package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habittracker/internal/cli"
	"github.com/julianstephens/habittracker/internal/keyring"
	"github.com/julianstephens/habittracker/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
}

// KeyringSetCmd stores database connection credentials in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !postgres.IsConnString(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	out := ctx.Stdout()
	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so an embedded password is acceptable here
		fmt.Fprintln(out, cli.WarningStyle.Render("Warning: connection string contains embedded credentials; storing it in the OS keyring."))
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Fprintf(out, "%s Connection string stored in OS keyring\n", cli.SuccessStyle.Render("✓"))
	fmt.Fprintln(out, "  habittracker will use it when --config is not given")
	return nil
}

// KeyringGetCmd retrieves database connection credentials from the OS keyring
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'habittracker keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	fmt.Fprintln(ctx.Stdout(), maskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes database connection credentials from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Fprintf(ctx.Stdout(), "%s Connection string deleted from OS keyring\n", cli.SuccessStyle.Render("✓"))
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	out := ctx.Stdout()
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available on this system")
	}
	fmt.Fprintf(out, "%s OS keyring is available\n", cli.SuccessStyle.Render("✓"))

	for _, item := range []struct {
		label string
		get   func() (string, error)
	}{
		{"Connection string", keyring.GetConnectionString},
		{"Calendar token", keyring.GetCalendarToken},
	} {
		_, err := item.get()
		switch {
		case err == nil:
			fmt.Fprintf(out, "  %s: stored\n", item.label)
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Fprintf(out, "  %s: not stored\n", item.label)
		default:
			fmt.Fprintf(out, "  %s: %v\n", item.label, err)
		}
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}

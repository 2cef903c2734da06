package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/cli/backups"
	"github.com/julianstephens/moodlog/internal/cli/mood"
	"github.com/julianstephens/moodlog/internal/cli/schedules"
	"github.com/julianstephens/moodlog/internal/cli/settings"
	"github.com/julianstephens/moodlog/internal/cli/system"
	"github.com/julianstephens/moodlog/internal/constants"
	apperrors "github.com/julianstephens/moodlog/internal/errors"
	"github.com/julianstephens/moodlog/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL passwords must NOT be embedded; use the OS keyring, PGPASSWORD or .pgpass instead." env:"MOODLOG_CONFIG" default:"${default_config}"`
	Debug   bool   `help:"Enable debug logging to stderr." env:"MOODLOG_DEBUG"`

	Init     system.InitCmd     `cmd:"" help:"Initialize moodlog storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Run      system.RunCmd      `cmd:"" help:"Run the reminder and auto-save dispatcher in the foreground."`
	Validate system.ValidateCmd `cmd:"" help:"Check mood records and the reminder schedule for inconsistencies."`
	Mood     struct {
		Log  mood.LogCmd  `cmd:"" help:"Record a morning or evening mood." default:"1"`
		Show mood.ShowCmd `cmd:"" help:"Show the moods recorded for a day."`
		List mood.ListCmd `cmd:"" help:"List recorded moods."`
	} `cmd:"" help:"Record and review moods."`
	Schedule struct {
		Show     schedules.ShowCmd     `cmd:"" help:"Show reminder times." default:"1"`
		Set      schedules.SetCmd      `cmd:"" help:"Change the base reminder times."`
		Override schedules.OverrideCmd `cmd:"" help:"Set reminder times for a single day."`
		Clear    schedules.ClearCmd    `cmd:"" help:"Remove the override for a day."`
	} `cmd:"" help:"Manage reminder times."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Twice-daily mood journal with reminders and automatic day rollover"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	command := ctx.Command()

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:      CLI.Debug,
		ConfigDir:  cli.ConfigDir(store),
		Foreground: command == "run",
	}); err != nil {
		// Logging is best effort; commands still run with the nil-safe logger.
		fmt.Fprintln(os.Stderr, apperrors.Formatf("failed to initialize logger: %v", err))
	}

	appCtx := &cli.Context{Store: store, Debug: CLI.Debug}

	// init opens the store itself; keyring commands never touch it.
	if command != "init" && !strings.HasPrefix(command, "keyring") {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
		if err := appCtx.Bind(context.Background()); err != nil {
			apperrors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

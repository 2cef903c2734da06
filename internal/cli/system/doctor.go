package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/moodlog/internal/backup"
	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/keyring"
	"github.com/julianstephens/moodlog/internal/notifier"
	"github.com/julianstephens/moodlog/internal/storage/sqlite"
	"github.com/julianstephens/moodlog/internal/utils"
	"github.com/julianstephens/moodlog/internal/validation"
)

type DoctorCmd struct{}

type checkLevel int

const (
	levelFail checkLevel = iota
	levelWarn
	levelInfo
)

type check struct {
	name     string
	level    checkLevel
	needsDB  bool
	run      func(context.Context, *cli.Context) error
}

// trayProbe is replaced in tests.
var trayProbe = func() error { return notifier.New().Available() }

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	bg := context.Background()
	checks := []check{
		{name: "Schema version", level: levelFail, needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", level: levelFail, needsDB: true, run: checkMigrationsComplete},
		{name: "Backups present", level: levelWarn, run: checkBackupsPresent},
		{name: "Mood records", level: levelFail, needsDB: true, run: checkRecords},
		{name: "Reminder schedule", level: levelWarn, needsDB: true, run: checkSchedule},
		{name: "Settings", level: levelFail, needsDB: true, run: checkSettings},
		{name: "Clock/timezone", level: levelFail, run: checkClockTimezone},
		{name: "Tray app", level: levelWarn, run: checkTrayApp},
		{name: "OS keyring", level: levelInfo, run: checkKeyring},
	}

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(bg, ctx)
		if err == nil {
			fmt.Printf("✓ %s: OK\n", c.name)
			continue
		}
		switch c.level {
		case levelWarn:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		case levelInfo:
			fmt.Printf("ℹ %s: %v\n", c.name, err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if store, ok := ctx.Store.(*sqlite.Store); ok {
		db := store.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(_ context.Context, ctx *cli.Context) error {
	current, latest, err := ctx.Store.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(_ context.Context, ctx *cli.Context) error {
	current, latest, err := ctx.Store.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'moodlog migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(_ context.Context, ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'moodlog backup create'")
	}
	return nil
}

func checkRecords(bg context.Context, ctx *cli.Context) error {
	recs, err := ctx.Store.GetMoodRecords(bg, "0001-01-01", "9999-12-31")
	if err != nil {
		return fmt.Errorf("failed to get mood records: %w", err)
	}
	return conflictsError(validation.New(ctx.Now()).ValidateRecords(recs))
}

func checkSchedule(bg context.Context, ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(bg)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	overrides, err := ctx.Store.GetScheduleOverrides(bg)
	if err != nil {
		return fmt.Errorf("failed to get schedule overrides: %w", err)
	}
	return conflictsError(validation.New(ctx.Now()).ValidateSchedule(settings, overrides))
}

func conflictsError(result validation.ValidationResult) error {
	if !result.HasConflicts() {
		return nil
	}
	first := result.Conflicts[0].Description
	if n := len(result.Conflicts); n > 1 {
		return fmt.Errorf("%s (and %d more, run 'moodlog validate')", first, n-1)
	}
	return errors.New(first)
}

func checkSettings(bg context.Context, ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(bg)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	if settings.TickIntervalSec < 1 || settings.ReminderWindowMin < 1 || settings.ProviderTimeoutSec < 1 {
		return fmt.Errorf("tick interval, reminder window and provider timeout must all be positive")
	}
	return nil
}

func checkClockTimezone(context.Context, *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkTrayApp(context.Context, *cli.Context) error {
	if err := trayProbe(); err != nil {
		return fmt.Errorf("reminders will only be logged: %w", err)
	}
	return nil
}

func checkKeyring(context.Context, *cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("not available on this system")
	}
	return nil
}

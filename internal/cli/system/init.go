package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/storage"
	"github.com/julianstephens/moodlog/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing SQLite database before initializing."`
	Source string `help:"Database path or connection string to copy settings, records and overrides from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized moodlog storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyFrom(context.Background(), ctx.Store, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force is only supported for SQLite storage")
	}
	dbPath := ctx.Store.GetConfigPath()

	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSrc, errSrc := filepath.Abs(c.Source)
		if errDB == nil && errSrc == nil && absDB == absSrc {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) copyFrom(ctx context.Context, dst storage.Provider, source string) error {
	src, err := cli.OpenStore(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	fmt.Println("  Copying settings...")
	settings, err := src.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Copying mood records...")
	recs, err := src.GetMoodRecords(ctx, "0001-01-01", "9999-12-31")
	if err != nil {
		return fmt.Errorf("failed to get records from source: %w", err)
	}
	for _, r := range recs {
		if err := dst.SaveMoodRecord(ctx, r); err != nil {
			return fmt.Errorf("failed to save record for %s: %w", r.Date, err)
		}
	}
	fmt.Printf("    Copied %d records\n", len(recs))

	fmt.Println("  Copying schedule overrides...")
	overrides, err := src.GetScheduleOverrides(ctx)
	if err != nil {
		return fmt.Errorf("failed to get overrides from source: %w", err)
	}
	for _, o := range overrides {
		if err := dst.SaveScheduleOverride(ctx, o); err != nil {
			return fmt.Errorf("failed to save override for %s: %w", o.Date, err)
		}
	}
	fmt.Printf("    Copied %d overrides\n", len(overrides))
	return nil
}

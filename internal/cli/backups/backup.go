package backups

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/moodlog/internal/backup"
	"github.com/julianstephens/moodlog/internal/cli"
	"github.com/julianstephens/moodlog/internal/constants"
	"github.com/julianstephens/moodlog/internal/storage/sqlite"
)

func manager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite storage; use pg_dump for PostgreSQL")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	info, err := mgr.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", info.Name)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		fmt.Printf("  %s  %s  %s\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name, cli.MutedStyle.Render(fmt.Sprintf("(%.1f KB)", sizeKB)))
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Backup file name (from 'backup list') or path."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	path := mgr.Resolve(c.BackupFile)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("backup file not found: %s", path)
	}

	if !c.Yes {
		fmt.Println(cli.WarningStyle.Render("This replaces your current database with the backup."))
		fmt.Println(cli.WarningStyle.Render("Stop 'moodlog run' before restoring."))
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Restore from %s?", path)).
			Description("A backup of the current database is created first.").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database connection: %v\n", err)
	}

	previous, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if previous.Name != "" {
		fmt.Printf("Previous database saved as: %s\n", previous.Name)
	}
	fmt.Println("✓ Database restored successfully!")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/moodlog/internal/backup"
	"github.com/julianstephens/moodlog/internal/logger"
	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/records"
	"github.com/julianstephens/moodlog/internal/schedule"
	"github.com/julianstephens/moodlog/internal/storage"
	"github.com/julianstephens/moodlog/internal/storage/sqlite"
	"github.com/julianstephens/moodlog/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Store    storage.Provider
	Records  *records.Service
	Schedule *schedule.Service
	Location *time.Location
	Debug    bool
}

// Bind loads settings from the opened store and wires the record and
// schedule providers to the configured timezone.
func (c *Context) Bind(ctx context.Context) error {
	settings, err := c.Store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, using local time", "timezone", settings.Timezone, "error", err)
		loc = time.Local
	}

	c.Location = loc
	c.Records = records.New(c.Store, c.Now)
	c.Schedule = schedule.New(c.Store, c.Now)
	return nil
}

// Now is the current time in the configured timezone.
func (c *Context) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

func (c *Context) Today() string {
	return utils.DateOf(c.Now())
}

func (c *Context) Settings(ctx context.Context) (models.Settings, error) {
	return c.Store.GetSettings(ctx)
}

// PerformAutomaticBackup snapshots a SQLite store. Failures are logged only.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

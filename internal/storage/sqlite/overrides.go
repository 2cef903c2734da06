package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/storage"
)

func (s *Store) GetScheduleOverrides(ctx context.Context) ([]models.ScheduleOverride, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, morning_time, evening_time, created_at
		FROM schedule_overrides
		ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []models.ScheduleOverride
	for rows.Next() {
		var o models.ScheduleOverride
		var morning, evening sql.NullString
		var createdAt string
		if err := rows.Scan(&o.ID, &o.Date, &morning, &evening, &createdAt); err != nil {
			return nil, err
		}
		o.MorningTime = morning.String
		o.EveningTime = evening.String
		if t, err := storage.ParseTimestamp(createdAt); err == nil {
			o.CreatedAt = t
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func (s *Store) SaveScheduleOverride(ctx context.Context, o models.ScheduleOverride) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// one override per date; the newest wins
	if _, err := tx.ExecContext(ctx, "DELETE FROM schedule_overrides WHERE date = ?", o.Date); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedule_overrides (id, date, morning_time, evening_time, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Date, nullIfEmpty(o.MorningTime), nullIfEmpty(o.EveningTime), storage.FormatTimestamp(o.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save override for %s: %w", o.Date, err)
	}
	return tx.Commit()
}

func (s *Store) DeleteScheduleOverride(ctx context.Context, date string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM schedule_overrides WHERE date = ?", date)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteExpiredScheduleOverrides(ctx context.Context, beforeDate string, createdBefore time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM schedule_overrides WHERE date < ? OR created_at < ?",
		beforeDate, storage.FormatTimestamp(createdBefore))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

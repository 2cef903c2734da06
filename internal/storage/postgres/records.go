package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/moodlog/internal/models"
	"github.com/julianstephens/moodlog/internal/storage"
)

const recordColumns = "date, morning_mood, evening_mood, morning_at, evening_at, auto_saved, updated_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (models.MoodRecord, error) {
	var rec models.MoodRecord
	var morning, evening sql.NullInt64
	var morningAt, eveningAt sql.NullString
	var updatedAt string

	if err := row.Scan(&rec.Date, &morning, &evening, &morningAt, &eveningAt, &rec.AutoSaved, &updatedAt); err != nil {
		return models.MoodRecord{}, err
	}

	if morning.Valid {
		rec.MorningMood = models.IntPtr(int(morning.Int64))
	}
	if evening.Valid {
		rec.EveningMood = models.IntPtr(int(evening.Int64))
	}
	if morningAt.Valid {
		if t, err := storage.ParseTimestamp(morningAt.String); err == nil {
			rec.MorningAt = &t
		}
	}
	if eveningAt.Valid {
		if t, err := storage.ParseTimestamp(eveningAt.String); err == nil {
			rec.EveningAt = &t
		}
	}
	if t, err := storage.ParseTimestamp(updatedAt); err == nil {
		rec.UpdatedAt = t
	}
	return rec, nil
}

func (s *Store) GetMoodRecord(ctx context.Context, date string) (models.MoodRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM mood_records WHERE date = $1", date)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MoodRecord{}, storage.ErrNotFound
		}
		return models.MoodRecord{}, fmt.Errorf("failed to get mood record for %s: %w", date, err)
	}
	return rec, nil
}

func (s *Store) SaveMoodRecord(ctx context.Context, rec models.MoodRecord) error {
	var morning, evening sql.NullInt64
	var morningAt, eveningAt sql.NullString
	if rec.MorningMood != nil {
		morning = sql.NullInt64{Int64: int64(*rec.MorningMood), Valid: true}
	}
	if rec.EveningMood != nil {
		evening = sql.NullInt64{Int64: int64(*rec.EveningMood), Valid: true}
	}
	if rec.MorningAt != nil {
		morningAt = sql.NullString{String: storage.FormatTimestamp(*rec.MorningAt), Valid: true}
	}
	if rec.EveningAt != nil {
		eveningAt = sql.NullString{String: storage.FormatTimestamp(*rec.EveningAt), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mood_records (`+recordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date) DO UPDATE SET
			morning_mood = EXCLUDED.morning_mood,
			evening_mood = EXCLUDED.evening_mood,
			morning_at = EXCLUDED.morning_at,
			evening_at = EXCLUDED.evening_at,
			auto_saved = EXCLUDED.auto_saved,
			updated_at = EXCLUDED.updated_at`,
		rec.Date, morning, evening, morningAt, eveningAt, rec.AutoSaved, storage.FormatTimestamp(rec.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to save mood record for %s: %w", rec.Date, err)
	}
	return nil
}

func (s *Store) GetMoodRecords(ctx context.Context, startDate, endDate string) ([]models.MoodRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM mood_records WHERE date >= $1 AND date <= $2 ORDER BY date",
		startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.MoodRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

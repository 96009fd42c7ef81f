// ABOUTME: SQLite persistence for the per-day body measurement series
// ABOUTME: Same-day writes merge into one row through an atomic upsert

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const trackingColumns = `id, user_id, weight_kg, muscle_mass_kg, body_fat_percentage, bmr_calories, tdee_calories, recorded_date, created_at`

// RecordTracking writes sample into the row for (userID, date). The row is
// created if missing, otherwise supplied values overwrite and omitted values
// are kept. The UNIQUE(user_id, recorded_date) index makes concurrent writers
// for the same day converge on one row.
func (s *SQLiteStore) RecordTracking(ctx context.Context, userID, date string, sample TrackingSample) (*ProfileTracking, error) {
	query := `
		INSERT INTO profile_tracking (id, user_id, weight_kg, muscle_mass_kg, body_fat_percentage, recorded_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, recorded_date) DO UPDATE SET
			weight_kg = COALESCE(excluded.weight_kg, profile_tracking.weight_kg),
			muscle_mass_kg = COALESCE(excluded.muscle_mass_kg, profile_tracking.muscle_mass_kg),
			body_fat_percentage = COALESCE(excluded.body_fat_percentage, profile_tracking.body_fat_percentage)
		RETURNING ` + trackingColumns

	row := s.db.QueryRowContext(ctx, query,
		uuid.New().String(),
		userID,
		nullFloat(sample.WeightKG),
		nullFloat(sample.MuscleMassKG),
		nullFloat(sample.BodyFatPercentage),
		date,
		s.timestamp(),
	)
	t, err := scanTracking(row)
	if err != nil {
		return nil, fmt.Errorf("recording tracking: %w", err)
	}

	s.logger.Debug("recorded tracking", "user_id", userID, "date", date, "id", t.ID)
	return t, nil
}

// SetTrackingMetrics stores derived BMR/TDEE on a tracking row owned by userID.
func (s *SQLiteStore) SetTrackingMetrics(ctx context.Context, userID, trackingID string, bmr, tdee int) (*ProfileTracking, error) {
	query := `
		UPDATE profile_tracking SET bmr_calories = ?, tdee_calories = ?
		WHERE id = ? AND user_id = ?
		RETURNING ` + trackingColumns

	t, err := scanTracking(s.db.QueryRowContext(ctx, query, bmr, tdee, trackingID, userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating tracking metrics: %w", err)
	}
	return t, nil
}

// ListTracking returns the user's rows matching f, newest recorded_date first.
// A non-positive Limit means no limit.
func (s *SQLiteStore) ListTracking(ctx context.Context, userID string, f TrackingFilter) ([]*ProfileTracking, error) {
	query := `SELECT ` + trackingColumns + ` FROM profile_tracking WHERE user_id = ?`
	args := []any{userID}

	if f.Date != "" {
		query += ` AND recorded_date = ?`
		args = append(args, f.Date)
	} else {
		if f.StartDate != "" {
			query += ` AND recorded_date >= ?`
			args = append(args, f.StartDate)
		}
		if f.EndDate != "" {
			query += ` AND recorded_date <= ?`
			args = append(args, f.EndDate)
		}
	}

	query += ` ORDER BY recorded_date DESC`
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tracking: %w", err)
	}
	defer rows.Close()

	var out []*ProfileTracking
	for rows.Next() {
		t, err := scanTracking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracking: %w", err)
	}
	return out, nil
}

func scanTracking(row rowScanner) (*ProfileTracking, error) {
	var t ProfileTracking
	var weight, muscle, fat sql.NullFloat64
	var bmr, tdee sql.NullInt64
	var createdAt string

	err := row.Scan(&t.ID, &t.UserID, &weight, &muscle, &fat, &bmr, &tdee, &t.RecordedDate, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning tracking: %w", err)
	}

	t.WeightKG = floatPtr(weight)
	t.MuscleMassKG = floatPtr(muscle)
	t.BodyFatPercentage = floatPtr(fat)
	t.BMRCalories = intPtr(bmr)
	t.TDEECalories = intPtr(tdee)
	if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

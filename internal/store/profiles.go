// ABOUTME: SQLite persistence for user profiles
// ABOUTME: Partial merges and the profile view joined with the latest tracking row

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/2389/calorie-gateway/internal/nutrition"
)

const profileColumns = `user_id, height_cm, age, gender, activity_level, created_at, updated_at`

// CreateProfile inserts the profile for p.UserID.
// Returns ErrDuplicateProfile if the user already has one.
func (s *SQLiteStore) CreateProfile(ctx context.Context, p *UserProfile) error {
	now := s.clock()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.ActivityLevel == "" {
		p.ActivityLevel = nutrition.ActivitySedentary
	}

	query := `
		INSERT INTO user_profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.UserID,
		p.HeightCM,
		p.Age,
		string(p.Gender),
		string(p.ActivityLevel),
		now.Format(timeLayout),
		now.Format(timeLayout),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateProfile
		}
		return fmt.Errorf("inserting profile: %w", err)
	}

	s.logger.Debug("created profile", "user_id", p.UserID)
	return nil
}

// GetProfile retrieves the profile owned by userID.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE user_id = ?`, userID)
	return scanProfile(row)
}

// UpdateProfile merges the non-nil fields of upd into the stored profile.
// An empty update returns the current profile unchanged.
func (s *SQLiteStore) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*UserProfile, error) {
	if upd.Empty() {
		return s.GetProfile(ctx, userID)
	}

	var sets []string
	var args []any
	if upd.HeightCM != nil {
		sets = append(sets, "height_cm = ?")
		args = append(args, *upd.HeightCM)
	}
	if upd.Age != nil {
		sets = append(sets, "age = ?")
		args = append(args, *upd.Age)
	}
	if upd.Gender != nil {
		sets = append(sets, "gender = ?")
		args = append(args, string(*upd.Gender))
	}
	if upd.ActivityLevel != nil {
		sets = append(sets, "activity_level = ?")
		args = append(args, string(*upd.ActivityLevel))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.timestamp(), userID)

	query := `UPDATE user_profiles SET ` + strings.Join(sets, ", ") +
		` WHERE user_id = ? RETURNING ` + profileColumns
	p, err := scanProfile(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return p, nil
}

// GetProfileView returns the profile with the tracking row holding the
// greatest recorded_date for the user. LatestTracking is nil when the user has
// no measurements yet.
func (s *SQLiteStore) GetProfileView(ctx context.Context, userID string) (*ProfileView, error) {
	query := `
		SELECT
			up.user_id, up.height_cm, up.age, up.gender, up.activity_level, up.created_at, up.updated_at,
			pt.id, pt.weight_kg, pt.muscle_mass_kg, pt.body_fat_percentage,
			pt.bmr_calories, pt.tdee_calories, pt.recorded_date, pt.created_at
		FROM user_profiles up
		LEFT JOIN profile_tracking pt ON pt.user_id = up.user_id
			AND pt.recorded_date = (
				SELECT MAX(recorded_date) FROM profile_tracking WHERE user_id = up.user_id
			)
		WHERE up.user_id = ?
	`

	var p UserProfile
	var gender, activity, pCreated, pUpdated string
	var tID, tDate, tCreated sql.NullString
	var weight, muscle, fat sql.NullFloat64
	var bmr, tdee sql.NullInt64

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.HeightCM, &p.Age, &gender, &activity, &pCreated, &pUpdated,
		&tID, &weight, &muscle, &fat, &bmr, &tdee, &tDate, &tCreated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile view: %w", err)
	}

	p.Gender = nutrition.Gender(gender)
	p.ActivityLevel = nutrition.ActivityLevel(activity)
	if p.CreatedAt, err = parseTime("created_at", pCreated); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", pUpdated); err != nil {
		return nil, err
	}

	view := &ProfileView{Profile: &p}
	if tID.Valid {
		t := &ProfileTracking{
			ID:                tID.String,
			UserID:            p.UserID,
			WeightKG:          floatPtr(weight),
			MuscleMassKG:      floatPtr(muscle),
			BodyFatPercentage: floatPtr(fat),
			BMRCalories:       intPtr(bmr),
			TDEECalories:      intPtr(tdee),
			RecordedDate:      tDate.String,
		}
		if t.CreatedAt, err = parseTime("tracking created_at", tCreated.String); err != nil {
			return nil, err
		}
		view.LatestTracking = t
	}
	return view, nil
}

func scanProfile(row rowScanner) (*UserProfile, error) {
	var p UserProfile
	var gender, activity, createdAt, updatedAt string

	err := row.Scan(&p.UserID, &p.HeightCM, &p.Age, &gender, &activity, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning profile: %w", err)
	}

	p.Gender = nutrition.Gender(gender)
	p.ActivityLevel = nutrition.ActivityLevel(activity)
	if p.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ABOUTME: Profile and tracking orchestration: get and update profile
// ABOUTME: Creates profiles lazily, merges same-day measurements and keeps BMR/TDEE current

package tracker

import (
	"context"
	"errors"
	"strings"

	"github.com/2389/calorie-gateway/internal/events"
	"github.com/2389/calorie-gateway/internal/nutrition"
	"github.com/2389/calorie-gateway/internal/store"
)

// ProfileResult is a profile with its latest measurements and derived metrics.
type ProfileResult struct {
	Profile        *store.UserProfile
	LatestTracking *store.ProfileTracking
	Metrics        nutrition.Metrics
}

// ProfileInput is a partial profile and measurement update. Nil fields are untouched.
type ProfileInput struct {
	HeightCM      *float64
	Age           *int
	Gender        *nutrition.Gender
	ActivityLevel *nutrition.ActivityLevel

	WeightKG          *float64
	MuscleMassKG      *float64
	BodyFatPercentage *float64
}

func (in ProfileInput) profileUpdate() store.ProfileUpdate {
	return store.ProfileUpdate{
		HeightCM:      in.HeightCM,
		Age:           in.Age,
		Gender:        in.Gender,
		ActivityLevel: in.ActivityLevel,
	}
}

func (in ProfileInput) trackingSample() store.TrackingSample {
	return store.TrackingSample{
		WeightKG:          in.WeightKG,
		MuscleMassKG:      in.MuscleMassKG,
		BodyFatPercentage: in.BodyFatPercentage,
	}
}

// validate checks every supplied field and reports all problems at once.
func (in ProfileInput) validate() error {
	var problems []string
	if in.WeightKG != nil && !nutrition.ValidWeight(*in.WeightKG) {
		problems = append(problems, "Invalid weight. Must be greater than 0 and at most 1000 kg.")
	}
	if in.HeightCM != nil && !nutrition.ValidHeight(*in.HeightCM) {
		problems = append(problems, "Invalid height. Must be between 50 and 300 cm.")
	}
	if in.Age != nil && !nutrition.ValidAge(*in.Age) {
		problems = append(problems, "Invalid age. Must be between 1 and 150 years.")
	}
	if in.BodyFatPercentage != nil && !nutrition.ValidBodyFatPercentage(*in.BodyFatPercentage) {
		problems = append(problems, "Invalid body fat percentage. Must be between 0 and 100.")
	}
	if in.MuscleMassKG != nil && (*in.MuscleMassKG < 0 || *in.MuscleMassKG > 1000) {
		problems = append(problems, "Invalid muscle mass. Must be between 0 and 1000 kg.")
	}
	if in.Gender != nil && !in.Gender.Valid() {
		problems = append(problems, "Invalid gender. Must be male or female.")
	}
	if in.ActivityLevel != nil && !in.ActivityLevel.Valid() {
		levels := make([]string, 0, 5)
		for _, l := range nutrition.ActivityLevels() {
			levels = append(levels, string(l))
		}
		problems = append(problems, "Invalid activity level. Must be one of "+strings.Join(levels, ", ")+".")
	}
	if len(problems) > 0 {
		return validationError(problems...)
	}
	return nil
}

// GetProfile returns the user's profile joined with the latest tracking row.
// Returns ErrNoProfile when the user has not created one yet. Stale stored
// BMR/TDEE on the latest row are recomputed and written back.
func (s *Service) GetProfile(ctx context.Context, userID string) (*ProfileResult, error) {
	st, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	view, err := st.GetProfileView(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, s.storageFailure("get profile", err, "user_id", userID)
	}

	return s.resolveMetrics(ctx, view, "get profile")
}

// UpdateProfile validates in, creates or merges the profile, merges any
// measurements into today's tracking row and returns the refreshed view.
// Nothing is written when validation fails.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*ProfileResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	st, err := s.requireStore()
	if err != nil {
		return nil, err
	}

	profile, err := st.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if profile, err = s.createProfile(ctx, st, userID, in); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, s.storageFailure("update profile", err, "user_id", userID)
	default:
		if upd := in.profileUpdate(); !upd.Empty() {
			if profile, err = st.UpdateProfile(ctx, userID, upd); err != nil {
				return nil, s.storageFailure("update profile", err, "user_id", userID)
			}
		}
	}

	if sample := in.trackingSample(); !sample.Empty() {
		if err := s.recordTracking(ctx, st, profile, sample); err != nil {
			return nil, err
		}
	}

	view, err := st.GetProfileView(ctx, userID)
	if err != nil {
		return nil, s.storageFailure("update profile", err, "user_id", userID)
	}
	return s.resolveMetrics(ctx, view, "update profile")
}

func (s *Service) createProfile(ctx context.Context, st store.Store, userID string, in ProfileInput) (*store.UserProfile, error) {
	if in.HeightCM == nil || in.Age == nil || in.Gender == nil {
		return nil, validationError(ProfilePrerequisiteMessage)
	}

	p := &store.UserProfile{
		UserID:        userID,
		HeightCM:      *in.HeightCM,
		Age:           *in.Age,
		Gender:        *in.Gender,
		ActivityLevel: nutrition.ActivitySedentary,
	}
	if in.ActivityLevel != nil {
		p.ActivityLevel = *in.ActivityLevel
	}

	if err := st.CreateProfile(ctx, p); err != nil {
		// Lost a creation race; merge into the winner's profile instead
		if errors.Is(err, store.ErrDuplicateProfile) {
			merged, uerr := st.UpdateProfile(ctx, userID, in.profileUpdate())
			if uerr != nil {
				return nil, s.storageFailure("update profile", uerr, "user_id", userID)
			}
			return merged, nil
		}
		return nil, s.storageFailure("create profile", err, "user_id", userID)
	}

	s.logger.Info("created profile", "user_id", userID)
	return p, nil
}

// recordTracking merges sample into today's row and stores BMR/TDEE when the
// row has a weight.
func (s *Service) recordTracking(ctx context.Context, st store.Store, profile *store.UserProfile, sample store.TrackingSample) error {
	today := s.Today()
	row, err := st.RecordTracking(ctx, profile.UserID, today, sample)
	if err != nil {
		return s.storageFailure("update profile", err, "user_id", profile.UserID, "date", today)
	}

	m := nutrition.CalculateProfileMetrics(profile.Body(), row.WeightKG)
	if !m.Empty() {
		updated, err := st.SetTrackingMetrics(ctx, profile.UserID, row.ID, *m.BMRCalories, *m.TDEECalories)
		if err != nil {
			return s.storageFailure("update profile", err, "user_id", profile.UserID, "tracking_id", row.ID)
		}
		row = updated
	}

	s.publish(ctx, events.TypeTrackingRecorded, profile.UserID, row)
	return nil
}

// resolveMetrics derives metrics for the view and writes them back to the
// latest tracking row when the stored values disagree.
func (s *Service) resolveMetrics(ctx context.Context, view *store.ProfileView, action string) (*ProfileResult, error) {
	res := &ProfileResult{Profile: view.Profile, LatestTracking: view.LatestTracking}
	latest := view.LatestTracking
	if latest == nil {
		return res, nil
	}

	res.Metrics = nutrition.CalculateProfileMetrics(view.Profile.Body(), latest.WeightKG)
	if res.Metrics.Empty() || metricsMatch(latest, res.Metrics) {
		return res, nil
	}

	healed, err := s.store.SetTrackingMetrics(ctx, latest.UserID, latest.ID, *res.Metrics.BMRCalories, *res.Metrics.TDEECalories)
	if err != nil {
		return nil, s.storageFailure(action, err, "user_id", latest.UserID, "tracking_id", latest.ID)
	}
	s.logger.Debug("refreshed stored metrics", "user_id", latest.UserID, "tracking_id", latest.ID)
	res.LatestTracking = healed
	return res, nil
}

func metricsMatch(t *store.ProfileTracking, m nutrition.Metrics) bool {
	return t.BMRCalories != nil && t.TDEECalories != nil &&
		*t.BMRCalories == *m.BMRCalories && *t.TDEECalories == *m.TDEECalories
}

// ABOUTME: Profile tools: get_profile, update_profile, get_profile_history
// ABOUTME: Results are indented JSON documents describing profile, tracking and metrics

package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/2389/calorie-gateway/internal/auth"
	"github.com/2389/calorie-gateway/internal/nutrition"
	"github.com/2389/calorie-gateway/internal/store"
	"github.com/2389/calorie-gateway/internal/tracker"
)

const (
	getProfileSchema = `{"type":"object","properties":{}}`

	updateProfileSchema = `{"type":"object","properties":{` +
		`"height_cm":{"type":"number","minimum":50,"maximum":300,"description":"Height in centimeters"},` +
		`"age":{"type":"integer","minimum":1,"maximum":150,"description":"Age in years"},` +
		`"gender":{"type":"string","enum":["male","female"]},` +
		`"activity_level":{"type":"string","enum":["sedentary","light","moderate","active","very_active"],"description":"Activity level for TDEE calculation"},` +
		`"weight_kg":{"type":"number","exclusiveMinimum":0,"maximum":1000,"description":"Current weight in kilograms"},` +
		`"muscle_mass_kg":{"type":"number","minimum":0,"maximum":1000,"description":"Muscle mass in kilograms"},` +
		`"body_fat_percentage":{"type":"number","minimum":0,"maximum":100,"description":"Body fat percentage (0-100)"}}}`

	profileHistorySchema = `{"type":"object","properties":{` +
		`"date":{"type":"string","pattern":"^\\d{4}-\\d{2}-\\d{2}$","description":"Specific date to filter by"},` +
		`"start_date":{"type":"string","pattern":"^\\d{4}-\\d{2}-\\d{2}$","description":"Start of date range"},` +
		`"end_date":{"type":"string","pattern":"^\\d{4}-\\d{2}-\\d{2}$","description":"End of date range"},` +
		`"limit":{"type":"integer","minimum":1,"maximum":100,"default":10},` +
		`"offset":{"type":"integer","minimum":0,"default":0}}}`
)

type profileDocument struct {
	Profile           *store.UserProfile     `json:"profile"`
	LatestTracking    *store.ProfileTracking `json:"latest_tracking"`
	CalculatedMetrics *nutrition.Metrics     `json:"calculated_metrics,omitempty"`
	Message           string                 `json:"message,omitempty"`
}

func (h *handlers) getProfile(ctx context.Context, id auth.Identity, _ json.RawMessage) Result {
	res, err := h.svc.GetProfile(ctx, id.UserID)
	if errors.Is(err, tracker.ErrNoProfile) {
		return textResult(tracker.NoProfileMessage)
	}
	if err != nil {
		return h.fail("get_profile", err)
	}
	return h.jsonResult("get_profile", profileDocument{
		Profile:           res.Profile,
		LatestTracking:    res.LatestTracking,
		CalculatedMetrics: &res.Metrics,
	})
}

type updateProfileParams struct {
	HeightCM          *float64 `json:"height_cm" validate:"omitnil,min=50,max=300"`
	Age               *int     `json:"age" validate:"omitnil,min=1,max=150"`
	Gender            *string  `json:"gender" validate:"omitnil,oneof=male female"`
	ActivityLevel     *string  `json:"activity_level" validate:"omitnil,oneof=sedentary light moderate active very_active"`
	WeightKG          *float64 `json:"weight_kg" validate:"omitnil,gt=0,max=1000"`
	MuscleMassKG      *float64 `json:"muscle_mass_kg" validate:"omitnil,min=0,max=1000"`
	BodyFatPercentage *float64 `json:"body_fat_percentage" validate:"omitnil,min=0,max=100"`
}

func (h *handlers) updateProfile(ctx context.Context, id auth.Identity, input json.RawMessage) Result {
	var p updateProfileParams
	if err := decode(input, &p); err != nil {
		return h.fail("update_profile", err)
	}

	in := tracker.ProfileInput{
		HeightCM:          p.HeightCM,
		Age:               p.Age,
		WeightKG:          p.WeightKG,
		MuscleMassKG:      p.MuscleMassKG,
		BodyFatPercentage: p.BodyFatPercentage,
	}
	if p.Gender != nil {
		g := nutrition.Gender(*p.Gender)
		in.Gender = &g
	}
	if p.ActivityLevel != nil {
		l := nutrition.ActivityLevel(*p.ActivityLevel)
		in.ActivityLevel = &l
	}

	res, err := h.svc.UpdateProfile(ctx, id.UserID, in)
	if err != nil {
		return h.fail("update_profile", err)
	}
	return h.jsonResult("update_profile", profileDocument{
		Profile:        res.Profile,
		LatestTracking: res.LatestTracking,
		Message:        "Profile updated successfully",
	})
}

type profileHistoryParams struct {
	Date      *string `json:"date" validate:"omitnil,datetime=2006-01-02"`
	StartDate *string `json:"start_date" validate:"omitnil,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitnil,datetime=2006-01-02"`
	Limit     *int    `json:"limit" validate:"omitnil,min=1,max=100"`
	Offset    *int    `json:"offset" validate:"omitnil,min=0"`
}

func (h *handlers) profileHistory(ctx context.Context, id auth.Identity, input json.RawMessage) Result {
	var p profileHistoryParams
	if err := decode(input, &p); err != nil {
		return h.fail("get_profile_history", err)
	}

	hist, err := h.svc.ProfileHistory(ctx, id.UserID, tracker.HistoryQuery{
		Date:      deref(p.Date),
		StartDate: deref(p.StartDate),
		EndDate:   deref(p.EndDate),
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		return h.fail("get_profile_history", err)
	}
	return h.jsonResult("get_profile_history", hist)
}

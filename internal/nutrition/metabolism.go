// ABOUTME: BMR and TDEE calculation for user profiles
// ABOUTME: Harris-Benedict equations plus activity multipliers, all pure functions

package nutrition

import "math"

// Gender selects the BMR equation.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is a supported gender.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// ActivityLevel selects the TDEE multiplier.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// ActivityLevels lists every supported level in ascending order of activity.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive}
}

// Valid reports whether l is a supported activity level.
func (l ActivityLevel) Valid() bool {
	_, ok := activityMultipliers[l]
	return ok
}

// Multiplier returns the TDEE factor for l, or 0 for an unknown level.
func (l ActivityLevel) Multiplier() float64 {
	return activityMultipliers[l]
}

// roundHalfUp rounds x to the nearest integer, with .5 going towards +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CalculateBMR returns the basal metabolic rate in kcal/day.
func CalculateBMR(weightKG, heightCM float64, age int, gender Gender) int {
	a := float64(age)
	var bmr float64
	if gender == GenderMale {
		bmr = 88.362 + 13.397*weightKG + 4.799*heightCM - 5.677*a
	} else {
		bmr = 447.593 + 9.247*weightKG + 3.098*heightCM - 4.330*a
	}
	return roundHalfUp(bmr)
}

// CalculateTDEE returns the total daily energy expenditure for the given BMR.
func CalculateTDEE(bmr int, level ActivityLevel) int {
	return roundHalfUp(float64(bmr) * level.Multiplier())
}

// Body is the stable part of a profile needed for the calculation.
type Body struct {
	HeightCM      float64
	Age           int
	Gender        Gender
	ActivityLevel ActivityLevel
}

// Metrics holds derived energy values. Both fields are nil when no weight is known.
type Metrics struct {
	BMRCalories  *int `json:"bmr_calories,omitempty"`
	TDEECalories *int `json:"tdee_calories,omitempty"`
}

// Empty reports whether no metrics could be derived.
func (m Metrics) Empty() bool {
	return m.BMRCalories == nil && m.TDEECalories == nil
}

// CalculateProfileMetrics derives BMR and TDEE for body at the given weight.
// A nil or zero weight yields empty Metrics.
func CalculateProfileMetrics(body Body, weightKG *float64) Metrics {
	if weightKG == nil || *weightKG == 0 {
		return Metrics{}
	}
	bmr := CalculateBMR(*weightKG, body.HeightCM, body.Age, body.Gender)
	tdee := CalculateTDEE(bmr, body.ActivityLevel)
	return Metrics{BMRCalories: &bmr, TDEECalories: &tdee}
}

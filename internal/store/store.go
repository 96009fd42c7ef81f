// ABOUTME: Store interfaces and data types for calorie-gateway persistence
// ABOUTME: Defines users, profiles, tracking rows and food entries plus their storage contracts

package store

import (
	"context"
	"errors"
	"time"

	"github.com/2389/calorie-gateway/internal/nutrition"
)

// ErrNotFound is returned when a requested entity does not exist or is not owned by the caller
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user with the same email already exists
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateAPIKey is returned when another user already holds the same key fingerprint
var ErrDuplicateAPIKey = errors.New("api key already registered")

// ErrDuplicateProfile is returned when creating a profile for a user that already has one
var ErrDuplicateProfile = errors.New("profile already exists")

// DateLayout is the calendar date format used for recorded_date and entry_date.
const DateLayout = "2006-01-02"

// User is an account that may call the API.
// A nil APIKeyHash means the user's key has been revoked.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	APIKeyHash *string   `json:"-"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Revoked reports whether the user can no longer authenticate.
func (u *User) Revoked() bool {
	return u.APIKeyHash == nil
}

// UserProfile holds the slowly changing body attributes of a user.
type UserProfile struct {
	UserID        string                  `json:"user_id"`
	HeightCM      float64                 `json:"height_cm"`
	Age           int                     `json:"age"`
	Gender        nutrition.Gender        `json:"gender"`
	ActivityLevel nutrition.ActivityLevel `json:"activity_level"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// Body returns the inputs the metabolism calculator needs.
func (p *UserProfile) Body() nutrition.Body {
	return nutrition.Body{
		HeightCM:      p.HeightCM,
		Age:           p.Age,
		Gender:        p.Gender,
		ActivityLevel: p.ActivityLevel,
	}
}

// ProfileUpdate carries a partial profile merge. Nil fields are left unchanged.
type ProfileUpdate struct {
	HeightCM      *float64
	Age           *int
	Gender        *nutrition.Gender
	ActivityLevel *nutrition.ActivityLevel
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.HeightCM == nil && u.Age == nil && u.Gender == nil && u.ActivityLevel == nil
}

// ProfileTracking is one day of body measurements for a user.
type ProfileTracking struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	WeightKG          *float64 `json:"weight_kg"`
	MuscleMassKG      *float64 `json:"muscle_mass_kg"`
	BodyFatPercentage *float64 `json:"body_fat_percentage"`
	BMRCalories       *int     `json:"bmr_calories"`
	TDEECalories      *int     `json:"tdee_calories"`
	// RecordedDate is a calendar date in DateLayout.
	RecordedDate string    `json:"recorded_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// TrackingSample is the measurement part of a tracking write. Nil fields keep
// whatever the row for that date already holds.
type TrackingSample struct {
	WeightKG          *float64
	MuscleMassKG      *float64
	BodyFatPercentage *float64
}

// Empty reports whether no measurement was supplied.
func (s TrackingSample) Empty() bool {
	return s.WeightKG == nil && s.MuscleMassKG == nil && s.BodyFatPercentage == nil
}

// TrackingFilter narrows a tracking history query. Date excludes StartDate/EndDate.
type TrackingFilter struct {
	Date      string
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

// ProfileView is a profile joined with its latest tracking row, if any.
type ProfileView struct {
	Profile        *UserProfile
	LatestTracking *ProfileTracking
}

// MealType categorises a food entry.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// FoodEntry is a single logged food item.
type FoodEntry struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	FoodName  string     `json:"food_name"`
	Calories  int        `json:"calories"`
	ProteinG  *float64   `json:"protein_g"`
	CarbsG    *float64   `json:"carbs_g"`
	FatG      *float64   `json:"fat_g"`
	MealType  *MealType  `json:"meal_type"`
	EntryDate string     `json:"entry_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// FoodEntryUpdate carries a partial food entry merge. Nil fields are left unchanged.
type FoodEntryUpdate struct {
	FoodName *string
	Calories *int
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
	MealType *MealType
}

// Empty reports whether the update changes nothing.
func (u FoodEntryUpdate) Empty() bool {
	return u.FoodName == nil && u.Calories == nil && u.ProteinG == nil &&
		u.CarbsG == nil && u.FatG == nil && u.MealType == nil
}

// FoodEntryFilter selects one day of a user's food log.
type FoodEntryFilter struct {
	Date   string
	Limit  int
	Offset int
}

// UserStore manages accounts and their key fingerprints.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrDuplicateEmail or ErrDuplicateAPIKey on collisions.
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByAPIKeyHash(ctx context.Context, hash string) (*User, error)
	// RevokeAPIKey clears the user's fingerprint. Returns ErrNotFound for unknown users.
	RevokeAPIKey(ctx context.Context, userID string) error
	CountUsers(ctx context.Context) (int, error)
}

// ProfileStore manages user profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *UserProfile) error
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	// UpdateProfile merges the supplied fields and refreshes updated_at.
	UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*UserProfile, error)
	// GetProfileView joins the profile with the tracking row holding the latest recorded_date.
	GetProfileView(ctx context.Context, userID string) (*ProfileView, error)
}

// TrackingStore manages the per-day measurement series.
type TrackingStore interface {
	// RecordTracking creates the row for (userID, date) or merges sample into it atomically.
	RecordTracking(ctx context.Context, userID, date string, sample TrackingSample) (*ProfileTracking, error)
	// SetTrackingMetrics stores derived BMR/TDEE on a row owned by userID.
	SetTrackingMetrics(ctx context.Context, userID, trackingID string, bmr, tdee int) (*ProfileTracking, error)
	// ListTracking returns rows ordered by recorded_date descending.
	ListTracking(ctx context.Context, userID string, f TrackingFilter) ([]*ProfileTracking, error)
}

// FoodEntryStore manages food log entries. Every call is scoped to the owning user.
type FoodEntryStore interface {
	CreateFoodEntry(ctx context.Context, e *FoodEntry) error
	GetFoodEntry(ctx context.Context, userID, id string) (*FoodEntry, error)
	// ListFoodEntries returns entries for one date, newest first.
	ListFoodEntries(ctx context.Context, userID string, f FoodEntryFilter) ([]*FoodEntry, error)
	UpdateFoodEntry(ctx context.Context, userID, id string, upd FoodEntryUpdate) (*FoodEntry, error)
	DeleteFoodEntry(ctx context.Context, userID, id string) error
}

// Store is the full storage collaborator used by the gateway.
type Store interface {
	UserStore
	ProfileStore
	TrackingStore
	FoodEntryStore
	Close() error
}

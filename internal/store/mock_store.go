// ABOUTME: Mock Store implementation for testing
// ABOUTME: In-memory maps with per-method error injection and call counting

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu       sync.RWMutex
	users    map[string]*User            // keyed by user ID
	profiles map[string]*UserProfile     // keyed by user ID
	tracking map[string]*ProfileTracking // keyed by tracking ID
	entries  map[string]*FoodEntry       // keyed by entry ID
	seq      int                         // insertion order for stable sorting
	order    map[string]int              // entry ID -> insertion sequence

	errs  map[string]error
	calls map[string]int

	// Now is used for timestamps; defaults to time.Now.
	Now func() time.Time
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:    make(map[string]*User),
		profiles: make(map[string]*UserProfile),
		tracking: make(map[string]*ProfileTracking),
		entries:  make(map[string]*FoodEntry),
		order:    make(map[string]int),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
		Now:      time.Now,
	}
}

// FailOn makes every later call to method return err. A nil err clears it.
func (m *MockStore) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, method)
		return
	}
	m.errs[method] = err
}

// Calls returns how many times method has been invoked.
func (m *MockStore) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

// enter records a call and returns the injected error, if any. Caller holds mu.
func (m *MockStore) enter(method string) error {
	m.calls[method]++
	return m.errs[method]
}

func (m *MockStore) now() time.Time {
	return m.Now().UTC().Truncate(time.Second)
}

// CreateUser stores a new user.
func (m *MockStore) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateUser"); err != nil {
		return err
	}

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
		if u.APIKeyHash != nil && existing.APIKeyHash != nil && *existing.APIKeyHash == *u.APIKeyHash {
			return ErrDuplicateAPIKey
		}
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = m.now()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	cp := copyUser(u)
	m.users[u.ID] = cp
	return nil
}

// GetUser retrieves a user by ID.
func (m *MockStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetUser"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

// GetUserByEmail retrieves a user by email.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetUserByEmail"); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

// GetUserByAPIKeyHash retrieves the user holding hash.
func (m *MockStore) GetUserByAPIKeyHash(ctx context.Context, hash string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetUserByAPIKeyHash"); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.APIKeyHash != nil && *u.APIKeyHash == hash {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

// RevokeAPIKey clears a user's fingerprint.
func (m *MockStore) RevokeAPIKey(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("RevokeAPIKey"); err != nil {
		return err
	}
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.APIKeyHash = nil
	u.UpdatedAt = m.now()
	return nil
}

// CountUsers returns the number of users.
func (m *MockStore) CountUsers(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CountUsers"); err != nil {
		return 0, err
	}
	return len(m.users), nil
}

// CreateProfile stores a new profile.
func (m *MockStore) CreateProfile(ctx context.Context, p *UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateProfile"); err != nil {
		return err
	}
	if _, ok := m.profiles[p.UserID]; ok {
		return ErrDuplicateProfile
	}
	now := m.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.profiles[p.UserID] = &cp
	return nil
}

// GetProfile retrieves a profile.
func (m *MockStore) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetProfile"); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// UpdateProfile merges upd into the stored profile.
func (m *MockStore) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateProfile"); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.HeightCM != nil {
		p.HeightCM = *upd.HeightCM
	}
	if upd.Age != nil {
		p.Age = *upd.Age
	}
	if upd.Gender != nil {
		p.Gender = *upd.Gender
	}
	if upd.ActivityLevel != nil {
		p.ActivityLevel = *upd.ActivityLevel
	}
	if !upd.Empty() {
		p.UpdatedAt = m.now()
	}
	cp := *p
	return &cp, nil
}

// GetProfileView returns the profile joined with its latest tracking row.
func (m *MockStore) GetProfileView(ctx context.Context, userID string) (*ProfileView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetProfileView"); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	view := &ProfileView{Profile: &cp}
	if t := m.latestLocked(userID); t != nil {
		tc := *t
		view.LatestTracking = &tc
	}
	return view, nil
}

// RecordTracking creates or merges the row for (userID, date).
func (m *MockStore) RecordTracking(ctx context.Context, userID, date string, sample TrackingSample) (*ProfileTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("RecordTracking"); err != nil {
		return nil, err
	}

	var row *ProfileTracking
	for _, t := range m.tracking {
		if t.UserID == userID && t.RecordedDate == date {
			row = t
			break
		}
	}
	if row == nil {
		row = &ProfileTracking{
			ID:           uuid.New().String(),
			UserID:       userID,
			RecordedDate: date,
			CreatedAt:    m.now(),
		}
		m.tracking[row.ID] = row
	}
	if sample.WeightKG != nil {
		w := *sample.WeightKG
		row.WeightKG = &w
	}
	if sample.MuscleMassKG != nil {
		mm := *sample.MuscleMassKG
		row.MuscleMassKG = &mm
	}
	if sample.BodyFatPercentage != nil {
		bf := *sample.BodyFatPercentage
		row.BodyFatPercentage = &bf
	}
	cp := *row
	return &cp, nil
}

// SetTrackingMetrics stores derived values on a row owned by userID.
func (m *MockStore) SetTrackingMetrics(ctx context.Context, userID, trackingID string, bmr, tdee int) (*ProfileTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("SetTrackingMetrics"); err != nil {
		return nil, err
	}
	t, ok := m.tracking[trackingID]
	if !ok || t.UserID != userID {
		return nil, ErrNotFound
	}
	t.BMRCalories = &bmr
	t.TDEECalories = &tdee
	cp := *t
	return &cp, nil
}

func (m *MockStore) latestLocked(userID string) *ProfileTracking {
	var latest *ProfileTracking
	for _, t := range m.tracking {
		if t.UserID != userID {
			continue
		}
		if latest == nil || t.RecordedDate > latest.RecordedDate {
			latest = t
		}
	}
	return latest
}

// ListTracking returns matching rows, newest recorded_date first.
func (m *MockStore) ListTracking(ctx context.Context, userID string, f TrackingFilter) ([]*ProfileTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListTracking"); err != nil {
		return nil, err
	}

	var out []*ProfileTracking
	for _, t := range m.tracking {
		if t.UserID != userID {
			continue
		}
		if f.Date != "" && t.RecordedDate != f.Date {
			continue
		}
		if f.Date == "" && f.StartDate != "" && t.RecordedDate < f.StartDate {
			continue
		}
		if f.Date == "" && f.EndDate != "" && t.RecordedDate > f.EndDate {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedDate > out[j].RecordedDate })
	return paginate(out, f.Limit, f.Offset), nil
}

// CreateFoodEntry stores a new entry.
func (m *MockStore) CreateFoodEntry(ctx context.Context, e *FoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateFoodEntry"); err != nil {
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	cp := *e
	m.entries[e.ID] = &cp
	m.seq++
	m.order[e.ID] = m.seq
	return nil
}

// GetFoodEntry retrieves an entry owned by userID.
func (m *MockStore) GetFoodEntry(ctx context.Context, userID, id string) (*FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetFoodEntry"); err != nil {
		return nil, err
	}
	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// ListFoodEntries returns one day of entries, newest first.
func (m *MockStore) ListFoodEntries(ctx context.Context, userID string, f FoodEntryFilter) ([]*FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListFoodEntries"); err != nil {
		return nil, err
	}

	var out []*FoodEntry
	for _, e := range m.entries {
		if e.UserID == userID && e.EntryDate == f.Date {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return m.order[out[i].ID] > m.order[out[j].ID] })
	return paginate(out, f.Limit, f.Offset), nil
}

// UpdateFoodEntry merges upd into an entry owned by userID.
func (m *MockStore) UpdateFoodEntry(ctx context.Context, userID, id string, upd FoodEntryUpdate) (*FoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateFoodEntry"); err != nil {
		return nil, err
	}
	if upd.Empty() {
		return nil, errors.New("no fields to update")
	}
	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return nil, ErrNotFound
	}
	if upd.FoodName != nil {
		e.FoodName = *upd.FoodName
	}
	if upd.Calories != nil {
		e.Calories = *upd.Calories
	}
	if upd.ProteinG != nil {
		v := *upd.ProteinG
		e.ProteinG = &v
	}
	if upd.CarbsG != nil {
		v := *upd.CarbsG
		e.CarbsG = &v
	}
	if upd.FatG != nil {
		v := *upd.FatG
		e.FatG = &v
	}
	if upd.MealType != nil {
		v := *upd.MealType
		e.MealType = &v
	}
	now := m.now()
	e.UpdatedAt = &now
	cp := *e
	return &cp, nil
}

// DeleteFoodEntry removes an entry owned by userID.
func (m *MockStore) DeleteFoodEntry(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteFoodEntry"); err != nil {
		return err
	}
	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	delete(m.entries, id)
	delete(m.order, id)
	return nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

func copyUser(u *User) *User {
	cp := *u
	if u.APIKeyHash != nil {
		h := *u.APIKeyHash
		cp.APIKeyHash = &h
	}
	return &cp
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Compile-time check that MockStore implements Store.
var _ Store = (*MockStore)(nil)

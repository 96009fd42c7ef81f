// ABOUTME: Shared test helpers and store lifecycle tests
// ABOUTME: Real SQLite in a temp dir, table-driven where inputs vary

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/calorie-gateway/internal/nutrition"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func ptr[T any](v T) *T {
	return &v
}

// createTestUser inserts a user with the given fingerprint.
func createTestUser(t *testing.T, s Store, id, email, hash string) *User {
	t.Helper()
	u := &User{
		ID:         id,
		Name:       "User " + id,
		Email:      email,
		APIKeyHash: ptr(hash),
		Role:       RoleUser,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// createTestProfile inserts a profile for userID.
func createTestProfile(t *testing.T, s Store, userID string) *UserProfile {
	t.Helper()
	p := &UserProfile{
		UserID:        userID,
		HeightCM:      180,
		Age:           30,
		Gender:        nutrition.GenderMale,
		ActivityLevel: nutrition.ActivityModerate,
	}
	require.NoError(t, s.CreateProfile(context.Background(), p))
	return p
}

func TestNewSQLiteStore_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "calories.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewSQLiteStore_ReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "calories.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	createTestUser(t, s, "u1", "a@example.com", "h1")
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	u, err := s.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
}

func TestSQLiteStore_Timestamps(t *testing.T) {
	s := setupTestStore(t)
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	u := createTestUser(t, s, "u1", "a@example.com", "h1")
	assert.Equal(t, fixed, u.CreatedAt)

	got, err := s.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, fixed, got.CreatedAt)
	assert.Equal(t, fixed, got.UpdatedAt)
}

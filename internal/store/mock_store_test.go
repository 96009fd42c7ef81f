// ABOUTME: Unit tests for MockStore-specific behavior
// ABOUTME: Copy isolation, call counting and error injection

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMockStore()
	createTestUser(t, m, "u1", "alice@example.com", "hash-1")

	u, err := m.GetUser(ctx, "u1")
	require.NoError(t, err)
	u.Name = "Mallory"
	*u.APIKeyHash = "tampered"

	again, err := m.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, "Mallory", again.Name)
	assert.Equal(t, "hash-1", *again.APIKeyHash)
}

func TestMockStore_CountsCalls(t *testing.T) {
	ctx := context.Background()
	m := NewMockStore()

	assert.Zero(t, m.Calls("GetUser"))
	_, _ = m.GetUser(ctx, "a")
	_, _ = m.GetUser(ctx, "b")
	assert.Equal(t, 2, m.Calls("GetUser"))
	assert.Zero(t, m.Calls("GetUserByEmail"))
}

func TestMockStore_FailOnClears(t *testing.T) {
	ctx := context.Background()
	m := NewMockStore()
	boom := errors.New("boom")

	m.FailOn("CountUsers", boom)
	_, err := m.CountUsers(ctx)
	assert.ErrorIs(t, err, boom)

	m.FailOn("CountUsers", nil)
	n, err := m.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMockStore_UsesClock(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 8, 30, 15, 999, time.UTC)
	m := NewMockStore()
	m.Now = func() time.Time { return fixed }

	u := &User{ID: "u1", Name: "A", Email: "a@example.com"}
	require.NoError(t, m.CreateUser(context.Background(), u))
	assert.Equal(t, fixed.Truncate(time.Second), u.CreatedAt)
	assert.Equal(t, RoleUser, u.Role)
}

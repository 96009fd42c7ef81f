// ABOUTME: Tests for the HTTP authorization gate
// ABOUTME: Rejected requests never reach the wrapped handler

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/calorie-gateway/internal/store"
)

func TestGate_RejectsUnauthenticated(t *testing.T) {
	s := store.NewMockStore()
	calls := 0
	h := Gate(NewAuthenticator(s), func(w http.ResponseWriter, r *http.Request, id Identity) {
		calls++
	})

	for _, header := range []string{"", "Basic abc", "Bearer wrong"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestWithAuth(header))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"Unauthorized. Please provide a valid API key in the Authorization header."}`, rec.Body.String())
	}
	assert.Zero(t, calls)
}

func TestGate_PassesIdentityAndResponseThrough(t *testing.T) {
	s := store.NewMockStore()
	seedUser(t, s, "admin-1", store.RoleAdmin, "admin-key")

	calls := 0
	var got Identity
	var fromCtx Identity
	h := Gate(NewAuthenticator(s), func(w http.ResponseWriter, r *http.Request, id Identity) {
		calls++
		got = id
		fromCtx, _ = FromContext(r.Context())
		w.Header().Set("X-Custom", "yes")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithAuth("Bearer admin-key"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, Identity{UserID: "admin-1", IsAdmin: true}, got)
	assert.Equal(t, got, fromCtx)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Custom"))
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestGate_HandlerPanicPropagates(t *testing.T) {
	s := store.NewMockStore()
	seedUser(t, s, "user-1", store.RoleUser, "user-key")

	h := Gate(NewAuthenticator(s), func(w http.ResponseWriter, r *http.Request, id Identity) {
		panic("downstream failure")
	})

	assert.PanicsWithValue(t, "downstream failure", func() {
		h.ServeHTTP(httptest.NewRecorder(), requestWithAuth("Bearer user-key"))
	})
}

func TestMiddleware(t *testing.T) {
	s := store.NewMockStore()
	seedUser(t, s, "user-1", store.RoleUser, "user-key")
	a := NewAuthenticator(s)

	var id Identity
	var ok bool
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithAuth("Bearer user-key"))
	require.True(t, ok)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithAuth(""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

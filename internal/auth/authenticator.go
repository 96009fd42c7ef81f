// ABOUTME: Resolves bearer API keys to user identities
// ABOUTME: Fails closed: any missing header, unknown key or lookup error yields no identity

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/2389/calorie-gateway/internal/store"
)

const bearerPrefix = "Bearer "

// UserLookup finds the user holding an API key fingerprint.
// store.ErrNotFound signals an unknown fingerprint.
type UserLookup interface {
	GetUserByAPIKeyHash(ctx context.Context, hash string) (*store.User, error)
}

// Authenticator turns requests into identities.
type Authenticator struct {
	users  UserLookup
	hasher Hasher
	logger *slog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithHasher replaces the default SHA-256 hasher.
func WithHasher(h Hasher) Option {
	return func(a *Authenticator) { a.hasher = h }
}

// WithLogger sets the logger used to report lookup failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) { a.logger = l }
}

// NewAuthenticator creates an Authenticator. users may be nil when no storage
// is configured, in which case every request is unauthenticated.
func NewAuthenticator(users UserLookup, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:  users,
		hasher: SHA256Hasher{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "auth")
	return a
}

// extractBearerToken returns the raw key from an Authorization header value.
func extractBearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return header[len(bearerPrefix):], true
}

// Authenticate resolves the request's bearer key. The second result is false
// when the request is unauthenticated for any reason.
func (a *Authenticator) Authenticate(r *http.Request) (Identity, bool) {
	if a.users == nil {
		return Identity{}, false
	}

	token, ok := extractBearerToken(r.Header.Get("Authorization"))
	if !ok {
		return Identity{}, false
	}

	user, err := a.users.GetUserByAPIKeyHash(r.Context(), a.hasher.Hash(token))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			a.logger.Warn("api key lookup failed", "error", err, "path", r.URL.Path)
		}
		return Identity{}, false
	}

	return Identity{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin(),
	}, true
}

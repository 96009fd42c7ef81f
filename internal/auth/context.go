// ABOUTME: Authenticated identity and its propagation through request contexts
// ABOUTME: Provides WithIdentity/FromContext for handlers behind the gate

package auth

import (
	"context"
)

// Identity is the caller resolved from a valid API key.
// It is a value object; handlers receive copies and never mutate it.
type Identity struct {
	UserID  string
	IsAdmin bool
}

// identityKey is the key type for storing Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the Identity attached by the gate.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

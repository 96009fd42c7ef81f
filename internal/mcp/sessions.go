// ABOUTME: MCP session management bound to the authenticated user
// ABOUTME: Signed sessions are stateless HS256 tokens; no session lives in process memory

package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrSessionNotFound indicates the session is unknown, expired, or owned by
// another user. The client must re-initialize.
var ErrSessionNotFound = errors.New("session not found")

// ErrTerminationUnsupported indicates the backend cannot end sessions early.
var ErrTerminationUnsupported = errors.New("session termination not supported")

// Session is an initialized MCP client session.
type Session struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ProtocolVersion string    `json:"protocol_version"`
	CreatedAt       time.Time `json:"created_at"`
}

// SessionManager issues and checks MCP session ids.
type SessionManager interface {
	// Create starts a session for userID and returns it with its ID set.
	Create(ctx context.Context, userID, protocolVersion string) (*Session, error)
	// Validate returns the session if id is live and belongs to userID.
	Validate(ctx context.Context, id, userID string) (*Session, error)
	// Delete ends a session owned by userID.
	Delete(ctx context.Context, id, userID string) error
}

const sessionIssuer = "calorie-gateway"

type sessionClaims struct {
	ProtocolVersion string `json:"pv"`
	jwt.RegisteredClaims
}

// SignedSessions encodes sessions as HS256 JWTs. Any gateway replica holding
// the same secret accepts them, and nothing needs to be stored.
type SignedSessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedSessions creates a SignedSessions. A zero ttl issues sessions that
// never expire.
func NewSignedSessions(secret []byte, ttl time.Duration) (*SignedSessions, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	return &SignedSessions{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Create signs a new session token for userID.
func (s *SignedSessions) Create(_ context.Context, userID, protocolVersion string) (*Session, error) {
	now := s.now()
	claims := sessionClaims{
		ProtocolVersion: protocolVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			Issuer:   sessionIssuer,
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing session: %w", err)
	}
	return &Session{
		ID:              token,
		UserID:          userID,
		ProtocolVersion: protocolVersion,
		CreatedAt:       now.Truncate(time.Second),
	}, nil
}

// Validate verifies the token signature, expiry and owner.
func (s *SignedSessions) Validate(_ context.Context, id, userID string) (*Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(id, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionNotFound, err)
	}
	if claims.Subject != userID {
		return nil, ErrSessionNotFound
	}

	sess := &Session{ID: id, UserID: claims.Subject, ProtocolVersion: claims.ProtocolVersion}
	if claims.IssuedAt != nil {
		sess.CreatedAt = claims.IssuedAt.Time
	}
	return sess, nil
}

// Delete always fails: a signed session stays valid until it expires.
func (s *SignedSessions) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Validate(ctx, id, userID); err != nil {
		return err
	}
	return ErrTerminationUnsupported
}

// ABOUTME: Redis-backed MCP sessions with sliding expiry
// ABOUTME: Supports explicit termination via DELETE, unlike signed sessions

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisSessionPrefix = "calorie:mcp:session:"

// RedisSessions stores sessions as JSON values under TTL'd keys.
type RedisSessions struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisSessions creates a RedisSessions. Each successful Validate extends
// the session by ttl; a zero ttl keeps sessions until deleted.
func NewRedisSessions(client redis.UniversalClient, ttl time.Duration) *RedisSessions {
	return &RedisSessions{client: client, ttl: ttl, now: time.Now}
}

func sessionKey(id string) string {
	return redisSessionPrefix + id
}

// Create stores a new session for userID.
func (r *RedisSessions) Create(ctx context.Context, userID, protocolVersion string) (*Session, error) {
	sess := &Session{
		ID:              uuid.New().String(),
		UserID:          userID,
		ProtocolVersion: protocolVersion,
		CreatedAt:       r.now().UTC().Truncate(time.Second),
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sess.ID), b, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}
	return sess, nil
}

// Validate loads the session and refreshes its expiry.
func (r *RedisSessions) Validate(ctx context.Context, id, userID string) (*Session, error) {
	sess, err := r.load(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, sessionKey(id), r.ttl).Err(); err != nil {
			return nil, fmt.Errorf("refreshing session: %w", err)
		}
	}
	return sess, nil
}

// Delete removes a session owned by userID.
func (r *RedisSessions) Delete(ctx context.Context, id, userID string) error {
	if _, err := r.load(ctx, id, userID); err != nil {
		return err
	}
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (r *RedisSessions) load(ctx context.Context, id, userID string) (*Session, error) {
	b, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore tracks live sessions in Redis so tokens can be revoked before
// they expire. When Redis is unavailable the store fails open: tokens remain
// valid until their own expiry.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore wraps a Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save records a session for the given user.
func (s *SessionStore) Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Set(ctx, sessionKeyPrefix+sessionID, userID, ttl).Err()
}

// Alive reports whether the session has not been revoked.
func (s *SessionStore) Alive(ctx context.Context, sessionID string) bool {
	if s == nil || s.client == nil {
		return true
	}
	n, err := s.client.Exists(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return true
	}
	return n > 0
}

// Revoke removes the session.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"credpal/internal/common"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store holds server-side session state keyed by an opaque identifier
// handed to the client in a cookie.
type Store interface {
	// Create records a new session for the user and returns its identifier.
	Create(ctx context.Context, userID string) (string, error)

	// Get resolves a session identifier to the bound user ID. A missing
	// or expired session fails with common.ErrNoSession.
	Get(ctx context.Context, sessionID string) (string, error)

	// Destroy removes a session. Destroying a session that does not
	// exist is a no-op, so logout stays idempotent.
	Destroy(ctx context.Context, sessionID string) error
}

// RedisStore implements Store on a single Redis key per session with a
// TTL. Single-key GET/SET/DEL gives the read-after-write visibility
// logout needs: a destroyed session is unusable on the next request.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	sessionID := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+sessionID, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session.RedisStore.Create: %w", err)
	}
	return sessionID, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrNoSession
		}
		return "", fmt.Errorf("session.RedisStore.Get: %w", err)
	}
	return userID, nil
}

func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("session.RedisStore.Destroy: %w", err)
	}
	return nil
}

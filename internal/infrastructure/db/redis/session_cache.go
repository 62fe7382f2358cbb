package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gmeta/backoffice/internal/core/domain"
)

// SessionCache stores the single valid token per user of one population.
// Key format: <prefix>:<principal>:token:<user_id>
type SessionCache struct {
	client redis.Cmdable
	base   string
}

// NewSessionCache scopes a cache to principal. Two caches built with
// different principals never see each other's keys.
func NewSessionCache(client redis.Cmdable, prefix string, principal domain.Principal) *SessionCache {
	return &SessionCache{
		client: client,
		base:   fmt.Sprintf("%s:%s:token:", prefix, principal),
	}
}

// Get reads the cached token without touching its TTL.
func (s *SessionCache) Get(ctx context.Context, userID int64) (string, bool, error) {
	token, err := s.client.Get(ctx, s.Key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get: %w", err)
	}
	return token, true, nil
}

// Set overwrites unconditionally; the last writer wins.
func (s *SessionCache) Set(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.Key(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Key returns the redis key holding userID's token.
func (s *SessionCache) Key(userID int64) string {
	return s.base + strconv.FormatInt(userID, 10)
}

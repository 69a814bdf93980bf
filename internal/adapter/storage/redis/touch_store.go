package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// TouchStore implements ports.TouchStore using Redis SET NX. It debounces
// last-used writes so a busy key doesn't hit postgres on every request.
type TouchStore struct {
	client *goredis.Client
	prefix string
}

// NewTouchStore creates a new Redis-backed touch store.
func NewTouchStore(client *goredis.Client) *TouchStore {
	return &TouchStore{
		client: client,
		prefix: "keytouch:",
	}
}

// ShouldTouch atomically claims the debounce window for keyID.
// Returns true if the caller should write last_used_at, false if a write
// already happened within ttl.
func (s *TouchStore) ShouldTouch(ctx context.Context, keyID uuid.UUID, ttl time.Duration) (bool, error) {
	key := s.prefix + keyID.String()
	result, err := s.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — window still open
			return false, nil
		}
		return false, fmt.Errorf("redis touch check: %w", err)
	}
	return result == "OK", nil
}

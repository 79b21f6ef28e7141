package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed logins in Redis so every instance shares the
// same lockout state.
// Key format: login_failures:<username>
type LoginThrottle struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, max: int64(max), window: window}
}

// Locked reports whether key has reached the failure limit.
func (t *LoginThrottle) Locked(ctx context.Context, key string) (bool, error) {
	if t.max <= 0 {
		return false, nil
	}
	n, err := t.client.Get(ctx, t.key(key)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= t.max, nil
}

// Fail increments the counter, starting the window on the first failure.
func (t *LoginThrottle) Fail(ctx context.Context, key string) error {
	if t.max <= 0 {
		return nil
	}
	k := t.key(key)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("throttle fail: %w", err)
	}
	return nil
}

// Reset drops the counter for key.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, t.key(key)).Err()
}

func (t *LoginThrottle) key(username string) string {
	return fmt.Sprintf("login_failures:%s", username)
}

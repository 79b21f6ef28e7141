package ports

import "context"

// LoginThrottle counts failed login attempts per key (username).
type LoginThrottle interface {
	// Locked reports whether key has exhausted its attempts in the current window.
	Locked(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt for key.
	Fail(ctx context.Context, key string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, key string) error
}

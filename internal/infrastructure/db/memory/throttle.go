package memory

import (
	"context"
	"sync"
	"time"

	"github.com/demoserver/backend/internal/core/ports"
)

// LoginThrottle is a process-local fixed-window failure counter.
type LoginThrottle struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	entries map[string]throttleEntry
}

type throttleEntry struct {
	failures int
	expires  time.Time
}

var _ ports.LoginThrottle = (*LoginThrottle)(nil)

// NewLoginThrottle locks a key after max failures until window has elapsed
// since the first failure. max <= 0 disables locking.
func NewLoginThrottle(max int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		max:     max,
		window:  window,
		now:     time.Now,
		entries: make(map[string]throttleEntry),
	}
}

func (t *LoginThrottle) Locked(_ context.Context, key string) (bool, error) {
	if t.max <= 0 {
		return false, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.live(key)
	return ok && e.failures >= t.max, nil
}

func (t *LoginThrottle) Fail(_ context.Context, key string) error {
	if t.max <= 0 {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.live(key)
	if !ok {
		e = throttleEntry{expires: t.now().Add(t.window)}
	}
	e.failures++
	t.entries[key] = e
	return nil
}

func (t *LoginThrottle) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
	return nil
}

// live must be called with mu held; it drops expired entries.
func (t *LoginThrottle) live(key string) (throttleEntry, bool) {
	e, ok := t.entries[key]
	if !ok {
		return throttleEntry{}, false
	}
	if !t.now().Before(e.expires) {
		delete(t.entries, key)
		return throttleEntry{}, false
	}
	return e, true
}

package gateway

import (
	"context"
	"time"
)

// SlotLocker provides short-lived mutual exclusion keyed by a string.
// Acquire returns ok=false without error when another holder owns the key.
type SlotLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

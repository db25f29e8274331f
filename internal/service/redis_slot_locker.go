package service

import (
	"context"
	"fmt"
	"time"

	"mediconnect/internal/domain/gateway"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseSlotScript deletes the lock only when it still holds our token.
//
// Logic:
// 1. GET lock key
// 2. If value == token → DEL and return 1
// 3. Otherwise the lock expired or belongs to another request → return 0
var releaseSlotScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	// RedisSlotLockKeyPrefix namespaces booking slot locks
	RedisSlotLockKeyPrefix = "appointment:slot:"

	// Timeout for individual Redis operations
	redisLockTimeout = 2 * time.Second
)

// SlotLockKey builds the lock key for a doctor, date and time label
func SlotLockKey(doctorID uuid.UUID, date, timeLabel string) string {
	return fmt.Sprintf("%s%s:%s:%s", RedisSlotLockKeyPrefix, doctorID, date, timeLabel)
}

// RedisSlotLocker serializes concurrent bookings of the same slot across
// every API instance sharing one Redis.
type RedisSlotLocker struct {
	client *redis.Client
}

func NewRedisSlotLocker(client *redis.Client) *RedisSlotLocker {
	return &RedisSlotLocker{client: client}
}

var _ gateway.SlotLocker = (*RedisSlotLocker)(nil)

// Acquire sets the lock with NX and a TTL. ok is false when another request holds it.
func (l *RedisSlotLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisLockTimeout)
	defer cancel()

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquire slot lock %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release removes the lock if the token still owns it
func (l *RedisSlotLocker) Release(ctx context.Context, key, token string) error {
	ctx, cancel := context.WithTimeout(ctx, redisLockTimeout)
	defer cancel()

	if err := releaseSlotScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release slot lock %s: %w", key, err)
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"mediconnect/internal/domain/gateway"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisSessionTimeout = 3 * time.Second
	revokeScanBatch     = 100
)

// RedisSessionStore tracks issued token ids so logout and refresh rotation
// can invalidate them before they expire.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

var _ gateway.SessionStore = (*RedisSessionStore)(nil)

func sessionKey(kind gateway.TokenKind, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", kind, userID, tokenID)
}

func (s *RedisSessionStore) Save(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, redisSessionTimeout)
	defer cancel()

	if err := s.client.Set(ctx, sessionKey(kind, userID, tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("save %s token: %w", kind, err)
	}
	return nil
}

func (s *RedisSessionStore) Exists(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisSessionTimeout)
	defer cancel()

	n, err := s.client.Exists(ctx, sessionKey(kind, userID, tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check %s token: %w", kind, err)
	}
	return n > 0, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, kind gateway.TokenKind, userID uuid.UUID, tokenID string) error {
	ctx, cancel := context.WithTimeout(ctx, redisSessionTimeout)
	defer cancel()

	if err := s.client.Del(ctx, sessionKey(kind, userID, tokenID)).Err(); err != nil {
		return fmt.Errorf("revoke %s token: %w", kind, err)
	}
	return nil
}

// RevokeAll drops every access and refresh token of the user
func (s *RedisSessionStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, kind := range []gateway.TokenKind{gateway.TokenKindAccess, gateway.TokenKindRefresh} {
		pattern := fmt.Sprintf("%s_token:%s:*", kind, userID)
		iter := s.client.Scan(ctx, 0, pattern, revokeScanBatch).Iterator()

		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s tokens: %w", kind, err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("revoke %s tokens: %w", kind, err)
		}
	}
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/caymanbizevents/events-api/pkg/errors"
)

// CacheRepository wraps Redis for response caching and token revocation.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	return &CacheRepository{client: client, logger: logger}
}

// Get retrieves and unmarshals the cached value into the provided destination.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}

	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// DeleteByPattern removes cached entries matching the provided pattern.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	if r.client == nil {
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis delete %s: %w", key, err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan pattern %s: %w", pattern, err)
	}

	return nil
}

// Revoke marks a token ID as revoked until its natural expiry.
func (r *CacheRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if r.client == nil || ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revocationKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke %s: %w", tokenID, err)
	}
	return nil
}

// IsRevoked reports whether the token ID appears on the denylist. Redis being
// unavailable fails open so logins keep working without the cache tier.
func (r *CacheRepository) IsRevoked(ctx context.Context, tokenID string) bool {
	if r.client == nil {
		return false
	}
	n, err := r.client.Exists(ctx, revocationKey(tokenID)).Result()
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("token revocation lookup failed", zap.Error(err))
		}
		return false
	}
	return n > 0
}

func revocationKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "blacklist:"

// RevokedKey is the Redis key marking a session token id as revoked.
func RevokedKey(jti string) string {
	return revokedPrefix + jti
}

// RevokeToken marks jti revoked until ttl elapses, which should match the
// token's remaining lifetime. A nil client is a no-op.
func RevokeToken(ctx context.Context, rdb *redis.Client, jti string, ttl time.Duration) error {
	if rdb == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, RevokedKey(jti), "1", ttl).Err()
}

// IsTokenRevoked reports whether jti was revoked. Without a client nothing is revoked.
func IsTokenRevoked(ctx context.Context, rdb *redis.Client, jti string) (bool, error) {
	if rdb == nil || jti == "" {
		return false, nil
	}
	n, err := rdb.Exists(ctx, RevokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

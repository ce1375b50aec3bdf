package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKeyPrefix = "auth:claims:"

// cachedClaims is what gets stored in Redis for a verified token.
type cachedClaims struct {
	Claims    jwt.MapClaims `json:"claims"`
	ExpiresAt time.Time     `json:"expires_at"`
}

func (c *cachedClaims) IsValid() bool {
	return c != nil && len(c.Claims) > 0 && time.Now().Before(c.ExpiresAt)
}

// RedisClaimsCache keeps verified claims keyed by a SHA-256 of the raw token, so the
// token itself never lands in Redis.
type RedisClaimsCache struct {
	Client *redis.Client
}

func NewRedisClaimsCache(client *redis.Client) *RedisClaimsCache {
	return &RedisClaimsCache{Client: client}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return claimsKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisClaimsCache) Get(ctx context.Context, token string) (jwt.MapClaims, bool, error) {
	if c.Client == nil {
		return nil, false, fmt.Errorf("redis client not initialized")
	}

	raw, err := c.Client.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to get claims from Redis: %w", err)
	}

	var entry cachedClaims
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached claims: %w", err)
	}
	if !entry.IsValid() {
		return nil, false, nil
	}
	return entry.Claims, true, nil
}

func (c *RedisClaimsCache) Set(ctx context.Context, token string, claims jwt.MapClaims, ttl time.Duration) error {
	if c.Client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	payload, err := json.Marshal(cachedClaims{Claims: claims, ExpiresAt: time.Now().Add(ttl)})
	if err != nil {
		return fmt.Errorf("failed to marshal claims: %w", err)
	}
	if err := c.Client.Set(ctx, tokenKey(token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store claims in Redis: %w", err)
	}
	return nil
}

// Package lock holds short-lived Redis locks keyed by resource, so two instances of the
// service never act on the same row at once.
package lock

import (
	"context"
	"fmt"
	"time"

	"ms-eventplatform/internal/logger"

	"github.com/go-redis/redis/v8"
)

const DefaultTTL = 10 * time.Second

type RedisLock struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
	Logger *logger.Logger
}

func NewRedisLock(client *redis.Client, prefix string, log *logger.Logger) *RedisLock {
	return &RedisLock{
		Client: client,
		Prefix: prefix,
		TTL:    DefaultTTL,
		Logger: log,
	}
}

func (r *RedisLock) key(name string) string {
	return r.Prefix + ":" + name
}

// Lock takes name for owner. It reports false, without error, when someone else holds it.
func (r *RedisLock) Lock(ctx context.Context, name, owner string) (bool, error) {
	ok, err := r.Client.SetNX(ctx, r.key(name), owner, r.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("lock %s: %w", name, err)
	}
	if !ok {
		r.Logger.Debug("REDIS", fmt.Sprintf("Lock %s already held", r.key(name)))
	}
	return ok, nil
}

// unlockScript deletes the key only while it still holds the caller's owner token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Unlock releases name only if owner still holds it; an expired lock is not an error.
func (r *RedisLock) Unlock(ctx context.Context, name, owner string) error {
	released, err := unlockScript.Run(ctx, r.Client, []string{r.key(name)}, owner).Int()
	if err != nil {
		return fmt.Errorf("unlock %s: %w", name, err)
	}
	if released == 0 {
		r.Logger.Debug("REDIS", fmt.Sprintf("Lock %s no longer held by %s", r.key(name), owner))
	}
	return nil
}

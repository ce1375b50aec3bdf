package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"ms-eventplatform/internal/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis runs an in-memory Redis so the lock needs no server.
func setupTestRedis(t *testing.T) (*RedisLock, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisLock(client, "ticket_scan", logger.NewNop()), mr
}

func TestLockIsExclusive(t *testing.T) {
	l, _ := setupTestRedis(t)
	ctx := context.Background()

	ok, err := l.Lock(ctx, "TKT-1", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Lock(ctx, "TKT-1", "b")
	require.NoError(t, err)
	assert.False(t, ok)

	// b cannot release a's lock
	require.NoError(t, l.Unlock(ctx, "TKT-1", "b"))
	ok, _ = l.Lock(ctx, "TKT-1", "b")
	assert.False(t, ok)

	require.NoError(t, l.Unlock(ctx, "TKT-1", "a"))
	ok, _ = l.Lock(ctx, "TKT-1", "b")
	assert.True(t, ok)
}

func TestLockExpires(t *testing.T) {
	l, mr := setupTestRedis(t)
	ctx := context.Background()

	ok, err := l.Lock(ctx, "TKT-2", "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("ticket_scan:TKT-2"))

	mr.FastForward(DefaultTTL + time.Second)

	ok, err = l.Lock(ctx, "TKT-2", "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, l.Unlock(ctx, "TKT-9", "nobody"))
}

func TestConcurrentLockOneWinner(t *testing.T) {
	l, _ := setupTestRedis(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(owner int) {
			defer wg.Done()
			ok, err := l.Lock(context.Background(), "TKT-3", string(rune('a'+owner)))
			if err == nil && ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestStaleOwnerCannotReleaseNewLock(t *testing.T) {
	l, mr := setupTestRedis(t)
	ctx := context.Background()

	ok, err := l.Lock(ctx, "TKT-4", "a")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(DefaultTTL + time.Second)
	ok, err = l.Lock(ctx, "TKT-4", "b")
	require.NoError(t, err)
	require.True(t, ok)

	// a finishes late and tries to release what is now b's lock
	require.NoError(t, l.Unlock(ctx, "TKT-4", "a"))
	got, err := mr.Get("ticket_scan:TKT-4")
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	require.NoError(t, l.Unlock(ctx, "TKT-4", "b"))
	assert.False(t, mr.Exists("ticket_scan:TKT-4"))
}

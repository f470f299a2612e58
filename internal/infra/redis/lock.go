// File: internal/infra/redis/lock.go
package redis

import (
	"context"
	"fmt"
	"time"

	"restaurant-order-bot/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisLocker serializes turns per customer with SET NX plus a token-checked
// Lua release, so an expired holder can never delete a successor's lock.
type RedisLocker struct {
	cli *redis.Client
}

func NewLocker(c *Client) *RedisLocker {
	return &RedisLocker{cli: c.cli}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	var lastErr error
	for i := 0; i < 5; i++ { // 5 tries
		ok, err := l.cli.SetNX(ctx, key, token, ttl).Result()
		if err == nil {
			if ok {
				return token, nil
			}
			lastErr = nil
		} else {
			lastErr = err
		}
		time.Sleep(50 * time.Millisecond) // wait before retrying
	}
	// A store failure is not contention; the caller decides whether to
	// proceed unlocked.
	if lastErr != nil {
		return "", fmt.Errorf("acquire lock %q: %w", key, lastErr)
	}
	return "", domain.ErrTurnInProgress
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	_, err := luaUnlock.Run(ctx, l.cli, []string{key}, token).Result()
	return err
}

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/niksmo/vip-store/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var _ port.LoginLimiter = (*RedisLimiter)(nil)

const keyPrefix = "vipstore:login:"

// KEYS[1] counter key, ARGV[1] window in milliseconds.
const fixedWindowScript = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`

type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// RedisLimiter allows limit attempts per key within a fixed window.
type RedisLimiter struct {
	client RedisClient
	limit  int
	window time.Duration
}

func NewRedisLimiter(client RedisClient, limit int, window time.Duration) RedisLimiter {
	if client == nil {
		panic("redis client is nil") // develop mistake
	}
	return RedisLimiter{client: client, limit: limit, window: window}
}

func (l RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	const op = "RedisLimiter.Allow"

	n, err := l.client.Eval(
		ctx, fixedWindowScript, []string{keyPrefix + key}, l.window.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n <= int64(l.limit), nil
}

// Package throttle counts failed logins per username and client address.
package throttle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:login:attempts:"

// Limiter tracks failures for an opaque key (see Key).
type Limiter interface {
	// Allow reports whether another attempt may be made.
	Allow(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt.
	Fail(ctx context.Context, key string) error
	// Reset forgets all failures, e.g. after a successful login.
	Reset(ctx context.Context, key string) error
}

// Key builds the counter key for a login attempt.
func Key(userName, clientIP string) string {
	return keyPrefix + strings.ToLower(userName) + ":" + clientIP
}

// counter is the part of redis.Cmdable the limiter uses.
type counter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLimiter allows at most maxAttempts failures per key within window.
// The window starts at the first failure.
type RedisLimiter struct {
	rdb         counter
	maxAttempts int
	window      time.Duration
}

func NewRedisLimiter(rdb *redis.Client, maxAttempts int, window time.Duration) *RedisLimiter {
	return newRedisLimiter(rdb, maxAttempts, window)
}

func newRedisLimiter(rdb counter, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, maxAttempts: maxAttempts, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.rdb.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return true, err
	}
	return n < l.maxAttempts, nil
}

func (l *RedisLimiter) Fail(ctx context.Context, key string) error {
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		return l.rdb.Expire(ctx, key, l.window).Err()
	}
	return nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, key).Err()
}

// Nop never limits.
type Nop struct{}

func (Nop) Allow(context.Context, string) (bool, error) { return true, nil }
func (Nop) Fail(context.Context, string) error          { return nil }
func (Nop) Reset(context.Context, string) error         { return nil }

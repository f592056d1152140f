package throttle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLoginLimiter counts consecutive login failures per username in Redis.
// The counter expires lockWindow after the first failure of a streak.
type RedisLoginLimiter struct {
	client      redis.Cmdable
	maxFailures int64
	lockWindow  time.Duration
	prefix      string
}

// NewRedisLoginLimiter builds a limiter; maxFailures <= 0 defaults to 5, lockWindow <= 0 to 15m.
func NewRedisLoginLimiter(client redis.Cmdable, maxFailures int, lockWindow time.Duration) *RedisLoginLimiter {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if lockWindow <= 0 {
		lockWindow = 15 * time.Minute
	}
	return &RedisLoginLimiter{client: client, maxFailures: int64(maxFailures), lockWindow: lockWindow, prefix: "login:fail:"}
}

func (l *RedisLoginLimiter) key(username string) string {
	return l.prefix + strings.ToLower(username)
}

// Blocked reports whether the username has reached the failure limit.
func (l *RedisLoginLimiter) Blocked(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	return n >= l.maxFailures, nil
}

// RecordFailure increments the streak and starts the window on the first failure.
func (l *RedisLoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.lockWindow).Err(); err != nil {
			return fmt.Errorf("redis expire: %w", err)
		}
	}
	return nil
}

// Reset clears the streak after a successful login.
func (l *RedisLoginLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// NewRedisClient opens a client and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// Package ratelimit throttles repeated failed logins using Redis counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts failures per key inside a fixed window. Once a key reaches
// the maximum it stays blocked until the window expires or Reset is called.
type Limiter struct {
	client *redis.Client
	prefix string
	max    int64
	window time.Duration
}

// New connects to redisURL and checks the connection.
func New(redisURL string, maxFailures int, window time.Duration) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewWithClient(client, maxFailures, window), nil
}

func NewWithClient(client *redis.Client, maxFailures int, window time.Duration) *Limiter {
	return &Limiter{
		client: client,
		prefix: "login_fail:",
		max:    int64(maxFailures),
		window: window,
	}
}

func (l *Limiter) key(k string) string {
	return l.prefix + k
}

// Blocked reports whether key has used up its failures for the window.
func (l *Limiter) Blocked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get failure count: %w", err)
	}
	return n >= l.max, nil
}

// Fail records one failure. The window starts with the first failure.
func (l *Limiter) Fail(ctx context.Context, key string) error {
	k := l.key(key)
	n, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("incr failure count: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return fmt.Errorf("set failure window: %w", err)
		}
	}
	return nil
}

// Reset clears the failures of key, e.g. after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("reset failure count: %w", err)
	}
	return nil
}

func (l *Limiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *Limiter) Close() error {
	return l.client.Close()
}

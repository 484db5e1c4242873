package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var hitScript = redis.NewScript(`
	local n = redis.call("INCR", KEYS[1])
	if n == 1 then
		redis.call("PEXPIRE", KEYS[1], ARGV[1])
	end
	return n
`)

// RedisWindow is a fixed-window counter stored in Redis.
type RedisWindow struct {
	client *redis.Client
}

// NewRedisWindow connects to url (redis://...) and checks it responds.
func NewRedisWindow(ctx context.Context, url string) (*RedisWindow, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.PoolSize = 20
	opt.MaxRetries = 2

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisWindow{client: client}, nil
}

func (r *RedisWindow) Hit(ctx context.Context, key string, window time.Duration) (int, error) {
	n, err := hitScript.Run(ctx, r.client, []string{"ratelimit:" + key}, window.Milliseconds()).Int()
	if err != nil {
		return 0, fmt.Errorf("rate window: %w", err)
	}
	return n, nil
}

func (r *RedisWindow) Close() error {
	return r.client.Close()
}

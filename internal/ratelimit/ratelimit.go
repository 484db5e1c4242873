// Package ratelimit throttles credential endpoints per client IP, optionally sharing
// a fixed window across replicas through Redis.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	maxLimiters  = 10000
	sharedWindow = time.Minute
	redisTimeout = 100 * time.Millisecond
)

// Window counts hits for key within a fixed window. RedisWindow implements it.
type Window interface {
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter applies a token bucket per IP and, when a shared window is configured,
// a per-minute ceiling across all replicas.
type Limiter struct {
	rps   rate.Limit
	burst int

	mu    sync.Mutex
	local *lru.Cache[string, *rate.Limiter]

	shared    Window
	sharedMax int
	log       zerolog.Logger
}

// New returns a Limiter. shared may be nil.
func New(rps float64, burst int, shared Window, sharedMax int, log zerolog.Logger) (*Limiter, error) {
	cache, err := lru.New[string, *rate.Limiter](maxLimiters)
	if err != nil {
		return nil, fmt.Errorf("limiter cache: %w", err)
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		local:     cache,
		shared:    shared,
		sharedMax: sharedMax,
		log:       log.With().Str("component", "ratelimit").Logger(),
	}, nil
}

// Allow reports whether a request from ip may proceed.
func (l *Limiter) Allow(ctx context.Context, ip string) bool {
	if !l.limiterFor(ip).Allow() {
		return false
	}
	if l.shared == nil || l.sharedMax <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	n, err := l.shared.Hit(ctx, "auth:"+ip, sharedWindow)
	if err != nil {
		// The local bucket already admitted the request.
		l.log.Warn().Err(err).Msg("shared rate window unavailable, using local limiter")
		return true
	}
	return n <= l.sharedMax
}

func (l *Limiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.local.Get(ip); ok {
		return lim
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.local.Add(ip, lim)
	return lim
}

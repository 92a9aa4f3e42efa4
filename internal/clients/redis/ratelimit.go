package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Limiter never blocks on its own failures: a store error is logged and the
// request allowed.
type Limiter interface {
	Allow(ctx context.Context, caller string) Decision
}

// counter increments key and sets ttl the first time it is seen.
type counter interface {
	incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type redisCounter struct {
	rdb *goredis.Client
}

func (c redisCounter) incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var n *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		n = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n.Val(), nil
}

// fixedWindow counts requests per caller in clock-aligned windows.
type fixedWindow struct {
	log    *logger.Logger
	store  counter
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewFixedWindowLimiter(log *logger.Logger, rdb *goredis.Client, limit int, window time.Duration) Limiter {
	return newFixedWindow(log, redisCounter{rdb: rdb}, limit, window)
}

func newFixedWindow(log *logger.Logger, store counter, limit int, window time.Duration) *fixedWindow {
	if window <= 0 {
		window = time.Minute
	}
	return &fixedWindow{
		log:    log.With("component", "RateLimiter"),
		store:  store,
		limit:  limit,
		window: window,
		prefix: "dedupe:ratelimit",
		now:    time.Now,
	}
}

func (l *fixedWindow) Allow(ctx context.Context, caller string) Decision {
	if l.limit <= 0 {
		return Decision{Allowed: true}
	}
	now := l.now().UnixNano()
	bucket := now / int64(l.window)
	resetIn := time.Duration((bucket+1)*int64(l.window) - now)
	key := fmt.Sprintf("%s:%s:%d", l.prefix, caller, bucket)

	n, err := l.store.incr(ctx, key, l.window+time.Second)
	if err != nil {
		l.log.Warn("rate limit check failed, allowing request", "caller", caller, "error", err)
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit, ResetIn: resetIn}
	}
	remaining := l.limit - int(n)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   int(n) <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}

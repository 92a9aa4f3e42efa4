package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

type memCounter struct {
	mu   sync.Mutex
	hits map[string]int64
	ttls map[string]time.Duration
	err  error
}

func (m *memCounter) incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hits == nil {
		m.hits, m.ttls = map[string]int64{}, map[string]time.Duration{}
	}
	m.hits[key]++
	if _, ok := m.ttls[key]; !ok {
		m.ttls[key] = ttl
	}
	return m.hits[key], nil
}

func testLimiter(t *testing.T, store counter, limit int, at time.Time) *fixedWindow {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	l := newFixedWindow(log, store, limit, time.Minute)
	l.now = func() time.Time { return at }
	return l
}

func TestFixedWindowLimits(t *testing.T) {
	store := &memCounter{}
	at := time.Date(2025, 5, 1, 12, 0, 15, 0, time.UTC)
	l := testLimiter(t, store, 2, at)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		d := l.Allow(ctx, "caller-a")
		if d.Allowed != want {
			t.Fatalf("request %d: allowed=%v want=%v", i, d.Allowed, want)
		}
	}
	d := l.Allow(ctx, "caller-b")
	if !d.Allowed || d.Remaining != 1 {
		t.Fatalf("callers must not share a window: %+v", d)
	}
	if d.ResetIn != 45*time.Second {
		t.Fatalf("unexpected reset: %v", d.ResetIn)
	}

	l.now = func() time.Time { return at.Add(time.Minute) }
	if d := l.Allow(ctx, "caller-a"); !d.Allowed {
		t.Fatalf("new window should allow again")
	}
	for key, ttl := range store.ttls {
		if ttl != time.Minute+time.Second {
			t.Fatalf("unexpected ttl for %s: %v", key, ttl)
		}
	}
}

func TestFixedWindowFailsOpen(t *testing.T) {
	store := &memCounter{err: errors.New("dial tcp: connection refused")}
	l := testLimiter(t, store, 1, time.Now())
	for i := 0; i < 3; i++ {
		if d := l.Allow(context.Background(), "sub:admin"); !d.Allowed || d.Remaining != 1 {
			t.Fatalf("store failure must allow the request: %+v", d)
		}
	}
}

func TestZeroLimitDisables(t *testing.T) {
	store := &memCounter{}
	l := testLimiter(t, store, 0, time.Now())
	if d := l.Allow(context.Background(), "caller"); !d.Allowed {
		t.Fatalf("unexpected decision %+v", d)
	}
	if len(store.hits) != 0 {
		t.Fatalf("disabled limiter should not touch the store")
	}
}

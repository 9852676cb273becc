package fetch

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds concurrent fetches with a global connection ceiling
// and a tighter per-host ceiling, mirroring a connection pool with a
// per-host limit.
type Limiter struct {
	mu        sync.Mutex
	global    *semaphore.Weighted
	perHost   map[string]*semaphore.Weighted
	hostLimit int64
}

// NewLimiter builds a Limiter. total <= 0 defaults to 30x the per-host
// ceiling, matching the intended use of many hosts linked from
// comments versus one primary host.
func NewLimiter(perHost, total int) *Limiter {
	if perHost <= 0 {
		perHost = 1
	}
	if total <= 0 {
		total = perHost * 30
	}
	return &Limiter{
		global:    semaphore.NewWeighted(int64(total)),
		perHost:   make(map[string]*semaphore.Weighted),
		hostLimit: int64(perHost),
	}
}

// Acquire blocks until both a global and a per-host connection slot
// are available, or the context ends. The returned release function
// must be called exactly once.
func (l *Limiter) Acquire(ctx context.Context, rawURL string) (func(), error) {
	host := hostOf(rawURL)

	l.mu.Lock()
	sem, ok := l.perHost[host]
	if !ok {
		sem = semaphore.NewWeighted(l.hostLimit)
		l.perHost[host] = sem
	}
	l.mu.Unlock()

	if err := l.global.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire connection slot: %w", err)
	}
	if err := sem.Acquire(ctx, 1); err != nil {
		l.global.Release(1)
		return nil, fmt.Errorf("acquire host slot for %q: %w", host, err)
	}

	return func() {
		sem.Release(1)
		l.global.Release(1)
	}, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}

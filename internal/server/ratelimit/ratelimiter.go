package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter allows up to limit requests per client in fixed windows.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// NewLimiter creates an in-memory limiter.
func NewLimiter(limit int, windowSize time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  windowSize,
		clients: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it fits the window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	win := l.clients[key]
	if win == nil || now.After(win.windowEnd) {
		l.clients[key] = &bucket{
			count:     1,
			windowEnd: now.Add(l.window),
		}
		return true
	}

	if win.count < l.limit {
		win.count++
		return true
	}

	return false
}

// StartCleanup evicts expired windows every interval until ctx is done.
func (l *Limiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.evict()
			}
		}
	}()
}

func (l *Limiter) evict() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, win := range l.clients {
		if now.After(win.windowEnd) {
			delete(l.clients, key)
		}
	}
}

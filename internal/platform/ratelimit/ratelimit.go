// Package ratelimit provides fixed-window request limiters keyed by caller.
// The faucet claim route uses one so a single client cannot drain claims for
// many fresh addresses in a burst.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Limiter interface {
	// Allow records one hit for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}

// Memory is a process-local fixed-window limiter.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	windows map[string]memoryWindow
}

type memoryWindow struct {
	start time.Time
	count int
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		now:     time.Now,
		windows: make(map[string]memoryWindow),
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	if m.limit <= 0 {
		return true, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	current, ok := m.windows[key]
	if !ok || !now.Before(current.start.Add(m.window)) {
		current = memoryWindow{start: now}
	}
	current.count++
	m.windows[key] = current
	m.sweep(now)
	return current.count <= m.limit, nil
}

// sweep drops expired windows once the table grows.
func (m *Memory) sweep(now time.Time) {
	if len(m.windows) < 4096 {
		return
	}
	for key, w := range m.windows {
		if !now.Before(w.start.Add(m.window)) {
			delete(m.windows, key)
		}
	}
}

// Package rate implements fixed-window request limits keyed by action and caller.
package rate

import (
	"sync"
	"time"
)

type Limiter interface {
	// Allow records one hit on key. When the window's limit is used up it
	// reports false and how long until the window resets.
	Allow(key string, limit int, window time.Duration) (bool, time.Duration)
}

type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	hits    int
}

type window struct {
	count   int
	resetAt time.Time
	length  time.Duration
}

// pruneEvery is the number of Allow calls between sweeps of expired windows.
const pruneEvery = 1024

func NewMemory() *MemoryLimiter {
	return &MemoryLimiter{windows: make(map[string]*window), now: time.Now}
}

func (m *MemoryLimiter) Allow(key string, limit int, length time.Duration) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.hits++
	if m.hits%pruneEvery == 0 {
		m.prune(now)
	}

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) || w.length != length {
		w = &window{resetAt: now.Add(length), length: length}
		m.windows[key] = w
	}

	retry := w.resetAt.Sub(now)
	if w.count >= limit {
		return false, retry
	}
	w.count++
	return true, retry
}

// Len reports how many windows are tracked.
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

func (m *MemoryLimiter) prune(now time.Time) {
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
		}
	}
}

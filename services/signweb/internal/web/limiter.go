package web

import (
	"strings"
	"sync"
	"time"
)

// signLimiter admits at most limit sign attempts per signatory in each
// window. A nil limiter or a non-positive limit admits everything.
type signLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	byKey  map[string]windowState
}

type windowState struct {
	start time.Time
	count int
}

func newSignLimiter(limit int, window time.Duration) *signLimiter {
	return &signLimiter{
		limit:  limit,
		window: window,
		byKey:  map[string]windowState{},
	}
}

func (l *signLimiter) Allow(key string, now time.Time) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	key = strings.TrimSpace(key)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(now)
	cur := l.byKey[key]
	if cur.start.IsZero() || now.Sub(cur.start) >= l.window {
		l.byKey[key] = windowState{start: now, count: 1}
		return true
	}
	if cur.count >= l.limit {
		return false
	}
	cur.count++
	l.byKey[key] = cur
	return true
}

// evict drops expired windows so the map does not grow with every signatory
// ever seen.
func (l *signLimiter) evict(now time.Time) {
	for k, st := range l.byKey {
		if now.Sub(st.start) >= l.window {
			delete(l.byKey, k)
		}
	}
}

// Package gate guards the customer entry points: per-client fixed-window rate limiting and
// bot challenge verification.
//
// Counters live in process memory. With several replicas each one enforces its own limit,
// so the effective limit grows with the replica count. A shared store can replace
// FixedWindow behind the Limiter interface.
package gate

import (
	"sync"
	"time"
)

// Rule is a request budget per window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is how long a rejected client has to wait for the next window.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed || !d.ResetAt.After(now) {
		return 0
	}
	return d.ResetAt.Sub(now)
}

type Limiter interface {
	Allow(key string, rule Rule, now time.Time) Decision
}

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindow counts requests per key in windows that start with the key's first request
// and reset once they expire.
type FixedWindow struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewFixedWindow() *FixedWindow {
	return &FixedWindow{windows: make(map[string]*window)}
}

func (l *FixedWindow) Allow(key string, rule Rule, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{count: 1, resetAt: now.Add(rule.Window)}
		l.windows[key] = w
		return Decision{Allowed: true, Remaining: rule.Limit - 1, ResetAt: w.resetAt}
	}

	if w.count >= rule.Limit {
		return Decision{Allowed: false, Remaining: 0, ResetAt: w.resetAt}
	}

	w.count++
	return Decision{Allowed: true, Remaining: rule.Limit - w.count, ResetAt: w.resetAt}
}

// Sweep drops expired windows and reports how many were removed.
func (l *FixedWindow) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

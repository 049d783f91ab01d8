package service

import (
	"sync"
	"time"
)

// loginLimiter throttles login attempts per handle with a sliding window.
// Entries are pruned on every check so the map stays bounded by the number
// of handles seen inside one window.
type loginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

func newLoginLimiter(max int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Check reports whether another attempt for handle is allowed. When the
// window is full it returns the wait until the oldest attempt expires.
func (l *loginLimiter) Check(handle string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.prune(handle)
	if len(recent) < l.max {
		return 0, true
	}

	retryAfter := l.window - l.now().Sub(recent[0])
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return retryAfter, false
}

// RecordFailure counts a failed attempt against the handle.
func (l *loginLimiter) RecordFailure(handle string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.attempts[handle] = append(l.prune(handle), l.now())
}

// Reset clears the handle's window after a successful login.
func (l *loginLimiter) Reset(handle string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.attempts, handle)
}

// prune drops attempts older than the window. Caller must hold mu.
func (l *loginLimiter) prune(handle string) []time.Time {
	cutoff := l.now().Add(-l.window)
	recent := l.attempts[handle][:0]
	for _, t := range l.attempts[handle] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) == 0 {
		delete(l.attempts, handle)
		return nil
	}
	l.attempts[handle] = recent
	return recent
}

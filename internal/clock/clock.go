package clock

import (
	"sync"
	"time"
)

// Clock allows injecting time in domain/services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant (useful for tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type monotonicClock struct {
	mu    sync.Mutex
	inner Clock
	last  time.Time
}

// NewMonotonic wraps a clock so successive readings never decrease. The
// purchase ledger relies on this for non-decreasing timestamps even if the
// wall clock steps backwards.
func NewMonotonic(inner Clock) Clock {
	return &monotonicClock{inner: inner}
}

func (m *monotonicClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.inner.Now()
	if now.Before(m.last) {
		return m.last
	}
	m.last = now
	return now
}

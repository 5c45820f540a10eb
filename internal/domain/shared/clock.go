package shared

import (
	"sync"
	"time"
)

// Clock supplies the current time to token issuing and expiry
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock returns the system clock
func NewRealClock() Clock {
	return RealClock{}
}

// MockClock is a manually advanced clock for tests. Safe for concurrent use since
// the token sweeper reads it from its own goroutine.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock starts a MockClock at start, or at the current time when start is zero
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Now()
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

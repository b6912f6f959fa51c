package engine

import "sync"

// MockTicks provides a controllable tick source for testing
type MockTicks struct {
	mu      sync.RWMutex
	current uint64
}

// NewMockTicks creates a new mock tick source at the given tick
func NewMockTicks(start uint64) *MockTicks {
	return &MockTicks{
		current: start,
	}
}

// Ticks returns the current mocked tick
func (m *MockTicks) Ticks() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set sets the current tick for the mock
func (m *MockTicks) Set(tick uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = tick
}

// Advance advances the current tick by ms
func (m *MockTicks) Advance(ms uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current += ms
}

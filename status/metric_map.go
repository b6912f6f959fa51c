package status

import (
	"sort"
	"sync"
)

// metric pairs a value with its help text
type metric[T any] struct {
	help  string
	value T
}

// MetricMap is a thread-safe registry for metrics of type T
// Registration uses mutex; cached pointer access is lock-free
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*metric[T]
}

// NewMetricMap creates an initialized MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{
		items: make(map[string]*metric[T]),
	}
}

// Get returns the metric pointer for key, creating if absent
// Help text is recorded on creation only; later calls keep the first description
func (m *MetricMap[T]) Get(key, help string) *T {
	// Fast path: RLock check
	m.mu.RLock()
	if item, ok := m.items[key]; ok {
		m.mu.RUnlock()
		return &item.value
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if item, ok := m.items[key]; ok {
		return &item.value
	}

	item := &metric[T]{help: help}
	m.items[key] = item
	return &item.value
}

// Has returns true if the key exists
func (m *MetricMap[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Range iterates over all metrics in sorted key order
// Callback receives the pointer; caller reads atomic value from it
func (m *MetricMap[T]) Range(fn func(key, help string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.items) == 0 {
		return
	}

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		item := m.items[k]
		fn(k, item.help, &item.value)
	}
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

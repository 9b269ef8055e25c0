package services

import "sync"

// mirror is an in-memory copy of one server-owned collection. The lock is
// held only while reading or patching; remote calls happen outside it, so
// overlapping mutations settle last-writer-wins.
type mirror[T any] struct {
	mu    sync.RWMutex
	items []T
}

// snapshot returns a copy of the items.
func (m *mirror[T]) snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T(nil), m.items...)
}

func (m *mirror[T]) replace(items []T) {
	m.mu.Lock()
	m.items = append([]T(nil), items...)
	m.mu.Unlock()
}

func (m *mirror[T]) patch(fn func([]T) []T) {
	m.mu.Lock()
	m.items = fn(m.items)
	m.mu.Unlock()
}

func (m *mirror[T]) reset() {
	m.replace(nil)
}

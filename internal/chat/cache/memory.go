// internal/chat/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	message   string
	createdAt time.Time
}

// Memory is the in-process cache backend. Capacity is enforced with
// insertion-order eviction: when an insert would exceed the bound, the
// single oldest-inserted entry is removed first. Expired entries are
// treated as absent on read but are not proactively purged.
type Memory struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	order    []string
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func NewMemory(ttl time.Duration, capacity int) *Memory {
	return &Memory{
		entries:  make(map[string]memoryEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, query string) (string, bool) {
	key := Normalize(query)

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if m.now().Sub(entry.createdAt) >= m.ttl {
		return "", false
	}
	return entry.message, true
}

func (m *Memory) Put(_ context.Context, query, message string) {
	key := Normalize(query)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; exists {
		// Overwrite keeps the key's original insertion position.
		m.entries[key] = memoryEntry{message: message, createdAt: m.now()}
		return
	}

	if len(m.entries) >= m.capacity && len(m.order) > 0 {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}

	m.entries[key] = memoryEntry{message: message, createdAt: m.now()}
	m.order = append(m.order, key)
}

func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]memoryEntry)
	m.order = nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a Memory cache built by NewMemory.
const DefaultMaxEntries = 1024

// Memory is an in-process Cache. Entries older than TTL are treated as
// missing; a zero TTL keeps entries until they are pushed out by
// MaxEntries.
type Memory struct {
	// MaxEntries caps the map size. When full, Set drops the oldest entry.
	// Zero means no cap.
	MaxEntries int

	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	value  []byte
	stored time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		MaxEntries: DefaultMaxEntries,
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.ttl > 0 && m.now().Sub(e.stored) > m.ttl {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	if _, exists := m.entries[key]; !exists && m.MaxEntries > 0 && len(m.entries) >= m.MaxEntries {
		m.evictOldest()
	}
	m.entries[key] = memoryEntry{value: append([]byte(nil), value...), stored: now}
	return nil
}

// sweep drops every expired entry. Caller holds mu.
func (m *Memory) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for k, e := range m.entries {
		if now.Sub(e.stored) > m.ttl {
			delete(m.entries, k)
		}
	}
}

func (m *Memory) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, e := range m.entries {
		if !found || e.stored.Before(oldest) {
			oldestKey, oldest, found = k, e.stored, true
		}
	}
	if found {
		delete(m.entries, oldestKey)
	}
}

// Len reports the number of stored entries. Expired entries count until
// the next Set or a Get of that key.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

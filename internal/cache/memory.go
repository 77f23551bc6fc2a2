package cache

import (
	"container/list"
	"sync"
	"time"

	"horse.fit/lingomix/internal/globaltime"
)

type memoryEntry struct {
	key       string
	value     string
	expiresAt time.Time
}

// memoryStore is the in-process TTL tier. Every entry shares one TTL, so
// insertion order is expiry order and the list front is always the entry to
// evict first.
type memoryStore struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	order      *list.List
	items      map[string]*list.Element

	expirations int64
	evictions   int64
}

func newMemoryStore(ttl time.Duration, maxEntries int) *memoryStore {
	return &memoryStore{
		ttl:        ttl,
		maxEntries: maxEntries,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

func (m *memoryStore) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return "", false
	}
	entry := elem.Value.(*memoryEntry)
	if !globaltime.Now().Before(entry.expiresAt) {
		m.remove(elem)
		m.expirations++
		return "", false
	}
	return entry.value, true
}

func (m *memoryStore) set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt := globaltime.Now().Add(m.ttl)
	if elem, ok := m.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		m.order.MoveToBack(elem)
		return
	}

	if m.maxEntries > 0 {
		for m.order.Len() >= m.maxEntries {
			m.remove(m.order.Front())
			m.evictions++
		}
	}
	m.items[key] = m.order.PushBack(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
}

// purge drops every expired entry and reports how many were removed.
func (m *memoryStore) purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := globaltime.Now()
	removed := 0
	for elem := m.order.Front(); elem != nil; {
		entry := elem.Value.(*memoryEntry)
		if now.Before(entry.expiresAt) {
			break
		}
		next := elem.Next()
		m.remove(elem)
		removed++
		elem = next
	}
	m.expirations += int64(removed)
	return removed
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func (m *memoryStore) counters() (expirations, evictions int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expirations, m.evictions
}

func (m *memoryStore) remove(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	delete(m.items, entry.key)
	m.order.Remove(elem)
}

package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// memEntry is one cached value in the in-memory tier. data holds the
// uncompressed msgpack encoding. A zero expiresAt means never expires.
type memEntry struct {
	data      []byte
	rawKey    string
	createdAt time.Time
	expiresAt time.Time
	hits      int
}

func (e *memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// memoryTier is the in-process tier. A single mutex serializes all
// mutations; entries beyond maxItems are refused on write and trimmed by
// the sweep.
type memoryTier struct {
	mu       sync.Mutex
	entries  map[string]*memEntry
	maxItems int
}

func newMemoryTier(maxItems int) *memoryTier {
	return &memoryTier{
		entries:  make(map[string]*memEntry),
		maxItems: maxItems,
	}
}

// get returns the entry's data for digest, evicting it first if expired.
func (m *memoryTier) get(digest string, now time.Time) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[digest]
	if !ok {
		return nil, false
	}
	if e.expired(now) {
		delete(m.entries, digest)
		return nil, false
	}
	e.hits++
	return e.data, true
}

// set stores data under digest. When a new key would push the tier past
// maxItems, the oldest fifth of the entries is evicted first. Returns the
// number of entries evicted to make room.
func (m *memoryTier) set(digest, rawKey string, data []byte, createdAt, expiresAt time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted int
	if _, ok := m.entries[digest]; !ok && len(m.entries) >= m.maxItems {
		evicted = m.evictOldest()
	}
	m.entries[digest] = &memEntry{
		data:      data,
		rawKey:    rawKey,
		createdAt: createdAt,
		expiresAt: expiresAt,
	}
	return evicted
}

// evictOldest removes the oldest fifth of the entries by creation time, at
// least one. Caller holds the lock.
func (m *memoryTier) evictOldest() int {
	type aged struct {
		digest    string
		createdAt time.Time
	}
	items := make([]aged, 0, len(m.entries))
	for digest, e := range m.entries {
		items = append(items, aged{digest, e.createdAt})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].createdAt.Before(items[j].createdAt)
	})

	removeCount := len(items) / 5
	if removeCount < 1 {
		removeCount = 1
	}
	for i := 0; i < removeCount; i++ {
		delete(m.entries, items[i].digest)
	}
	return removeCount
}

func (m *memoryTier) delete(digest string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[digest]
	if ok {
		delete(m.entries, digest)
	}
	return ok
}

// clear removes entries whose raw key contains pattern; an empty pattern
// removes everything. Returns the number removed.
func (m *memoryTier) clear(pattern string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pattern == "" {
		n := len(m.entries)
		m.entries = make(map[string]*memEntry)
		return n
	}
	var n int
	for digest, e := range m.entries {
		if strings.Contains(e.rawKey, pattern) {
			delete(m.entries, digest)
			n++
		}
	}
	return n
}

// sweep drops expired entries, then trims the oldest fifth whenever the
// tier is still over capacity. Returns the number evicted.
func (m *memoryTier) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted int
	for digest, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, digest)
			evicted++
		}
	}

	if len(m.entries) > m.maxItems {
		evicted += m.evictOldest()
	}
	return evicted
}

func (m *memoryTier) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

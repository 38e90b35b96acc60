package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the memo window for extraction results.
const DefaultTTL = time.Hour

// Clock returns the current time. Tests inject a fake.
type Clock func() time.Time

type entryKey struct {
	key    string
	bucket int64
}

// Memo is an in-memory, process-local memo keyed by (key, time bucket).
// The bucket is now/TTL, so an entry is served until the wall clock crosses
// the next bucket boundary: at most TTL, possibly less. Values are never
// mutated after Put. A zero or negative TTL disables storage.
type Memo[V any] struct {
	TTL   time.Duration
	Clock Clock
	// KeepPrevious also serves the previous bucket, so every entry lives at
	// least one full TTL (and at most two).
	KeepPrevious bool

	mu      sync.Mutex
	entries map[entryKey]V
}

// NewMemo returns a memo with the given TTL and the real clock.
func NewMemo[V any](ttl time.Duration) *Memo[V] {
	return &Memo[V]{TTL: ttl, Clock: time.Now}
}

func (m *Memo[V]) bucket() int64 {
	now := time.Now
	if m.Clock != nil {
		now = m.Clock
	}
	return now().UnixNano() / int64(m.TTL)
}

// Get returns the value stored for key in the current bucket (or the
// previous one with KeepPrevious).
func (m *Memo[V]) Get(key string) (V, bool) {
	var zero V
	if m == nil || m.TTL <= 0 {
		return zero, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket()
	if v, ok := m.entries[entryKey{key, b}]; ok {
		return v, true
	}
	if m.KeepPrevious {
		if v, ok := m.entries[entryKey{key, b - 1}]; ok {
			return v, true
		}
	}
	return zero, false
}

// Put stores v for key in the current bucket and drops entries from older buckets.
func (m *Memo[V]) Put(key string, v V) {
	if m == nil || m.TTL <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket()
	if m.entries == nil {
		m.entries = make(map[entryKey]V)
	}
	for k := range m.entries {
		if k.bucket == b || (m.KeepPrevious && k.bucket == b-1) {
			continue
		}
		delete(m.entries, k)
	}
	m.entries[entryKey{key, b}] = v
}

// Do returns the memoized value for key or calls fn and stores its result.
// Errors are returned and not stored. hit reports whether fn was skipped.
// Concurrent misses for one key may both call fn.
func (m *Memo[V]) Do(key string, fn func() (V, error)) (v V, hit bool, err error) {
	if v, ok := m.Get(key); ok {
		return v, true, nil
	}
	v, err = fn()
	if err != nil {
		return v, false, err
	}
	m.Put(key, v)
	return v, false, nil
}

// Len reports how many entries are held, stale ones included.
func (m *Memo[V]) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

package store

import (
	"container/list"
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// entry holds stored bytes with their physical key and expiration time.
type entry struct {
	expiresAt time.Time // zero value = never expires
	key       string
	value     []byte
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryOption configures the memory store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	now             func() time.Time
	cleanupInterval time.Duration
	maxEntries      int
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		now:             time.Now,
		cleanupInterval: time.Minute,
	}
}

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithCleanupInterval sets how often the janitor drops expired entries.
// Zero disables the janitor; expired entries are then dropped lazily on access.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries bounds the store. The least recently used entry is evicted
// when the bound is reached. Zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// Memory is an in-process [Client] for tests and single-instance development.
//
// It reproduces the Redis backend's prefix behaviour exactly: the prefix is
// applied to Get, Set and Del, while Keys matches and returns physical keys.
// Entries are kept in a map plus an LRU list, so lookups and evictions are O(1).
type Memory struct {
	items    map[string]*list.Element
	eviction *list.List
	opts     *memoryOptions
	done     chan struct{}
	prefix   string
	mu       sync.Mutex
	closed   bool
}

// NewMemory creates a memory store that prefixes every key with prefix.
func NewMemory(prefix string, opts ...MemoryOption) *Memory {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		opts:     o,
		done:     make(chan struct{}),
		prefix:   prefix,
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get returns a copy of the bytes stored under the prefixed key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.Join(ErrUnavailable, ErrClosed)
	}

	elem, ok := m.items[m.prefix+key]
	if !ok {
		return nil, ErrNotFound
	}

	e := elem.Value.(*entry)
	if e.expired(m.opts.now()) {
		m.removeElement(elem)
		return nil, ErrNotFound
	}

	m.eviction.MoveToFront(elem)

	return append([]byte(nil), e.value...), nil
}

// Set stores a copy of value under the prefixed key. A non-positive ttl means no expiry.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.Join(ErrUnavailable, ErrClosed)
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.opts.now().Add(ttl)
	}

	physical := m.prefix + key
	value = append([]byte(nil), value...)

	if elem, ok := m.items[physical]; ok {
		e := elem.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		if oldest := m.eviction.Back(); oldest != nil {
			m.removeElement(oldest)
		}
	}

	m.items[physical] = m.eviction.PushFront(&entry{key: physical, value: value, expiresAt: expiresAt})

	return nil
}

// Del removes the prefixed keys and returns how many were live.
func (m *Memory) Del(_ context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errors.Join(ErrUnavailable, ErrClosed)
	}

	now := m.opts.now()
	var n int64
	for _, k := range keys {
		elem, ok := m.items[m.prefix+k]
		if !ok {
			continue
		}
		if !elem.Value.(*entry).expired(now) {
			n++
		}
		m.removeElement(elem)
	}

	return n, nil
}

// Keys returns live physical keys matching pattern, sorted.
func (m *Memory) Keys(_ context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.Join(ErrUnavailable, ErrClosed)
	}

	now := m.opts.now()
	keys := make([]string, 0)
	for k, elem := range m.items {
		if elem.Value.(*entry).expired(now) {
			continue
		}
		if MatchGlob(pattern, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return keys, nil
}

// Prefix returns the configured key prefix.
func (m *Memory) Prefix() string {
	return m.prefix
}

// Ping fails only after Close.
func (m *Memory) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.Join(ErrUnavailable, ErrClosed)
	}
	return nil
}

// Len returns the number of entries, including expired ones not yet collected.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)

	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	for elem := m.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).expired(now) {
			m.removeElement(elem)
		}
		elem = prev
	}
}

// removeElement drops elem from both indexes. Caller must hold the mutex.
func (m *Memory) removeElement(elem *list.Element) {
	m.eviction.Remove(elem)
	delete(m.items, elem.Value.(*entry).key)
}

var _ Client = (*Memory)(nil)

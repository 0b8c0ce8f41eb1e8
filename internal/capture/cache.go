// Package capture holds pending screenshots in memory between capture and
// disposition (copy, save, edit, discard).
package capture

import (
	"errors"
	"sync"
)

// ErrNotFound is returned when a capture key has no cached entry. Callers
// surface it to the user; a missing entry means a disposal race or a logic
// bug, never a silent no-op.
var ErrNotFound = errors.New("screenshot data not found")

// Cache is a process-wide mapping from capture keys to raw PNG bytes.
// It is owned by the application shell and passed to every task that
// needs it; entries do not survive a restart.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewCache creates an empty capture cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string][]byte),
	}
}

// Put inserts or overwrites the entry for key. The bytes are copied so the
// caller may reuse its buffer.
func (c *Cache) Put(key string, data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)

	c.mu.Lock()
	c.entries[key] = buf
	c.mu.Unlock()
}

// Get returns a copy of the bytes for key, or ErrNotFound.
// Callers copy out under the lock and do any I/O after it is released.
func (c *Cache) Get(key string) ([]byte, error) {
	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Remove deletes the entry for key. Removing an absent key is a no-op.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of pending captures.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return n
}

// Package cache provides an in-memory LRU cache for file contents,
// keyed by path and validated by size and modification time.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultMaxSize is the default maximum memory size for the file cache (64 MB).
const DefaultMaxSize = 64 * 1024 * 1024

// FileCache holds file contents across repeated intake passes. An
// entry is served only while the file's size and modification time
// still match, so rebuilds reuse reads without going stale.
type FileCache struct {
	mu          sync.Mutex
	entries     map[string]*fileEntry
	head        *fileEntry // Most recently used.
	tail        *fileEntry // Least recently used.
	maxSize     int64
	currentSize int64

	// Counters stay atomic so Stats can read them without the lock.
	hits   atomic.Int64
	misses atomic.Int64
}

// fileEntry is a doubly-linked list node for LRU tracking.
type fileEntry struct {
	path    string
	content string
	size    int64
	modTime time.Time
	prev    *fileEntry
	next    *fileEntry
}

// NewFileCache creates a file cache bounded to maxSize bytes of
// content. Non-positive sizes fall back to DefaultMaxSize.
func NewFileCache(maxSize int64) *FileCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	return &FileCache{
		entries: make(map[string]*fileEntry),
		maxSize: maxSize,
	}
}

// Get returns the cached content for path when size and modTime still
// match the stored entry.
func (c *FileCache) Get(path string, size int64, modTime time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[path]
	if !ok || entry.size != size || !entry.modTime.Equal(modTime) {
		c.misses.Add(1)

		return "", false
	}

	c.hits.Add(1)
	c.touch(entry)

	return entry.content, true
}

// Put stores content for path, replacing any existing entry. Contents
// larger than the cache bound are not stored.
func (c *FileCache) Put(path string, size int64, modTime time.Time, content string) {
	contentSize := int64(len(content))
	if contentSize > c.maxSize {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[path]; ok {
		c.drop(entry)
	}

	// Evict from the tail until the new content fits.
	for c.currentSize+contentSize > c.maxSize && c.tail != nil {
		c.drop(c.tail)
	}

	entry := &fileEntry{path: path, content: content, size: size, modTime: modTime}
	c.entries[path] = entry
	c.currentSize += contentSize
	c.pushFront(entry)
}

// Stats snapshots the cache counters and occupancy.
func (c *FileCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Entries:     len(c.entries),
		CurrentSize: c.currentSize,
		MaxSize:     c.maxSize,
	}
}

// Stats describes cache effectiveness at a point in time.
type Stats struct {
	Hits        int64
	Misses      int64
	Entries     int
	CurrentSize int64
	MaxSize     int64
}

// HitRate returns the fraction of lookups served from cache, 0 when
// the cache has seen no traffic.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}

	return float64(s.Hits) / float64(total)
}

// Clear drops every entry and resets the recency list.
func (c *FileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*fileEntry)
	c.head = nil
	c.tail = nil
	c.currentSize = 0
}

// drop evicts an entry: out of the list, out of the map, size reclaimed.
func (c *FileCache) drop(entry *fileEntry) {
	c.unlink(entry)
	delete(c.entries, entry.path)
	c.currentSize -= int64(len(entry.content))
}

// touch marks an entry as most recently used.
func (c *FileCache) touch(entry *fileEntry) {
	if entry == c.head {
		return
	}

	c.unlink(entry)
	c.pushFront(entry)
}

// pushFront links an entry in at the head of the recency list.
func (c *FileCache) pushFront(entry *fileEntry) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}

	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

// unlink detaches an entry from the recency list, fixing up head and tail.
func (c *FileCache) unlink(entry *fileEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}

// seehuhn.de/go/pdfmerge - merge the fonts of several PDF documents
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdfmerge

// CacheStrategy determines which entries a [BoundedCache] drops when it
// overflows.
type CacheStrategy int

// These are the available cache strategies.
const (
	// ClearAll empties the whole cache when a new entry would exceed the
	// capacity.
	ClearAll CacheStrategy = iota

	// LRU drops the least recently used entry.
	LRU
)

func (s CacheStrategy) String() string {
	switch s {
	case ClearAll:
		return "clear-all"
	case LRU:
		return "lru"
	default:
		return "unknown"
	}
}

// BoundedCache is a cache with a fixed capacity.
type BoundedCache[K comparable, V any] struct {
	capacity    int
	strategy    CacheStrategy
	entries     map[K]*cacheEntry[K, V]
	first, last *cacheEntry[K, V]
}

type cacheEntry[K comparable, V any] struct {
	prev, next *cacheEntry[K, V]
	key        K
	val        V
}

// NewBoundedCache creates a new cache with the given capacity and strategy.
func NewBoundedCache[K comparable, V any](capacity int, strategy CacheStrategy) *BoundedCache[K, V] {
	return &BoundedCache[K, V]{
		capacity: capacity,
		strategy: strategy,
		entries:  make(map[K]*cacheEntry[K, V], capacity),
	}
}

// Put adds a value to the cache.
func (c *BoundedCache[K, V]) Put(key K, val V) {
	if c.capacity <= 0 {
		return
	}

	if ent, ok := c.entries[key]; ok {
		ent.val = val
		c.moveToFront(ent)
		return
	}

	if len(c.entries) >= c.capacity {
		switch c.strategy {
		case LRU:
			c.removeLast()
		default:
			c.Clear()
		}
	}

	ent := &cacheEntry[K, V]{
		key: key,
		val: val,
	}
	c.entries[key] = ent
	c.moveToFront(ent)
}

// Get returns a value from the cache and marks it as recently used.
func (c *BoundedCache[K, V]) Get(key K) (V, bool) {
	ent, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	c.moveToFront(ent)
	return ent.val, true
}

// Has returns true if the cache contains the given key.
// The entry is not marked as recently used.
func (c *BoundedCache[K, V]) Has(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of entries in the cache.
func (c *BoundedCache[K, V]) Len() int {
	return len(c.entries)
}

// Clear removes all entries from the cache.
func (c *BoundedCache[K, V]) Clear() {
	clear(c.entries)
	c.first = nil
	c.last = nil
}

func (c *BoundedCache[K, V]) moveToFront(ent *cacheEntry[K, V]) {
	if ent == c.first {
		return
	}

	if ent.prev != nil {
		ent.prev.next = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	}
	if ent == c.last {
		c.last = ent.prev
	}

	ent.prev = nil
	ent.next = c.first
	if c.first != nil {
		c.first.prev = ent
	}
	c.first = ent
	if c.last == nil {
		c.last = ent
	}
}

func (c *BoundedCache[K, V]) removeLast() {
	if c.last == nil {
		return
	}

	delete(c.entries, c.last.key)
	if c.last.prev != nil {
		c.last.prev.next = nil
	} else {
		c.first = nil
	}
	c.last = c.last.prev
}

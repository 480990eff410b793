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

import (
	"testing"
)

func TestLRUCache(t *testing.T) {
	cache := NewBoundedCache[int, int](12, LRU)
	cache.Put(100, 100)
	cache.Put(101, 101)
	cache.Put(102, 102)
	val, ok := cache.Get(100)
	if !ok {
		t.Error("cache miss")
	}
	if val != 100 {
		t.Error("wrong value")
	}
	// now 101 is the oldest entry and should drop out later

	val, ok = cache.Get(0)
	if ok {
		t.Error("cache hit")
	}
	if val != 0 {
		t.Error("wrong value")
	}

	for i := 0; i < 25; i++ {
		x := i % 10

		val, ok := cache.Get(x)
		if ok != (i >= 10) {
			t.Error("cache hit/miss mismatch")
		}
		if ok {
			if val != x {
				t.Error("wrong value")
			}
		} else {
			cache.Put(x, x)
		}
	}

	_, ok = cache.Get(100)
	if !ok {
		t.Error("cache miss")
	}
	_, ok = cache.Get(101)
	if ok {
		t.Error("cache hit")
	}
	_, ok = cache.Get(102)
	if !ok {
		t.Error("cache miss")
	}
}

func TestClearAllCache(t *testing.T) {
	cache := NewBoundedCache[int, string](10, ClearAll)
	for i := range 10 {
		cache.Put(i, "x")
	}
	if cache.Len() != 10 {
		t.Fatalf("got %d entries, want 10", cache.Len())
	}

	// replacing an existing entry does not overflow
	cache.Put(3, "y")
	if cache.Len() != 10 {
		t.Errorf("got %d entries, want 10", cache.Len())
	}

	// the eleventh entry clears everything else
	cache.Put(10, "z")
	if cache.Len() != 1 {
		t.Errorf("got %d entries, want 1", cache.Len())
	}
	for i := range 10 {
		if cache.Has(i) {
			t.Errorf("entry %d survived", i)
		}
	}
	if val, ok := cache.Get(10); !ok || val != "z" {
		t.Errorf("Get(10) = %q, %t", val, ok)
	}
}

func TestCacheSmall(t *testing.T) {
	cache := NewBoundedCache[string, int](1, LRU)
	cache.Put("a", 1)
	cache.Put("b", 2)
	if cache.Has("a") || !cache.Has("b") {
		t.Error("wrong entry evicted")
	}
	cache.Put("c", 3)
	if val, _ := cache.Get("c"); val != 3 || cache.Len() != 1 {
		t.Errorf("unexpected state: %d entries", cache.Len())
	}

	cache = NewBoundedCache[string, int](0, ClearAll)
	cache.Put("a", 1)
	if cache.Has("a") {
		t.Error("zero capacity cache stored an entry")
	}
}

// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package strmap

import (
	"bytes"
	"iter"
	"unsafe"

	"github.com/matrixorigin/strmap/pkg/common/arena"
)

const (
	kMinCapacity           = 8
	kLoadFactorNumerator   = 3
	kLoadFactorDenominator = 2
)

// Table is the open-addressing engine shared by all size classes,
// parameterized by a key slot strategy K. Capacity is always a power of
// two and at least kMinCapacity; occupancy is kept strictly below
// capacity by the load-factor thresholds. Probing is linear with
// wraparound. Not safe for concurrent use.
type Table[K any, PK keySlotPtr[K], V any] struct {
	slots []slot[K, V]
	elems int

	hasher Hasher
	keys   arena.Allocator
}

// Init prepares an empty table. The key allocator must outlive the
// table; the hasher must not change afterwards.
func (t *Table[K, PK, V]) Init(hasher Hasher, keys arena.Allocator) {
	t.slots = make([]slot[K, V], kMinCapacity)
	t.elems = 0
	t.hasher = hasher
	t.keys = keys
}

func (t *Table[K, PK, V]) Len() int {
	return t.elems
}

// Cap returns the current slot capacity.
func (t *Table[K, PK, V]) Cap() int {
	return len(t.slots)
}

// Size returns the bytes held by the table's backing slots, not counting
// arena-backed key bytes.
func (t *Table[K, PK, V]) Size() int64 {
	return int64(uintptr(len(t.slots)) * unsafe.Sizeof(slot[K, V]{}))
}

// lookup probes for key starting at hash, stopping at the first empty
// slot or exact match and skipping tombstones. It returns the slot index
// on a hit.
func (t *Table[K, PK, V]) lookup(key []byte, hash uint64) (int, bool) {
	mask := uint64(len(t.slots) - 1)
	for i, idx := uint64(0), hash&mask; i <= mask; i, idx = i+1, (idx+1)&mask {
		s := &t.slots[idx]
		switch s.state {
		case slotEmpty:
			return 0, false
		case slotData:
			if bytes.Equal(PK(&s.key).Key(), key) {
				return int(idx), true
			}
		}
	}
	return 0, false
}

// lookupOrFree probes for key starting at hash and returns the index of
// the matching data slot if the key is present, else the first reusable
// slot on the probe path. The match is preferred over an earlier
// tombstone so a key can never occupy two slots. Exhausting a full probe
// cycle without finding either means the capacity invariant is broken
// and is unrecoverable.
func (t *Table[K, PK, V]) lookupOrFree(key []byte, hash uint64) int {
	mask := uint64(len(t.slots) - 1)
	free := -1
	for i, idx := uint64(0), hash&mask; i <= mask; i, idx = i+1, (idx+1)&mask {
		s := &t.slots[idx]
		switch s.state {
		case slotEmpty:
			if free >= 0 {
				return free
			}
			return int(idx)
		case slotTombstone:
			if free < 0 {
				free = int(idx)
			}
		case slotData:
			if bytes.Equal(PK(&s.key).Key(), key) {
				return int(idx)
			}
		}
	}
	if free >= 0 {
		return free
	}
	panic("strmap: probe cycle exhausted, capacity invariant broken")
}

// Get returns the value stored under key. hash must be the hash of key;
// this is not validated.
func (t *Table[K, PK, V]) Get(key []byte, hash uint64) (V, bool) {
	if idx, ok := t.lookup(key, hash); ok {
		return t.slots[idx].value, true
	}
	var zero V
	return zero, false
}

// GetRef returns a pointer to the value stored under key, or nil. The
// pointer is invalidated by the next mutating call on the table.
func (t *Table[K, PK, V]) GetRef(key []byte, hash uint64) *V {
	if idx, ok := t.lookup(key, hash); ok {
		return &t.slots[idx].value
	}
	return nil
}

// Insert stores value under key, overwriting and returning any previous
// value.
func (t *Table[K, PK, V]) Insert(key []byte, hash uint64, value V) (prev V, replaced bool) {
	idx := t.lookupOrFree(key, hash)
	s := &t.slots[idx]
	if s.state == slotData {
		prev, s.value = s.value, value
		replaced = true
	} else {
		PK(&s.key).Store(t.keys, key, hash)
		s.state = slotData
		s.value = value
		t.elems++
	}
	t.growOnDemand()
	return prev, replaced
}

// TryInsert stores value under key only if the key is absent. On a hit
// it returns a pointer to the existing value, which is left unmodified,
// so aggregation workloads can merge without a second lookup. The
// pointer is invalidated by the next mutating call on the table.
func (t *Table[K, PK, V]) TryInsert(key []byte, hash uint64, value V) (existing *V, inserted bool) {
	idx := t.lookupOrFree(key, hash)
	s := &t.slots[idx]
	if s.state == slotData {
		return &s.value, false
	}
	PK(&s.key).Store(t.keys, key, hash)
	s.state = slotData
	s.value = value
	t.elems++
	t.growOnDemand()
	return nil, true
}

// Remove deletes key, leaving a tombstone, and returns the removed
// value.
func (t *Table[K, PK, V]) Remove(key []byte, hash uint64) (V, bool) {
	idx, ok := t.lookup(key, hash)
	if !ok {
		var zero V
		return zero, false
	}
	s := &t.slots[idx]
	removed := s.value
	var zeroK K
	var zeroV V
	s.key = zeroK
	s.value = zeroV
	s.state = slotTombstone
	t.elems--
	t.shrinkOnDemand()
	return removed, true
}

func (t *Table[K, PK, V]) growOnDemand() {
	if t.elems*kLoadFactorNumerator >= len(t.slots)*kLoadFactorDenominator {
		t.rehash(len(t.slots) * 2)
	}
}

func (t *Table[K, PK, V]) shrinkOnDemand() {
	if t.elems > kMinCapacity && t.elems*kLoadFactorNumerator <= len(t.slots) {
		t.rehash(len(t.slots) / 2)
	}
}

// rehash rebuilds the backing slots at the target capacity, dropping
// tombstones. Growth and shrink share this one routine. Strategies with
// a cached hash are moved without invoking the hasher; inline strategies
// are rehashed from their key bytes.
func (t *Table[K, PK, V]) rehash(newCap int) {
	old := t.slots
	t.slots = make([]slot[K, V], newCap)
	for i := range old {
		s := &old[i]
		if s.state != slotData {
			continue
		}
		k := PK(&s.key)
		hash, ok := k.CachedHash()
		if !ok {
			hash = t.hasher.Hash(k.Key())
		}
		t.slots[t.lookupOrFree(k.Key(), hash)] = *s
	}
}

// Iter yields every (key view, value) pair in slot order. The order is
// deterministic for a fixed table state but otherwise meaningless. Key
// views are only valid for the duration of the yield.
func (t *Table[K, PK, V]) Iter() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		for i := range t.slots {
			if t.slots[i].state != slotData {
				continue
			}
			if !yield(PK(&t.slots[i].key).Key(), t.slots[i].value) {
				return
			}
		}
	}
}

// IterMut is Iter with mutable access to the values. Yielded pointers
// must not be retained past the yield.
func (t *Table[K, PK, V]) IterMut() iter.Seq2[[]byte, *V] {
	return func(yield func([]byte, *V) bool) {
		for i := range t.slots {
			if t.slots[i].state != slotData {
				continue
			}
			if !yield(PK(&t.slots[i].key).Key(), &t.slots[i].value) {
				return
			}
		}
	}
}

// Drain removes and yields every pair. Keys are materialized into
// storage that outlives the table: inline keys are copied into the key
// allocator, arena-backed keys are yielded as-is. Entries are removed as
// they are yielded, so breaking early leaves the rest in place.
func (t *Table[K, PK, V]) Drain() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		for i := range t.slots {
			s := &t.slots[i]
			if s.state != slotData {
				continue
			}
			key := PK(&s.key).StableKey(t.keys)
			value := s.value
			var zeroK K
			var zeroV V
			s.key = zeroK
			s.value = zeroV
			s.state = slotTombstone
			t.elems--
			if !yield(key, value) {
				return
			}
		}
	}
}

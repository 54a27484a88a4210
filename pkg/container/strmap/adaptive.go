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

// Package strmap implements an adaptive, size-classed hash map from
// byte-string keys to arbitrary values, tuned for bulk workloads such as
// group-by aggregation and hash-join probing over large numbers of short
// keys.
//
// Keys are classified by length into five classes. The zero-length key
// occupies a dedicated slot with no hashing at all; keys up to 24 bytes
// are copied into fixed-width buffers embedded directly in table slots;
// longer keys are copied once into an external bump allocator. The four
// non-empty classes share one generic open-addressing engine with linear
// probing and tombstone deletion.
//
// Maps are not safe for concurrent use. The key allocator passed at
// construction must outlive the map; its memory is only reclaimed in
// bulk when the allocator itself is released.
package strmap

import (
	"iter"

	"github.com/matrixorigin/strmap/pkg/common/arena"
)

// Map is the adaptive string hash map. Every operation classifies the
// key once, hashes it at most once, and runs exactly one probe sequence
// in exactly one underlying table.
type Map[V any] struct {
	hasNone bool
	noneVal V

	small8  Table[Key8, *Key8, V]
	small16 Table[Key16, *Key16, V]
	small24 Table[Key24, *Key24, V]
	large   Table[LargeKey, *LargeKey, V]

	hasher Hasher
	keys   arena.Allocator
}

// New returns an empty map using the default hasher. The key allocator
// must outlive the map.
func New[V any](keys arena.Allocator) *Map[V] {
	return NewWithHasher[V](NewHasher(), keys)
}

// NewWithHasher returns an empty map using the given hasher. The hasher
// must not change afterwards; the key allocator must outlive the map.
func NewWithHasher[V any](hasher Hasher, keys arena.Allocator) *Map[V] {
	m := &Map[V]{
		hasher: hasher,
		keys:   keys,
	}
	m.small8.Init(hasher, keys)
	m.small16.Init(hasher, keys)
	m.small24.Init(hasher, keys)
	m.large.Init(hasher, keys)
	return m
}

// Hasher returns the map's hasher, for callers that precompute hashes
// for the *Hashed entry points.
func (m *Map[V]) Hasher() Hasher {
	return m.hasher
}

func (m *Map[V]) Len() int {
	n := m.small8.Len() + m.small16.Len() + m.small24.Len() + m.large.Len()
	if m.hasNone {
		n++
	}
	return n
}

func (m *Map[V]) IsEmpty() bool {
	return m.Len() == 0
}

// hashKey hashes key unless it is the zero-length key, which is never
// hashed.
func (m *Map[V]) hashKey(key []byte) uint64 {
	if len(key) == 0 {
		return 0
	}
	return m.hasher.Hash(key)
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key []byte) (V, bool) {
	return m.GetHashed(key, m.hashKey(key))
}

// GetHashed is Get with a caller-supplied hash. hash must equal
// Hasher().Hash(key); this is not validated, and a mismatch yields
// unspecified lookup results.
func (m *Map[V]) GetHashed(key []byte, hash uint64) (V, bool) {
	switch Classify(key).Class() {
	case ClassNone:
		if m.hasNone {
			return m.noneVal, true
		}
		var zero V
		return zero, false
	case ClassS8:
		return m.small8.Get(key, hash)
	case ClassS16:
		return m.small16.Get(key, hash)
	case ClassS24:
		return m.small24.Get(key, hash)
	default:
		return m.large.Get(key, hash)
	}
}

// GetRef returns a pointer to the value stored under key, or nil. The
// pointer is invalidated by the next mutating call on the map.
func (m *Map[V]) GetRef(key []byte) *V {
	return m.GetRefHashed(key, m.hashKey(key))
}

// GetRefHashed is GetRef with a caller-supplied hash; the hash is not
// validated against the key.
func (m *Map[V]) GetRefHashed(key []byte, hash uint64) *V {
	switch Classify(key).Class() {
	case ClassNone:
		if m.hasNone {
			return &m.noneVal
		}
		return nil
	case ClassS8:
		return m.small8.GetRef(key, hash)
	case ClassS16:
		return m.small16.GetRef(key, hash)
	case ClassS24:
		return m.small24.GetRef(key, hash)
	default:
		return m.large.GetRef(key, hash)
	}
}

// Insert stores value under key, overwriting and returning any previous
// value.
func (m *Map[V]) Insert(key []byte, value V) (prev V, replaced bool) {
	return m.InsertHashed(key, m.hashKey(key), value)
}

// InsertHashed is Insert with a caller-supplied hash; the hash is not
// validated against the key.
func (m *Map[V]) InsertHashed(key []byte, hash uint64, value V) (prev V, replaced bool) {
	switch Classify(key).Class() {
	case ClassNone:
		if m.hasNone {
			prev, m.noneVal = m.noneVal, value
			return prev, true
		}
		m.hasNone = true
		m.noneVal = value
		return prev, false
	case ClassS8:
		return m.small8.Insert(key, hash, value)
	case ClassS16:
		return m.small16.Insert(key, hash, value)
	case ClassS24:
		return m.small24.Insert(key, hash, value)
	default:
		return m.large.Insert(key, hash, value)
	}
}

// TryInsert stores value under key only if the key is absent. On a hit
// it returns a pointer to the existing value, left unmodified, so
// aggregation workloads can merge in place without a second lookup. The
// pointer is invalidated by the next mutating call on the map.
func (m *Map[V]) TryInsert(key []byte, value V) (existing *V, inserted bool) {
	return m.TryInsertHashed(key, m.hashKey(key), value)
}

// TryInsertHashed is TryInsert with a caller-supplied hash; the hash is
// not validated against the key.
func (m *Map[V]) TryInsertHashed(key []byte, hash uint64, value V) (existing *V, inserted bool) {
	switch Classify(key).Class() {
	case ClassNone:
		if m.hasNone {
			return &m.noneVal, false
		}
		m.hasNone = true
		m.noneVal = value
		return nil, true
	case ClassS8:
		return m.small8.TryInsert(key, hash, value)
	case ClassS16:
		return m.small16.TryInsert(key, hash, value)
	case ClassS24:
		return m.small24.TryInsert(key, hash, value)
	default:
		return m.large.TryInsert(key, hash, value)
	}
}

// Remove deletes key and returns the removed value.
func (m *Map[V]) Remove(key []byte) (V, bool) {
	return m.RemoveHashed(key, m.hashKey(key))
}

// RemoveHashed is Remove with a caller-supplied hash; the hash is not
// validated against the key.
func (m *Map[V]) RemoveHashed(key []byte, hash uint64) (V, bool) {
	switch Classify(key).Class() {
	case ClassNone:
		if !m.hasNone {
			var zero V
			return zero, false
		}
		removed := m.noneVal
		var zero V
		m.noneVal = zero
		m.hasNone = false
		return removed, true
	case ClassS8:
		return m.small8.Remove(key, hash)
	case ClassS16:
		return m.small16.Remove(key, hash)
	case ClassS24:
		return m.small24.Remove(key, hash)
	default:
		return m.large.Remove(key, hash)
	}
}

// Size returns an estimate of the bytes held by the map's tables, not
// counting arena-backed key bytes.
func (m *Map[V]) Size() int64 {
	return m.small8.Size() + m.small16.Size() + m.small24.Size() + m.large.Size()
}

// Iter yields every (key view, value) pair: the empty key first, then
// each class's table in slot order. The order is deterministic for a
// fixed map state but otherwise meaningless. Key views are only valid
// for the duration of the yield.
func (m *Map[V]) Iter() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		if m.hasNone {
			if !yield([]byte{}, m.noneVal) {
				return
			}
		}
		for _, it := range []iter.Seq2[[]byte, V]{
			m.small8.Iter(), m.small16.Iter(), m.small24.Iter(), m.large.Iter(),
		} {
			for k, v := range it {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// IterMut is Iter with mutable access to the values. Yielded pointers
// must not be retained past the yield.
func (m *Map[V]) IterMut() iter.Seq2[[]byte, *V] {
	return func(yield func([]byte, *V) bool) {
		if m.hasNone {
			if !yield([]byte{}, &m.noneVal) {
				return
			}
		}
		for _, it := range []iter.Seq2[[]byte, *V]{
			m.small8.IterMut(), m.small16.IterMut(), m.small24.IterMut(), m.large.IterMut(),
		} {
			for k, v := range it {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Drain consumes the map, removing and yielding every pair. Yielded keys
// live in the key allocator (inline keys are copied out, large keys are
// already there) and stay valid until the allocator is released. A fully
// consumed map is empty; breaking early leaves the rest in place.
func (m *Map[V]) Drain() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		if m.hasNone {
			removed := m.noneVal
			var zero V
			m.noneVal = zero
			m.hasNone = false
			if !yield([]byte{}, removed) {
				return
			}
		}
		for _, it := range []iter.Seq2[[]byte, V]{
			m.small8.Drain(), m.small16.Drain(), m.small24.Drain(), m.large.Drain(),
		} {
			for k, v := range it {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

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
	"encoding/binary"
	"iter"
)

const (
	fixedKeyWidth = 2
	fixedSlotCnt  = 1 << 16
)

// FixedMap maps keys of exactly two bytes to values by direct indexing:
// no hashing, no probing, no resizing. It complements Map for workloads
// whose keys are known to be two bytes wide. Not safe for concurrent
// use.
type FixedMap[V any] struct {
	slots []fixedSlot[V]
	elems int
}

type fixedSlot[V any] struct {
	used  bool
	value V
}

func NewFixedMap[V any]() *FixedMap[V] {
	return &FixedMap[V]{
		slots: make([]fixedSlot[V], fixedSlotCnt),
	}
}

func fixedIndex(key []byte) int {
	if len(key) != fixedKeyWidth {
		panic("strmap: FixedMap keys must be exactly 2 bytes")
	}
	return int(binary.LittleEndian.Uint16(key))
}

func (m *FixedMap[V]) Len() int {
	return m.elems
}

func (m *FixedMap[V]) IsEmpty() bool {
	return m.elems == 0
}

func (m *FixedMap[V]) Get(key []byte) (V, bool) {
	s := &m.slots[fixedIndex(key)]
	if s.used {
		return s.value, true
	}
	var zero V
	return zero, false
}

// GetRef returns a pointer to the value stored under key, or nil.
func (m *FixedMap[V]) GetRef(key []byte) *V {
	s := &m.slots[fixedIndex(key)]
	if s.used {
		return &s.value
	}
	return nil
}

func (m *FixedMap[V]) Insert(key []byte, value V) (prev V, replaced bool) {
	s := &m.slots[fixedIndex(key)]
	if s.used {
		prev, s.value = s.value, value
		return prev, true
	}
	s.used = true
	s.value = value
	m.elems++
	return prev, false
}

// TryInsert stores value only if the key is absent; on a hit it returns
// a pointer to the existing value, left unmodified.
func (m *FixedMap[V]) TryInsert(key []byte, value V) (existing *V, inserted bool) {
	s := &m.slots[fixedIndex(key)]
	if s.used {
		return &s.value, false
	}
	s.used = true
	s.value = value
	m.elems++
	return nil, true
}

func (m *FixedMap[V]) Remove(key []byte) (V, bool) {
	s := &m.slots[fixedIndex(key)]
	if !s.used {
		var zero V
		return zero, false
	}
	removed := s.value
	var zero V
	s.value = zero
	s.used = false
	m.elems--
	return removed, true
}

// Iter yields pairs in index order. The key view is reused across
// yields and is only valid for the duration of each one.
func (m *FixedMap[V]) Iter() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		var key [fixedKeyWidth]byte
		for i := range m.slots {
			if !m.slots[i].used {
				continue
			}
			binary.LittleEndian.PutUint16(key[:], uint16(i))
			if !yield(key[:], m.slots[i].value) {
				return
			}
		}
	}
}

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
	"github.com/matrixorigin/strmap/pkg/common/arena"
)

type slotState uint8

const (
	// slotEmpty marks a slot that has never held data. A lookup probe
	// stops here.
	slotEmpty slotState = iota
	// slotTombstone marks a slot whose data was removed. Lookup probes
	// skip it; insert probes may reclaim it.
	slotTombstone
	// slotData marks a slot holding one key/value pair.
	slotData
)

// KeySlot is the read side of a per-size-class key storage strategy.
type KeySlot interface {
	// Key returns a view of the stored key bytes. Inline strategies
	// return a view into slot memory, valid only while the slot lives.
	Key() []byte
	// CachedHash reports the stored hash for strategies that keep one.
	// Strategies without a cached hash are rehashed from Key on resize.
	CachedHash() (uint64, bool)
}

// keySlotPtr constrains pointers to key slots so the generic table can
// write through them.
type keySlotPtr[K any] interface {
	*K
	KeySlot

	// Store copies key into the slot. Strategies whose storage is
	// external copy into keys; hash is retained only by strategies that
	// cache it.
	Store(keys arena.Allocator, key []byte, hash uint64)

	// StableKey returns the key in storage that outlives the slot,
	// copying into keys if the key is held inline.
	StableKey(keys arena.Allocator) []byte
}

type slot[K, V any] struct {
	state slotState
	key   K
	value V
}

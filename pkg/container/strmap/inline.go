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

// Inline key strategies for the small size classes. The key bytes live in
// a fixed-width buffer inside the slot; no hash is cached, since
// rehashing at most 24 bytes on resize is cheaper than spending 8 bytes
// per entry on a stored hash. One concrete type per width, as Go has no
// constant generic parameters.

// Key8 stores keys of 1 to 8 bytes inline.
type Key8 struct {
	buf [8]byte
	len uint8
}

func (k *Key8) Key() []byte {
	return k.buf[:k.len]
}

func (k *Key8) CachedHash() (uint64, bool) {
	return 0, false
}

func (k *Key8) Store(_ arena.Allocator, key []byte, _ uint64) {
	k.len = uint8(copy(k.buf[:], key))
}

func (k *Key8) StableKey(keys arena.Allocator) []byte {
	return keys.AllocCopy(k.buf[:k.len])
}

// Key16 stores keys of 9 to 16 bytes inline.
type Key16 struct {
	buf [16]byte
	len uint8
}

func (k *Key16) Key() []byte {
	return k.buf[:k.len]
}

func (k *Key16) CachedHash() (uint64, bool) {
	return 0, false
}

func (k *Key16) Store(_ arena.Allocator, key []byte, _ uint64) {
	k.len = uint8(copy(k.buf[:], key))
}

func (k *Key16) StableKey(keys arena.Allocator) []byte {
	return keys.AllocCopy(k.buf[:k.len])
}

// Key24 stores keys of 17 to 24 bytes inline.
type Key24 struct {
	buf [24]byte
	len uint8
}

func (k *Key24) Key() []byte {
	return k.buf[:k.len]
}

func (k *Key24) CachedHash() (uint64, bool) {
	return 0, false
}

func (k *Key24) Store(_ arena.Allocator, key []byte, _ uint64) {
	k.len = uint8(copy(k.buf[:], key))
}

func (k *Key24) StableKey(keys arena.Allocator) []byte {
	return keys.AllocCopy(k.buf[:k.len])
}

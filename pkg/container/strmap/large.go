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

// LargeKey stores keys longer than 24 bytes. The bytes are copied once
// into the key allocator at insert time; the slot keeps the stable slice
// plus the key's hash. The cached hash means the hasher is never invoked
// for this class during a resize. Removed entries leave their arena
// bytes behind until the allocator itself is released.
type LargeKey struct {
	hash uint64
	key  []byte
}

func (k *LargeKey) Key() []byte {
	return k.key
}

func (k *LargeKey) CachedHash() (uint64, bool) {
	return k.hash, true
}

func (k *LargeKey) Store(keys arena.Allocator, key []byte, hash uint64) {
	k.hash = hash
	k.key = keys.AllocCopy(key)
}

func (k *LargeKey) StableKey(arena.Allocator) []byte {
	return k.key
}

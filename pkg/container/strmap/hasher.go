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
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// Hasher is the hashing capability shared by every table of a map. The
// hash of a byte sequence depends only on its bytes, never on the size
// class it is routed to. Implementations must be deterministic for a
// fixed configuration and must not be mutated after construction.
type Hasher interface {
	Hash(key []byte) uint64
}

type xxHasher struct {
	seed uint64
}

// NewHasher returns the default hasher: xxhash64 with a per-process
// random seed. Hashes are not stable across processes.
func NewHasher() Hasher {
	return NewSeededHasher(rand.Uint64())
}

// NewSeededHasher returns an xxhash64 hasher with a fixed seed. Two
// hashers built from the same seed produce identical hashes.
func NewSeededHasher(seed uint64) Hasher {
	return xxHasher{seed: seed}
}

func (h xxHasher) Hash(key []byte) uint64 {
	var d xxhash.Digest
	d.ResetWithSeed(h.seed)
	_, _ = d.Write(key)
	return d.Sum64()
}

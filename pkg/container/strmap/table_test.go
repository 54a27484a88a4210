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
	"math/rand/v2"
	"testing"

	"github.com/matrixorigin/strmap/pkg/common/arena"
	"github.com/stretchr/testify/require"
)

// constHasher collides every key onto one probe chain.
type constHasher struct{}

func (constHasher) Hash([]byte) uint64 { return 42 }

func newTestTable16(t *testing.T, hasher Hasher) *Table[Key16, *Key16, uint64] {
	t.Helper()
	var tbl Table[Key16, *Key16, uint64]
	tbl.Init(hasher, arena.New())
	return &tbl
}

func TestTableInsertGetRemove(t *testing.T) {
	hasher := NewSeededHasher(1)
	tbl := newTestTable16(t, hasher)
	cmp := make(map[string]uint64)
	rng := rand.New(rand.NewPCG(1, 2))

	var key [16]byte
	for i := 0; i < 5000; i++ {
		binary.LittleEndian.PutUint64(key[:], rng.Uint64N(2000))
		binary.LittleEndian.PutUint64(key[8:], 0x1122334455667788)
		value := rng.Uint64()

		prev, replaced := tbl.Insert(key[:], hasher.Hash(key[:]), value)
		cmpPrev, cmpReplaced := cmp[string(key[:])]
		require.Equal(t, cmpReplaced, replaced)
		if replaced {
			require.Equal(t, cmpPrev, prev)
		}
		cmp[string(key[:])] = value
	}
	require.Equal(t, len(cmp), tbl.Len())

	for k, v := range cmp {
		got, ok := tbl.Get([]byte(k), hasher.Hash([]byte(k)))
		require.True(t, ok)
		require.Equal(t, v, got)
	}

	for k, v := range cmp {
		removed, ok := tbl.Remove([]byte(k), hasher.Hash([]byte(k)))
		require.True(t, ok)
		require.Equal(t, v, removed)
	}
	require.Equal(t, 0, tbl.Len())
}

func TestTableTryInsert(t *testing.T) {
	hasher := NewSeededHasher(7)
	tbl := newTestTable16(t, hasher)

	key := []byte("tryinsertkey")
	hash := hasher.Hash(key)

	existing, inserted := tbl.TryInsert(key, hash, 1)
	require.True(t, inserted)
	require.Nil(t, existing)

	existing, inserted = tbl.TryInsert(key, hash, 2)
	require.False(t, inserted)
	require.NotNil(t, existing)
	require.Equal(t, uint64(1), *existing)

	// merge through the returned reference, the aggregation pattern
	*existing += 2
	got, ok := tbl.Get(key, hash)
	require.True(t, ok)
	require.Equal(t, uint64(3), got)
	require.Equal(t, 1, tbl.Len())
}

func TestTableProbeChainWithTombstones(t *testing.T) {
	tbl := newTestTable16(t, constHasher{})

	keys := [][]byte{
		[]byte("aaaaaaaaaa"),
		[]byte("bbbbbbbbbb"),
		[]byte("cccccccccc"),
		[]byte("dddddddddd"),
	}
	for i, k := range keys {
		_, replaced := tbl.Insert(k, 42, uint64(i))
		require.False(t, replaced)
	}

	// removing the head of the chain must not hide the keys behind it
	_, ok := tbl.Remove(keys[0], 42)
	require.True(t, ok)
	for i, k := range keys[1:] {
		got, ok := tbl.Get(k, 42)
		require.True(t, ok)
		require.Equal(t, uint64(i+1), got)
	}

	// re-inserting a key that sits beyond the tombstone must overwrite
	// it, not occupy the tombstone as a duplicate
	prev, replaced := tbl.Insert(keys[3], 42, 99)
	require.True(t, replaced)
	require.Equal(t, uint64(3), prev)
	require.Equal(t, 3, tbl.Len())

	got, ok := tbl.Get(keys[3], 42)
	require.True(t, ok)
	require.Equal(t, uint64(99), got)

	// a fresh key may reclaim the tombstone
	_, replaced = tbl.Insert([]byte("eeeeeeeeee"), 42, 100)
	require.False(t, replaced)
	require.Equal(t, 4, tbl.Len())
}

func TestTableGrowShrink(t *testing.T) {
	hasher := NewSeededHasher(3)
	tbl := newTestTable16(t, hasher)
	require.Equal(t, kMinCapacity, tbl.Cap())

	var key [12]byte
	for i := 0; i < 100; i++ {
		binary.LittleEndian.PutUint64(key[:], uint64(i))
		tbl.Insert(key[:], hasher.Hash(key[:]), uint64(i))

		// occupancy stays strictly below 2/3 of capacity
		require.Less(t, tbl.Len()*kLoadFactorNumerator, tbl.Cap()*kLoadFactorDenominator)
	}
	require.Equal(t, 256, tbl.Cap())

	for i := 99; i >= 0; i-- {
		binary.LittleEndian.PutUint64(key[:], uint64(i))
		_, ok := tbl.Remove(key[:], hasher.Hash(key[:]))
		require.True(t, ok)
		require.GreaterOrEqual(t, tbl.Cap(), kMinCapacity)
	}
	require.Equal(t, 0, tbl.Len())

	// shrink stops once occupancy can no longer exceed the class minimum
	require.Equal(t, 16, tbl.Cap())
}

func TestTableResizeKeepsLargeKeys(t *testing.T) {
	hasher := NewSeededHasher(11)
	keys := arena.New()
	var tbl Table[LargeKey, *LargeKey, int]
	tbl.Init(hasher, keys)

	rng := rand.New(rand.NewPCG(5, 6))
	cmp := make(map[string]int)
	for i := 0; i < 1000; i++ {
		key := make([]byte, 25+rng.IntN(100))
		for j := range key {
			key[j] = byte(rng.Uint32())
		}
		tbl.Insert(key, hasher.Hash(key), i)
		cmp[string(key)] = i
	}
	require.Equal(t, len(cmp), tbl.Len())

	for k, v := range cmp {
		got, ok := tbl.Get([]byte(k), hasher.Hash([]byte(k)))
		require.True(t, ok)
		require.Equal(t, v, got)
	}
}

func TestTableIter(t *testing.T) {
	hasher := NewSeededHasher(17)
	tbl := newTestTable16(t, hasher)

	cmp := make(map[string]uint64)
	for i := uint64(0); i < 50; i++ {
		var key [10]byte
		binary.LittleEndian.PutUint64(key[:], i)
		tbl.Insert(key[:], hasher.Hash(key[:]), i)
		cmp[string(key[:])] = i
	}

	seen := make(map[string]uint64)
	for k, v := range tbl.Iter() {
		seen[string(k)] = v
	}
	require.Equal(t, cmp, seen)

	for _, v := range tbl.IterMut() {
		*v++
	}
	for k, v := range cmp {
		got, ok := tbl.Get([]byte(k), hasher.Hash([]byte(k)))
		require.True(t, ok)
		require.Equal(t, v+1, got)
	}
}

func TestTableDrain(t *testing.T) {
	hasher := NewSeededHasher(23)
	tbl := newTestTable16(t, hasher)

	cmp := make(map[string]uint64)
	for i := uint64(0); i < 64; i++ {
		var key [9]byte
		binary.LittleEndian.PutUint64(key[:], i)
		tbl.Insert(key[:], hasher.Hash(key[:]), i)
		cmp[string(key[:])] = i
	}

	drained := make(map[string]uint64)
	for k, v := range tbl.Drain() {
		drained[string(k)] = v
	}
	require.Equal(t, cmp, drained)
	require.Equal(t, 0, tbl.Len())
}

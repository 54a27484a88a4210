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

	"github.com/stretchr/testify/require"
)

func TestFixedMapAgainstReference(t *testing.T) {
	m := NewFixedMap[int]()
	cmp := make(map[string]int)
	rng := rand.New(rand.NewPCG(19, 20))

	var key [2]byte
	for i := 0; i < 50000; i++ {
		binary.LittleEndian.PutUint16(key[:], uint16(rng.Uint32()))
		switch rng.IntN(3) {
		case 0, 1:
			prev, replaced := m.Insert(key[:], i)
			cmpPrev, cmpReplaced := cmp[string(key[:])]
			require.Equal(t, cmpReplaced, replaced)
			if replaced {
				require.Equal(t, cmpPrev, prev)
			}
			cmp[string(key[:])] = i
		case 2:
			removed, ok := m.Remove(key[:])
			cmpRemoved, cmpOk := cmp[string(key[:])]
			require.Equal(t, cmpOk, ok)
			if ok {
				require.Equal(t, cmpRemoved, removed)
			}
			delete(cmp, string(key[:]))
		}
	}
	require.Equal(t, len(cmp), m.Len())

	seen := make(map[string]int)
	for k, v := range m.Iter() {
		seen[string(k)] = v
	}
	require.Equal(t, cmp, seen)
}

func TestFixedMapTryInsert(t *testing.T) {
	m := NewFixedMap[int]()
	key := []byte{0x12, 0x34}

	existing, inserted := m.TryInsert(key, 1)
	require.True(t, inserted)
	require.Nil(t, existing)

	existing, inserted = m.TryInsert(key, 2)
	require.False(t, inserted)
	require.Equal(t, 1, *existing)
	*existing++

	got, ok := m.Get(key)
	require.True(t, ok)
	require.Equal(t, 2, got)

	ref := m.GetRef(key)
	require.NotNil(t, ref)
	*ref = 9
	got, _ = m.Get(key)
	require.Equal(t, 9, got)
}

func TestFixedMapKeyWidth(t *testing.T) {
	m := NewFixedMap[int]()
	require.Panics(t, func() {
		m.Insert([]byte{1}, 0)
	})
	require.Panics(t, func() {
		m.Get([]byte{1, 2, 3})
	})
	require.True(t, m.IsEmpty())
}

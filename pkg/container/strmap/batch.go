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

// HashBatch fills hashes with hasher's hash of each key, writing 0 for
// zero-length keys. Group-then-probe workloads hash each row once here
// and feed the results to the *Hashed entry points of both the group
// table and the probe table.
func HashBatch(hasher Hasher, keys [][]byte, hashes []uint64) {
	for i, key := range keys {
		if len(key) == 0 {
			hashes[i] = 0
			continue
		}
		hashes[i] = hasher.Hash(key)
	}
}

// InsertBatch stores keys[i] -> values[i] for every i, hashing each key
// once. A key appearing more than once keeps its last value.
func (m *Map[V]) InsertBatch(keys [][]byte, values []V) {
	for i, key := range keys {
		m.InsertHashed(key, m.hashKey(key), values[i])
	}
}

// FindBatch looks up every key, writing the value (or the zero value)
// into out and the hit flag into found.
func (m *Map[V]) FindBatch(keys [][]byte, out []V, found []bool) {
	for i, key := range keys {
		out[i], found[i] = m.GetHashed(key, m.hashKey(key))
	}
}

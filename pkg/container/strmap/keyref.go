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

// Class identifies the size class a key is routed to. Classification
// depends only on the key's length, never on its content, and never
// affects the key's hash.
type Class uint8

const (
	// ClassNone holds the single zero-length key.
	ClassNone Class = iota
	// ClassS8 holds keys of 1 to 8 bytes.
	ClassS8
	// ClassS16 holds keys of 9 to 16 bytes.
	ClassS16
	// ClassS24 holds keys of 17 to 24 bytes.
	ClassS24
	// ClassLarge holds keys longer than 24 bytes.
	ClassLarge
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassS8:
		return "s8"
	case ClassS16:
		return "s16"
	case ClassS24:
		return "s24"
	case ClassLarge:
		return "large"
	}
	return "invalid"
}

// KeyRef is a borrowed, classified view of a caller-supplied key. It is
// never stored; the byte view stays owned by the caller and is only
// valid for the duration of the call it is passed to.
type KeyRef struct {
	class Class
	key   []byte
}

// Classify routes a key to its size class.
func Classify(key []byte) KeyRef {
	switch n := len(key); {
	case n == 0:
		return KeyRef{class: ClassNone}
	case n <= 8:
		return KeyRef{class: ClassS8, key: key}
	case n <= 16:
		return KeyRef{class: ClassS16, key: key}
	case n <= 24:
		return KeyRef{class: ClassS24, key: key}
	default:
		return KeyRef{class: ClassLarge, key: key}
	}
}

func (r KeyRef) Class() Class {
	return r.class
}

func (r KeyRef) Key() []byte {
	return r.key
}

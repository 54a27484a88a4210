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

// Package arena provides a chunked bump allocator for byte strings. An
// Arena hands out stable sub-slices of large backing chunks; individual
// allocations are never reclaimed, only the whole arena is released via
// Free. An arena must outlive every structure holding slices it returned.
package arena

import (
	"github.com/matrixorigin/strmap/pkg/logutil"
	"go.uber.org/zap"
)

const defaultChunkSize = 1 << 20

// Allocator is the capability consumed by structures that store key
// copies. Returned slices stay valid until the allocator is released.
type Allocator interface {
	// Alloc returns a zeroed n-byte slice owned by the allocator.
	Alloc(n int) []byte
	// AllocCopy copies b into allocator-owned memory.
	AllocCopy(b []byte) []byte
}

type chunk struct {
	buf     []byte
	mmapped bool
}

// Arena is a monotonic bump allocator. Not safe for concurrent use.
type Arena struct {
	chunkSize int
	useMmap   bool

	chunks []chunk
	off    int // bump offset into the last chunk

	inuse    int64
	reserved int64
}

var _ Allocator = new(Arena)

type Option func(*Arena)

// WithChunkSize sets the backing chunk size. Allocations larger than the
// chunk size get a dedicated chunk of their own.
func WithChunkSize(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.chunkSize = n
		}
	}
}

// WithMmap backs chunks with anonymous mappings instead of the Go heap.
// Ignored on platforms without mmap support.
func WithMmap() Option {
	return func(a *Arena) {
		a.useMmap = true
	}
}

func New(opts ...Option) *Arena {
	a := &Arena{
		chunkSize: defaultChunkSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Arena) Alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	if len(a.chunks) == 0 || a.off+n > len(a.chunks[len(a.chunks)-1].buf) {
		a.grow(n)
	}
	c := &a.chunks[len(a.chunks)-1]
	b := c.buf[a.off : a.off+n : a.off+n]
	a.off += n
	a.inuse += int64(n)
	return b
}

func (a *Arena) AllocCopy(b []byte) []byte {
	dst := a.Alloc(len(b))
	copy(dst, b)
	return dst
}

func (a *Arena) grow(n int) {
	size := a.chunkSize
	if n > size {
		size = n
	}

	var buf []byte
	var mmapped bool
	if a.useMmap {
		var err error
		buf, err = mmapChunk(size)
		if err != nil {
			logutil.Warn("arena: mmap failed, falling back to heap chunk",
				zap.Int("size", size),
				zap.Error(err),
			)
		} else {
			mmapped = true
		}
	}
	if buf == nil {
		buf = make([]byte, size)
	}

	a.chunks = append(a.chunks, chunk{buf: buf, mmapped: mmapped})
	a.off = 0
	a.reserved += int64(size)

	logutil.Debug("arena: new chunk",
		zap.Int("size", size),
		zap.Bool("mmapped", mmapped),
		zap.Int64("reserved", a.reserved),
	)
}

// InUse reports the bytes handed out so far, including bytes belonging to
// entries their owners have since dropped.
func (a *Arena) InUse() int64 {
	return a.inuse
}

// Size reports the bytes reserved in backing chunks.
func (a *Arena) Size() int64 {
	return a.reserved
}

// Free releases all chunks at once. Every slice previously returned by
// Alloc or AllocCopy becomes invalid.
func (a *Arena) Free() {
	for i := range a.chunks {
		if a.chunks[i].mmapped {
			if err := munmapChunk(a.chunks[i].buf); err != nil {
				panic(err)
			}
		}
		a.chunks[i].buf = nil
	}
	a.chunks = nil
	a.off = 0
	a.inuse = 0
	a.reserved = 0
}

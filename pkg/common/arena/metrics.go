// Copyright 2024 Matrix Origin
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

package arena

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsAllocator wraps an Allocator and counts allocations. Since arena
// allocations are monotonic there is nothing to decrement; both metrics
// are counters.
type MetricsAllocator struct {
	upstream Allocator

	allocateBytesCounter   prometheus.Counter
	allocateObjectsCounter prometheus.Counter
}

var _ Allocator = new(MetricsAllocator)

func NewMetricsAllocator(
	upstream Allocator,
	allocateBytesCounter prometheus.Counter,
	allocateObjectsCounter prometheus.Counter,
) *MetricsAllocator {
	return &MetricsAllocator{
		upstream:               upstream,
		allocateBytesCounter:   allocateBytesCounter,
		allocateObjectsCounter: allocateObjectsCounter,
	}
}

func (m *MetricsAllocator) Alloc(n int) []byte {
	b := m.upstream.Alloc(n)
	m.count(len(b))
	return b
}

func (m *MetricsAllocator) AllocCopy(b []byte) []byte {
	ret := m.upstream.AllocCopy(b)
	m.count(len(ret))
	return ret
}

func (m *MetricsAllocator) count(n int) {
	if n == 0 {
		return
	}
	if m.allocateBytesCounter != nil {
		m.allocateBytesCounter.Add(float64(n))
	}
	if m.allocateObjectsCounter != nil {
		m.allocateObjectsCounter.Add(1)
	}
}

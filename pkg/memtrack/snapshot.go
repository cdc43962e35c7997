// Copyright 2026 the memtrack authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memtrack

// Snapshot is a point-in-time, consistent copy of the pool's aggregate
// counters. It exists for collaborators (dashboards, the demo harness)
// that want several numbers from one lock acquisition instead of calling
// several accessors separately and risking a torn read across them.
type Snapshot struct {
	CapacityBytes          int64
	ReservedBytes          int64
	ReservedRevocableBytes int64
	FreeBytes              int64
	WaiterCount            int
}

// GetWaiterCount returns the number of pending (not yet completed)
// non-revocable reserve requests.
func (p *Pool) GetWaiterCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waiters.len()
}

// Snapshot returns a consistent view of the pool's aggregate counters.
func (p *Pool) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		CapacityBytes:          p.capacityBytes,
		ReservedBytes:          p.reservedBytes,
		ReservedRevocableBytes: p.reservedRevocableBytes,
		FreeBytes:              p.capacityBytes - p.reservedBytes - p.reservedRevocableBytes,
		WaiterCount:            p.waiters.len(),
	}
}

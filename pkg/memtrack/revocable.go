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

// ReserveRevocable unconditionally records a revocable reservation of
// bytes for task. Unlike Reserve, it never blocks and never fails for
// capacity reasons: the policy layer above the pool is expected to keep
// total revocable bytes sensible by requesting revocation before things
// get out of hand.
func (p *Pool) ReserveRevocable(task TaskKey, bytes int64) {
	if bytes < 0 {
		panic("memtrack: ReserveRevocable requires bytes >= 0")
	}
	if bytes == 0 {
		return
	}

	p.mu.Lock()
	p.taskRevocable[task] += bytes
	p.queryRevocable[task.QueryID] += bytes
	p.reservedRevocableBytes += bytes
	p.checkInvariantsLocked()
	p.mu.Unlock()

	p.listeners.fire(EventMemoryReserved, p)
}

// TryReserveRevocable is the global (task-less) revocable reservation
// used by engine-level caches that aren't attributable to a single task
// (exchange buffers, page caches). It atomically tests whether bytes fit
// within the pool's remaining capacity and, if so, applies it.
func (p *Pool) TryReserveRevocable(bytes int64) bool {
	if bytes < 0 {
		panic("memtrack: TryReserveRevocable requires bytes >= 0")
	}

	p.mu.Lock()
	if p.reservedBytes+p.reservedRevocableBytes+bytes > p.capacityBytes {
		p.mu.Unlock()
		return false
	}
	p.globalRevocableBytes += bytes
	p.reservedRevocableBytes += bytes
	p.checkInvariantsLocked()
	p.mu.Unlock()

	p.listeners.fire(EventMemoryReserved, p)
	return true
}

// FreeRevocable releases bytes of task's revocable reservation. It fails
// with ErrFreeExceedsRevocableReservation, leaving the ledger unchanged,
// if bytes exceeds what is currently reserved. On success it removes any
// map entry that reaches zero and drains the waiter queue: revocable
// frees can unblock non-revocable waiters exactly like non-revocable
// frees do.
func (p *Pool) FreeRevocable(task TaskKey, bytes int64) error {
	if bytes < 0 {
		panic("memtrack: FreeRevocable requires bytes >= 0")
	}
	if bytes == 0 {
		return nil
	}

	p.mu.Lock()

	taskBytes := p.taskRevocable[task]
	queryBytes := p.queryRevocable[task.QueryID]
	if bytes > taskBytes || bytes > queryBytes {
		p.mu.Unlock()
		return ErrFreeExceedsRevocableReservation
	}

	p.taskRevocable[task] = taskBytes - bytes
	if p.taskRevocable[task] == 0 {
		delete(p.taskRevocable, task)
	}
	p.queryRevocable[task.QueryID] = queryBytes - bytes
	if p.queryRevocable[task.QueryID] == 0 {
		delete(p.queryRevocable, task.QueryID)
	}

	p.reservedRevocableBytes -= bytes
	p.checkInvariantsLocked()

	p.drainWaitersLocked()
	p.mu.Unlock()
	p.listeners.fire(EventMemoryFreed, p)
	return nil
}

// FreeRevocableGlobal releases bytes of the task-less global revocable
// reservation created by TryReserveRevocable.
func (p *Pool) FreeRevocableGlobal(bytes int64) error {
	if bytes < 0 {
		panic("memtrack: FreeRevocableGlobal requires bytes >= 0")
	}
	if bytes == 0 {
		return nil
	}

	p.mu.Lock()

	if bytes > p.globalRevocableBytes {
		p.mu.Unlock()
		return ErrFreeExceedsRevocableReservation
	}

	p.globalRevocableBytes -= bytes
	p.reservedRevocableBytes -= bytes
	p.checkInvariantsLocked()

	p.drainWaitersLocked()
	p.mu.Unlock()
	p.listeners.fire(EventMemoryFreed, p)
	return nil
}

// GetReservedRevocableBytes returns the sum of every outstanding
// revocable reservation, task-attributed and global.
func (p *Pool) GetReservedRevocableBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reservedRevocableBytes
}

// GetGlobalRevocableBytes returns the task-less revocable reservation
// total created via TryReserveRevocable.
func (p *Pool) GetGlobalRevocableBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.globalRevocableBytes
}

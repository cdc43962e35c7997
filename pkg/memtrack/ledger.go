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

import "github.com/google/uuid"

// applyReserveLocked adds bytes to every ledger the accounting model
// tracks for task. Callers must hold p.mu. It never fails: reserve always
// succeeds at the accounting level; capacity is enforced
// only by whether the returned Future completes immediately.
func (p *Pool) applyReserveLocked(task TaskKey, tag string, bytes int64) {
	if bytes == 0 {
		return
	}
	p.taskReservations[task] += bytes
	p.queryReservations[task.QueryID] += bytes

	tags := p.taskTags[task]
	if tags == nil {
		tags = make(map[string]int64)
		p.taskTags[task] = tags
	}
	tags[tag] += bytes

	p.reservedBytes += bytes
}

// Reserve records a reservation of bytes for task under tag and returns a
// Future. The reservation is applied to the ledger unconditionally; the
// Future is already complete only if the pool had enough free
// non-revocable capacity at the moment of the call. Otherwise the
// request is appended to the waiter queue and the caller must park on
// the Future.
func (p *Pool) Reserve(task TaskKey, tag string, bytes int64) *Future {
	if bytes < 0 {
		panic("memtrack: Reserve requires bytes >= 0")
	}

	p.mu.Lock()

	fits := fitsLocked(p.reservedBytes, p.reservedRevocableBytes, p.capacityBytes, bytes)
	p.applyReserveLocked(task, tag, bytes)
	p.checkInvariantsLocked()

	var f *Future
	if fits {
		f = newCompletedFuture()
	} else {
		f = newFuture()
		p.waiters.push(&waiter{task: task, tag: tag, bytes: bytes, future: f})
	}

	p.mu.Unlock()
	p.listeners.fire(EventMemoryReserved, p)
	return f
}

// TryReserve atomically tests whether bytes fit within the pool's free
// capacity (accounting for outstanding revocable reservations) and, if
// so, applies the reservation exactly as Reserve would — but never
// enqueues a waiter. Callers that want a hard no-overbook test use this
// instead of Reserve.
func (p *Pool) TryReserve(task TaskKey, tag string, bytes int64) bool {
	if bytes < 0 {
		panic("memtrack: TryReserve requires bytes >= 0")
	}

	p.mu.Lock()

	if !fitsLocked(p.reservedBytes, p.reservedRevocableBytes, p.capacityBytes, bytes) {
		p.mu.Unlock()
		return false
	}
	p.applyReserveLocked(task, tag, bytes)
	p.checkInvariantsLocked()

	p.mu.Unlock()
	p.listeners.fire(EventMemoryReserved, p)
	return true
}

// Free releases bytes previously reserved for task under tag. It fails
// with ErrFreeExceedsTaskReservation, leaving the ledger unchanged, if
// bytes exceeds what is currently reserved for that tag, task, or query.
// On success it removes any map entry that reaches zero and then drains
// the waiter queue.
func (p *Pool) Free(task TaskKey, tag string, bytes int64) error {
	if bytes < 0 {
		panic("memtrack: Free requires bytes >= 0")
	}
	if bytes == 0 {
		return nil
	}

	p.mu.Lock()

	tags := p.taskTags[task]
	tagBytes := tags[tag]
	taskBytes := p.taskReservations[task]
	queryBytes := p.queryReservations[task.QueryID]

	if bytes > tagBytes || bytes > taskBytes || bytes > queryBytes {
		p.mu.Unlock()
		return ErrFreeExceedsTaskReservation
	}

	tags[tag] = tagBytes - bytes
	if tags[tag] == 0 {
		delete(tags, tag)
	}
	if len(tags) == 0 {
		delete(p.taskTags, task)
	}

	p.taskReservations[task] = taskBytes - bytes
	if p.taskReservations[task] == 0 {
		delete(p.taskReservations, task)
	}

	p.queryReservations[task.QueryID] = queryBytes - bytes
	if p.queryReservations[task.QueryID] == 0 {
		delete(p.queryReservations, task.QueryID)
	}

	p.reservedBytes -= bytes
	p.checkInvariantsLocked()

	p.drainWaitersLocked()
	p.mu.Unlock()
	p.listeners.fire(EventMemoryFreed, p)
	return nil
}

// drainWaitersLocked pops and completes queued waiters while the pool's
// total reserved bytes (their bytes are already included in the count)
// fit within capacity. It stops at the first waiter it cannot satisfy,
// preserving strict FIFO order. Callers must hold p.mu.
func (p *Pool) drainWaitersLocked() {
	for {
		w := p.waiters.peek()
		if w == nil {
			return
		}
		if p.reservedBytes+p.reservedRevocableBytes > p.capacityBytes {
			return
		}
		p.waiters.pop()
		w.future.complete()
	}
}

// GetFreeBytes returns capacity_bytes - reserved_bytes -
// reserved_revocable_bytes. It may be zero or negative when revocable
// reservations are outstanding beyond what non-revocable frees have
// caught up to.
func (p *Pool) GetFreeBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capacityBytes - p.reservedBytes - p.reservedRevocableBytes
}

// GetReservedBytes returns the sum of every outstanding non-revocable
// reservation.
func (p *Pool) GetReservedBytes() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reservedBytes
}

// GetQueryMemoryReservations returns a snapshot copy of every query's
// current non-revocable reservation total. Queries with no active tasks
// do not appear.
func (p *Pool) GetQueryMemoryReservations() map[uuid.UUID]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[uuid.UUID]int64, len(p.queryReservations))
	for k, v := range p.queryReservations {
		out[k] = v
	}
	return out
}

// GetQueryMemoryReservation returns query's current non-revocable
// reservation total, or zero if it has none.
func (p *Pool) GetQueryMemoryReservation(query uuid.UUID) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queryReservations[query]
}

// GetTaskMemoryReservations returns a snapshot copy of every task's
// current non-revocable reservation total.
func (p *Pool) GetTaskMemoryReservations() map[TaskKey]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[TaskKey]int64, len(p.taskReservations))
	for k, v := range p.taskReservations {
		out[k] = v
	}
	return out
}

// GetTaskMemoryReservation returns task's current non-revocable
// reservation total, or zero if it has none.
func (p *Pool) GetTaskMemoryReservation(task TaskKey) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.taskReservations[task]
}

// GetTaggedMemoryAllocations merges every task's tag ledger by query,
// producing QueryId -> (tag -> bytes). A query only appears if at least
// one of its tasks holds a positive tag allocation.
func (p *Pool) GetTaggedMemoryAllocations() map[uuid.UUID]map[string]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[uuid.UUID]map[string]int64)
	for task, tags := range p.taskTags {
		dst := out[task.QueryID]
		if dst == nil {
			dst = make(map[string]int64)
			out[task.QueryID] = dst
		}
		for tag, bytes := range tags {
			dst[tag] += bytes
		}
	}
	return out
}

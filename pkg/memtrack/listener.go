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

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vkozhukhova/trino/internal/log"
)

// EventKind selects which side of the reservation lifecycle a Listener
// observes.
type EventKind int

const (
	// EventMemoryReserved fires after any reserve (revocable or not)
	// applies its bytes to the ledger, whether or not the resulting
	// Future is already complete.
	EventMemoryReserved EventKind = iota
	// EventMemoryFreed fires after any free (revocable or not) applies
	// its decrement and, if applicable, drains the waiter queue.
	EventMemoryFreed
)

// Listener observes pool-wide state after a mutation. It receives the
// pool itself rather than event details: the required guarantee is that
// it sees a view no earlier than the state immediately after the
// triggering event. Listeners must be short and
// non-blocking. They run after the pool's mutex is released, so they may
// call the pool's read-only accessors (e.g. Snapshot) without deadlocking.
type Listener func(p *Pool)

// ListenerHandle identifies a previously registered Listener for removal.
type ListenerHandle uint64

type listenerEntry struct {
	id ListenerHandle
	fn Listener
}

// ListenerRegistry fans "memory-reserved" and "memory-freed" events out to
// registered observers, e.g. a revocation policy or a metrics recorder.
// Listeners are invoked in registration order. A panicking listener is
// recovered, logged, and swallowed: it must never corrupt ledger state or
// abort the reserve/free call that triggered it.
type ListenerRegistry struct {
	mu       sync.Mutex
	nextID   uint64
	reserved []listenerEntry
	freed    []listenerEntry
}

// NewListenerRegistry constructs an empty registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{}
}

// OnMemoryReserved registers fn for EventMemoryReserved.
func (r *ListenerRegistry) OnMemoryReserved(fn Listener) ListenerHandle {
	return r.register(&r.reserved, fn)
}

// OnMemoryFreed registers fn for EventMemoryFreed.
func (r *ListenerRegistry) OnMemoryFreed(fn Listener) ListenerHandle {
	return r.register(&r.freed, fn)
}

func (r *ListenerRegistry) register(bucket *[]listenerEntry, fn Listener) ListenerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := ListenerHandle(atomic.AddUint64(&r.nextID, 1))
	*bucket = append(*bucket, listenerEntry{id: id, fn: fn})
	return id
}

// Remove deregisters a listener by handle. Best-effort: removing an
// already-removed or unknown handle is a no-op.
func (r *ListenerRegistry) Remove(h ListenerHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reserved = removeEntry(r.reserved, h)
	r.freed = removeEntry(r.freed, h)
}

func removeEntry(entries []listenerEntry, h ListenerHandle) []listenerEntry {
	for i, e := range entries {
		if e.id == h {
			return append(entries[:i:i], entries[i+1:]...)
		}
	}
	return entries
}

// fire invokes every listener registered for kind, in registration order,
// passing p. Pool always calls this after releasing its mutex: a listener
// is free to call back into any read-only accessor on p without
// deadlocking, at the cost of another goroutine's mutation possibly
// landing between the triggering event and the listener call. Ordering
// within a single calling goroutine is still preserved, since that
// goroutine only reaches the next mutation after this call returns.
func (r *ListenerRegistry) fire(kind EventKind, p *Pool) {
	r.mu.Lock()
	var entries []listenerEntry
	switch kind {
	case EventMemoryReserved:
		entries = append(entries, r.reserved...)
	case EventMemoryFreed:
		entries = append(entries, r.freed...)
	}
	r.mu.Unlock()

	for _, e := range entries {
		safeInvoke(e.fn, p)
	}
}

func safeInvoke(fn Listener, p *Pool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.L().Error("memtrack: listener panicked, ledger state left unchanged",
				zap.Any("recovered", rec))
		}
	}()
	fn(p)
}

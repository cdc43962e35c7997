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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vkozhukhova/trino/internal/log"
)

// Pool is the root entity: a fixed byte budget shared by every task
// running on a worker node. All state is mutated under a single
// mutual-exclusion region — there is deliberately no per-map
// locking, since several public operations must observe a consistent
// view across the task, query, and tag maps at once. This file holds
// Pool itself and its non-negotiable invariants; the accounting
// operations live in ledger.go and revocable.go.
type Pool struct {
	name          string
	capacityBytes int64

	mu sync.Mutex

	reservedBytes          int64
	reservedRevocableBytes int64

	taskReservations  map[TaskKey]int64
	queryReservations map[uuid.UUID]int64
	taskTags          map[TaskKey]map[string]int64

	taskRevocable        map[TaskKey]int64
	queryRevocable       map[uuid.UUID]int64
	globalRevocableBytes int64

	waiters   *waiterQueue
	listeners *ListenerRegistry
}

// NewPool creates a pool with a fixed, positive byte capacity. It lives
// for the life of the worker process; there is no Close/Shutdown
// operation because the pool holds no resources beyond its own maps.
func NewPool(name string, capacityBytes int64) *Pool {
	if capacityBytes <= 0 {
		panic("memtrack: capacity_bytes must be positive")
	}
	return &Pool{
		name:              name,
		capacityBytes:     capacityBytes,
		taskReservations:  make(map[TaskKey]int64),
		queryReservations: make(map[uuid.UUID]int64),
		taskTags:          make(map[TaskKey]map[string]int64),

		taskRevocable:  make(map[TaskKey]int64),
		queryRevocable: make(map[uuid.UUID]int64),

		waiters:   newWaiterQueue(),
		listeners: NewListenerRegistry(),
	}
}

// Name returns the pool's label, used only for logging and metrics.
func (p *Pool) Name() string { return p.name }

// CapacityBytes returns the pool's fixed, immutable byte budget.
func (p *Pool) CapacityBytes() int64 { return p.capacityBytes }

// Listeners exposes the registry so collaborators (a revocation policy, a
// metrics recorder) can subscribe. Registration is safe at any time.
func (p *Pool) Listeners() *ListenerRegistry { return p.listeners }

// checkInvariantsLocked panics if either aggregate counter
// (reserved_bytes, reserved_revocable_bytes) has gone negative. Called
// after every mutation; the cost is two integer comparisons. A 64-bit
// counter that overflows wraps negative and trips the same check: a fatal
// programming error, never a retryable condition.
func (p *Pool) checkInvariantsLocked() {
	if p.reservedBytes < 0 {
		log.L().Panic("memtrack: reserved_bytes went negative", zap.Int64("reserved_bytes", p.reservedBytes))
	}
	if p.reservedRevocableBytes < 0 {
		log.L().Panic("memtrack: reserved_revocable_bytes went negative", zap.Int64("reserved_revocable_bytes", p.reservedRevocableBytes))
	}
}

func fitsLocked(reserved, revocable, capacity, delta int64) bool {
	return reserved+delta+revocable <= capacity
}

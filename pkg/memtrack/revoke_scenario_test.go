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
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRevocableToFreeTransitionViaRevoke walks a revocable-to-free
// transition through revocation, adapted to
// this implementation's exact mechanics: reserve_revocable never blocks
// on its own, but it consumes shared free capacity, so a concurrent
// non-revocable reserve can still queue behind it. Freeing the revocable
// bytes back, as an operator does once revocation is requested, drains
// the queued waiter — the same drain path a non-revocable free uses.
func TestRevocableToFreeTransitionViaRevoke(t *testing.T) {
	pool := NewPool("test", 10)
	baseTask := newTestTask(NewQueryID(), 0, 0, 0)
	spillTask := newTestTask(NewQueryID(), 0, 1, 0)

	// The query's steady-state footprint: 6 bytes, non-revocable.
	require.True(t, pool.TryReserve(baseTask, "test", 6))

	// An operator grows revocable (spillable) memory one page at a time
	// until it has consumed all remaining free capacity.
	for i := 0; i < 4; i++ {
		pool.ReserveRevocable(spillTask, 1)
	}
	require.Equal(t, int64(4), pool.GetReservedRevocableBytes())
	require.Equal(t, int64(0), pool.GetFreeBytes())

	// The base task now needs 2 more hard bytes. The pool is fully
	// subscribed (6 non-revocable + 4 revocable == capacity), so this
	// queues instead of completing.
	blocked := pool.Reserve(baseTask, "test", 2)
	require.False(t, blocked.Poll())
	require.Equal(t, 1, pool.GetWaiterCount())

	// The revocation policy requests the operator's revocable memory
	// back; the operator persists its spilled state and zeroes its
	// revocable reservation.
	require.NoError(t, pool.FreeRevocable(spillTask, 4))

	require.True(t, blocked.Poll(), "freeing the revocable memory must drain the queued waiter")
	require.Equal(t, int64(0), pool.GetReservedRevocableBytes())
	require.Equal(t, int64(8), pool.GetReservedBytes())
	require.Equal(t, int64(2), pool.GetFreeBytes())
}

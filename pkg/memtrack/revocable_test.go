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

// TestGlobalRevocableBlocksNonRevocable checks that outstanding global
// revocable reservations count against capacity for non-revocable
// reservers even though no task owns them.
func TestGlobalRevocableBlocksNonRevocable(t *testing.T) {
	pool := NewPool("test", 1000)
	task := newTestTask(NewQueryID(), 0, 0, 0)

	require.True(t, pool.TryReserveRevocable(999))
	require.False(t, pool.TryReserveRevocable(2))

	f := pool.Reserve(task, "tag", 2)
	require.False(t, f.Poll())

	require.NoError(t, pool.FreeRevocableGlobal(999))
	require.True(t, f.Poll())
	require.Equal(t, int64(2), pool.GetReservedBytes())
	require.Equal(t, int64(0), pool.GetReservedRevocableBytes())
}

func TestFreeRevocableRejectsNegativeBalance(t *testing.T) {
	pool := NewPool("test", 1000)
	task := newTestTask(NewQueryID(), 0, 0, 0)

	pool.ReserveRevocable(task, 5)
	err := pool.FreeRevocable(task, 6)
	require.ErrorIs(t, err, ErrFreeExceedsRevocableReservation)
	require.Equal(t, int64(5), pool.GetReservedRevocableBytes())
}

func TestFreeRevocableGlobalRejectsNegativeBalance(t *testing.T) {
	pool := NewPool("test", 1000)
	require.True(t, pool.TryReserveRevocable(5))

	err := pool.FreeRevocableGlobal(6)
	require.ErrorIs(t, err, ErrFreeExceedsRevocableReservation)
	require.Equal(t, int64(5), pool.GetGlobalRevocableBytes())
}

func TestReserveRevocableNeverBlocksOrFails(t *testing.T) {
	pool := NewPool("test", 10)
	task := newTestTask(NewQueryID(), 0, 0, 0)

	// Revocable reservations are unconditional even when they push the
	// pool far past its nominal capacity: the policy layer, not the
	// pool, is responsible for keeping this sane.
	require.NotPanics(t, func() {
		pool.ReserveRevocable(task, 1_000_000)
	})
	require.Equal(t, int64(1_000_000), pool.GetReservedRevocableBytes())
}

func TestRevocableEntriesRemovedOnZero(t *testing.T) {
	pool := NewPool("test", 1000)
	task := newTestTask(NewQueryID(), 0, 0, 0)

	pool.ReserveRevocable(task, 10)
	require.NoError(t, pool.FreeRevocable(task, 10))
	require.Equal(t, int64(0), pool.GetReservedRevocableBytes())
	require.Empty(t, pool.taskRevocable)
	require.Empty(t, pool.queryRevocable)
}

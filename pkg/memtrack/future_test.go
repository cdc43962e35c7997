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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFutureCompletedPolls(t *testing.T) {
	f := newCompletedFuture()
	require.True(t, f.Poll())
}

func TestFuturePendingUntilComplete(t *testing.T) {
	f := newFuture()
	require.False(t, f.Poll())

	f.complete()
	require.True(t, f.Poll())

	// completing twice must not panic (closing a closed channel would).
	require.NotPanics(t, f.complete)
}

func TestFutureWaitBlocksUntilComplete(t *testing.T) {
	f := newFuture()
	done := make(chan error, 1)
	go func() {
		done <- f.Wait(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before the future completed")
	case <-time.After(20 * time.Millisecond):
	}

	f.complete()
	require.NoError(t, <-done)
}

func TestFutureWaitRespectsContext(t *testing.T) {
	f := newFuture()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := f.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFutureCancelIsUnsupported(t *testing.T) {
	f := newFuture()
	err := f.Cancel()
	require.EqualError(t, err, "cancellation is not supported")
	require.False(t, f.Poll(), "cancel must leave the future pending")
}

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

import "github.com/pingcap/errors"

// Contractual error values. Their messages are checked literally by
// collaborators and by the test suite; do not reword them.
var (
	// ErrFreeExceedsTaskReservation is returned by Free when the
	// requested bytes would drive a task's, its tag's, or its query's
	// reservation negative.
	ErrFreeExceedsTaskReservation = errors.New("tried to free more memory than is reserved by task")

	// ErrFreeExceedsRevocableReservation is returned by FreeRevocable
	// and FreeRevocableGlobal for the equivalent revocable-ledger
	// underflow.
	ErrFreeExceedsRevocableReservation = errors.New("tried to free more revocable memory than is reserved by task")

	// ErrCancellationNotSupported is returned by Future.Cancel. Pending
	// reserve futures can never be cancelled: the bytes are already
	// counted as reserved, and cancelling mid-queue would desynchronize
	// the ledger.
	ErrCancellationNotSupported = errors.New("cancellation is not supported")
)

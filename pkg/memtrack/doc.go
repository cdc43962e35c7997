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

// Package memtrack implements the worker-node shared memory pool: a
// fixed byte budget accounted and gated across the tasks of a
// distributed analytical query engine's concurrent query executions.
//
// The pool composes four cooperating pieces:
//
//   - the accounting ledger (ledger.go): per-task, per-query, and
//     per-tag byte counters for non-revocable reservations;
//   - the revocable ledger (revocable.go): a parallel set of counters
//     for reservations the holder has agreed to release on request;
//   - the waiter queue (waiter.go): a strict FIFO of reservations whose
//     bytes are already accounted for but whose completion is pending
//     on freed capacity;
//   - the listener registry (listener.go): fan-out of memory-reserved
//     and memory-freed events to observers such as a revocation policy
//     or a metrics recorder.
//
// The pool does no I/O and makes no policy decisions about which query
// to block or revoke; it only maintains accurate accounting and the
// primitives (Future, listeners) that policy code above it uses.
package memtrack

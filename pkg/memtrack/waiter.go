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

import "github.com/eapache/queue"

// waiter is a pending non-revocable reservation whose bytes are already
// applied to the ledger, but whose Future has not yet fired because the
// pool was over-subscribed at the time of the request.
type waiter struct {
	task   TaskKey
	tag    string
	bytes  int64
	future *Future
}

// waiterQueue is a strict FIFO of pending waiters. It is not safe for
// concurrent use on its own; every call is made while the owning Pool
// holds its single mutex.
type waiterQueue struct {
	q *queue.Queue
}

func newWaiterQueue() *waiterQueue {
	return &waiterQueue{q: queue.New()}
}

func (w *waiterQueue) push(item *waiter) {
	w.q.Add(item)
}

func (w *waiterQueue) peek() *waiter {
	if w.q.Length() == 0 {
		return nil
	}
	return w.q.Peek().(*waiter)
}

func (w *waiterQueue) pop() *waiter {
	return w.q.Remove().(*waiter)
}

func (w *waiterQueue) len() int {
	return w.q.Length()
}

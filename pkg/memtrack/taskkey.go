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

// TaskKey identifies a single task attempt within a query. The pool treats
// it as opaque beyond extracting QueryID for per-query aggregation: it
// never interprets StageIndex, TaskIndex, or AttemptIndex.
type TaskKey struct {
	QueryID      uuid.UUID
	StageIndex   int
	TaskIndex    int
	AttemptIndex int
}

// NewQueryID generates a fresh query identifier for callers that don't
// already have one (e.g. the demo harness, or tests building a TaskKey
// from scratch).
func NewQueryID() uuid.UUID {
	return uuid.New()
}

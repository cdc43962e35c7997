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

// Command memtrackdemo drives a pkg/memtrack.Pool the way a worker node's
// task scheduler, revocation policy, and metrics endpoint would, without
// pulling in a real query engine: the package's own tests exercise the
// pool in isolation, so this shows the same collaborator contract wired
// end to end in a running process.
package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vkozhukhova/trino/internal/config"
	"github.com/vkozhukhova/trino/internal/log"
	"github.com/vkozhukhova/trino/pkg/memtrack"
)

func main() {
	confFile := flag.String("config", "", "path to a pool.toml config file (optional)")
	numTasks := flag.Int("tasks", 4, "number of simulated tasks to run")
	iterations := flag.Int("iterations", 20, "reserve/free iterations per task")
	flag.Parse()

	log.Init(log.NewDevelopment())
	logger := log.L()

	conf, err := config.Load(*confFile)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	pool := memtrack.NewPool("worker-0", conf.CapacityBytes)

	recorder := memtrack.NewPrometheusRecorder(conf.MetricsNamespace, prometheus.NewRegistry())
	recorder.Attach(pool)

	revoker := newRevocationPolicy(pool, conf.RevocationThreshold, logger)
	pool.Listeners().OnMemoryReserved(revoker.onReserved)

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < *numTasks; i++ {
		task := memtrack.TaskKey{QueryID: memtrack.NewQueryID(), StageIndex: 0, TaskIndex: i, AttemptIndex: 0}
		g.Go(func() error {
			return runOperator(ctx, pool, task, *iterations)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("simulated workload finished with an error", zap.Error(err))
		return
	}

	snap := pool.Snapshot()
	logger.Info("workload complete",
		zap.Int64("reserved_bytes", snap.ReservedBytes),
		zap.Int64("reserved_revocable_bytes", snap.ReservedRevocableBytes),
		zap.Int64("free_bytes", snap.FreeBytes),
	)
}

// runOperator simulates an operator that alternates between hard
// (non-revocable) allocations for a hash-build tag and revocable spill
// buffers, releasing everything before it exits — exactly the discipline
// the pool requires of upstream callers.
func runOperator(ctx context.Context, pool *memtrack.Pool, task memtrack.TaskKey, iterations int) error {
	rng := rand.New(rand.NewSource(int64(task.TaskIndex) + 1))
	var revocableHeld int64

	for i := 0; i < iterations; i++ {
		hardBytes := int64(rng.Intn(4096))
		future := pool.Reserve(task, "hash-build", hardBytes)
		if !future.Poll() {
			if err := future.Wait(ctx); err != nil {
				return err
			}
		}

		spillDelta := int64(rng.Intn(2048)) - 1024
		if revocableHeld+spillDelta < 0 {
			spillDelta = -revocableHeld
		}
		if spillDelta > 0 {
			pool.ReserveRevocable(task, spillDelta)
			revocableHeld += spillDelta
		} else if spillDelta < 0 {
			if err := pool.FreeRevocable(task, -spillDelta); err != nil {
				return err
			}
			revocableHeld += spillDelta
		}

		if err := pool.Free(task, "hash-build", hardBytes); err != nil {
			return err
		}

		time.Sleep(time.Millisecond)
	}

	if revocableHeld > 0 {
		return pool.FreeRevocable(task, revocableHeld)
	}
	return nil
}

// revocationPolicy watches memory-reserved events and, once the pool
// crosses RevocationThreshold of its capacity, logs a revocation request.
// A real spill subsystem (out of scope here) would instead call
// into affected operators' revocable-memory contexts.
type revocationPolicy struct {
	pool      *memtrack.Pool
	threshold float64
	logger    *zap.Logger
}

func newRevocationPolicy(pool *memtrack.Pool, threshold float64, logger *zap.Logger) *revocationPolicy {
	return &revocationPolicy{pool: pool, threshold: threshold, logger: logger}
}

func (r *revocationPolicy) onReserved(p *memtrack.Pool) {
	snap := p.Snapshot()
	used := snap.ReservedBytes + snap.ReservedRevocableBytes
	if float64(used) < r.threshold*float64(snap.CapacityBytes) {
		return
	}
	r.logger.Warn("requesting memory revocation",
		zap.Int64("used_bytes", used),
		zap.Int64("capacity_bytes", snap.CapacityBytes),
		zap.Int64("reserved_revocable_bytes", snap.ReservedRevocableBytes),
	)
}

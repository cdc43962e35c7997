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

import "github.com/prometheus/client_golang/prometheus"

// PrometheusRecorder is a listener that mirrors a pool's aggregate
// counters into Prometheus gauges for external dashboards. It subscribes
// to both event kinds and only ever reads the pool through its
// already-locked public accessors, so it never needs to reach into pool
// internals.
type PrometheusRecorder struct {
	reservedBytes          prometheus.Gauge
	reservedRevocableBytes prometheus.Gauge
	freeBytes              prometheus.Gauge
	waiterCount            prometheus.Gauge
}

// NewPrometheusRecorder builds a recorder and registers its gauges with
// reg under namespace. Pass prometheus.DefaultRegisterer to publish on
// the process-wide /metrics endpoint.
func NewPrometheusRecorder(namespace string, reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		reservedBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserved_bytes",
			Help:      "Bytes currently reserved (non-revocable) from the pool.",
		}),
		reservedRevocableBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserved_revocable_bytes",
			Help:      "Bytes currently reserved as revocable from the pool.",
		}),
		freeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "free_bytes",
			Help:      "capacity_bytes - reserved_bytes - reserved_revocable_bytes.",
		}),
		waiterCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "waiters",
			Help:      "Number of pending non-revocable reservation requests.",
		}),
	}
	reg.MustRegister(r.reservedBytes, r.reservedRevocableBytes, r.freeBytes, r.waiterCount)
	return r
}

// Attach subscribes the recorder to both event kinds on p and takes one
// initial reading so the gauges aren't stuck at zero before the first
// mutation.
func (r *PrometheusRecorder) Attach(p *Pool) {
	p.Listeners().OnMemoryReserved(r.observe)
	p.Listeners().OnMemoryFreed(r.observe)
	r.observe(p)
}

func (r *PrometheusRecorder) observe(p *Pool) {
	snap := p.Snapshot()
	r.reservedBytes.Set(float64(snap.ReservedBytes))
	r.reservedRevocableBytes.Set(float64(snap.ReservedRevocableBytes))
	r.freeBytes.Set(float64(snap.FreeBytes))
	r.waiterCount.Set(float64(snap.WaiterCount))
}

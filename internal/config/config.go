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

// Package config loads process-level tuning knobs for the memory pool: a
// struct of defaults, optionally overlaid by a TOML file on disk.
package config

import (
	"github.com/pingcap/errors"

	"github.com/BurntSushi/toml"
)

// PoolConfig controls how a memtrack.Pool is sized and instrumented.
// It carries no query-execution policy: which queries to block or revoke
// is decided above the pool, never here.
type PoolConfig struct {
	// CapacityBytes is the pool's fixed byte budget. Immutable once the
	// pool is constructed.
	CapacityBytes int64 `toml:"capacity-bytes"`
	// MetricsNamespace prefixes the Prometheus metrics registered by
	// memtrack.PrometheusRecorder.
	MetricsNamespace string `toml:"metrics-namespace"`
	// RevocationThreshold is the fraction (0, 1] of capacity at which a
	// revocation policy listener should start requesting revocable
	// memory back. The pool itself does not read this field; it exists
	// for collaborators such as cmd/memtrackdemo's revocation policy
	// listener.
	RevocationThreshold float64 `toml:"revocation-threshold"`
}

var defaultConf = PoolConfig{
	CapacityBytes:       1 << 30, // 1 GiB
	MetricsNamespace:    "memtrack",
	RevocationThreshold: 0.85,
}

// NewDefault returns a PoolConfig populated with the module defaults.
func NewDefault() *PoolConfig {
	conf := defaultConf
	return &conf
}

// Load overlays a TOML file on top of the module defaults. An empty path
// returns the defaults; a partially specified file only overrides the
// fields it names; a file that cannot be read or decoded is an error.
func Load(confFile string) (*PoolConfig, error) {
	conf := NewDefault()
	if confFile == "" {
		return conf, nil
	}
	if _, err := toml.DecodeFile(confFile, conf); err != nil {
		return nil, errors.Trace(err)
	}
	if conf.CapacityBytes <= 0 {
		return nil, errors.Errorf("capacity-bytes must be positive, got %d", conf.CapacityBytes)
	}
	return conf, nil
}

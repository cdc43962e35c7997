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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithNoFile(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)
	require.Equal(t, defaultConf, *conf)
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.toml")
	require.NoError(t, os.WriteFile(path, []byte(`capacity-bytes = 2048`+"\n"), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, int64(2048), conf.CapacityBytes)
	require.Equal(t, defaultConf.MetricsNamespace, conf.MetricsNamespace, "unspecified fields keep their default")
}

func TestLoadRejectsNonPositiveCapacity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.toml")
	require.NoError(t, os.WriteFile(path, []byte(`capacity-bytes = 0`+"\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

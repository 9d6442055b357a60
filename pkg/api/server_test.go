// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/device-capability/pkg/collector"
	"github.com/NVIDIA/device-capability/pkg/collector/android"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "devcapd", name)
	assert.Equal(t, "dev", versionDefault)
	assert.NotEmpty(t, version)
	assert.NotEmpty(t, commit)
	assert.NotEmpty(t, date)
}

func TestNewSnapshotter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		d, err := newSnapshotter(envFrom(nil))
		require.NoError(t, err)
		assert.Equal(t, collector.SourceHost, d.Source)

		f, ok := d.Factory.(*collector.DefaultFactory)
		require.True(t, ok)
		assert.Equal(t, android.DefaultADBPath, f.ADBPath)
		assert.Empty(t, f.ADBSerial)
		assert.Zero(t, f.ProbeTimeout)
	})

	t.Run("android from env", func(t *testing.T) {
		d, err := newSnapshotter(envFrom(map[string]string{
			EnvSource:       "Android",
			EnvADBSerial:    "emulator-5554",
			EnvADBPath:      "/opt/platform-tools/adb",
			EnvDataDir:      "/data",
			EnvProbeTimeout: "3s",
		}))
		require.NoError(t, err)
		assert.Equal(t, collector.SourceAndroid, d.Source)

		f, ok := d.Factory.(*collector.DefaultFactory)
		require.True(t, ok)
		assert.Equal(t, "emulator-5554", f.ADBSerial)
		assert.Equal(t, "/opt/platform-tools/adb", f.ADBPath)
		assert.Equal(t, "/data", f.DataDir)
		assert.Equal(t, 3*time.Second, f.ProbeTimeout)
	})

	t.Run("invalid source", func(t *testing.T) {
		_, err := newSnapshotter(envFrom(map[string]string{EnvSource: "ios"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvSource)
	})

	t.Run("invalid probe timeout", func(t *testing.T) {
		for _, v := range []string{"soon", "-1s", "0s"} {
			_, err := newSnapshotter(envFrom(map[string]string{EnvProbeTimeout: v}))
			require.Error(t, err, v)
			assert.Contains(t, err.Error(), EnvProbeTimeout)
		}
	})
}

func TestRoutes(t *testing.T) {
	d, err := newSnapshotter(envFrom(nil))
	require.NoError(t, err)

	r := routes(d)
	require.Len(t, r, 1)
	assert.Contains(t, r, SnapshotPath)
	assert.NotNil(t, r[SnapshotPath])
}

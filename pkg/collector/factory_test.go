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

package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/device-capability/pkg/collector/android"
	"github.com/NVIDIA/device-capability/pkg/defaults"
	cerrors "github.com/NVIDIA/device-capability/pkg/errors"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

type failingRunner struct{}

func (failingRunner) Run(context.Context, string, ...string) (string, error) {
	return "", errors.New("device offline")
}

func TestParseSourceKind(t *testing.T) {
	tests := []struct {
		in      string
		want    SourceKind
		wantErr bool
	}{
		{in: "", want: SourceHost},
		{in: "host", want: SourceHost},
		{in: " Android ", want: SourceAndroid},
		{in: "ios", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSourceKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDefaultFactory(t *testing.T) {
	f := NewDefaultFactory()
	assert.Equal(t, android.DefaultADBPath, f.ADBPath)
	assert.Empty(t, f.ADBSerial)
	assert.Zero(t, f.ProbeTimeout)

	f = NewDefaultFactory(
		WithADBPath("/opt/platform-tools/adb"),
		WithADBSerial("emulator-5554"),
		WithDataDir("/var/lib/devcap"),
		WithFactoryProbeTimeout(time.Second),
	)
	assert.Equal(t, "/opt/platform-tools/adb", f.ADBPath)
	assert.Equal(t, "emulator-5554", f.ADBSerial)
	assert.Equal(t, "/var/lib/devcap", f.DataDir)
	assert.Equal(t, time.Second, f.ProbeTimeout)
}

func TestDefaultFactory_CreateAndroidCollector(t *testing.T) {
	f := NewDefaultFactory(WithRunner(failingRunner{}))

	c, ok := f.CreateAndroidCollector().(*SnapshotCollector)
	require.True(t, ok)
	assert.Equal(t, defaults.ADBProbeTimeout, c.probeTimeout)

	snap, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, cerrors.ErrCodeInternal, cerrors.CodeOf(err))
	assert.Equal(t, CollectionErrorMessage, cerrors.MessageOf(err))
	assert.Contains(t, err.Error(), "device offline")
}

// sdkOnlyRunner answers getprop for the SDK level and fails everything else.
type sdkOnlyRunner struct{}

func (sdkOnlyRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	if name == "getprop" && len(args) == 1 && args[0] == "ro.build.version.sdk" {
		return "34\n", nil
	}
	return "", errors.New("permission denied")
}

func TestDefaultFactory_ReachableAndroidWithFailingProbes(t *testing.T) {
	f := NewDefaultFactory(WithRunner(sdkOnlyRunner{}))

	snap, err := f.CreateAndroidCollector().Collect(context.Background())
	require.NoError(t, err)

	want := snapshot.New(snapshot.PlatformAndroid)
	want.SDKLevel = ptr.To(34)
	assert.Equal(t, want, snap)
}

func TestDefaultFactory_ProbeTimeoutOverride(t *testing.T) {
	f := NewDefaultFactory(WithRunner(failingRunner{}), WithFactoryProbeTimeout(250*time.Millisecond))

	c, ok := f.CreateAndroidCollector().(*SnapshotCollector)
	require.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, c.probeTimeout)
}

func TestDefaultFactory_Create(t *testing.T) {
	f := NewDefaultFactory(WithRunner(failingRunner{}))

	c, err := f.Create(SourceAndroid)
	require.NoError(t, err)
	assert.NotNil(t, c)

	c, err = f.Create(SourceHost)
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = f.Create(SourceKind("fuchsia"))
	assert.Error(t, err)
}

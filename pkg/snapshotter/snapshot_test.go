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

package snapshotter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/device-capability/pkg/collector"
	cerrors "github.com/NVIDIA/device-capability/pkg/errors"
	"github.com/NVIDIA/device-capability/pkg/serializer"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

type fakeCollector struct {
	snap  *snapshot.Snapshot
	err   error
	calls int
}

func (c *fakeCollector) Collect(ctx context.Context) (*snapshot.Snapshot, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if err := ctx.Err(); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeTimeout, collector.CollectionErrorMessage, err)
	}
	return c.snap, nil
}

type fakeFactory struct {
	host    *fakeCollector
	android *fakeCollector
}

func (f *fakeFactory) CreateHostCollector() collector.Collector    { return f.host }
func (f *fakeFactory) CreateAndroidCollector() collector.Collector { return f.android }

type recordingSerializer struct {
	got any
	err error
}

func (s *recordingSerializer) Serialize(_ context.Context, v any) error {
	s.got = v
	return s.err
}

func linuxSnapshot() *snapshot.Snapshot {
	s := snapshot.New(snapshot.PlatformLinux)
	s.CPUCores = 16
	s.TotalRAMBytes = 34359738368
	s.UsedRAMBytes = 12884901888
	s.TotalStorageBytes = ptr.To[int64](512110190592)
	s.FreeStorageBytes = ptr.To[int64](201863462912)
	s.DeviceModel = "LENOVO 21CB"
	s.ScreenWidth = 2880
	s.ScreenHeight = 1800
	s.ProcessorFrequency = ptr.To[int64](4700)
	return s
}

func pixelSnapshot() *snapshot.Snapshot {
	s := snapshot.New(snapshot.PlatformAndroid)
	s.CPUCores = 8
	s.TotalRAMBytes = 6442450944
	s.UsedRAMBytes = 3221225472
	s.SDKLevel = ptr.To(34)
	s.DeviceModel = "Google Pixel 8"
	s.ThermalState = snapshot.ThermalSerious
	s.BatteryLevel = 0.73
	s.IsCharging = true
	s.ScreenWidth = 1080
	s.ScreenHeight = 2400
	s.ScreenDensity = 2.625
	return s
}

func newTestSnapshotter() (*DeviceSnapshotter, *fakeFactory) {
	f := &fakeFactory{
		host:    &fakeCollector{snap: linuxSnapshot()},
		android: &fakeCollector{snap: pixelSnapshot()},
	}
	return &DeviceSnapshotter{Factory: f}, f
}

func TestDeviceSnapshotter_Collect(t *testing.T) {
	t.Run("empty source uses host", func(t *testing.T) {
		d, f := newTestSnapshotter()

		snap, err := d.Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, snapshot.PlatformLinux, snap.Platform)
		assert.Equal(t, 1, f.host.calls)
		assert.Equal(t, 0, f.android.calls)
	})

	t.Run("android source", func(t *testing.T) {
		d, f := newTestSnapshotter()
		d.Source = collector.SourceAndroid

		snap, err := d.Collect(context.Background())
		require.NoError(t, err)
		assert.Equal(t, snapshot.PlatformAndroid, snap.Platform)
		assert.Equal(t, 8, snap.CPUCores)
		assert.Equal(t, 1, f.android.calls)
	})

	t.Run("unknown source", func(t *testing.T) {
		d, _ := newTestSnapshotter()
		d.Source = "ios"

		_, err := d.Collect(context.Background())
		require.Error(t, err)
		assert.Equal(t, cerrors.ErrCodeInvalidRequest, cerrors.CodeOf(err))
	})

	t.Run("collection error is returned unchanged", func(t *testing.T) {
		d, f := newTestSnapshotter()
		want := cerrors.Wrap(cerrors.ErrCodeInternal, collector.CollectionErrorMessage, errors.New("probe panicked"))
		f.host.err = want

		snap, err := d.Collect(context.Background())
		assert.Nil(t, snap)
		assert.Same(t, want, err)
	})

	t.Run("nil factory gets default", func(t *testing.T) {
		d := &DeviceSnapshotter{Source: "bogus"}
		_, err := d.Collect(context.Background())
		require.Error(t, err)
		assert.NotNil(t, d.Factory)
	})
}

func TestDeviceSnapshotter_Measure(t *testing.T) {
	t.Run("serializes the snapshot", func(t *testing.T) {
		d, _ := newTestSnapshotter()
		s := &recordingSerializer{}
		d.Serializer = s

		require.NoError(t, d.Measure(context.Background()))
		snap, ok := s.got.(*snapshot.Snapshot)
		require.True(t, ok)
		assert.Equal(t, 16, snap.CPUCores)
	})

	t.Run("writes JSON through a writer", func(t *testing.T) {
		d, _ := newTestSnapshotter()
		d.Source = collector.SourceAndroid
		var buf bytes.Buffer
		d.Serializer = serializer.NewWriter(serializer.FormatJSON, &buf)

		require.NoError(t, d.Measure(context.Background()))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "android", got["platform"])
		assert.InDelta(t, 2, got["thermalState"], 0)
		assert.Nil(t, got["totalStorageBytes"])
		assert.Contains(t, got, "processorFrequency")
	})

	t.Run("collection failure writes nothing", func(t *testing.T) {
		d, f := newTestSnapshotter()
		f.host.err = cerrors.New(cerrors.ErrCodeInternal, collector.CollectionErrorMessage)
		s := &recordingSerializer{}
		d.Serializer = s

		require.Error(t, d.Measure(context.Background()))
		assert.Nil(t, s.got)
	})

	t.Run("serializer failure is wrapped", func(t *testing.T) {
		d, _ := newTestSnapshotter()
		d.Serializer = &recordingSerializer{err: errors.New("disk full")}

		err := d.Measure(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to serialize")
		assert.Contains(t, err.Error(), "disk full")
	})
}

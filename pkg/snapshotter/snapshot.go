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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NVIDIA/device-capability/pkg/collector"
	cerrors "github.com/NVIDIA/device-capability/pkg/errors"
	"github.com/NVIDIA/device-capability/pkg/serializer"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

// DeviceSnapshotter collects a device capability snapshot from the configured
// source and hands it to a serializer or an HTTP client.
type DeviceSnapshotter struct {
	// Source selects the collector. Empty means the local host.
	Source collector.SourceKind

	// Factory is the collector factory to use. If nil, the default factory is used.
	Factory collector.Factory

	// Serializer is the serializer to use for output. If nil, a default stdout JSON serializer is used.
	Serializer serializer.Serializer

	// Timeout bounds a single collection served over HTTP.
	// Zero means defaults.SnapshotHandlerTimeout.
	Timeout time.Duration
}

// Collect returns a fresh snapshot from the configured source.
// Errors are CollectionErrors from the collector, or INVALID_REQUEST for an
// unknown source.
func (d *DeviceSnapshotter) Collect(ctx context.Context) (*snapshot.Snapshot, error) {
	c, err := d.collector()
	if err != nil {
		return nil, err
	}

	slog.Debug("starting device snapshot", "source", d.sourceOrDefault())

	snap, err := c.Collect(ctx)
	if err != nil {
		snapshotTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	snapshotTotal.WithLabelValues("success").Inc()
	return snap, nil
}

// Measure collects a snapshot and serializes it.
// Partial data is never written: a failed collection writes nothing.
func (d *DeviceSnapshotter) Measure(ctx context.Context) error {
	snap, err := d.Collect(ctx)
	if err != nil {
		slog.Error("failed to collect snapshot", "source", d.sourceOrDefault(), "error", err)
		return err
	}

	if d.Serializer == nil {
		d.Serializer = serializer.NewStdoutWriter(serializer.FormatJSON)
	}

	start := time.Now()
	defer func() {
		serializeDuration.Observe(time.Since(start).Seconds())
	}()

	if err := d.Serializer.Serialize(ctx, snap); err != nil {
		slog.Error("failed to serialize", "error", err)
		return fmt.Errorf("failed to serialize: %w", err)
	}

	return nil
}

func (d *DeviceSnapshotter) collector() (collector.Collector, error) {
	if d.Factory == nil {
		d.Factory = collector.NewDefaultFactory()
	}

	switch d.sourceOrDefault() {
	case collector.SourceHost:
		return d.Factory.CreateHostCollector(), nil
	case collector.SourceAndroid:
		return d.Factory.CreateAndroidCollector(), nil
	default:
		return nil, cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest, "unknown snapshot source",
			map[string]any{"source": string(d.Source)})
	}
}

func (d *DeviceSnapshotter) sourceOrDefault() collector.SourceKind {
	if d.Source == "" {
		return collector.SourceHost
	}
	return d.Source
}

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
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/device-capability/pkg/defaults"
	cerrors "github.com/NVIDIA/device-capability/pkg/errors"
	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

// CollectionErrorMessage prefixes every call-level failure.
const CollectionErrorMessage = "Failed to collect device info"

// ErrNoSource is the cause reported when no platform source is available.
var ErrNoSource = errors.New("no platform source available for this host")

// Collector produces device capability snapshots.
type Collector interface {
	Collect(ctx context.Context) (*snapshot.Snapshot, error)
}

// Option configures a SnapshotCollector.
type Option func(*SnapshotCollector)

// WithProbeTimeout bounds each individual probe. Non-positive values are ignored.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *SnapshotCollector) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

// SnapshotCollector runs every probe of a platform source concurrently and
// normalizes the raw readings into a snapshot. It holds configuration only;
// nothing carries over between calls.
type SnapshotCollector struct {
	source       probe.Source
	probeTimeout time.Duration
}

// New returns a collector for the given source. A nil source yields a
// collector whose Collect always fails.
func New(src probe.Source, opts ...Option) *SnapshotCollector {
	c := &SnapshotCollector{
		source:       src,
		probeTimeout: defaults.ProbeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect queries the platform and returns a fresh snapshot.
//
// Individual probe failures and timeouts never fail the call; the affected
// fields take their documented default or are omitted. Collect fails, with no
// partial snapshot, only when there is no platform source, the source reports
// the platform unreachable, a probe panics, or ctx ends before the snapshot is
// assembled.
func (c *SnapshotCollector) Collect(ctx context.Context) (*snapshot.Snapshot, error) {
	if c == nil || c.source == nil {
		collectionTotal.WithLabelValues("unknown", "error").Inc()
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, CollectionErrorMessage, ErrNoSource)
	}

	src := c.source
	platform := src.Platform()
	start := time.Now()
	defer func() {
		collectionDuration.WithLabelValues(string(platform)).Observe(time.Since(start).Seconds())
	}()

	if err := ctx.Err(); err != nil {
		collectionTotal.WithLabelValues(string(platform), "error").Inc()
		return nil, contextError(err)
	}

	if err := c.checkReady(ctx, src); err != nil {
		collectionTotal.WithLabelValues(string(platform), "error").Inc()
		return nil, err
	}

	slog.Debug("collecting device capabilities",
		"platform", platform,
		"probeTimeout", c.probeTimeout.String())

	g, gctx := errgroup.WithContext(ctx)
	t := c.probeTimeout

	cores := gather(gctx, g, platform, probeCPUCores, t, src.CPUCores)
	mem := gather(gctx, g, platform, probeMemory, t, src.Memory)
	storage := gather(gctx, g, platform, probeStorage, t, src.Storage)
	sdk := gather(gctx, g, platform, probeSDKLevel, t, src.SDKLevel)
	model := gather(gctx, g, platform, probeDeviceModel, t, src.DeviceModel)
	thermal := gather(gctx, g, platform, probeThermal, t, src.ThermalState)
	lowPower := gather(gctx, g, platform, probeLowPower, t, src.LowPowerMode)
	battery := gather(gctx, g, platform, probeBattery, t, src.Battery)
	display := gather(gctx, g, platform, probeDisplay, t, src.Display)
	freq := gather(gctx, g, platform, probeFrequency, t, src.MaxCPUFrequencyMHz)

	if err := g.Wait(); err != nil {
		collectionTotal.WithLabelValues(string(platform), "error").Inc()
		slog.Error("device capability collection failed", "platform", platform, "error", err)
		return nil, cerrors.WrapWithContext(cerrors.ErrCodeInternal, CollectionErrorMessage, err,
			map[string]any{"platform": string(platform)})
	}

	if err := ctx.Err(); err != nil {
		collectionTotal.WithLabelValues(string(platform), "error").Inc()
		return nil, contextError(err)
	}

	snap := snapshot.New(platform)
	applyCPUCores(snap, cores)
	applyMemory(snap, mem)
	applyStorage(snap, storage)
	applySDKLevel(snap, sdk)
	applyDeviceModel(snap, model)
	applyThermal(snap, thermal)
	if lowPower.ok() {
		snap.LowPowerModeEnabled = lowPower.value
	}
	applyBattery(snap, battery)
	applyDisplay(snap, display)
	applyFrequency(snap, freq)

	collectionTotal.WithLabelValues(string(platform), "success").Inc()
	slog.Debug("device capabilities collected",
		"platform", platform,
		"duration", time.Since(start).String())

	return snap, nil
}

// checkReady runs the source's reachability check, if it has one, under the
// per-probe timeout.
func (c *SnapshotCollector) checkReady(ctx context.Context, src probe.Source) error {
	chk, ok := src.(probe.Checker)
	if !ok {
		return nil
	}

	rctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	err := chk.Ready(rctx)
	if err == nil {
		return nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return contextError(cerr)
	}

	platform := src.Platform()
	slog.Error("device is not reachable", "platform", platform, "error", err)
	return cerrors.WrapWithContext(cerrors.ErrCodeInternal, CollectionErrorMessage, err,
		map[string]any{"platform": string(platform)})
}

func contextError(err error) error {
	code := cerrors.ErrCodeInternal
	if errors.Is(err, context.DeadlineExceeded) {
		code = cerrors.ErrCodeTimeout
	}
	return cerrors.Wrap(code, CollectionErrorMessage, err)
}

func applyCPUCores(s *snapshot.Snapshot, r *reading[int]) {
	if !r.ok() {
		return
	}
	if r.value < 1 {
		fallback(s.Platform, probeCPUCores, reasonInvalid, nil)
		return
	}
	s.CPUCores = r.value
}

func applyMemory(s *snapshot.Snapshot, r *reading[probe.Memory]) {
	if !r.ok() {
		return
	}
	m := r.value
	if m.TotalBytes < 0 || m.UsedBytes < 0 {
		fallback(s.Platform, probeMemory, reasonInvalid, nil)
		return
	}
	s.TotalRAMBytes = m.TotalBytes
	s.UsedRAMBytes = min(m.UsedBytes, m.TotalBytes)
}

// applyStorage sets both storage fields or neither.
func applyStorage(s *snapshot.Snapshot, r *reading[probe.Storage]) {
	if !r.ok() {
		return
	}
	st := r.value
	if st.TotalBytes < 0 || st.FreeBytes < 0 || st.FreeBytes > st.TotalBytes {
		fallback(s.Platform, probeStorage, reasonInvalid, nil)
		return
	}
	s.TotalStorageBytes = ptr.To(st.TotalBytes)
	s.FreeStorageBytes = ptr.To(st.FreeBytes)
}

func applySDKLevel(s *snapshot.Snapshot, r *reading[int]) {
	if !r.ok() {
		return
	}
	if r.value <= 0 {
		fallback(s.Platform, probeSDKLevel, reasonInvalid, nil)
		return
	}
	s.SDKLevel = ptr.To(r.value)
}

func applyDeviceModel(s *snapshot.Snapshot, r *reading[string]) {
	if !r.ok() {
		return
	}
	model := strings.Join(strings.Fields(r.value), " ")
	if model == "" {
		fallback(s.Platform, probeDeviceModel, reasonInvalid, nil)
		return
	}
	s.DeviceModel = model
}

func applyThermal(s *snapshot.Snapshot, r *reading[snapshot.ThermalState]) {
	if !r.ok() {
		return
	}
	if !r.value.IsValid() {
		fallback(s.Platform, probeThermal, reasonInvalid, nil)
		return
	}
	s.ThermalState = r.value
}

// applyBattery converts level/scale into a fraction. The sentinel reading
// (negative level or non-positive scale) keeps the default level while the
// charging flag is still taken from the status.
func applyBattery(s *snapshot.Snapshot, r *reading[probe.Battery]) {
	if !r.ok() {
		return
	}
	b := r.value
	s.IsCharging = b.Status == probe.ChargeCharging || b.Status == probe.ChargeFull
	if !b.Valid() {
		fallback(s.Platform, probeBattery, reasonInvalid, nil)
		return
	}
	s.BatteryLevel = math.Min(float64(b.Level)/float64(b.Scale), 1.0)
}

// applyDisplay converts logical sizes to physical pixels.
func applyDisplay(s *snapshot.Snapshot, r *reading[probe.Display]) {
	if !r.ok() {
		return
	}
	d := r.value
	if !finite(d.Width) || !finite(d.Height) || d.Width < 0 || d.Height < 0 {
		fallback(s.Platform, probeDisplay, reasonInvalid, nil)
		return
	}

	w, h := d.Width, d.Height
	if finite(d.Scale) && d.Scale > 0 {
		if d.Logical {
			w, h = w*d.Scale, h*d.Scale
		}
		if !finite(w) || !finite(h) {
			fallback(s.Platform, probeDisplay, reasonInvalid, nil)
			return
		}
		s.ScreenDensity = d.Scale
	}
	s.ScreenWidth, s.ScreenHeight = w, h
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func applyFrequency(s *snapshot.Snapshot, r *reading[int64]) {
	if !r.ok() {
		return
	}
	if r.value <= 0 {
		fallback(s.Platform, probeFrequency, reasonInvalid, nil)
		return
	}
	s.ProcessorFrequency = ptr.To(r.value)
}

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
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

// Probe names used in logs and metric labels.
const (
	probeCPUCores     = "cpuCores"
	probeMemory       = "memory"
	probeStorage      = "storage"
	probeSDKLevel     = "sdkLevel"
	probeDeviceModel  = "deviceModel"
	probeThermal      = "thermalState"
	probeLowPower     = "lowPowerMode"
	probeBattery      = "battery"
	probeDisplay      = "display"
	probeFrequency    = "processorFrequency"
	reasonUnsupported = "unsupported"
	reasonTimeout     = "timeout"
	reasonError       = "error"
	reasonInvalid     = "invalid"
)

// panicError is returned when a probe panics. It is the only probe outcome
// that fails the whole collection.
type panicError struct {
	probe string
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("probe %s panicked: %v", e.probe, e.value)
}

// reading is the outcome of one probe. Each probe goroutine owns exactly one
// reading; they are only read after the group has been waited on.
type reading[T any] struct {
	value T
	err   error
}

func (r *reading[T]) ok() bool {
	return r.err == nil
}

// runProbe calls fn with its own deadline. A probe that does not return in
// time is abandoned with the deadline error; its goroutine exits on its own
// once fn observes the cancelled context.
func runProbe[T any](ctx context.Context, name string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value    T
		err      error
		panicked bool
		recov    any
	}
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{panicked: true, recov: r}
			}
		}()
		v, err := fn(pctx)
		ch <- outcome{value: v, err: err}
	}()

	var zero T
	select {
	case o := <-ch:
		if o.panicked {
			return zero, &panicError{probe: name, value: o.recov}
		}
		return o.value, o.err
	case <-pctx.Done():
		return zero, fmt.Errorf("probe %s: %w", name, pctx.Err())
	}
}

// gather schedules fn on g and returns the reading it will fill in.
// Only a panic is reported to the group; every other failure stays in the
// reading as a field-level soft failure.
func gather[T any](ctx context.Context, g *errgroup.Group, platform snapshot.Platform,
	name string, timeout time.Duration, fn func(context.Context) (T, error)) *reading[T] {

	r := &reading[T]{}
	g.Go(func() error {
		start := time.Now()
		v, err := runProbe(ctx, name, timeout, fn)
		probeDuration.WithLabelValues(string(platform), name).Observe(time.Since(start).Seconds())

		var pe *panicError
		if errors.As(err, &pe) {
			return pe
		}

		r.value, r.err = v, err
		if err != nil {
			fallback(platform, name, reasonFor(err), err)
		}
		return nil
	})
	return r
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, probe.ErrUnsupported):
		return reasonUnsupported
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	default:
		return reasonError
	}
}

// fallback records that a field was defaulted or omitted.
func fallback(platform snapshot.Platform, name, reason string, err error) {
	probeFallbacks.WithLabelValues(string(platform), name, reason).Inc()
	if reason == reasonUnsupported {
		slog.Debug("probe not supported on platform, using default",
			"platform", platform,
			"probe", name)
		return
	}
	slog.Warn("probe failed, using default",
		"platform", platform,
		"probe", name,
		"reason", reason,
		"error", err)
}

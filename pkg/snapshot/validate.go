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

package snapshot

import (
	"errors"
	"fmt"
	"math"
)

// ValidationError lists every field that violates the snapshot contract.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid snapshot: %d violation(s): %v", len(e.Violations), e.Violations)
}

// Validate checks the documented ranges of every field. It returns a
// *ValidationError describing all violations, or nil.
func (s *Snapshot) Validate() error {
	if s == nil {
		return errors.New("invalid snapshot: nil")
	}

	var v []string
	add := func(format string, args ...any) {
		v = append(v, fmt.Sprintf(format, args...))
	}

	if !s.Platform.IsValid() {
		add("platform %q is not one of %v", s.Platform, supportedPlatforms)
	}
	if s.CPUCores < 1 {
		add("cpuCores must be >= 1, got %d", s.CPUCores)
	}
	if s.TotalRAMBytes < 0 {
		add("totalRamBytes must be >= 0, got %d", s.TotalRAMBytes)
	}
	if s.UsedRAMBytes < 0 {
		add("usedRamBytes must be >= 0, got %d", s.UsedRAMBytes)
	}
	if s.UsedRAMBytes > s.TotalRAMBytes {
		add("usedRamBytes (%d) exceeds totalRamBytes (%d)", s.UsedRAMBytes, s.TotalRAMBytes)
	}
	if (s.TotalStorageBytes == nil) != (s.FreeStorageBytes == nil) {
		add("totalStorageBytes and freeStorageBytes must be present or absent together")
	}
	if s.HasStorage() {
		if *s.TotalStorageBytes < 0 || *s.FreeStorageBytes < 0 {
			add("storage sizes must be >= 0")
		} else if *s.FreeStorageBytes > *s.TotalStorageBytes {
			add("freeStorageBytes (%d) exceeds totalStorageBytes (%d)", *s.FreeStorageBytes, *s.TotalStorageBytes)
		}
	}
	if s.SDKLevel != nil && s.Platform != PlatformAndroid {
		add("sdkLevel is only defined on %s", PlatformAndroid)
	}
	if s.DeviceModel == "" {
		add("deviceModel must not be empty")
	}
	if !s.ThermalState.IsValid() {
		add("thermalState must be within [0,3], got %d", int(s.ThermalState))
	}
	if !finite(s.BatteryLevel) || s.BatteryLevel < 0 || s.BatteryLevel > 1 {
		add("batteryLevel must be within [0.0,1.0], got %g", s.BatteryLevel)
	}
	if !finite(s.ScreenWidth) || !finite(s.ScreenHeight) || s.ScreenWidth < 0 || s.ScreenHeight < 0 {
		add("screen dimensions must be finite and >= 0, got %gx%g", s.ScreenWidth, s.ScreenHeight)
	}
	if !finite(s.ScreenDensity) || s.ScreenDensity <= 0 {
		add("screenDensity must be finite and > 0, got %g", s.ScreenDensity)
	}
	if s.ProcessorFrequency != nil && *s.ProcessorFrequency <= 0 {
		add("processorFrequency must be > 0 when present, got %d", *s.ProcessorFrequency)
	}

	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

// finite reports whether f is neither NaN nor an infinity. Both pass every
// ordered comparison check.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

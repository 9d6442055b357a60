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

//go:build linux && !android

package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/NVIDIA/device-capability/pkg/collector/file"
	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

const (
	dmiDir          = "sys/class/dmi/id"
	deviceTreeModel = "proc/device-tree/model"
	thermalDir      = "sys/class/thermal"
	powerSupplyDir  = "sys/class/power_supply"
	drmDir          = "sys/class/drm"
	platformProfile = "sys/firmware/acpi/platform_profile"
	cpuDir          = "sys/devices/system/cpu"

	lowPowerProfile = "low-power"
)

var _ probe.Source = (*Source)(nil)

func newPlatformSource(s *Source) (probe.Source, error) {
	s.platform = snapshot.PlatformLinux
	if s.sysRoot == "" {
		s.sysRoot = "/"
	}
	return s, nil
}

func (s *Source) path(rel ...string) string {
	return filepath.Join(append([]string{s.sysRoot}, rel...)...)
}

// Memory implements probe.Source. Used is system-wide total minus available.
func (s *Source) Memory(ctx context.Context) (probe.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return probe.Memory{}, fmt.Errorf("failed to read virtual memory: %w", err)
	}
	total := clampInt64(vm.Total)
	used := total - clampInt64(vm.Available)
	if used < 0 {
		used = 0
	}
	return probe.Memory{TotalBytes: total, UsedBytes: used}, nil
}

// DeviceModel implements probe.Source from DMI vendor and product name,
// falling back to the device tree model on boards without DMI.
func (s *Source) DeviceModel(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var parts []string
	for _, name := range []string{"sys_vendor", "product_name"} {
		v, err := file.ReadString(s.path(dmiDir, name))
		if err != nil || isPlaceholder(v) {
			continue
		}
		parts = append(parts, v)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " "), nil
	}

	v, err := file.ReadString(s.path(deviceTreeModel))
	if err != nil {
		return "", fmt.Errorf("no dmi or device tree model: %w", err)
	}
	return strings.TrimRight(v, "\x00"), nil
}

// isPlaceholder filters firmware filler values.
func isPlaceholder(v string) bool {
	switch strings.ToLower(v) {
	case "", "to be filled by o.e.m.", "default string", "system product name", "system manufacturer":
		return true
	}
	return false
}

// ThermalState implements probe.Source as the most severe state across all
// thermal zones, each judged against its own trip points.
func (s *Source) ThermalState(ctx context.Context) (snapshot.ThermalState, error) {
	zones, err := filepath.Glob(s.path(thermalDir, "thermal_zone*"))
	if err != nil {
		return snapshot.ThermalNormal, err
	}
	if len(zones) == 0 {
		return snapshot.ThermalNormal, fmt.Errorf("no thermal zones: %w", probe.ErrUnsupported)
	}

	state := snapshot.ThermalNormal
	read := 0
	for _, z := range zones {
		if err := ctx.Err(); err != nil {
			return snapshot.ThermalNormal, err
		}
		temp, err := file.ReadInt(filepath.Join(z, "temp"))
		if err != nil {
			slog.Debug("skipping thermal zone", "zone", z, "error", err)
			continue
		}
		read++
		state = state.Max(snapshot.FromTripPoints(temp, readTripPoints(z)))
	}
	if read == 0 {
		return snapshot.ThermalNormal, fmt.Errorf("no readable thermal zone temperature")
	}
	return state, nil
}

func readTripPoints(zone string) []snapshot.TripPoint {
	types, _ := filepath.Glob(filepath.Join(zone, "trip_point_*_type"))
	trips := make([]snapshot.TripPoint, 0, len(types))
	for _, tp := range types {
		typ, err := file.ReadString(tp)
		if err != nil {
			continue
		}
		temp, err := file.ReadInt(strings.TrimSuffix(tp, "_type") + "_temp")
		if err != nil {
			continue
		}
		trips = append(trips, snapshot.TripPoint{Type: typ, MilliTemp: temp})
	}
	return trips
}

// LowPowerMode implements probe.Source from the ACPI platform profile.
func (s *Source) LowPowerMode(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	v, err := file.ReadString(s.path(platformProfile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("no platform profile: %w", probe.ErrUnsupported)
		}
		return false, err
	}
	return v == lowPowerProfile, nil
}

// Battery implements probe.Source from the first power_supply of type
// Battery. A missing capacity is reported as the -1 sentinel.
func (s *Source) Battery(ctx context.Context) (probe.Battery, error) {
	dir := s.path(powerSupplyDir)
	d, err := os.Open(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return probe.Battery{}, fmt.Errorf("no power supplies: %w", probe.ErrUnsupported)
		}
		return probe.Battery{}, fmt.Errorf("failed to open %q: %w", dir, err)
	}
	defer d.Close()

	names, err := d.Readdirnames(-1)
	if err != nil {
		return probe.Battery{}, fmt.Errorf("failed to list %q: %w", dir, err)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return probe.Battery{}, err
		}
		supply := filepath.Join(dir, name)
		typ, err := file.ReadString(filepath.Join(supply, "type"))
		if err != nil || typ != "Battery" {
			continue
		}
		if scope, err := file.ReadString(filepath.Join(supply, "scope")); err == nil && scope == "Device" {
			// peripheral battery (mouse, headset)
			continue
		}

		b := probe.Battery{Level: -1, Scale: 100}
		if capacity, err := file.ReadInt(filepath.Join(supply, "capacity")); err == nil {
			b.Level = int(capacity)
		}
		if status, err := file.ReadString(filepath.Join(supply, "status")); err == nil {
			b.Status = probe.ParseChargeStatus(status)
		}
		return b, nil
	}
	return probe.Battery{}, fmt.Errorf("no system battery: %w", probe.ErrUnsupported)
}

// Display implements probe.Source from the preferred mode of the first
// connected DRM connector. DRM exposes no density; the default applies.
func (s *Source) Display(ctx context.Context) (probe.Display, error) {
	connectors, err := filepath.Glob(s.path(drmDir, "card*-*"))
	if err != nil {
		return probe.Display{}, err
	}
	sort.Strings(connectors)

	for _, c := range connectors {
		if err := ctx.Err(); err != nil {
			return probe.Display{}, err
		}
		status, err := file.ReadString(filepath.Join(c, "status"))
		if err != nil || status != "connected" {
			continue
		}
		modes, err := file.NewParser().GetLines(filepath.Join(c, "modes"))
		if err != nil || len(modes) == 0 {
			continue
		}
		w, h, err := parseMode(modes[0])
		if err != nil {
			slog.Debug("skipping drm mode", "connector", c, "mode", modes[0], "error", err)
			continue
		}
		return probe.Display{Width: w, Height: h}, nil
	}
	return probe.Display{}, fmt.Errorf("no connected display: %w", probe.ErrUnsupported)
}

// parseMode parses a DRM mode such as "1920x1080" or "1920x1080i".
func parseMode(mode string) (float64, float64, error) {
	w, h, ok := strings.Cut(mode, "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid mode %q", mode)
	}
	h = strings.TrimRightFunc(h, func(r rune) bool { return r < '0' || r > '9' })
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid mode width %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid mode height %q: %w", h, err)
	}
	return float64(width), float64(height), nil
}

// MaxCPUFrequencyMHz implements probe.Source as the maximum cpuinfo_max_freq
// across all cores. Hosts without cpufreq report it as unsupported.
func (s *Source) MaxCPUFrequencyMHz(ctx context.Context) (int64, error) {
	paths, err := filepath.Glob(s.path(cpuDir, "cpu[0-9]*", "cpufreq", "cpuinfo_max_freq"))
	if err != nil {
		return 0, err
	}

	values := make([]string, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		v, err := file.ReadString(p)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return probe.MaxFrequencyMHz(values)
}

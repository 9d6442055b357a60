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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

func writeSyntheticFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func syntheticSource(t *testing.T, root string) *Source {
	t.Helper()
	src, err := New(WithSysRoot(root), WithDataDir(root))
	require.NoError(t, err)
	s, ok := src.(*Source)
	require.True(t, ok)
	return s
}

func laptopTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeSyntheticFile(t, root, "sys/class/dmi/id/sys_vendor", "LENOVO\n")
	writeSyntheticFile(t, root, "sys/class/dmi/id/product_name", "ThinkPad X1 Carbon Gen 11\n")

	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone0/temp", "45000\n")
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone0/trip_point_0_type", "passive\n")
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone0/trip_point_0_temp", "90000\n")
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone1/temp", "97000\n")
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone1/trip_point_0_type", "passive\n")
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone1/trip_point_0_temp", "85000\n")
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone1/trip_point_1_type", "hot\n")
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone1/trip_point_1_temp", "95000\n")
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone1/trip_point_2_type", "critical\n")
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone1/trip_point_2_temp", "105000\n")

	writeSyntheticFile(t, root, "sys/firmware/acpi/platform_profile", "low-power\n")

	writeSyntheticFile(t, root, "sys/class/power_supply/AC/type", "Mains\n")
	writeSyntheticFile(t, root, "sys/class/power_supply/BAT0/type", "Battery\n")
	writeSyntheticFile(t, root, "sys/class/power_supply/BAT0/capacity", "73\n")
	writeSyntheticFile(t, root, "sys/class/power_supply/BAT0/status", "Charging\n")
	writeSyntheticFile(t, root, "sys/class/power_supply/hidpp_battery_0/type", "Battery\n")
	writeSyntheticFile(t, root, "sys/class/power_supply/hidpp_battery_0/scope", "Device\n")

	writeSyntheticFile(t, root, "sys/class/drm/card0-DP-1/status", "disconnected\n")
	writeSyntheticFile(t, root, "sys/class/drm/card0-eDP-1/status", "connected\n")
	writeSyntheticFile(t, root, "sys/class/drm/card0-eDP-1/modes", "2880x1800\n1920x1200\n")

	writeSyntheticFile(t, root, "sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq", "4700000\n")
	writeSyntheticFile(t, root, "sys/devices/system/cpu/cpu1/cpufreq/cpuinfo_max_freq", "4700000\n")
	writeSyntheticFile(t, root, "sys/devices/system/cpu/cpu8/cpufreq/cpuinfo_max_freq", "3400000\n")

	return root
}

func TestLinuxSource_SyntheticLaptop(t *testing.T) {
	ctx := context.Background()
	s := syntheticSource(t, laptopTree(t))

	assert.Equal(t, snapshot.PlatformLinux, s.Platform())

	model, err := s.DeviceModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, "LENOVO ThinkPad X1 Carbon Gen 11", model)

	thermal, err := s.ThermalState(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ThermalSerious, thermal)

	lp, err := s.LowPowerMode(ctx)
	require.NoError(t, err)
	assert.True(t, lp)

	b, err := s.Battery(ctx)
	require.NoError(t, err)
	assert.Equal(t, probe.Battery{Level: 73, Scale: 100, Status: probe.ChargeCharging}, b)

	d, err := s.Display(ctx)
	require.NoError(t, err)
	assert.Equal(t, probe.Display{Width: 2880, Height: 1800}, d)

	mhz, err := s.MaxCPUFrequencyMHz(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4700), mhz)

	_, err = s.SDKLevel(ctx)
	assert.ErrorIs(t, err, probe.ErrUnsupported)
}

func TestLinuxSource_EmptyTreeIsUnsupported(t *testing.T) {
	ctx := context.Background()
	s := syntheticSource(t, t.TempDir())

	_, err := s.ThermalState(ctx)
	assert.ErrorIs(t, err, probe.ErrUnsupported)

	_, err = s.LowPowerMode(ctx)
	assert.ErrorIs(t, err, probe.ErrUnsupported)

	_, err = s.Battery(ctx)
	assert.ErrorIs(t, err, probe.ErrUnsupported)

	_, err = s.Display(ctx)
	assert.ErrorIs(t, err, probe.ErrUnsupported)

	_, err = s.MaxCPUFrequencyMHz(ctx)
	assert.ErrorIs(t, err, probe.ErrUnsupported)

	_, err = s.DeviceModel(ctx)
	assert.Error(t, err)
}

func TestLinuxSource_DeviceTreeModel(t *testing.T) {
	root := t.TempDir()
	writeSyntheticFile(t, root, "sys/class/dmi/id/sys_vendor", "To Be Filled By O.E.M.\n")
	writeSyntheticFile(t, root, "proc/device-tree/model", "Raspberry Pi 4 Model B Rev 1.4\x00")

	model, err := syntheticSource(t, root).DeviceModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Raspberry Pi 4 Model B Rev 1.4", model)
}

func TestLinuxSource_BatteryWithoutCapacity(t *testing.T) {
	root := t.TempDir()
	writeSyntheticFile(t, root, "sys/class/power_supply/BAT1/type", "Battery\n")
	writeSyntheticFile(t, root, "sys/class/power_supply/BAT1/status", "Full\n")

	b, err := syntheticSource(t, root).Battery(context.Background())
	require.NoError(t, err)
	assert.False(t, b.Valid())
	assert.Equal(t, probe.ChargeFull, b.Status)
}

func TestLinuxSource_ThermalZoneWithoutTrips(t *testing.T) {
	root := t.TempDir()
	writeSyntheticFile(t, root, "sys/class/thermal/thermal_zone0/temp", "120000\n")

	state, err := syntheticSource(t, root).ThermalState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snapshot.ThermalNormal, state)
}

func TestParseMode(t *testing.T) {
	w, h, err := parseMode("1920x1080i")
	require.NoError(t, err)
	assert.Equal(t, 1920.0, w)
	assert.Equal(t, 1080.0, h)

	_, _, err = parseMode("preferred")
	assert.Error(t, err)
	_, _, err = parseMode("axb")
	assert.Error(t, err)
}

func TestLinuxSource_Live(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping live host probes in short mode")
	}
	ctx := context.Background()
	src, err := New()
	require.NoError(t, err)

	cores, err := src.CPUCores(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cores, 1)

	m, err := src.Memory(ctx)
	require.NoError(t, err)
	assert.Positive(t, m.TotalBytes)
	assert.LessOrEqual(t, m.UsedBytes, m.TotalBytes)

	st, err := src.Storage(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, st.FreeBytes, st.TotalBytes)
}

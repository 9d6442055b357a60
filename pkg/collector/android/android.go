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

package android

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/NVIDIA/device-capability/pkg/collector/file"
	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

// ThermalAPILevel is the first SDK level with PowerManager thermal status.
const ThermalAPILevel = 29

// DataDir is the filesystem reported as storage.
const DataDir = "/data"

// BatteryManager status codes as printed by dumpsys battery.
const (
	batteryStatusUnknown     = 1
	batteryStatusCharging    = 2
	batteryStatusDischarging = 3
	batteryStatusNotCharging = 4
	batteryStatusFull        = 5
)

// baseDensityDPI is the DPI at which one density-independent pixel equals
// one physical pixel.
const baseDensityDPI = 160.0

const (
	cmdCPUOnline = "cat /sys/devices/system/cpu/online"
	cmdMeminfo   = "cat /proc/meminfo"
	cmdStorage   = "df -k " + DataDir
	cmdModel     = "getprop ro.product.manufacturer; getprop ro.product.model"
	cmdThermal   = "dumpsys thermalservice"
	cmdLowPower  = "settings get global low_power"
	cmdBattery   = "dumpsys battery"
	cmdDisplay   = "wm size; wm density"
	cmdMaxFreq   = "cat /sys/devices/system/cpu/cpu[0-9]*/cpufreq/cpuinfo_max_freq 2>/dev/null; true"
)

// Source answers device queries through an Android shell.
type Source struct {
	runner probe.Runner
	kv     *file.Parser
}

// New returns a Source that runs its queries through r.
func New(r probe.Runner) *Source {
	return &Source{
		runner: r,
		kv:     file.NewParser(file.WithKVDelimiter(":")),
	}
}

var _ probe.Source = (*Source)(nil)

// Platform implements probe.Source.
func (s *Source) Platform() snapshot.Platform {
	return snapshot.PlatformAndroid
}

func (s *Source) sh(ctx context.Context, script string) (string, error) {
	out, err := s.runner.Run(ctx, "sh", "-c", script)
	if err != nil {
		return "", fmt.Errorf("failed to run %q: %w", script, err)
	}
	return out, nil
}

// CPUCores implements probe.Source.
func (s *Source) CPUCores(ctx context.Context) (int, error) {
	out, err := s.sh(ctx, cmdCPUOnline)
	if err != nil {
		return 0, err
	}
	return probe.CountCPURange(out)
}

// Memory implements probe.Source. Used memory is system-wide
// MemTotal - MemAvailable. Kernels without MemAvailable fall back to
// MemFree + Buffers + Cached.
func (s *Source) Memory(ctx context.Context) (probe.Memory, error) {
	out, err := s.sh(ctx, cmdMeminfo)
	if err != nil {
		return probe.Memory{}, err
	}
	return parseMeminfo(s.kv.ParseMap(out))
}

func parseMeminfo(m map[string]string) (probe.Memory, error) {
	total, err := probe.ParseKB(m["MemTotal"])
	if err != nil {
		return probe.Memory{}, fmt.Errorf("MemTotal: %w", err)
	}

	avail, err := probe.ParseKB(m["MemAvailable"])
	if err != nil {
		var sum int64
		for _, k := range []string{"MemFree", "Buffers", "Cached"} {
			v, kerr := probe.ParseKB(m[k])
			if kerr != nil {
				return probe.Memory{}, fmt.Errorf("%s: %w", k, kerr)
			}
			sum += v
		}
		avail = sum
	}

	used := total - avail
	if used < 0 {
		used = 0
	}
	return probe.Memory{TotalBytes: total, UsedBytes: used}, nil
}

// Storage implements probe.Source for the /data filesystem.
func (s *Source) Storage(ctx context.Context) (probe.Storage, error) {
	out, err := s.sh(ctx, cmdStorage)
	if err != nil {
		return probe.Storage{}, err
	}
	return parseDF(out)
}

// parseDF reads "df -k" output. Long filesystem names may wrap the data row
// onto a second line, so all fields after the header are joined.
func parseDF(out string) (probe.Storage, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return probe.Storage{}, fmt.Errorf("unexpected df output: %q", out)
	}
	fields := strings.Fields(strings.Join(lines[1:], " "))
	if len(fields) < 6 {
		return probe.Storage{}, fmt.Errorf("unexpected df row: %q", strings.Join(lines[1:], " "))
	}

	blocks, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return probe.Storage{}, fmt.Errorf("invalid df size %q: %w", fields[1], err)
	}
	avail, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return probe.Storage{}, fmt.Errorf("invalid df available %q: %w", fields[3], err)
	}
	return probe.Storage{TotalBytes: blocks * 1024, FreeBytes: avail * 1024}, nil
}

var _ probe.Checker = (*Source)(nil)

// Ready implements probe.Checker. A device that cannot answer a single
// getprop is absent, offline or unauthorized.
func (s *Source) Ready(ctx context.Context) error {
	out, err := s.runner.Run(ctx, "getprop", "ro.build.version.sdk")
	if err != nil {
		return fmt.Errorf("android device unavailable: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return errors.New("android device unavailable: empty getprop reply")
	}
	return nil
}

// SDKLevel implements probe.Source.
func (s *Source) SDKLevel(ctx context.Context) (int, error) {
	out, err := s.runner.Run(ctx, "getprop", "ro.build.version.sdk")
	if err != nil {
		return 0, fmt.Errorf("failed to read sdk level: %w", err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("invalid sdk level %q: %w", out, err)
	}
	return v, nil
}

// DeviceModel implements probe.Source as "<manufacturer> <model>".
func (s *Source) DeviceModel(ctx context.Context) (string, error) {
	out, err := s.sh(ctx, cmdModel)
	if err != nil {
		return "", err
	}
	lines := file.NewParser().ParseLines(out)
	if len(lines) == 0 {
		return "", fmt.Errorf("empty device model")
	}
	return strings.Join(lines, " "), nil
}

// ThermalState implements probe.Source. Devices below SDK 29 have no thermal
// status API and report normal.
func (s *Source) ThermalState(ctx context.Context) (snapshot.ThermalState, error) {
	sdk, err := s.SDKLevel(ctx)
	if err != nil {
		return snapshot.ThermalNormal, err
	}
	if sdk < ThermalAPILevel {
		return snapshot.ThermalNormal, nil
	}

	out, err := s.sh(ctx, cmdThermal)
	if err != nil {
		return snapshot.ThermalNormal, err
	}
	return parseThermalStatus(s.kv.ParseMap(out))
}

func parseThermalStatus(m map[string]string) (snapshot.ThermalState, error) {
	raw, ok := m["Thermal Status"]
	if !ok {
		return snapshot.ThermalNormal, fmt.Errorf("thermal status not reported")
	}
	status, err := strconv.Atoi(raw)
	if err != nil {
		return snapshot.ThermalNormal, fmt.Errorf("invalid thermal status %q: %w", raw, err)
	}
	return snapshot.FromAndroidThermalStatus(status), nil
}

// LowPowerMode implements probe.Source.
func (s *Source) LowPowerMode(ctx context.Context) (bool, error) {
	out, err := s.sh(ctx, cmdLowPower)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "1", nil
}

// Battery implements probe.Source. Missing level or scale entries are
// reported as the -1 sentinel.
func (s *Source) Battery(ctx context.Context) (probe.Battery, error) {
	out, err := s.sh(ctx, cmdBattery)
	if err != nil {
		return probe.Battery{}, err
	}
	return parseBattery(s.kv.ParseMap(out)), nil
}

func parseBattery(m map[string]string) probe.Battery {
	intOr := func(key string, def int) int {
		v, err := strconv.Atoi(m[key])
		if err != nil {
			return def
		}
		return v
	}

	b := probe.Battery{
		Level: intOr("level", -1),
		Scale: intOr("scale", -1),
	}
	switch intOr("status", batteryStatusUnknown) {
	case batteryStatusCharging:
		b.Status = probe.ChargeCharging
	case batteryStatusDischarging:
		b.Status = probe.ChargeDischarging
	case batteryStatusNotCharging:
		b.Status = probe.ChargeNotCharging
	case batteryStatusFull:
		b.Status = probe.ChargeFull
	default:
		b.Status = probe.ChargeUnknown
	}
	return b
}

// Display implements probe.Source with the real (override-aware) size in
// physical pixels.
func (s *Source) Display(ctx context.Context) (probe.Display, error) {
	out, err := s.sh(ctx, cmdDisplay)
	if err != nil {
		return probe.Display{}, err
	}
	return parseDisplay(s.kv.ParseMap(out))
}

func parseDisplay(m map[string]string) (probe.Display, error) {
	size := m["Override size"]
	if size == "" {
		size = m["Physical size"]
	}
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return probe.Display{}, fmt.Errorf("display size not reported")
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return probe.Display{}, fmt.Errorf("invalid display width %q: %w", w, err)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return probe.Display{}, fmt.Errorf("invalid display height %q: %w", h, err)
	}

	d := probe.Display{Width: width, Height: height}

	dpi := m["Override density"]
	if dpi == "" {
		dpi = m["Physical density"]
	}
	if v, err := strconv.ParseFloat(dpi, 64); err == nil && v > 0 {
		d.Scale = v / baseDensityDPI
	}
	return d, nil
}

// MaxCPUFrequencyMHz implements probe.Source as the maximum cpuinfo_max_freq
// across all cores.
func (s *Source) MaxCPUFrequencyMHz(ctx context.Context) (int64, error) {
	out, err := s.sh(ctx, cmdMaxFreq)
	if err != nil {
		return 0, err
	}
	return probe.MaxFrequencyMHz(strings.Split(out, "\n"))
}

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

//go:build darwin

package host

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"

	"github.com/NVIDIA/device-capability/pkg/collector/file"
	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

var _ probe.Source = (*Source)(nil)

func newPlatformSource(s *Source) (probe.Source, error) {
	s.platform = snapshot.PlatformDarwin
	return s, nil
}

// Memory implements probe.Source. Used is the resident set size of this
// process, not system-wide usage.
func (s *Source) Memory(ctx context.Context) (probe.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return probe.Memory{}, fmt.Errorf("failed to read virtual memory: %w", err)
	}

	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return probe.Memory{}, fmt.Errorf("failed to open own process: %w", err)
	}
	mi, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return probe.Memory{}, fmt.Errorf("failed to read resident size: %w", err)
	}

	return probe.Memory{
		TotalBytes: clampInt64(vm.Total),
		UsedBytes:  clampInt64(mi.RSS),
	}, nil
}

// DeviceModel implements probe.Source with the hardware model identifier,
// for example "MacBookPro18,3".
func (s *Source) DeviceModel(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	model, err := unix.Sysctl("hw.model")
	if err != nil {
		return "", fmt.Errorf("sysctl hw.model: %w", err)
	}
	return model, nil
}

// ThermalState implements probe.Source from the CPU speed limit reported by
// pmset. No recorded limit means no throttling.
func (s *Source) ThermalState(ctx context.Context) (snapshot.ThermalState, error) {
	out, err := s.runner.Run(ctx, "pmset", "-g", "therm")
	if err != nil {
		return snapshot.ThermalNormal, err
	}
	return parseTherm(out)
}

func parseTherm(out string) (snapshot.ThermalState, error) {
	m := file.NewParser().ParseMap(out)
	raw, ok := m["CPU_Speed_Limit"]
	if !ok {
		return snapshot.ThermalNormal, nil
	}
	pct, err := strconv.Atoi(raw)
	if err != nil {
		return snapshot.ThermalNormal, fmt.Errorf("invalid CPU_Speed_Limit %q: %w", raw, err)
	}
	return snapshot.FromCPUSpeedLimit(pct), nil
}

// LowPowerMode implements probe.Source from the pmset lowpowermode setting.
func (s *Source) LowPowerMode(ctx context.Context) (bool, error) {
	out, err := s.runner.Run(ctx, "pmset", "-g")
	if err != nil {
		return false, err
	}
	return parseLowPowerMode(out)
}

func parseLowPowerMode(out string) (bool, error) {
	for _, line := range file.NewParser().ParseLines(out) {
		fields := strings.Fields(line)
		if len(fields) == 2 && (fields[0] == "lowpowermode" || fields[0] == "powermode") {
			return fields[1] == "1", nil
		}
	}
	return false, fmt.Errorf("lowpowermode not reported: %w", probe.ErrUnsupported)
}

var battRe = regexp.MustCompile(`InternalBattery[^\t]*\t(\d+)%;\s*([^;]+);`)

// Battery implements probe.Source from pmset -g batt.
func (s *Source) Battery(ctx context.Context) (probe.Battery, error) {
	out, err := s.runner.Run(ctx, "pmset", "-g", "batt")
	if err != nil {
		return probe.Battery{}, err
	}
	return parseBatt(out)
}

func parseBatt(out string) (probe.Battery, error) {
	m := battRe.FindStringSubmatch(out)
	if m == nil {
		return probe.Battery{}, fmt.Errorf("no internal battery: %w", probe.ErrUnsupported)
	}
	level, err := strconv.Atoi(m[1])
	if err != nil {
		level = -1
	}

	b := probe.Battery{Level: level, Scale: 100}
	switch strings.TrimSpace(m[2]) {
	case "charging", "finishing charge":
		b.Status = probe.ChargeCharging
	case "charged":
		b.Status = probe.ChargeFull
	case "discharging":
		b.Status = probe.ChargeDischarging
	case "AC attached":
		b.Status = probe.ChargeNotCharging
	}
	return b, nil
}

type spDisplays struct {
	Displays []struct {
		Drivers []struct {
			Pixels     string `json:"_spdisplays_pixels"`
			Resolution string `json:"_spdisplays_resolution"`
			Main       string `json:"spdisplays_main"`
		} `json:"spdisplays_ndrvs"`
	} `json:"SPDisplaysDataType"`
}

// Display implements probe.Source from system_profiler. The main display is
// reported in logical points with the backing scale factor.
func (s *Source) Display(ctx context.Context) (probe.Display, error) {
	out, err := s.runner.Run(ctx, "system_profiler", "SPDisplaysDataType", "-json")
	if err != nil {
		return probe.Display{}, err
	}
	return parseSPDisplays([]byte(out))
}

func parseSPDisplays(data []byte) (probe.Display, error) {
	var sp spDisplays
	if err := json.Unmarshal(data, &sp); err != nil {
		return probe.Display{}, fmt.Errorf("invalid system_profiler output: %w", err)
	}

	var first *probe.Display
	for _, gpu := range sp.Displays {
		for _, drv := range gpu.Drivers {
			pw, ph, perr := parseDims(drv.Pixels)
			if perr != nil {
				continue
			}
			d := probe.Display{Width: pw, Height: ph}
			if lw, lh, lerr := parseDims(drv.Resolution); lerr == nil && lw > 0 {
				d = probe.Display{Width: lw, Height: lh, Scale: pw / lw, Logical: true}
			}
			if drv.Main == "spdisplays_yes" {
				return d, nil
			}
			if first == nil {
				first = &d
			}
		}
	}
	if first == nil {
		return probe.Display{}, fmt.Errorf("no display reported: %w", probe.ErrUnsupported)
	}
	return *first, nil
}

// parseDims reads "3024 x 1964" and "1512 x 982 @ 120.00Hz".
func parseDims(s string) (float64, float64, error) {
	s, _, _ = strings.Cut(s, "@")
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid dimensions %q", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return 0, 0, err
	}
	hf := strings.Fields(h)
	if len(hf) == 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %q", s)
	}
	height, err := strconv.ParseFloat(hf[0], 64)
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// MaxCPUFrequencyMHz implements probe.Source. Intel Macs publish
// hw.cpufrequency_max. Apple silicon does not, so the clock comes from
// gopsutil cpu.Info, which reads the IOKit P-core frequency when built with
// cgo and otherwise reports none, making the probe unsupported.
func (s *Source) MaxCPUFrequencyMHz(ctx context.Context) (int64, error) {
	if hz, err := unix.SysctlUint64("hw.cpufrequency_max"); err == nil && hz > 0 {
		return int64(hz / 1_000_000), nil
	}
	return maxCPUInfoMHz(ctx)
}

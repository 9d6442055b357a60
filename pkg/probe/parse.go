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

package probe

import (
	"fmt"
	"strconv"
	"strings"
)

// CountCPURange counts the CPUs in a kernel cpu list such as "0-3,6,8-11",
// the format of /sys/devices/system/cpu/online.
func CountCPURange(list string) (int, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return 0, fmt.Errorf("empty cpu list")
	}

	count := 0
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(lo)
		if err != nil {
			return 0, fmt.Errorf("invalid cpu list entry %q: %w", part, err)
		}
		if !isRange {
			count++
			continue
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return 0, fmt.Errorf("invalid cpu list entry %q: %w", part, err)
		}
		if end < start {
			return 0, fmt.Errorf("invalid cpu list range %q", part)
		}
		count += end - start + 1
	}

	if count == 0 {
		return 0, fmt.Errorf("no cpus in list %q", list)
	}
	return count, nil
}

// MaxFrequencyMHz returns the largest of the given per-core maximum
// frequencies, in kHz as exposed by cpufreq, converted to MHz. Unparseable and
// non-positive entries are skipped. When nothing usable remains the error
// wraps ErrUnsupported.
func MaxFrequencyMHz(khz []string) (int64, error) {
	var best int64
	for _, s := range khz {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil || v <= 0 {
			continue
		}
		if v > best {
			best = v
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("no readable cpufreq entries: %w", ErrUnsupported)
	}
	return best / 1000, nil
}

// ParseChargeStatus maps a power_supply status string ("Charging",
// "Discharging", "Not charging", "Full") onto a ChargeStatus.
func ParseChargeStatus(s string) ChargeStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "charging":
		return ChargeCharging
	case "discharging":
		return ChargeDischarging
	case "not charging":
		return ChargeNotCharging
	case "full":
		return ChargeFull
	default:
		return ChargeUnknown
	}
}

// ParseKB parses a "<n> kB" value as found in /proc/meminfo into bytes.
func ParseKB(s string) (int64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty size value")
	}
	v, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", s, err)
	}
	if len(fields) > 1 && !strings.EqualFold(fields[1], "kB") {
		return 0, fmt.Errorf("unexpected unit in %q", s)
	}
	return v * 1024, nil
}

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
	"fmt"
	"strings"
)

// Platform identifies the host platform a snapshot was collected on.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
)

var supportedPlatforms = []Platform{
	PlatformAndroid,
	PlatformIOS,
	PlatformLinux,
	PlatformDarwin,
	PlatformWindows,
}

// SupportedPlatforms returns the list of known platforms.
func SupportedPlatforms() []Platform {
	out := make([]Platform, len(supportedPlatforms))
	copy(out, supportedPlatforms)
	return out
}

// ParsePlatform converts a string into a Platform, case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

// IsValid reports whether p is one of the known platforms.
func (p Platform) IsValid() bool {
	for _, sp := range supportedPlatforms {
		if p == sp {
			return true
		}
	}
	return false
}

// UsedRAMIsProcessRSS reports whether usedRamBytes on this platform is the
// resident set size of the querying process rather than system-wide usage.
func (p Platform) UsedRAMIsProcessRSS() bool {
	return p == PlatformDarwin || p == PlatformIOS
}

// Defaults applied to always-present fields when the platform query fails.
const (
	DefaultCPUCores      = 1
	DefaultDeviceModel   = "unknown"
	DefaultThermalState  = ThermalNormal
	DefaultBatteryLevel  = 0.0
	DefaultScreenDensity = 1.0
)

// Snapshot is a point-in-time record of device capabilities.
// Field order matches the wire order; nil pointer fields serialize as null.
type Snapshot struct {
	Platform            Platform     `json:"platform" yaml:"platform"`
	CPUCores            int          `json:"cpuCores" yaml:"cpuCores"`
	TotalRAMBytes       int64        `json:"totalRamBytes" yaml:"totalRamBytes"`
	UsedRAMBytes        int64        `json:"usedRamBytes" yaml:"usedRamBytes"`
	TotalStorageBytes   *int64       `json:"totalStorageBytes" yaml:"totalStorageBytes"`
	FreeStorageBytes    *int64       `json:"freeStorageBytes" yaml:"freeStorageBytes"`
	SDKLevel            *int         `json:"sdkLevel" yaml:"sdkLevel"`
	DeviceModel         string       `json:"deviceModel" yaml:"deviceModel"`
	ThermalState        ThermalState `json:"thermalState" yaml:"thermalState"`
	LowPowerModeEnabled bool         `json:"lowPowerModeEnabled" yaml:"lowPowerModeEnabled"`
	BatteryLevel        float64      `json:"batteryLevel" yaml:"batteryLevel"`
	IsCharging          bool         `json:"isCharging" yaml:"isCharging"`
	ScreenWidth         float64      `json:"screenWidth" yaml:"screenWidth"`
	ScreenHeight        float64      `json:"screenHeight" yaml:"screenHeight"`
	ScreenDensity       float64      `json:"screenDensity" yaml:"screenDensity"`
	ProcessorFrequency  *int64       `json:"processorFrequency" yaml:"processorFrequency"`
}

// New returns a snapshot for the platform with every always-present field
// set to its default and every optional field absent.
func New(p Platform) *Snapshot {
	return &Snapshot{
		Platform:      p,
		CPUCores:      DefaultCPUCores,
		DeviceModel:   DefaultDeviceModel,
		ThermalState:  DefaultThermalState,
		BatteryLevel:  DefaultBatteryLevel,
		ScreenDensity: DefaultScreenDensity,
	}
}

// HasStorage reports whether both storage fields are present.
func (s *Snapshot) HasStorage() bool {
	return s.TotalStorageBytes != nil && s.FreeStorageBytes != nil
}

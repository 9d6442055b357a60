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

// ThermalState is the normalized four-point thermal ordinal.
// It serializes as its integer value.
type ThermalState int

const (
	ThermalNormal   ThermalState = 0
	ThermalFair     ThermalState = 1
	ThermalSerious  ThermalState = 2
	ThermalCritical ThermalState = 3
)

var thermalNames = map[ThermalState]string{
	ThermalNormal:   "normal",
	ThermalFair:     "fair",
	ThermalSerious:  "serious",
	ThermalCritical: "critical",
}

// String returns the lowercase level name.
func (t ThermalState) String() string {
	if n, ok := thermalNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ThermalState(%d)", int(t))
}

// IsValid reports whether t is within [ThermalNormal, ThermalCritical].
func (t ThermalState) IsValid() bool {
	return t >= ThermalNormal && t <= ThermalCritical
}

// Max returns the more severe of t and o.
func (t ThermalState) Max(o ThermalState) ThermalState {
	if o > t {
		return o
	}
	return t
}

// ParseThermalState parses a level name ("normal", "fair", "serious",
// "critical"). iOS "nominal" is accepted as normal.
func ParseThermalState(s string) (ThermalState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "nominal":
		return ThermalNormal, nil
	case "fair":
		return ThermalFair, nil
	case "serious":
		return ThermalSerious, nil
	case "critical":
		return ThermalCritical, nil
	default:
		return ThermalNormal, fmt.Errorf("unknown thermal state %q", s)
	}
}

// Android PowerManager thermal status codes (API 29+).
const (
	AndroidThermalNone      = 0
	AndroidThermalLight     = 1
	AndroidThermalModerate  = 2
	AndroidThermalSevere    = 3
	AndroidThermalCritical  = 4
	AndroidThermalEmergency = 5
	AndroidThermalShutdown  = 6
)

// FromAndroidThermalStatus maps a PowerManager thermal status onto the
// ordinal. Levels collapse upward: light and moderate are fair; critical,
// emergency and shutdown are critical. Unrecognized codes are normal.
func FromAndroidThermalStatus(status int) ThermalState {
	switch status {
	case AndroidThermalLight, AndroidThermalModerate:
		return ThermalFair
	case AndroidThermalSevere:
		return ThermalSerious
	case AndroidThermalCritical, AndroidThermalEmergency, AndroidThermalShutdown:
		return ThermalCritical
	default:
		return ThermalNormal
	}
}

// FromIOSThermalState maps a ProcessInfo.ThermalState name onto the ordinal.
// Unknown names are normal.
func FromIOSThermalState(name string) ThermalState {
	t, err := ParseThermalState(name)
	if err != nil {
		return ThermalNormal
	}
	return t
}

// Linux thermal trip point types, as found in trip_point_N_type.
const (
	TripActive   = "active"
	TripPassive  = "passive"
	TripHot      = "hot"
	TripCritical = "critical"
)

// TripPoint is a thermal zone trip threshold in millidegrees Celsius.
type TripPoint struct {
	Type      string
	MilliTemp int64
}

// FromTripPoints maps a zone temperature onto the ordinal by comparing it to
// the zone's trip points: at or above critical is critical, at or above hot is
// serious, at or above passive is fair. Active (fan) trips are ignored.
// A zone with no usable trips is normal.
func FromTripPoints(milliTemp int64, trips []TripPoint) ThermalState {
	state := ThermalNormal
	for _, tp := range trips {
		if tp.MilliTemp <= 0 || milliTemp < tp.MilliTemp {
			continue
		}
		switch tp.Type {
		case TripCritical:
			state = state.Max(ThermalCritical)
		case TripHot:
			state = state.Max(ThermalSerious)
		case TripPassive:
			state = state.Max(ThermalFair)
		}
	}
	return state
}

// FromCPUSpeedLimit maps the darwin CPU_Speed_Limit percentage reported by
// pmset onto the ordinal. 100 means unthrottled.
func FromCPUSpeedLimit(pct int) ThermalState {
	switch {
	case pct >= 100:
		return ThermalNormal
	case pct >= 80:
		return ThermalFair
	case pct >= 50:
		return ThermalSerious
	default:
		return ThermalCritical
	}
}

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
	"context"
	"errors"

	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

// ErrUnsupported reports that the platform exposes no API for a fact.
var ErrUnsupported = errors.New("not supported on this platform")

// Memory is physical memory as reported by the platform.
// Used follows the platform's own definition (see snapshot package docs).
type Memory struct {
	TotalBytes int64
	UsedBytes  int64
}

// Storage describes the filesystem backing the primary data directory.
type Storage struct {
	TotalBytes int64
	FreeBytes  int64
}

// ChargeStatus is the battery charging status.
type ChargeStatus int

const (
	ChargeUnknown ChargeStatus = iota
	ChargeCharging
	ChargeDischarging
	ChargeNotCharging
	ChargeFull
)

var chargeNames = map[ChargeStatus]string{
	ChargeUnknown:     "unknown",
	ChargeCharging:    "charging",
	ChargeDischarging: "discharging",
	ChargeNotCharging: "not charging",
	ChargeFull:        "full",
}

func (c ChargeStatus) String() string {
	if n, ok := chargeNames[c]; ok {
		return n
	}
	return chargeNames[ChargeUnknown]
}

// Battery is a raw battery reading. Level is in units of Scale; a negative
// Level or a non-positive Scale is the platform's "unknown" sentinel.
type Battery struct {
	Level  int
	Scale  int
	Status ChargeStatus
}

// Valid reports whether Level and Scale form a usable fraction.
func (b Battery) Valid() bool {
	return b.Level >= 0 && b.Scale > 0
}

// Display is a raw main display reading. When Logical is set, Width and
// Height are in logical points and must be multiplied by Scale to obtain
// physical pixels; otherwise they are already physical pixels and Scale is
// the density.
type Display struct {
	Width   float64
	Height  float64
	Scale   float64
	Logical bool
}

// Source is the set of raw queries a platform answers.
// Every method must honor ctx and must release any OS resource it acquires
// before returning.
type Source interface {
	Platform() snapshot.Platform
	CPUCores(ctx context.Context) (int, error)
	Memory(ctx context.Context) (Memory, error)
	Storage(ctx context.Context) (Storage, error)
	SDKLevel(ctx context.Context) (int, error)
	DeviceModel(ctx context.Context) (string, error)
	ThermalState(ctx context.Context) (snapshot.ThermalState, error)
	LowPowerMode(ctx context.Context) (bool, error)
	Battery(ctx context.Context) (Battery, error)
	Display(ctx context.Context) (Display, error)
	MaxCPUFrequencyMHz(ctx context.Context) (int64, error)
}

// Checker is implemented by sources that can tell whether the platform is
// reachable at all. Ready returns an error when no query could succeed, for
// example when a tethered device is missing or unauthorized.
type Checker interface {
	Ready(ctx context.Context) error
}

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
	"fmt"
	"strings"

	"github.com/NVIDIA/device-capability/pkg/probe"
)

// Device is an entry of "adb devices -l".
type Device struct {
	Serial      string `json:"serial" yaml:"serial"`
	State       string `json:"state" yaml:"state"`
	Product     string `json:"product,omitempty" yaml:"product,omitempty"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
	Device      string `json:"device,omitempty" yaml:"device,omitempty"`
	TransportID string `json:"transportId,omitempty" yaml:"transportId,omitempty"`
}

// Online reports whether the device accepts shell commands.
func (d Device) Online() bool {
	return d.State == "device"
}

// ListDevices returns the devices known to the adb server.
func ListDevices(ctx context.Context, r probe.Runner, adbPath string) ([]Device, error) {
	if adbPath == "" {
		adbPath = DefaultADBPath
	}
	out, err := r.Run(ctx, adbPath, "devices", "-l")
	if err != nil {
		return nil, fmt.Errorf("failed to list adb devices: %w", err)
	}
	return parseDevices(out), nil
}

func parseDevices(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{Serial: fields[0], State: fields[1]}
		for _, f := range fields[2:] {
			k, v, ok := strings.Cut(f, ":")
			if !ok {
				continue
			}
			switch k {
			case "product":
				d.Product = v
			case "model":
				d.Model = v
			case "device":
				d.Device = v
			case "transport_id":
				d.TransportID = v
			}
		}
		devices = append(devices, d)
	}
	return devices
}

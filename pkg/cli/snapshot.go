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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/device-capability/pkg/defaults"
	"github.com/NVIDIA/device-capability/pkg/serializer"
)

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Capture a device capability snapshot",
		Description: `Capture a point-in-time record of device capabilities: CPU cores, RAM,
storage, OS level, device model, thermal state, power state, battery, display
and maximum CPU frequency.

Facts the platform cannot provide take their documented default (for example
thermalState 0, batteryLevel 0.0) or are written as null.

# Sources

  host     the machine devcap runs on (linux, darwin, windows)
  android  a tethered Android device, through adb

# Examples

Local host to stdout:
  devcap snapshot

Tethered phone to a YAML file:
  devcap snapshot --source android --adb-serial emulator-5554 -o pixel.yaml -f yaml

Publish to a ConfigMap:
  devcap snapshot --output cm://devcap/workstation

Push as an OCI artifact:
  devcap snapshot --format cbor --output oci://ghcr.io/acme/devcap/laptop:v1`,
		Flags: append(sourceFlags(),
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "overall timeout, publishing included",
				Value: defaults.CLISnapshotTimeout,
			},
			outputFlag(),
			formatFlag(serializer.FormatJSON),
			kubeconfigFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			d, err := newSnapshotter(cmd)
			if err != nil {
				return err
			}

			out, err := newOutput(cmd, outFormat)
			if err != nil {
				return err
			}
			defer closeOutput(out)
			d.Serializer = out

			ctx, cancel := context.WithTimeout(ctx, withDefaultTimeout(cmd.Duration("timeout"), defaults.CLISnapshotTimeout))
			defer cancel()

			if err := d.Measure(ctx); err != nil {
				return fmt.Errorf("snapshot failed: %w", err)
			}

			slog.Debug("snapshot written", "source", d.Source, "format", outFormat, "output", cmd.String("output"))
			return nil
		},
	}
}

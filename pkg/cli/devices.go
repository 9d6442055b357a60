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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/device-capability/pkg/collector/android"
	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/serializer"
)

func devicesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "devices",
		EnableShellCompletion: true,
		Usage:                 "List Android devices visible to adb",
		Description: `List the entries of "adb devices -l". Use the serial with
"devcap snapshot --source android --adb-serial <serial>".`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "adb-path",
				Usage:   "adb binary (default: adb on PATH)",
				Sources: cli.EnvVars("DEVCAP_ADB_PATH"),
			},
			outputFlag(),
			formatFlag(serializer.FormatTable),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			runner := commandRunner
			if runner == nil {
				runner = probe.ExecRunner{}
			}

			devices, err := android.ListDevices(ctx, runner, cmd.String("adb-path"))
			if err != nil {
				return err
			}
			if devices == nil {
				devices = []android.Device{}
			}

			out, err := newOutput(cmd, outFormat)
			if err != nil {
				return err
			}
			defer closeOutput(out)

			if err := out.Serialize(ctx, devices); err != nil {
				return fmt.Errorf("failed to serialize devices: %w", err)
			}
			return nil
		},
	}
}

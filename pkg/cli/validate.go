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
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/device-capability/pkg/serializer"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

// validationReport is the output of the validate command.
type validationReport struct {
	Source     string            `json:"source" yaml:"source"`
	Platform   snapshot.Platform `json:"platform" yaml:"platform"`
	Valid      bool              `json:"valid" yaml:"valid"`
	Violations []string          `json:"violations,omitempty" yaml:"violations,omitempty"`
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Check a snapshot against the snapshot contract",
		Description: `Load a snapshot and check every field: platform is known, cpuCores >= 1,
usedRamBytes <= totalRamBytes, storage fields present together, thermalState
0-3, batteryLevel in [0,1], screen density > 0 and so on.

Snapshots from any producer are accepted, including the iOS plugin (platform
ios). JSON, YAML and CBOR inputs are detected from the file extension or the
HTTP Content-Type.

# Examples

  devcap validate --snapshot pixel.yaml
  devcap validate --snapshot https://example.com/snapshots/iphone.json
  devcap validate --snapshot cm://devcap/workstation -f table`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "snapshot",
				Aliases:  []string{"s"},
				Required: true,
				Usage: `Path/URI to snapshot file.
	Supports: file paths, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name).`,
			},
			outputFlag(),
			formatFlag(serializer.FormatJSON),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			path := cmd.String("snapshot")
			slog.Info("loading snapshot", "uri", path)

			snap, err := serializer.FromFileWithKubeconfig[snapshot.Snapshot](ctx, path, cmd.String("kubeconfig"))
			if err != nil {
				return fmt.Errorf("failed to load snapshot from %q: %w", path, err)
			}

			report := validate(path, snap)

			out, err := newOutput(cmd, outFormat)
			if err != nil {
				return err
			}
			defer closeOutput(out)

			if err := out.Serialize(ctx, report); err != nil {
				return fmt.Errorf("failed to serialize validation result: %w", err)
			}

			if !report.Valid {
				return fmt.Errorf("snapshot %q is invalid: %d violation(s)", path, len(report.Violations))
			}
			return nil
		},
	}
}

func validate(source string, snap *snapshot.Snapshot) *validationReport {
	report := &validationReport{
		Source:   source,
		Platform: snap.Platform,
		Valid:    true,
	}

	err := snap.Validate()
	if err == nil {
		return report
	}

	report.Valid = false
	var verr *snapshot.ValidationError
	if errors.As(err, &verr) {
		report.Violations = verr.Violations
	} else {
		report.Violations = []string{err.Error()}
	}
	return report
}

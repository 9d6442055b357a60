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
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/device-capability/pkg/logging"
)

const (
	name           = "devcap"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		EnableShellCompletion: true,
		Usage:                 "Device capability snapshots",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Description: `devcap reads the capabilities of the machine it runs on, or of a tethered
Android device, into a single snapshot record.

snapshot - capture a snapshot and write it to a file, ConfigMap or OCI registry
summary  - render a snapshot as a human readable card
validate - check a snapshot file against the snapshot contract
devices  - list Android devices visible to adb`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// Configure slog after flags are parsed so --log-level takes effect
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			snapshotCmd(),
			summaryCmd(),
			validateCmd(),
			devicesCmd(),
		},
	}
}

// Execute runs the CLI with os.Args and exits non-zero on error.
// SIGINT and SIGTERM cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

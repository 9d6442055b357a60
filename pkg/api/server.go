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

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/NVIDIA/device-capability/pkg/collector"
	"github.com/NVIDIA/device-capability/pkg/logging"
	"github.com/NVIDIA/device-capability/pkg/server"
	"github.com/NVIDIA/device-capability/pkg/snapshotter"
)

const (
	name           = "devcapd"
	versionDefault = "dev"

	// SnapshotPath serves the device snapshot.
	SnapshotPath = "/v1/snapshot"

	EnvSource       = "DEVCAP_SOURCE"
	EnvADBSerial    = "DEVCAP_ADB_SERIAL"
	EnvADBPath      = "DEVCAP_ADB_PATH"
	EnvDataDir      = "DEVCAP_DATA_DIR"
	EnvProbeTimeout = "DEVCAP_PROBE_TIMEOUT"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/device-capability/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// It configures logging, sets up routes, and handles graceful shutdown.
// Returns an error if the configuration is invalid, the server fails to
// start or encounters a fatal error.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	d, err := newSnapshotter(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	// Create and run server
	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(routes(d)),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

func routes(d *snapshotter.DeviceSnapshotter) map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		SnapshotPath: d.Handle,
	}
}

// newSnapshotter builds the snapshotter from DEVCAP_* variables.
func newSnapshotter(getenv func(string) string) (*snapshotter.DeviceSnapshotter, error) {
	source, err := collector.ParseSourceKind(getenv(EnvSource))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvSource, err)
	}

	opts := []collector.FactoryOption{
		collector.WithADBSerial(getenv(EnvADBSerial)),
		collector.WithADBPath(getenv(EnvADBPath)),
		collector.WithDataDir(getenv(EnvDataDir)),
	}

	if v := getenv(EnvProbeTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("%s: invalid duration %q", EnvProbeTimeout, v)
		}
		opts = append(opts, collector.WithFactoryProbeTimeout(timeout))
	}

	slog.Debug("snapshot source configured",
		"source", source,
		"adbSerial", getenv(EnvADBSerial),
		"dataDir", getenv(EnvDataDir))

	return &snapshotter.DeviceSnapshotter{
		Source:  source,
		Factory: collector.NewDefaultFactory(opts...),
	}, nil
}

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

// Package api wires the devcapd HTTP service.
//
// Serve configures structured logging, builds a snapshotter from the
// environment and runs pkg/server with the snapshot route:
//
//	GET /v1/snapshot
//
// # Usage
//
//	package main
//
//	import (
//	    "log"
//
//	    "github.com/NVIDIA/device-capability/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Configuration
//
//   - DEVCAP_SOURCE: host (default) or android
//   - DEVCAP_ADB_SERIAL: Android device serial when several are attached
//   - DEVCAP_ADB_PATH: adb binary (default "adb")
//   - DEVCAP_DATA_DIR: directory whose filesystem is reported as storage
//   - DEVCAP_PROBE_TIMEOUT: per-probe timeout, e.g. "2s"
//   - LOG_LEVEL: debug, info, warn or error
//
// PORT and SHUTDOWN_TIMEOUT_SECONDS are read by pkg/server.
//
// # Version Information
//
// Version, commit and build date are set at link time:
//
//	go build -ldflags="-X 'github.com/NVIDIA/device-capability/pkg/api.version=1.0.0'"
package api

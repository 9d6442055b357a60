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

// Package cli implements the devcap command-line interface.
//
// # Commands
//
// snapshot - Capture a device capability snapshot:
//
//	devcap snapshot [--source host|android] [--output <dest>] [--format json|yaml|table|cbor]
//
// Destinations are a file path, cm://namespace/name (Kubernetes ConfigMap) or
// oci://registry/repository[:tag] (OCI artifact). Without --output the
// snapshot goes to stdout.
//
// summary - Render a snapshot as a card:
//
//	devcap summary [--snapshot <file|url|cm://ns/name>]
//
// validate - Check a snapshot against the snapshot contract:
//
//	devcap validate --snapshot <file|url|cm://ns/name>
//
// devices - List Android devices visible to adb:
//
//	devcap devices
//
// # Source Flags
//
//	--source          host (default) or android      DEVCAP_SOURCE
//	--adb-serial      device serial                  DEVCAP_ADB_SERIAL
//	--adb-path        adb binary                     DEVCAP_ADB_PATH
//	--data-dir        storage directory (host)       DEVCAP_DATA_DIR
//	--probe-timeout   per-probe timeout              DEVCAP_PROBE_TIMEOUT
//
// # Global Flags
//
//	--log-level   debug, info, warn, error (LOG_LEVEL)
//	--help, -h    Show command help
//	--version, -v Show version information
//
// Logs are JSON on stderr, so stdout carries only command output.
package cli

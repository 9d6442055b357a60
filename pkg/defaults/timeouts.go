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

package defaults

import "time"

// Collector timeouts for device capability collection.
const (
	// CollectorTimeout bounds a whole snapshot query when the caller
	// supplies no deadline of its own.
	CollectorTimeout = 10 * time.Second

	// ProbeTimeout bounds a single sub-query (memory, battery, display, ...).
	// Expiry is treated like any other sub-query failure.
	ProbeTimeout = 3 * time.Second

	// ADBProbeTimeout bounds a single sub-query against a tethered Android
	// device. dumpsys over USB is noticeably slower than local reads.
	ADBProbeTimeout = 5 * time.Second

	// CommandTimeout bounds a single external command (adb, pmset,
	// system_profiler) when the caller context has no earlier deadline.
	CommandTimeout = 8 * time.Second
)

// Handler timeouts for HTTP request processing.
const (
	// SnapshotHandlerTimeout is the timeout for GET /v1/snapshot.
	// Must exceed the slowest probe timeout so soft failures can still be
	// assembled into a response.
	SnapshotHandlerTimeout = 15 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Publishing timeouts for snapshot destinations.
const (
	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second

	// OCIPushTimeout is the timeout for pushing a snapshot artifact to a registry.
	OCIPushTimeout = 2 * time.Minute
)

// CLI timeouts for command-line operations.
const (
	// CLISnapshotTimeout is the default timeout for the snapshot command,
	// publishing included.
	CLISnapshotTimeout = 5 * time.Minute
)

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

// Package defaults provides centralized configuration constants for devcap.
//
// Timeouts are organized by component:
//
//   - Collector timeouts: whole-query and per-probe bounds
//   - Handler timeouts: HTTP request processing
//   - Server timeouts: HTTP server configuration
//   - HTTP client timeouts: outbound requests (remote snapshot files)
//   - Publishing timeouts: ConfigMap and OCI destinations
//
// Import and use constants directly:
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ProbeTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Probes: 3s local, 5s over adb; expiry degrades a field, never the query
//   - Snapshot handler: larger than any probe timeout
//   - Server shutdown: 30s for graceful shutdown
package defaults

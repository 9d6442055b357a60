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

// Package server implements the HTTP front end of the device capability
// daemon.
//
// # Endpoints
//
//   - GET /v1/snapshot: a fresh device snapshot (registered by pkg/api)
//   - GET /health: liveness
//   - GET /ready: readiness; 503 before listening and during shutdown
//   - GET /metrics: Prometheus metrics
//   - GET /: name, version and route list
//
// Routes passed through WithHandler run behind a middleware chain of
// metrics, API version negotiation, request IDs, panic recovery, token
// bucket rate limiting (golang.org/x/time/rate) and request logging.
// System routes skip it.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("devcapd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/snapshot": h.ServeHTTP,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run returns after SIGINT, SIGTERM or cancellation of ctx once in-flight
// requests finish or SHUTDOWN_TIMEOUT_SECONDS elapses. Under systemd
// (Type=notify) it reports READY=1 and STOPPING=1.
//
// # Configuration
//
//   - PORT: listening port (default 8080)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown budget (default 30)
//
// # Errors
//
// Error replies share one JSON shape:
//
//	{
//	  "code": "TIMEOUT",
//	  "message": "Failed to collect device info",
//	  "details": {"error": "context deadline exceeded"},
//	  "requestId": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
//	  "timestamp": "2026-01-01T00:00:00Z",
//	  "retryable": true
//	}
//
// WriteErrorFromErr derives status and code from pkg/errors structured
// errors.
package server

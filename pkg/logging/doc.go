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

// Package logging configures structured logging for the devcap binaries.
//
// Logs are written to stderr as JSON using log/slog. Every record carries the
// module name and version so output from the CLI and the daemon can be told
// apart when collected centrally.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: diagnostic detail, including source location
//   - INFO: general operational messages (default)
//   - WARN/WARNING: degraded but recoverable conditions, such as a probe
//     falling back to its default value
//   - ERROR: failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("devcapd", version)
//	    slog.Info("starting", "port", 8080)
//	}
//
// Explicit level (for example from a --log-level flag):
//
//	logging.SetDefaultStructuredLoggerWithLevel("devcap", version, "debug")
//
// Adapting code that expects a *log.Logger:
//
//	stdLogger := logging.NewLogLogger(slog.LevelWarn, false)
//
// # Environment Configuration
//
// LOG_LEVEL controls verbosity when no explicit level is given:
//
//	LOG_LEVEL=debug devcap snapshot
package logging

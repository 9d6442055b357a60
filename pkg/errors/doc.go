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

// Package errors provides structured error types shared by the collector,
// the CLI, and the HTTP server.
//
// A StructuredError carries a stable ErrorCode that callers can switch on, a
// human readable message, the underlying cause, and optional key/value context.
// Collection failures that escape a snapshot query are reported as
// StructuredError values so every shim can translate them without inventing
// codes of its own:
//
//	snap, err := c.Collect(ctx)
//	if err != nil {
//	    code := errors.CodeOf(err) // INTERNAL, TIMEOUT, ...
//	    ...
//	}
//
// Creating errors:
//
//	err := errors.New(errors.ErrCodeInvalidRequest, "unknown source")
//	err := errors.Wrap(errors.ErrCodeInternal, "Failed to collect device info", cause)
//	err := errors.WrapWithContext(errors.ErrCodeTimeout, "probe timed out", cause,
//	    map[string]any{"probe": "battery"})
//
// StructuredError implements Unwrap, so errors.Is and errors.As from the
// standard library work through it.
package errors

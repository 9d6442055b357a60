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

// Package probe defines the raw, platform-specific view of device facts.
//
// A Source answers one question per method and reports failure honestly:
// an error for a failed query, ErrUnsupported for a fact the platform has no
// API for. Sources never apply defaults; the collector package turns raw
// readings into a normalized snapshot.
//
// Raw readings keep the platform's native shape where normalization rules
// depend on it: battery level and scale are reported separately so the
// sentinel check stays in one place, and display sizes carry a flag telling
// whether they are logical points that still need scaling.
package probe

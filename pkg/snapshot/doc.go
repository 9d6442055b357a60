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

// Package snapshot defines the normalized device capability record.
//
// A Snapshot is built fresh for every query and never mutated afterwards.
// Fields fall into two groups:
//
//   - always present: carry a defined value even when the underlying
//     platform query failed (see the Default* constants)
//   - present or absent: pointer fields, nil when the platform has no
//     such fact or the query failed; serialized as an explicit null
//
// Used RAM is not unified across platforms. Android, Linux and Windows
// report system-wide total minus available; darwin and iOS report the
// resident set size of the querying process.
//
// Thermal levels from every platform are mapped onto the four-point
// ThermalState ordinal. The mappings in thermal.go are monotonic: a more
// severe native level never maps to a less severe ThermalState.
package snapshot

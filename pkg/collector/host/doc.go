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

// Package host reads device capabilities of the machine the binary runs on.
//
// The platform implementation is selected at build time:
//
//	linux (not android)  gopsutil, sysfs thermal zones, power_supply, drm, cpufreq
//	darwin               gopsutil, sysctl, pmset, system_profiler
//	windows              gopsutil, BIOS registry keys, kernel32, user32
//	android              the android package through a local shell
//
// Other operating systems have no source; New returns ErrUnsupportedHost.
//
// Storage is reported for the filesystem holding the configured data
// directory, the user's home directory by default.
package host

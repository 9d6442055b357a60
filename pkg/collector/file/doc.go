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

// Package file parses the line-oriented text that device facts arrive in.
//
// The same Parser handles files read from sysfs/procfs and command output
// captured from a device shell, for example:
//
//	p := file.NewParser(file.WithKVDelimiter(":"))
//	m := p.ParseMap(dumpsysBatteryOutput) // level -> 73, scale -> 100, ...
//
//	m, err := p.GetMap("/proc/meminfo")
//
// Single-value sysfs attributes are read with ReadString and ReadInt:
//
//	khz, err := file.ReadInt("/sys/devices/system/cpu/cpu0/cpufreq/cpuinfo_max_freq")
//
// Files larger than the configured maximum (1MB by default) or containing
// invalid UTF-8 are rejected. Functions in this package are safe for
// concurrent use.
package file

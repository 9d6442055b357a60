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

// Package collector turns raw platform readings into a normalized device
// capability snapshot.
//
// # Overview
//
// A Collector queries a probe.Source once per field, concurrently, each under
// its own timeout. Readings are validated and normalized into a
// snapshot.Snapshot. A probe that fails, times out, or returns an implausible
// value leaves the documented default in place; the failure is logged and
// counted in devcap_probe_fallbacks_total but never surfaces to the caller.
//
// Only two conditions fail Collect:
//   - a probe panics, or no platform source exists, reported as a
//     CollectionError (code INTERNAL, message "Failed to collect device info")
//   - the caller's context ends, reported as TIMEOUT or INTERNAL
//
// # Usage
//
//	factory := collector.NewDefaultFactory()
//	c := factory.CreateHostCollector()
//
//	ctx, cancel := context.WithTimeout(context.Background(), defaults.CollectorTimeout)
//	defer cancel()
//
//	snap, err := c.Collect(ctx)
//	if err != nil {
//	    return err
//	}
//
// Android devices are read over adb:
//
//	factory := collector.NewDefaultFactory(collector.WithADBSerial("emulator-5554"))
//	snap, err := factory.CreateAndroidCollector().Collect(ctx)
//
// # Subpackages
//
//   - collector/host - the local machine (linux, darwin, windows)
//   - collector/android - a tethered Android device over adb
//   - collector/file - key/value and line parsers shared by sources
package collector

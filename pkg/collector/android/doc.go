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

// Package android reads device capabilities from an Android device.
//
// Every fact is obtained through the device shell, either over adb for a
// tethered device or through a local shell when the binary itself runs on
// Android:
//
//	CPU cores           /sys/devices/system/cpu/online
//	memory              /proc/meminfo (used = MemTotal - MemAvailable)
//	storage             df -k /data
//	SDK level           getprop ro.build.version.sdk
//	device model        getprop ro.product.manufacturer + ro.product.model
//	thermal state       dumpsys thermalservice (SDK 29+, normal before)
//	low power mode      settings get global low_power
//	battery             dumpsys battery
//	display             wm size, wm density (density = dpi / 160)
//	max CPU frequency   cpu*/cpufreq/cpuinfo_max_freq
//
// Usage:
//
//	src := android.New(android.NewADBRunner("adb", "emulator-5554"))
//	snap, err := collector.New(src).Collect(ctx)
package android

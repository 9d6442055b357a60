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

package collector

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/NVIDIA/device-capability/pkg/collector/android"
	"github.com/NVIDIA/device-capability/pkg/collector/host"
	"github.com/NVIDIA/device-capability/pkg/defaults"
	"github.com/NVIDIA/device-capability/pkg/probe"
)

// SourceKind selects where device facts are read from.
type SourceKind string

const (
	// SourceHost reads the machine the binary runs on.
	SourceHost SourceKind = "host"
	// SourceAndroid reads a tethered Android device over adb.
	SourceAndroid SourceKind = "android"
)

// SupportedSourceKinds returns the accepted source kinds.
func SupportedSourceKinds() []string {
	return []string{string(SourceHost), string(SourceAndroid)}
}

// ParseSourceKind converts a string into a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	switch k := SourceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case SourceHost, SourceAndroid:
		return k, nil
	case "":
		return SourceHost, nil
	default:
		return "", fmt.Errorf("unknown source %q, supported: %s", s,
			strings.Join(SupportedSourceKinds(), ", "))
	}
}

// Factory creates collectors for each source kind.
type Factory interface {
	CreateHostCollector() Collector
	CreateAndroidCollector() Collector
}

// FactoryOption configures a DefaultFactory.
type FactoryOption func(*DefaultFactory)

// WithDataDir sets the directory whose filesystem is reported as storage on
// the host. Defaults to the user's home directory.
func WithDataDir(dir string) FactoryOption {
	return func(f *DefaultFactory) {
		f.DataDir = dir
	}
}

// WithADBPath sets the adb binary used for Android sources.
// Empty keeps the default.
func WithADBPath(path string) FactoryOption {
	return func(f *DefaultFactory) {
		if path != "" {
			f.ADBPath = path
		}
	}
}

// WithADBSerial selects the Android device by serial.
// Empty means the only attached device.
func WithADBSerial(serial string) FactoryOption {
	return func(f *DefaultFactory) {
		f.ADBSerial = serial
	}
}

// WithFactoryProbeTimeout sets the per-probe timeout of created collectors.
// Zero keeps the per-source default.
func WithFactoryProbeTimeout(d time.Duration) FactoryOption {
	return func(f *DefaultFactory) {
		f.ProbeTimeout = d
	}
}

// WithRunner replaces the command runner, mainly for tests.
func WithRunner(r probe.Runner) FactoryOption {
	return func(f *DefaultFactory) {
		f.Runner = r
	}
}

// DefaultFactory creates collectors with production dependencies.
type DefaultFactory struct {
	DataDir      string
	ADBPath      string
	ADBSerial    string
	ProbeTimeout time.Duration
	Runner       probe.Runner
}

// NewDefaultFactory creates a factory with default settings.
func NewDefaultFactory(opts ...FactoryOption) *DefaultFactory {
	f := &DefaultFactory{
		ADBPath: android.DefaultADBPath,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns the collector for the given source kind.
func (f *DefaultFactory) Create(kind SourceKind) (Collector, error) {
	switch kind {
	case SourceHost, "":
		return f.CreateHostCollector(), nil
	case SourceAndroid:
		return f.CreateAndroidCollector(), nil
	default:
		return nil, fmt.Errorf("unknown source %q", kind)
	}
}

// CreateHostCollector creates a collector for the local machine. On hosts
// without a platform source the returned collector fails every Collect.
func (f *DefaultFactory) CreateHostCollector() Collector {
	runner := f.Runner
	if runner == nil {
		runner = probe.ExecRunner{}
	}

	src, err := host.New(host.WithDataDir(f.DataDir), host.WithRunner(runner))
	if err != nil {
		slog.Warn("host platform source unavailable", "error", err)
		return New(nil)
	}
	return New(src, WithProbeTimeout(f.probeTimeout(defaults.ProbeTimeout)))
}

// CreateAndroidCollector creates a collector for a tethered Android device.
func (f *DefaultFactory) CreateAndroidCollector() Collector {
	runner := f.Runner
	if runner == nil {
		runner = android.NewADBRunner(f.ADBPath, f.ADBSerial)
	}
	return New(android.New(runner), WithProbeTimeout(f.probeTimeout(defaults.ADBProbeTimeout)))
}

func (f *DefaultFactory) probeTimeout(def time.Duration) time.Duration {
	if f.ProbeTimeout > 0 {
		return f.ProbeTimeout
	}
	return def
}

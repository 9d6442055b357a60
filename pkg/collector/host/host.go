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

package host

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

// ErrUnsupportedHost is returned by New on operating systems without a source.
var ErrUnsupportedHost = errors.New("unsupported host operating system")

// Option configures a host Source.
type Option func(*Source)

// WithDataDir sets the directory whose filesystem is reported as storage.
func WithDataDir(dir string) Option {
	return func(s *Source) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithRunner sets the runner used for external commands.
func WithRunner(r probe.Runner) Option {
	return func(s *Source) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithSysRoot prefixes every sysfs and procfs path. Used with synthetic trees.
func WithSysRoot(root string) Option {
	return func(s *Source) {
		s.sysRoot = root
	}
}

// Source answers device queries for the local host.
type Source struct {
	platform snapshot.Platform
	dataDir  string
	sysRoot  string
	runner   probe.Runner
}

// New returns the source for the current operating system.
func New(opts ...Option) (probe.Source, error) {
	s := &Source{
		runner: probe.ExecRunner{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dataDir == "" {
		s.dataDir = defaultDataDir()
	}
	return newPlatformSource(s)
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// Platform implements probe.Source.
func (s *Source) Platform() snapshot.Platform {
	return s.platform
}

// CPUCores implements probe.Source with the logical processor count.
func (s *Source) CPUCores(ctx context.Context) (int, error) {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to count cpus: %w", err)
	}
	return n, nil
}

// Storage implements probe.Source for the data directory's filesystem.
// Free is the space available to unprivileged users.
func (s *Source) Storage(ctx context.Context) (probe.Storage, error) {
	u, err := disk.UsageWithContext(ctx, s.dataDir)
	if err != nil {
		return probe.Storage{}, fmt.Errorf("failed to stat %q: %w", s.dataDir, err)
	}
	return probe.Storage{
		TotalBytes: clampInt64(u.Total),
		FreeBytes:  clampInt64(u.Free),
	}, nil
}

// SDKLevel implements probe.Source. Desktop platforms have no SDK level.
func (s *Source) SDKLevel(context.Context) (int, error) {
	return 0, probe.ErrUnsupported
}

// maxCPUInfoMHz returns the highest clock reported by gopsutil across
// processors.
func maxCPUInfoMHz(ctx context.Context) (int64, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read cpu info: %w", err)
	}
	var best float64
	for _, i := range infos {
		best = math.Max(best, i.Mhz)
	}
	if best <= 0 {
		return 0, fmt.Errorf("cpu info has no clock speed: %w", probe.ErrUnsupported)
	}
	return int64(best), nil
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

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

package android

import (
	"context"
	"strings"

	"github.com/NVIDIA/device-capability/pkg/probe"
)

// DefaultADBPath is the adb binary looked up on PATH.
const DefaultADBPath = "adb"

// ADBRunner runs commands in the shell of a device attached over adb.
type ADBRunner struct {
	// Path is the adb binary.
	Path string
	// Serial selects the device; empty means the only attached device.
	Serial string
	// Exec runs adb itself on the host.
	Exec probe.Runner
}

// NewADBRunner returns a runner for the device with the given serial.
func NewADBRunner(path, serial string) *ADBRunner {
	if path == "" {
		path = DefaultADBPath
	}
	return &ADBRunner{
		Path:   path,
		Serial: serial,
		Exec:   probe.ExecRunner{},
	}
}

// Run executes name with args in the device shell. adb joins its arguments
// into a single remote command line, so each argument is quoted.
func (r *ADBRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return r.Exec.Run(ctx, r.Path, r.args(name, args...)...)
}

func (r *ADBRunner) args(name string, args ...string) []string {
	out := make([]string, 0, len(args)+4)
	if r.Serial != "" {
		out = append(out, "-s", r.Serial)
	}
	out = append(out, "shell", shellQuote(name))
	for _, a := range args {
		out = append(out, shellQuote(a))
	}
	return out
}

// shellQuote quotes s for a POSIX shell unless it is made only of safe
// characters.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, c := range s {
		if !isShellSafe(c) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.ContainsRune("-_./=:,@%+", c)
}

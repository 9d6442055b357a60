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

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
		{"  error ", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestStructuredLoggerAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newStructuredLogger(&buf, "devcap", "v1.2.3", slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("collected", "probe", "battery")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "collected", rec["msg"])
	assert.Equal(t, "devcap", rec["module"])
	assert.Equal(t, "v1.2.3", rec["version"])
	assert.Equal(t, "battery", rec["probe"])
	assert.NotContains(t, rec, "source")
}

func TestStructuredLoggerDebugAddsSource(t *testing.T) {
	var buf bytes.Buffer
	logger := newStructuredLogger(&buf, "devcap", "dev", slog.LevelDebug)

	logger.Debug("probe fallback")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Contains(t, rec, "source")
}

func TestNewLogLogger(t *testing.T) {
	l := NewLogLogger(slog.LevelWarn, false)
	require.NotNil(t, l)
}

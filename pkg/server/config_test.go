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

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/device-capability/pkg/defaults"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvShutdownTimeout, "")

	cfg := NewConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.InDelta(t, 20, float64(cfg.RateLimit), 0)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, defaults.ServerShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, defaults.ServerReadTimeout, cfg.ReadTimeout)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	tests := []struct {
		name         string
		port         string
		shutdown     string
		wantPort     int
		wantShutdown time.Duration
	}{
		{name: "valid values", port: "9090", shutdown: "5", wantPort: 9090, wantShutdown: 5 * time.Second},
		{name: "non numeric", port: "http", shutdown: "soon", wantPort: 8080, wantShutdown: defaults.ServerShutdownTimeout},
		{name: "out of range", port: "70000", shutdown: "-3", wantPort: 8080, wantShutdown: defaults.ServerShutdownTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvPort, tt.port)
			t.Setenv(EnvShutdownTimeout, tt.shutdown)

			cfg := NewConfig()
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantShutdown, cfg.ShutdownTimeout)
		})
	}
}

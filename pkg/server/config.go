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
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/NVIDIA/device-capability/pkg/defaults"
)

const (
	// EnvPort overrides the listening port.
	EnvPort = "PORT"
	// EnvShutdownTimeout overrides the graceful shutdown timeout in seconds.
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"
)

// Config holds server configuration
type Config struct {
	// Server identity
	Name    string
	Version string

	// Additional Handlers to be added to the server, keyed by path.
	// Each one runs behind the full middleware chain.
	Handlers map[string]http.HandlerFunc

	// Server configuration
	Address string
	Port    int

	// Rate limiting configuration
	RateLimit      rate.Limit // requests per second
	RateLimitBurst int        // burst size

	// Timeouts
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns a Config with defaults and environment overrides applied.
func NewConfig() *Config {
	return parseConfig()
}

func parseConfig() *Config {
	cfg := &Config{
		Name:              "server",
		Version:           "undefined",
		Address:           "",
		Port:              8080,
		RateLimit:         20, // collections are not free
		RateLimitBurst:    40,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}

	if port, err := strconv.Atoi(os.Getenv(EnvPort)); err == nil && port > 0 && port < 65536 {
		cfg.Port = port
	}

	// Allow customization of shutdown timeout to match K8s eviction grace period
	if seconds, err := strconv.Atoi(os.Getenv(EnvShutdownTimeout)); err == nil && seconds > 0 {
		cfg.ShutdownTimeout = time.Duration(seconds) * time.Second
	}

	return cfg
}

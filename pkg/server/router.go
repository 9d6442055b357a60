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
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NVIDIA/device-capability/pkg/serializer"
)

// setupRoutes registers system routes without middleware and configured
// handlers behind the full chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleDefault)

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	for path, h := range s.config.Handlers {
		mux.HandleFunc(path, s.withMiddleware(path, h))
	}

	return mux
}

// routes returns the sorted list of configured handler paths.
func (s *Server) routes() []string {
	out := make([]string, 0, len(s.config.Handlers)+3)
	for path := range s.config.Handlers {
		out = append(out, "GET "+path)
	}
	sort.Strings(out)
	return append(out, "GET /health", "GET /ready", "GET /metrics")
}

type rootResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Ready     bool     `json:"ready"`
	Timestamp string   `json:"timestamp"`
	Routes    []string `json:"routes"`
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	slog.Debug("handling default route",
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	serializer.RespondJSON(w, http.StatusOK, rootResponse{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Ready:     s.isReady(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes:    s.routes(),
	})
}

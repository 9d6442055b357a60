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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devcap_collection_duration_seconds",
			Help:    "Time taken to collect a complete device capability snapshot",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"platform"},
	)

	collectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcap_collection_total",
			Help: "Total number of snapshot collection attempts",
		},
		[]string{"platform", "status"}, // success or error
	)

	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devcap_probe_duration_seconds",
			Help:    "Time taken by individual platform probes",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"platform", "probe"},
	)

	probeFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcap_probe_fallbacks_total",
			Help: "Number of probe results replaced by a default or omitted",
		},
		[]string{"platform", "probe", "reason"}, // unsupported, timeout, error, invalid
	)
)

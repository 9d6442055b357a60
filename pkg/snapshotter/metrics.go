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

package snapshotter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcap_snapshot_total",
			Help: "Total number of snapshot attempts",
		},
		[]string{"status"}, // success or error
	)

	serializeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "devcap_snapshot_serialize_duration_seconds",
			Help:    "Time taken to write a snapshot to its destination",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
	)

	snapshotResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcap_snapshot_responses_total",
			Help: "Snapshot HTTP responses by negotiated format and outcome",
		},
		[]string{"format", "status"}, // ok, not_acceptable, invalid, error
	)
)

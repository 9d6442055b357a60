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

// Package snapshotter ties a collector to an output.
//
// DeviceSnapshotter picks a collector for its Source through a
// collector.Factory, runs one collection and either writes the snapshot to a
// serializer.Serializer (Measure) or serves it over HTTP (Handle).
//
// # Usage
//
// Write a snapshot of the local host to stdout as JSON:
//
//	d := &snapshotter.DeviceSnapshotter{}
//	if err := d.Measure(ctx); err != nil {
//	    return err
//	}
//
// Publish a tethered Android device to a ConfigMap:
//
//	d := &snapshotter.DeviceSnapshotter{
//	    Source:     collector.SourceAndroid,
//	    Factory:    collector.NewDefaultFactory(collector.WithADBSerial("emulator-5554")),
//	    Serializer: serializer.NewFileWriterOrStdout(serializer.FormatYAML, "cm://devcap/pixel-8"),
//	}
//
// Serve snapshots:
//
//	server.WithHandler(map[string]http.HandlerFunc{
//	    "/v1/snapshot": d.Handle,
//	})
//
// # Content Negotiation
//
// Handle picks the body format from ?format=json|yaml|table|cbor, then from
// the Accept header by q value. An empty header, */* or application/* gives
// JSON. Accept headers naming nothing supported get 406 NOT_ACCEPTABLE.
// Responses carry Cache-Control: no-store.
//
// # Errors
//
// Collection failures keep the collector's code: INTERNAL (500) or TIMEOUT
// (504), with the message "Failed to collect device info" and the cause in
// details.error. Measure never writes a partial snapshot.
//
// # Observability
//
//   - devcap_snapshot_total{status}
//   - devcap_snapshot_serialize_duration_seconds
//   - devcap_snapshot_responses_total{format,status}
package snapshotter

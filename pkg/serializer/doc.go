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

// Package serializer encodes and decodes device snapshots in JSON, YAML,
// CBOR and a human-readable table, and moves them between files, HTTP,
// Kubernetes ConfigMaps and OCI registries.
//
// # Writing
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, output)
//	if c, ok := w.(serializer.Closer); ok {
//	    defer c.Close()
//	}
//	if err := w.Serialize(ctx, snap); err != nil {
//	    return err
//	}
//
// The destination decides the writer:
//   - "" writes to stdout
//   - cm://namespace/name applies a ConfigMap with key snapshot.<ext>
//   - oci://registry/repository[:tag] pushes a single-layer OCI artifact
//   - anything else creates a file
//
// CBOR uses the deterministic core encoding and is written to a
// ConfigMap's binaryData.
//
// # Reading
//
//	snap, err := serializer.FromFile[snapshot.Snapshot](ctx, "cm://lab/pixel-8")
//
// Local files and URLs are decoded by extension; URLs without one fall back
// to the response Content-Type. Table output cannot be read back.
//
// # HTTP
//
// Respond and RespondJSON buffer the encoding before writing headers so an
// encoding failure never produces a partial body. FormatFromMediaType maps
// Accept and Content-Type values to formats.
package serializer

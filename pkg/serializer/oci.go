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

package serializer

import (
	"context"
	"fmt"
	"log/slog"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/NVIDIA/device-capability/pkg/oci"
)

// OCIWriter pushes the serialized value to an OCI registry as a
// single-layer artifact.
type OCIWriter struct {
	ref       *oci.Reference
	format    Format
	PlainHTTP bool
	Insecure  bool

	// push is swapped in tests.
	push func(ctx context.Context, content []byte, opts oci.PushOptions) (*oci.PushResult, error)
}

// NewOCIWriter parses uri (oci://registry/repository[:tag]) and returns a
// writer for it.
func NewOCIWriter(uri string, format Format) (*OCIWriter, error) {
	ref, err := oci.ParseReference(uri)
	if err != nil {
		return nil, err
	}
	return &OCIWriter{
		ref:    ref,
		format: knownOrJSON(format),
		push:   oci.Push,
	}, nil
}

// Serialize implements Serializer.
func (w *OCIWriter) Serialize(ctx context.Context, v any) error {
	content, err := Marshal(w.format, v)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	res, err := w.push(ctx, content, oci.PushOptions{
		Reference: w.ref,
		MediaType: w.format.MediaType(),
		Annotations: map[string]string{
			ociv1.AnnotationTitle: configMapDataPrefix + w.format.Extension(),
		},
		PlainHTTP:   w.PlainHTTP,
		InsecureTLS: w.Insecure,
	})
	if err != nil {
		return err
	}

	slog.Info("snapshot pushed", "reference", res.Reference, "digest", res.Digest)
	return nil
}

// Close is a no-op; OCIWriter holds no resources.
func (w *OCIWriter) Close() error {
	return nil
}

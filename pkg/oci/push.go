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

package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	"github.com/NVIDIA/device-capability/pkg/defaults"
	cerrors "github.com/NVIDIA/device-capability/pkg/errors"
)

// ArtifactType is the artifact type of pushed device snapshots.
const ArtifactType = "application/vnd.nvidia.devcap.snapshot"

// PushOptions configures a snapshot push.
type PushOptions struct {
	// Reference is the target repository and tag.
	Reference *Reference
	// MediaType is the layer media type, for example "application/json".
	MediaType string
	// Annotations are added to the manifest.
	Annotations map[string]string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PushResult contains the result of a successful push.
type PushResult struct {
	// Digest is the manifest digest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Pack stores content as a single-layer OCI 1.1 artifact in target and tags
// the manifest.
func Pack(ctx context.Context, target oras.Target, content []byte, mediaType, tag string, annotations map[string]string) (ociv1.Descriptor, error) {
	if tag == "" {
		return ociv1.Descriptor{}, fmt.Errorf("tag is required to pack an artifact")
	}
	if mediaType == "" {
		return ociv1.Descriptor{}, fmt.Errorf("media type is required to pack an artifact")
	}

	layer, err := oras.PushBytes(ctx, target, mediaType, content)
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to store snapshot layer: %w", err)
	}

	manifestAnnotations := map[string]string{
		ociv1.AnnotationCreated: time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range annotations {
		manifestAnnotations[k] = v
	}

	manifest, err := oras.PackManifest(ctx, target, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layer},
		ManifestAnnotations: manifestAnnotations,
	})
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to pack manifest: %w", err)
	}

	if err := target.Tag(ctx, manifest, tag); err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to tag manifest: %w", err)
	}
	return manifest, nil
}

// Push packs content in memory and copies it to the remote repository.
func Push(ctx context.Context, content []byte, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "OCI reference is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
	defer cancel()

	ref := opts.Reference.WithTag(opts.Reference.TagOrDefault())
	store := memory.New()
	if _, err := Pack(ctx, store, content, opts.MediaType, ref.Tag, opts.Annotations); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to package snapshot", err)
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", ref.Registry, ref.Repository))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	slog.Info("pushing snapshot to registry",
		"reference", ref.ImageReference(),
		"mediaType", opts.MediaType,
		"size", len(content))

	desc, err := oras.Copy(ctx, store, ref.Tag, repo, ref.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeUnavailable, "failed to push snapshot to registry", err)
	}

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: ref.ImageReference(),
	}, nil
}

// createAuthClient creates an HTTP client with optional TLS configuration
// and Docker credential support.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credentials unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	c := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		c.Credential = credentials.Credential(credStore)
	}
	return c
}

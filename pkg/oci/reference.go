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
	"fmt"
	"strings"

	"github.com/distribution/reference"

	cerrors "github.com/NVIDIA/device-capability/pkg/errors"
)

// URIScheme is the URI scheme for OCI registry output (e.g., "oci://ghcr.io/org/repo:tag").
const URIScheme = "oci://"

// DefaultTag is applied when an oci:// target carries no tag.
const DefaultTag = "latest"

// Reference is a parsed oci:// snapshot target.
type Reference struct {
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "nvidia/devcap").
	Repository string
	// Tag is the artifact tag. Empty when the target had none.
	Tag string
}

// IsOCIURI reports whether target uses the oci:// scheme.
func IsOCIURI(target string) bool {
	return strings.HasPrefix(strings.TrimSpace(target), URIScheme)
}

// ParseReference parses an oci://registry/repository[:tag] target.
func ParseReference(target string) (*Reference, error) {
	target = strings.TrimSpace(target)
	if !IsOCIURI(target) {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("OCI reference must start with %s", URIScheme))
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}
	if _, ok := ref.(reference.Digested); ok {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "OCI reference must not carry a digest")
	}

	r := &Reference{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		r.Tag = tagged.Tag()
	}
	return r, nil
}

// String returns the reference with the oci:// scheme.
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}

// ImageReference returns the Docker-style reference without the scheme.
func (r *Reference) ImageReference() string {
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference with the given tag.
func (r *Reference) WithTag(tag string) *Reference {
	return &Reference{
		Registry:   r.Registry,
		Repository: r.Repository,
		Tag:        tag,
	}
}

// TagOrDefault returns the tag, or DefaultTag when none was given.
func (r *Reference) TagOrDefault() string {
	if r.Tag == "" {
		return DefaultTag
	}
	return r.Tag
}

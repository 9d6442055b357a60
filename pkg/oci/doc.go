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

// Package oci publishes device snapshots to OCI registries as artifacts.
//
// A snapshot is stored as a single layer whose media type matches its
// serialization (application/json, application/yaml, application/cbor)
// under a manifest with artifact type "application/vnd.nvidia.devcap.snapshot".
//
// # Usage
//
//	ref, err := oci.ParseReference("oci://ghcr.io/acme/devices:pixel-8")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Push(ctx, data, oci.PushOptions{
//	    Reference: ref,
//	    MediaType: "application/json",
//	})
//
// Targets without a tag are pushed as "latest".
//
// # Authentication
//
// Credentials are loaded from the Docker configuration (~/.docker/config.json)
// through the ORAS credentials package.
package oci

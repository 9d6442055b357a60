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

// Package client provides the Kubernetes client used to publish device
// snapshots to ConfigMaps.
//
// GetKubeClient discovers configuration from KUBECONFIG, ~/.kube/config, or
// the in-cluster service account and caches the result for the process:
//
//	cs, cfg, err := client.GetKubeClient()
//	if err != nil {
//	    return fmt.Errorf("failed to get kubernetes client: %w", err)
//	}
//	slog.Info("kubernetes access", "auth_method", client.AuthMethod(cfg))
//
// BuildKubeClient and GetKubeClientWithConfig bypass the cache for an
// explicit kubeconfig path.
package client

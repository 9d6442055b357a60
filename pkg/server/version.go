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
	"mime"
	"net/http"
	"strings"
)

const (
	// DefaultAPIVersion is the default API version if none is negotiated
	DefaultAPIVersion = "v1"

	// vendorMediaPrefix starts vendor media types such as
	// application/vnd.nvidia.devcap.v1+json.
	vendorMediaPrefix = "application/vnd.nvidia.devcap."
)

var validAPIVersions = map[string]bool{
	"v1": true,
}

// negotiateAPIVersion returns the version named by a vendor media type in
// the Accept header, or DefaultAPIVersion.
func negotiateAPIVersion(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil || !strings.HasPrefix(mt, vendorMediaPrefix) {
			continue
		}
		version, _, _ := strings.Cut(strings.TrimPrefix(mt, vendorMediaPrefix), "+")
		if validAPIVersions[version] {
			return version
		}
	}
	return DefaultAPIVersion
}

// SetAPIVersionHeader sets the API version header in the response.
func SetAPIVersionHeader(w http.ResponseWriter, version string) {
	w.Header().Set("X-API-Version", version)
}

// APIVersionFromRequest returns the version negotiated by the middleware.
func APIVersionFromRequest(r *http.Request) string {
	if v, ok := r.Context().Value(contextKeyAPIVersion).(string); ok && v != "" {
		return v
	}
	return DefaultAPIVersion
}

// RequestIDFromRequest returns the request ID assigned by the middleware.
func RequestIDFromRequest(r *http.Request) string {
	v, _ := r.Context().Value(contextKeyRequestID).(string)
	return v
}

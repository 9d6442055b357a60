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
	"context"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/device-capability/pkg/collector"
	"github.com/NVIDIA/device-capability/pkg/defaults"
	cerrors "github.com/NVIDIA/device-capability/pkg/errors"
	"github.com/NVIDIA/device-capability/pkg/serializer"
	"github.com/NVIDIA/device-capability/pkg/server"
)

// Handle serves GET /v1/snapshot. The body format is taken from the format
// query parameter when set, otherwise from the Accept header; JSON when the
// client accepts anything.
func (d *DeviceSnapshotter) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		server.WriteError(w, r, http.StatusMethodNotAllowed, cerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	format, err := negotiateFormat(r)
	if err != nil {
		snapshotResponses.WithLabelValues("none", strings.ToLower(string(cerrors.CodeOf(err)))).Inc()
		server.WriteErrorFromErr(w, r, err, "Unsupported response format", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), d.handlerTimeout())
	defer cancel()

	snap, err := d.Collect(ctx)
	if err != nil {
		snapshotResponses.WithLabelValues(string(format), "error").Inc()
		server.WriteErrorFromErr(w, r, err, collector.CollectionErrorMessage, nil)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Add("Vary", "Accept")
	snapshotResponses.WithLabelValues(string(format), "ok").Inc()
	serializer.Respond(w, http.StatusOK, format, snap)
}

func (d *DeviceSnapshotter) handlerTimeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return defaults.SnapshotHandlerTimeout
}

type acceptEntry struct {
	mediaType string
	q         float64
}

// negotiateFormat resolves the response format for r.
func negotiateFormat(r *http.Request) (serializer.Format, error) {
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := serializer.ParseFormat(v)
		if err != nil {
			return "", cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest, "Unsupported format parameter",
				map[string]any{"format": v, "supported": serializer.SupportedFormats()})
		}
		return f, nil
	}

	accept := strings.TrimSpace(r.Header.Get("Accept"))
	if accept == "" {
		return serializer.FormatJSON, nil
	}

	for _, e := range parseAccept(accept) {
		switch e.mediaType {
		case "*/*", "application/*":
			return serializer.FormatJSON, nil
		}
		if f, ok := serializer.FormatFromMediaType(e.mediaType); ok {
			return f, nil
		}
	}

	return "", cerrors.NewWithContext(cerrors.ErrCodeNotAcceptable, "No supported media type in Accept header",
		map[string]any{"accept": accept, "supported": supportedMediaTypes()})
}

// parseAccept returns the Accept entries with q > 0, highest q first.
// Malformed entries are skipped.
func parseAccept(header string) []acceptEntry {
	var out []acceptEntry
	for _, part := range strings.Split(header, ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if v, ok := params["q"]; ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q <= 0 {
			continue
		}
		out = append(out, acceptEntry{mediaType: mt, q: q})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].q > out[j].q })
	return out
}

func supportedMediaTypes() []string {
	formats := serializer.SupportedFormats()
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		out = append(out, serializer.Format(f).MediaType())
	}
	return out
}

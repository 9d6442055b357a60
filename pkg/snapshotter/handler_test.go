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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/device-capability/pkg/collector"
	"github.com/NVIDIA/device-capability/pkg/defaults"
	cerrors "github.com/NVIDIA/device-capability/pkg/errors"
	"github.com/NVIDIA/device-capability/pkg/serializer"
	"github.com/NVIDIA/device-capability/pkg/server"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

func doRequest(t *testing.T, d *DeviceSnapshotter, method, target, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	d.Handle(rec, req)
	return rec
}

func TestHandle_Formats(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		accept      string
		contentType string
	}{
		{name: "default json", target: "/v1/snapshot", contentType: "application/json"},
		{name: "wildcard", target: "/v1/snapshot", accept: "*/*", contentType: "application/json"},
		{name: "vendor json", target: "/v1/snapshot", accept: "application/vnd.nvidia.devcap.v1+json", contentType: "application/json"},
		{name: "cbor", target: "/v1/snapshot", accept: "application/cbor", contentType: "application/cbor"},
		{name: "yaml", target: "/v1/snapshot", accept: "application/yaml", contentType: "application/yaml"},
		{name: "q ordering", target: "/v1/snapshot", accept: "application/json;q=0.5, application/cbor", contentType: "application/cbor"},
		{name: "q zero skipped", target: "/v1/snapshot", accept: "application/cbor;q=0, application/yaml", contentType: "application/yaml"},
		{name: "query wins over accept", target: "/v1/snapshot?format=yaml", accept: "application/cbor", contentType: "application/yaml"},
		{name: "table", target: "/v1/snapshot?format=table", contentType: "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestSnapshotter()
			rec := doRequest(t, d, http.MethodGet, tt.target, tt.accept)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			assert.NotEmpty(t, rec.Body.Bytes())
		})
	}
}

func TestHandle_BodiesDecode(t *testing.T) {
	d, _ := newTestSnapshotter()
	d.Source = collector.SourceAndroid

	t.Run("json keeps nulls", func(t *testing.T) {
		rec := doRequest(t, d, http.MethodGet, "/v1/snapshot", "")
		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Google Pixel 8", got["deviceModel"])
		assert.InDelta(t, 34, got["sdkLevel"], 0)
		assert.Contains(t, got, "freeStorageBytes")
		assert.Nil(t, got["freeStorageBytes"])
	})

	t.Run("cbor", func(t *testing.T) {
		rec := doRequest(t, d, http.MethodGet, "/v1/snapshot", "application/cbor")
		var got snapshot.Snapshot
		require.NoError(t, cbor.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, *pixelSnapshot(), got)
	})

	t.Run("yaml", func(t *testing.T) {
		rec := doRequest(t, d, http.MethodGet, "/v1/snapshot", "application/yaml")
		var got snapshot.Snapshot
		require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 8, got.CPUCores)
		assert.Equal(t, snapshot.ThermalSerious, got.ThermalState)
		assert.InDelta(t, 0.73, got.BatteryLevel, 1e-9)
		assert.True(t, got.IsCharging)
	})
}

func TestHandle_Errors(t *testing.T) {
	t.Run("not acceptable", func(t *testing.T) {
		d, f := newTestSnapshotter()
		rec := doRequest(t, d, http.MethodGet, "/v1/snapshot", "text/html")

		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
		var resp server.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, string(cerrors.ErrCodeNotAcceptable), resp.Code)
		assert.Equal(t, 0, f.host.calls)
	})

	t.Run("bad format parameter", func(t *testing.T) {
		d, _ := newTestSnapshotter()
		rec := doRequest(t, d, http.MethodGet, "/v1/snapshot?format=xml", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp server.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, string(cerrors.ErrCodeInvalidRequest), resp.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		d, _ := newTestSnapshotter()
		rec := doRequest(t, d, http.MethodPost, "/v1/snapshot", "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
	})

	t.Run("internal collection error", func(t *testing.T) {
		d, f := newTestSnapshotter()
		f.host.err = cerrors.Wrap(cerrors.ErrCodeInternal, collector.CollectionErrorMessage, collector.ErrNoSource)

		rec := doRequest(t, d, http.MethodGet, "/v1/snapshot", "application/cbor")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp server.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "INTERNAL", resp.Code)
		assert.Equal(t, collector.CollectionErrorMessage, resp.Message)
		assert.Equal(t, collector.ErrNoSource.Error(), resp.Details["error"])
	})

	t.Run("timeout", func(t *testing.T) {
		d, _ := newTestSnapshotter()
		req := httptest.NewRequest(http.MethodGet, "/v1/snapshot", nil)
		ctx, cancel := context.WithDeadline(req.Context(), time.Now().Add(-time.Second))
		defer cancel()
		rec := httptest.NewRecorder()

		d.Handle(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		var resp server.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "TIMEOUT", resp.Code)
		assert.True(t, resp.Retryable)
	})
}

func TestNegotiateFormat(t *testing.T) {
	tests := []struct {
		accept  string
		want    serializer.Format
		wantErr bool
	}{
		{accept: "", want: serializer.FormatJSON},
		{accept: "application/*", want: serializer.FormatJSON},
		{accept: "text/plain", want: serializer.FormatTable},
		{accept: "application/x-yaml", want: serializer.FormatYAML},
		{accept: "garbage;;;, application/cbor", want: serializer.FormatCBOR},
		{accept: "image/png, text/html", wantErr: true},
		{accept: "application/json;q=0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/snapshot", nil)
			req.Header.Set("Accept", tt.accept)

			got, err := negotiateFormat(req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, cerrors.ErrCodeNotAcceptable, cerrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandlerTimeout(t *testing.T) {
	d := &DeviceSnapshotter{}
	assert.Equal(t, defaults.SnapshotHandlerTimeout, d.handlerTimeout())

	d.Timeout = 2 * time.Second
	assert.Equal(t, 2*time.Second, d.handlerTimeout())
}

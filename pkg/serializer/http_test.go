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
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name        string
		format      Format
		contentType string
		contains    string
	}{
		{name: "json", format: FormatJSON, contentType: MediaTypeJSON, contains: `"platform": "android"`},
		{name: "yaml", format: FormatYAML, contentType: MediaTypeYAML, contains: "platform: android"},
		{name: "table", format: FormatTable, contentType: MediaTypeTable, contains: "deviceModel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Respond(rec, http.StatusOK, tt.format, pixelSnapshot())

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestRespond_CBOR(t *testing.T) {
	rec := httptest.NewRecorder()
	Respond(rec, http.StatusOK, FormatCBOR, pixelSnapshot())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MediaTypeCBOR, rec.Header().Get("Content-Type"))

	got, err := Unmarshal[snapshot.Snapshot](FormatCBOR, rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, pixelSnapshot(), got)
}

func TestRespondJSON_EncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]float64{"bad": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bad")
}

func TestHttpReader_ReadWithContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/snap":
			assert.Equal(t, HttpReaderUserAgent, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", MediaTypeYAML)
			_, _ = w.Write([]byte("platform: ios\n"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", HttpReaderMaxBodyBytes+1)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewHttpReader(WithTotalTimeout(5 * time.Second))

	data, ct, err := r.ReadWithContext(context.Background(), srv.URL+"/snap")
	require.NoError(t, err)
	assert.Equal(t, "platform: ios\n", string(data))
	assert.Equal(t, MediaTypeYAML, ct)

	_, _, err = r.ReadWithContext(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)

	_, _, err = r.ReadWithContext(context.Background(), srv.URL+"/big")
	assert.ErrorContains(t, err, "exceeds")

	_, _, err = r.ReadWithContext(context.Background(), "")
	assert.Error(t, err)
}

func TestNewHttpReader_Options(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}
	r := NewHttpReader(WithUserAgent("lab/2"), WithClient(custom), WithTotalTimeout(3*time.Second))
	assert.Equal(t, "lab/2", r.UserAgent)
	assert.Same(t, custom, r.Client)
	assert.Equal(t, 3*time.Second, r.Client.Timeout)

	r = NewHttpReader(WithInsecureSkipVerify(true))
	tr, ok := r.Client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
}

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
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/NVIDIA/device-capability/pkg/defaults"
)

// RespondJSON writes a JSON response with the given status code and data.
// It buffers the JSON encoding before writing headers to prevent partial responses.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	Respond(w, statusCode, FormatJSON, data)
}

// Respond writes data in the given format with the matching Content-Type.
// Encoding happens before headers are written, so an encoding failure
// yields a plain 500 instead of a truncated body.
func Respond(w http.ResponseWriter, statusCode int, format Format, data any) {
	format = knownOrJSON(format)

	var buf bytes.Buffer
	if err := encode(&buf, format, data); err != nil {
		slog.Error("response encoding failed", "format", format, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.MediaType())
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Connection is broken, log but can't recover
		slog.Warn("response write failed", "error", err)
	}
}

const (
	// HttpReaderUserAgent is sent with every request.
	HttpReaderUserAgent = "devcap/1.0"

	// HttpReaderMaxBodyBytes caps downloaded documents.
	HttpReaderMaxBodyBytes = 4 << 20
)

// HttpReaderOption defines a configuration option for HttpReader.
type HttpReaderOption func(*HttpReader)

// HttpReader fetches documents over HTTP.
type HttpReader struct {
	UserAgent string
	Client    *http.Client
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) HttpReaderOption {
	return func(r *HttpReader) {
		r.UserAgent = userAgent
	}
}

// WithTotalTimeout sets the overall request timeout.
func WithTotalTimeout(timeout time.Duration) HttpReaderOption {
	return func(r *HttpReader) {
		if timeout > 0 {
			r.Client.Timeout = timeout
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(skip bool) HttpReaderOption {
	return func(r *HttpReader) {
		if tr, ok := r.Client.Transport.(*http.Transport); ok && tr.TLSClientConfig != nil {
			tr.TLSClientConfig.InsecureSkipVerify = skip //nolint:gosec
		}
	}
}

// WithClient replaces the HTTP client. Options applied after it act on the
// new client.
func WithClient(c *http.Client) HttpReaderOption {
	return func(r *HttpReader) {
		if c != nil {
			r.Client = c
		}
	}
}

// NewHttpReader creates a new HttpReader with the specified options.
func NewHttpReader(options ...HttpReaderOption) *HttpReader {
	r := &HttpReader{
		UserAgent: HttpReaderUserAgent,
		Client: &http.Client{
			Timeout:   defaults.HTTPClientTimeout,
			Transport: newDefaultHTTPTransport(),
		},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func newDefaultHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
		IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// ReadWithContext fetches url and returns the body and the response
// Content-Type. Non-200 responses are errors.
func (r *HttpReader) ReadWithContext(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", fmt.Errorf("url is empty")
	}
	if r.Client == nil {
		return nil, "", fmt.Errorf("http client is nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}
	req.Header.Set("Accept", MediaTypeJSON+", "+MediaTypeYAML+";q=0.9, "+MediaTypeCBOR+";q=0.8")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http request failed for url %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, HttpReaderMaxBodyBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > HttpReaderMaxBodyBytes {
		return nil, "", fmt.Errorf("response from %s exceeds %d bytes", url, HttpReaderMaxBodyBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/NVIDIA/device-capability/pkg/defaults"
	"github.com/NVIDIA/device-capability/pkg/k8s/client"
)

// FormatFromPath determines the serialization format from a file extension.
// Supported extensions:
//   - .json → FormatJSON
//   - .yaml, .yml → FormatYAML
//   - .cbor → FormatCBOR
//   - .table, .txt → FormatTable
//
// URLs are matched on their path. Returns FormatJSON for unknown extensions.
func FormatFromPath(filePath string) Format {
	if f, ok := formatFromExt(filePath); ok {
		return f
	}
	slog.Debug("unknown file extension, defaulting to JSON", "filePath", filePath)
	return FormatJSON
}

func formatFromExt(filePath string) (Format, bool) {
	p := filePath
	if u, err := url.Parse(filePath); err == nil && u.Scheme != "" && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".cbor":
		return FormatCBOR, true
	case ".table", ".txt":
		return FormatTable, true
	default:
		return "", false
	}
}

// Reader decodes JSON, YAML or CBOR from an io.Reader.
// Table format is write-only.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a new Reader for deserializing data from an io.Reader
// source. If input implements io.Closer, Close closes it.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if err := checkReadable(format); err != nil {
		return nil, err
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	return r, nil
}

// NewFileReader creates a Reader for a local file or an http(s) URL.
// Remote documents are read into memory.
func NewFileReader(ctx context.Context, format Format, filePath string) (*Reader, error) {
	if err := checkReadable(format); err != nil {
		return nil, err
	}

	if isRemote(filePath) {
		data, _, err := NewHttpReader().ReadWithContext(ctx, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to download remote file: %w", err)
		}
		return &Reader{format: format, input: bytes.NewReader(data)}, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &Reader{
		format: format,
		input:  file,
		closer: file,
	}, nil
}

// NewFileReaderAuto creates a Reader with the format taken from the file
// extension.
func NewFileReaderAuto(ctx context.Context, filePath string) (*Reader, error) {
	return NewFileReader(ctx, FormatFromPath(filePath), filePath)
}

func checkReadable(format Format) error {
	if format.IsUnknown() {
		return fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return fmt.Errorf("table format does not support deserialization")
	}
	return nil
}

func isRemote(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// Deserialize reads data from the input source and unmarshals it into v,
// which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	case FormatCBOR:
		if err := cbor.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode CBOR: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
	return nil
}

// Close releases the underlying file, if any. Safe to call more than once
// and on a nil Reader.
func (r *Reader) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// Unmarshal decodes data in the given format into a new T.
func Unmarshal[T any](format Format, data []byte) (*T, error) {
	reader, err := NewReader(format, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var out T
	if err := reader.Deserialize(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FromFile reads and deserializes a local file, an http(s) URL, or a
// ConfigMap (cm://namespace/name) into a new T.
//
// Local files and URLs are decoded by extension. URLs whose path has no
// known extension fall back to the response Content-Type. ConfigMaps are
// decoded using their "format" key.
func FromFile[T any](ctx context.Context, path string) (*T, error) {
	return FromFileWithKubeconfig[T](ctx, path, "")
}

// FromFileWithKubeconfig is FromFile with an explicit kubeconfig for
// ConfigMap sources.
func FromFileWithKubeconfig[T any](ctx context.Context, path, kubeconfig string) (*T, error) {
	if strings.HasPrefix(path, ConfigMapURIScheme) {
		namespace, name, err := ParseConfigMapURI(path)
		if err != nil {
			return nil, fmt.Errorf("invalid ConfigMap URI: %w", err)
		}
		cs, _, err := client.GetKubeClientWithConfig(kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		return fromConfigMap[T](ctx, cs, namespace, name)
	}

	if isRemote(path) {
		data, contentType, err := NewHttpReader().ReadWithContext(ctx, path)
		if err != nil {
			return nil, err
		}
		format, ok := formatFromExt(path)
		if !ok {
			format = FormatJSON
			if f, ok := FormatFromMediaType(contentType); ok {
				format = f
			}
		}
		slog.Debug("decoding remote document", "url", path, "format", format)
		out, err := Unmarshal[T](format, data)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize object from %q: %w", path, err)
		}
		return out, nil
	}

	format := FormatFromPath(path)
	reader, err := NewFileReader(ctx, format, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for %q: %w", path, err)
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			slog.Warn("failed to close reader", "error", closeErr)
		}
	}()

	var out T
	if err := reader.Deserialize(&out); err != nil {
		return nil, fmt.Errorf("failed to deserialize object from %q: %w", path, err)
	}
	slog.Debug("loaded object from file", "path", path, "format", format)
	return &out, nil
}

// fromConfigMap reads the snapshot.<ext> entry of a ConfigMap written by
// ConfigMapWriter.
func fromConfigMap[T any](ctx context.Context, cs client.Interface, namespace, name string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	cm, err := cs.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap %s/%s: %w", namespace, name, err)
	}

	return decodeConfigMap[T](cm)
}

// decodeConfigMap decodes the first snapshot.<ext> entry of cm, trying the
// recorded format first.
func decodeConfigMap[T any](cm *corev1.ConfigMap) (*T, error) {
	formats := []Format{FormatJSON, FormatYAML, FormatCBOR}
	if f := Format(cm.Data[configMapFormatKey]); !f.IsUnknown() && f != FormatTable {
		formats = append([]Format{f}, formats...)
	}

	for _, f := range formats {
		key := configMapDataPrefix + f.Extension()
		var content []byte
		if s, ok := cm.Data[key]; ok {
			content = []byte(s)
		} else if b, ok := cm.BinaryData[key]; ok {
			content = b
		} else {
			continue
		}

		slog.Debug("reading from ConfigMap",
			"namespace", cm.Namespace,
			"name", cm.Name,
			"format", f,
			"size", len(content))

		out, err := Unmarshal[T](f, content)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize ConfigMap data: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("ConfigMap %s/%s has no snapshot data", cm.Namespace, cm.Name)
}

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
	"fmt"
	"mime"
	"strings"
)

// Serializer writes a value to some destination.
//
// The context bounds implementations that perform network I/O
// (ConfigMap and OCI writers).
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by Serializers that hold resources such as file
// handles.
type Closer interface {
	Close() error
}

// Format represents the output format type
type Format string

const (
	// FormatJSON outputs indented JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs YAML.
	FormatYAML Format = "yaml"
	// FormatTable outputs a two column FIELD/VALUE table.
	FormatTable Format = "table"
	// FormatCBOR outputs deterministic CBOR (RFC 8949 core encoding).
	FormatCBOR Format = "cbor"
)

// Media types for each format.
const (
	MediaTypeJSON  = "application/json"
	MediaTypeYAML  = "application/yaml"
	MediaTypeCBOR  = "application/cbor"
	MediaTypeTable = "text/plain"
)

const (
	// ConfigMapURIScheme prefixes Kubernetes ConfigMap destinations
	// (cm://namespace/name).
	ConfigMapURIScheme = "cm://"
	// OCIURIScheme prefixes OCI registry destinations
	// (oci://registry/repository[:tag]).
	OCIURIScheme = "oci://"
)

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable, FormatCBOR:
		return false
	default:
		return true
	}
}

// IsBinary reports whether f produces non-text output.
func (f Format) IsBinary() bool {
	return f == FormatCBOR
}

// MediaType returns the MIME type of f. Unknown formats map to JSON.
func (f Format) MediaType() string {
	switch f {
	case FormatYAML:
		return MediaTypeYAML
	case FormatCBOR:
		return MediaTypeCBOR
	case FormatTable:
		return MediaTypeTable
	default:
		return MediaTypeJSON
	}
}

// Extension returns the file extension used for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatCBOR:
		return "cbor"
	case FormatTable:
		return "txt"
	default:
		return "json"
	}
}

// SupportedFormats returns a list of all supported output formats
// for serialization.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
		string(FormatCBOR),
	}
}

// ParseFormat converts a user supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format %q, supported: %s",
			s, strings.Join(SupportedFormats(), ", "))
	}
	return f, nil
}

// FormatFromMediaType maps a media type, possibly with parameters or
// structured syntax suffix, to a Format. The second result is false when
// the type is not recognized.
func FormatFromMediaType(mediaType string) (Format, bool) {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", false
	}
	switch {
	case mt == MediaTypeJSON, strings.HasSuffix(mt, "+json"):
		return FormatJSON, true
	case mt == MediaTypeYAML, mt == "application/x-yaml", mt == "text/yaml", strings.HasSuffix(mt, "+yaml"):
		return FormatYAML, true
	case mt == MediaTypeCBOR, strings.HasSuffix(mt, "+cbor"):
		return FormatCBOR, true
	case mt == MediaTypeTable:
		return FormatTable, true
	default:
		return "", false
	}
}

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
	"os"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

const (
	defaultValueKey = "value"
	nullValue       = "-"
)

var cborEncMode = mustCBOREncMode()

func mustCBOREncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("invalid cbor encoding options: %v", err))
	}
	return em
}

// Marshal encodes v in the given format.
func Marshal(format Format, v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, format, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush YAML: %w", err)
		}
	case FormatCBOR:
		if err := cborEncMode.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to CBOR: %w", err)
		}
	case FormatTable:
		return encodeTable(w, v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

// Writer serializes values to an io.Writer.
// Close must be called to release file handles when using NewFileWriterOrStdout.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

// NewWriter creates a new Writer with the specified format and output destination.
// If output is nil, os.Stdout will be used.
// If format is unknown, defaults to JSON format.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{
		format: knownOrJSON(format),
		output: output,
	}
}

// NewStdoutWriter creates a new Writer that outputs to stdout in the specified format.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a Serializer for the given destination:
//   - "" writes to stdout
//   - cm://namespace/name applies a Kubernetes ConfigMap
//   - oci://registry/repository[:tag] pushes an OCI artifact
//   - anything else is a file path
//
// Invalid destinations fall back to stdout with an error logged.
// Remember to call Close on the result when it implements Closer.
func NewFileWriterOrStdout(format Format, path string) Serializer {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return NewStdoutWriter(format)
	}

	switch {
	case strings.HasPrefix(trimmed, ConfigMapURIScheme):
		namespace, name, err := ParseConfigMapURI(trimmed)
		if err != nil {
			slog.Error("invalid ConfigMap URI, falling back to stdout", "error", err, "uri", trimmed)
			return NewStdoutWriter(format)
		}
		return NewConfigMapWriter(namespace, name, format)
	case strings.HasPrefix(trimmed, OCIURIScheme):
		w, err := NewOCIWriter(trimmed, format)
		if err != nil {
			slog.Error("invalid OCI reference, falling back to stdout", "error", err, "uri", trimmed)
			return NewStdoutWriter(format)
		}
		return w
	}

	file, err := os.Create(trimmed)
	if err != nil {
		slog.Error("failed to create output file", "error", err, "path", trimmed)
		return NewStdoutWriter(format)
	}

	return &Writer{
		format: knownOrJSON(format),
		output: file,
		closer: file,
	}
}

// Close releases any resources associated with the Writer.
// It's safe to call Close multiple times or on stdout-based writers.
func (w *Writer) Close() error {
	if w.closer != nil {
		err := w.closer.Close()
		w.closer = nil
		return err
	}
	return nil
}

// Serialize writes v in the configured format. The context is unused for
// local writes.
func (w *Writer) Serialize(_ context.Context, v any) error {
	return encode(w.output, w.format, v)
}

func knownOrJSON(format Format) Format {
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		return FormatJSON
	}
	return format
}

type tableRow struct {
	key   string
	value any
}

func encodeTable(w io.Writer, v any) error {
	var rows []tableRow
	flattenValue(&rows, reflect.ValueOf(v), "")
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "<empty>")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%v\n", r.key, r.value)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}
	return nil
}

// flattenValue appends one row per leaf. Struct fields keep declaration order
// and are named by their json tag; map keys are sorted.
func flattenValue(rows *[]tableRow, val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				*rows = append(*rows, tableRow{key: prefix, value: nullValue})
			}
			return
		}
		val = val.Elem()
	}

	if s, ok := val.Interface().(fmt.Stringer); ok && val.Kind() != reflect.Struct {
		*rows = append(*rows, tableRow{key: keyOrDefault(prefix), value: s.String()})
		return
	}

	//nolint:exhaustive // We handle the common cases explicitly; all others go to default
	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			name := fieldName(field)
			if name == "-" {
				continue
			}
			flattenValue(rows, val.Field(i), joinKey(prefix, name))
		}
	case reflect.Map:
		keys := val.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, k := range keys {
			flattenValue(rows, val.MapIndex(k), joinKey(prefix, fmt.Sprint(k.Interface())))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			flattenValue(rows, val.Index(i), joinKey(prefix, fmt.Sprintf("[%d]", i)))
		}
	default:
		*rows = append(*rows, tableRow{key: keyOrDefault(prefix), value: val.Interface()})
	}
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

func keyOrDefault(key string) string {
	if key == "" {
		return defaultValueKey
	}
	return key
}

func joinKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" {
		return prefix
	}
	return prefix + "." + suffix
}

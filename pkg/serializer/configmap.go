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
	"log/slog"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"

	"github.com/NVIDIA/device-capability/pkg/defaults"
	"github.com/NVIDIA/device-capability/pkg/k8s/client"
)

const (
	configMapFieldManager = "devcap"
	configMapDataPrefix   = "snapshot."
	configMapFormatKey    = "format"
	configMapTimestampKey = "timestamp"
)

// ConfigMapWriter writes serialized data to a Kubernetes ConfigMap.
// The ConfigMap is created if it doesn't exist, or updated if it does.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	client    client.Interface
}

// ConfigMapOption configures a ConfigMapWriter.
type ConfigMapOption func(*ConfigMapWriter)

// WithKubeClient sets the client used to apply the ConfigMap. Without it
// the shared client from client.GetKubeClient is used.
func WithKubeClient(c client.Interface) ConfigMapOption {
	return func(w *ConfigMapWriter) {
		w.client = c
	}
}

// NewConfigMapWriter creates a new ConfigMapWriter that writes to the specified
// namespace and ConfigMap name in the given format.
func NewConfigMapWriter(namespace, name string, format Format, opts ...ConfigMapOption) *ConfigMapWriter {
	w := &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    knownOrJSON(format),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Serialize applies a ConfigMap holding:
//   - snapshot.<ext>: the serialized value (binaryData for CBOR)
//   - format: the format used
//   - timestamp: RFC 3339 time of the write
func (w *ConfigMapWriter) Serialize(ctx context.Context, v any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	cs := w.client
	if cs == nil {
		c, config, err := client.GetKubeClient()
		if err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		slog.Debug("configmap client", "auth_method", client.AuthMethod(config))
		cs = c
	}

	content, err := Marshal(w.format, v)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	key := configMapDataPrefix + w.format.Extension()
	data := map[string]string{
		configMapFormatKey:    string(w.format),
		configMapTimestampKey: time.Now().UTC().Format(time.RFC3339),
	}

	cm := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":       "devcap",
			"app.kubernetes.io/component":  "snapshot",
			"app.kubernetes.io/managed-by": configMapFieldManager,
		})
	if w.format.IsBinary() {
		cm = cm.WithBinaryData(map[string][]byte{key: content})
	} else {
		data[key] = string(content)
	}
	cm = cm.WithData(data)

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"format", w.format,
		"size", len(content))

	// Force takes ownership from earlier field managers.
	_, err = cs.CoreV1().ConfigMaps(w.namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: configMapFieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}
	return nil
}

// Close is a no-op; ConfigMapWriter holds no resources.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// ParseConfigMapURI parses a ConfigMap URI in the format cm://namespace/name
// and returns the namespace and name components.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])
	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name %q is not valid", name)
	}
	return namespace, name, nil
}

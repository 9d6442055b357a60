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

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/device-capability/pkg/collector"
	"github.com/NVIDIA/device-capability/pkg/k8s/client"
	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/serializer"
	"github.com/NVIDIA/device-capability/pkg/snapshotter"
)

// commandRunner replaces the runner used for adb and host commands.
// Nil means the production runners.
var commandRunner probe.Runner

// Flags are built per command so parsed values never leak between runs.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage: `Output destination: file path, ConfigMap URI (cm://namespace/name),
	or OCI reference (oci://registry/repository[:tag]). Default: stdout.`,
	}
}

func formatFlag(def serializer.Format) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   string(def),
		Usage:   fmt.Sprintf("output format (%v)", serializer.SupportedFormats()),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Aliases: []string{"k"},
		Usage:   "Path to kubeconfig file for cm:// URIs (overrides KUBECONFIG env)",
	}
}

// sourceFlags select and configure the snapshot source.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source",
			Value:   string(collector.SourceHost),
			Usage:   fmt.Sprintf("snapshot source (%v)", collector.SupportedSourceKinds()),
			Sources: cli.EnvVars("DEVCAP_SOURCE"),
		},
		&cli.StringFlag{
			Name:    "adb-serial",
			Usage:   "Android device serial when more than one is attached",
			Sources: cli.EnvVars("DEVCAP_ADB_SERIAL"),
		},
		&cli.StringFlag{
			Name:    "adb-path",
			Usage:   "adb binary (default: adb on PATH)",
			Sources: cli.EnvVars("DEVCAP_ADB_PATH"),
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "directory whose filesystem is reported as storage (default: home directory)",
			Sources: cli.EnvVars("DEVCAP_DATA_DIR"),
		},
		&cli.DurationFlag{
			Name:    "probe-timeout",
			Usage:   "per-probe timeout, 0 for the source default",
			Sources: cli.EnvVars("DEVCAP_PROBE_TIMEOUT"),
		},
	}
}

// parseOutputFormat returns the --format value as a Format.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f, err := serializer.ParseFormat(cmd.String("format"))
	if err != nil {
		return "", err
	}
	return f, nil
}

// newSnapshotter builds a snapshotter from the source flags.
func newSnapshotter(cmd *cli.Command) (*snapshotter.DeviceSnapshotter, error) {
	source, err := collector.ParseSourceKind(cmd.String("source"))
	if err != nil {
		return nil, err
	}

	timeout := cmd.Duration("probe-timeout")
	if timeout < 0 {
		return nil, fmt.Errorf("invalid probe timeout %s", timeout)
	}

	opts := []collector.FactoryOption{
		collector.WithADBSerial(cmd.String("adb-serial")),
		collector.WithADBPath(cmd.String("adb-path")),
		collector.WithDataDir(cmd.String("data-dir")),
		collector.WithFactoryProbeTimeout(timeout),
	}
	if commandRunner != nil {
		opts = append(opts, collector.WithRunner(commandRunner))
	}

	return &snapshotter.DeviceSnapshotter{
		Source:  source,
		Factory: collector.NewDefaultFactory(opts...),
	}, nil
}

// newOutput returns the serializer for --output, writing to the command's
// writer when no destination is set.
func newOutput(cmd *cli.Command, format serializer.Format) (serializer.Serializer, error) {
	out := strings.TrimSpace(cmd.String("output"))
	kubeconfig := cmd.String("kubeconfig")

	switch {
	case out == "":
		return serializer.NewWriter(format, writerOf(cmd)), nil
	case strings.HasPrefix(out, serializer.ConfigMapURIScheme) && kubeconfig != "":
		namespace, cmName, err := serializer.ParseConfigMapURI(out)
		if err != nil {
			return nil, err
		}
		cs, _, err := client.GetKubeClientWithConfig(kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
		}
		return serializer.NewConfigMapWriter(namespace, cmName, format, serializer.WithKubeClient(cs)), nil
	default:
		return serializer.NewFileWriterOrStdout(format, out), nil
	}
}

func closeOutput(s serializer.Serializer) {
	if c, ok := s.(serializer.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}
}

func writerOf(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func withDefaultTimeout(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

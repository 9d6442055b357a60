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
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/device-capability/pkg/serializer"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("76"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true).Width(10)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)

	thermalStyles = map[snapshot.ThermalState]lipgloss.Style{
		snapshot.ThermalNormal:   lipgloss.NewStyle().Foreground(lipgloss.Color("76")),
		snapshot.ThermalFair:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		snapshot.ThermalSerious:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		snapshot.ThermalCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	gaugeFill  = "█"
	gaugeEmpty = "░"
)

const (
	gaugeWidth = 20
	gib        = 1 << 30
)

func summaryCmd() *cli.Command {
	return &cli.Command{
		Name:                  "summary",
		EnableShellCompletion: true,
		Usage:                 "Render a snapshot as a human readable card",
		Description: `Without --snapshot a fresh snapshot is taken from --source.

# Examples

  devcap summary
  devcap summary --source android
  devcap summary --snapshot pixel.yaml`,
		Flags: append(sourceFlags(),
			&cli.StringFlag{
				Name:    "snapshot",
				Aliases: []string{"s"},
				Usage:   "Path/URI of an existing snapshot (file, HTTP/HTTPS URL or cm://namespace/name)",
			},
			kubeconfigFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var (
				snap *snapshot.Snapshot
				err  error
			)

			if path := cmd.String("snapshot"); path != "" {
				snap, err = serializer.FromFileWithKubeconfig[snapshot.Snapshot](ctx, path, cmd.String("kubeconfig"))
				if err != nil {
					return fmt.Errorf("failed to load snapshot from %q: %w", path, err)
				}
			} else {
				d, derr := newSnapshotter(cmd)
				if derr != nil {
					return derr
				}
				if snap, err = d.Collect(ctx); err != nil {
					return fmt.Errorf("snapshot failed: %w", err)
				}
			}

			if verr := snap.Validate(); verr != nil {
				slog.Warn("rendering an invalid snapshot", "error", verr)
			}

			_, err = fmt.Fprintln(writerOf(cmd), renderSummary(snap))
			return err
		},
	}
}

// renderSummary formats a snapshot as a bordered card.
func renderSummary(s *snapshot.Snapshot) string {
	header := titleStyle.Render(displayModel(s.DeviceModel)) + "  " +
		subtleStyle.Render(platformLine(s))

	rows := []string{
		row("CPU", cpuLine(s)),
		row("Memory", fmt.Sprintf("%s  %.1f / %.1f GiB",
			gaugeBar(ratio(s.UsedRAMBytes, s.TotalRAMBytes)),
			float64(s.UsedRAMBytes)/gib, float64(s.TotalRAMBytes)/gib)),
		row("Storage", storageLine(s)),
		row("Battery", batteryLine(s)),
		row("Thermal", thermalStyles[s.ThermalState].Render(s.ThermalState.String())),
		row("Display", fmt.Sprintf("%.0f x %.0f px @ %gx", s.ScreenWidth, s.ScreenHeight, s.ScreenDensity)),
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{header, ""}, rows...)...))
}

// displayModel title-cases a manufacturer written in a single case, so
// "samsung SM-S918B" and "LENOVO 21CB" read "Samsung SM-S918B" and
// "Lenovo 21CB". Mixed case names are kept.
func displayModel(model string) string {
	maker, rest, ok := strings.Cut(strings.TrimSpace(model), " ")
	if maker == strings.ToLower(maker) || maker == strings.ToUpper(maker) {
		maker = cases.Title(language.English).String(maker)
	}
	if !ok {
		return maker
	}
	return maker + " " + rest
}

func platformLine(s *snapshot.Snapshot) string {
	if s.SDKLevel != nil {
		return fmt.Sprintf("%s (SDK %d)", s.Platform, *s.SDKLevel)
	}
	return string(s.Platform)
}

func cpuLine(s *snapshot.Snapshot) string {
	line := fmt.Sprintf("%d cores", s.CPUCores)
	if s.ProcessorFrequency != nil {
		line += fmt.Sprintf(" @ %d MHz", *s.ProcessorFrequency)
	}
	return line
}

func storageLine(s *snapshot.Snapshot) string {
	if !s.HasStorage() {
		return subtleStyle.Render("unavailable")
	}
	total, free := *s.TotalStorageBytes, *s.FreeStorageBytes
	return fmt.Sprintf("%s  %.1f GiB free of %.1f GiB",
		gaugeBar(ratio(total-free, total)), float64(free)/gib, float64(total)/gib)
}

func batteryLine(s *snapshot.Snapshot) string {
	var flags []string
	if s.IsCharging {
		flags = append(flags, "charging")
	}
	if s.LowPowerModeEnabled {
		flags = append(flags, "low power")
	}
	line := gaugeBar(s.BatteryLevel)
	if len(flags) > 0 {
		line += "  " + strings.Join(flags, ", ")
	}
	return line
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func ratio(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

// gaugeBar renders r in [0,1] as a bar with a percentage. NaN renders empty.
func gaugeBar(r float64) string {
	if math.IsNaN(r) {
		r = 0
	}
	r = max(0, min(1, r))
	filled := int(r * gaugeWidth)
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, gaugeWidth-filled),
		r*100)
}

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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

func TestDisplayModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "google Pixel 8", want: "Google Pixel 8"},
		{in: "samsung SM-S918B", want: "Samsung SM-S918B"},
		{in: "LENOVO 21CB", want: "Lenovo 21CB"},
		{in: "MacBookPro18,3", want: "MacBookPro18,3"},
		{in: "unknown", want: "Unknown"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, displayModel(tt.in))
		})
	}
}

func TestGaugeBar(t *testing.T) {
	assert.Contains(t, gaugeBar(0.5), " 50%")
	assert.Contains(t, gaugeBar(-1), "  0%")
	assert.Contains(t, gaugeBar(2), "100%")
	assert.Equal(t, 10, countRune(gaugeBar(0.5), '█'))
	assert.Contains(t, gaugeBar(math.NaN()), "  0%")
	assert.Contains(t, gaugeBar(math.Inf(1)), "100%")
}

func TestRenderSummary_NonFiniteValues(t *testing.T) {
	s := pixelSnapshot()
	s.BatteryLevel = math.NaN()
	s.ScreenDensity = math.NaN()

	var out string
	require.NotPanics(t, func() { out = renderSummary(s) })
	assert.Contains(t, out, "Battery")
}

func countRune(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}

func TestRenderSummary(t *testing.T) {
	out := renderSummary(pixelSnapshot())

	for _, want := range []string{
		"Google Pixel 8",
		"android (SDK 34)",
		"8 cores @ 2914 MHz",
		"3.0 / 6.0 GiB",
		"32.0 GiB free of 128.0 GiB",
		" 73%",
		"charging",
		"serious",
		"1080 x 2400 px @ 2.625x",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderSummary_Defaults(t *testing.T) {
	out := renderSummary(snapshot.New(snapshot.PlatformLinux))

	assert.Contains(t, out, "linux")
	assert.NotContains(t, out, "SDK")
	assert.Contains(t, out, "1 cores")
	assert.NotContains(t, out, "MHz")
	assert.Contains(t, out, "unavailable")
	assert.Contains(t, out, "normal")
}

func TestSummaryCommand_FromFile(t *testing.T) {
	path := writeFixture(t, "pixel.json", pixelSnapshot())

	out, err := runCLI(t, "summary", "--snapshot", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Google Pixel 8")
	assert.Contains(t, out, "serious")
}

func TestSummaryCommand_NaNBatteryFromFile(t *testing.T) {
	s := pixelSnapshot()
	s.BatteryLevel = math.NaN()
	path := writeFixture(t, "nan.yaml", s)

	out, err := runCLI(t, "summary", "--snapshot", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Google Pixel 8")
	assert.Contains(t, out, "  0%")
}

func TestSummaryCommand_Live(t *testing.T) {
	useRunner(t, cannedRunner{sdkProp: "34"})

	out, err := runCLI(t, "summary", "--source", "android")
	require.NoError(t, err)
	assert.Contains(t, out, "Unknown")
	assert.Contains(t, out, "android")
}

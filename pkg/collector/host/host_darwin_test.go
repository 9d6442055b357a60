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

//go:build darwin

package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

type cannedRunner map[string]string

func (c cannedRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := name
	for _, a := range args {
		key += " " + a
	}
	return c[key], nil
}

func TestParseTherm(t *testing.T) {
	state, err := parseTherm("Note: No thermal warning level has been recorded\n")
	require.NoError(t, err)
	assert.Equal(t, snapshot.ThermalNormal, state)

	state, err = parseTherm("CPU_Scheduler_Limit \t= 100\nCPU_Available_CPUs \t= 8\nCPU_Speed_Limit \t= 55\n")
	require.NoError(t, err)
	assert.Equal(t, snapshot.ThermalSerious, state)

	_, err = parseTherm("CPU_Speed_Limit = fast")
	assert.Error(t, err)
}

func TestParseLowPowerMode(t *testing.T) {
	on, err := parseLowPowerMode("System-wide power settings:\nCurrently in use:\n standby              1\n lowpowermode         1\n")
	require.NoError(t, err)
	assert.True(t, on)

	_, err = parseLowPowerMode("Currently in use:\n standby 1\n")
	assert.ErrorIs(t, err, probe.ErrUnsupported)
}

func TestParseBatt(t *testing.T) {
	b, err := parseBatt("Now drawing from 'AC Power'\n -InternalBattery-0 (id=4653155)\t73%; charging; 1:02 remaining present: true\n")
	require.NoError(t, err)
	assert.Equal(t, probe.Battery{Level: 73, Scale: 100, Status: probe.ChargeCharging}, b)

	b, err = parseBatt(" -InternalBattery-0 (id=1)\t100%; charged; 0:00 remaining present: true")
	require.NoError(t, err)
	assert.Equal(t, probe.ChargeFull, b.Status)

	_, err = parseBatt("Now drawing from 'AC Power'\n")
	assert.ErrorIs(t, err, probe.ErrUnsupported)
}

func TestParseSPDisplays(t *testing.T) {
	data := `{"SPDisplaysDataType":[{"spdisplays_ndrvs":[
		{"_spdisplays_pixels":"3840 x 2160","_spdisplays_resolution":"1920 x 1080 @ 60.00Hz"},
		{"_spdisplays_pixels":"3024 x 1964","_spdisplays_resolution":"1512 x 982 @ 120.00Hz","spdisplays_main":"spdisplays_yes"}
	]}]}`

	d, err := parseSPDisplays([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, probe.Display{Width: 1512, Height: 982, Scale: 2, Logical: true}, d)

	_, err = parseSPDisplays([]byte(`{"SPDisplaysDataType":[]}`))
	assert.ErrorIs(t, err, probe.ErrUnsupported)

	_, err = parseSPDisplays([]byte(`not json`))
	assert.Error(t, err)
}

func TestDarwinSourceWithRunner(t *testing.T) {
	src, err := New(WithRunner(cannedRunner{
		"pmset -g therm": "CPU_Speed_Limit = 100",
		"pmset -g batt":  " -InternalBattery-0 (id=1)\t40%; discharging; 3:00 remaining present: true",
	}))
	require.NoError(t, err)
	assert.Equal(t, snapshot.PlatformDarwin, src.Platform())

	state, err := src.ThermalState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snapshot.ThermalNormal, state)

	b, err := src.Battery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, b.Level)
	assert.Equal(t, probe.ChargeDischarging, b.Status)
}

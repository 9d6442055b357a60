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

package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	p := NewParser()
	assert.Equal(t, "\n", p.delimiter)
	assert.Equal(t, 1<<20, p.maxSize)
	assert.True(t, p.skipComments)
	assert.Equal(t, "=", p.kvDelimiter)
	assert.Empty(t, p.vDefault)
	assert.False(t, p.skipEmptyValues)

	p = NewParser(
		WithDelimiter(";"),
		WithMaxSize(16),
		WithSkipComments(false),
		WithKVDelimiter(":"),
		WithVDefault("true"),
		WithVTrimChars(`"`),
		WithSkipEmptyValues(true),
	)
	assert.Equal(t, ";", p.delimiter)
	assert.Equal(t, 16, p.maxSize)
	assert.False(t, p.skipComments)
	assert.Equal(t, ":", p.kvDelimiter)
	assert.Equal(t, "true", p.vDefault)
	assert.Equal(t, `"`, p.vTrimChars)
	assert.True(t, p.skipEmptyValues)
}

func TestParseMap_DumpsysBattery(t *testing.T) {
	out := `Current Battery Service state:
  AC powered: false
  USB powered: true
  Wireless powered: false
  status: 2
  health: 2
  present: true
  level: 73
  scale: 100
  voltage: 4123
  technology: Li-ion`

	m := NewParser(WithKVDelimiter(":")).ParseMap(out)

	assert.Equal(t, "73", m["level"])
	assert.Equal(t, "100", m["scale"])
	assert.Equal(t, "2", m["status"])
	assert.Equal(t, "true", m["USB powered"])
	assert.Equal(t, "Li-ion", m["technology"])
	assert.Contains(t, m, "Current Battery Service state")
}

func TestParseMap_Options(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		content string
		want    map[string]string
	}{
		{
			name:    "os-release style with quotes",
			opts:    []Option{WithVTrimChars(`"`)},
			content: "NAME=\"Ubuntu\"\nVERSION_ID=\"24.04\"\n# comment\n",
			want:    map[string]string{"NAME": "Ubuntu", "VERSION_ID": "24.04"},
		},
		{
			name:    "key only uses default",
			opts:    []Option{WithVDefault("enabled")},
			content: "quiet\nsplash=1",
			want:    map[string]string{"quiet": "enabled", "splash": "1"},
		},
		{
			name:    "skip empty values",
			opts:    []Option{WithSkipEmptyValues(true)},
			content: "a=\nb=2\nc",
			want:    map[string]string{"b": "2"},
		},
		{
			name:    "value keeps later delimiters",
			opts:    []Option{WithKVDelimiter(":")},
			content: "time: 12:30:00",
			want:    map[string]string{"time": "12:30:00"},
		},
		{
			name:    "comments kept when disabled",
			opts:    []Option{WithSkipComments(false)},
			content: "#x=1",
			want:    map[string]string{"#x": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewParser(tt.opts...).ParseMap(tt.content))
		})
	}
}

func TestParseLines(t *testing.T) {
	lines := NewParser().ParseLines("  one \n\n# skip\ntwo\n\t\nthree")
	assert.Equal(t, []string{"one", "two", "three"}, lines)

	lines = NewParser(WithDelimiter(",")).ParseLines("0-3, 5,,7")
	assert.Equal(t, []string{"0-3", "5", "7"}, lines)
}

func TestGetMap_Meminfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meminfo")
	content := "MemTotal:        8000000 kB\nMemFree:          500000 kB\nMemAvailable:    3000000 kB\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m, err := NewParser(WithKVDelimiter(":")).GetMap(path)
	require.NoError(t, err)
	assert.Equal(t, "8000000 kB", m["MemTotal"])
	assert.Equal(t, "3000000 kB", m["MemAvailable"])
}

func TestGetLines_Errors(t *testing.T) {
	p := NewParser()

	_, err := p.GetLines("")
	assert.Error(t, err)

	_, err = p.GetLines(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	dir := t.TempDir()
	big := filepath.Join(dir, "big")
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat("x", 64)), 0o600))
	_, err = NewParser(WithMaxSize(16)).GetLines(big)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size")

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe, 0xfd}, 0o600))
	_, err = p.GetMap(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestReadInt(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "cpuinfo_max_freq")
	require.NoError(t, os.WriteFile(good, []byte("2910000\n"), 0o600))

	v, err := ReadInt(good)
	require.NoError(t, err)
	assert.Equal(t, int64(2910000), v)

	bad := filepath.Join(dir, "status")
	require.NoError(t, os.WriteFile(bad, []byte("Charging\n"), 0o600))
	_, err = ReadInt(bad)
	assert.Error(t, err)

	s, err := ReadString(bad)
	require.NoError(t, err)
	assert.Equal(t, "Charging", s)

	_, err = ReadString(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

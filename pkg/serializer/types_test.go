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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, name := range SupportedFormats() {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	f, err := ParseFormat(" CBOR ")
	require.NoError(t, err)
	assert.Equal(t, FormatCBOR, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestFormatFromMediaType(t *testing.T) {
	tests := []struct {
		in     string
		want   Format
		wantOK bool
	}{
		{in: "application/json", want: FormatJSON, wantOK: true},
		{in: "application/json; charset=utf-8", want: FormatJSON, wantOK: true},
		{in: "application/vnd.nvidia.devcap.v1+json", want: FormatJSON, wantOK: true},
		{in: "application/yaml", want: FormatYAML, wantOK: true},
		{in: "application/x-yaml", want: FormatYAML, wantOK: true},
		{in: "application/cbor", want: FormatCBOR, wantOK: true},
		{in: "text/plain", want: FormatTable, wantOK: true},
		{in: "image/png"},
		{in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := FormatFromMediaType(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Attributes(t *testing.T) {
	assert.Equal(t, "application/cbor", FormatCBOR.MediaType())
	assert.Equal(t, "cbor", FormatCBOR.Extension())
	assert.True(t, FormatCBOR.IsBinary())
	assert.False(t, FormatYAML.IsBinary())
	assert.Equal(t, "txt", FormatTable.Extension())
	assert.Equal(t, MediaTypeJSON, Format("bogus").MediaType())
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("snap.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("/tmp/SNAP.YML"))
	assert.Equal(t, FormatCBOR, FormatFromPath("snap.cbor"))
	assert.Equal(t, FormatTable, FormatFromPath("snap.txt"))
	assert.Equal(t, FormatYAML, FormatFromPath("https://example.com/s/snap.yaml?sig=abc"))
	assert.Equal(t, FormatJSON, FormatFromPath("snapshot"))
}

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

//go:build android

package host

import (
	"github.com/NVIDIA/device-capability/pkg/collector/android"
	"github.com/NVIDIA/device-capability/pkg/probe"
)

// On Android the binary runs inside the device; the shell queries of the
// android package run locally.
func newPlatformSource(s *Source) (probe.Source, error) {
	return android.New(s.runner), nil
}

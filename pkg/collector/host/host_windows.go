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

//go:build windows

package host

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/NVIDIA/device-capability/pkg/probe"
	"github.com/NVIDIA/device-capability/pkg/snapshot"
)

const (
	biosKey = `HARDWARE\DESCRIPTION\System\BIOS`

	smCXScreen = 0
	smCYScreen = 1
	defaultDPI = 96
	logPixelsX = 88

	// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 is the handle value -4.
	dpiAwarenessContextPerMonitorAwareV2 = ^uintptr(3)

	batteryFlagCharging   = 8
	batteryFlagNoBattery  = 128
	batteryFlagUnknown    = 255
	batteryPercentUnknown = 255
	acLineOnline          = 1
	batterySaverOn        = 1
)

var (
	kernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procGetSystemPowerStatus = kernel32.NewProc("GetSystemPowerStatus")
	procGetSystemMetrics     = user32.NewProc("GetSystemMetrics")
	procGetDpiForSystem      = user32.NewProc("GetDpiForSystem")
	procGetDC                = user32.NewProc("GetDC")
	procReleaseDC            = user32.NewProc("ReleaseDC")
	procSetProcessDPIAware   = user32.NewProc("SetProcessDPIAware")
	procSetThreadDpiAwareCtx = user32.NewProc("SetThreadDpiAwarenessContext")
	gdi32                    = windows.NewLazySystemDLL("gdi32.dll")
	procGetDeviceCaps        = gdi32.NewProc("GetDeviceCaps")
)

// systemPowerStatus mirrors SYSTEM_POWER_STATUS.
type systemPowerStatus struct {
	ACLineStatus        byte
	BatteryFlag         byte
	BatteryLifePercent  byte
	SystemStatusFlag    byte
	BatteryLifeTime     uint32
	BatteryFullLifeTime uint32
}

var _ probe.Source = (*Source)(nil)

func newPlatformSource(s *Source) (probe.Source, error) {
	s.platform = snapshot.PlatformWindows
	return s, nil
}

// Memory implements probe.Source. Used is total minus available.
func (s *Source) Memory(ctx context.Context) (probe.Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return probe.Memory{}, fmt.Errorf("failed to read virtual memory: %w", err)
	}
	return probe.Memory{
		TotalBytes: clampInt64(vm.Total),
		UsedBytes:  clampInt64(vm.Total - vm.Available),
	}, nil
}

// DeviceModel implements probe.Source from the BIOS manufacturer and
// product name.
func (s *Source) DeviceModel(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, biosKey, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", biosKey, err)
	}
	defer k.Close()

	vendor, _, _ := k.GetStringValue("SystemManufacturer")
	product, _, _ := k.GetStringValue("SystemProductName")
	model := strings.TrimSpace(strings.TrimSpace(vendor) + " " + strings.TrimSpace(product))
	if model == "" {
		return "", fmt.Errorf("bios reports no model: %w", probe.ErrUnsupported)
	}
	return model, nil
}

// ThermalState implements probe.Source. Windows exposes no unprivileged
// thermal pressure signal.
func (s *Source) ThermalState(context.Context) (snapshot.ThermalState, error) {
	return snapshot.DefaultThermalState, probe.ErrUnsupported
}

// LowPowerMode implements probe.Source from the battery saver flag.
func (s *Source) LowPowerMode(ctx context.Context) (bool, error) {
	st, err := powerStatus(ctx)
	if err != nil {
		return false, err
	}
	return st.SystemStatusFlag == batterySaverOn, nil
}

// Battery implements probe.Source.
func (s *Source) Battery(ctx context.Context) (probe.Battery, error) {
	st, err := powerStatus(ctx)
	if err != nil {
		return probe.Battery{}, err
	}
	return decodePowerStatus(st)
}

// Display implements probe.Source with the primary screen size in physical
// pixels and the system DPI scale. The size is read from a DPI-aware thread;
// an unaware thread would see the virtualized logical size and a DPI of 96.
func (s *Source) Display(ctx context.Context) (probe.Display, error) {
	if err := ctx.Err(); err != nil {
		return probe.Display{}, err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	restore := enterDPIAware()
	defer restore()

	w, _, _ := procGetSystemMetrics.Call(smCXScreen)
	h, _, _ := procGetSystemMetrics.Call(smCYScreen)
	if w == 0 || h == 0 {
		return probe.Display{}, fmt.Errorf("no primary screen: %w", probe.ErrUnsupported)
	}
	return physicalDisplay(w, h, systemDPI()), nil
}

// enterDPIAware makes the calling thread per-monitor DPI aware and returns a
// func restoring its previous context. Windows builds without thread contexts
// (before 10 1607) fall back to process-wide system DPI awareness.
func enterDPIAware() func() {
	if procSetThreadDpiAwareCtx.Find() == nil {
		if prev, _, _ := procSetThreadDpiAwareCtx.Call(dpiAwarenessContextPerMonitorAwareV2); prev != 0 {
			return func() { procSetThreadDpiAwareCtx.Call(prev) } //nolint:errcheck
		}
	}
	if procSetProcessDPIAware.Find() == nil {
		procSetProcessDPIAware.Call() //nolint:errcheck
	}
	return func() {}
}

// systemDPI returns the system DPI as seen by a DPI-aware thread.
func systemDPI() uintptr {
	if procGetDpiForSystem.Find() == nil {
		if v, _, _ := procGetDpiForSystem.Call(); v > 0 {
			return v
		}
	}
	if procGetDC.Find() != nil || procGetDeviceCaps.Find() != nil {
		return defaultDPI
	}
	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return defaultDPI
	}
	defer procReleaseDC.Call(0, hdc) //nolint:errcheck
	if v, _, _ := procGetDeviceCaps.Call(hdc, logPixelsX); v > 0 {
		return v
	}
	return defaultDPI
}

// physicalDisplay builds the reading for a screen already measured in
// physical pixels.
func physicalDisplay(w, h, dpi uintptr) probe.Display {
	if dpi == 0 {
		dpi = defaultDPI
	}
	return probe.Display{
		Width:  float64(w),
		Height: float64(h),
		Scale:  float64(dpi) / defaultDPI,
	}
}

// MaxCPUFrequencyMHz implements probe.Source.
func (s *Source) MaxCPUFrequencyMHz(ctx context.Context) (int64, error) {
	return maxCPUInfoMHz(ctx)
}

func powerStatus(ctx context.Context) (systemPowerStatus, error) {
	var st systemPowerStatus
	if err := ctx.Err(); err != nil {
		return st, err
	}
	if err := procGetSystemPowerStatus.Find(); err != nil {
		return st, fmt.Errorf("GetSystemPowerStatus: %w", probe.ErrUnsupported)
	}
	r, _, callErr := procGetSystemPowerStatus.Call(uintptr(unsafe.Pointer(&st)))
	if r == 0 {
		return st, fmt.Errorf("GetSystemPowerStatus: %w", callErr)
	}
	return st, nil
}

func decodePowerStatus(st systemPowerStatus) (probe.Battery, error) {
	if st.BatteryFlag == batteryFlagUnknown || st.BatteryFlag&batteryFlagNoBattery != 0 {
		return probe.Battery{}, fmt.Errorf("no system battery: %w", probe.ErrUnsupported)
	}

	b := probe.Battery{Level: int(st.BatteryLifePercent), Scale: 100}
	if st.BatteryLifePercent == batteryPercentUnknown {
		b.Level = -1
	}

	switch {
	case st.BatteryFlag&batteryFlagCharging != 0:
		b.Status = probe.ChargeCharging
	case st.ACLineStatus == acLineOnline && b.Level == 100:
		b.Status = probe.ChargeFull
	case st.ACLineStatus == acLineOnline:
		b.Status = probe.ChargeNotCharging
	default:
		b.Status = probe.ChargeDischarging
	}
	return b, nil
}

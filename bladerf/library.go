// Package bladerf is a typed interface to Nuand bladeRF radios.
//
// Call Init once with a native.Library (libbladerf.Load for hardware, or
// sim.New for a simulated board) before opening devices.
package bladerf

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/native"
)

// EnvFPGABitstream names the variable read by LoadFPGAFromEnv.
const EnvFPGABitstream = "BLADERF_FPGA_BITSTREAM_PATH"

// EnvFirmware names the firmware image path used by tooling.
const EnvFirmware = "BLADERF_FIRMWARE_PATH"

var (
	libMu sync.RWMutex
	lib   native.Library
)

// Init selects the native library used by every later call.
func Init(l native.Library) {
	libMu.Lock()
	lib = l
	libMu.Unlock()
	if l != nil {
		v := l.LibVersion()
		log.Debugf("Using libbladeRF %s", versionFromNative(v))
	}
}

func library() (native.Library, error) {
	libMu.RLock()
	defer libMu.RUnlock()
	if lib == nil {
		return nil, &Error{Kind: KindNotInit, Msg: "bladerf.Init has not been called"}
	}
	return lib, nil
}

// LibraryVersion reports the native library version.
func LibraryVersion() (Version, error) {
	l, err := library()
	if err != nil {
		return Version{}, err
	}
	return versionFromNative(l.LibVersion()), nil
}

// DeviceList enumerates attached devices.
func DeviceList() ([]DevInfo, error) {
	l, err := library()
	if err != nil {
		return nil, err
	}
	raw, code := l.DeviceList()
	if _, err := checkCount(code); err != nil {
		return nil, err
	}
	infos := make([]DevInfo, 0, len(raw))
	for _, r := range raw {
		infos = append(infos, devInfoFromNative(r))
	}
	return infos, nil
}

// SetUSBResetOnOpen makes later opens reset the USB device first.
func SetUSBResetOnOpen(enabled bool) error {
	l, err := library()
	if err != nil {
		return err
	}
	l.SetUSBResetOnOpen(enabled)
	return nil
}

//go:build cgo

package libbladerf

// #include "shim.h"
import "C"

import (
	"sync"

	"github.com/jrwynneiii/gobladerf/native"
)

var (
	logMu sync.RWMutex
	logCb native.LogCallback
)

//export gobladerfLogThunk
func gobladerfLogThunk(level C.int, msg *C.char) {
	logMu.RLock()
	cb := logCb
	logMu.RUnlock()
	if cb == nil || msg == nil {
		return
	}
	cb(int32(level), C.GoString(msg))
}

// LogSetCallback routes native log output to cb. A nil cb detaches the
// hook. Builds of libbladeRF without a log hook return
// BLADERF_ERR_UNSUPPORTED.
func (Library) LogSetCallback(cb native.LogCallback) int {
	logMu.Lock()
	defer logMu.Unlock()
	enable := C.int(0)
	if cb != nil {
		enable = 1
	}
	if rc := C.gobladerf_log_set_callback(enable); rc != 0 {
		return int(rc)
	}
	logCb = cb
	return 0
}

// void bladerf_log_set_verbosity(bladerf_log_level level);
func (Library) LogSetVerbosity(level int32) {
	C.bladerf_log_set_verbosity(C.bladerf_log_level(level))
}

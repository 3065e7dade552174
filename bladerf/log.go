package bladerf

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/native"
)

// LogHandler receives native log lines with trailing whitespace removed.
type LogHandler func(level LogLevel, msg string)

// The native library holds a single callback; it always points at
// dispatchLog once a handler is installed, and dispatchLog reads logSlot.
var logSlot struct {
	sync.RWMutex
	handler LogHandler
}

func dispatchLog(level int32, msg string) {
	logSlot.RLock()
	defer logSlot.RUnlock()
	if logSlot.handler == nil {
		return
	}
	lvl, err := LogLevelFromNative(level)
	if err != nil {
		lvl = LogInfo
	}
	logSlot.handler(lvl, strings.TrimRight(msg, " \t\r\n"))
}

// SetLogLevel sets the native library verbosity.
func SetLogLevel(level LogLevel) error {
	l, err := library()
	if err != nil {
		return err
	}
	l.LogSetVerbosity(int32(level))
	return nil
}

// SetLogHandler routes native log output to h, replacing any previous
// handler. A nil h restores the library's default stderr output.
func SetLogHandler(h LogHandler) error {
	l, err := library()
	if err != nil {
		return err
	}
	logSlot.Lock()
	defer logSlot.Unlock()
	var cb native.LogCallback
	if h != nil {
		cb = dispatchLog
	}
	if err := check(l.LogSetCallback(cb)); err != nil {
		return err
	}
	logSlot.handler = h
	return nil
}

// SetRawLogCallback installs cb directly as the native callback. Any
// handler installed with SetLogHandler is dropped.
func SetRawLogCallback(cb native.LogCallback) error {
	l, err := library()
	if err != nil {
		return err
	}
	logSlot.Lock()
	defer logSlot.Unlock()
	if err := check(l.LogSetCallback(cb)); err != nil {
		return err
	}
	logSlot.handler = nil
	return nil
}

// CharmLogHandler forwards native log lines to the charmbracelet logger.
func CharmLogHandler(logger *log.Logger) LogHandler {
	if logger == nil {
		logger = log.Default()
	}
	return func(level LogLevel, msg string) {
		switch level {
		case LogVerbose, LogDebug:
			logger.Debug(msg, "src", "libbladeRF")
		case LogInfo:
			logger.Info(msg, "src", "libbladeRF")
		case LogWarning:
			logger.Warn(msg, "src", "libbladeRF")
		case LogError, LogCritical:
			logger.Error(msg, "src", "libbladeRF")
		}
	}
}

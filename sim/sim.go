// Package sim is an in-memory bladeRF. It implements native.Library with a
// stateful model of bladeRF 1 and bladeRF 2.0 boards and an XB-200, and
// records every call so tests can check what reached the "hardware".
package sim

import (
	"bytes"
	"fmt"
	"sync"
	"unsafe"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/native"
)

// DeviceConfig describes one simulated board.
type DeviceConfig struct {
	// Board is "bladerf1" or "bladerf2".
	Board  string
	Serial string
	// XB200 fits a transverter board (bladerf1 only).
	XB200 bool
	// Jumpers wires pairs of expansion GPIO pins together.
	Jumpers [][2]uint8
	// ToneHz is the offset of the generated RX tone. Zero uses rate/8.
	ToneHz float64
	// USBBus and USBAddr place the board on the bus.
	USBBus  uint8
	USBAddr uint8
}

// Library is a simulated libbladeRF.
type Library struct {
	mu       sync.Mutex
	boards   []DeviceConfig
	devices  map[native.Device]*device
	calls    map[string]int
	faults   map[string]int
	skips    map[string]int
	usbReset bool
	level    int32
	logCb    native.LogCallback
}

// New returns a library with the given boards attached. With no arguments
// a single bladeRF 2.0 is attached.
func New(boards ...DeviceConfig) *Library {
	if len(boards) == 0 {
		boards = []DeviceConfig{{Board: "bladerf2"}}
	}
	for i := range boards {
		if boards[i].Board == "" {
			boards[i].Board = "bladerf2"
		}
		if boards[i].Serial == "" {
			boards[i].Serial = fmt.Sprintf("%032x", 0xb1ade0000+i)
		}
		if boards[i].USBAddr == 0 {
			boards[i].USBBus = 2
			boards[i].USBAddr = uint8(3 + i)
		}
	}
	return &Library{
		boards:  boards,
		devices: make(map[native.Device]*device),
		calls:   make(map[string]int),
		faults:  make(map[string]int),
		skips:   make(map[string]int),
		level:   int32(2),
	}
}

// Fail makes the next call to op return code.
func (l *Library) Fail(op string, code int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.faults[op] = code
}

// FailAfter lets the next n calls to op succeed and makes the one after
// return code.
func (l *Library) FailAfter(op string, n int, code int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.faults[op] = code
	l.skips[op] = n
}

// Calls returns how many times op has been called.
func (l *Library) Calls(op string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[op]
}

// ResetCalls zeroes every call counter.
func (l *Library) ResetCalls() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.calls)
}

// OpenCount returns the number of devices currently open.
func (l *Library) OpenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.devices)
}

// USBResetOnOpen reports the last SetUSBResetOnOpen value.
func (l *Library) USBResetOnOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.usbReset
}

// Emit delivers a log line through the installed callback, if it passes
// the current verbosity.
func (l *Library) Emit(level int32, msg string) {
	l.mu.Lock()
	cb, threshold := l.logCb, l.level
	l.mu.Unlock()
	if cb == nil || level < threshold {
		return
	}
	cb(level, msg)
}

// enter counts op and returns any injected failure. l.mu must be held.
func (l *Library) enter(op string) int {
	l.calls[op]++
	if l.skips[op] > 0 {
		l.skips[op]--
		return 0
	}
	if code, ok := l.faults[op]; ok {
		delete(l.faults, op)
		return code
	}
	return 0
}

// lookup counts op and returns the open device behind dev. l.mu must be held.
func (l *Library) lookup(op string, dev native.Device) (*device, int) {
	if code := l.enter(op); code != 0 {
		return nil, code
	}
	d, ok := l.devices[dev]
	if !ok {
		return nil, native.ErrNoDev
	}
	return d, 0
}

func (l *Library) LibVersion() native.Version {
	return native.Version{Major: 2, Minor: 5, Patch: 0, Describe: "2.5.0-sim"}
}

func (l *Library) DeviceList() ([]native.DevInfo, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code := l.enter("DeviceList"); code != 0 {
		return nil, code
	}
	if len(l.boards) == 0 {
		return nil, native.ErrNoDev
	}
	infos := make([]native.DevInfo, len(l.boards))
	for i, b := range l.boards {
		infos[i] = devInfo(b, i)
	}
	return infos, len(infos)
}

func (l *Library) SetUSBResetOnOpen(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("SetUSBResetOnOpen")
	l.usbReset = enabled
}

func (l *Library) LogSetVerbosity(level int32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enter("LogSetVerbosity")
	l.level = level
}

func (l *Library) LogSetCallback(cb native.LogCallback) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if code := l.enter("LogSetCallback"); code != 0 {
		return code
	}
	l.logCb = cb
	return 0
}

func devInfo(b DeviceConfig, instance int) native.DevInfo {
	var info native.DevInfo
	info.Backend = 2
	copy(info.Serial[:native.SerialLen], b.Serial)
	info.USBBus = b.USBBus
	info.USBAddr = b.USBAddr
	info.Instance = uint32(instance)
	copy(info.Manufacturer[:32], "Nuand")
	product := "bladeRF 2.0"
	if b.Board == "bladerf1" {
		product = "bladeRF"
	}
	copy(info.Product[:32], product)
	return info
}

// match reports whether identifier selects board b. Only the serial=
// field of a device identifier is interpreted.
func match(identifier string, b DeviceConfig) bool {
	if identifier == "" {
		return true
	}
	var serial string
	for _, part := range splitIdentifier(identifier) {
		if len(part) > 7 && part[:7] == "serial=" {
			serial = part[7:]
		}
	}
	if serial == "" {
		return true
	}
	return len(serial) <= len(b.Serial) && b.Serial[:len(serial)] == serial
}

func splitIdentifier(s string) []string {
	var parts []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ':' || s[i] == ' ' {
			if i > start {
				parts = append(parts, s[start:i])
			}
			start = i + 1
		}
	}
	return parts
}

func (l *Library) openBoard(op string, pick func(int, DeviceConfig) bool) (native.Device, int) {
	l.mu.Lock()
	if code := l.enter(op); code != 0 {
		l.mu.Unlock()
		return nil, code
	}
	for i, b := range l.boards {
		if !pick(i, b) || l.isOpen(i) {
			continue
		}
		d := newDevice(b, i)
		key := native.Device(unsafe.Pointer(d))
		l.devices[key] = d
		l.mu.Unlock()
		log.Debugf("sim: opened %s %s", b.Board, b.Serial)
		l.Emit(2, fmt.Sprintf("Opened %s %s\n", b.Board, b.Serial))
		return key, 0
	}
	l.mu.Unlock()
	return nil, native.ErrNoDev
}

func (l *Library) isOpen(index int) bool {
	for _, d := range l.devices {
		if d.index == index {
			return true
		}
	}
	return false
}

func (l *Library) Open(identifier string) (native.Device, int) {
	return l.openBoard("Open", func(_ int, b DeviceConfig) bool { return match(identifier, b) })
}

func (l *Library) OpenWithDevInfo(info *native.DevInfo) (native.Device, int) {
	if info == nil {
		return nil, native.ErrInval
	}
	serial := cstr(info.Serial[:])
	return l.openBoard("OpenWithDevInfo", func(_ int, b DeviceConfig) bool { return b.Serial == serial })
}

func (l *Library) Close(dev native.Device) {
	l.mu.Lock()
	l.enter("Close")
	d, ok := l.devices[dev]
	delete(l.devices, dev)
	l.mu.Unlock()
	if ok {
		l.Emit(1, "Closed "+d.cfg.Serial+"\n")
	}
}

func (l *Library) DeviceReset(dev native.Device) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("DeviceReset", dev)
	if code != 0 {
		return code
	}
	d.reset()
	return 0
}

// State returns a snapshot of the open device with the given serial, or
// nil when no such device is open.
func (l *Library) State(serial string) *State {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range l.devices {
		if d.cfg.Serial == serial {
			return d.snapshot()
		}
	}
	return nil
}

var _ native.Library = (*Library)(nil)

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

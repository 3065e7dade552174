package bladerf

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/native"
)

// Board names reported by the native library.
const (
	BoardBladeRF1 = "bladerf1"
	BoardBladeRF2 = "bladerf2"
)

// core holds the native handle and the state shared by every typed view of
// one open device.
type core struct {
	lib native.Library

	// devMu guards dev itself; native calls run under the read lock.
	devMu sync.RWMutex
	dev   native.Device

	modMu   sync.Mutex
	enabled map[Channel]bool

	fmtMu  sync.RWMutex
	format *Format

	rxBusy atomic.Bool
	txBusy atomic.Bool

	// refs counts the handle plus every shared stream session.
	refs   atomic.Int32
	closed atomic.Bool
}

func newCore(l native.Library, dev native.Device) *core {
	c := &core{lib: l, dev: dev, enabled: make(map[Channel]bool)}
	c.refs.Store(1)
	return c
}

// Handle is implemented by *Device, *BladeRF1 and *BladeRF2.
type Handle interface {
	handle() *core
}

func (c *core) handle() *core { return c }

// do runs fn against the native handle and translates its status.
func (c *core) do(fn func(l native.Library, dev native.Device) int) error {
	if c == nil {
		return errClosed
	}
	c.devMu.RLock()
	defer c.devMu.RUnlock()
	if c.dev == nil {
		return errClosed
	}
	return check(fn(c.lib, c.dev))
}

// with runs fn against the native handle and returns its raw status, for
// callers that decode counts or extra results themselves.
func (c *core) with(fn func(l native.Library, dev native.Device) int) (int, error) {
	if c == nil {
		return 0, errClosed
	}
	c.devMu.RLock()
	defer c.devMu.RUnlock()
	if c.dev == nil {
		return 0, errClosed
	}
	return checkCount(fn(c.lib, c.dev))
}

func (c *core) retain() {
	c.refs.Add(1)
}

func (c *core) release() {
	if c.refs.Add(-1) == 0 {
		c.destroy()
	}
}

// destroy disables lingering channels and closes the native handle.
func (c *core) destroy() {
	c.modMu.Lock()
	c.devMu.Lock()
	defer c.devMu.Unlock()
	defer c.modMu.Unlock()
	if c.dev == nil {
		return
	}
	for ch, on := range c.enabled {
		if !on {
			continue
		}
		if err := check(c.lib.EnableModule(c.dev, ch.native(), false)); err != nil {
			log.Warn("Failed to disable channel on close", "channel", ch, "err", err)
			continue
		}
		c.enabled[ch] = false
	}
	c.lib.Close(c.dev)
	c.dev = nil
}

// Close releases the handle. The native device closes once every shared
// stream built from it has also been closed. Close is idempotent.
func (c *core) Close() error {
	if c == nil {
		return errClosed
	}
	if c.closed.CompareAndSwap(false, true) {
		c.release()
	}
	return nil
}

// Device is an open bladeRF whose board family has not been checked.
type Device struct {
	*core
}

func open(fn func(l native.Library) (native.Device, int)) (*Device, error) {
	l, err := library()
	if err != nil {
		return nil, err
	}
	dev, code := fn(l)
	if err := check(code); err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, msgError("native open returned a null device")
	}
	return &Device{core: newCore(l, dev)}, nil
}

// OpenFirst opens any attached device.
func OpenFirst() (*Device, error) {
	log.Debug("Opening first bladeRF")
	return open(func(l native.Library) (native.Device, int) { return l.Open("") })
}

// OpenIdentifier opens the device selected by a libbladeRF device
// identifier string such as "*:serial=f12ce1".
func OpenIdentifier(identifier string) (*Device, error) {
	if strings.IndexByte(identifier, 0) >= 0 {
		return nil, invalidError("device identifier contains a NUL byte")
	}
	log.Debugf("Opening bladeRF %q", identifier)
	return open(func(l native.Library) (native.Device, int) { return l.Open(identifier) })
}

// OpenDevInfo opens a device returned by DeviceList.
func OpenDevInfo(info DevInfo) (*Device, error) {
	log.Debugf("Opening bladeRF %s", info.Serial())
	raw := info.raw
	return open(func(l native.Library) (native.Device, int) { return l.OpenWithDevInfo(&raw) })
}

// Open opens the device described by info.
func (d DevInfo) Open() (*Device, error) { return OpenDevInfo(d) }

// IntoBladeRF1 narrows d to a bladeRF 1 without reopening it. On success d
// is emptied and the returned handle owns the device; on failure d is left
// untouched and the error matches ErrUnsupported.
func (d *Device) IntoBladeRF1() (*BladeRF1, error) {
	c, err := d.refine(BoardBladeRF1)
	if err != nil {
		return nil, err
	}
	return &BladeRF1{core: c}, nil
}

// IntoBladeRF2 narrows d to a bladeRF 2.0 micro. See IntoBladeRF1.
func (d *Device) IntoBladeRF2() (*BladeRF2, error) {
	c, err := d.refine(BoardBladeRF2)
	if err != nil {
		return nil, err
	}
	return &BladeRF2{core: c}, nil
}

func (d *Device) refine(board string) (*core, error) {
	if d == nil || d.core == nil {
		return nil, errClosed
	}
	name, err := d.BoardName()
	if err != nil {
		return nil, err
	}
	if name != board {
		return nil, &Error{Kind: KindUnsupported, Op: "refine", Msg: "board is " + name + ", not " + board}
	}
	c := d.core
	d.core = nil
	return c, nil
}

// Reset reboots the device from flash and closes the handle.
func (c *core) Reset() error {
	err := c.do(func(l native.Library, dev native.Device) int { return l.DeviceReset(dev) })
	if err != nil {
		return err
	}
	return c.Close()
}

// BoardName returns "bladerf1" or "bladerf2".
func (c *core) BoardName() (string, error) {
	var name string
	err := c.do(func(l native.Library, dev native.Device) int {
		name = l.GetBoardName(dev)
		return 0
	})
	return name, err
}

// Serial returns the 32 character device serial.
func (c *core) Serial() (string, error) {
	var raw []byte
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		raw, code = l.GetSerial(dev)
		return code
	})
	if err != nil {
		return "", err
	}
	return decodeCString(raw), nil
}

func (c *core) Info() (DevInfo, error) {
	var raw native.DevInfo
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		raw, code = l.GetDevInfo(dev)
		return code
	})
	return devInfoFromNative(raw), err
}

func (c *core) FirmwareVersion() (Version, error) {
	var v native.Version
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.FWVersion(dev)
		return code
	})
	return versionFromNative(v), err
}

func (c *core) FPGAVersion() (Version, error) {
	var v native.Version
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.FPGAVersion(dev)
		return code
	})
	return versionFromNative(v), err
}

// IsFPGAConfigured reports whether an FPGA image is loaded.
func (c *core) IsFPGAConfigured() (bool, error) {
	n, err := c.with(func(l native.Library, dev native.Device) int { return l.IsFPGAConfigured(dev) })
	return n > 0, err
}

func (c *core) FPGASize() (FPGASize, error) {
	var v int32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetFPGASize(dev)
		return code
	})
	if err != nil {
		return 0, err
	}
	return FPGASizeFromNative(v)
}

func (c *core) DeviceSpeed() (DeviceSpeed, error) {
	var v int32
	err := c.do(func(l native.Library, dev native.Device) int {
		v = l.DeviceSpeed(dev)
		return 0
	})
	if err != nil {
		return 0, err
	}
	return DeviceSpeedFromNative(v)
}

// SetModuleEnabled switches ch on or off and records the new state.
func (c *core) SetModuleEnabled(ch Channel, enable bool) error {
	if c == nil {
		return errClosed
	}
	c.modMu.Lock()
	defer c.modMu.Unlock()
	err := c.do(func(l native.Library, dev native.Device) int { return l.EnableModule(dev, ch.native(), enable) })
	if err != nil {
		return err
	}
	c.enabled[ch] = enable
	return nil
}

func (c *core) EnableModule(ch Channel) error  { return c.SetModuleEnabled(ch, true) }
func (c *core) DisableModule(ch Channel) error { return c.SetModuleEnabled(ch, false) }

// ModuleEnabled reports the last state set through SetModuleEnabled.
func (c *core) ModuleEnabled(ch Channel) bool {
	if c == nil {
		return false
	}
	c.modMu.Lock()
	defer c.modMu.Unlock()
	return c.enabled[ch]
}

// StreamFormat returns the format installed by the last SyncConfig.
func (c *core) StreamFormat() (Format, bool) {
	if c == nil {
		return 0, false
	}
	c.fmtMu.RLock()
	defer c.fmtMu.RUnlock()
	if c.format == nil {
		return 0, false
	}
	return *c.format, true
}

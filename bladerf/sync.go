package bladerf

import (
	"math"
	"time"
	"unsafe"

	"github.com/jrwynneiii/gobladerf/native"
)

// SyncConfig installs the synchronous stream pipeline for layout and
// records format as the device's stream format.
func (c *core) SyncConfig(layout ChannelLayout, format Format, cfg StreamConfig) error {
	if c == nil {
		return errClosed
	}
	if _, err := FormatFromNative(int32(format)); err != nil {
		return err
	}
	if !cfg.valid() {
		return invalidError("stream config was not built with NewStreamConfig")
	}
	c.fmtMu.Lock()
	defer c.fmtMu.Unlock()
	err := c.do(func(l native.Library, dev native.Device) int {
		return l.SyncConfig(dev, int32(layout), int32(format),
			cfg.numBuffers, cfg.bufferSize, cfg.numTransfers, cfg.timeoutMs())
	})
	if err != nil {
		return err
	}
	c.format = &format
	return nil
}

// syncTransfer checks buf against the configured format and hands it to
// xfer. The format lock is held shared for the whole transfer.
func syncTransfer[F Sample](c *core, buf []F, meta *Metadata, timeout time.Duration,
	xfer func(l native.Library, dev native.Device, p unsafe.Pointer, n uint32, m *native.Metadata, ms uint32) int) error {
	if c == nil {
		return errClosed
	}
	ms, err := timeoutMs(timeout)
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		return invalidError("empty sample buffer")
	}
	if uint64(len(buf)) > math.MaxUint32 {
		return invalidError("sample buffer of %d elements is too large", len(buf))
	}
	c.fmtMu.RLock()
	defer c.fmtMu.RUnlock()
	if c.format == nil {
		return invalidError("stream has not been configured")
	}
	if err := CheckCompatible[F](*c.format); err != nil {
		return err
	}
	raw := meta.native()
	err = c.do(func(l native.Library, dev native.Device) int {
		return xfer(l, dev, unsafe.Pointer(&buf[0]), uint32(len(buf)), raw, ms)
	})
	meta.update(raw)
	return err
}

// SyncRX fills buf with received samples. SyncConfig must have installed a
// format compatible with F.
func SyncRX[F Sample](h Handle, buf []F, meta *Metadata, timeout time.Duration) error {
	return syncTransfer(h.handle(), buf, meta, timeout,
		func(l native.Library, dev native.Device, p unsafe.Pointer, n uint32, m *native.Metadata, ms uint32) int {
			return l.SyncRX(dev, p, n, m, ms)
		})
}

// SyncTX transmits buf. SyncConfig must have installed a format compatible
// with F.
func SyncTX[F Sample](h Handle, buf []F, meta *Metadata, timeout time.Duration) error {
	return syncTransfer(h.handle(), buf, meta, timeout,
		func(l native.Library, dev native.Device, p unsafe.Pointer, n uint32, m *native.Metadata, ms uint32) int {
			return l.SyncTX(dev, p, n, m, ms)
		})
}

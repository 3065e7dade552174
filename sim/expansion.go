package sim

import "github.com/jrwynneiii/gobladerf/native"

const xbNone, xb200 = 0, 2

func (l *Library) ExpansionAttach(dev native.Device, xb int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("ExpansionAttach", dev)
	if code != 0 {
		return code
	}
	switch {
	case xb == xbNone:
		return 0
	case xb < 0 || xb > 3:
		return native.ErrInval
	case d.xb != xbNone && d.xb != xb:
		return native.ErrInval
	case xb != xb200 || !d.cfg.XB200:
		return native.ErrNoDev
	}
	if d.xb == xbNone {
		d.xb = xb
		d.xbFilter[native.ChannelRx0] = 4
		d.xbFilter[native.ChannelTx0] = 4
		d.xbPath[native.ChannelRx0] = 0
		d.xbPath[native.ChannelTx0] = 0
	}
	return 0
}

func (l *Library) ExpansionGetAttached(dev native.Device) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("ExpansionGetAttached", dev)
	if code != 0 {
		return 0, code
	}
	return d.xb, 0
}

// xb200 resolves dev to a bladeRF 1 with an attached XB-200.
func (l *Library) xb200(op string, dev native.Device, ch int32) (*device, int) {
	d, code := l.v1(op, dev)
	if code != 0 {
		return nil, code
	}
	if d.xb != xb200 {
		return nil, native.ErrUnsupported
	}
	if ch != native.ChannelRx0 && ch != native.ChannelTx0 {
		return nil, native.ErrInval
	}
	return d, 0
}

func (l *Library) XB200SetFilterbank(dev native.Device, ch int32, filter int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.xb200("XB200SetFilterbank", dev, ch)
	if code != 0 {
		return code
	}
	if filter < 0 || filter > 5 {
		return native.ErrInval
	}
	d.xbFilter[ch] = filter
	return 0
}

func (l *Library) XB200GetFilterbank(dev native.Device, ch int32) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.xb200("XB200GetFilterbank", dev, ch)
	if code != 0 {
		return 0, code
	}
	return d.xbFilter[ch], 0
}

func (l *Library) XB200SetPath(dev native.Device, ch int32, path int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.xb200("XB200SetPath", dev, ch)
	if code != 0 {
		return code
	}
	if path != 0 && path != 1 {
		return native.ErrInval
	}
	d.xbPath[ch] = path
	return 0
}

func (l *Library) XB200GetPath(dev native.Device, ch int32) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.xb200("XB200GetPath", dev, ch)
	if code != 0 {
		return 0, code
	}
	return d.xbPath[ch], 0
}

func bit(pin uint8) uint32 { return 1 << (pin - 1) }

// gpioLevels computes what the value register reads back. Output pins
// return their driven level; an input jumpered to an output follows it.
func (d *device) gpioLevels() uint32 {
	v := d.gpioVal & d.gpioDir
	for _, j := range d.cfg.Jumpers {
		a, b := bit(j[0]), bit(j[1])
		switch {
		case d.gpioDir&a != 0 && d.gpioDir&b == 0 && d.gpioVal&a != 0:
			v |= b
		case d.gpioDir&b != 0 && d.gpioDir&a == 0 && d.gpioVal&b != 0:
			v |= a
		}
	}
	return v
}

func (l *Library) gpio(op string, dev native.Device) (*device, int) {
	d, code := l.v1(op, dev)
	if code != 0 {
		return nil, code
	}
	if d.xb == xbNone {
		return nil, native.ErrUnsupported
	}
	return d, 0
}

func (l *Library) ExpansionGPIORead(dev native.Device) (uint32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.gpio("ExpansionGPIORead", dev)
	if code != 0 {
		return 0, code
	}
	return d.gpioLevels(), 0
}

func (l *Library) ExpansionGPIOWrite(dev native.Device, val uint32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.gpio("ExpansionGPIOWrite", dev)
	if code != 0 {
		return code
	}
	d.gpioVal = val
	return 0
}

func (l *Library) ExpansionGPIOMaskedWrite(dev native.Device, mask, val uint32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.gpio("ExpansionGPIOMaskedWrite", dev)
	if code != 0 {
		return code
	}
	d.gpioVal = d.gpioVal&^mask | val&mask
	return 0
}

func (l *Library) ExpansionGPIODirRead(dev native.Device) (uint32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.gpio("ExpansionGPIODirRead", dev)
	if code != 0 {
		return 0, code
	}
	return d.gpioDir, 0
}

func (l *Library) ExpansionGPIODirWrite(dev native.Device, val uint32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.gpio("ExpansionGPIODirWrite", dev)
	if code != 0 {
		return code
	}
	d.gpioDir = val
	return 0
}

func (l *Library) ExpansionGPIODirMaskedWrite(dev native.Device, mask, val uint32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.gpio("ExpansionGPIODirMaskedWrite", dev)
	if code != 0 {
		return code
	}
	d.gpioDir = d.gpioDir&^mask | val&mask
	return 0
}

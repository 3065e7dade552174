package bladerf

import (
	"sync/atomic"

	"github.com/jrwynneiii/gobladerf/native"
)

// XB200 is the XB-200 transverter attached to a bladeRF 1. It must not
// outlive the device it came from.
type XB200 struct {
	dev   *BladeRF1
	taken atomic.Bool
}

func xb200Channel(dir Direction) int32 {
	if dir == DirectionTx {
		return native.ChannelTx0
	}
	return native.ChannelRx0
}

// SetFilterbank selects the filterbank used in direction dir.
func (x *XB200) SetFilterbank(dir Direction, f XB200Filter) error {
	return x.dev.do(func(l native.Library, dev native.Device) int {
		return l.XB200SetFilterbank(dev, xb200Channel(dir), int32(f))
	})
}

func (x *XB200) Filterbank(dir Direction) (XB200Filter, error) {
	var v int32
	err := x.dev.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.XB200GetFilterbank(dev, xb200Channel(dir))
		return code
	})
	if err != nil {
		return 0, err
	}
	return XB200FilterFromNative(v)
}

// SetPath routes direction dir through the mixer or around it.
func (x *XB200) SetPath(dir Direction, p XB200Path) error {
	return x.dev.do(func(l native.Library, dev native.Device) int {
		return l.XB200SetPath(dev, xb200Channel(dir), int32(p))
	})
}

func (x *XB200) Path(dir Direction) (XB200Path, error) {
	var v int32
	err := x.dev.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.XB200GetPath(dev, xb200Channel(dir))
		return code
	})
	if err != nil {
		return 0, err
	}
	return XB200PathFromNative(v)
}

// XB200Pins is the set of user GPIO headers on the XB-200.
type XB200Pins struct {
	J7_1  DisabledPin
	J7_2  DisabledPin
	J7_5  DisabledPin
	J7_6  DisabledPin
	J13_1 DisabledPin
	J13_2 DisabledPin
	J16_1 DisabledPin
	J16_2 DisabledPin
	J16_3 DisabledPin
	J16_4 DisabledPin
	J16_5 DisabledPin
	J16_6 DisabledPin
}

// TakePeripherals hands out the GPIO pins. Only the first call returns
// them; later calls return nil.
func (x *XB200) TakePeripherals() *XB200Pins {
	if !x.taken.CompareAndSwap(false, true) {
		return nil
	}
	c := x.dev.core
	pin := func(n uint8) DisabledPin { return DisabledPin{gpioPin{dev: c, pin: n}} }
	return &XB200Pins{
		J7_1:  pin(native.XB200PinJ7_1),
		J7_2:  pin(native.XB200PinJ7_2),
		J7_5:  pin(native.XB200PinJ7_5),
		J7_6:  pin(native.XB200PinJ7_6),
		J13_1: pin(native.XB200PinJ13_1),
		J13_2: pin(native.XB200PinJ13_2),
		J16_1: pin(native.XB200PinJ16_1),
		J16_2: pin(native.XB200PinJ16_2),
		J16_3: pin(native.XB200PinJ16_3),
		J16_4: pin(native.XB200PinJ16_4),
		J16_5: pin(native.XB200PinJ16_5),
		J16_6: pin(native.XB200PinJ16_6),
	}
}

// Pin returns the pin named name ("J7_1", "J16_6", ...).
func (p *XB200Pins) Pin(name string) (DisabledPin, bool) {
	switch name {
	case "J7_1":
		return p.J7_1, true
	case "J7_2":
		return p.J7_2, true
	case "J7_5":
		return p.J7_5, true
	case "J7_6":
		return p.J7_6, true
	case "J13_1":
		return p.J13_1, true
	case "J13_2":
		return p.J13_2, true
	case "J16_1":
		return p.J16_1, true
	case "J16_2":
		return p.J16_2, true
	case "J16_3":
		return p.J16_3, true
	case "J16_4":
		return p.J16_4, true
	case "J16_5":
		return p.J16_5, true
	case "J16_6":
		return p.J16_6, true
	}
	return DisabledPin{}, false
}

package bladerf

import (
	"fmt"

	"github.com/jrwynneiii/gobladerf/native"
	"periph.io/x/conn/v3/gpio"
)

// gpioPin is an expansion GPIO bit. Pin numbers are 1-based.
type gpioPin struct {
	dev *core
	pin uint8
}

func (p gpioPin) mask() uint32 { return 1 << (p.pin - 1) }

// Number returns the 1-based expansion GPIO number.
func (p gpioPin) Number() int { return int(p.pin) }

func (p gpioPin) String() string { return fmt.Sprintf("XB_GPIO%d", p.pin) }

func (p gpioPin) setDirection(output bool) error {
	var val uint32
	if output {
		val = 0xFFFFFFFF
	}
	return p.dev.do(func(l native.Library, dev native.Device) int {
		return l.ExpansionGPIODirMaskedWrite(dev, p.mask(), val)
	})
}

func (p gpioPin) intoInput() (InputPin, error) {
	if err := p.setDirection(false); err != nil {
		return InputPin{}, err
	}
	return InputPin{p}, nil
}

func (p gpioPin) intoOutput() (OutputPin, error) {
	if err := p.setDirection(true); err != nil {
		return OutputPin{}, err
	}
	return OutputPin{p}, nil
}

// DisabledPin is a pin that has not been given a direction.
type DisabledPin struct{ gpioPin }

// IntoInput clears the pin's direction bit.
func (p DisabledPin) IntoInput() (InputPin, error) { return p.intoInput() }

// IntoOutput sets the pin's direction bit.
func (p DisabledPin) IntoOutput() (OutputPin, error) { return p.intoOutput() }

// InputPin is a pin configured as an input.
type InputPin struct{ gpioPin }

// Read samples the expansion GPIO value register.
func (p InputPin) Read() (gpio.Level, error) {
	var v uint32
	err := p.dev.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.ExpansionGPIORead(dev)
		return code
	})
	if err != nil {
		return gpio.Low, err
	}
	return gpio.Level(v&p.mask() != 0), nil
}

// IntoOutput turns the pin around to drive its line.
func (p InputPin) IntoOutput() (OutputPin, error) { return p.intoOutput() }

// OutputPin is a pin configured as an output.
type OutputPin struct{ gpioPin }

// Write drives the pin high or low.
func (p OutputPin) Write(l gpio.Level) error {
	var val uint32
	if l {
		val = 0xFFFFFFFF
	}
	return p.dev.do(func(lib native.Library, dev native.Device) int {
		return lib.ExpansionGPIOMaskedWrite(dev, p.mask(), val)
	})
}

// Out is Write under the name used by periph.io pin interfaces.
func (p OutputPin) Out(l gpio.Level) error { return p.Write(l) }

// IntoInput releases the line and samples it instead.
func (p OutputPin) IntoInput() (InputPin, error) { return p.intoInput() }

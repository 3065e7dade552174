package bladerf

import "github.com/jrwynneiii/gobladerf/native"

// BladeRF2 is an open bladeRF 2.0 micro.
type BladeRF2 struct {
	*core
}

// OpenBladeRF2 opens the first device and checks it is a bladeRF 2.0.
func OpenBladeRF2() (*BladeRF2, error) {
	d, err := OpenFirst()
	if err != nil {
		return nil, err
	}
	b, err := d.IntoBladeRF2()
	if err != nil {
		d.Close()
		return nil, err
	}
	return b, nil
}

func (b *BladeRF2) SetBiasTee(ch Channel, enable bool) error {
	return b.do(func(l native.Library, dev native.Device) int { return l.SetBiasTee(dev, ch.native(), enable) })
}

func (b *BladeRF2) BiasTee(ch Channel) (bool, error) {
	var on bool
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		on, code = l.GetBiasTee(dev, ch.native())
		return code
	})
	return on, err
}

// RFICTemperature returns the AD9361 die temperature in degrees Celsius.
func (b *BladeRF2) RFICTemperature() (float32, error) {
	var t float32
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		t, code = l.GetRFICTemperature(dev)
		return code
	})
	return t, err
}

// PMICRegister reads the power monitor. Voltages are in volts, current in
// amps, power in watts; configuration and calibration are raw values.
func (b *BladeRF2) PMICRegister(reg PMICRegister) (float32, error) {
	var v float32
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetPMICRegister(dev, int32(reg))
		return code
	})
	return v, err
}

package bladerf

import (
	"errors"
	"testing"

	"github.com/jrwynneiii/gobladerf/native"
	"github.com/jrwynneiii/gobladerf/sim"
	"periph.io/x/conn/v3/gpio"
)

func TestGPIOTypeState(t *testing.T) {
	_, b := openBladeRF1(t, sim.DeviceConfig{
		XB200:   true,
		Jumpers: [][2]uint8{{native.XB200PinJ7_2, native.XB200PinJ7_1}},
	})
	xb, err := b.XB200()
	if err != nil {
		t.Fatalf("XB200: %v", err)
	}
	pins := xb.TakePeripherals()
	if pins == nil {
		t.Fatalf("first TakePeripherals returned nil")
	}
	if xb.TakePeripherals() != nil {
		t.Fatalf("second TakePeripherals returned pins")
	}

	out, err := pins.J7_2.IntoOutput()
	if err != nil {
		t.Fatalf("IntoOutput: %v", err)
	}
	in, err := pins.J7_1.IntoInput()
	if err != nil {
		t.Fatalf("IntoInput: %v", err)
	}

	if err := out.Write(gpio.High); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if lvl, err := in.Read(); err != nil || lvl != gpio.High {
		t.Fatalf("expected high, got %v (%v)", lvl, err)
	}
	if err := out.Out(gpio.Low); err != nil {
		t.Fatalf("Out: %v", err)
	}
	if lvl, err := in.Read(); err != nil || lvl != gpio.Low {
		t.Fatalf("expected low, got %v (%v)", lvl, err)
	}
}

func TestGPIODirectionBits(t *testing.T) {
	l, b := openBladeRF1(t, sim.DeviceConfig{XB200: true})
	serial, _ := b.Serial()
	xb, err := b.XB200()
	if err != nil {
		t.Fatalf("XB200: %v", err)
	}
	pins := xb.TakePeripherals()
	p, ok := pins.Pin("J16_2")
	if !ok || p.Number() != 32 {
		t.Fatalf("Pin(J16_2) = %v, %v", p, ok)
	}
	out, err := p.IntoOutput()
	if err != nil {
		t.Fatalf("IntoOutput: %v", err)
	}
	if st := l.State(serial); st.GPIODir != 1<<31 {
		t.Fatalf("direction register %#x", st.GPIODir)
	}
	if _, err := out.IntoInput(); err != nil {
		t.Fatalf("IntoInput: %v", err)
	}
	if st := l.State(serial); st.GPIODir != 0 {
		t.Fatalf("direction register %#x after IntoInput", st.GPIODir)
	}
	if _, ok := pins.Pin("J99"); ok {
		t.Fatalf("unknown pin name resolved")
	}
}

func TestXB200FilterAndPath(t *testing.T) {
	_, b := openBladeRF1(t, sim.DeviceConfig{XB200: true})
	xb, err := b.XB200()
	if err != nil {
		t.Fatalf("XB200: %v", err)
	}
	if m, _ := b.AttachedExpansion(); m != ExpansionXB200 {
		t.Fatalf("attached expansion %v", m)
	}
	if err := xb.SetFilterbank(DirectionRx, XB200Filter144M); err != nil {
		t.Fatalf("SetFilterbank: %v", err)
	}
	if f, _ := xb.Filterbank(DirectionRx); f != XB200Filter144M {
		t.Fatalf("filterbank read back %v", f)
	}
	if f, _ := xb.Filterbank(DirectionTx); f != XB200FilterAuto1dB {
		t.Fatalf("TX filterbank changed: %v", f)
	}
	if err := xb.SetPath(DirectionTx, XB200Mix); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if p, _ := xb.Path(DirectionTx); p != XB200Mix {
		t.Fatalf("path read back %v", p)
	}
	r, err := b.FrequencyRange(Rx0)
	if err != nil || r.Min != 0 {
		t.Fatalf("XB-200 did not extend the tuning range: %v, %v", r, err)
	}
}

func TestXB200Missing(t *testing.T) {
	_, b := openBladeRF1(t, sim.DeviceConfig{})
	if _, err := b.XB200(); !errors.Is(err, ErrNoDev) {
		t.Fatalf("expected no device, got %v", err)
	}
}

func TestExpansionOnBladeRF2(t *testing.T) {
	l := useSim(t)
	d, err := OpenFirst()
	if err != nil {
		t.Fatalf("OpenFirst: %v", err)
	}
	defer d.Close()
	// The raw handle has no XB200 accessor; reach the native call directly.
	err = d.do(func(lib native.Library, dev native.Device) int { return lib.ExpansionAttach(dev, 2) })
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
	if l.Calls("ExpansionAttach") != 1 {
		t.Fatalf("call not counted")
	}
}

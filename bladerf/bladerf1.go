package bladerf

import "github.com/jrwynneiii/gobladerf/native"

// BladeRF1 is an open bladeRF x40/x115.
type BladeRF1 struct {
	*core
}

// OpenBladeRF1 opens the first device and checks it is a bladeRF 1.
func OpenBladeRF1() (*BladeRF1, error) {
	d, err := OpenFirst()
	if err != nil {
		return nil, err
	}
	b, err := d.IntoBladeRF1()
	if err != nil {
		d.Close()
		return nil, err
	}
	return b, nil
}

// SetTXVGA2 sets the legacy post-mixer TX gain in dB.
func (b *BladeRF1) SetTXVGA2(db int32) error {
	return b.do(func(l native.Library, dev native.Device) int { return l.SetTXVGA2(dev, db) })
}

func (b *BladeRF1) TXVGA2() (int32, error) {
	var db int32
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		db, code = l.GetTXVGA2(dev)
		return code
	})
	return db, err
}

// SetSampling selects the ADC input.
func (b *BladeRF1) SetSampling(s Sampling) error {
	return b.do(func(l native.Library, dev native.Device) int { return l.SetSampling(dev, int32(s)) })
}

func (b *BladeRF1) Sampling() (Sampling, error) {
	var v int32
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetSampling(dev)
		return code
	})
	if err != nil {
		return 0, err
	}
	return SamplingFromNative(v)
}

func (b *BladeRF1) SetLPFMode(ch Channel, mode LPFMode) error {
	return b.do(func(l native.Library, dev native.Device) int { return l.SetLPFMode(dev, ch.native(), int32(mode)) })
}

func (b *BladeRF1) LPFMode(ch Channel) (LPFMode, error) {
	var v int32
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetLPFMode(dev, ch.native())
		return code
	})
	if err != nil {
		return 0, err
	}
	return LPFModeFromNative(v)
}

func (b *BladeRF1) SetSMBMode(mode SMBMode) error {
	return b.do(func(l native.Library, dev native.Device) int { return l.SetSMBMode(dev, int32(mode)) })
}

func (b *BladeRF1) SMBMode() (SMBMode, error) {
	var v int32
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetSMBMode(dev)
		return code
	})
	if err != nil {
		return 0, err
	}
	return SMBModeFromNative(v)
}

// SetSMBFrequency drives the SMB clock output and returns the achieved rate.
func (b *BladeRF1) SetSMBFrequency(hz uint32) (uint32, error) {
	var actual uint32
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		actual, code = l.SetSMBFrequency(dev, hz)
		return code
	})
	return actual, err
}

func (b *BladeRF1) SMBFrequency() (uint32, error) {
	var hz uint32
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		hz, code = l.GetSMBFrequency(dev)
		return code
	})
	return hz, err
}

func (b *BladeRF1) SetRationalSMBFrequency(rate RationalRate) (RationalRate, error) {
	var actual native.RationalRate
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		actual, code = l.SetRationalSMBFrequency(dev, rate.native())
		return code
	})
	return rationalFromNative(actual), err
}

func (b *BladeRF1) RationalSMBFrequency() (RationalRate, error) {
	var rate native.RationalRate
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		rate, code = l.GetRationalSMBFrequency(dev)
		return code
	})
	return rationalFromNative(rate), err
}

// ExpansionAttach enables an expansion board.
func (b *BladeRF1) ExpansionAttach(m ExpansionModule) error {
	return b.do(func(l native.Library, dev native.Device) int { return l.ExpansionAttach(dev, int32(m)) })
}

// AttachedExpansion reports the attached expansion board.
func (b *BladeRF1) AttachedExpansion() (ExpansionModule, error) {
	var v int32
	err := b.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.ExpansionGetAttached(dev)
		return code
	})
	if err != nil {
		return 0, err
	}
	return ExpansionModuleFromNative(v)
}

// XB200 attaches the XB-200 transverter if needed and returns its handle.
func (b *BladeRF1) XB200() (*XB200, error) {
	attached, err := b.AttachedExpansion()
	if err != nil {
		return nil, err
	}
	switch attached {
	case ExpansionXB200:
	case ExpansionNone:
		if err := b.ExpansionAttach(ExpansionXB200); err != nil {
			return nil, err
		}
	default:
		return nil, &Error{Kind: KindUnsupported, Op: "xb200", Msg: attached.String() + " is attached"}
	}
	return &XB200{dev: b}, nil
}

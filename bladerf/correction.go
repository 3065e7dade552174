package bladerf

import "golang.org/x/exp/constraints"

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CorrectionValue is a correction kind paired with a value in the kind's
// valid range. The zero value is a zero DC-I offset.
type CorrectionValue struct {
	kind  Correction
	value int16
}

// Bounds returns the valid value range of kind c.
func (c Correction) Bounds() (lo, hi int16) {
	switch c {
	case CorrectionDcOffI, CorrectionDcOffQ:
		return -2048, 2047
	default:
		return -4096, 4095
	}
}

// NewCorrection validates v against the range of kind.
func NewCorrection(kind Correction, v int16) (CorrectionValue, error) {
	if _, err := CorrectionFromNative(int32(kind)); err != nil {
		return CorrectionValue{}, err
	}
	lo, hi := kind.Bounds()
	if v < lo || v > hi {
		return CorrectionValue{}, invalidError("%v correction %d outside [%d, %d]", kind, v, lo, hi)
	}
	return CorrectionValue{kind: kind, value: v}, nil
}

// SaturatingCorrection clamps v into the range of kind.
func SaturatingCorrection(kind Correction, v int) CorrectionValue {
	lo, hi := kind.Bounds()
	return CorrectionValue{kind: kind, value: int16(clamp(v, int(lo), int(hi)))}
}

func DcOffsetI(v int16) (CorrectionValue, error) { return NewCorrection(CorrectionDcOffI, v) }
func DcOffsetQ(v int16) (CorrectionValue, error) { return NewCorrection(CorrectionDcOffQ, v) }
func PhaseCorrection(v int16) (CorrectionValue, error) {
	return NewCorrection(CorrectionPhase, v)
}
func GainCorrection(v int16) (CorrectionValue, error) {
	return NewCorrection(CorrectionGain, v)
}

func (c CorrectionValue) Kind() Correction { return c.kind }
func (c CorrectionValue) Value() int16     { return c.value }

// Add sums two values of the same kind, wrapping around the kind's range.
func (c CorrectionValue) Add(o CorrectionValue) (CorrectionValue, error) {
	if c.kind != o.kind {
		return CorrectionValue{}, invalidError("cannot add %v correction to %v", o.kind, c.kind)
	}
	lo, hi := c.kind.Bounds()
	span := int(hi) - int(lo) + 1
	v := (int(c.value) + int(o.value) - int(lo)) % span
	if v < 0 {
		v += span
	}
	return CorrectionValue{kind: c.kind, value: int16(v + int(lo))}, nil
}

// SaturatingAdd sums two values of the same kind, clamping to the range.
func (c CorrectionValue) SaturatingAdd(o CorrectionValue) (CorrectionValue, error) {
	if c.kind != o.kind {
		return CorrectionValue{}, invalidError("cannot add %v correction to %v", o.kind, c.kind)
	}
	return SaturatingCorrection(c.kind, int(c.value)+int(o.value)), nil
}

package bladerf

import (
	"fmt"

	"github.com/jrwynneiii/gobladerf/native"
)

// Format is the on-the-wire sample layout.
type Format int32

const (
	FormatSc16Q11 Format = Format(native.FormatSc16Q11)
	FormatSc8Q7   Format = Format(native.FormatSc8Q7)
)

func FormatFromNative(v int32) (Format, error) {
	return enumFromNative("Format", v, FormatSc16Q11, FormatSc8Q7)
}

func (f Format) String() string {
	switch f {
	case FormatSc16Q11:
		return "SC16_Q11"
	case FormatSc8Q7:
		return "SC8_Q7"
	}
	return fmt.Sprintf("Format(%d)", int32(f))
}

// ParseFormat accepts "sc16q11" or "sc8q7".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "sc16q11", "SC16_Q11":
		return FormatSc16Q11, nil
	case "sc8q7", "SC8_Q7":
		return FormatSc8Q7, nil
	}
	return 0, invalidError("unknown sample format %q", s)
}

// ComplexI16 is one SC16_Q11 sample: 12 significant bits, 2048 is 1.0.
type ComplexI16 struct {
	I, Q int16
}

// Format returns FormatSc16Q11.
func (ComplexI16) Format() Format { return FormatSc16Q11 }

// Complex64 scales the sample into [-1, 1).
func (s ComplexI16) Complex64() complex64 {
	return complex(float32(s.I)/2048, float32(s.Q)/2048)
}

// ComplexI8 is one SC8_Q7 sample: 128 is 1.0.
type ComplexI8 struct {
	I, Q int8
}

// Format returns FormatSc8Q7.
func (ComplexI8) Format() Format { return FormatSc8Q7 }

// Complex64 scales the sample into [-1, 1).
func (s ComplexI8) Complex64() complex64 {
	return complex(float32(s.I)/128, float32(s.Q)/128)
}

// Sample is implemented by every element type that can cross the
// streaming boundary.
type Sample interface {
	ComplexI16 | ComplexI8
	Format() Format
	Complex64() complex64
}

// IsCompatible reports whether elements of type F can be transferred while
// the device is configured for format f.
func IsCompatible[F Sample](f Format) bool {
	var zero F
	return zero.Format() == f
}

// CheckCompatible fails with an invalid-argument error when F does not
// match f.
func CheckCompatible[F Sample](f Format) error {
	if IsCompatible[F](f) {
		return nil
	}
	var zero F
	return invalidError("%T is not compatible with configured format %v", zero, f)
}

// FormatOf returns the native format tag installed for F.
func FormatOf[F Sample]() Format {
	var zero F
	return zero.Format()
}

// ToComplex64 converts samples into dst, growing it as needed.
func ToComplex64[F Sample](dst []complex64, src []F) []complex64 {
	dst = dst[:0]
	for _, s := range src {
		dst = append(dst, s.Complex64())
	}
	return dst
}

package spectrum

import (
	"math"
	"math/cmplx"
)

// SNRCalc is a running second/fourth moment SNR estimator.
//
// It follows SatDump's snr_estimator, which in turn is based upon:
//
// D. R. Pauluzzi and N. C. Beaulieu, "A comparison of SNR
// estimation techniques for the AWGN channel," IEEE
// Trans. Communications, Vol. 48, No. 10, pp. 1681-1691, 2000.
type SNRCalc struct {
	Y1     float64
	Y2     float64
	Alpha  float64
	Beta   float64
	Signal float64
	Noise  float64
}

func NewSNRCalc() *SNRCalc {
	alpha := 0.001
	s := SNRCalc{
		Alpha: alpha,
		Beta:  1.0 - alpha,
	}
	return &s
}

// Update folds samples into the moment estimates and returns the current
// SNR in dB, never below zero.
func (s *SNRCalc) Update(samples []complex64) float64 {
	for _, samp := range samples {
		mag2 := math.Pow(cmplx.Abs(complex128(samp)), 2)
		s.Y1 = s.Alpha*mag2 + s.Beta*s.Y1
		s.Y2 = s.Alpha*mag2*mag2 + s.Beta*s.Y2
	}

	if math.IsNaN(s.Y1) {
		s.Y1 = 0.0
	}
	if math.IsNaN(s.Y2) {
		s.Y2 = 0.0
	}

	// Computed once since it is square rooted twice
	radicand := max(0, 2.0*s.Y1*s.Y1-s.Y2)
	s.Signal = math.Sqrt(radicand)
	s.Noise = s.Y1 - s.Signal

	if s.Noise <= 0 {
		if s.Signal == 0 {
			return 0
		}
		return MaxSNR
	}
	return min(MaxSNR, max(0, 10.0*math.Log10(s.Signal/s.Noise)))
}

// MaxSNR caps the estimate for noiseless input.
const MaxSNR = 100.0

func (s *SNRCalc) Reset() {
	s.Y1, s.Y2, s.Signal, s.Noise = 0, 0, 0, 0
}

package spectrum

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/racerxdl/segdsp/dsp"
	"github.com/racerxdl/segdsp/tools"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// Snapshot is a copy of the analyzer's latest results.
type Snapshot struct {
	// Bins is the power spectrum in dBFS with DC in the middle.
	Bins      []float64
	PowerDBFS float64
	SNR       float64
	PeakSNR   float64
	AvgSNR    float64
	Frames    uint64
	// SampleRate is the rate after decimation, which the bins span.
	SampleRate float64
}

// PeakFrequency returns the offset from the tuned frequency of the
// strongest bin, in Hz.
func (s Snapshot) PeakFrequency() float64 {
	if len(s.Bins) == 0 {
		return 0
	}
	peak := 0
	for i, v := range s.Bins {
		if v > s.Bins[peak] {
			peak = i
		}
	}
	n := len(s.Bins)
	return float64(peak-n/2) * s.SampleRate / float64(n)
}

type Analyzer struct {
	SampleInput chan []complex64
	Decimator   *dsp.FirFilter
	SNR         *SNRCalc
	Stopping    atomic.Bool

	sampleRate  float64
	decimFactor int
	fftSize     int
	fft         *fourier.CmplxFFT
	window      []float64
	windowSum   float64
	pending     []complex64
	coeff       []complex128
	seq         []complex128

	mu         sync.RWMutex
	currentFFT []float64
	power      float64
	currentSNR float64
	peakSNR    float64
	avgSNR     float64
	frames     uint64
}

// New returns an analyzer for input at sampleRate. With decimation above
// one the input is low-pass filtered and decimated before analysis.
func New(sampleRate float64, fftSize, decimation int, bufsize uint) (*Analyzer, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size %d is not a power of two", fftSize)
	}
	if decimation < 1 {
		return nil, fmt.Errorf("decimation %d must be at least 1", decimation)
	}
	ones := make([]float64, fftSize)
	for i := range ones {
		ones[i] = 1
	}
	win := window.Hamming(ones)
	sum := 0.0
	for _, v := range win {
		sum += v
	}
	a := &Analyzer{
		SampleInput: make(chan []complex64, bufsize),
		SNR:         NewSNRCalc(),
		sampleRate:  sampleRate / float64(decimation),
		decimFactor: decimation,
		fftSize:     fftSize,
		fft:         fourier.NewCmplxFFT(fftSize),
		window:      win,
		windowSum:   sum,
		coeff:       make([]complex128, fftSize),
		seq:         make([]complex128, fftSize),
	}
	if decimation > 1 {
		out := a.sampleRate
		transition := out / 10
		a.Decimator = dsp.MakeDecimationFirFilter(decimation, dsp.MakeLowPass(1, sampleRate, out/2-transition/2, transition))
	}
	log.Debugf("Spectrum analyzer: %d bins over %.0f Hz (decimation %d)", fftSize, a.sampleRate, decimation)
	return a, nil
}

func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

func (a *Analyzer) FFTSize() int { return a.fftSize }

// Process analyses one block of samples. It is not safe for concurrent use.
func (a *Analyzer) Process(samples []complex64) {
	if len(samples) == 0 {
		return
	}
	if a.decimFactor > 1 {
		samples = a.Decimator.Work(samples)
		if len(samples) == 0 {
			return
		}
	}

	var acc float64
	for _, s := range samples {
		acc += float64(tools.ComplexAbsSquared(s))
	}
	power := 10 * math.Log10(acc/float64(len(samples)))
	snr := a.SNR.Update(samples)

	a.pending = append(a.pending, samples...)
	var bins []float64
	for len(a.pending) >= a.fftSize {
		bins = a.doFFT(a.pending[:a.fftSize])
		a.pending = a.pending[a.fftSize:]
	}
	// Release the backing array once the backlog is consumed
	if len(a.pending) == 0 {
		a.pending = nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.power = power
	a.currentSNR = snr
	if snr > a.peakSNR {
		a.peakSNR = snr
	}
	// To avoid strange NaN's for average
	if snr > 0 {
		a.avgSNR += snr
		a.avgSNR /= 2
	}
	if bins != nil {
		a.currentFFT = bins
		a.frames++
	}
}

func (a *Analyzer) doFFT(samples []complex64) []float64 {
	for i, s := range samples {
		a.seq[i] = complex(float64(real(s))*a.window[i], float64(imag(s))*a.window[i])
	}
	a.fft.Coefficients(a.coeff, a.seq)
	bins := make([]float64, a.fftSize)
	for i := range bins {
		c := a.coeff[a.fft.ShiftIdx(i)] / complex(a.windowSum, 0)
		v := real(c)*real(c) + imag(c)*imag(c)
		if v == 0 {
			bins[i] = -200
			continue
		}
		bins[i] = 10 * math.Log10(v)
	}
	return bins
}

// Snapshot copies the latest results.
func (a *Analyzer) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Snapshot{
		Bins:       append([]float64(nil), a.currentFFT...),
		PowerDBFS:  a.power,
		SNR:        a.currentSNR,
		PeakSNR:    a.peakSNR,
		AvgSNR:     a.avgSNR,
		Frames:     a.frames,
		SampleRate: a.sampleRate,
	}
}

// Start processes blocks from SampleInput until it is closed or ctx ends.
func (a *Analyzer) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case samples, ok := <-a.SampleInput:
			if !ok {
				return
			}
			if !a.Stopping.Load() {
				a.Process(samples)
			}
		}
	}
}

func (a *Analyzer) Close() {
	a.Stopping.Store(true)
}

package bladerf

import (
	"math"
	"time"
)

// StreamConfig holds validated synchronous streaming parameters.
type StreamConfig struct {
	numBuffers   uint32
	bufferSize   uint32
	numTransfers uint32
	timeout      time.Duration
}

// Transfer granularity of the USB sample pipeline, in samples.
const bufferAlign = 1024

// NewStreamConfig validates the parameters of a synchronous stream.
// bufferSize is in samples and must be a positive multiple of 1024;
// numBuffers must exceed numTransfers; timeout must fit in 32-bit
// milliseconds.
func NewStreamConfig(numBuffers, bufferSize, numTransfers uint32, timeout time.Duration) (StreamConfig, error) {
	if bufferSize == 0 || bufferSize%bufferAlign != 0 {
		return StreamConfig{}, invalidError("buffer size %d is not a positive multiple of %d", bufferSize, bufferAlign)
	}
	if numBuffers <= numTransfers {
		return StreamConfig{}, invalidError("buffer count %d must exceed transfer count %d", numBuffers, numTransfers)
	}
	if _, err := timeoutMs(timeout); err != nil {
		return StreamConfig{}, err
	}
	return StreamConfig{
		numBuffers:   numBuffers,
		bufferSize:   bufferSize,
		numTransfers: numTransfers,
		timeout:      timeout,
	}, nil
}

// DefaultStreamConfig is 16 buffers of 8192 samples, 8 transfers, 3.5s.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{numBuffers: 16, bufferSize: 8192, numTransfers: 8, timeout: 3500 * time.Millisecond}
}

func (s StreamConfig) NumBuffers() uint32     { return s.numBuffers }
func (s StreamConfig) BufferSize() uint32     { return s.bufferSize }
func (s StreamConfig) NumTransfers() uint32   { return s.numTransfers }
func (s StreamConfig) Timeout() time.Duration { return s.timeout }

func (s StreamConfig) timeoutMs() uint32 {
	ms, _ := timeoutMs(s.timeout)
	return ms
}

// valid is false for the zero StreamConfig, which NewStreamConfig never
// returns.
func (s StreamConfig) valid() bool {
	return s.bufferSize != 0 && s.numBuffers > s.numTransfers
}

// timeoutMs converts d to whole milliseconds, rounding up. Zero means wait
// forever to libbladeRF, so a positive d never becomes zero.
func timeoutMs(d time.Duration) (uint32, error) {
	if d < 0 {
		return 0, invalidError("timeout %v is negative", d)
	}
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	if ms > math.MaxUint32 {
		return 0, invalidError("timeout %v does not fit in 32-bit milliseconds", d)
	}
	return uint32(ms), nil
}

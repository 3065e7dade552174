package sim

import (
	"math"
	"unsafe"

	"github.com/jrwynneiii/gobladerf/native"
)

// layoutChannels lists the channels a sync layout moves samples for.
func layoutChannels(layout int32) []int32 {
	switch layout {
	case native.LayoutRxX1:
		return []int32{native.ChannelRx0}
	case native.LayoutTxX1:
		return []int32{native.ChannelTx0}
	case native.LayoutRxX2:
		return []int32{native.ChannelRx0, native.ChannelRx1}
	case native.LayoutTxX2:
		return []int32{native.ChannelTx0, native.ChannelTx1}
	}
	return nil
}

func (l *Library) SyncConfig(dev native.Device, layout, format int32, numBuffers, bufferSize, numTransfers, timeoutMs uint32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SyncConfig", dev)
	if code != 0 {
		return code
	}
	chans := layoutChannels(layout)
	if chans == nil {
		return native.ErrInval
	}
	for _, ch := range chans {
		if !d.prof.hasChannel(ch) {
			return native.ErrUnsupported
		}
	}
	switch format {
	case native.FormatSc16Q11, native.FormatSc16Q11Meta, native.FormatSc8Q7, native.FormatSc8Q7Meta:
	default:
		return native.ErrInval
	}
	if bufferSize == 0 || bufferSize%1024 != 0 || numTransfers >= numBuffers {
		return native.ErrInval
	}
	d.sync[layout&1] = &syncState{
		layout:       layout,
		format:       format,
		bufferSize:   bufferSize,
		numBuffers:   numBuffers,
		numTransfers: numTransfers,
	}
	return 0
}

// ready checks that dir has a pipeline and its channels are on. A
// single-channel layout streams whichever channel of dir is enabled.
func (d *device) ready(dir int32) (*syncState, int) {
	st := d.sync[dir]
	if st == nil {
		return nil, native.ErrInval
	}
	chans := layoutChannels(st.layout)
	if len(chans) == 1 {
		for _, ch := range d.prof.channels {
			if ch&1 == dir && d.enabled[ch] {
				return st, 0
			}
		}
		return nil, native.ErrTimeout
	}
	for _, ch := range chans {
		if !d.enabled[ch] {
			return nil, native.ErrTimeout
		}
	}
	return st, 0
}

func (d *device) tone() (hz, rate float64) {
	r := d.rate[native.ChannelRx0]
	rate = float64(r.Integer)
	if r.Den != 0 {
		rate += float64(r.Num) / float64(r.Den)
	}
	hz = d.cfg.ToneHz
	if hz == 0 {
		hz = rate / 8
	}
	return hz, rate
}

func isSc8(format int32) bool {
	return format == native.FormatSc8Q7 || format == native.FormatSc8Q7Meta
}

func (l *Library) SyncRX(dev native.Device, samples unsafe.Pointer, numSamples uint32, meta *native.Metadata, timeoutMs uint32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SyncRX", dev)
	if code != 0 {
		return code
	}
	if samples == nil || numSamples == 0 {
		return native.ErrInval
	}
	st, code := d.ready(native.DirectionRx)
	if code != 0 {
		return code
	}
	hz, rate := d.tone()
	step := 2 * math.Pi * hz / rate
	phase := d.phase[native.DirectionRx]
	nch := uint32(len(layoutChannels(st.layout)))
	if isSc8(st.format) {
		iq := unsafe.Slice((*int8)(samples), 2*numSamples)
		for i := uint32(0); i < numSamples; i++ {
			p := phase + step*float64(i/nch)
			iq[2*i] = int8(math.Round(63.5 * math.Cos(p)))
			iq[2*i+1] = int8(math.Round(63.5 * math.Sin(p)))
		}
	} else {
		iq := unsafe.Slice((*int16)(samples), 2*numSamples)
		for i := uint32(0); i < numSamples; i++ {
			p := phase + step*float64(i/nch)
			iq[2*i] = int16(math.Round(1024 * math.Cos(p)))
			iq[2*i+1] = int16(math.Round(1024 * math.Sin(p)))
		}
	}
	frames := uint64(numSamples / nch)
	d.phase[native.DirectionRx] = math.Mod(phase+step*float64(frames), 2*math.Pi)
	if meta != nil {
		meta.Timestamp = d.ts[native.DirectionRx]
		meta.ActualCount = numSamples
		meta.Status = 0
	}
	d.ts[native.DirectionRx] += frames
	d.applyRetunes(native.DirectionRx)
	return 0
}

func (l *Library) SyncTX(dev native.Device, samples unsafe.Pointer, numSamples uint32, meta *native.Metadata, timeoutMs uint32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SyncTX", dev)
	if code != 0 {
		return code
	}
	if samples == nil || numSamples == 0 {
		return native.ErrInval
	}
	st, code := d.ready(native.DirectionTx)
	if code != 0 {
		return code
	}
	if meta != nil && meta.Flags&native.MetaFlagTxNow == 0 && meta.Timestamp != 0 {
		if meta.Timestamp < d.ts[native.DirectionTx] {
			return native.ErrTimePast
		}
		d.ts[native.DirectionTx] = meta.Timestamp
	}
	var energy float64
	if isSc8(st.format) {
		iq := unsafe.Slice((*int8)(samples), 2*numSamples)
		for _, v := range iq {
			energy += float64(v) * float64(v) / (128 * 128)
		}
	} else {
		iq := unsafe.Slice((*int16)(samples), 2*numSamples)
		for _, v := range iq {
			energy += float64(v) * float64(v) / (2048 * 2048)
		}
	}
	nch := uint32(len(layoutChannels(st.layout)))
	d.txSamples += uint64(numSamples)
	d.txEnergy += energy
	d.ts[native.DirectionTx] += uint64(numSamples / nch)
	d.applyRetunes(native.DirectionTx)
	if meta != nil {
		meta.ActualCount = numSamples
	}
	return 0
}

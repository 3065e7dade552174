package bladerf

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/jrwynneiii/gobladerf/native"
)

func (c *core) rangeOf(get func(l native.Library, dev native.Device) (*native.Range, int)) (Range, error) {
	var raw *native.Range
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		raw, code = get(l, dev)
		return code
	})
	if err != nil {
		return Range{}, err
	}
	return rangeFromNative(raw)
}

// Frequency

func (c *core) SetFrequency(ch Channel, hz uint64) error {
	return c.do(func(l native.Library, dev native.Device) int { return l.SetFrequency(dev, ch.native(), hz) })
}

func (c *core) Frequency(ch Channel) (uint64, error) {
	var hz uint64
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		hz, code = l.GetFrequency(dev, ch.native())
		return code
	})
	return hz, err
}

func (c *core) FrequencyRange(ch Channel) (Range, error) {
	return c.rangeOf(func(l native.Library, dev native.Device) (*native.Range, int) {
		return l.GetFrequencyRange(dev, ch.native())
	})
}

// SelectBand switches the RF front end to the band containing hz without
// retuning.
func (c *core) SelectBand(ch Channel, hz uint64) error {
	return c.do(func(l native.Library, dev native.Device) int { return l.SelectBand(dev, ch.native(), hz) })
}

// Sample rate

// SetSampleRate returns the rate the hardware achieved.
func (c *core) SetSampleRate(ch Channel, rate uint32) (uint32, error) {
	var actual uint32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		actual, code = l.SetSampleRate(dev, ch.native(), rate)
		return code
	})
	return actual, err
}

func (c *core) SampleRate(ch Channel) (uint32, error) {
	var rate uint32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		rate, code = l.GetSampleRate(dev, ch.native())
		return code
	})
	return rate, err
}

func (c *core) SampleRateRange(ch Channel) (Range, error) {
	return c.rangeOf(func(l native.Library, dev native.Device) (*native.Range, int) {
		return l.GetSampleRateRange(dev, ch.native())
	})
}

func (c *core) SetRationalSampleRate(ch Channel, rate RationalRate) (RationalRate, error) {
	var actual native.RationalRate
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		actual, code = l.SetRationalSampleRate(dev, ch.native(), rate.native())
		return code
	})
	return rationalFromNative(actual), err
}

func (c *core) RationalSampleRate(ch Channel) (RationalRate, error) {
	var rate native.RationalRate
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		rate, code = l.GetRationalSampleRate(dev, ch.native())
		return code
	})
	return rationalFromNative(rate), err
}

// Bandwidth

// SetBandwidth returns the bandwidth the hardware achieved.
func (c *core) SetBandwidth(ch Channel, hz uint32) (uint32, error) {
	var actual uint32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		actual, code = l.SetBandwidth(dev, ch.native(), hz)
		return code
	})
	return actual, err
}

func (c *core) Bandwidth(ch Channel) (uint32, error) {
	var hz uint32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		hz, code = l.GetBandwidth(dev, ch.native())
		return code
	})
	return hz, err
}

func (c *core) BandwidthRange(ch Channel) (Range, error) {
	return c.rangeOf(func(l native.Library, dev native.Device) (*native.Range, int) {
		return l.GetBandwidthRange(dev, ch.native())
	})
}

// Gain

func (c *core) SetGain(ch Channel, db int32) error {
	return c.do(func(l native.Library, dev native.Device) int { return l.SetGain(dev, ch.native(), db) })
}

func (c *core) Gain(ch Channel) (int32, error) {
	var db int32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		db, code = l.GetGain(dev, ch.native())
		return code
	})
	return db, err
}

func (c *core) GainRange(ch Channel) (Range, error) {
	return c.rangeOf(func(l native.Library, dev native.Device) (*native.Range, int) {
		return l.GetGainRange(dev, ch.native())
	})
}

func (c *core) SetGainMode(ch Channel, mode GainMode) error {
	return c.do(func(l native.Library, dev native.Device) int { return l.SetGainMode(dev, ch.native(), int32(mode)) })
}

func (c *core) GainMode(ch Channel) (GainMode, error) {
	var v int32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetGainMode(dev, ch.native())
		return code
	})
	if err != nil {
		return 0, err
	}
	return GainModeFromNative(v)
}

// GainModes lists the gain modes ch supports. Entries with an unknown mode
// value are skipped.
func (c *core) GainModes(ch Channel) ([]GainModeInfo, error) {
	var raw []native.GainMode
	if _, err := c.with(func(l native.Library, dev native.Device) int {
		var code int
		raw, code = l.GetGainModes(dev, ch.native())
		return code
	}); err != nil {
		return nil, err
	}
	modes := make([]GainModeInfo, 0, len(raw))
	for _, m := range raw {
		mode, err := GainModeFromNative(m.Mode)
		if err != nil {
			continue
		}
		modes = append(modes, GainModeInfo{Name: m.Name, Mode: mode})
	}
	return modes, nil
}

func checkStageName(stage string) error {
	if strings.IndexByte(stage, 0) >= 0 {
		return invalidError("gain stage name contains a NUL byte")
	}
	return nil
}

func (c *core) SetGainStage(ch Channel, stage string, db int32) error {
	if err := checkStageName(stage); err != nil {
		return err
	}
	return c.do(func(l native.Library, dev native.Device) int { return l.SetGainStage(dev, ch.native(), stage, db) })
}

func (c *core) GainStage(ch Channel, stage string) (int32, error) {
	if err := checkStageName(stage); err != nil {
		return 0, err
	}
	var db int32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		db, code = l.GetGainStage(dev, ch.native(), stage)
		return code
	})
	return db, err
}

func (c *core) GainStageRange(ch Channel, stage string) (Range, error) {
	if err := checkStageName(stage); err != nil {
		return Range{}, err
	}
	return c.rangeOf(func(l native.Library, dev native.Device) (*native.Range, int) {
		return l.GetGainStageRange(dev, ch.native(), stage)
	})
}

// GainStages returns the names of the gain stages on ch. Names that are
// not valid UTF-8 are dropped.
func (c *core) GainStages(ch Channel) ([]string, error) {
	n, err := c.with(func(l native.Library, dev native.Device) int { return l.GetGainStages(dev, ch.native(), nil) })
	if err != nil || n == 0 {
		return nil, err
	}
	raw := make([][]byte, n)
	n, err = c.with(func(l native.Library, dev native.Device) int { return l.GetGainStages(dev, ch.native(), raw) })
	if err != nil {
		return nil, err
	}
	stages := make([]string, 0, n)
	for _, b := range raw[:min(n, len(raw))] {
		if b == nil {
			continue
		}
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}
		if utf8.Valid(b) {
			stages = append(stages, string(b))
		}
	}
	return stages, nil
}

// Loopback

func (c *core) SetLoopback(mode Loopback) error {
	return c.do(func(l native.Library, dev native.Device) int { return l.SetLoopback(dev, int32(mode)) })
}

func (c *core) Loopback() (Loopback, error) {
	var v int32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetLoopback(dev)
		return code
	})
	if err != nil {
		return 0, err
	}
	return LoopbackFromNative(v)
}

// LoopbackModes lists the loopback modes the board supports.
func (c *core) LoopbackModes() ([]LoopbackModeInfo, error) {
	var raw []native.LoopbackMode
	if _, err := c.with(func(l native.Library, dev native.Device) int {
		var code int
		raw, code = l.GetLoopbackModes(dev)
		return code
	}); err != nil {
		return nil, err
	}
	modes := make([]LoopbackModeInfo, 0, len(raw))
	for _, m := range raw {
		mode, err := LoopbackFromNative(m.Mode)
		if err != nil {
			continue
		}
		modes = append(modes, LoopbackModeInfo{Name: m.Name, Mode: mode})
	}
	return modes, nil
}

func (c *core) IsLoopbackModeSupported(mode Loopback) (bool, error) {
	var ok bool
	err := c.do(func(l native.Library, dev native.Device) int {
		ok = l.IsLoopbackModeSupported(dev, int32(mode))
		return 0
	})
	return ok, err
}

// RX mux and tuning

func (c *core) SetRxMux(mux RxMux) error {
	return c.do(func(l native.Library, dev native.Device) int { return l.SetRxMux(dev, int32(mux)) })
}

func (c *core) RxMux() (RxMux, error) {
	var v int32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetRxMux(dev)
		return code
	})
	if err != nil {
		return 0, err
	}
	return RxMuxFromNative(v)
}

func (c *core) SetTuningMode(mode TuningMode) error {
	return c.do(func(l native.Library, dev native.Device) int { return l.SetTuningMode(dev, int32(mode)) })
}

func (c *core) TuningMode() (TuningMode, error) {
	var v int32
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetTuningMode(dev)
		return code
	})
	if err != nil {
		return 0, err
	}
	return TuningModeFromNative(v)
}

// QuickTune captures the current tuner state of ch.
func (c *core) QuickTune(ch Channel) (QuickTune, error) {
	var qt QuickTune
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		qt.raw, code = l.GetQuickTune(dev, ch.native())
		return code
	})
	return qt, err
}

// ScheduleRetune retunes ch to hz when the timestamp counter reaches at. A
// non-nil qt is applied instead of computing a new tuning.
func (c *core) ScheduleRetune(ch Channel, at uint64, hz uint64, qt *QuickTune) error {
	var raw *native.QuickTune
	if qt != nil {
		raw = &qt.raw
	}
	return c.do(func(l native.Library, dev native.Device) int {
		return l.ScheduleRetune(dev, ch.native(), at, hz, raw)
	})
}

func (c *core) CancelScheduledRetunes(ch Channel) error {
	return c.do(func(l native.Library, dev native.Device) int { return l.CancelScheduledRetunes(dev, ch.native()) })
}

// Corrections

func (c *core) SetCorrection(ch Channel, v CorrectionValue) error {
	return c.do(func(l native.Library, dev native.Device) int {
		return l.SetCorrection(dev, ch.native(), int32(v.kind), v.value)
	})
}

func (c *core) Correction(ch Channel, kind Correction) (CorrectionValue, error) {
	var v int16
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		v, code = l.GetCorrection(dev, ch.native(), int32(kind))
		return code
	})
	if err != nil {
		return CorrectionValue{}, err
	}
	return SaturatingCorrection(kind, int(v)), nil
}

// ConfigureModule applies every field of cfg to ch.
func (c *core) ConfigureModule(ch Channel, cfg ModuleConfig) error {
	if err := c.SetFrequency(ch, cfg.Frequency); err != nil {
		return err
	}
	if _, err := c.SetSampleRate(ch, cfg.SampleRate); err != nil {
		return err
	}
	if _, err := c.SetBandwidth(ch, cfg.Bandwidth); err != nil {
		return err
	}
	return c.SetGain(ch, cfg.Gain)
}

// Timestamp returns the sample counter of direction dir.
func (c *core) Timestamp(dir Direction) (uint64, error) {
	var ts uint64
	err := c.do(func(l native.Library, dev native.Device) int {
		var code int
		ts, code = l.GetTimestamp(dev, int32(dir))
		return code
	})
	return ts, err
}

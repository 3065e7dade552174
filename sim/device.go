package sim

import (
	"encoding/binary"
	"os"

	"github.com/jrwynneiii/gobladerf/native"
)

type syncState struct {
	layout       int32
	format       int32
	bufferSize   uint32
	numBuffers   uint32
	numTransfers uint32
}

type retune struct {
	at   uint64
	freq uint64
}

type device struct {
	cfg   DeviceConfig
	index int
	prof  *profile

	enabled  map[int32]bool
	freq     map[int32]uint64
	rate     map[int32]native.RationalRate
	bw       map[int32]uint32
	gain     map[int32]int32
	gainMode map[int32]int32
	stages   map[int32]map[string]int32
	corr     map[[2]int32]int16
	biasTee  map[int32]bool
	lpf      map[int32]int32
	retunes  map[int32][]retune
	trigger  map[int32]native.TriggerState
	ts       map[int32]uint64
	sync     map[int32]*syncState
	phase    map[int32]float64

	loopback   int32
	rxMux      int32
	tuningMode int32
	sampling   int32
	smbMode    int32
	smbFreq    native.RationalRate
	txvga2     int32

	xb       int32
	xbFilter map[int32]int32
	xbPath   map[int32]int32
	gpioVal  uint32
	gpioDir  uint32

	fpgaLoaded  bool
	fpgaFlashed bool
	fwFlashed   string
	txSamples   uint64
	txEnergy    float64
}

func newDevice(cfg DeviceConfig, index int) *device {
	d := &device{cfg: cfg, index: index, prof: profileFor(cfg.Board)}
	d.reset()
	return d
}

// reset returns the board to its power-on state.
func (d *device) reset() {
	p := d.prof
	d.enabled = make(map[int32]bool)
	d.freq = make(map[int32]uint64)
	d.rate = make(map[int32]native.RationalRate)
	d.bw = make(map[int32]uint32)
	d.gain = make(map[int32]int32)
	d.gainMode = make(map[int32]int32)
	d.stages = make(map[int32]map[string]int32)
	d.corr = make(map[[2]int32]int16)
	d.biasTee = make(map[int32]bool)
	d.lpf = make(map[int32]int32)
	d.retunes = make(map[int32][]retune)
	d.trigger = make(map[int32]native.TriggerState)
	d.ts = make(map[int32]uint64)
	d.sync = make(map[int32]*syncState)
	d.phase = make(map[int32]float64)
	d.xbFilter = make(map[int32]int32)
	d.xbPath = make(map[int32]int32)
	for _, ch := range p.channels {
		d.freq[ch] = p.defaultFreq
		d.rate[ch] = native.RationalRate{Integer: uint64(p.defaultRate), Den: 1}
		d.bw[ch] = p.defaultBW
		d.gain[ch] = int32(p.gain[ch].Min+p.gain[ch].Max) / 2
		d.stages[ch] = make(map[string]int32)
		for _, s := range p.stages[ch] {
			d.stages[ch][s.name] = int32(s.rng.Min)
		}
	}
	d.loopback = 0
	d.rxMux = 0
	d.tuningMode = 0
	d.sampling = 1
	d.smbMode = 0
	d.smbFreq = native.RationalRate{Den: 1}
	d.txvga2 = 0
	d.xb = 0
	d.gpioVal = 0
	d.gpioDir = 0
	d.fpgaLoaded = true
}

// State is a copy of a simulated device's hardware state.
type State struct {
	Board      string
	Enabled    map[int32]bool
	Frequency  map[int32]uint64
	Loopback   int32
	GPIOValue  uint32
	GPIODir    uint32
	Expansion  int32
	RxSynced   bool
	TxSynced   bool
	TxSamples  uint64
	FPGALoaded bool
	Firmware   string
}

func (d *device) snapshot() *State {
	s := &State{
		Board:      d.prof.name,
		Enabled:    make(map[int32]bool, len(d.enabled)),
		Frequency:  make(map[int32]uint64, len(d.freq)),
		Loopback:   d.loopback,
		GPIOValue:  d.gpioVal,
		GPIODir:    d.gpioDir,
		Expansion:  d.xb,
		RxSynced:   d.sync[native.DirectionRx] != nil,
		TxSynced:   d.sync[native.DirectionTx] != nil,
		TxSamples:  d.txSamples,
		FPGALoaded: d.fpgaLoaded,
		Firmware:   d.fwFlashed,
	}
	for k, v := range d.enabled {
		s.Enabled[k] = v
	}
	for k, v := range d.freq {
		s.Frequency[k] = v
	}
	return s
}

func (d *device) channel(ch int32) int {
	if !d.prof.hasChannel(ch) {
		return native.ErrInval
	}
	return 0
}

func (d *device) freqRange(ch int32) native.Range {
	r := d.prof.freq[ch]
	if d.xb == 2 {
		r.Min = 0
	}
	return r
}

func (d *device) isBladeRF1() bool { return d.prof.name == "bladerf1" }

// Introspection

func (l *Library) GetDevInfo(dev native.Device) (native.DevInfo, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetDevInfo", dev)
	if code != 0 {
		return native.DevInfo{}, code
	}
	return devInfo(d.cfg, d.index), 0
}

func (l *Library) GetSerial(dev native.Device) ([]byte, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetSerial", dev)
	if code != 0 {
		return nil, code
	}
	buf := make([]byte, native.SerialLen+1)
	copy(buf[:native.SerialLen], d.cfg.Serial)
	return buf, 0
}

func (l *Library) GetBoardName(dev native.Device) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetBoardName", dev)
	if code != 0 {
		return "unknown"
	}
	return d.prof.name
}

func (l *Library) FWVersion(dev native.Device) (native.Version, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, code := l.lookup("FWVersion", dev); code != 0 {
		return native.Version{}, code
	}
	return native.Version{Major: 2, Minor: 4, Patch: 0, Describe: "2.4.0-sim"}, 0
}

func (l *Library) FPGAVersion(dev native.Device) (native.Version, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("FPGAVersion", dev)
	if code != 0 {
		return native.Version{}, code
	}
	if !d.fpgaLoaded {
		return native.Version{}, native.ErrFPGAOp
	}
	return native.Version{Major: 0, Minor: 15, Patch: 3, Describe: "0.15.3-sim"}, 0
}

func (l *Library) IsFPGAConfigured(dev native.Device) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("IsFPGAConfigured", dev)
	if code != 0 {
		return code
	}
	if d.fpgaLoaded {
		return 1
	}
	return 0
}

func (l *Library) GetFPGASize(dev native.Device) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetFPGASize", dev)
	if code != 0 {
		return 0, code
	}
	return d.prof.fpgaSize, 0
}

func (l *Library) DeviceSpeed(dev native.Device) int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, code := l.lookup("DeviceSpeed", dev); code != 0 {
		return 0
	}
	return 2
}

func (l *Library) EnableModule(dev native.Device, ch int32, enable bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("EnableModule", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	d.enabled[ch] = enable
	if !enable {
		// Disabling a channel tears down the direction's sync pipeline.
		delete(d.sync, ch&1)
	}
	return 0
}

// Frequency

func (l *Library) SetFrequency(dev native.Device, ch int32, freq uint64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetFrequency", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	if !inRange(d.freqRange(ch), int64(freq)) {
		return native.ErrRange
	}
	d.freq[ch] = freq
	return 0
}

func (l *Library) GetFrequency(dev native.Device, ch int32) (uint64, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetFrequency", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	return d.freq[ch], 0
}

func (l *Library) GetFrequencyRange(dev native.Device, ch int32) (*native.Range, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetFrequencyRange", dev)
	if code != 0 {
		return nil, code
	}
	if code := d.channel(ch); code != 0 {
		return nil, code
	}
	r := d.freqRange(ch)
	return &r, 0
}

func (l *Library) SelectBand(dev native.Device, ch int32, freq uint64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SelectBand", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	if !inRange(d.freqRange(ch), int64(freq)) {
		return native.ErrRange
	}
	return 0
}

// Sample rate

func (l *Library) SetSampleRate(dev native.Device, ch int32, rate uint32) (uint32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetSampleRate", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	if !inRange(d.prof.rate, int64(rate)) {
		return 0, native.ErrRange
	}
	d.rate[ch] = native.RationalRate{Integer: uint64(rate), Den: 1}
	return rate, 0
}

func (l *Library) GetSampleRate(dev native.Device, ch int32) (uint32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetSampleRate", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	return uint32(d.rate[ch].Integer), 0
}

func (l *Library) GetSampleRateRange(dev native.Device, ch int32) (*native.Range, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetSampleRateRange", dev)
	if code != 0 {
		return nil, code
	}
	if code := d.channel(ch); code != 0 {
		return nil, code
	}
	r := d.prof.rate
	return &r, 0
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// normalize carries whole units out of the fraction and reduces it.
func normalize(r native.RationalRate) native.RationalRate {
	if r.Den == 0 {
		return native.RationalRate{Integer: r.Integer, Den: 1}
	}
	r.Integer += r.Num / r.Den
	r.Num %= r.Den
	if r.Num == 0 {
		r.Den = 1
		return r
	}
	g := gcd(r.Num, r.Den)
	r.Num /= g
	r.Den /= g
	return r
}

func (l *Library) SetRationalSampleRate(dev native.Device, ch int32, rate native.RationalRate) (native.RationalRate, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetRationalSampleRate", dev)
	if code != 0 {
		return native.RationalRate{}, code
	}
	if code := d.channel(ch); code != 0 {
		return native.RationalRate{}, code
	}
	rate = normalize(rate)
	if !inRange(d.prof.rate, int64(rate.Integer)) {
		return native.RationalRate{}, native.ErrRange
	}
	d.rate[ch] = rate
	return rate, 0
}

func (l *Library) GetRationalSampleRate(dev native.Device, ch int32) (native.RationalRate, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetRationalSampleRate", dev)
	if code != 0 {
		return native.RationalRate{}, code
	}
	if code := d.channel(ch); code != 0 {
		return native.RationalRate{}, code
	}
	return d.rate[ch], 0
}

// Bandwidth

func (l *Library) SetBandwidth(dev native.Device, ch int32, bw uint32) (uint32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetBandwidth", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	d.bw[ch] = d.prof.snapBandwidth(bw)
	return d.bw[ch], 0
}

func (l *Library) GetBandwidth(dev native.Device, ch int32) (uint32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetBandwidth", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	return d.bw[ch], 0
}

func (l *Library) GetBandwidthRange(dev native.Device, ch int32) (*native.Range, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetBandwidthRange", dev)
	if code != 0 {
		return nil, code
	}
	if code := d.channel(ch); code != 0 {
		return nil, code
	}
	r := d.prof.bandwidth
	return &r, 0
}

// Gain

func (l *Library) SetGain(dev native.Device, ch int32, gain int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetGain", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	r := d.prof.gain[ch]
	d.gain[ch] = int32(max(min(int64(gain), r.Max), r.Min))
	return 0
}

func (l *Library) GetGain(dev native.Device, ch int32) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetGain", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	return d.gain[ch], 0
}

func (l *Library) GetGainRange(dev native.Device, ch int32) (*native.Range, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetGainRange", dev)
	if code != 0 {
		return nil, code
	}
	if code := d.channel(ch); code != 0 {
		return nil, code
	}
	r := d.prof.gain[ch]
	return &r, 0
}

func (l *Library) SetGainMode(dev native.Device, ch int32, mode int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetGainMode", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	for _, m := range d.prof.gainModes[ch] {
		if m.Mode == mode {
			d.gainMode[ch] = mode
			return 0
		}
	}
	return native.ErrUnsupported
}

func (l *Library) GetGainMode(dev native.Device, ch int32) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetGainMode", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	return d.gainMode[ch], 0
}

func (l *Library) GetGainModes(dev native.Device, ch int32) ([]native.GainMode, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetGainModes", dev)
	if code != 0 {
		return nil, code
	}
	if code := d.channel(ch); code != 0 {
		return nil, code
	}
	modes := append([]native.GainMode(nil), d.prof.gainModes[ch]...)
	return modes, len(modes)
}

func (d *device) stage(ch int32, name string) (stage, bool) {
	for _, s := range d.prof.stages[ch] {
		if s.name == name {
			return s, true
		}
	}
	return stage{}, false
}

func (l *Library) SetGainStage(dev native.Device, ch int32, name string, gain int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetGainStage", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	s, ok := d.stage(ch, name)
	if !ok {
		return native.ErrInval
	}
	v := max(min(int64(gain), s.rng.Max), s.rng.Min)
	v = s.rng.Min + (v-s.rng.Min)/s.rng.Step*s.rng.Step
	d.stages[ch][name] = int32(v)
	return 0
}

func (l *Library) GetGainStage(dev native.Device, ch int32, name string) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetGainStage", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	if _, ok := d.stage(ch, name); !ok {
		return 0, native.ErrInval
	}
	return d.stages[ch][name], 0
}

func (l *Library) GetGainStageRange(dev native.Device, ch int32, name string) (*native.Range, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetGainStageRange", dev)
	if code != 0 {
		return nil, code
	}
	if code := d.channel(ch); code != 0 {
		return nil, code
	}
	s, ok := d.stage(ch, name)
	if !ok {
		return nil, native.ErrInval
	}
	r := s.rng
	return &r, 0
}

func (l *Library) GetGainStages(dev native.Device, ch int32, out [][]byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetGainStages", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	stages := d.prof.stages[ch]
	for i := 0; i < len(out) && i < len(stages); i++ {
		out[i] = append([]byte(stages[i].name), 0)
	}
	return len(stages)
}

// Loopback, mux and tuning

func (l *Library) SetLoopback(dev native.Device, mode int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetLoopback", dev)
	if code != 0 {
		return code
	}
	if !d.supportsLoopback(mode) {
		return native.ErrUnsupported
	}
	d.loopback = mode
	return 0
}

func (d *device) supportsLoopback(mode int32) bool {
	for _, m := range d.prof.loopbacks {
		if m.Mode == mode {
			return true
		}
	}
	return false
}

func (l *Library) GetLoopback(dev native.Device) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetLoopback", dev)
	if code != 0 {
		return 0, code
	}
	return d.loopback, 0
}

func (l *Library) GetLoopbackModes(dev native.Device) ([]native.LoopbackMode, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetLoopbackModes", dev)
	if code != 0 {
		return nil, code
	}
	modes := append([]native.LoopbackMode(nil), d.prof.loopbacks...)
	return modes, len(modes)
}

func (l *Library) IsLoopbackModeSupported(dev native.Device, mode int32) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("IsLoopbackModeSupported", dev)
	if code != 0 {
		return false
	}
	return d.supportsLoopback(mode)
}

func (l *Library) SetRxMux(dev native.Device, mux int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetRxMux", dev)
	if code != 0 {
		return code
	}
	switch mux {
	case 0, 1, 2, 4:
		d.rxMux = mux
		return 0
	}
	return native.ErrInval
}

func (l *Library) GetRxMux(dev native.Device) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetRxMux", dev)
	if code != 0 {
		return 0, code
	}
	return d.rxMux, 0
}

func (l *Library) SetTuningMode(dev native.Device, mode int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetTuningMode", dev)
	if code != 0 {
		return code
	}
	if mode != 0 && mode != 1 {
		return native.ErrInval
	}
	d.tuningMode = mode
	return 0
}

func (l *Library) GetTuningMode(dev native.Device) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetTuningMode", dev)
	if code != 0 {
		return 0, code
	}
	return d.tuningMode, 0
}

// maxRetunes is the depth of the FPGA retune queue.
const maxRetunes = 16

func (l *Library) ScheduleRetune(dev native.Device, ch int32, timestamp uint64, freq uint64, qt *native.QuickTune) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("ScheduleRetune", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	if qt != nil {
		freq = binary.LittleEndian.Uint64(qt.Data[:8])
	}
	if !inRange(d.freqRange(ch), int64(freq)) {
		return native.ErrRange
	}
	if timestamp == 0 {
		d.freq[ch] = freq
		return 0
	}
	if timestamp < d.ts[ch&1] {
		return native.ErrTimePast
	}
	if len(d.retunes[ch]) >= maxRetunes {
		return native.ErrQueueFull
	}
	d.retunes[ch] = append(d.retunes[ch], retune{at: timestamp, freq: freq})
	return 0
}

func (l *Library) CancelScheduledRetunes(dev native.Device, ch int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("CancelScheduledRetunes", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	delete(d.retunes, ch)
	return 0
}

func (l *Library) GetQuickTune(dev native.Device, ch int32) (native.QuickTune, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetQuickTune", dev)
	if code != 0 {
		return native.QuickTune{}, code
	}
	if code := d.channel(ch); code != 0 {
		return native.QuickTune{}, code
	}
	var qt native.QuickTune
	binary.LittleEndian.PutUint64(qt.Data[:8], d.freq[ch])
	return qt, 0
}

// applyRetunes moves due retunes of direction dir into effect.
func (d *device) applyRetunes(dir int32) {
	now := d.ts[dir]
	for ch, queue := range d.retunes {
		if ch&1 != dir {
			continue
		}
		rest := queue[:0]
		for _, r := range queue {
			if r.at <= now {
				d.freq[ch] = r.freq
			} else {
				rest = append(rest, r)
			}
		}
		d.retunes[ch] = rest
	}
}

// Corrections

func (l *Library) SetCorrection(dev native.Device, ch int32, corr int32, value int16) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("SetCorrection", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	if corr < 0 || corr > 3 {
		return native.ErrInval
	}
	d.corr[[2]int32{ch, corr}] = value
	return 0
}

func (l *Library) GetCorrection(dev native.Device, ch int32, corr int32) (int16, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetCorrection", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	if corr < 0 || corr > 3 {
		return 0, native.ErrInval
	}
	return d.corr[[2]int32{ch, corr}], 0
}

// Triggers

func (l *Library) TriggerInit(dev native.Device, ch int32, signal int32) (native.Trigger, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("TriggerInit", dev)
	if code != 0 {
		return native.Trigger{}, code
	}
	if code := d.channel(ch); code != 0 {
		return native.Trigger{}, code
	}
	return native.Trigger{Channel: ch, Role: 0, Signal: signal}, 0
}

func (l *Library) TriggerArm(dev native.Device, trig *native.Trigger, arm bool, _, _ uint64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("TriggerArm", dev)
	if code != 0 {
		return code
	}
	if trig == nil {
		return native.ErrInval
	}
	if trig.Role != 1 && trig.Role != 2 {
		return native.ErrInval
	}
	st := d.trigger[trig.Channel]
	st.Armed = arm
	if !arm {
		st.Fired = false
		st.FireRequested = false
	}
	d.trigger[trig.Channel] = st
	return 0
}

func (l *Library) TriggerFire(dev native.Device, trig *native.Trigger) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("TriggerFire", dev)
	if code != 0 {
		return code
	}
	if trig == nil || trig.Role != 1 {
		return native.ErrInval
	}
	st := d.trigger[trig.Channel]
	st.FireRequested = true
	if st.Armed {
		st.Fired = true
	}
	d.trigger[trig.Channel] = st
	return 0
}

func (l *Library) TriggerState(dev native.Device, trig *native.Trigger) (native.TriggerState, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("TriggerState", dev)
	if code != 0 {
		return native.TriggerState{}, code
	}
	if trig == nil {
		return native.TriggerState{}, native.ErrInval
	}
	return d.trigger[trig.Channel], 0
}

// Timestamps

func (l *Library) GetTimestamp(dev native.Device, dir int32) (uint64, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetTimestamp", dev)
	if code != 0 {
		return 0, code
	}
	if dir != native.DirectionRx && dir != native.DirectionTx {
		return 0, native.ErrInval
	}
	return d.ts[dir], 0
}

// Firmware and FPGA

func fileCheck(path string) int {
	if _, err := os.Stat(path); err != nil {
		return native.ErrNoFile
	}
	return 0
}

func (l *Library) FlashFirmware(dev native.Device, path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("FlashFirmware", dev)
	if code != 0 {
		return code
	}
	if code := fileCheck(path); code != 0 {
		return code
	}
	d.fwFlashed = path
	return 0
}

func (l *Library) LoadFPGA(dev native.Device, path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("LoadFPGA", dev)
	if code != 0 {
		return code
	}
	if code := fileCheck(path); code != 0 {
		return code
	}
	d.fpgaLoaded = true
	return 0
}

func (l *Library) FlashFPGA(dev native.Device, path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("FlashFPGA", dev)
	if code != 0 {
		return code
	}
	if code := fileCheck(path); code != 0 {
		return code
	}
	d.fpgaFlashed = true
	return 0
}

func (l *Library) EraseStoredFPGA(dev native.Device) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("EraseStoredFPGA", dev)
	if code != 0 {
		return code
	}
	d.fpgaFlashed = false
	return 0
}

func (l *Library) GetFWLog(dev native.Device, path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.lookup("GetFWLog", dev)
	if code != 0 {
		return code
	}
	log := "[sim] firmware log for " + d.cfg.Serial + "\n"
	if err := os.WriteFile(path, []byte(log), 0o644); err != nil {
		return native.ErrIO
	}
	return 0
}

// bladeRF 1

func (l *Library) v1(op string, dev native.Device) (*device, int) {
	d, code := l.lookup(op, dev)
	if code != 0 {
		return nil, code
	}
	if !d.isBladeRF1() {
		return nil, native.ErrUnsupported
	}
	return d, 0
}

func (l *Library) SetTXVGA2(dev native.Device, gain int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("SetTXVGA2", dev)
	if code != 0 {
		return code
	}
	d.txvga2 = max(min(gain, 25), 0)
	return 0
}

func (l *Library) GetTXVGA2(dev native.Device) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("GetTXVGA2", dev)
	if code != 0 {
		return 0, code
	}
	return d.txvga2, 0
}

func (l *Library) SetSampling(dev native.Device, sampling int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("SetSampling", dev)
	if code != 0 {
		return code
	}
	if sampling != 1 && sampling != 2 {
		return native.ErrInval
	}
	d.sampling = sampling
	return 0
}

func (l *Library) GetSampling(dev native.Device) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("GetSampling", dev)
	if code != 0 {
		return 0, code
	}
	return d.sampling, 0
}

func (l *Library) SetLPFMode(dev native.Device, ch int32, mode int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("SetLPFMode", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	if mode < 0 || mode > 2 {
		return native.ErrInval
	}
	d.lpf[ch] = mode
	return 0
}

func (l *Library) GetLPFMode(dev native.Device, ch int32) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("GetLPFMode", dev)
	if code != 0 {
		return 0, code
	}
	if code := d.channel(ch); code != 0 {
		return 0, code
	}
	return d.lpf[ch], 0
}

func (l *Library) SetSMBMode(dev native.Device, mode int32) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("SetSMBMode", dev)
	if code != 0 {
		return code
	}
	if mode < 0 || mode > 2 {
		return native.ErrInval
	}
	d.smbMode = mode
	return 0
}

func (l *Library) GetSMBMode(dev native.Device) (int32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("GetSMBMode", dev)
	if code != 0 {
		return 0, code
	}
	return d.smbMode, 0
}

// SMB clock output limits of the Si5338.
const (
	smbMin = 2_500_000
	smbMax = 200_000_000
)

func (l *Library) SetSMBFrequency(dev native.Device, rate uint32) (uint32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("SetSMBFrequency", dev)
	if code != 0 {
		return 0, code
	}
	if rate < smbMin || rate > smbMax {
		return 0, native.ErrRange
	}
	d.smbFreq = native.RationalRate{Integer: uint64(rate), Den: 1}
	d.smbMode = 1
	return rate, 0
}

func (l *Library) GetSMBFrequency(dev native.Device) (uint32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("GetSMBFrequency", dev)
	if code != 0 {
		return 0, code
	}
	return uint32(d.smbFreq.Integer), 0
}

func (l *Library) SetRationalSMBFrequency(dev native.Device, rate native.RationalRate) (native.RationalRate, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("SetRationalSMBFrequency", dev)
	if code != 0 {
		return native.RationalRate{}, code
	}
	rate = normalize(rate)
	if rate.Integer < smbMin || rate.Integer >= smbMax {
		return native.RationalRate{}, native.ErrRange
	}
	d.smbFreq = rate
	d.smbMode = 1
	return rate, 0
}

func (l *Library) GetRationalSMBFrequency(dev native.Device) (native.RationalRate, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v1("GetRationalSMBFrequency", dev)
	if code != 0 {
		return native.RationalRate{}, code
	}
	return d.smbFreq, 0
}

// bladeRF 2

func (l *Library) v2(op string, dev native.Device) (*device, int) {
	d, code := l.lookup(op, dev)
	if code != 0 {
		return nil, code
	}
	if d.isBladeRF1() {
		return nil, native.ErrUnsupported
	}
	return d, 0
}

func (l *Library) SetBiasTee(dev native.Device, ch int32, enable bool) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v2("SetBiasTee", dev)
	if code != 0 {
		return code
	}
	if code := d.channel(ch); code != 0 {
		return code
	}
	d.biasTee[ch] = enable
	return 0
}

func (l *Library) GetBiasTee(dev native.Device, ch int32) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, code := l.v2("GetBiasTee", dev)
	if code != 0 {
		return false, code
	}
	if code := d.channel(ch); code != 0 {
		return false, code
	}
	return d.biasTee[ch], 0
}

func (l *Library) GetRFICTemperature(dev native.Device) (float32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, code := l.v2("GetRFICTemperature", dev); code != 0 {
		return 0, code
	}
	return 42.5, 0
}

var pmic = map[int32]float32{
	0: 0x4127,
	1: 0.0021,
	2: 5.04,
	3: 2.3,
	4: 0.46,
	5: 0x1000,
}

func (l *Library) GetPMICRegister(dev native.Device, reg int32) (float32, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, code := l.v2("GetPMICRegister", dev); code != 0 {
		return 0, code
	}
	v, ok := pmic[reg]
	if !ok {
		return 0, native.ErrInval
	}
	return v, 0
}

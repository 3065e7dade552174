package bladerf

import (
	"errors"
	"math"
	"testing"

	"github.com/jrwynneiii/gobladerf/sim"
)

func TestTuneAndReadBack(t *testing.T) {
	_, b := openBladeRF2(t)
	const want = 915_000_000
	if err := b.SetFrequency(Rx0, want); err != nil {
		t.Fatalf("SetFrequency: %v", err)
	}
	got, err := b.Frequency(Rx0)
	if err != nil {
		t.Fatalf("Frequency: %v", err)
	}
	if diff := math.Abs(float64(got) - want); diff > 10 {
		t.Fatalf("expected %d within 10 Hz, got %d", want, got)
	}
	r, err := b.FrequencyRange(Rx0)
	if err != nil {
		t.Fatalf("FrequencyRange: %v", err)
	}
	if !r.Contains(float64(got)) {
		t.Fatalf("range %v does not contain %d", r, got)
	}
}

func TestFrequencyOutOfRange(t *testing.T) {
	_, b := openBladeRF2(t)
	if err := b.SetFrequency(Rx0, 10); !errors.Is(err, ErrRange) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestSetGetLaws(t *testing.T) {
	_, b := openBladeRF2(t)

	rate, err := b.SetSampleRate(Rx0, 10_000_000)
	if err != nil {
		t.Fatalf("SetSampleRate: %v", err)
	}
	if got, _ := b.SampleRate(Rx0); got != rate {
		t.Fatalf("sample rate read back %d, set returned %d", got, rate)
	}
	rr, err := b.SampleRateRange(Rx0)
	if err != nil || !rr.Contains(float64(rate)) {
		t.Fatalf("sample rate %d outside %v (%v)", rate, rr, err)
	}

	bw, err := b.SetBandwidth(Rx0, 5_000_000)
	if err != nil {
		t.Fatalf("SetBandwidth: %v", err)
	}
	if got, _ := b.Bandwidth(Rx0); got != bw {
		t.Fatalf("bandwidth read back %d, set returned %d", got, bw)
	}
	br, err := b.BandwidthRange(Rx0)
	if err != nil || !br.Contains(float64(bw)) {
		t.Fatalf("bandwidth %d outside %v (%v)", bw, br, err)
	}

	if err := b.SetGain(Tx0, 30); err != nil {
		t.Fatalf("SetGain: %v", err)
	}
	g, _ := b.Gain(Tx0)
	gr, err := b.GainRange(Tx0)
	if err != nil || g != 30 || !gr.Contains(float64(g)) {
		t.Fatalf("gain %d, range %v, err %v", g, gr, err)
	}
}

func TestRationalSampleRate(t *testing.T) {
	_, b := openBladeRF2(t)
	got, err := b.SetRationalSampleRate(Rx0, RationalRate{Integer: 1_000_000, Num: 3, Den: 6})
	if err != nil {
		t.Fatalf("SetRationalSampleRate: %v", err)
	}
	if got.Num != 1 || got.Den != 2 {
		t.Fatalf("expected reduced fraction 1/2, got %v", got)
	}
	back, err := b.RationalSampleRate(Rx0)
	if err != nil || back != got {
		t.Fatalf("read back %v, %v", back, err)
	}
	if math.Abs(back.Float64()-1_000_000.5) > 1e-6 {
		t.Fatalf("Float64 = %v", back.Float64())
	}
}

func TestBladeRF1BandwidthSnaps(t *testing.T) {
	_, b := openBladeRF1(t, sim.DeviceConfig{})
	bw, err := b.SetBandwidth(Rx0, 4_000_000)
	if err != nil {
		t.Fatalf("SetBandwidth: %v", err)
	}
	if bw != 5_000_000 {
		t.Fatalf("expected LPF bandwidth 5 MHz, got %d", bw)
	}
	if _, err := b.SetBandwidth(Rx1, 4_000_000); !errors.Is(err, ErrInvalid) {
		t.Fatalf("bladeRF 1 accepted RX1: %v", err)
	}
}

func TestGainStagesAndModes(t *testing.T) {
	_, b := openBladeRF2(t)
	stages, err := b.GainStages(Rx0)
	if err != nil {
		t.Fatalf("GainStages: %v", err)
	}
	if len(stages) != 1 || stages[0] != "full" {
		t.Fatalf("unexpected stages %v", stages)
	}
	if err := b.SetGainStage(Rx0, "full", 20); err != nil {
		t.Fatalf("SetGainStage: %v", err)
	}
	if g, err := b.GainStage(Rx0, "full"); err != nil || g != 20 {
		t.Fatalf("GainStage = %d, %v", g, err)
	}
	if _, err := b.GainStageRange(Rx0, "fu\x00ll"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid argument for NUL stage, got %v", err)
	}

	modes, err := b.GainModes(Rx0)
	if err != nil || len(modes) != 5 {
		t.Fatalf("GainModes = %v, %v", modes, err)
	}
	if err := b.SetGainMode(Rx0, GainModeManual); err != nil {
		t.Fatalf("SetGainMode: %v", err)
	}
	if m, _ := b.GainMode(Rx0); m != GainModeManual {
		t.Fatalf("gain mode read back %v", m)
	}
	if err := b.SetGainMode(Tx0, GainModeHybridAGC); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("TX accepted AGC mode: %v", err)
	}
}

func TestLoopback(t *testing.T) {
	_, b := openBladeRF2(t)
	modes, err := b.LoopbackModes()
	if err != nil || len(modes) != 3 {
		t.Fatalf("LoopbackModes = %v, %v", modes, err)
	}
	ok, err := b.IsLoopbackModeSupported(LoopbackRfLna1)
	if err != nil || ok {
		t.Fatalf("bladeRF 2 claims rf_lna1 support")
	}
	if err := b.SetLoopback(LoopbackRfLna1); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
	if err := b.SetLoopback(LoopbackFirmware); err != nil {
		t.Fatalf("SetLoopback: %v", err)
	}
	if lb, _ := b.Loopback(); lb != LoopbackFirmware {
		t.Fatalf("loopback read back %v", lb)
	}
}

func TestCorrectionRoundTrip(t *testing.T) {
	_, b := openBladeRF2(t)
	v, err := PhaseCorrection(-1000)
	if err != nil {
		t.Fatalf("PhaseCorrection: %v", err)
	}
	if err := b.SetCorrection(Tx0, v); err != nil {
		t.Fatalf("SetCorrection: %v", err)
	}
	got, err := b.Correction(Tx0, CorrectionPhase)
	if err != nil {
		t.Fatalf("Correction: %v", err)
	}
	if got != v {
		t.Fatalf("read back %v, want %v", got, v)
	}
}

func TestConfigureModule(t *testing.T) {
	_, b := openBladeRF2(t)
	cfg := ModuleConfig{Frequency: 433_920_000, SampleRate: 2_000_000, Bandwidth: 1_500_000, Gain: 25}
	if err := b.ConfigureModule(Rx1, cfg); err != nil {
		t.Fatalf("ConfigureModule: %v", err)
	}
	if f, _ := b.Frequency(Rx1); f != cfg.Frequency {
		t.Fatalf("frequency %d", f)
	}
	if g, _ := b.Gain(Rx1); g != cfg.Gain {
		t.Fatalf("gain %d", g)
	}
}

func TestScheduledRetune(t *testing.T) {
	_, b := openBladeRF2(t)
	qt, err := b.QuickTune(Rx0)
	if err != nil {
		t.Fatalf("QuickTune: %v", err)
	}
	if err := b.SetFrequency(Rx0, 100_000_000); err != nil {
		t.Fatalf("SetFrequency: %v", err)
	}
	if err := b.ScheduleRetune(Rx0, 0, 0, &qt); err != nil {
		t.Fatalf("ScheduleRetune: %v", err)
	}
	if f, _ := b.Frequency(Rx0); f != 2_400_000_000 {
		t.Fatalf("quick tune did not restore the frequency: %d", f)
	}

	for i := 0; i < 16; i++ {
		if err := b.ScheduleRetune(Rx0, uint64(1_000_000+i), 200_000_000, nil); err != nil {
			t.Fatalf("ScheduleRetune %d: %v", i, err)
		}
	}
	if err := b.ScheduleRetune(Rx0, 2_000_000, 200_000_000, nil); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected queue full, got %v", err)
	}
	if err := b.CancelScheduledRetunes(Rx0); err != nil {
		t.Fatalf("CancelScheduledRetunes: %v", err)
	}
	if err := b.ScheduleRetune(Rx0, 2_000_000, 200_000_000, nil); err != nil {
		t.Fatalf("queue not cleared: %v", err)
	}
}

func TestTuningModeAndRxMux(t *testing.T) {
	_, b := openBladeRF2(t)
	if err := b.SetTuningMode(TuningModeFPGA); err != nil {
		t.Fatalf("SetTuningMode: %v", err)
	}
	if m, _ := b.TuningMode(); m != TuningModeFPGA {
		t.Fatalf("tuning mode read back %v", m)
	}
	if err := b.SetRxMux(RxMuxDigitalLoopback); err != nil {
		t.Fatalf("SetRxMux: %v", err)
	}
	if m, _ := b.RxMux(); m != RxMuxDigitalLoopback {
		t.Fatalf("rx mux read back %v", m)
	}
}

func TestTriggers(t *testing.T) {
	_, b := openBladeRF2(t)
	trig, err := b.TriggerInit(Rx0, TriggerSignalJ51_1)
	if err != nil {
		t.Fatalf("TriggerInit: %v", err)
	}
	if trig.Role != TriggerRoleDisabled {
		t.Fatalf("new trigger role %v", trig.Role)
	}
	if err := b.TriggerArm(trig, true); !errors.Is(err, ErrInvalid) {
		t.Fatalf("armed a disabled trigger: %v", err)
	}
	trig.Role = TriggerRoleMaster
	if err := b.TriggerArm(trig, true); err != nil {
		t.Fatalf("TriggerArm: %v", err)
	}
	if err := b.TriggerFire(trig); err != nil {
		t.Fatalf("TriggerFire: %v", err)
	}
	st, err := b.TriggerState(trig)
	if err != nil {
		t.Fatalf("TriggerState: %v", err)
	}
	if !st.Armed || !st.Fired || !st.FireRequested {
		t.Fatalf("unexpected trigger state %+v", st)
	}
}

func TestBladeRF1Controls(t *testing.T) {
	_, b := openBladeRF1(t, sim.DeviceConfig{})
	if err := b.SetTXVGA2(20); err != nil {
		t.Fatalf("SetTXVGA2: %v", err)
	}
	if g, _ := b.TXVGA2(); g != 20 {
		t.Fatalf("TXVGA2 = %d", g)
	}
	if err := b.SetSampling(SamplingExternal); err != nil {
		t.Fatalf("SetSampling: %v", err)
	}
	if s, _ := b.Sampling(); s != SamplingExternal {
		t.Fatalf("Sampling = %v", s)
	}
	if err := b.SetLPFMode(Rx0, LPFBypassed); err != nil {
		t.Fatalf("SetLPFMode: %v", err)
	}
	if m, _ := b.LPFMode(Rx0); m != LPFBypassed {
		t.Fatalf("LPFMode = %v", m)
	}
	hz, err := b.SetSMBFrequency(10_000_000)
	if err != nil || hz != 10_000_000 {
		t.Fatalf("SetSMBFrequency = %d, %v", hz, err)
	}
	if m, _ := b.SMBMode(); m != SMBModeOutput {
		t.Fatalf("SMB mode after setting a frequency: %v", m)
	}
	if _, err := b.SetSMBFrequency(1); !errors.Is(err, ErrRange) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestBladeRF2BiasTee(t *testing.T) {
	_, b := openBladeRF2(t)
	if err := b.SetBiasTee(Tx1, true); err != nil {
		t.Fatalf("SetBiasTee: %v", err)
	}
	if on, _ := b.BiasTee(Tx1); !on {
		t.Fatalf("bias tee not enabled")
	}
	if on, _ := b.BiasTee(Tx0); on {
		t.Fatalf("bias tee leaked to TX0")
	}
}

package bladerf

import "fmt"

// enumFromNative returns v as a T when it is one of valid.
func enumFromNative[T ~int32](name string, v int32, valid ...T) (T, error) {
	for _, e := range valid {
		if int32(e) == v {
			return e, nil
		}
	}
	return 0, invalidError("invalid %s value: %d", name, v)
}

func enumString[T ~int32](v T, names map[T]string) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("%d", int32(v))
}

// LogLevel is the libbladeRF log verbosity.
type LogLevel int32

const (
	LogVerbose LogLevel = iota
	LogDebug
	LogInfo
	LogWarning
	LogError
	LogCritical
	LogSilent
)

var logLevelNames = map[LogLevel]string{
	LogVerbose: "verbose", LogDebug: "debug", LogInfo: "info", LogWarning: "warning",
	LogError: "error", LogCritical: "critical", LogSilent: "silent",
}

func LogLevelFromNative(v int32) (LogLevel, error) {
	return enumFromNative("LogLevel", v, LogVerbose, LogDebug, LogInfo, LogWarning, LogError, LogCritical, LogSilent)
}

func (l LogLevel) String() string { return enumString(l, logLevelNames) }

// ParseLogLevel accepts the names printed by String.
func ParseLogLevel(s string) (LogLevel, error) {
	for l, name := range logLevelNames {
		if name == s {
			return l, nil
		}
	}
	return 0, invalidError("unknown log level %q", s)
}

// Backend is the USB backend a device was found through.
type Backend int32

const (
	BackendAny     Backend = 0
	BackendLinux   Backend = 1
	BackendLibUSB  Backend = 2
	BackendCypress Backend = 3
	BackendDummy   Backend = 100
)

var backendNames = map[Backend]string{
	BackendAny: "any", BackendLinux: "linux", BackendLibUSB: "libusb", BackendCypress: "cypress", BackendDummy: "dummy",
}

func BackendFromNative(v int32) (Backend, error) {
	return enumFromNative("Backend", v, BackendAny, BackendLinux, BackendLibUSB, BackendCypress, BackendDummy)
}

func (b Backend) String() string { return enumString(b, backendNames) }

// Sampling selects the bladeRF 1 ADC input.
type Sampling int32

const (
	SamplingUnknown  Sampling = 0
	SamplingInternal Sampling = 1
	SamplingExternal Sampling = 2
)

func SamplingFromNative(v int32) (Sampling, error) {
	return enumFromNative("Sampling", v, SamplingUnknown, SamplingInternal, SamplingExternal)
}

func (s Sampling) String() string {
	return enumString(s, map[Sampling]string{SamplingUnknown: "unknown", SamplingInternal: "internal", SamplingExternal: "external"})
}

// RxMux selects the source of RX samples in the FPGA.
type RxMux int32

const (
	RxMuxInvalid         RxMux = -1
	RxMuxBaseband        RxMux = 0
	RxMux12BitCounter    RxMux = 1
	RxMux32BitCounter    RxMux = 2
	RxMuxDigitalLoopback RxMux = 4
)

func RxMuxFromNative(v int32) (RxMux, error) {
	return enumFromNative("RxMux", v, RxMuxInvalid, RxMuxBaseband, RxMux12BitCounter, RxMux32BitCounter, RxMuxDigitalLoopback)
}

func (m RxMux) String() string {
	return enumString(m, map[RxMux]string{
		RxMuxInvalid: "invalid", RxMuxBaseband: "baseband", RxMux12BitCounter: "12bit counter",
		RxMux32BitCounter: "32bit counter", RxMuxDigitalLoopback: "digital loopback",
	})
}

// LPFMode is the bladeRF 1 low-pass filter mode.
type LPFMode int32

const (
	LPFNormal   LPFMode = 0
	LPFBypassed LPFMode = 1
	LPFDisabled LPFMode = 2
)

func LPFModeFromNative(v int32) (LPFMode, error) {
	return enumFromNative("LPFMode", v, LPFNormal, LPFBypassed, LPFDisabled)
}

func (m LPFMode) String() string {
	return enumString(m, map[LPFMode]string{LPFNormal: "normal", LPFBypassed: "bypassed", LPFDisabled: "disabled"})
}

// TuningMode selects whether the host or the FPGA performs tuning.
type TuningMode int32

const (
	TuningModeInvalid TuningMode = -1
	TuningModeHost    TuningMode = 0
	TuningModeFPGA    TuningMode = 1
)

func TuningModeFromNative(v int32) (TuningMode, error) {
	return enumFromNative("TuningMode", v, TuningModeInvalid, TuningModeHost, TuningModeFPGA)
}

func (m TuningMode) String() string {
	return enumString(m, map[TuningMode]string{TuningModeInvalid: "invalid", TuningModeHost: "host", TuningModeFPGA: "fpga"})
}

// GainMode is the automatic gain control mode.
type GainMode int32

const (
	GainModeDefault       GainMode = 0
	GainModeManual        GainMode = 1
	GainModeFastAttackAGC GainMode = 2
	GainModeSlowAttackAGC GainMode = 3
	GainModeHybridAGC     GainMode = 4
)

var gainModeNames = map[GainMode]string{
	GainModeDefault: "default", GainModeManual: "manual", GainModeFastAttackAGC: "fastattack_agc",
	GainModeSlowAttackAGC: "slowattack_agc", GainModeHybridAGC: "hybrid_agc",
}

func GainModeFromNative(v int32) (GainMode, error) {
	return enumFromNative("GainMode", v, GainModeDefault, GainModeManual, GainModeFastAttackAGC, GainModeSlowAttackAGC, GainModeHybridAGC)
}

func (m GainMode) String() string { return enumString(m, gainModeNames) }

// ParseGainMode accepts the names printed by String.
func ParseGainMode(s string) (GainMode, error) {
	for m, name := range gainModeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, invalidError("unknown gain mode %q", s)
}

// GainModeInfo is one entry of the device's gain mode list.
type GainModeInfo struct {
	Name string
	Mode GainMode
}

// Loopback is an internal signal routing mode.
type Loopback int32

const (
	LoopbackNone           Loopback = 0
	LoopbackFirmware       Loopback = 1
	LoopbackBbTxlpfRxvga2  Loopback = 2
	LoopbackBbTxvga1Rxvga2 Loopback = 3
	LoopbackBbTxlpfRxlpf   Loopback = 4
	LoopbackBbTxvga1Rxlpf  Loopback = 5
	LoopbackRfLna1         Loopback = 6
	LoopbackRfLna2         Loopback = 7
	LoopbackRfLna3         Loopback = 8
	LoopbackRficBist       Loopback = 9
)

var loopbackNames = map[Loopback]string{
	LoopbackNone: "none", LoopbackFirmware: "firmware", LoopbackBbTxlpfRxvga2: "bb_txlpf_rxvga2",
	LoopbackBbTxvga1Rxvga2: "bb_txvga1_rxvga2", LoopbackBbTxlpfRxlpf: "bb_txlpf_rxlpf",
	LoopbackBbTxvga1Rxlpf: "bb_txvga1_rxlpf", LoopbackRfLna1: "rf_lna1", LoopbackRfLna2: "rf_lna2",
	LoopbackRfLna3: "rf_lna3", LoopbackRficBist: "rfic_bist",
}

func LoopbackFromNative(v int32) (Loopback, error) {
	return enumFromNative("Loopback", v, LoopbackNone, LoopbackFirmware, LoopbackBbTxlpfRxvga2, LoopbackBbTxvga1Rxvga2,
		LoopbackBbTxlpfRxlpf, LoopbackBbTxvga1Rxlpf, LoopbackRfLna1, LoopbackRfLna2, LoopbackRfLna3, LoopbackRficBist)
}

func (l Loopback) String() string { return enumString(l, loopbackNames) }

// ParseLoopback accepts the names printed by String.
func ParseLoopback(s string) (Loopback, error) {
	for l, name := range loopbackNames {
		if name == s {
			return l, nil
		}
	}
	return 0, invalidError("unknown loopback mode %q", s)
}

// LoopbackModeInfo is one entry of the device's loopback mode list.
type LoopbackModeInfo struct {
	Name string
	Mode Loopback
}

// FPGASize is the FPGA part fitted to the board.
type FPGASize int32

const (
	FPGASizeUnknown FPGASize = 0
	FPGASize40KLE   FPGASize = 40
	FPGASize115KLE  FPGASize = 115
	FPGASizeA4      FPGASize = 49
	FPGASizeA5      FPGASize = 77
	FPGASizeA9      FPGASize = 301
)

func FPGASizeFromNative(v int32) (FPGASize, error) {
	return enumFromNative("FPGASize", v, FPGASizeUnknown, FPGASize40KLE, FPGASize115KLE, FPGASizeA4, FPGASizeA5, FPGASizeA9)
}

func (s FPGASize) String() string {
	return enumString(s, map[FPGASize]string{
		FPGASizeUnknown: "unknown", FPGASize40KLE: "40 kLE", FPGASize115KLE: "115 kLE",
		FPGASizeA4: "A4 (49 kLE)", FPGASizeA5: "A5 (77 kLE)", FPGASizeA9: "A9 (301 kLE)",
	})
}

// DeviceSpeed is the negotiated USB speed.
type DeviceSpeed int32

const (
	SpeedUnknown DeviceSpeed = 0
	SpeedHigh    DeviceSpeed = 1
	SpeedSuper   DeviceSpeed = 2
)

func DeviceSpeedFromNative(v int32) (DeviceSpeed, error) {
	return enumFromNative("DeviceSpeed", v, SpeedUnknown, SpeedHigh, SpeedSuper)
}

func (s DeviceSpeed) String() string {
	return enumString(s, map[DeviceSpeed]string{SpeedUnknown: "unknown", SpeedHigh: "high speed", SpeedSuper: "super speed"})
}

// ExpansionModule identifies a bladeRF 1 expansion board.
type ExpansionModule int32

const (
	ExpansionNone  ExpansionModule = 0
	ExpansionXB100 ExpansionModule = 1
	ExpansionXB200 ExpansionModule = 2
	ExpansionXB300 ExpansionModule = 3
)

func ExpansionModuleFromNative(v int32) (ExpansionModule, error) {
	return enumFromNative("ExpansionModule", v, ExpansionNone, ExpansionXB100, ExpansionXB200, ExpansionXB300)
}

func (m ExpansionModule) String() string {
	return enumString(m, map[ExpansionModule]string{ExpansionNone: "none", ExpansionXB100: "XB-100", ExpansionXB200: "XB-200", ExpansionXB300: "XB-300"})
}

// PMICRegister selects a bladeRF 2 power monitor register.
type PMICRegister int32

const (
	PMICConfiguration PMICRegister = 0
	PMICVoltageShunt  PMICRegister = 1
	PMICVoltageBus    PMICRegister = 2
	PMICPower         PMICRegister = 3
	PMICCurrent       PMICRegister = 4
	PMICCalibration   PMICRegister = 5
)

func PMICRegisterFromNative(v int32) (PMICRegister, error) {
	return enumFromNative("PMICRegister", v, PMICConfiguration, PMICVoltageShunt, PMICVoltageBus, PMICPower, PMICCurrent, PMICCalibration)
}

func (r PMICRegister) String() string {
	return enumString(r, map[PMICRegister]string{
		PMICConfiguration: "configuration", PMICVoltageShunt: "shunt voltage", PMICVoltageBus: "bus voltage",
		PMICPower: "power", PMICCurrent: "current", PMICCalibration: "calibration",
	})
}

// SMBMode is the bladeRF 1 SMB clock port mode.
type SMBMode int32

const (
	SMBModeInvalid     SMBMode = -1
	SMBModeDisabled    SMBMode = 0
	SMBModeOutput      SMBMode = 1
	SMBModeInput       SMBMode = 2
	SMBModeUnavailable SMBMode = 3
)

func SMBModeFromNative(v int32) (SMBMode, error) {
	return enumFromNative("SMBMode", v, SMBModeInvalid, SMBModeDisabled, SMBModeOutput, SMBModeInput, SMBModeUnavailable)
}

func (m SMBMode) String() string {
	return enumString(m, map[SMBMode]string{
		SMBModeInvalid: "invalid", SMBModeDisabled: "disabled", SMBModeOutput: "output",
		SMBModeInput: "input", SMBModeUnavailable: "unavailable",
	})
}

// Correction selects an IQ correction parameter.
type Correction int32

const (
	CorrectionDcOffI Correction = 0
	CorrectionDcOffQ Correction = 1
	CorrectionPhase  Correction = 2
	CorrectionGain   Correction = 3
)

func CorrectionFromNative(v int32) (Correction, error) {
	return enumFromNative("Correction", v, CorrectionDcOffI, CorrectionDcOffQ, CorrectionPhase, CorrectionGain)
}

func (c Correction) String() string {
	return enumString(c, map[Correction]string{
		CorrectionDcOffI: "dc offset I", CorrectionDcOffQ: "dc offset Q", CorrectionPhase: "phase", CorrectionGain: "gain",
	})
}

// XB200Filter selects an XB-200 filterbank.
type XB200Filter int32

const (
	XB200Filter50M     XB200Filter = 0
	XB200Filter144M    XB200Filter = 1
	XB200Filter222M    XB200Filter = 2
	XB200FilterCustom  XB200Filter = 3
	XB200FilterAuto1dB XB200Filter = 4
	XB200FilterAuto3dB XB200Filter = 5
)

var xb200FilterNames = map[XB200Filter]string{
	XB200Filter50M: "50m", XB200Filter144M: "144m", XB200Filter222M: "222m",
	XB200FilterCustom: "custom", XB200FilterAuto1dB: "auto_1db", XB200FilterAuto3dB: "auto_3db",
}

func XB200FilterFromNative(v int32) (XB200Filter, error) {
	return enumFromNative("XB200Filter", v, XB200Filter50M, XB200Filter144M, XB200Filter222M, XB200FilterCustom, XB200FilterAuto1dB, XB200FilterAuto3dB)
}

func (f XB200Filter) String() string { return enumString(f, xb200FilterNames) }

// ParseXB200Filter accepts the names printed by String.
func ParseXB200Filter(s string) (XB200Filter, error) {
	for f, name := range xb200FilterNames {
		if name == s {
			return f, nil
		}
	}
	return 0, invalidError("unknown XB-200 filter %q", s)
}

// XB200Path selects whether the XB-200 mixer is in the signal path.
type XB200Path int32

const (
	XB200Bypass XB200Path = 0
	XB200Mix    XB200Path = 1
)

func XB200PathFromNative(v int32) (XB200Path, error) {
	return enumFromNative("XB200Path", v, XB200Bypass, XB200Mix)
}

func (p XB200Path) String() string {
	return enumString(p, map[XB200Path]string{XB200Bypass: "bypass", XB200Mix: "mix"})
}

// ParseXB200Path accepts "bypass" or "mix".
func ParseXB200Path(s string) (XB200Path, error) {
	switch s {
	case "bypass":
		return XB200Bypass, nil
	case "mix":
		return XB200Mix, nil
	}
	return 0, invalidError("unknown XB-200 path %q", s)
}

package native

import "unsafe"

// Library is the libbladeRF call surface. Every method returns the raw
// library status code: negative values are errors, non-negative values are
// success and sometimes carry a count.
type Library interface {
	LibVersion() Version
	DeviceList() ([]DevInfo, int)
	SetUSBResetOnOpen(enabled bool)
	LogSetVerbosity(level int32)
	// LogSetCallback installs cb as the process-wide log sink. A nil cb
	// restores the library default.
	LogSetCallback(cb LogCallback) int

	// Open opens the device matching identifier; an empty identifier
	// opens the first available device.
	Open(identifier string) (Device, int)
	OpenWithDevInfo(info *DevInfo) (Device, int)
	Close(dev Device)
	DeviceReset(dev Device) int

	GetDevInfo(dev Device) (DevInfo, int)
	GetSerial(dev Device) ([]byte, int)
	GetBoardName(dev Device) string
	FWVersion(dev Device) (Version, int)
	FPGAVersion(dev Device) (Version, int)
	IsFPGAConfigured(dev Device) int
	GetFPGASize(dev Device) (int32, int)
	DeviceSpeed(dev Device) int32

	EnableModule(dev Device, ch int32, enable bool) int

	SetFrequency(dev Device, ch int32, freq uint64) int
	GetFrequency(dev Device, ch int32) (uint64, int)
	GetFrequencyRange(dev Device, ch int32) (*Range, int)
	SelectBand(dev Device, ch int32, freq uint64) int

	SetSampleRate(dev Device, ch int32, rate uint32) (uint32, int)
	GetSampleRate(dev Device, ch int32) (uint32, int)
	GetSampleRateRange(dev Device, ch int32) (*Range, int)
	SetRationalSampleRate(dev Device, ch int32, rate RationalRate) (RationalRate, int)
	GetRationalSampleRate(dev Device, ch int32) (RationalRate, int)

	SetBandwidth(dev Device, ch int32, bw uint32) (uint32, int)
	GetBandwidth(dev Device, ch int32) (uint32, int)
	GetBandwidthRange(dev Device, ch int32) (*Range, int)

	SetGain(dev Device, ch int32, gain int32) int
	GetGain(dev Device, ch int32) (int32, int)
	GetGainRange(dev Device, ch int32) (*Range, int)
	SetGainMode(dev Device, ch int32, mode int32) int
	GetGainMode(dev Device, ch int32) (int32, int)
	GetGainModes(dev Device, ch int32) ([]GainMode, int)
	SetGainStage(dev Device, ch int32, stage string, gain int32) int
	GetGainStage(dev Device, ch int32, stage string) (int32, int)
	GetGainStageRange(dev Device, ch int32, stage string) (*Range, int)
	// GetGainStages copies up to len(out) stage names into out and returns
	// the total number of stages. An empty out only queries the count.
	GetGainStages(dev Device, ch int32, out [][]byte) int

	SetLoopback(dev Device, mode int32) int
	GetLoopback(dev Device) (int32, int)
	GetLoopbackModes(dev Device) ([]LoopbackMode, int)
	IsLoopbackModeSupported(dev Device, mode int32) bool

	SetRxMux(dev Device, mux int32) int
	GetRxMux(dev Device) (int32, int)
	SetTuningMode(dev Device, mode int32) int
	GetTuningMode(dev Device) (int32, int)
	ScheduleRetune(dev Device, ch int32, timestamp uint64, freq uint64, qt *QuickTune) int
	CancelScheduledRetunes(dev Device, ch int32) int
	GetQuickTune(dev Device, ch int32) (QuickTune, int)

	SetCorrection(dev Device, ch int32, corr int32, value int16) int
	GetCorrection(dev Device, ch int32, corr int32) (int16, int)

	TriggerInit(dev Device, ch int32, signal int32) (Trigger, int)
	TriggerArm(dev Device, trig *Trigger, arm bool, resv1, resv2 uint64) int
	TriggerFire(dev Device, trig *Trigger) int
	TriggerState(dev Device, trig *Trigger) (TriggerState, int)

	SyncConfig(dev Device, layout, format int32, numBuffers, bufferSize, numTransfers, timeoutMs uint32) int
	SyncRX(dev Device, samples unsafe.Pointer, numSamples uint32, meta *Metadata, timeoutMs uint32) int
	SyncTX(dev Device, samples unsafe.Pointer, numSamples uint32, meta *Metadata, timeoutMs uint32) int
	GetTimestamp(dev Device, dir int32) (uint64, int)

	FlashFirmware(dev Device, path string) int
	LoadFPGA(dev Device, path string) int
	FlashFPGA(dev Device, path string) int
	EraseStoredFPGA(dev Device) int
	GetFWLog(dev Device, path string) int

	// bladeRF 1
	SetTXVGA2(dev Device, gain int32) int
	GetTXVGA2(dev Device) (int32, int)
	SetSampling(dev Device, sampling int32) int
	GetSampling(dev Device) (int32, int)
	SetLPFMode(dev Device, ch int32, mode int32) int
	GetLPFMode(dev Device, ch int32) (int32, int)
	SetSMBMode(dev Device, mode int32) int
	GetSMBMode(dev Device) (int32, int)
	SetSMBFrequency(dev Device, rate uint32) (uint32, int)
	GetSMBFrequency(dev Device) (uint32, int)
	SetRationalSMBFrequency(dev Device, rate RationalRate) (RationalRate, int)
	GetRationalSMBFrequency(dev Device) (RationalRate, int)
	ExpansionAttach(dev Device, xb int32) int
	ExpansionGetAttached(dev Device) (int32, int)

	XB200SetFilterbank(dev Device, ch int32, filter int32) int
	XB200GetFilterbank(dev Device, ch int32) (int32, int)
	XB200SetPath(dev Device, ch int32, path int32) int
	XB200GetPath(dev Device, ch int32) (int32, int)

	ExpansionGPIORead(dev Device) (uint32, int)
	ExpansionGPIOWrite(dev Device, val uint32) int
	ExpansionGPIOMaskedWrite(dev Device, mask, val uint32) int
	ExpansionGPIODirRead(dev Device) (uint32, int)
	ExpansionGPIODirWrite(dev Device, val uint32) int
	ExpansionGPIODirMaskedWrite(dev Device, mask, val uint32) int

	// bladeRF 2
	SetBiasTee(dev Device, ch int32, enable bool) int
	GetBiasTee(dev Device, ch int32) (bool, int)
	GetRFICTemperature(dev Device) (float32, int)
	GetPMICRegister(dev Device, reg int32) (float32, int)
}

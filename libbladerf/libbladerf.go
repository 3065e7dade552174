//go:build cgo

// Package libbladerf binds native.Library to the system libbladeRF.
package libbladerf

// #cgo pkg-config: libbladeRF
// #cgo CFLAGS: -g -Wall
// #include <stdlib.h>
// #include <string.h>
// #include "shim.h"
import "C"

import (
	"unsafe"

	"github.com/jrwynneiii/gobladerf/native"
)

// Library calls straight into libbladeRF. It holds no state; the log hook
// lives in package variables because the native library has a single one.
type Library struct{}

// Load returns the cgo binding.
func Load() (native.Library, error) {
	return Library{}, nil
}

var _ native.Library = Library{}

func dev(d native.Device) *C.struct_bladerf { return (*C.struct_bladerf)(unsafe.Pointer(d)) }

func ch(c int32) C.bladerf_channel { return C.bladerf_channel(c) }

func goBytes(p *C.char, n int) []byte {
	b := make([]byte, n)
	for i, c := range unsafe.Slice(p, n) {
		b[i] = byte(c)
	}
	return b
}

func versionFromC(v *C.struct_bladerf_version) native.Version {
	out := native.Version{Major: uint16(v.major), Minor: uint16(v.minor), Patch: uint16(v.patch)}
	if v.describe != nil {
		out.Describe = C.GoString(v.describe)
	}
	return out
}

func rangeFromC(r *C.struct_bladerf_range) *native.Range {
	if r == nil {
		return nil
	}
	return &native.Range{Min: int64(r.min), Max: int64(r.max), Step: int64(r.step), Scale: float32(r.scale)}
}

func devInfoFromC(c *C.struct_bladerf_devinfo) native.DevInfo {
	var info native.DevInfo
	info.Backend = int32(c.backend)
	copy(info.Serial[:], goBytes(&c.serial[0], len(info.Serial)))
	info.USBBus = uint8(c.usb_bus)
	info.USBAddr = uint8(c.usb_addr)
	info.Instance = uint32(c.instance)
	copy(info.Manufacturer[:], goBytes(&c.manufacturer[0], len(info.Manufacturer)))
	copy(info.Product[:], goBytes(&c.product[0], len(info.Product)))
	return info
}

func devInfoToC(info *native.DevInfo) C.struct_bladerf_devinfo {
	var c C.struct_bladerf_devinfo
	c.backend = C.bladerf_backend(info.Backend)
	for i, b := range info.Serial {
		c.serial[i] = C.char(b)
	}
	c.usb_bus = C.uint8_t(info.USBBus)
	c.usb_addr = C.uint8_t(info.USBAddr)
	c.instance = C.uint(info.Instance)
	for i, b := range info.Manufacturer {
		c.manufacturer[i] = C.char(b)
	}
	for i, b := range info.Product {
		c.product[i] = C.char(b)
	}
	return c
}

func rationalToC(r native.RationalRate) C.struct_bladerf_rational_rate {
	return C.struct_bladerf_rational_rate{integer: C.uint64_t(r.Integer), num: C.uint64_t(r.Num), den: C.uint64_t(r.Den)}
}

func rationalFromC(r *C.struct_bladerf_rational_rate) native.RationalRate {
	return native.RationalRate{Integer: uint64(r.integer), Num: uint64(r.num), Den: uint64(r.den)}
}

func triggerToC(t *native.Trigger) C.struct_bladerf_trigger {
	return C.struct_bladerf_trigger{
		channel: ch(t.Channel),
		role:    C.bladerf_trigger_role(t.Role),
		signal:  C.bladerf_trigger_signal(t.Signal),
		options: C.uint64_t(t.Options),
	}
}

// cstring returns a C copy of s and the function that frees it.
func cstring(s string) (*C.char, func()) {
	p := C.CString(s)
	return p, func() { C.free(unsafe.Pointer(p)) }
}

// Library level

// void bladerf_version(struct bladerf_version *version);
func (Library) LibVersion() native.Version {
	var v C.struct_bladerf_version
	C.bladerf_version(&v)
	return versionFromC(&v)
}

// int bladerf_get_device_list(struct bladerf_devinfo **devices);
func (Library) DeviceList() ([]native.DevInfo, int) {
	var list *C.struct_bladerf_devinfo
	n := C.bladerf_get_device_list(&list)
	if n < 0 {
		return nil, int(n)
	}
	defer C.bladerf_free_device_list(list)
	infos := make([]native.DevInfo, int(n))
	for i, c := range unsafe.Slice(list, int(n)) {
		infos[i] = devInfoFromC(&c)
	}
	return infos, int(n)
}

// void bladerf_set_usb_reset_on_open(bool enabled);
func (Library) SetUSBResetOnOpen(enabled bool) {
	C.bladerf_set_usb_reset_on_open(C.bool(enabled))
}

// Open and close

// int bladerf_open(struct bladerf **device, const char *device_identifier);
func (Library) Open(identifier string) (native.Device, int) {
	var d *C.struct_bladerf
	var id *C.char
	if identifier != "" {
		var free func()
		id, free = cstring(identifier)
		defer free()
	}
	if rc := C.bladerf_open(&d, id); rc != 0 {
		return nil, int(rc)
	}
	return native.Device(unsafe.Pointer(d)), 0
}

// int bladerf_open_with_devinfo(struct bladerf **device, struct bladerf_devinfo *devinfo);
func (Library) OpenWithDevInfo(info *native.DevInfo) (native.Device, int) {
	if info == nil {
		return nil, native.ErrInval
	}
	var d *C.struct_bladerf
	c := devInfoToC(info)
	if rc := C.bladerf_open_with_devinfo(&d, &c); rc != 0 {
		return nil, int(rc)
	}
	return native.Device(unsafe.Pointer(d)), 0
}

// void bladerf_close(struct bladerf *device);
func (Library) Close(d native.Device) { C.bladerf_close(dev(d)) }

// int bladerf_device_reset(struct bladerf *device);
func (Library) DeviceReset(d native.Device) int { return int(C.bladerf_device_reset(dev(d))) }

// Introspection

// int bladerf_get_devinfo(struct bladerf *dev, struct bladerf_devinfo *info);
func (Library) GetDevInfo(d native.Device) (native.DevInfo, int) {
	var c C.struct_bladerf_devinfo
	if rc := C.bladerf_get_devinfo(dev(d), &c); rc != 0 {
		return native.DevInfo{}, int(rc)
	}
	return devInfoFromC(&c), 0
}

// int bladerf_get_serial(struct bladerf *dev, char *serial);
func (Library) GetSerial(d native.Device) ([]byte, int) {
	var buf [native.SerialLen + 1]C.char
	if rc := C.bladerf_get_serial(dev(d), &buf[0]); rc != 0 {
		return nil, int(rc)
	}
	return goBytes(&buf[0], len(buf)), 0
}

// const char *bladerf_get_board_name(struct bladerf *dev);
func (Library) GetBoardName(d native.Device) string {
	return C.GoString(C.bladerf_get_board_name(dev(d)))
}

// int bladerf_fw_version(struct bladerf *dev, struct bladerf_version *version);
func (Library) FWVersion(d native.Device) (native.Version, int) {
	var v C.struct_bladerf_version
	if rc := C.bladerf_fw_version(dev(d), &v); rc != 0 {
		return native.Version{}, int(rc)
	}
	return versionFromC(&v), 0
}

// int bladerf_fpga_version(struct bladerf *dev, struct bladerf_version *version);
func (Library) FPGAVersion(d native.Device) (native.Version, int) {
	var v C.struct_bladerf_version
	if rc := C.bladerf_fpga_version(dev(d), &v); rc != 0 {
		return native.Version{}, int(rc)
	}
	return versionFromC(&v), 0
}

// int bladerf_is_fpga_configured(struct bladerf *dev);
func (Library) IsFPGAConfigured(d native.Device) int {
	return int(C.bladerf_is_fpga_configured(dev(d)))
}

// int bladerf_get_fpga_size(struct bladerf *dev, bladerf_fpga_size *size);
func (Library) GetFPGASize(d native.Device) (int32, int) {
	var size C.bladerf_fpga_size
	rc := C.bladerf_get_fpga_size(dev(d), &size)
	return int32(size), int(rc)
}

// bladerf_dev_speed bladerf_device_speed(struct bladerf *dev);
func (Library) DeviceSpeed(d native.Device) int32 {
	return int32(C.bladerf_device_speed(dev(d)))
}

// int bladerf_enable_module(struct bladerf *dev, bladerf_channel ch, bool enable);
func (Library) EnableModule(d native.Device, c int32, enable bool) int {
	return int(C.bladerf_enable_module(dev(d), ch(c), C.bool(enable)))
}

// Frequency

func (Library) SetFrequency(d native.Device, c int32, freq uint64) int {
	return int(C.bladerf_set_frequency(dev(d), ch(c), C.bladerf_frequency(freq)))
}

func (Library) GetFrequency(d native.Device, c int32) (uint64, int) {
	var f C.bladerf_frequency
	rc := C.bladerf_get_frequency(dev(d), ch(c), &f)
	return uint64(f), int(rc)
}

// int bladerf_get_frequency_range(struct bladerf *dev, bladerf_channel ch, const struct bladerf_range **range);
func (Library) GetFrequencyRange(d native.Device, c int32) (*native.Range, int) {
	var r *C.struct_bladerf_range
	if rc := C.bladerf_get_frequency_range(dev(d), ch(c), &r); rc != 0 {
		return nil, int(rc)
	}
	return rangeFromC(r), 0
}

func (Library) SelectBand(d native.Device, c int32, freq uint64) int {
	return int(C.bladerf_select_band(dev(d), ch(c), C.bladerf_frequency(freq)))
}

// Sample rate

// int bladerf_set_sample_rate(struct bladerf *dev, bladerf_channel ch, bladerf_sample_rate rate, bladerf_sample_rate *actual);
func (Library) SetSampleRate(d native.Device, c int32, rate uint32) (uint32, int) {
	var actual C.bladerf_sample_rate
	rc := C.bladerf_set_sample_rate(dev(d), ch(c), C.bladerf_sample_rate(rate), &actual)
	return uint32(actual), int(rc)
}

func (Library) GetSampleRate(d native.Device, c int32) (uint32, int) {
	var rate C.bladerf_sample_rate
	rc := C.bladerf_get_sample_rate(dev(d), ch(c), &rate)
	return uint32(rate), int(rc)
}

func (Library) GetSampleRateRange(d native.Device, c int32) (*native.Range, int) {
	var r *C.struct_bladerf_range
	if rc := C.bladerf_get_sample_rate_range(dev(d), ch(c), &r); rc != 0 {
		return nil, int(rc)
	}
	return rangeFromC(r), 0
}

// int bladerf_set_rational_sample_rate(struct bladerf *dev, bladerf_channel ch, struct bladerf_rational_rate *rate, struct bladerf_rational_rate *actual);
func (Library) SetRationalSampleRate(d native.Device, c int32, rate native.RationalRate) (native.RationalRate, int) {
	in := rationalToC(rate)
	var actual C.struct_bladerf_rational_rate
	if rc := C.bladerf_set_rational_sample_rate(dev(d), ch(c), &in, &actual); rc != 0 {
		return native.RationalRate{}, int(rc)
	}
	return rationalFromC(&actual), 0
}

func (Library) GetRationalSampleRate(d native.Device, c int32) (native.RationalRate, int) {
	var r C.struct_bladerf_rational_rate
	if rc := C.bladerf_get_rational_sample_rate(dev(d), ch(c), &r); rc != 0 {
		return native.RationalRate{}, int(rc)
	}
	return rationalFromC(&r), 0
}

// Bandwidth

func (Library) SetBandwidth(d native.Device, c int32, bw uint32) (uint32, int) {
	var actual C.bladerf_bandwidth
	rc := C.bladerf_set_bandwidth(dev(d), ch(c), C.bladerf_bandwidth(bw), &actual)
	return uint32(actual), int(rc)
}

func (Library) GetBandwidth(d native.Device, c int32) (uint32, int) {
	var bw C.bladerf_bandwidth
	rc := C.bladerf_get_bandwidth(dev(d), ch(c), &bw)
	return uint32(bw), int(rc)
}

func (Library) GetBandwidthRange(d native.Device, c int32) (*native.Range, int) {
	var r *C.struct_bladerf_range
	if rc := C.bladerf_get_bandwidth_range(dev(d), ch(c), &r); rc != 0 {
		return nil, int(rc)
	}
	return rangeFromC(r), 0
}

// Gain

func (Library) SetGain(d native.Device, c int32, gain int32) int {
	return int(C.bladerf_set_gain(dev(d), ch(c), C.bladerf_gain(gain)))
}

func (Library) GetGain(d native.Device, c int32) (int32, int) {
	var g C.bladerf_gain
	rc := C.bladerf_get_gain(dev(d), ch(c), &g)
	return int32(g), int(rc)
}

func (Library) GetGainRange(d native.Device, c int32) (*native.Range, int) {
	var r *C.struct_bladerf_range
	if rc := C.bladerf_get_gain_range(dev(d), ch(c), &r); rc != 0 {
		return nil, int(rc)
	}
	return rangeFromC(r), 0
}

func (Library) SetGainMode(d native.Device, c int32, mode int32) int {
	return int(C.bladerf_set_gain_mode(dev(d), ch(c), C.bladerf_gain_mode(mode)))
}

func (Library) GetGainMode(d native.Device, c int32) (int32, int) {
	var m C.bladerf_gain_mode
	rc := C.bladerf_get_gain_mode(dev(d), ch(c), &m)
	return int32(m), int(rc)
}

// int bladerf_get_gain_modes(struct bladerf *dev, bladerf_channel ch, const struct bladerf_gain_modes **modes);
func (Library) GetGainModes(d native.Device, c int32) ([]native.GainMode, int) {
	var modes *C.struct_bladerf_gain_modes
	n := C.bladerf_get_gain_modes(dev(d), ch(c), &modes)
	if n < 0 {
		return nil, int(n)
	}
	if modes == nil {
		return nil, 0
	}
	out := make([]native.GainMode, int(n))
	for i, m := range unsafe.Slice(modes, int(n)) {
		out[i] = native.GainMode{Name: C.GoString(m.name), Mode: int32(m.mode)}
	}
	return out, int(n)
}

// int bladerf_set_gain_stage(struct bladerf *dev, bladerf_channel ch, const char *stage, bladerf_gain gain);
func (Library) SetGainStage(d native.Device, c int32, stage string, gain int32) int {
	s, free := cstring(stage)
	defer free()
	return int(C.bladerf_set_gain_stage(dev(d), ch(c), s, C.bladerf_gain(gain)))
}

func (Library) GetGainStage(d native.Device, c int32, stage string) (int32, int) {
	s, free := cstring(stage)
	defer free()
	var g C.bladerf_gain
	rc := C.bladerf_get_gain_stage(dev(d), ch(c), s, &g)
	return int32(g), int(rc)
}

func (Library) GetGainStageRange(d native.Device, c int32, stage string) (*native.Range, int) {
	s, free := cstring(stage)
	defer free()
	var r *C.struct_bladerf_range
	if rc := C.bladerf_get_gain_stage_range(dev(d), ch(c), s, &r); rc != 0 {
		return nil, int(rc)
	}
	return rangeFromC(r), 0
}

// int bladerf_get_gain_stages(struct bladerf *dev, bladerf_channel ch, const char **stages, size_t count);
func (Library) GetGainStages(d native.Device, c int32, out [][]byte) int {
	if len(out) == 0 {
		return int(C.bladerf_get_gain_stages(dev(d), ch(c), nil, 0))
	}
	names := make([]*C.char, len(out))
	n := C.bladerf_get_gain_stages(dev(d), ch(c), &names[0], C.size_t(len(names)))
	if n < 0 {
		return int(n)
	}
	for i := 0; i < int(n) && i < len(out); i++ {
		if names[i] != nil {
			out[i] = append(C.GoBytes(unsafe.Pointer(names[i]), C.int(C.strlen(names[i]))), 0)
		}
	}
	return int(n)
}

// Loopback, mux and tuning

func (Library) SetLoopback(d native.Device, mode int32) int {
	return int(C.bladerf_set_loopback(dev(d), C.bladerf_loopback(mode)))
}

func (Library) GetLoopback(d native.Device) (int32, int) {
	var m C.bladerf_loopback
	rc := C.bladerf_get_loopback(dev(d), &m)
	return int32(m), int(rc)
}

// int bladerf_get_loopback_modes(struct bladerf *dev, const struct bladerf_loopback_modes **modes);
func (Library) GetLoopbackModes(d native.Device) ([]native.LoopbackMode, int) {
	var modes *C.struct_bladerf_loopback_modes
	n := C.bladerf_get_loopback_modes(dev(d), &modes)
	if n < 0 {
		return nil, int(n)
	}
	if modes == nil {
		return nil, 0
	}
	out := make([]native.LoopbackMode, int(n))
	for i, m := range unsafe.Slice(modes, int(n)) {
		out[i] = native.LoopbackMode{Name: C.GoString(m.name), Mode: int32(m.mode)}
	}
	return out, int(n)
}

func (Library) IsLoopbackModeSupported(d native.Device, mode int32) bool {
	return bool(C.bladerf_is_loopback_mode_supported(dev(d), C.bladerf_loopback(mode)))
}

func (Library) SetRxMux(d native.Device, mux int32) int {
	return int(C.bladerf_set_rx_mux(dev(d), C.bladerf_rx_mux(mux)))
}

func (Library) GetRxMux(d native.Device) (int32, int) {
	var m C.bladerf_rx_mux
	rc := C.bladerf_get_rx_mux(dev(d), &m)
	return int32(m), int(rc)
}

func (Library) SetTuningMode(d native.Device, mode int32) int {
	return int(C.bladerf_set_tuning_mode(dev(d), C.bladerf_tuning_mode(mode)))
}

func (Library) GetTuningMode(d native.Device) (int32, int) {
	var m C.bladerf_tuning_mode
	rc := C.bladerf_get_tuning_mode(dev(d), &m)
	return int32(m), int(rc)
}

// int bladerf_schedule_retune(struct bladerf *dev, bladerf_channel ch, bladerf_timestamp timestamp, bladerf_frequency frequency, struct bladerf_quick_tune *quick_tune);
func (Library) ScheduleRetune(d native.Device, c int32, timestamp uint64, freq uint64, qt *native.QuickTune) int {
	var cqt *C.struct_bladerf_quick_tune
	if qt != nil {
		var raw C.struct_bladerf_quick_tune
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&raw)), C.sizeof_struct_bladerf_quick_tune), qt.Data[:])
		cqt = &raw
	}
	return int(C.bladerf_schedule_retune(dev(d), ch(c), C.bladerf_timestamp(timestamp), C.bladerf_frequency(freq), cqt))
}

func (Library) CancelScheduledRetunes(d native.Device, c int32) int {
	return int(C.bladerf_cancel_scheduled_retunes(dev(d), ch(c)))
}

// int bladerf_get_quick_tune(struct bladerf *dev, bladerf_channel ch, struct bladerf_quick_tune *quick_tune);
func (Library) GetQuickTune(d native.Device, c int32) (native.QuickTune, int) {
	var raw C.struct_bladerf_quick_tune
	if rc := C.bladerf_get_quick_tune(dev(d), ch(c), &raw); rc != 0 {
		return native.QuickTune{}, int(rc)
	}
	var qt native.QuickTune
	copy(qt.Data[:], unsafe.Slice((*byte)(unsafe.Pointer(&raw)), C.sizeof_struct_bladerf_quick_tune))
	return qt, 0
}

// Corrections

func (Library) SetCorrection(d native.Device, c int32, corr int32, value int16) int {
	return int(C.bladerf_set_correction(dev(d), ch(c), C.bladerf_correction(corr), C.bladerf_correction_value(value)))
}

func (Library) GetCorrection(d native.Device, c int32, corr int32) (int16, int) {
	var v C.bladerf_correction_value
	rc := C.bladerf_get_correction(dev(d), ch(c), C.bladerf_correction(corr), &v)
	return int16(v), int(rc)
}

// Triggers

// int bladerf_trigger_init(struct bladerf *dev, bladerf_channel ch, bladerf_trigger_signal signal, struct bladerf_trigger *trigger);
func (Library) TriggerInit(d native.Device, c int32, signal int32) (native.Trigger, int) {
	var t C.struct_bladerf_trigger
	if rc := C.bladerf_trigger_init(dev(d), ch(c), C.bladerf_trigger_signal(signal), &t); rc != 0 {
		return native.Trigger{}, int(rc)
	}
	return native.Trigger{Channel: int32(t.channel), Role: int32(t.role), Signal: int32(t.signal), Options: uint64(t.options)}, 0
}

func (Library) TriggerArm(d native.Device, trig *native.Trigger, arm bool, resv1, resv2 uint64) int {
	if trig == nil {
		return native.ErrInval
	}
	t := triggerToC(trig)
	return int(C.bladerf_trigger_arm(dev(d), &t, C.bool(arm), C.uint64_t(resv1), C.uint64_t(resv2)))
}

func (Library) TriggerFire(d native.Device, trig *native.Trigger) int {
	if trig == nil {
		return native.ErrInval
	}
	t := triggerToC(trig)
	return int(C.bladerf_trigger_fire(dev(d), &t))
}

// int bladerf_trigger_state(struct bladerf *dev, const struct bladerf_trigger *trigger, bool *is_armed, bool *has_fired, bool *fire_requested, uint64_t *resv1, uint64_t *resv2);
func (Library) TriggerState(d native.Device, trig *native.Trigger) (native.TriggerState, int) {
	if trig == nil {
		return native.TriggerState{}, native.ErrInval
	}
	t := triggerToC(trig)
	var armed, fired, requested C.bool
	var resv1, resv2 C.uint64_t
	if rc := C.bladerf_trigger_state(dev(d), &t, &armed, &fired, &requested, &resv1, &resv2); rc != 0 {
		return native.TriggerState{}, int(rc)
	}
	return native.TriggerState{Armed: bool(armed), Fired: bool(fired), FireRequested: bool(requested)}, 0
}

// Synchronous streaming

// int bladerf_sync_config(struct bladerf *dev, bladerf_channel_layout layout, bladerf_format format, unsigned int num_buffers, unsigned int buffer_size, unsigned int num_transfers, unsigned int stream_timeout);
func (Library) SyncConfig(d native.Device, layout, format int32, numBuffers, bufferSize, numTransfers, timeoutMs uint32) int {
	return int(C.bladerf_sync_config(dev(d), C.bladerf_channel_layout(layout), C.bladerf_format(format),
		C.uint(numBuffers), C.uint(bufferSize), C.uint(numTransfers), C.uint(timeoutMs)))
}

func metaToC(m *native.Metadata) *C.struct_bladerf_metadata {
	if m == nil {
		return nil
	}
	return &C.struct_bladerf_metadata{
		timestamp:    C.bladerf_timestamp(m.Timestamp),
		flags:        C.uint32_t(m.Flags),
		status:       C.uint32_t(m.Status),
		actual_count: C.uint(m.ActualCount),
	}
}

func metaFromC(m *native.Metadata, c *C.struct_bladerf_metadata) {
	if m == nil || c == nil {
		return
	}
	m.Timestamp = uint64(c.timestamp)
	m.Flags = uint32(c.flags)
	m.Status = uint32(c.status)
	m.ActualCount = uint32(c.actual_count)
}

// int bladerf_sync_rx(struct bladerf *dev, void *samples, unsigned int num_samples, struct bladerf_metadata *metadata, unsigned int timeout_ms);
func (Library) SyncRX(d native.Device, samples unsafe.Pointer, n uint32, meta *native.Metadata, timeoutMs uint32) int {
	cm := metaToC(meta)
	rc := C.bladerf_sync_rx(dev(d), samples, C.uint(n), cm, C.uint(timeoutMs))
	metaFromC(meta, cm)
	return int(rc)
}

// int bladerf_sync_tx(struct bladerf *dev, const void *samples, unsigned int num_samples, struct bladerf_metadata *metadata, unsigned int timeout_ms);
func (Library) SyncTX(d native.Device, samples unsafe.Pointer, n uint32, meta *native.Metadata, timeoutMs uint32) int {
	cm := metaToC(meta)
	rc := C.bladerf_sync_tx(dev(d), samples, C.uint(n), cm, C.uint(timeoutMs))
	metaFromC(meta, cm)
	return int(rc)
}

func (Library) GetTimestamp(d native.Device, dir int32) (uint64, int) {
	var ts C.bladerf_timestamp
	rc := C.bladerf_get_timestamp(dev(d), C.bladerf_direction(dir), &ts)
	return uint64(ts), int(rc)
}

// Firmware and FPGA

func withPath(path string, fn func(*C.char) C.int) int {
	p, free := cstring(path)
	defer free()
	return int(fn(p))
}

func (Library) FlashFirmware(d native.Device, path string) int {
	return withPath(path, func(p *C.char) C.int { return C.bladerf_flash_firmware(dev(d), p) })
}

func (Library) LoadFPGA(d native.Device, path string) int {
	return withPath(path, func(p *C.char) C.int { return C.bladerf_load_fpga(dev(d), p) })
}

func (Library) FlashFPGA(d native.Device, path string) int {
	return withPath(path, func(p *C.char) C.int { return C.bladerf_flash_fpga(dev(d), p) })
}

func (Library) EraseStoredFPGA(d native.Device) int {
	return int(C.bladerf_erase_stored_fpga(dev(d)))
}

func (Library) GetFWLog(d native.Device, path string) int {
	return withPath(path, func(p *C.char) C.int { return C.bladerf_get_fw_log(dev(d), p) })
}

// bladeRF 1

func (Library) SetTXVGA2(d native.Device, gain int32) int {
	return int(C.bladerf_set_txvga2(dev(d), C.int(gain)))
}

func (Library) GetTXVGA2(d native.Device) (int32, int) {
	var g C.int
	rc := C.bladerf_get_txvga2(dev(d), &g)
	return int32(g), int(rc)
}

func (Library) SetSampling(d native.Device, sampling int32) int {
	return int(C.bladerf_set_sampling(dev(d), C.bladerf_sampling(sampling)))
}

func (Library) GetSampling(d native.Device) (int32, int) {
	var s C.bladerf_sampling
	rc := C.bladerf_get_sampling(dev(d), &s)
	return int32(s), int(rc)
}

func (Library) SetLPFMode(d native.Device, c int32, mode int32) int {
	return int(C.bladerf_set_lpf_mode(dev(d), ch(c), C.bladerf_lpf_mode(mode)))
}

func (Library) GetLPFMode(d native.Device, c int32) (int32, int) {
	var m C.bladerf_lpf_mode
	rc := C.bladerf_get_lpf_mode(dev(d), ch(c), &m)
	return int32(m), int(rc)
}

func (Library) SetSMBMode(d native.Device, mode int32) int {
	return int(C.bladerf_set_smb_mode(dev(d), C.bladerf_smb_mode(mode)))
}

func (Library) GetSMBMode(d native.Device) (int32, int) {
	var m C.bladerf_smb_mode
	rc := C.bladerf_get_smb_mode(dev(d), &m)
	return int32(m), int(rc)
}

// int bladerf_set_smb_frequency(struct bladerf *dev, uint32_t rate, uint32_t *actual);
func (Library) SetSMBFrequency(d native.Device, rate uint32) (uint32, int) {
	var actual C.uint32_t
	rc := C.bladerf_set_smb_frequency(dev(d), C.uint32_t(rate), &actual)
	return uint32(actual), int(rc)
}

func (Library) GetSMBFrequency(d native.Device) (uint32, int) {
	var rate C.uint
	rc := C.bladerf_get_smb_frequency(dev(d), &rate)
	return uint32(rate), int(rc)
}

func (Library) SetRationalSMBFrequency(d native.Device, rate native.RationalRate) (native.RationalRate, int) {
	in := rationalToC(rate)
	var actual C.struct_bladerf_rational_rate
	if rc := C.bladerf_set_rational_smb_frequency(dev(d), &in, &actual); rc != 0 {
		return native.RationalRate{}, int(rc)
	}
	return rationalFromC(&actual), 0
}

func (Library) GetRationalSMBFrequency(d native.Device) (native.RationalRate, int) {
	var r C.struct_bladerf_rational_rate
	if rc := C.bladerf_get_rational_smb_frequency(dev(d), &r); rc != 0 {
		return native.RationalRate{}, int(rc)
	}
	return rationalFromC(&r), 0
}

func (Library) ExpansionAttach(d native.Device, xb int32) int {
	return int(C.bladerf_expansion_attach(dev(d), C.bladerf_xb(xb)))
}

func (Library) ExpansionGetAttached(d native.Device) (int32, int) {
	var xb C.bladerf_xb
	rc := C.bladerf_expansion_get_attached(dev(d), &xb)
	return int32(xb), int(rc)
}

// XB-200

func (Library) XB200SetFilterbank(d native.Device, c int32, filter int32) int {
	return int(C.bladerf_xb200_set_filterbank(dev(d), ch(c), C.bladerf_xb200_filter(filter)))
}

func (Library) XB200GetFilterbank(d native.Device, c int32) (int32, int) {
	var f C.bladerf_xb200_filter
	rc := C.bladerf_xb200_get_filterbank(dev(d), ch(c), &f)
	return int32(f), int(rc)
}

func (Library) XB200SetPath(d native.Device, c int32, path int32) int {
	return int(C.bladerf_xb200_set_path(dev(d), ch(c), C.bladerf_xb200_path(path)))
}

func (Library) XB200GetPath(d native.Device, c int32) (int32, int) {
	var p C.bladerf_xb200_path
	rc := C.bladerf_xb200_get_path(dev(d), ch(c), &p)
	return int32(p), int(rc)
}

// Expansion GPIO

func (Library) ExpansionGPIORead(d native.Device) (uint32, int) {
	var v C.uint32_t
	rc := C.bladerf_expansion_gpio_read(dev(d), &v)
	return uint32(v), int(rc)
}

func (Library) ExpansionGPIOWrite(d native.Device, val uint32) int {
	return int(C.bladerf_expansion_gpio_write(dev(d), C.uint32_t(val)))
}

func (Library) ExpansionGPIOMaskedWrite(d native.Device, mask, val uint32) int {
	return int(C.bladerf_expansion_gpio_masked_write(dev(d), C.uint32_t(mask), C.uint32_t(val)))
}

func (Library) ExpansionGPIODirRead(d native.Device) (uint32, int) {
	var v C.uint32_t
	rc := C.bladerf_expansion_gpio_dir_read(dev(d), &v)
	return uint32(v), int(rc)
}

func (Library) ExpansionGPIODirWrite(d native.Device, val uint32) int {
	return int(C.bladerf_expansion_gpio_dir_write(dev(d), C.uint32_t(val)))
}

func (Library) ExpansionGPIODirMaskedWrite(d native.Device, mask, val uint32) int {
	return int(C.bladerf_expansion_gpio_dir_masked_write(dev(d), C.uint32_t(mask), C.uint32_t(val)))
}

// bladeRF 2

func (Library) SetBiasTee(d native.Device, c int32, enable bool) int {
	return int(C.bladerf_set_bias_tee(dev(d), ch(c), C.bool(enable)))
}

func (Library) GetBiasTee(d native.Device, c int32) (bool, int) {
	var on C.bool
	rc := C.bladerf_get_bias_tee(dev(d), ch(c), &on)
	return bool(on), int(rc)
}

// int bladerf_get_rfic_temperature(struct bladerf *dev, float *val);
func (Library) GetRFICTemperature(d native.Device) (float32, int) {
	var t C.float
	rc := C.bladerf_get_rfic_temperature(dev(d), &t)
	return float32(t), int(rc)
}

// The configuration and calibration registers are 16-bit integers; the
// shim widens them to float like the measured values.
func (Library) GetPMICRegister(d native.Device, reg int32) (float32, int) {
	var v C.float
	rc := C.gobladerf_get_pmic_register(dev(d), C.bladerf_pmic_register(reg), &v)
	return float32(v), int(rc)
}

// Package native describes the raw libbladeRF surface consumed by the bladerf
// package. Values and codes here are the library's own numeric encodings.
package native

import "unsafe"

// Device is the opaque `struct bladerf *` owned by the caller of Open.
type Device unsafe.Pointer

// Return codes
const (
	ErrUnexpected  = -1
	ErrRange       = -2
	ErrInval       = -3
	ErrMem         = -4
	ErrIO          = -5
	ErrTimeout     = -6
	ErrNoDev       = -7
	ErrUnsupported = -8
	ErrMisaligned  = -9
	ErrChecksum    = -10
	ErrNoFile      = -11
	ErrUpdateFPGA  = -12
	ErrUpdateFW    = -13
	ErrTimePast    = -14
	ErrQueueFull   = -15
	ErrFPGAOp      = -16
	ErrPermission  = -17
	ErrWouldBlock  = -18
	ErrNotInit     = -19
)

// Channels as encoded by BLADERF_CHANNEL_RX(n)/BLADERF_CHANNEL_TX(n).
const (
	ChannelRx0 int32 = 0
	ChannelTx0 int32 = 1
	ChannelRx1 int32 = 2
	ChannelTx1 int32 = 3
)

// bladerf_channel_layout
const (
	LayoutRxX1 int32 = 0
	LayoutTxX1 int32 = 1
	LayoutRxX2 int32 = 2
	LayoutTxX2 int32 = 3
)

// bladerf_format
const (
	FormatSc16Q11     int32 = 0
	FormatSc16Q11Meta int32 = 1
	FormatPacketMeta  int32 = 2
	FormatSc8Q7       int32 = 3
	FormatSc8Q7Meta   int32 = 4
)

// bladerf_direction
const (
	DirectionRx int32 = 0
	DirectionTx int32 = 1
)

// Metadata flags
const (
	MetaFlagTxBurstStart  uint32 = 1 << 0
	MetaFlagTxBurstEnd    uint32 = 1 << 1
	MetaFlagTxNow         uint32 = 1 << 2
	MetaFlagTxUpdateTS    uint32 = 1 << 3
	MetaFlagRxNow         uint32 = 1 << 31
	MetaFlagRxHwUnderflow uint32 = 1 << 0
	MetaFlagRxHwMiniexp1  uint32 = 1 << 16
	MetaFlagRxHwMiniexp2  uint32 = 1 << 17
	MetaStatusOverrun     uint32 = 1 << 0
	MetaStatusUnderrun    uint32 = 1 << 1
)

// XB-200 expansion GPIO bit positions (1-based, mask is 1<<(pin-1)).
const (
	XB200PinJ7_1  = 10
	XB200PinJ7_2  = 11
	XB200PinJ7_5  = 8
	XB200PinJ7_6  = 9
	XB200PinJ13_1 = 17
	XB200PinJ13_2 = 18
	XB200PinJ16_1 = 31
	XB200PinJ16_2 = 32
	XB200PinJ16_3 = 19
	XB200PinJ16_4 = 20
	XB200PinJ16_5 = 21
	XB200PinJ16_6 = 24
)

// SerialLen is the number of serial characters, excluding the terminator.
const SerialLen = 32

// QuickTuneSize bounds the opaque bladerf_quick_tune storage.
const QuickTuneSize = 32

// DevInfo mirrors struct bladerf_devinfo.
type DevInfo struct {
	Backend      int32
	Serial       [SerialLen + 1]byte
	USBBus       uint8
	USBAddr      uint8
	Instance     uint32
	Manufacturer [33]byte
	Product      [33]byte
}

// Version mirrors struct bladerf_version.
type Version struct {
	Major    uint16
	Minor    uint16
	Patch    uint16
	Describe string
}

// Range mirrors struct bladerf_range. Values are multiplied by Scale.
type Range struct {
	Min   int64
	Max   int64
	Step  int64
	Scale float32
}

// RationalRate mirrors struct bladerf_rational_rate.
type RationalRate struct {
	Integer uint64
	Num     uint64
	Den     uint64
}

// Metadata mirrors struct bladerf_metadata.
type Metadata struct {
	Timestamp   uint64
	Flags       uint32
	Status      uint32
	ActualCount uint32
}

// Trigger mirrors struct bladerf_trigger.
type Trigger struct {
	Channel int32
	Role    int32
	Signal  int32
	Options uint64
}

// TriggerState is the result of bladerf_trigger_state.
type TriggerState struct {
	Armed         bool
	Fired         bool
	FireRequested bool
}

// QuickTune is a byte copy of struct bladerf_quick_tune. Its layout differs
// between board families so it is never interpreted on the host.
type QuickTune struct {
	Data [QuickTuneSize]byte
}

// GainMode mirrors struct bladerf_gain_modes.
type GainMode struct {
	Name string
	Mode int32
}

// LoopbackMode mirrors struct bladerf_loopback_modes.
type LoopbackMode struct {
	Name string
	Mode int32
}

// LogCallback receives raw libbladeRF log output.
type LogCallback func(level int32, msg string)

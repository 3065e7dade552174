package bladerf

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"strings"

	"github.com/jrwynneiii/gobladerf/native"
)

// Range is an inclusive parameter range with a step size.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

func rangeFromNative(r *native.Range) (Range, error) {
	if r == nil {
		return Range{}, msgError("native range pointer is null")
	}
	scale := float64(r.Scale)
	if scale == 0 {
		scale = 1
	}
	return Range{
		Min:  float64(r.Min) * scale,
		Max:  float64(r.Max) * scale,
		Step: float64(r.Step) * scale,
	}, nil
}

// Contains reports whether x lies in r on a whole step from Min.
func (r Range) Contains(x float64) bool {
	if x < r.Min || x > r.Max {
		return false
	}
	if r.Step <= 0 {
		return true
	}
	steps := (x - r.Min) / r.Step
	return math.Abs(steps-math.Round(steps)) <= 1e-9+1e-12*steps
}

// Clamp returns x limited to [Min, Max].
func (r Range) Clamp(x float64) float64 {
	return min(max(x, r.Min), r.Max)
}

func (r Range) String() string {
	return fmt.Sprintf("%.0f..%.0f (step %.0f)", r.Min, r.Max, r.Step)
}

// Version is a firmware, FPGA or library version. Describe is informational
// and is not part of equality or ordering.
type Version struct {
	Major    uint16
	Minor    uint16
	Patch    uint16
	Describe string
}

func versionFromNative(v native.Version) Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch, Describe: v.Describe}
}

// Compare orders versions by major, minor, then patch.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, o.Patch)
}

// Equal compares the numeric components only.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

func (v Version) String() string {
	s := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Describe != "" {
		s += " (" + v.Describe + ")"
	}
	return s
}

// RationalRate is Integer + Num/Den.
type RationalRate struct {
	Integer uint64
	Num     uint64
	Den     uint64
}

func (r RationalRate) native() native.RationalRate {
	return native.RationalRate{Integer: r.Integer, Num: r.Num, Den: r.Den}
}

func rationalFromNative(r native.RationalRate) RationalRate {
	return RationalRate{Integer: r.Integer, Num: r.Num, Den: r.Den}
}

// Float64 returns the rate as a real number.
func (r RationalRate) Float64() float64 {
	if r.Den == 0 {
		return float64(r.Integer)
	}
	return float64(r.Integer) + float64(r.Num)/float64(r.Den)
}

func (r RationalRate) String() string {
	return fmt.Sprintf("%d + %d/%d", r.Integer, r.Num, r.Den)
}

// DevInfo describes an attached device.
type DevInfo struct {
	raw native.DevInfo
}

func devInfoFromNative(raw native.DevInfo) DevInfo { return DevInfo{raw: raw} }

// decodeCString decodes a zero-terminated byte field, replacing invalid UTF-8.
func decodeCString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.ToValidUTF8(string(b), "�")
}

func (d DevInfo) Backend() (Backend, error) { return BackendFromNative(d.raw.Backend) }
func (d DevInfo) Serial() string            { return decodeCString(d.raw.Serial[:]) }
func (d DevInfo) USBBus() uint8             { return d.raw.USBBus }
func (d DevInfo) USBAddr() uint8            { return d.raw.USBAddr }
func (d DevInfo) Instance() uint32          { return d.raw.Instance }
func (d DevInfo) Manufacturer() string      { return decodeCString(d.raw.Manufacturer[:]) }
func (d DevInfo) Product() string           { return decodeCString(d.raw.Product[:]) }

// Identifier returns a device string that selects this device in Open.
func (d DevInfo) Identifier() string {
	b, err := d.Backend()
	if err != nil || b == BackendAny {
		return "*:serial=" + d.Serial()
	}
	return fmt.Sprintf("%v:serial=%s", b, d.Serial())
}

func (d DevInfo) String() string {
	return fmt.Sprintf("%s %s (serial %s, bus %d addr %d, instance %d)",
		d.Manufacturer(), d.Product(), d.Serial(), d.USBBus(), d.USBAddr(), d.Instance())
}

// Metadata accompanies a synchronous transfer.
type Metadata struct {
	Timestamp   uint64
	Flags       uint32
	Status      uint32
	ActualCount uint32
}

// Metadata flags and status bits.
const (
	MetaFlagTxBurstStart  = native.MetaFlagTxBurstStart
	MetaFlagTxBurstEnd    = native.MetaFlagTxBurstEnd
	MetaFlagTxNow         = native.MetaFlagTxNow
	MetaFlagTxUpdateTS    = native.MetaFlagTxUpdateTS
	MetaFlagRxNow         = native.MetaFlagRxNow
	MetaFlagRxHwUnderflow = native.MetaFlagRxHwUnderflow
	MetaStatusOverrun     = native.MetaStatusOverrun
	MetaStatusUnderrun    = native.MetaStatusUnderrun
)

func (m *Metadata) native() *native.Metadata {
	if m == nil {
		return nil
	}
	return &native.Metadata{Timestamp: m.Timestamp, Flags: m.Flags, Status: m.Status, ActualCount: m.ActualCount}
}

func (m *Metadata) update(raw *native.Metadata) {
	if m == nil || raw == nil {
		return
	}
	m.Timestamp = raw.Timestamp
	m.Flags = raw.Flags
	m.Status = raw.Status
	m.ActualCount = raw.ActualCount
}

// QuickTune is a snapshot of the tuner configuration for fast retuning.
type QuickTune struct {
	raw native.QuickTune
}

// ModuleConfig bundles the per-channel RF parameters of ConfigureModule.
type ModuleConfig struct {
	Frequency  uint64
	SampleRate uint32
	Bandwidth  uint32
	Gain       int32
}

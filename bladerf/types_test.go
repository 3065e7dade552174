package bladerf

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jrwynneiii/gobladerf/native"
)

func TestVersionOrdering(t *testing.T) {
	vs := []Version{
		{Major: 0, Minor: 9, Patch: 9},
		{Major: 1, Minor: 0, Patch: 0, Describe: "release"},
		{Major: 1, Minor: 0, Patch: 0, Describe: "dirty"},
		{Major: 1, Minor: 0, Patch: 1},
		{Major: 1, Minor: 2, Patch: 0},
		{Major: 2, Minor: 0, Patch: 0},
	}
	for _, a := range vs {
		for _, b := range vs {
			if a.Less(b) && b.Less(a) {
				t.Fatalf("%v and %v are each less than the other", a, b)
			}
			for _, c := range vs {
				if !b.Less(a) && !c.Less(b) && c.Less(a) {
					t.Fatalf("ordering not transitive for %v <= %v <= %v", a, b, c)
				}
			}
		}
	}
	if !vs[1].Equal(vs[2]) {
		t.Fatalf("description text affected equality")
	}
	if vs[1].Compare(vs[2]) != 0 {
		t.Fatalf("description text affected ordering")
	}
	if !vs[0].Less(vs[5]) {
		t.Fatalf("0.9.9 not less than 2.0.0")
	}
	if got := vs[1].String(); got != "v1.0.0 (release)" {
		t.Fatalf("String = %q", got)
	}
}

func TestRangeContainsSteps(t *testing.T) {
	ranges := []Range{
		{Min: 0, Max: 100, Step: 1},
		{Min: -15, Max: 60, Step: 3},
		{Min: 70e6, Max: 6e9, Step: 1},
		{Min: 0.25, Max: 10, Step: 0.25},
		{Min: 520834, Max: 61.44e6, Step: 1},
	}
	for _, r := range ranges {
		for k := 0.0; r.Min+k*r.Step <= r.Max; k += math.Max(1, math.Floor((r.Max-r.Min)/r.Step/997)) {
			if x := r.Min + k*r.Step; !r.Contains(x) {
				t.Fatalf("%v does not contain %v (k=%v)", r, x, k)
			}
		}
		if r.Contains(r.Max + r.Step) {
			t.Fatalf("%v contains a value past Max", r)
		}
		if r.Contains(r.Min - r.Step) {
			t.Fatalf("%v contains a value below Min", r)
		}
	}
	r := Range{Min: -15, Max: 60, Step: 3}
	if r.Contains(-14) {
		t.Fatalf("value off the step grid accepted")
	}
	if got := r.Clamp(100); got != 60 {
		t.Fatalf("Clamp = %v", got)
	}
}

func TestRangeScale(t *testing.T) {
	r, err := rangeFromNative(&native.Range{Min: 1, Max: 10, Step: 1, Scale: 0.5})
	if err != nil {
		t.Fatalf("rangeFromNative: %v", err)
	}
	if r.Min != 0.5 || r.Max != 5 || r.Step != 0.5 {
		t.Fatalf("scale not applied: %v", r)
	}
	if _, err := rangeFromNative(nil); KindOf(err) != KindMessage {
		t.Fatalf("nil range accepted: %v", err)
	}
}

func TestStreamConfigValidation(t *testing.T) {
	for n := uint32(0); n < 8; n++ {
		for tr := n; tr < n+3; tr++ {
			if _, err := NewStreamConfig(n, 1024, tr, time.Second); !errors.Is(err, ErrInvalid) {
				t.Fatalf("accepted %d buffers with %d transfers", n, tr)
			}
		}
	}
	for _, size := range []uint32{0, 1, 1000, 1023, 1025, 8191} {
		if _, err := NewStreamConfig(16, size, 8, time.Second); !errors.Is(err, ErrInvalid) {
			t.Fatalf("accepted buffer size %d", size)
		}
	}
	if _, err := NewStreamConfig(16, 8192, 8, (math.MaxUint32+1)*time.Millisecond); !errors.Is(err, ErrInvalid) {
		t.Fatalf("accepted an oversized timeout")
	}
	if _, err := NewStreamConfig(16, 8192, 8, -time.Second); !errors.Is(err, ErrInvalid) {
		t.Fatalf("accepted a negative timeout")
	}
	cfg, err := NewStreamConfig(16, 8192, 8, 3500*time.Millisecond)
	if err != nil {
		t.Fatalf("NewStreamConfig: %v", err)
	}
	if cfg != DefaultStreamConfig() {
		t.Fatalf("default config %+v differs from %+v", DefaultStreamConfig(), cfg)
	}
	if cfg.timeoutMs() != 3500 {
		t.Fatalf("timeoutMs = %d", cfg.timeoutMs())
	}
}

func TestTimeoutRoundsUp(t *testing.T) {
	cases := map[time.Duration]uint32{
		0:                       0,
		time.Nanosecond:         1,
		500 * time.Microsecond:  1,
		time.Millisecond:        1,
		1500 * time.Microsecond: 2,
		3500 * time.Millisecond: 3500,
	}
	for d, want := range cases {
		if got, err := timeoutMs(d); err != nil || got != want {
			t.Errorf("timeoutMs(%v) = %d, %v; want %d", d, got, err, want)
		}
	}
	cfg, err := NewStreamConfig(16, 8192, 8, 200*time.Microsecond)
	if err != nil {
		t.Fatalf("NewStreamConfig: %v", err)
	}
	if cfg.timeoutMs() != 1 {
		t.Fatalf("sub-millisecond timeout became %d ms", cfg.timeoutMs())
	}
}

func TestCorrectionConstructors(t *testing.T) {
	kinds := []Correction{CorrectionDcOffI, CorrectionDcOffQ, CorrectionPhase, CorrectionGain}
	for _, k := range kinds {
		lo, hi := k.Bounds()
		if _, err := NewCorrection(k, lo); err != nil {
			t.Fatalf("%v rejected its minimum: %v", k, err)
		}
		if _, err := NewCorrection(k, hi); err != nil {
			t.Fatalf("%v rejected its maximum: %v", k, err)
		}
		if _, err := NewCorrection(k, lo-1); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%v accepted %d", k, lo-1)
		}
		if _, err := NewCorrection(k, hi+1); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%v accepted %d", k, hi+1)
		}
		for _, v := range []int{math.MinInt32, int(lo) - 1, 0, int(hi) + 1, math.MaxInt32} {
			c := SaturatingCorrection(k, v)
			if c.Value() < lo || c.Value() > hi || c.Kind() != k {
				t.Fatalf("SaturatingCorrection(%v, %d) = %v", k, v, c.Value())
			}
		}
	}
	if _, err := DcOffsetI(2048); err == nil {
		t.Fatalf("DcOffsetI accepted 2048")
	}
	if _, err := GainCorrection(4095); err != nil {
		t.Fatalf("GainCorrection(4095): %v", err)
	}
}

func TestCorrectionAdd(t *testing.T) {
	a, _ := DcOffsetQ(2000)
	b, _ := DcOffsetQ(100)
	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.Value() != -1996 {
		t.Fatalf("wrapping add = %d", sum.Value())
	}
	sat, err := a.SaturatingAdd(b)
	if err != nil || sat.Value() != 2047 {
		t.Fatalf("SaturatingAdd = %d, %v", sat.Value(), err)
	}
	p, _ := PhaseCorrection(1)
	if _, err := a.Add(p); !errors.Is(err, ErrInvalid) {
		t.Fatalf("added mismatched kinds: %v", err)
	}
}

func TestFormatCompatibility(t *testing.T) {
	formats := []Format{FormatSc16Q11, FormatSc8Q7}
	for _, f := range formats {
		if IsCompatible[ComplexI16](f) != (f == FormatSc16Q11) {
			t.Fatalf("ComplexI16 compatibility with %v", f)
		}
		if IsCompatible[ComplexI8](f) != (f == FormatSc8Q7) {
			t.Fatalf("ComplexI8 compatibility with %v", f)
		}
	}
	if err := CheckCompatible[ComplexI8](FormatSc16Q11); !errors.Is(err, ErrInvalid) {
		t.Fatalf("CheckCompatible = %v", err)
	}
	if FormatOf[ComplexI8]() != FormatSc8Q7 {
		t.Fatalf("FormatOf[ComplexI8] = %v", FormatOf[ComplexI8]())
	}
	if _, err := FormatFromNative(native.FormatPacketMeta); err == nil {
		t.Fatalf("packet format accepted as a sample format")
	}
	c := ComplexI16{I: 1024, Q: -2048}.Complex64()
	if real(c) != 0.5 || imag(c) != -1 {
		t.Fatalf("ComplexI16.Complex64 = %v", c)
	}
}

func TestEnumConversion(t *testing.T) {
	if _, err := LoopbackFromNative(42); !errors.Is(err, ErrInvalid) {
		t.Fatalf("unknown loopback accepted: %v", err)
	}
	if _, err := ChannelFromNative(7); err == nil {
		t.Fatalf("unknown channel accepted")
	}
	for _, name := range []string{"none", "firmware", "rfic_bist"} {
		lb, err := ParseLoopback(name)
		if err != nil || lb.String() != name {
			t.Fatalf("ParseLoopback(%q) = %v, %v", name, lb, err)
		}
	}
	f, err := ParseXB200Filter("auto_3db")
	if err != nil || f != XB200FilterAuto3dB {
		t.Fatalf("ParseXB200Filter = %v, %v", f, err)
	}
	if Tx1.Direction() != DirectionTx || !Rx1.IsRx() {
		t.Fatalf("channel direction helpers")
	}
	if _, err := RxChannelOf(Tx0); err == nil {
		t.Fatalf("RxChannelOf accepted a TX channel")
	}
}

func TestErrorMatching(t *testing.T) {
	err := codeError(native.ErrTimeout)
	if !errors.Is(err, ErrTimeout) || errors.Is(err, ErrInvalid) {
		t.Fatalf("code error matching: %v", err)
	}
	if KindOf(err) != KindTimeout {
		t.Fatalf("KindOf = %v", KindOf(err))
	}
	if KindOf(codeError(-1234)) != KindUnknownCode {
		t.Fatalf("unknown code not preserved")
	}
	inv := invalidError("bad %s", "thing")
	if !errors.Is(inv, ErrInvalid) || KindOf(inv) != KindMessage {
		t.Fatalf("validation error matching: %v", inv)
	}
	if got := inv.Error(); got != "bladerf: bad thing" {
		t.Fatalf("Error() = %q", got)
	}
	for code := native.ErrNotInit; code <= native.ErrUnexpected; code++ {
		if KindOf(codeError(code)) == KindUnknownCode {
			t.Fatalf("code %d has no kind", code)
		}
	}
	if check(0) != nil {
		t.Fatalf("check(0) returned an error")
	}
	if n, err := checkCount(3); n != 3 || err != nil {
		t.Fatalf("checkCount(3) = %d, %v", n, err)
	}
}

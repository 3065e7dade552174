package sim

import (
	"math"
	"testing"
	"unsafe"

	"github.com/jrwynneiii/gobladerf/native"
)

var _ native.Library = (*Library)(nil)

func open(t *testing.T, l *Library, id string) native.Device {
	t.Helper()
	dev, code := l.Open(id)
	if code != 0 {
		t.Fatalf("Open(%q) = %d", id, code)
	}
	t.Cleanup(func() { l.Close(dev) })
	return dev
}

func TestMatchIdentifier(t *testing.T) {
	b := DeviceConfig{Serial: "f12ce1bcd34"}
	cases := map[string]bool{
		"":                   true,
		"*:":                 true,
		"*:serial=f12ce1":    true,
		"*:serial=f12ce1bcd": true,
		"*:serial=abc":       false,
		"libusb:instance=0":  true,
	}
	for id, want := range cases {
		if got := match(id, b); got != want {
			t.Fatalf("match(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestOpenSameBoardTwice(t *testing.T) {
	l := New()
	open(t, l, "")
	if _, code := l.Open(""); code != native.ErrNoDev {
		t.Fatalf("second open of the only board = %d", code)
	}
}

func TestFaultIsOneShot(t *testing.T) {
	l := New()
	dev := open(t, l, "")
	l.Fail("SetGain", native.ErrIO)
	if code := l.SetGain(dev, native.ChannelRx0, 10); code != native.ErrIO {
		t.Fatalf("injected fault not returned: %d", code)
	}
	if code := l.SetGain(dev, native.ChannelRx0, 10); code != 0 {
		t.Fatalf("fault persisted: %d", code)
	}
	if l.Calls("SetGain") != 2 {
		t.Fatalf("calls = %d", l.Calls("SetGain"))
	}
}

func TestFailAfter(t *testing.T) {
	l := New()
	dev := open(t, l, "")
	l.FailAfter("SetGain", 2, native.ErrIO)
	for i := 0; i < 2; i++ {
		if code := l.SetGain(dev, native.ChannelRx0, 10); code != 0 {
			t.Fatalf("call %d failed early: %d", i, code)
		}
	}
	if code := l.SetGain(dev, native.ChannelRx0, 10); code != native.ErrIO {
		t.Fatalf("third call = %d", code)
	}
	if code := l.SetGain(dev, native.ChannelRx0, 10); code != 0 {
		t.Fatalf("fault persisted: %d", code)
	}
}

func TestClosedHandle(t *testing.T) {
	l := New()
	dev, _ := l.Open("")
	l.Close(dev)
	if _, code := l.GetFrequency(dev, native.ChannelRx0); code != native.ErrNoDev {
		t.Fatalf("closed handle returned %d", code)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want native.RationalRate }{
		{native.RationalRate{Integer: 1, Num: 3, Den: 6}, native.RationalRate{Integer: 1, Num: 1, Den: 2}},
		{native.RationalRate{Integer: 1, Num: 7, Den: 2}, native.RationalRate{Integer: 4, Num: 1, Den: 2}},
		{native.RationalRate{Integer: 5, Num: 4, Den: 4}, native.RationalRate{Integer: 6, Num: 0, Den: 1}},
		{native.RationalRate{Integer: 9}, native.RationalRate{Integer: 9, Den: 1}},
	}
	for _, c := range cases {
		if got := normalize(c.in); got != c.want {
			t.Fatalf("normalize(%+v) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestSyncRXTone(t *testing.T) {
	l := New()
	dev := open(t, l, "")
	if code := l.SyncConfig(dev, native.LayoutRxX1, native.FormatSc16Q11, 16, 8192, 8, 1000); code != 0 {
		t.Fatalf("SyncConfig = %d", code)
	}
	buf := make([]int16, 2*1024)
	if code := l.SyncRX(dev, unsafe.Pointer(&buf[0]), 1024, nil, 1000); code != native.ErrTimeout {
		t.Fatalf("read from a disabled channel = %d", code)
	}
	l.EnableModule(dev, native.ChannelRx0, true)
	var meta native.Metadata
	for i := 0; i < 2; i++ {
		if code := l.SyncRX(dev, unsafe.Pointer(&buf[0]), 1024, &meta, 1000); code != 0 {
			t.Fatalf("SyncRX = %d", code)
		}
		if meta.Timestamp != uint64(i*1024) || meta.ActualCount != 1024 {
			t.Fatalf("read %d metadata %+v", i, meta)
		}
	}
	for i := 0; i < len(buf); i += 2 {
		mag := math.Hypot(float64(buf[i]), float64(buf[i+1]))
		if math.Abs(mag-1024) > 2 {
			t.Fatalf("sample %d magnitude %v", i/2, mag)
		}
	}
}

func TestSyncSecondChannel(t *testing.T) {
	l := New()
	dev := open(t, l, "")
	l.SyncConfig(dev, native.LayoutRxX1, native.FormatSc16Q11, 16, 8192, 8, 1000)
	l.SyncConfig(dev, native.LayoutTxX1, native.FormatSc16Q11, 16, 8192, 8, 1000)
	l.EnableModule(dev, native.ChannelRx1, true)
	l.EnableModule(dev, native.ChannelTx1, true)
	buf := make([]int16, 2*1024)
	if code := l.SyncRX(dev, unsafe.Pointer(&buf[0]), 1024, nil, 1000); code != 0 {
		t.Fatalf("SyncRX on RX1 = %d", code)
	}
	if code := l.SyncTX(dev, unsafe.Pointer(&buf[0]), 1024, nil, 1000); code != 0 {
		t.Fatalf("SyncTX on TX1 = %d", code)
	}
	l.EnableModule(dev, native.ChannelTx1, false)
	l.EnableModule(dev, native.ChannelTx0, true)
	l.SyncConfig(dev, native.LayoutTxX1, native.FormatSc16Q11, 16, 8192, 8, 1000)
	if code := l.SyncRX(dev, unsafe.Pointer(&buf[0]), 1024, nil, 1000); code != 0 {
		t.Fatalf("TX channel switch broke RX1: %d", code)
	}
}

func TestSyncConfigRejects(t *testing.T) {
	l := New(DeviceConfig{Board: "bladerf1"})
	dev := open(t, l, "")
	if code := l.SyncConfig(dev, native.LayoutRxX2, native.FormatSc16Q11, 16, 8192, 8, 1000); code != native.ErrUnsupported {
		t.Fatalf("MIMO layout on a bladeRF 1 = %d", code)
	}
	if code := l.SyncConfig(dev, native.LayoutRxX1, native.FormatSc16Q11, 16, 1000, 8, 1000); code != native.ErrInval {
		t.Fatalf("misaligned buffer = %d", code)
	}
	if code := l.SyncConfig(dev, native.LayoutRxX1, native.FormatSc16Q11, 8, 8192, 8, 1000); code != native.ErrInval {
		t.Fatalf("transfers == buffers = %d", code)
	}
}

func TestSyncTXTimestamps(t *testing.T) {
	l := New()
	dev := open(t, l, "")
	l.SyncConfig(dev, native.LayoutTxX1, native.FormatSc8Q7, 16, 8192, 8, 1000)
	l.EnableModule(dev, native.ChannelTx0, true)
	buf := make([]int8, 2*512)
	meta := native.Metadata{Timestamp: 4096}
	if code := l.SyncTX(dev, unsafe.Pointer(&buf[0]), 512, &meta, 1000); code != 0 {
		t.Fatalf("SyncTX = %d", code)
	}
	meta = native.Metadata{Timestamp: 100}
	if code := l.SyncTX(dev, unsafe.Pointer(&buf[0]), 512, &meta, 1000); code != native.ErrTimePast {
		t.Fatalf("late timestamp = %d", code)
	}
	meta = native.Metadata{Timestamp: 100, Flags: native.MetaFlagTxNow}
	if code := l.SyncTX(dev, unsafe.Pointer(&buf[0]), 512, &meta, 1000); code != 0 {
		t.Fatalf("TX now = %d", code)
	}
	if ts, _ := l.GetTimestamp(dev, native.DirectionTx); ts != 4096+1024 {
		t.Fatalf("TX timestamp %d", ts)
	}
}

func TestGPIOJumper(t *testing.T) {
	l := New(DeviceConfig{Board: "bladerf1", XB200: true, Jumpers: [][2]uint8{{3, 5}}})
	dev := open(t, l, "")
	if code := l.ExpansionGPIOWrite(dev, 0); code != native.ErrUnsupported {
		t.Fatalf("GPIO without expansion = %d", code)
	}
	if code := l.ExpansionAttach(dev, 2); code != 0 {
		t.Fatalf("ExpansionAttach = %d", code)
	}
	l.ExpansionGPIODirMaskedWrite(dev, bit(5), bit(5))
	l.ExpansionGPIOMaskedWrite(dev, bit(5), bit(5))
	if v, _ := l.ExpansionGPIORead(dev); v != bit(3)|bit(5) {
		t.Fatalf("levels %#x", v)
	}
	l.ExpansionGPIOMaskedWrite(dev, bit(5), 0)
	if v, _ := l.ExpansionGPIORead(dev); v != 0 {
		t.Fatalf("levels %#x after driving low", v)
	}
	if code := l.ExpansionAttach(dev, 1); code != native.ErrInval {
		t.Fatalf("second expansion board = %d", code)
	}
}

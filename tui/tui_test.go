package tui

import (
	"math"
	"strings"
	"testing"

	"github.com/jrwynneiii/gobladerf/bladerf"
	"github.com/jrwynneiii/gobladerf/radio"
	"github.com/jrwynneiii/gobladerf/sim"
	"github.com/jrwynneiii/gobladerf/spectrum"
)

func TestGaugePercent(t *testing.T) {
	cases := []struct {
		in, power, snr float64
	}{
		{-90, 0, 0},
		{-60, 0, 0},
		{-30, 50, 0},
		{0, 100, 0},
		{6, 100, 15},
		{20, 100, 50},
		{60, 100, 100},
	}
	for _, c := range cases {
		if got := PowerPercent(c.in); math.Abs(got-c.power) > 1e-9 {
			t.Errorf("PowerPercent(%v) = %v, want %v", c.in, got, c.power)
		}
		if got := SNRPercent(c.in); math.Abs(got-c.snr) > 1e-9 {
			t.Errorf("SNRPercent(%v) = %v, want %v", c.in, got, c.snr)
		}
	}
	if got := PowerPercent(math.NaN()); got != 0 {
		t.Errorf("PowerPercent(NaN) = %v", got)
	}
}

func TestFormatHz(t *testing.T) {
	cases := map[float64]string{
		2_400_000_000: "2.400000 GHz",
		915_000_000:   "915.000 MHz",
		-250_000:      "-250.000 kHz",
		12:            "12 Hz",
	}
	for in, want := range cases {
		if got := formatHz(in); got != want {
			t.Errorf("formatHz(%v) = %q, want %q", in, got, want)
		}
	}
}

type fakeSource struct {
	dev   radio.Device
	stats radio.Stats
}

func (f fakeSource) Stats() radio.Stats   { return f.stats }
func (f fakeSource) Device() radio.Device { return f.dev }

func TestTablesFollowUpdate(t *testing.T) {
	bladerf.Init(sim.New())
	t.Cleanup(func() { bladerf.Init(nil) })
	dev, err := bladerf.OpenBladeRF2()
	if err != nil {
		t.Fatalf("OpenBladeRF2: %v", err)
	}
	defer dev.Close()
	if err := dev.SetFrequency(bladerf.Rx0, 915_000_000); err != nil {
		t.Fatalf("SetFrequency: %v", err)
	}
	analyzer, err := spectrum.New(2_000_000, 256, 1, 1)
	if err != nil {
		t.Fatalf("spectrum.New: %v", err)
	}
	src := fakeSource{dev: dev, stats: radio.Stats{Chunks: 3, Samples: 3072, ReadErrors: 1}}
	update(src, analyzer, bladerf.Rx0)

	devTable := &DeviceTableData{}
	if got := devTable.GetCell(0, 1).Text; got != bladerf.BoardBladeRF2 {
		t.Fatalf("board cell %q", got)
	}
	if got := devTable.GetCell(4, 1).Text; got != "915.000 MHz" {
		t.Fatalf("frequency cell %q", got)
	}
	if got := devTable.GetCell(6, 1).Text; !strings.HasSuffix(got, " C") {
		t.Fatalf("temperature cell %q", got)
	}
	if got := devTable.GetCell(7, 0).Text; got != "ERROR" {
		t.Fatalf("row past the end gave %q", got)
	}

	streamTable := &StreamTableData{}
	if got := streamTable.GetCell(1, 1).Text; got != "3072" {
		t.Fatalf("samples cell %q", got)
	}
	if got := streamTable.GetCell(2, 1).Text; got != "1" {
		t.Fatalf("errors cell %q", got)
	}
}

package bladerf

import (
	"errors"
	"testing"

	"github.com/jrwynneiii/gobladerf/sim"
)

// useSim installs a fresh simulated library for the duration of the test.
func useSim(t *testing.T, boards ...sim.DeviceConfig) *sim.Library {
	t.Helper()
	l := sim.New(boards...)
	Init(l)
	t.Cleanup(func() {
		logSlot.Lock()
		logSlot.handler = nil
		logSlot.Unlock()
		Init(nil)
	})
	return l
}

func openBladeRF2(t *testing.T) (*sim.Library, *BladeRF2) {
	t.Helper()
	l := useSim(t)
	b, err := OpenBladeRF2()
	if err != nil {
		t.Fatalf("OpenBladeRF2: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return l, b
}

func openBladeRF1(t *testing.T, cfg sim.DeviceConfig) (*sim.Library, *BladeRF1) {
	t.Helper()
	cfg.Board = BoardBladeRF1
	l := useSim(t, cfg)
	b, err := OpenBladeRF1()
	if err != nil {
		t.Fatalf("OpenBladeRF1: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return l, b
}

func wantKind(t *testing.T, err error, k Kind) {
	t.Helper()
	if !errors.Is(err, k) {
		t.Fatalf("expected %v error, got %v", k, err)
	}
}

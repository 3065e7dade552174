package bladerf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrwynneiii/gobladerf/sim"
)

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte{0xde, 0xad, 0xbe, 0xef}, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestFlashAndLoad(t *testing.T) {
	l, b := openBladeRF2(t)
	serial, _ := b.Serial()
	fw := writeImage(t, "bladeRF_fw.img")
	if err := b.FlashFirmware(fw); err != nil {
		t.Fatalf("FlashFirmware: %v", err)
	}
	if st := l.State(serial); st.Firmware != fw {
		t.Fatalf("firmware image %q not recorded", st.Firmware)
	}
	rbf := writeImage(t, "hostedxA4.rbf")
	if err := b.FlashFPGA(rbf); err != nil {
		t.Fatalf("FlashFPGA: %v", err)
	}
	if err := b.EraseStoredFPGA(); err != nil {
		t.Fatalf("EraseStoredFPGA: %v", err)
	}
	if err := b.LoadFPGA(rbf); err != nil {
		t.Fatalf("LoadFPGA: %v", err)
	}
}

func TestMissingImage(t *testing.T) {
	_, b := openBladeRF2(t)
	missing := filepath.Join(t.TempDir(), "nope.rbf")
	if err := b.LoadFPGA(missing); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected no-file error, got %v", err)
	}
}

func TestBadPaths(t *testing.T) {
	l, b := openBladeRF2(t)
	l.ResetCalls()
	if err := b.FlashFirmware(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("empty path: %v", err)
	}
	if err := b.LoadFPGA("a\x00b.rbf"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("NUL path: %v", err)
	}
	if l.Calls("FlashFirmware")+l.Calls("LoadFPGA") != 0 {
		t.Fatalf("invalid path reached the library")
	}
}

func TestLoadFPGAFromEnv(t *testing.T) {
	_, b := openBladeRF1(t, sim.DeviceConfig{})
	t.Setenv(EnvFPGABitstream, writeImage(t, "hostedx40.rbf"))
	if err := b.LoadFPGAFromEnv(); err != nil {
		t.Fatalf("LoadFPGAFromEnv: %v", err)
	}
	os.Unsetenv(EnvFPGABitstream)
	if err := b.LoadFPGAFromEnv(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid with variable unset, got %v", err)
	}
}

func TestDownloadFirmwareLog(t *testing.T) {
	_, b := openBladeRF2(t)
	path := filepath.Join(t.TempDir(), "fw.log")
	if err := b.DownloadFirmwareLog(path); err != nil {
		t.Fatalf("DownloadFirmwareLog: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		t.Fatalf("firmware log not written: %v", err)
	}
}

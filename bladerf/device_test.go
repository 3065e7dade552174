package bladerf

import (
	"errors"
	"testing"

	"github.com/jrwynneiii/gobladerf/native"
	"github.com/jrwynneiii/gobladerf/sim"
)

func TestNotInitialised(t *testing.T) {
	Init(nil)
	if _, err := OpenFirst(); !errors.Is(err, ErrNotInit) {
		t.Fatalf("expected not-init error, got %v", err)
	}
	if _, err := DeviceList(); !errors.Is(err, ErrNotInit) {
		t.Fatalf("expected not-init error from DeviceList, got %v", err)
	}
}

func TestOpenEnumerateClose(t *testing.T) {
	l := useSim(t, sim.DeviceConfig{Board: BoardBladeRF2}, sim.DeviceConfig{Board: BoardBladeRF1})

	infos, err := DeviceList()
	if err != nil {
		t.Fatalf("DeviceList: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(infos))
	}

	dev, err := infos[0].Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	serial, err := dev.Serial()
	if err != nil {
		t.Fatalf("Serial: %v", err)
	}
	if len(serial) != 32 {
		t.Fatalf("expected 32 character serial, got %q", serial)
	}
	if serial != infos[0].Serial() {
		t.Fatalf("serial mismatch: device %q, devinfo %q", serial, infos[0].Serial())
	}
	name, err := dev.BoardName()
	if err != nil {
		t.Fatalf("BoardName: %v", err)
	}
	if name != BoardBladeRF1 && name != BoardBladeRF2 {
		t.Fatalf("unexpected board name %q", name)
	}
	if l.OpenCount() != 1 {
		t.Fatalf("expected one open device, got %d", l.OpenCount())
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if l.OpenCount() != 0 {
		t.Fatalf("device still open after Close")
	}
	if l.Calls("Close") != 1 {
		t.Fatalf("expected one native close, got %d", l.Calls("Close"))
	}
}

func TestOpenIdentifier(t *testing.T) {
	useSim(t, sim.DeviceConfig{Serial: "aaaa"}, sim.DeviceConfig{Serial: "bbbb"})

	dev, err := OpenIdentifier("*:serial=bbbb")
	if err != nil {
		t.Fatalf("OpenIdentifier: %v", err)
	}
	defer dev.Close()
	if s, _ := dev.Serial(); s != "bbbb" {
		t.Fatalf("opened wrong device %q", s)
	}

	if _, err := OpenIdentifier("*:serial=bb\x00bb"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid argument for NUL identifier, got %v", err)
	}
	if _, err := OpenIdentifier("*:serial=cccc"); !errors.Is(err, ErrNoDev) {
		t.Fatalf("expected no-device error, got %v", err)
	}
}

func TestDevInfoIdentifier(t *testing.T) {
	useSim(t, sim.DeviceConfig{Serial: "f12ce1"})
	infos, err := DeviceList()
	if err != nil {
		t.Fatalf("DeviceList: %v", err)
	}
	info := infos[0]
	if info.Manufacturer() != "Nuand" {
		t.Fatalf("unexpected manufacturer %q", info.Manufacturer())
	}
	dev, err := OpenIdentifier(info.Identifier())
	if err != nil {
		t.Fatalf("open by %q: %v", info.Identifier(), err)
	}
	dev.Close()
}

func TestRefinementRoundTrip(t *testing.T) {
	l := useSim(t)
	dev, err := OpenFirst()
	if err != nil {
		t.Fatalf("OpenFirst: %v", err)
	}
	before, err := dev.Serial()
	if err != nil {
		t.Fatalf("Serial: %v", err)
	}

	if _, err := dev.IntoBladeRF1(); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported refining a bladeRF 2, got %v", err)
	}
	if _, err := dev.BoardName(); err != nil {
		t.Fatalf("device unusable after failed refinement: %v", err)
	}

	b2, err := dev.IntoBladeRF2()
	if err != nil {
		t.Fatalf("IntoBladeRF2: %v", err)
	}
	after, err := b2.Serial()
	if err != nil {
		t.Fatalf("Serial after refinement: %v", err)
	}
	if before != after {
		t.Fatalf("serial changed across refinement: %q -> %q", before, after)
	}
	if _, err := dev.Serial(); err == nil {
		t.Fatalf("source handle still usable after refinement")
	}
	if err := dev.Close(); err == nil {
		t.Fatalf("closing a moved handle should report it is closed")
	}

	b2.Close()
	if got := l.Calls("Close"); got != 1 {
		t.Fatalf("expected exactly one native close, got %d", got)
	}
	if got := l.Calls("Open"); got != 1 {
		t.Fatalf("refinement reopened the device: %d opens", got)
	}
}

func TestOpenBladeRF1OnWrongBoard(t *testing.T) {
	l := useSim(t)
	if _, err := OpenBladeRF1(); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
	if l.OpenCount() != 0 {
		t.Fatalf("failed OpenBladeRF1 leaked the device")
	}
}

func TestCloseDisablesEnabledChannels(t *testing.T) {
	l, b := openBladeRF2(t)
	if err := b.EnableModule(Rx0); err != nil {
		t.Fatalf("EnableModule: %v", err)
	}
	if err := b.EnableModule(Tx1); err != nil {
		t.Fatalf("EnableModule: %v", err)
	}
	l.ResetCalls()
	b.Close()
	if got := l.Calls("EnableModule"); got != 2 {
		t.Fatalf("expected 2 disables on close, got %d", got)
	}
	if got := l.Calls("Close"); got != 1 {
		t.Fatalf("expected one native close, got %d", got)
	}
}

func TestCloseAfterExplicitDisableIsQuiet(t *testing.T) {
	l, b := openBladeRF2(t)
	for _, ch := range []Channel{Rx0, Rx1, Tx0, Tx1} {
		if err := b.EnableModule(ch); err != nil {
			t.Fatalf("EnableModule(%v): %v", ch, err)
		}
	}
	for _, ch := range []Channel{Rx0, Rx1, Tx0, Tx1} {
		if err := b.DisableModule(ch); err != nil {
			t.Fatalf("DisableModule(%v): %v", ch, err)
		}
	}
	l.ResetCalls()
	b.Close()
	b.Close()
	if got := l.Calls("EnableModule"); got != 0 {
		t.Fatalf("close issued %d enable/disable calls", got)
	}
	if got := l.Calls("Close"); got != 1 {
		t.Fatalf("expected one native close, got %d", got)
	}
}

func TestCloseSwallowsDisableFailure(t *testing.T) {
	l, b := openBladeRF2(t)
	if err := b.EnableModule(Rx0); err != nil {
		t.Fatalf("EnableModule: %v", err)
	}
	l.Fail("EnableModule", native.ErrIO)
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if l.OpenCount() != 0 {
		t.Fatalf("device not closed after disable failure")
	}
}

func TestFailedEnableKeepsState(t *testing.T) {
	l, b := openBladeRF2(t)
	l.Fail("EnableModule", native.ErrTimeout)
	if err := b.EnableModule(Rx0); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if b.ModuleEnabled(Rx0) {
		t.Fatalf("failed enable recorded as enabled")
	}
}

func TestResetClosesHandle(t *testing.T) {
	l, b := openBladeRF2(t)
	if err := b.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if l.Calls("DeviceReset") != 1 || l.OpenCount() != 0 {
		t.Fatalf("expected reset followed by close")
	}
	if _, err := b.BoardName(); err == nil {
		t.Fatalf("handle usable after Reset")
	}
}

func TestIntrospection(t *testing.T) {
	_, b := openBladeRF2(t)
	fw, err := b.FirmwareVersion()
	if err != nil {
		t.Fatalf("FirmwareVersion: %v", err)
	}
	if fw.Major != 2 {
		t.Fatalf("unexpected firmware version %v", fw)
	}
	ok, err := b.IsFPGAConfigured()
	if err != nil || !ok {
		t.Fatalf("IsFPGAConfigured = %v, %v", ok, err)
	}
	size, err := b.FPGASize()
	if err != nil || size != FPGASizeA4 {
		t.Fatalf("FPGASize = %v, %v", size, err)
	}
	speed, err := b.DeviceSpeed()
	if err != nil || speed != SpeedSuper {
		t.Fatalf("DeviceSpeed = %v, %v", speed, err)
	}
	temp, err := b.RFICTemperature()
	if err != nil || temp <= 0 {
		t.Fatalf("RFICTemperature = %v, %v", temp, err)
	}
	bus, err := b.PMICRegister(PMICVoltageBus)
	if err != nil || bus < 4.5 || bus > 5.5 {
		t.Fatalf("PMICRegister(bus) = %v, %v", bus, err)
	}
}

func TestUnknownCodeIsReported(t *testing.T) {
	l, b := openBladeRF2(t)
	l.Fail("SetGain", -99)
	err := b.SetGain(Rx0, 10)
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindUnknownCode || e.Code != -99 {
		t.Fatalf("expected unknown code -99, got %v", err)
	}
}

func TestPositiveStatusPanics(t *testing.T) {
	l, b := openBladeRF2(t)
	l.Fail("SetGain", 1)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on positive status")
		}
	}()
	b.SetGain(Rx0, 10)
}

func TestUSBResetOnOpen(t *testing.T) {
	l := useSim(t)
	if err := SetUSBResetOnOpen(true); err != nil {
		t.Fatalf("SetUSBResetOnOpen: %v", err)
	}
	if !l.USBResetOnOpen() {
		t.Fatalf("flag did not reach the library")
	}
	v, err := LibraryVersion()
	if err != nil || v.Major != 2 {
		t.Fatalf("LibraryVersion = %v, %v", v, err)
	}
}

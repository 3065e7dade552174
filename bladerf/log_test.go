package bladerf

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/native"
)

type logLine struct {
	level LogLevel
	msg   string
}

func TestLogHandlerTrimsLines(t *testing.T) {
	l := useSim(t)
	var got []logLine
	if err := SetLogHandler(func(level LogLevel, msg string) {
		got = append(got, logLine{level, msg})
	}); err != nil {
		t.Fatalf("SetLogHandler: %v", err)
	}
	l.Emit(int32(LogWarning), "tuning failed \r\n")
	l.Emit(int32(LogError), "no trailing space")
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
	if got[0] != (logLine{LogWarning, "tuning failed"}) {
		t.Fatalf("first line %+v", got[0])
	}
	if got[1].msg != "no trailing space" {
		t.Fatalf("second line %+v", got[1])
	}
}

func TestLogHandlerReplaced(t *testing.T) {
	l := useSim(t)
	var first, second int
	SetLogHandler(func(LogLevel, string) { first++ })
	SetLogHandler(func(LogLevel, string) { second++ })
	l.Emit(int32(LogError), "x")
	if first != 0 || second != 1 {
		t.Fatalf("first=%d second=%d", first, second)
	}
	if err := SetLogHandler(nil); err != nil {
		t.Fatalf("SetLogHandler(nil): %v", err)
	}
	l.Emit(int32(LogError), "y")
	if second != 1 {
		t.Fatalf("cleared handler still called")
	}
}

func TestFailedLogHandlerKeepsPrevious(t *testing.T) {
	l := useSim(t)
	var first, second int
	if err := SetLogHandler(func(LogLevel, string) { first++ }); err != nil {
		t.Fatalf("SetLogHandler: %v", err)
	}
	l.Fail("LogSetCallback", native.ErrUnexpected)
	if err := SetLogHandler(func(LogLevel, string) { second++ }); !errors.Is(err, ErrUnexpected) {
		t.Fatalf("expected unexpected, got %v", err)
	}
	l.Emit(int32(LogError), "still routed")
	if first != 1 || second != 0 {
		t.Fatalf("first=%d second=%d", first, second)
	}
	l.Fail("LogSetCallback", native.ErrUnexpected)
	if err := SetRawLogCallback(func(int32, string) {}); err == nil {
		t.Fatalf("failed raw callback reported success")
	}
	l.Emit(int32(LogError), "after failed raw")
	if first != 2 {
		t.Fatalf("failed raw callback dropped the handler")
	}
	SetLogHandler(nil)
}

func TestLogLevelFilter(t *testing.T) {
	l := useSim(t)
	n := 0
	SetLogHandler(func(LogLevel, string) { n++ })
	if err := SetLogLevel(LogError); err != nil {
		t.Fatalf("SetLogLevel: %v", err)
	}
	l.Emit(int32(LogInfo), "dropped")
	l.Emit(int32(LogCritical), "kept")
	if n != 1 {
		t.Fatalf("expected 1 line past the filter, got %d", n)
	}
}

func TestRawLogCallback(t *testing.T) {
	l := useSim(t)
	handled := 0
	SetLogHandler(func(LogLevel, string) { handled++ })
	var raw []string
	if err := SetRawLogCallback(func(level int32, msg string) { raw = append(raw, msg) }); err != nil {
		t.Fatalf("SetRawLogCallback: %v", err)
	}
	l.Emit(int32(LogError), "raw line\n")
	if handled != 0 {
		t.Fatalf("handler called after raw callback installed")
	}
	if len(raw) != 1 || raw[0] != "raw line\n" {
		t.Fatalf("raw callback got %q", raw)
	}
}

func TestCharmLogHandler(t *testing.T) {
	l := useSim(t)
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	if err := SetLogHandler(CharmLogHandler(logger)); err != nil {
		t.Fatalf("SetLogHandler: %v", err)
	}
	l.Emit(int32(LogWarning), "lms6002d: PLL not locked\n")
	out := buf.String()
	if !strings.Contains(out, "PLL not locked") || !strings.Contains(out, "libbladeRF") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestLogHandlerNotInitialised(t *testing.T) {
	Init(nil)
	if err := SetLogHandler(func(LogLevel, string) {}); err == nil {
		t.Fatalf("SetLogHandler succeeded without a library")
	}
}

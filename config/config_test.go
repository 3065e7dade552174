package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrwynneiii/gobladerf/bladerf"
)

const sampleHCL = `
radio {
  identifier = "*:serial=f12ce1"
  backend = "sim"
  frequency = 433920000
  sample_rate = 4000000
  gain = 12
  format = "sc8q7"
}

stream {
  buffer_size = 4096
  timeout_ms = 1000
}

tui {
  enable_log_output = false
}

xb200 {
  enabled = true
  filter = "144m"
}
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.hcl")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadHCL(t *testing.T) {
	c := Load(Read(writeConfig(t, sampleHCL)))
	if c.Radio.Identifier != "*:serial=f12ce1" || c.Radio.Backend != "sim" {
		t.Fatalf("radio strings: %+v", c.Radio)
	}
	if c.Radio.Frequency != 433920000 || c.Radio.SampleRate != 4000000 || c.Radio.Gain != 12 {
		t.Fatalf("radio numbers: %+v", c.Radio)
	}
	if c.Radio.Bandwidth != 1_500_000 {
		t.Fatalf("missing bandwidth not defaulted: %d", c.Radio.Bandwidth)
	}
	if c.Stream.BufferSize != 4096 || c.Stream.NumBuffers != 16 {
		t.Fatalf("stream: %+v", c.Stream)
	}
	if c.Tui.EnableLogOutput {
		t.Fatalf("log pane not disabled")
	}
	f, p, err := c.XB200.Settings()
	if err != nil || f != bladerf.XB200Filter144M || p != bladerf.XB200Mix {
		t.Fatalf("xb200 settings %v %v %v", f, p, err)
	}
}

func TestEnvFallback(t *testing.T) {
	t.Setenv("GOBLADERF_RADIO_GAIN", "7")
	t.Setenv("GOBLADERF_RADIO_SAMPLE_RATE", "1000000")
	c := Load(Read(filepath.Join(t.TempDir(), "missing.hcl")))
	if c.Radio.Gain != 7 {
		t.Fatalf("gain from env = %d", c.Radio.Gain)
	}
	if c.Radio.SampleRate != 1000000 {
		t.Fatalf("sample rate from env = %d", c.Radio.SampleRate)
	}
}

func TestFindPath(t *testing.T) {
	path := writeConfig(t, "")
	missing := filepath.Join(t.TempDir(), "nope.hcl")
	if got := FindPath([]string{missing, path}); got != path {
		t.Fatalf("FindPath = %q", got)
	}
	if got := FindPath([]string{missing}); got != "" {
		t.Fatalf("FindPath found %q", got)
	}
}

func TestStreamConfig(t *testing.T) {
	s := StreamConf{NumBuffers: 16, BufferSize: 8192, NumTransfers: 8, TimeoutMs: 3500}
	cfg, err := s.StreamConfig()
	if err != nil {
		t.Fatalf("StreamConfig: %v", err)
	}
	if cfg.Timeout() != 3500*time.Millisecond || cfg.BufferSize() != 8192 {
		t.Fatalf("converted config %+v", cfg)
	}
	s.NumTransfers = 16
	if _, err := s.StreamConfig(); !errors.Is(err, bladerf.ErrInvalid) {
		t.Fatalf("transfers == buffers accepted: %v", err)
	}
	s.TimeoutMs = -1
	if _, err := s.StreamConfig(); err == nil {
		t.Fatalf("negative timeout accepted")
	}
}

func TestChannels(t *testing.T) {
	r := RadioConf{Channel: 1}
	if ch, err := r.RxChannel(); err != nil || ch != bladerf.RxChannel1 {
		t.Fatalf("RxChannel = %v, %v", ch, err)
	}
	if ch, err := r.TxChannel(); err != nil || ch != bladerf.TxChannel1 {
		t.Fatalf("TxChannel = %v, %v", ch, err)
	}
	r.Channel = 2
	if _, err := r.RxChannel(); err == nil {
		t.Fatalf("channel 2 accepted")
	}
}

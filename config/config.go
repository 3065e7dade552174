package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/bladerf"
	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of configuration environment variables.
// GOBLADERF_RADIO_SAMPLE_RATE sets radio.sample_rate.
const EnvPrefix = "GOBLADERF_"

var DefaultPaths = []string{"/etc/gobladerf/config.hcl", "~/.config/gobladerf/config.hcl", "./config.hcl"}

type RadioConf struct {
	Identifier string `koanf:"identifier"`
	Backend    string `koanf:"backend"`
	Channel    int    `koanf:"channel"`
	Frequency  uint64 `koanf:"frequency"`
	SampleRate uint32 `koanf:"sample_rate"`
	Bandwidth  uint32 `koanf:"bandwidth"`
	Gain       int    `koanf:"gain"`
	GainMode   string `koanf:"gain_mode"`
	Loopback   string `koanf:"loopback"`
	Format     string `koanf:"format"`
}

type StreamConf struct {
	NumBuffers   int `koanf:"num_buffers"`
	BufferSize   int `koanf:"buffer_size"`
	NumTransfers int `koanf:"num_transfers"`
	TimeoutMs    int `koanf:"timeout_ms"`
	// ChunkSize is the number of samples per read handed to consumers.
	ChunkSize int `koanf:"chunk_size"`
}

type TuiConf struct {
	RefreshMs       int     `koanf:"refresh_ms"`
	FFTSize         int     `koanf:"fft_size"`
	Decimation      int     `koanf:"decimation"`
	PowerWarnPct    float64 `koanf:"power_warn_pct"`
	PowerCritPct    float64 `koanf:"power_crit_pct"`
	EnableLogOutput bool    `koanf:"enable_log_output"`
}

type XB200Conf struct {
	Enabled bool   `koanf:"enabled"`
	Filter  string `koanf:"filter"`
	Path    string `koanf:"path"`
}

type Conf struct {
	Radio  RadioConf
	Stream StreamConf
	Tui    TuiConf
	XB200  XB200Conf
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// FindPath returns the first existing file in paths, or "".
func FindPath(paths []string) string {
	for _, path := range paths {
		path = expandHome(path)
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			log.Infof("Found config file: %s", path)
			return path
		}
	}
	log.Info("Config file not found!")
	return ""
}

// Read loads the HCL file at path. When it cannot be read the GOBLADERF_
// environment variables are used instead.
func Read(path string) *koanf.Koanf {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), hcl.Parser(true)); err != nil {
		log.Errorf("Could not read config file: %v", err)
		log.Error("Attempting to use environment variables")
		k.Load(env.Provider(".", env.Opt{
			Prefix: EnvPrefix,
			TransformFunc: func(k, v string) (string, any) {
				key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
				k = strings.Replace(key, "_", ".", 1)
				log.Debugf("Found config env var: %s=%v", k, v)
				return k, v
			},
		}), nil)
	}
	return k
}

func str(k *koanf.Koanf, key, def string) string {
	if k.Exists(key) {
		return k.String(key)
	}
	return def
}

func num(k *koanf.Koanf, key string, def int64) int64 {
	if k.Exists(key) {
		return k.Int64(key)
	}
	return def
}

func float(k *koanf.Koanf, key string, def float64) float64 {
	if k.Exists(key) {
		return k.Float64(key)
	}
	return def
}

func boolean(k *koanf.Koanf, key string, def bool) bool {
	if k.Exists(key) {
		return k.Bool(key)
	}
	return def
}

// Load builds a Conf from k, filling in defaults for missing keys.
func Load(k *koanf.Koanf) Conf {
	c := Conf{
		Radio: RadioConf{
			Identifier: str(k, "radio.identifier", ""),
			Backend:    str(k, "radio.backend", "libbladerf"),
			Channel:    int(num(k, "radio.channel", 0)),
			Frequency:  uint64(num(k, "radio.frequency", 915_000_000)),
			SampleRate: uint32(num(k, "radio.sample_rate", 2_000_000)),
			Bandwidth:  uint32(num(k, "radio.bandwidth", 1_500_000)),
			Gain:       int(num(k, "radio.gain", 30)),
			GainMode:   str(k, "radio.gain_mode", "manual"),
			Loopback:   str(k, "radio.loopback", "none"),
			Format:     str(k, "radio.format", "sc16q11"),
		},
		Stream: StreamConf{
			NumBuffers:   int(num(k, "stream.num_buffers", 16)),
			BufferSize:   int(num(k, "stream.buffer_size", 8192)),
			NumTransfers: int(num(k, "stream.num_transfers", 8)),
			TimeoutMs:    int(num(k, "stream.timeout_ms", 3500)),
			ChunkSize:    int(num(k, "stream.chunk_size", 16384)),
		},
		Tui: TuiConf{
			RefreshMs:       int(num(k, "tui.refresh_ms", 250)),
			FFTSize:         int(num(k, "tui.fft_size", 1024)),
			Decimation:      int(num(k, "tui.decimation", 1)),
			PowerWarnPct:    float(k, "tui.power_warn_pct", 80),
			PowerCritPct:    float(k, "tui.power_crit_pct", 95),
			EnableLogOutput: boolean(k, "tui.enable_log_output", true),
		},
		XB200: XB200Conf{
			Enabled: boolean(k, "xb200.enabled", false),
			Filter:  str(k, "xb200.filter", "auto_1db"),
			Path:    str(k, "xb200.path", "mix"),
		},
	}
	log.Debugf("Loaded config: %##v", c)
	return c
}

func msDuration(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

// StreamConfig validates the stream section.
func (s StreamConf) StreamConfig() (bladerf.StreamConfig, error) {
	if s.NumBuffers < 0 || s.BufferSize < 0 || s.NumTransfers < 0 || s.TimeoutMs < 0 {
		return bladerf.StreamConfig{}, fmt.Errorf("stream settings must not be negative: %+v", s)
	}
	return bladerf.NewStreamConfig(uint32(s.NumBuffers), uint32(s.BufferSize), uint32(s.NumTransfers), msDuration(s.TimeoutMs))
}

// RxChannel resolves the configured channel index to a receive channel.
func (r RadioConf) RxChannel() (bladerf.RxChannel, error) {
	switch r.Channel {
	case 0:
		return bladerf.RxChannel0, nil
	case 1:
		return bladerf.RxChannel1, nil
	}
	return 0, fmt.Errorf("radio.channel %d out of range", r.Channel)
}

// TxChannel resolves the configured channel index to a transmit channel.
func (r RadioConf) TxChannel() (bladerf.TxChannel, error) {
	switch r.Channel {
	case 0:
		return bladerf.TxChannel0, nil
	case 1:
		return bladerf.TxChannel1, nil
	}
	return 0, fmt.Errorf("radio.channel %d out of range", r.Channel)
}

func (x XB200Conf) Settings() (bladerf.XB200Filter, bladerf.XB200Path, error) {
	f, err := bladerf.ParseXB200Filter(x.Filter)
	if err != nil {
		return 0, 0, err
	}
	p, err := bladerf.ParseXB200Path(x.Path)
	if err != nil {
		return 0, 0, err
	}
	return f, p, nil
}

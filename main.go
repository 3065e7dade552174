package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/bladerf"
	"github.com/jrwynneiii/gobladerf/config"
	"github.com/jrwynneiii/gobladerf/libbladerf"
	"github.com/jrwynneiii/gobladerf/native"
	"github.com/jrwynneiii/gobladerf/sim"
)

// commandName drops the positional placeholders kong puts in the command
// path, so "fpga load <image>" becomes "fpga load".
func commandName(path string) string {
	words := slices.DeleteFunc(strings.Fields(path), func(w string) bool {
		return strings.HasPrefix(w, "<")
	})
	return strings.Join(words, " ")
}

// loadBackend returns the native library named by name. The simulator
// carries a bladeRF 2.0 and a bladeRF 1 with an XB-200; the XB-200 board
// comes first when xb200 is set so the default open finds it.
func loadBackend(name string, xb200 bool) (native.Library, error) {
	switch name {
	case "", "libbladerf":
		return libbladerf.Load()
	case "sim":
		boards := []sim.DeviceConfig{
			{Board: bladerf.BoardBladeRF2},
			{Board: bladerf.BoardBladeRF1, XB200: true},
		}
		if xb200 {
			slices.Reverse(boards)
		}
		return sim.New(boards...), nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

func loadConfig() config.Conf {
	path := cli.Config
	if path == "" {
		path = config.FindPath(config.DefaultPaths)
	}
	conf := config.Load(config.Read(path))
	if cli.Device != "" {
		conf.Radio.Identifier = cli.Device
	}
	return conf
}

func main() {
	log.Info("Starting gobladerf")
	flags := kong.Parse(&cli)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	conf := loadConfig()
	command := commandName(flags.Command())

	backend := cli.Backend
	if backend == "" {
		backend = conf.Radio.Backend
	}
	lib, err := loadBackend(backend, conf.XB200.Enabled || strings.HasPrefix(command, "xb200"))
	if err != nil {
		log.Fatalf("Could not load the native library: %v", err)
	}
	bladerf.Init(lib)

	if err := bladerf.SetLogHandler(bladerf.CharmLogHandler(nil)); err != nil {
		log.Warnf("Could not hook the libbladeRF log: %v", err)
	}
	if lvl, err := bladerf.ParseLogLevel(cli.LibLog); err != nil {
		log.Warnf("Ignoring --lib-log: %v", err)
	} else if err := bladerf.SetLogLevel(lvl); err != nil {
		log.Warnf("Could not set the libbladeRF log level: %v", err)
	}

	switch command {
	case "probe":
		err = probe(cli.Probe.Soapy)
	case "info":
		err = withDevice(conf, info)
	case "rx":
		err = withDevice(conf, func(dev device) error {
			return receive(dev, conf, cli.Rx.Samples, cli.Rx.Output)
		})
	case "tx":
		err = withDevice(conf, func(dev device) error {
			return transmit(dev, conf, cli.Tx.Samples, cli.Tx.Tone, cli.Tx.Amplitude)
		})
	case "monitor":
		err = withDevice(conf, func(dev device) error {
			return monitor(dev, conf)
		})
	case "firmware flash":
		err = withDevice(conf, func(dev device) error {
			return flashFirmware(dev, cli.Firmware.Flash.Image)
		})
	case "firmware log":
		err = withDevice(conf, func(dev device) error {
			return dev.DownloadFirmwareLog(cli.Firmware.Log.Output)
		})
	case "fpga load":
		err = withDevice(conf, func(dev device) error {
			return loadFPGA(dev, cli.Fpga.Load.Image)
		})
	case "fpga flash":
		err = withDevice(conf, func(dev device) error {
			return dev.FlashFPGA(cli.Fpga.Flash.Image)
		})
	case "fpga erase":
		err = withDevice(conf, func(dev device) error {
			return dev.EraseStoredFPGA()
		})
	case "xb200 filter":
		err = withXB200(conf, func(x *bladerf.XB200) error {
			return xb200Filter(x, cli.Xb200.Filter.Filter, cli.Xb200.Filter.Direction)
		})
	case "xb200 path":
		err = withXB200(conf, func(x *bladerf.XB200) error {
			return xb200Path(x, cli.Xb200.Path.Path, cli.Xb200.Path.Direction)
		})
	case "xb200 gpio":
		err = withXB200(conf, func(x *bladerf.XB200) error {
			return xb200GPIO(x, cli.Xb200.Gpio.Pin, cli.Xb200.Gpio.Level)
		})
	default:
		log.Info("Command not recognized")
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

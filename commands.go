package main

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/bladerf"
	"github.com/jrwynneiii/gobladerf/config"
	"github.com/jrwynneiii/gobladerf/radio"
	"github.com/jrwynneiii/gobladerf/spectrum"
	"github.com/jrwynneiii/gobladerf/tui"
	"periph.io/x/conn/v3/gpio"
)

// device is everything the CLI touches on a handle. Every handle type
// returned by radio.Open satisfies it.
type device interface {
	radio.Device
	Info() (bladerf.DevInfo, error)
	IsFPGAConfigured() (bool, error)
	FPGASize() (bladerf.FPGASize, error)
	DeviceSpeed() (bladerf.DeviceSpeed, error)
	FrequencyRange(ch bladerf.Channel) (bladerf.Range, error)
	SampleRate(ch bladerf.Channel) (uint32, error)
	SampleRateRange(ch bladerf.Channel) (bladerf.Range, error)
	Bandwidth(ch bladerf.Channel) (uint32, error)
	BandwidthRange(ch bladerf.Channel) (bladerf.Range, error)
	GainRange(ch bladerf.Channel) (bladerf.Range, error)
	GainMode(ch bladerf.Channel) (bladerf.GainMode, error)
	GainModes(ch bladerf.Channel) ([]bladerf.GainModeInfo, error)
	GainStages(ch bladerf.Channel) ([]string, error)
	GainStage(ch bladerf.Channel, stage string) (int32, error)
	Loopback() (bladerf.Loopback, error)
	LoopbackModes() ([]bladerf.LoopbackModeInfo, error)
	FlashFirmware(path string) error
	LoadFPGA(path string) error
	LoadFPGAFromEnv() error
	FlashFPGA(path string) error
	EraseStoredFPGA() error
	DownloadFirmwareLog(path string) error
}

func withDevice(conf config.Conf, fn func(dev device) error) error {
	rd, err := radio.Open(conf.Radio, conf.XB200)
	if err != nil {
		return err
	}
	defer func() {
		if err := rd.Close(); err != nil {
			log.Warn("Close failed", "err", err)
		}
	}()
	dev, ok := rd.(device)
	if !ok {
		return fmt.Errorf("handle %T does not support the CLI", rd)
	}
	return fn(dev)
}

func withXB200(conf config.Conf, fn func(x *bladerf.XB200) error) error {
	return withDevice(conf, func(dev device) error {
		b1, ok := dev.(*bladerf.BladeRF1)
		if !ok {
			return fmt.Errorf("the XB-200 needs a bladeRF 1: %w", bladerf.ErrUnsupported)
		}
		x, err := b1.XB200()
		if err != nil {
			return err
		}
		return fn(x)
	})
}

func probe(soapy bool) error {
	if v, err := bladerf.LibraryVersion(); err == nil {
		log.Infof("libbladeRF %v", v)
	}
	devices, err := bladerf.DeviceList()
	if err != nil && !errors.Is(err, bladerf.ErrNoDev) {
		return err
	}
	log.Infof("Found %d bladeRF devices", len(devices))
	for idx, d := range devices {
		backend, _ := d.Backend()
		log.Infof("Device #%d: %s %s", idx, d.Manufacturer(), d.Product())
		log.Infof("\tserial %s, bus %d, address %d, instance %d, backend %v", d.Serial(), d.USBBus(), d.USBAddr(), d.Instance(), backend)
		log.Infof("\tidentifier %s", d.Identifier())
	}
	if soapy {
		radio.LogAllSoapySDRDevices()
	}
	return nil
}

// channelsOf lists the channels a board has.
func channelsOf(board string) []bladerf.Channel {
	if board == bladerf.BoardBladeRF2 {
		return []bladerf.Channel{bladerf.Rx0, bladerf.Rx1, bladerf.Tx0, bladerf.Tx1}
	}
	return []bladerf.Channel{bladerf.Rx0, bladerf.Tx0}
}

func info(dev device) error {
	board, err := dev.BoardName()
	if err != nil {
		return err
	}
	devInfo, err := dev.Info()
	if err != nil {
		return err
	}
	log.Infof("Board: %s (%s)", board, devInfo.Identifier())
	if fw, err := dev.FirmwareVersion(); err == nil {
		log.Infof("Firmware: %v", fw)
	}
	if configured, err := dev.IsFPGAConfigured(); err == nil && configured {
		fpga, _ := dev.FPGAVersion()
		size, _ := dev.FPGASize()
		log.Infof("FPGA: %v (%v)", fpga, size)
	} else {
		log.Warn("FPGA is not configured")
	}
	if speed, err := dev.DeviceSpeed(); err == nil {
		log.Infof("USB speed: %v", speed)
	}
	if lb, err := dev.Loopback(); err == nil {
		log.Infof("Loopback: %v", lb)
	}
	if modes, err := dev.LoopbackModes(); err == nil {
		names := make([]string, 0, len(modes))
		for _, m := range modes {
			names = append(names, m.Name)
		}
		log.Infof("Loopback modes: %s", strings.Join(names, ", "))
	}
	if b2, ok := dev.(*bladerf.BladeRF2); ok {
		if t, err := b2.RFICTemperature(); err == nil {
			log.Infof("RFIC temperature: %.1f C", t)
		}
		if v, err := b2.PMICRegister(bladerf.PMICVoltageBus); err == nil {
			log.Infof("Bus voltage: %.3f V", v)
		}
	}

	for _, ch := range channelsOf(board) {
		log.Infof("Channel %v:", ch)
		if hz, err := dev.Frequency(ch); err == nil {
			r, _ := dev.FrequencyRange(ch)
			log.Infof("\tFrequency: %d Hz [%v]", hz, r)
		}
		if rate, err := dev.SampleRate(ch); err == nil {
			r, _ := dev.SampleRateRange(ch)
			log.Infof("\tSample rate: %d sps [%v]", rate, r)
		}
		if bw, err := dev.Bandwidth(ch); err == nil {
			r, _ := dev.BandwidthRange(ch)
			log.Infof("\tBandwidth: %d Hz [%v]", bw, r)
		}
		if gain, err := dev.Gain(ch); err == nil {
			r, _ := dev.GainRange(ch)
			log.Infof("\tGain: %d dB [%v]", gain, r)
		}
		if stages, err := dev.GainStages(ch); err == nil {
			for _, stage := range stages {
				g, _ := dev.GainStage(ch, stage)
				log.Infof("\t\t%s: %d dB", stage, g)
			}
		}
		if !ch.IsRx() {
			continue
		}
		if mode, err := dev.GainMode(ch); err == nil {
			log.Infof("\tGain mode: %v", mode)
		}
		if modes, err := dev.GainModes(ch); err == nil {
			names := make([]string, 0, len(modes))
			for _, m := range modes {
				names = append(names, m.Name)
			}
			log.Infof("\tGain modes: %s", strings.Join(names, ", "))
		}
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func receive(dev device, conf config.Conf, n uint64, output string) error {
	format, err := bladerf.ParseFormat(conf.Radio.Format)
	if err != nil {
		return err
	}
	switch format {
	case bladerf.FormatSc8Q7:
		return receiveAs[bladerf.ComplexI8](dev, conf, n, output)
	default:
		return receiveAs[bladerf.ComplexI16](dev, conf, n, output)
	}
}

func receiveAs[T bladerf.Sample](dev device, conf config.Conf, n uint64, output string) error {
	cfg, err := conf.Stream.StreamConfig()
	if err != nil {
		return err
	}
	if conf.Stream.ChunkSize <= 0 {
		return fmt.Errorf("stream.chunk_size must be positive")
	}
	samples := make(chan []complex64, 4)
	r, err := radio.New[T](dev, conf.Radio, cfg, uint(conf.Stream.ChunkSize), &samples)
	if err != nil {
		return err
	}
	if err := r.Connect(); err != nil {
		return err
	}
	analyzer, err := spectrum.New(float64(r.SampleRate), conf.Tui.FFTSize, 1, 1)
	if err != nil {
		r.Destroy()
		return err
	}

	var out *os.File
	if output != "" {
		if out, err = os.Create(output); err != nil {
			r.Destroy()
			return err
		}
		defer out.Close()
	}

	ctx, cancel := signalContext()
	defer cancel()
	done := make(chan struct{})
	var startErr error
	go func() {
		startErr = r.Start(ctx)
		close(done)
	}()

	var got uint64
loop:
	for got < n {
		var chunk []complex64
		select {
		case chunk = <-samples:
		case <-done:
			break loop
		case <-ctx.Done():
			break loop
		}
		if left := n - got; uint64(len(chunk)) > left {
			chunk = chunk[:left]
		}
		analyzer.Process(chunk)
		if out != nil {
			if err := binary.Write(out, binary.LittleEndian, chunk); err != nil {
				r.Destroy()
				return fmt.Errorf("could not write samples: %w", err)
			}
		}
		got += uint64(len(chunk))
	}
	cancel()
	<-done
	r.Destroy()
	if startErr != nil {
		return fmt.Errorf("capture stopped after %d samples: %w", got, startErr)
	}

	snap := analyzer.Snapshot()
	st := r.Stats()
	log.Infof("Received %d samples in %d chunks (%d read errors)", got, st.Chunks, st.ReadErrors)
	log.Infof("Power %.2f dBFS, SNR %.1f dB, peak at %+.0f Hz", snap.PowerDBFS, snap.SNR, snap.PeakFrequency())
	return nil
}

// toneChunk fills buf with a complex tone at hz, starting at phase, and
// returns the phase after the last sample.
func toneChunk(buf []bladerf.ComplexI16, hz, rate, amplitude, phase float64) float64 {
	step := 2 * math.Pi * hz / rate
	scale := amplitude * 2047
	for i := range buf {
		s, c := math.Sincos(phase)
		buf[i] = bladerf.ComplexI16{I: int16(math.Round(c * scale)), Q: int16(math.Round(s * scale))}
		phase = math.Mod(phase+step, 2*math.Pi)
	}
	return phase
}

func transmit(dev device, conf config.Conf, n uint64, toneHz, amplitude float64) error {
	if amplitude <= 0 || amplitude > 1 {
		return fmt.Errorf("amplitude %v outside (0, 1]", amplitude)
	}
	ch, err := conf.Radio.TxChannel()
	if err != nil {
		return err
	}
	rate, err := radio.Configure(dev, ch.Channel(), conf.Radio)
	if err != nil {
		return err
	}
	cfg, err := conf.Stream.StreamConfig()
	if err != nil {
		return err
	}
	tx, err := bladerf.NewTxStream[bladerf.ComplexI16, device](dev, cfg, bladerf.TxSISO(ch))
	if err != nil {
		return err
	}
	defer tx.Close()
	if err := tx.Enable(); err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	buf := make([]bladerf.ComplexI16, cfg.BufferSize())
	var phase float64
	var sent uint64
	for sent < n && ctx.Err() == nil {
		chunk := buf
		if left := n - sent; uint64(len(chunk)) > left {
			chunk = chunk[:left]
		}
		phase = toneChunk(chunk, toneHz, float64(rate), amplitude, phase)
		if err := tx.Write(chunk); err != nil {
			return fmt.Errorf("TX failed after %d samples: %w", sent, err)
		}
		sent += uint64(len(chunk))
	}
	log.Infof("Transmitted %d samples of a %+.0f Hz tone at %d sps", sent, toneHz, rate)
	return nil
}

func monitor(dev device, conf config.Conf) error {
	format, err := bladerf.ParseFormat(conf.Radio.Format)
	if err != nil {
		return err
	}
	if format == bladerf.FormatSc8Q7 {
		return monitorAs[bladerf.ComplexI8](dev, conf)
	}
	return monitorAs[bladerf.ComplexI16](dev, conf)
}

func monitorAs[T bladerf.Sample](dev device, conf config.Conf) error {
	cfg, err := conf.Stream.StreamConfig()
	if err != nil {
		return err
	}
	ch, err := conf.Radio.RxChannel()
	if err != nil {
		return err
	}
	analyzer, err := spectrum.New(float64(conf.Radio.SampleRate), conf.Tui.FFTSize, conf.Tui.Decimation, 16)
	if err != nil {
		return err
	}
	r, err := radio.New[T](dev, conf.Radio, cfg, uint(conf.Stream.ChunkSize), &analyzer.SampleInput)
	if err != nil {
		return err
	}
	if err := r.Connect(); err != nil {
		return err
	}
	if r.SampleRate != conf.Radio.SampleRate {
		if analyzer, err = spectrum.New(float64(r.SampleRate), conf.Tui.FFTSize, conf.Tui.Decimation, 16); err != nil {
			r.Destroy()
			return err
		}
		r.SamplesOutput = &analyzer.SampleInput
	}

	ctx, cancel := signalContext()
	done := make(chan struct{})
	go func() {
		if err := r.Start(ctx); err != nil {
			log.Errorf("Capture stopped: %v", err)
		}
		close(done)
	}()
	go analyzer.Start(ctx)

	tui.StartUI(ctx, r, analyzer, ch.Channel(), conf.Tui)

	cancel()
	<-done
	r.Destroy()
	analyzer.Close()
	return nil
}

func flashFirmware(dev device, image string) error {
	if image == "" {
		image = os.Getenv("BLADERF_FIRMWARE_PATH")
	}
	if image == "" {
		return fmt.Errorf("no firmware image given and BLADERF_FIRMWARE_PATH is unset")
	}
	log.Infof("Flashing firmware %s", image)
	if err := dev.FlashFirmware(image); err != nil {
		return err
	}
	log.Info("Firmware written, power cycle the device to use it")
	return nil
}

func loadFPGA(dev device, image string) error {
	if image == "" {
		log.Info("Loading the FPGA from $BLADERF_FPGA_BITSTREAM_PATH")
		return dev.LoadFPGAFromEnv()
	}
	log.Infof("Loading FPGA bitstream %s", image)
	return dev.LoadFPGA(image)
}

func directions(dir string) []bladerf.Direction {
	switch dir {
	case "rx":
		return []bladerf.Direction{bladerf.DirectionRx}
	case "tx":
		return []bladerf.Direction{bladerf.DirectionTx}
	}
	return []bladerf.Direction{bladerf.DirectionRx, bladerf.DirectionTx}
}

func xb200Filter(x *bladerf.XB200, name, dir string) error {
	f, err := bladerf.ParseXB200Filter(name)
	if err != nil {
		return err
	}
	for _, d := range directions(dir) {
		if err := x.SetFilterbank(d, f); err != nil {
			return err
		}
		got, err := x.Filterbank(d)
		if err != nil {
			return err
		}
		log.Infof("XB-200 %v filter: %v", d, got)
	}
	return nil
}

func xb200Path(x *bladerf.XB200, name, dir string) error {
	p, err := bladerf.ParseXB200Path(name)
	if err != nil {
		return err
	}
	for _, d := range directions(dir) {
		if err := x.SetPath(d, p); err != nil {
			return err
		}
		got, err := x.Path(d)
		if err != nil {
			return err
		}
		log.Infof("XB-200 %v path: %v", d, got)
	}
	return nil
}

func xb200GPIO(x *bladerf.XB200, name, level string) error {
	pins := x.TakePeripherals()
	if pins == nil {
		return fmt.Errorf("XB-200 pins already taken")
	}
	pin, ok := pins.Pin(name)
	if !ok {
		return fmt.Errorf("no XB-200 pin %q: %w", name, bladerf.ErrInvalid)
	}
	switch strings.ToLower(level) {
	case "":
		in, err := pin.IntoInput()
		if err != nil {
			return err
		}
		l, err := in.Read()
		if err != nil {
			return err
		}
		log.Infof("%s is %v", name, l)
		return nil
	case "high", "low":
		out, err := pin.IntoOutput()
		if err != nil {
			return err
		}
		l := gpio.Low
		if strings.EqualFold(level, "high") {
			l = gpio.High
		}
		if err := out.Write(l); err != nil {
			return err
		}
		log.Infof("%s driven %v", name, l)
		return nil
	}
	return fmt.Errorf("level %q is not high or low: %w", level, bladerf.ErrInvalid)
}

package radio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/gobladerf/bladerf"
	"github.com/jrwynneiii/gobladerf/config"
)

// Device is the part of a bladeRF handle the receive pipeline drives. It is
// satisfied by *bladerf.Device, *bladerf.BladeRF1 and *bladerf.BladeRF2.
type Device interface {
	bladerf.Handle
	Close() error
	Serial() (string, error)
	BoardName() (string, error)
	FirmwareVersion() (bladerf.Version, error)
	FPGAVersion() (bladerf.Version, error)
	SetFrequency(ch bladerf.Channel, hz uint64) error
	Frequency(ch bladerf.Channel) (uint64, error)
	SetSampleRate(ch bladerf.Channel, rate uint32) (uint32, error)
	SetBandwidth(ch bladerf.Channel, hz uint32) (uint32, error)
	SetGainMode(ch bladerf.Channel, mode bladerf.GainMode) error
	SetGain(ch bladerf.Channel, db int32) error
	Gain(ch bladerf.Channel) (int32, error)
	SetLoopback(mode bladerf.Loopback) error
}

type Stats struct {
	Chunks     uint64
	Samples    uint64
	ReadErrors uint64
	Timestamp  uint64
}

type Radio[T bladerf.Sample] struct {
	SamplesOutput *chan []complex64
	Conf          config.RadioConf
	SampleRate    uint32
	Frequency     uint64
	//Private:
	device    Device
	channel   bladerf.RxChannel
	cfg       bladerf.StreamConfig
	stream    *bladerf.RxStream[T, bladerf.Handle]
	chunksize uint
	buffer    []T
	meta      bladerf.Metadata
	chunks    atomic.Uint64
	samples   atomic.Uint64
	errors    atomic.Uint64
	timestamp atomic.Uint64

	// Start owns the stream while it runs; Pause and Resume are handed to
	// it through requests.
	mu        sync.Mutex
	running   bool
	destroyed bool
	cancel    context.CancelFunc
	done      chan struct{}
	requests  chan request
	paused    bool
}

type request struct {
	pause bool
	reply chan error
}

// Open opens the device named by conf and refines it to its board type.
// With the XB-200 enabled the transverter is attached and set up, which
// needs a bladeRF 1.
func Open(conf config.RadioConf, xb config.XB200Conf) (Device, error) {
	log.Debugf("Opening device %q", conf.Identifier)
	dev, err := bladerf.OpenIdentifier(conf.Identifier)
	if err != nil {
		return nil, fmt.Errorf("could not open bladeRF: %w", err)
	}
	name, err := dev.BoardName()
	if err != nil {
		dev.Close()
		return nil, err
	}
	switch name {
	case bladerf.BoardBladeRF2:
		if xb.Enabled {
			dev.Close()
			return nil, fmt.Errorf("the XB-200 needs a bladeRF 1: %w", bladerf.ErrUnsupported)
		}
		b, err := dev.IntoBladeRF2()
		if err != nil {
			dev.Close()
			return nil, err
		}
		return b, nil
	case bladerf.BoardBladeRF1:
		b, err := dev.IntoBladeRF1()
		if err != nil {
			dev.Close()
			return nil, err
		}
		if !xb.Enabled {
			return b, nil
		}
		if err := attachXB200(b, xb); err != nil {
			b.Close()
			return nil, err
		}
		return b, nil
	}
	log.Warnf("Unknown board %q, using the common interface only", name)
	return dev, nil
}

func attachXB200(b *bladerf.BladeRF1, xb config.XB200Conf) error {
	filter, path, err := xb.Settings()
	if err != nil {
		return err
	}
	x, err := b.XB200()
	if err != nil {
		return fmt.Errorf("could not attach XB-200: %w", err)
	}
	for _, dir := range []bladerf.Direction{bladerf.DirectionRx, bladerf.DirectionTx} {
		if err := x.SetFilterbank(dir, filter); err != nil {
			return fmt.Errorf("could not select XB-200 filter: %w", err)
		}
		if err := x.SetPath(dir, path); err != nil {
			return fmt.Errorf("could not select XB-200 path: %w", err)
		}
	}
	log.Infof("XB-200 attached (filter %v, path %v)", filter, path)
	return nil
}

// Configure tunes ch of dev to conf and returns the sample rate the
// hardware settled on.
func Configure(dev Device, ch bladerf.Channel, conf config.RadioConf) (uint32, error) {
	log.Debugf("Setting frequency to %d", conf.Frequency)
	if err := dev.SetFrequency(ch, conf.Frequency); err != nil {
		return 0, fmt.Errorf("could not set frequency: %w", err)
	}
	log.Debugf("Setting sample rate to %d", conf.SampleRate)
	rate, err := dev.SetSampleRate(ch, conf.SampleRate)
	if err != nil {
		return 0, fmt.Errorf("could not set sample rate: %w", err)
	}
	if rate != conf.SampleRate {
		log.Warnf("Sample rate %d adjusted to %d", conf.SampleRate, rate)
	}
	if conf.Bandwidth != 0 {
		bw, err := dev.SetBandwidth(ch, conf.Bandwidth)
		if err != nil {
			return 0, fmt.Errorf("could not set bandwidth: %w", err)
		}
		log.Debugf("Bandwidth set to %d", bw)
	}
	if ch.IsRx() && conf.GainMode != "" {
		mode, err := bladerf.ParseGainMode(conf.GainMode)
		if err != nil {
			return 0, err
		}
		if err := dev.SetGainMode(ch, mode); err != nil {
			return 0, fmt.Errorf("could not set gain mode %v: %w", mode, err)
		}
	}
	if err := dev.SetGain(ch, int32(conf.Gain)); err != nil {
		return 0, fmt.Errorf("could not set gain: %w", err)
	}
	if conf.Loopback != "" {
		lb, err := bladerf.ParseLoopback(conf.Loopback)
		if err != nil {
			return 0, err
		}
		if err := dev.SetLoopback(lb); err != nil {
			return 0, fmt.Errorf("could not set loopback %v: %w", lb, err)
		}
	}
	return rate, nil
}

func New[T bladerf.Sample](dev Device, conf config.RadioConf, cfg bladerf.StreamConfig, bufSize uint, output *chan []complex64) (*Radio[T], error) {
	ch, err := conf.RxChannel()
	if err != nil {
		return nil, err
	}
	if bufSize == 0 {
		return nil, fmt.Errorf("chunk size must be positive")
	}
	r := Radio[T]{
		SamplesOutput: output,
		Conf:          conf,
		Frequency:     conf.Frequency,
		device:        dev,
		channel:       ch,
		cfg:           cfg,
		chunksize:     bufSize,
		buffer:        make([]T, bufSize),
	}
	return &r, nil
}

// Connect applies the radio configuration and opens the receive stream.
func (r *Radio[T]) Connect() error {
	rate, err := Configure(r.device, r.channel.Channel(), r.Conf)
	if err != nil {
		return err
	}
	r.SampleRate = rate
	if name, err := r.device.BoardName(); err == nil {
		log.Debugf("Initialized device: %v", name)
	}

	log.Debug("Creating the IQ stream")
	r.stream, err = bladerf.NewRxStream[T, bladerf.Handle](r.device, r.cfg, bladerf.RxSISO(r.channel))
	if err != nil {
		return fmt.Errorf("could not setup SDR stream: %w", err)
	}
	return r.StreamActivate()
}

func (r *Radio[T]) StreamActivate() error {
	log.Debug("Activating IQ stream...")
	if r.stream == nil {
		return fmt.Errorf("stream not connected")
	}
	if err := r.stream.Enable(); err != nil {
		return fmt.Errorf("could not activate the IQ stream: %w", err)
	}
	// Read the first buffer and discard it so consumers see settled samples
	if _, err := r.Read(); err != nil {
		return err
	}
	clear(r.buffer)
	return nil
}

func (r *Radio[T]) StreamDeactivate() {
	log.Debug("Deactivating IQ stream...")
	if r.stream != nil {
		if err := r.stream.Disable(); err != nil {
			log.Errorf("Could not deactivate the IQ stream: %v", err)
		}
	}
}

func (r *Radio[T]) StreamClose() {
	log.Debug("Closing IQ stream...")
	if r.stream != nil {
		r.stream.Close()
		r.stream = nil
	}
}

// Read fills the internal buffer once and returns it.
func (r *Radio[T]) Read() ([]T, error) {
	if r.stream == nil {
		return nil, fmt.Errorf("stream not connected")
	}
	if err := r.stream.ReadMeta(r.buffer, &r.meta); err != nil {
		r.errors.Add(1)
		return nil, err
	}
	r.timestamp.Store(r.meta.Timestamp)
	r.samples.Add(uint64(len(r.buffer)))
	return r.buffer, nil
}

// Start reads chunks and pushes them, converted to complex64, on
// SamplesOutput until ctx is cancelled, Destroy is called or a read fails.
// Timeouts are logged and retried; any other read error ends Start and is
// returned.
func (r *Radio[T]) Start(ctx context.Context) error {
	r.mu.Lock()
	switch {
	case r.destroyed:
		r.mu.Unlock()
		return fmt.Errorf("radio destroyed")
	case r.running:
		r.mu.Unlock()
		return fmt.Errorf("radio already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	r.running = true
	r.cancel = cancel
	r.done = make(chan struct{})
	r.requests = make(chan request)
	done := r.done
	r.mu.Unlock()

	defer func() {
		cancel()
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		close(done)
	}()

	for {
		if r.paused {
			select {
			case <-ctx.Done():
				return nil
			case req := <-r.requests:
				req.reply <- r.apply(req.pause)
			}
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case req := <-r.requests:
			req.reply <- r.apply(req.pause)
			continue
		default:
		}

		samples, err := r.Read()
		if err != nil {
			if bladerf.KindOf(err) == bladerf.KindTimeout {
				log.Warnf("RX timeout after %d chunks", r.chunks.Load())
				continue
			}
			log.Errorf("RX failed: %v", err)
			return fmt.Errorf("RX failed: %w", err)
		}
		out := bladerf.ToComplex64(make([]complex64, 0, len(samples)), samples)
		select {
		case *r.SamplesOutput <- out:
			r.chunks.Add(1)
		case req := <-r.requests:
			// The chunk is dropped; consumers are not reading anyway.
			req.reply <- r.apply(req.pause)
		case <-ctx.Done():
			return nil
		}
	}
}

func (r *Radio[T]) apply(pause bool) error {
	if pause == r.paused {
		return nil
	}
	if pause {
		r.paused = true
		r.StreamDeactivate()
		return nil
	}
	if err := r.StreamActivate(); err != nil {
		return err
	}
	r.paused = false
	return nil
}

// request runs a pause or resume on the Start goroutine when it is
// running, and directly otherwise.
func (r *Radio[T]) request(pause bool) error {
	r.mu.Lock()
	if !r.running {
		defer r.mu.Unlock()
		return r.apply(pause)
	}
	requests, done := r.requests, r.done
	r.mu.Unlock()

	req := request{pause: pause, reply: make(chan error, 1)}
	select {
	case requests <- req:
		return <-req.reply
	case <-done:
		// Start exited; the stream is ours again.
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.apply(pause)
	}
}

// Pause stops reading and disables the channel; Resume undoes it.
func (r *Radio[T]) Pause() error {
	return r.request(true)
}

func (r *Radio[T]) Resume() error {
	return r.request(false)
}

// Retune moves the receive frequency without restarting the stream.
func (r *Radio[T]) Retune(hz uint64) error {
	if err := r.device.SetFrequency(r.channel.Channel(), hz); err != nil {
		return err
	}
	r.Frequency = hz
	return nil
}

func (r *Radio[T]) Stats() Stats {
	return Stats{
		Chunks:     r.chunks.Load(),
		Samples:    r.samples.Load(),
		ReadErrors: r.errors.Load(),
		Timestamp:  r.timestamp.Load(),
	}
}

func (r *Radio[T]) Device() Device { return r.device }

// Destroy stops Start, waits for it to return, then closes the stream and
// the output channel. The device itself is left open for the caller to
// close.
func (r *Radio[T]) Destroy() {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	r.destroyed = true
	cancel, done := r.cancel, r.done
	running := r.running
	r.mu.Unlock()
	if running {
		cancel()
		<-done
	}
	r.StreamClose()
	close(*r.SamplesOutput)
}

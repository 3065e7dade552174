package bladerf

import (
	"sync/atomic"

	"github.com/charmbracelet/log"
)

func (c *core) token(dir Direction) *atomic.Bool {
	if dir == DirectionTx {
		return &c.txBusy
	}
	return &c.rxBusy
}

// session is the direction-independent part of a stream.
type session struct {
	c      *core
	dir    Direction
	layout ChannelLayout
	chans  []Channel
	cfg    StreamConfig
	format Format
	shared bool
	closed atomic.Bool
}

// openSession claims the direction token, installs the stream format and
// takes a device reference for shared sessions. retain is false when a
// reconfigured session inherits its predecessor's reference.
func openSession(h Handle, dir Direction, layout ChannelLayout, chans []Channel, format Format, cfg StreamConfig, shared, retain bool) (*session, error) {
	c := h.handle()
	if c == nil {
		return nil, errClosed
	}
	if _, ok := h.(*BladeRF1); ok && layout != LayoutRxX1 && layout != LayoutTxX1 {
		return nil, invalidError("bladeRF 1 supports only single channel streams")
	}
	if _, ok := h.(*BladeRF1); ok && chans[0] != Rx0 && chans[0] != Tx0 {
		return nil, invalidError("bladeRF 1 has no channel %v", chans[0])
	}
	if !c.token(dir).CompareAndSwap(false, true) {
		return nil, msgError("%v stream already open on this device", dir)
	}
	if err := c.SyncConfig(layout, format, cfg); err != nil {
		c.token(dir).Store(false)
		return nil, err
	}
	if shared && retain {
		c.retain()
	}
	log.Debugf("Opened %v stream (%v, %v)", dir, chans, format)
	return &session{c: c, dir: dir, layout: layout, chans: chans, cfg: cfg, format: format, shared: shared}, nil
}

// Enable reinstalls the stream format and switches on the session's
// channels. Disabling a channel tears down the native pipeline, so the
// format must be installed again before the next transfer.
func (s *session) Enable() error {
	if s.closed.Load() {
		return msgError("stream is closed")
	}
	if err := s.c.SyncConfig(s.layout, s.format, s.cfg); err != nil {
		return err
	}
	for _, ch := range s.chans {
		if err := s.c.EnableModule(ch); err != nil {
			return err
		}
	}
	return nil
}

// Disable switches off every channel in the session's direction. Failures
// on channels outside the session's layout are ignored.
func (s *session) Disable() error {
	if s.closed.Load() {
		return msgError("stream is closed")
	}
	return s.disableAll()
}

func (s *session) disableAll() error {
	var first error
	for _, ch := range s.layout.Direction().allChannels() {
		err := s.c.DisableModule(ch)
		if err != nil && first == nil && s.uses(ch) {
			first = err
		}
	}
	return first
}

func (s *session) uses(ch Channel) bool {
	for _, c := range s.chans {
		if c == ch {
			return true
		}
	}
	return false
}

// detach disables the channels and frees the direction token without
// dropping the device reference.
func (s *session) detach() bool {
	if !s.closed.CompareAndSwap(false, true) {
		return false
	}
	if err := s.disableAll(); err != nil {
		log.Debug("Disable on stream close failed", "dir", s.dir, "err", err)
	}
	s.c.token(s.dir).Store(false)
	return true
}

// Close disables the session's channels and releases the device for
// another session. Close is idempotent.
func (s *session) Close() error {
	if s.detach() && s.shared {
		s.c.release()
	}
	return nil
}

// Config returns the parameters the session was built with.
func (s *session) Config() StreamConfig { return s.cfg }

// IsShared reports whether the session holds its own device reference.
func (s *session) IsShared() bool { return s.shared }

func (d Direction) allChannels() []Channel {
	if d == DirectionTx {
		return []Channel{Tx0, Tx1}
	}
	return []Channel{Rx0, Rx1}
}

// RxStream is a synchronous receive session producing elements of type F
// from a device handle of type D.
type RxStream[F Sample, D Handle] struct {
	*session
	dev    D
	layout RxLayout
}

func newRxStream[F Sample, D Handle](dev D, cfg StreamConfig, layout RxLayout, shared, retain bool) (*RxStream[F, D], error) {
	s, err := openSession(dev, DirectionRx, layout.Native(), layout.Channels(), FormatOf[F](), cfg, shared, retain)
	if err != nil {
		return nil, err
	}
	return &RxStream[F, D]{session: s, dev: dev, layout: layout}, nil
}

// NewRxStream opens a receive session that borrows dev. dev must stay
// open until the session is closed.
func NewRxStream[F Sample, D Handle](dev D, cfg StreamConfig, layout RxLayout) (*RxStream[F, D], error) {
	return newRxStream[F](dev, cfg, layout, false, true)
}

// NewSharedRxStream opens a receive session that keeps the device open
// until both the session and dev have been closed.
func NewSharedRxStream[F Sample, D Handle](dev D, cfg StreamConfig, layout RxLayout) (*RxStream[F, D], error) {
	return newRxStream[F](dev, cfg, layout, true, true)
}

// Read fills buf with samples.
func (s *RxStream[F, D]) Read(buf []F) error {
	if s.closed.Load() {
		return msgError("stream is closed")
	}
	return SyncRX(s.c, buf, nil, s.cfg.timeout)
}

// ReadMeta fills buf and reports the transfer metadata in meta.
func (s *RxStream[F, D]) ReadMeta(buf []F, meta *Metadata) error {
	if s.closed.Load() {
		return msgError("stream is closed")
	}
	return SyncRX(s.c, buf, meta, s.cfg.timeout)
}

func (s *RxStream[F, D]) Device() D        { return s.dev }
func (s *RxStream[F, D]) Layout() RxLayout { return s.layout }

// ReconfigureRx closes s and opens a session with a new element type,
// layout and configuration on the same device, keeping s's ownership mode.
func ReconfigureRx[G Sample, F Sample, D Handle](s *RxStream[F, D], cfg StreamConfig, layout RxLayout) (*RxStream[G, D], error) {
	if !s.detach() {
		return nil, msgError("stream is closed")
	}
	n, err := newRxStream[G](s.dev, cfg, layout, s.shared, false)
	if err != nil && s.shared {
		s.c.release()
	}
	return n, err
}

// TxStream is a synchronous transmit session consuming elements of type F.
type TxStream[F Sample, D Handle] struct {
	*session
	dev    D
	layout TxLayout
}

func newTxStream[F Sample, D Handle](dev D, cfg StreamConfig, layout TxLayout, shared, retain bool) (*TxStream[F, D], error) {
	s, err := openSession(dev, DirectionTx, layout.Native(), layout.Channels(), FormatOf[F](), cfg, shared, retain)
	if err != nil {
		return nil, err
	}
	return &TxStream[F, D]{session: s, dev: dev, layout: layout}, nil
}

// NewTxStream opens a transmit session that borrows dev.
func NewTxStream[F Sample, D Handle](dev D, cfg StreamConfig, layout TxLayout) (*TxStream[F, D], error) {
	return newTxStream[F](dev, cfg, layout, false, true)
}

// NewSharedTxStream opens a transmit session holding its own device
// reference.
func NewSharedTxStream[F Sample, D Handle](dev D, cfg StreamConfig, layout TxLayout) (*TxStream[F, D], error) {
	return newTxStream[F](dev, cfg, layout, true, true)
}

// Write transmits buf.
func (s *TxStream[F, D]) Write(buf []F) error {
	if s.closed.Load() {
		return msgError("stream is closed")
	}
	return SyncTX(s.c, buf, nil, s.cfg.timeout)
}

// WriteMeta transmits buf with burst flags and timestamp from meta.
func (s *TxStream[F, D]) WriteMeta(buf []F, meta *Metadata) error {
	if s.closed.Load() {
		return msgError("stream is closed")
	}
	return SyncTX(s.c, buf, meta, s.cfg.timeout)
}

func (s *TxStream[F, D]) Device() D        { return s.dev }
func (s *TxStream[F, D]) Layout() TxLayout { return s.layout }

// ReconfigureTx is the transmit counterpart of ReconfigureRx.
func ReconfigureTx[G Sample, F Sample, D Handle](s *TxStream[F, D], cfg StreamConfig, layout TxLayout) (*TxStream[G, D], error) {
	if !s.detach() {
		return nil, msgError("stream is closed")
	}
	n, err := newTxStream[G](s.dev, cfg, layout, s.shared, false)
	if err != nil && s.shared {
		s.c.release()
	}
	return n, err
}

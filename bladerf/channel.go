package bladerf

import (
	"fmt"

	"github.com/jrwynneiii/gobladerf/native"
)

// Channel identifies one RF channel of a device.
type Channel int32

const (
	Rx0 Channel = Channel(native.ChannelRx0)
	Tx0 Channel = Channel(native.ChannelTx0)
	Rx1 Channel = Channel(native.ChannelRx1)
	Tx1 Channel = Channel(native.ChannelTx1)
)

// ChannelFromNative converts a native channel number.
func ChannelFromNative(v int32) (Channel, error) {
	switch c := Channel(v); c {
	case Rx0, Tx0, Rx1, Tx1:
		return c, nil
	}
	return 0, invalidError("invalid channel value: %d", v)
}

func (c Channel) native() int32 { return int32(c) }

// IsRx reports whether c is a receive channel.
func (c Channel) IsRx() bool { return c&1 == 0 }

// IsTx reports whether c is a transmit channel.
func (c Channel) IsTx() bool { return c&1 == 1 }

// Direction returns the stream direction of c.
func (c Channel) Direction() Direction {
	if c.IsTx() {
		return DirectionTx
	}
	return DirectionRx
}

func (c Channel) String() string {
	switch c {
	case Rx0:
		return "RX0"
	case Tx0:
		return "TX0"
	case Rx1:
		return "RX1"
	case Tx1:
		return "TX1"
	}
	return fmt.Sprintf("Channel(%d)", int32(c))
}

// RxChannel is a Channel restricted to the receive direction.
type RxChannel Channel

const (
	RxChannel0 = RxChannel(Rx0)
	RxChannel1 = RxChannel(Rx1)
)

// Channel widens r.
func (r RxChannel) Channel() Channel { return Channel(r) }

func (r RxChannel) String() string { return Channel(r).String() }

// TxChannel is a Channel restricted to the transmit direction.
type TxChannel Channel

const (
	TxChannel0 = TxChannel(Tx0)
	TxChannel1 = TxChannel(Tx1)
)

// Channel widens t.
func (t TxChannel) Channel() Channel { return Channel(t) }

func (t TxChannel) String() string { return Channel(t).String() }

// RxChannelOf narrows c to the receive direction.
func RxChannelOf(c Channel) (RxChannel, error) {
	if c != Rx0 && c != Rx1 {
		return 0, invalidError("%v is not a receive channel", c)
	}
	return RxChannel(c), nil
}

// TxChannelOf narrows c to the transmit direction.
func TxChannelOf(c Channel) (TxChannel, error) {
	if c != Tx0 && c != Tx1 {
		return 0, invalidError("%v is not a transmit channel", c)
	}
	return TxChannel(c), nil
}

// Direction is the stream direction.
type Direction int32

const (
	DirectionRx Direction = Direction(native.DirectionRx)
	DirectionTx Direction = Direction(native.DirectionTx)
)

// DirectionFromNative converts a native direction.
func DirectionFromNative(v int32) (Direction, error) {
	switch d := Direction(v); d {
	case DirectionRx, DirectionTx:
		return d, nil
	}
	return 0, invalidError("invalid direction value: %d", v)
}

func (d Direction) String() string {
	if d == DirectionTx {
		return "TX"
	}
	return "RX"
}

// ChannelLayout is the native channel layout of a stream.
type ChannelLayout int32

const (
	LayoutRxX1 ChannelLayout = ChannelLayout(native.LayoutRxX1)
	LayoutTxX1 ChannelLayout = ChannelLayout(native.LayoutTxX1)
	LayoutRxX2 ChannelLayout = ChannelLayout(native.LayoutRxX2)
	LayoutTxX2 ChannelLayout = ChannelLayout(native.LayoutTxX2)
)

// ChannelLayoutFromNative converts a native layout.
func ChannelLayoutFromNative(v int32) (ChannelLayout, error) {
	switch l := ChannelLayout(v); l {
	case LayoutRxX1, LayoutTxX1, LayoutRxX2, LayoutTxX2:
		return l, nil
	}
	return 0, invalidError("invalid channel layout value: %d", v)
}

// Direction returns the stream direction of l.
func (l ChannelLayout) Direction() Direction {
	if l&1 == 1 {
		return DirectionTx
	}
	return DirectionRx
}

// Channels lists the channels a stream in layout l can use.
func (l ChannelLayout) Channels() []Channel {
	switch l {
	case LayoutRxX1:
		return []Channel{Rx0}
	case LayoutTxX1:
		return []Channel{Tx0}
	case LayoutRxX2:
		return []Channel{Rx0, Rx1}
	case LayoutTxX2:
		return []Channel{Tx0, Tx1}
	}
	return nil
}

// RxLayout selects the channels of a receive stream: one channel, or both
// in MIMO mode.
type RxLayout struct {
	mimo bool
	ch   RxChannel
}

// RxSISO returns a single-channel receive layout.
func RxSISO(ch RxChannel) RxLayout { return RxLayout{ch: ch} }

// RxMIMO returns the two-channel receive layout.
func RxMIMO() RxLayout { return RxLayout{mimo: true, ch: RxChannel0} }

// IsMIMO reports whether l spans both receive channels.
func (l RxLayout) IsMIMO() bool { return l.mimo }

// Channel returns the single channel of a SISO layout.
func (l RxLayout) Channel() RxChannel { return l.ch }

// Native returns the native layout.
func (l RxLayout) Native() ChannelLayout {
	if l.mimo {
		return LayoutRxX2
	}
	return LayoutRxX1
}

// Channels lists the channels a stream in l enables.
func (l RxLayout) Channels() []Channel {
	if l.mimo {
		return []Channel{Rx0, Rx1}
	}
	return []Channel{l.ch.Channel()}
}

func (l RxLayout) String() string {
	if l.mimo {
		return "RX MIMO"
	}
	return l.ch.String()
}

// TxLayout selects the channels of a transmit stream.
type TxLayout struct {
	mimo bool
	ch   TxChannel
}

// TxSISO returns a single-channel transmit layout.
func TxSISO(ch TxChannel) TxLayout { return TxLayout{ch: ch} }

// TxMIMO returns the two-channel transmit layout.
func TxMIMO() TxLayout { return TxLayout{mimo: true, ch: TxChannel0} }

// IsMIMO reports whether l spans both transmit channels.
func (l TxLayout) IsMIMO() bool { return l.mimo }

// Channel returns the single channel of a SISO layout.
func (l TxLayout) Channel() TxChannel { return l.ch }

// Native returns the native layout.
func (l TxLayout) Native() ChannelLayout {
	if l.mimo {
		return LayoutTxX2
	}
	return LayoutTxX1
}

// Channels lists the channels a stream in l enables.
func (l TxLayout) Channels() []Channel {
	if l.mimo {
		return []Channel{Tx0, Tx1}
	}
	return []Channel{l.ch.Channel()}
}

func (l TxLayout) String() string {
	if l.mimo {
		return "TX MIMO"
	}
	return l.ch.String()
}

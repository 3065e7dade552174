package bladerf

import (
	"fmt"

	"github.com/jrwynneiii/gobladerf/native"
)

// Kind is a stable error identifier. Every Kind except KindUnknownCode and
// KindMessage corresponds to one libbladeRF return code.
type Kind int

const (
	KindUnexpected Kind = iota + 1
	KindRange
	KindInval
	KindMem
	KindIO
	KindTimeout
	KindNoDev
	KindUnsupported
	KindMisaligned
	KindChecksum
	KindNoFile
	KindUpdateFPGA
	KindUpdateFW
	KindTimePast
	KindQueueFull
	KindFPGAOp
	KindPermission
	KindWouldBlock
	KindNotInit
	KindUnknownCode
	KindMessage
)

var kindNames = map[Kind]string{
	KindUnexpected:  "unexpected",
	KindRange:       "range",
	KindInval:       "invalid argument",
	KindMem:         "memory",
	KindIO:          "io",
	KindTimeout:     "timeout",
	KindNoDev:       "no device",
	KindUnsupported: "unsupported",
	KindMisaligned:  "misaligned",
	KindChecksum:    "checksum",
	KindNoFile:      "no file",
	KindUpdateFPGA:  "fpga update required",
	KindUpdateFW:    "firmware update required",
	KindTimePast:    "time past",
	KindQueueFull:   "queue full",
	KindFPGAOp:      "fpga operation failed",
	KindPermission:  "permission",
	KindWouldBlock:  "would block",
	KindNotInit:     "not initialised",
	KindUnknownCode: "unknown code",
	KindMessage:     "message",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error implements error so a bare Kind can be used as a sentinel.
func (k Kind) Error() string { return "bladerf: " + k.String() }

// Sentinels for errors.Is.
const (
	ErrUnexpected  = KindUnexpected
	ErrRange       = KindRange
	ErrInvalid     = KindInval
	ErrMem         = KindMem
	ErrIO          = KindIO
	ErrTimeout     = KindTimeout
	ErrNoDev       = KindNoDev
	ErrUnsupported = KindUnsupported
	ErrMisaligned  = KindMisaligned
	ErrChecksum    = KindChecksum
	ErrNoFile      = KindNoFile
	ErrUpdateFPGA  = KindUpdateFPGA
	ErrUpdateFW    = KindUpdateFW
	ErrTimePast    = KindTimePast
	ErrQueueFull   = KindQueueFull
	ErrFPGAOp      = KindFPGAOp
	ErrPermission  = KindPermission
	ErrWouldBlock  = KindWouldBlock
	ErrNotInit     = KindNotInit
)

// Error carries the kind, the native code (when there is one) and context.
type Error struct {
	Kind Kind
	Code int
	Op   string
	Msg  string
	// Inval marks wrapper-side argument validation failures so they also
	// match ErrInvalid.
	Inval bool
}

func (e *Error) Error() string {
	s := "bladerf"
	if e.Op != "" {
		s += ": " + e.Op
	}
	switch {
	case e.Kind == KindMessage:
		return s + ": " + e.Msg
	case e.Kind == KindUnknownCode:
		s += fmt.Sprintf(": unknown error code %d", e.Code)
	default:
		s += ": " + e.Kind.String()
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

// Is lets errors.Is match an *Error against a Kind sentinel.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	if !ok {
		return false
	}
	if k == e.Kind {
		return true
	}
	return k == KindInval && e.Inval
}

// KindOf extracts the Kind of err, or 0 when err is not from this package.
func KindOf(err error) Kind {
	switch e := err.(type) {
	case nil:
		return 0
	case Kind:
		return e
	case *Error:
		return e.Kind
	}
	return 0
}

func msgError(format string, args ...any) error {
	return &Error{Kind: KindMessage, Msg: fmt.Sprintf(format, args...)}
}

func invalidError(format string, args ...any) error {
	return &Error{Kind: KindMessage, Msg: fmt.Sprintf(format, args...), Inval: true}
}

var errClosed = msgError("device handle is closed")

func kindFromCode(code int) Kind {
	switch code {
	case native.ErrUnexpected:
		return KindUnexpected
	case native.ErrRange:
		return KindRange
	case native.ErrInval:
		return KindInval
	case native.ErrMem:
		return KindMem
	case native.ErrIO:
		return KindIO
	case native.ErrTimeout:
		return KindTimeout
	case native.ErrNoDev:
		return KindNoDev
	case native.ErrUnsupported:
		return KindUnsupported
	case native.ErrMisaligned:
		return KindMisaligned
	case native.ErrChecksum:
		return KindChecksum
	case native.ErrNoFile:
		return KindNoFile
	case native.ErrUpdateFPGA:
		return KindUpdateFPGA
	case native.ErrUpdateFW:
		return KindUpdateFW
	case native.ErrTimePast:
		return KindTimePast
	case native.ErrQueueFull:
		return KindQueueFull
	case native.ErrFPGAOp:
		return KindFPGAOp
	case native.ErrPermission:
		return KindPermission
	case native.ErrWouldBlock:
		return KindWouldBlock
	case native.ErrNotInit:
		return KindNotInit
	}
	return KindUnknownCode
}

// codeError translates a negative native code.
func codeError(code int) error {
	return &Error{Kind: kindFromCode(code), Code: code}
}

// check translates the status of a call that returns zero on success.
// A positive status breaks the library contract and panics.
func check(code int) error {
	switch {
	case code == 0:
		return nil
	case code < 0:
		return codeError(code)
	}
	panic(fmt.Sprintf("bladerf: native call returned %d where 0 was expected", code))
}

// checkCount translates the status of a call that returns a count on success.
func checkCount(code int) (int, error) {
	if code < 0 {
		return 0, codeError(code)
	}
	return code, nil
}

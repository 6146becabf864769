// Package rterr defines the runtime's error taxonomy: a small set of kinds
// that every layer (resource, ledger, wasmvm, host, process) reports
// through, so a caller can tell a resolution failure from an authority
// failure from a codec failure without string-matching messages.
package rterr

import "fmt"

// Kind classifies a runtime error: Resolution, Authority, Accounting,
// Movement, Lifecycle, Codec, VM, Dispatch. A caller can switch on Kind
// without string-matching the message.
type Kind int

const (
	_ Kind = iota
	Resolution
	Authority
	Accounting
	Movement
	Lifecycle
	Codec
	VM
	Dispatch
)

func (k Kind) String() string {
	switch k {
	case Resolution:
		return "resolution"
	case Authority:
		return "authority"
	case Accounting:
		return "accounting"
	case Movement:
		return "movement"
	case Lifecycle:
		return "lifecycle"
	case Codec:
		return "codec"
	case VM:
		return "vm"
	case Dispatch:
		return "dispatch"
	default:
		return "unknown"
	}
}

// Error is a kind-tagged, wrap-capable runtime error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error with the given kind, message and cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err is an *Error of the given kind, looking through
// wrapped causes.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Err
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

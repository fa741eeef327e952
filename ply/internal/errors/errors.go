// Package errors defines the error kinds raised by the ply package.
//
// Kinds, not types: every failure the reader can produce is represented by
// a single Error struct tagged with a Kind, the same shape dsnet/compress
// uses for its codec packages (see bzip2.Reader, which panics with
// errors.Corrupted/errors.Deprecated rather than distinct Go error types).
// Decoders raise failures with Panicf/Assert and the enclosing call recovers
// with Recover, mirroring xflate/meta.Reader.decodeBlock.
package errors

import (
	"fmt"

	"github.com/dsnet/golib/errs"
)

// Kind identifies the category of a failure.
type Kind uint8

const (
	_ Kind = iota
	IO                 // stream read failure
	UnexpectedEOF      // a required read could not be satisfied
	MalformedHeader    // grammar violation, unknown type, duplicate element, bad count
	UnsupportedVersion // format version other than 1.0
	BadListLength      // negative ASCII list count, or a count that violates a fixed-size conversion
	NumericParse       // an ASCII token is not a valid number
	ListProperty       // a scalar operation was invoked on a list property
	OutOfRange         // a triangulation index fell outside num_verts
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case MalformedHeader:
		return "MalformedHeader"
	case UnsupportedVersion:
		return "UnsupportedVersion"
	case BadListLength:
		return "BadListLength"
	case NumericParse:
		return "NumericParse"
	case ListProperty:
		return "ListProperty"
	case OutOfRange:
		return "OutOfRange"
	default:
		return "Unknown"
	}
}

// Error is the concrete error value raised for every Kind above.
type Error struct {
	Kind Kind
	Pkg  string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Pkg, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pkg, e.Kind, e.Msg)
}

// E builds an *Error without raising it.
func E(kind Kind, pkg, format string, args ...interface{}) error {
	return &Error{Kind: kind, Pkg: pkg, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an opaque error (typically from the underlying io.Reader) with a Kind.
func Wrap(err error, kind Kind, pkg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Pkg: pkg, Msg: err.Error()}
}

// Panicf raises a Kind/message pair as a panic, to be caught by Recover.
func Panicf(kind Kind, pkg, format string, args ...interface{}) {
	errs.Panic(E(kind, pkg, format, args...))
}

// Assert panics with the given Kind/message unless cond holds.
func Assert(cond bool, kind Kind, pkg, format string, args ...interface{}) {
	errs.Assert(cond, E(kind, pkg, format, args...))
}

// Recover catches a panic raised by Panicf/Assert (or a propagated runtime
// error, which it re-panics) and stores it in *err.
//
// recover only stops a panic when called directly by the deferred function,
// so the panic is caught here and re-raised under a deferred errs.Recover.
func Recover(err *error) {
	if ex := recover(); ex != nil {
		func() {
			defer errs.Recover(err)
			panic(ex)
		}()
	}
}

// KindOf extracts the Kind from err, or 0 if err was not raised by this package.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return 0
}

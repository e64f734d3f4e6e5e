package vm

import (
	"errors"
	"fmt"
)

// Kind classifies a runtime fault.
type Kind uint8

const (
	GenericRuntimeError Kind = iota
	TypeMismatch
	IndexOutOfRange
	DivisionByZero
	OutOfMemory
	SignatureMismatch
)

func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case DivisionByZero:
		return "DivisionByZero"
	case OutOfMemory:
		return "OutOfMemory"
	case SignatureMismatch:
		return "SignatureMismatch"
	default:
		return "GenericRuntimeError"
	}
}

// Error is a runtime fault. Faults propagate as ordinary error returns up
// to the single recovery boundary installed by Runtime.TryAndCatch.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case TypeMismatch:
		return "runtime type error: " + e.Msg
	case IndexOutOfRange:
		return "array index out of range: " + e.Msg
	case DivisionByZero:
		return "division by zero: " + e.Msg
	case OutOfMemory:
		return "out of memory: " + e.Msg
	case SignatureMismatch:
		return "function signature mismatch: " + e.Msg
	default:
		return "runtime error: " + e.Msg
	}
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrOutOfMemory)
// works regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrTypeMismatch      = &Error{Kind: TypeMismatch}
	ErrIndexOutOfRange   = &Error{Kind: IndexOutOfRange}
	ErrDivisionByZero    = &Error{Kind: DivisionByZero}
	ErrOutOfMemory       = &Error{Kind: OutOfMemory}
	ErrSignatureMismatch = &Error{Kind: SignatureMismatch}
	ErrRuntime           = &Error{Kind: GenericRuntimeError}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func typeError(format string, args ...any) *Error {
	return newError(TypeMismatch, format, args...)
}

func indexError(index, length int32) *Error {
	return newError(IndexOutOfRange, "index %d, length %d", index, length)
}

// Raise builds a GenericRuntimeError carrying msg. Generated code returns it
// to unwind to the recovery boundary.
func Raise(msg string) error {
	return &Error{Kind: GenericRuntimeError, Msg: msg}
}

// KindOf returns the kind of a runtime fault, or GenericRuntimeError for
// errors that did not originate in the runtime.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return GenericRuntimeError
}

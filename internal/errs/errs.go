// internal/errs/errs.go
//
// Error model shared by every game package.
// Each *Error carries:
//   - a stable Code used for errors.Is comparisons,
//   - the 1-based index of its human-readable line in the message catalog,
//   - a Kind that tells callers whether to re-prompt or to stop the process,
//   - an optional cause and context data.
//
// Recoverable kinds (validation, duplicate, store) are reported and the
// originating prompt or action is retried. Fatal kinds (allocation, io)
// travel up to main, which prints the catalog message and exits.

package errs

import (
	"errors"
	"fmt"
)

// Code is the stable identifier of an error.
type Code string

// Kind classifies how an error must be handled.
type Kind uint8

const (
	KindValidation Kind = iota
	KindDuplicate
	KindStore
	KindAllocation
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindStore:
		return "store"
	case KindAllocation:
		return "allocation"
	case KindIO:
		return "io"
	}
	return "unknown"
}

// Error is the game's error value. Derive variants with WithCause/WithData;
// the receiver is never mutated.
type Error struct {
	code  Code
	index int
	kind  Kind
	msg   string
	data  map[string]any
	cause error
}

// New builds an error bound to a message catalog index.
func New(code Code, index int, kind Kind, msg string) *Error {
	return &Error{code: code, index: index, kind: kind, msg: msg}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	s := string(e.code)
	if e.msg != "" {
		s += ": " + e.msg
	}
	if len(e.data) > 0 {
		s += fmt.Sprintf(" %v", e.data)
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches on code only, ignoring message, data and cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code
}

// Code returns the stable identifier.
func (e *Error) Code() Code { return e.code }

// Index is the 1-based line of this error in the message catalog.
func (e *Error) Index() int { return e.index }

// Kind returns the handling class.
func (e *Error) Kind() Kind { return e.kind }

// Msg returns the message without cause or data.
func (e *Error) Msg() string { return e.msg }

// Data returns a copy of the attached context.
func (e *Error) Data() map[string]any {
	return cloneMap(e.data)
}

// Fatal reports whether the process must stop after reporting e.
func (e *Error) Fatal() bool {
	return e.kind == KindAllocation || e.kind == KindIO
}

// WithCause returns a copy of e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	next := e.clone()
	next.cause = cause
	return next
}

// WithData returns a copy of e with key set to value.
func (e *Error) WithData(key string, value any) *Error {
	next := e.clone()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	return next
}

func (e *Error) clone() *Error {
	return &Error{
		code:  e.code,
		index: e.index,
		kind:  e.kind,
		msg:   e.msg,
		data:  cloneMap(e.data),
		cause: e.cause,
	}
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsFatal reports whether err (or anything it wraps) is a fatal game error.
// Errors outside this package are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := As(err); ok {
		return e.Fatal()
	}
	return true
}

// IndexOf returns the catalog index for err, falling back to the generic line.
func IndexOf(err error) int {
	if e, ok := As(err); ok && e.index > 0 {
		return e.index
	}
	return IndexGeneric
}

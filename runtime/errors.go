package cbor

import (
	"errors"
	"strconv"
)

const resumableDefault = false

var (
	// ErrSyntax matches every *SyntaxError through errors.Is.
	ErrSyntax error = errors.New("cbor: syntax error")

	// ErrTrailingBytes is returned when input remains after a top-level item,
	// or when a composite is finished before its declared count was consumed.
	ErrTrailingBytes error = errTrailing{}

	// ErrMaxDepthExceeded is returned when nesting exceeds the decoder's depth limit.
	// This should only realistically be seen on adversarial data trying to exhaust the stack.
	ErrMaxDepthExceeded error = errors.New("cbor: max depth exceeded")

	// ErrContainerTooLarge is returned when a declared length exceeds the configured ceiling.
	ErrContainerTooLarge error = errors.New("cbor: container too large")

	// ErrInvalidUTF8 is returned when a text string contains invalid UTF-8
	ErrInvalidUTF8 error = errors.New("cbor: invalid UTF-8 in text string")

	// ErrUnexpectedBreak is returned when a break code appears outside an
	// indefinite-length array, map or chunked string.
	ErrUnexpectedBreak error = errors.New("cbor: unexpected break code")

	// ErrVariantShape is returned when a variant is neither a text string nor an array.
	ErrVariantShape error = errors.New("cbor: variant must be a text string or an array")

	// ErrChunkType is returned when an indefinite-length string contains a
	// chunk that is not a definite-length string of the same major type.
	ErrChunkType error = errors.New("cbor: invalid chunk in indefinite-length string")
)

// Error is the interface satisfied
// by all of the errors that originate
// from this package.
type Error interface {
	error

	// Resumable returns whether
	// or not the error means that
	// the stream of data is malformed
	// and the information is unrecoverable.
	Resumable() bool
}

// contextError allows Error instances to be enhanced with additional
// context about their origin.
type contextError interface {
	Error

	// withContext must not modify the error instance - it must clone and
	// return a new error with the context added.
	withContext(ctx string) error
}

// Cause returns the underlying cause of an error that has been wrapped
// with additional context.
func Cause(e error) error {
	out := e
	if e, ok := e.(errWrapped); ok && e.cause != nil {
		out = e.cause
	}
	return out
}

// Resumable returns whether or not the error means that the stream of data is
// malformed and the information is unrecoverable.
func Resumable(e error) bool {
	var ce Error
	if errors.As(e, &ce) {
		return ce.Resumable()
	}
	return resumableDefault
}

// WrapError wraps an error with additional context that allows the part of the
// decoded value that caused the problem to be identified. Underlying errors
// can be retrieved using Cause() or errors.Unwrap.
//
// The input error is not modified - a new error should be returned.
//
// ErrTrailingBytes and *IOError are not wrapped with any context so that
// callers comparing against them keep working without errors.Is.
func WrapError(err error, ctx ...any) error {
	switch e := err.(type) {
	case nil:
		return nil
	case errTrailing, *IOError:
		return e
	case contextError:
		return e.withContext(ctxString(ctx))
	default:
		return errWrapped{cause: err, ctx: ctxString(ctx)}
	}
}

func ctxString(ctx []any) string {
	out := ""
	for idx, elem := range ctx {
		if idx > 0 {
			out += "/"
		}
		switch v := elem.(type) {
		case string:
			out += v
		case int:
			out += strconv.Itoa(v)
		case uint64:
			out += strconv.FormatUint(v, 10)
		default:
			out += "?"
		}
	}
	return out
}

func addCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	} else {
		return add
	}
}

func quoteStr(s string) string { return strconv.Quote(s) }

// errWrapped allows arbitrary errors passed to WrapError to be enhanced with
// context and unwrapped with Cause()
type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	} else {
		return e.cause.Error()
	}
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

func (e errWrapped) withContext(ctx string) error {
	e.ctx = addCtx(e.ctx, ctx)
	return e
}

// Unwrap returns the cause.
func (e errWrapped) Unwrap() error { return e.cause }

type errTrailing struct{}

func (e errTrailing) Error() string   { return "cbor: trailing bytes after item" }
func (e errTrailing) Resumable() bool { return false }

// IOError carries a failure of the underlying byte source. Running out of
// input in the middle of an item is reported as io.ErrUnexpectedEOF.
type IOError struct {
	Offset int64 // bytes consumed before the failed read
	Err    error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return "cbor: read failed at offset " + strconv.FormatInt(e.Offset, 10) + ": " + e.Err.Error()
}

// Unwrap returns the source error.
func (e *IOError) Unwrap() error { return e.Err }

// Resumable returns 'false' for IOErrors
func (e *IOError) Resumable() bool { return false }

// SyntaxError reports malformed input. Err, when set, names the precise
// fault (ErrInvalidUTF8, ErrContainerTooLarge, IntOverflow, ...).
type SyntaxError struct {
	Offset int64 // offset of the offending header byte
	Msg    string
	Err    error
	ctx    string
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	out := "cbor: syntax error at offset " + strconv.FormatInt(e.Offset, 10)
	if e.Msg != "" {
		out += ": " + e.Msg
	}
	if e.Err != nil {
		out += ": " + e.Err.Error()
	}
	if e.ctx != "" {
		out += " at " + e.ctx
	}
	return out
}

// Is makes every SyntaxError match ErrSyntax.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// Unwrap returns the specific fault, if any.
func (e *SyntaxError) Unwrap() error { return e.Err }

// Resumable returns 'false' for SyntaxErrors
func (e *SyntaxError) Resumable() bool { return false }

func (e *SyntaxError) withContext(ctx string) error {
	o := *e
	o.ctx = addCtx(o.ctx, ctx)
	return &o
}

// InvalidAdditionalInfoError is returned for the reserved additional
// information values 28, 29 and 30, and for values that are not defined
// for a given major type.
type InvalidAdditionalInfoError struct {
	Major uint8
	Info  uint8
}

// Error implements the error interface
func (i InvalidAdditionalInfoError) Error() string {
	return "cbor: invalid additional information " + strconv.Itoa(int(i.Info)) + " for major type " + strconv.Itoa(int(i.Major))
}

// Resumable returns 'false' for InvalidAdditionalInfoErrors
func (i InvalidAdditionalInfoError) Resumable() bool { return false }

// IntOverflow is returned when a call
// would downcast an integer to a type
// with too few bits to hold its value.
type IntOverflow struct {
	Value         int64 // the value of the integer
	FailedBitsize int   // the bit size that the int64 could not fit into
	ctx           string
}

// Error implements the error interface
func (i IntOverflow) Error() string {
	str := "cbor: " + strconv.FormatInt(i.Value, 10) + " overflows int" + strconv.Itoa(i.FailedBitsize)
	if i.ctx != "" {
		str += " at " + i.ctx
	}
	return str
}

// Resumable is always 'true' for overflows
func (i IntOverflow) Resumable() bool { return true }

func (i IntOverflow) withContext(ctx string) error { i.ctx = addCtx(i.ctx, ctx); return i }

// NegativeOverflow is returned when a negative integer argument is too
// large for -1-n to be represented as an int64.
type NegativeOverflow struct {
	Argument uint64
}

// Error implements the error interface
func (n NegativeOverflow) Error() string {
	return "cbor: -1-" + strconv.FormatUint(n.Argument, 10) + " overflows int64"
}

// Resumable returns 'false' for NegativeOverflow
func (n NegativeOverflow) Resumable() bool { return false }

// UintOverflow is returned when a call
// would downcast an unsigned integer to a type
// with too few bits to hold its value
type UintOverflow struct {
	Value         uint64 // value of the uint
	FailedBitsize int    // the bit size that couldn't fit the value
	ctx           string
}

// Error implements the error interface
func (u UintOverflow) Error() string {
	str := "cbor: " + strconv.FormatUint(u.Value, 10) + " overflows uint" + strconv.Itoa(u.FailedBitsize)
	if u.ctx != "" {
		str += " at " + u.ctx
	}
	return str
}

// Resumable is always 'true' for overflows
func (u UintOverflow) Resumable() bool { return true }

func (u UintOverflow) withContext(ctx string) error { u.ctx = addCtx(u.ctx, ctx); return u }

// UintBelowZero is returned when a call
// would cast a signed integer below zero
// to an unsigned integer.
type UintBelowZero struct {
	Value int64 // value of the incoming int
	ctx   string
}

// Error implements the error interface
func (u UintBelowZero) Error() string {
	str := "cbor: attempted to cast int " + strconv.FormatInt(u.Value, 10) + " to unsigned"
	if u.ctx != "" {
		str += " at " + u.ctx
	}
	return str
}

// Resumable is always 'true' for overflows
func (u UintBelowZero) Resumable() bool { return true }

func (u UintBelowZero) withContext(ctx string) error {
	u.ctx = addCtx(u.ctx, ctx)
	return u
}

// A TypeError is returned when a Visitor is
// handed an item of a kind it does not accept.
type TypeError struct {
	Method  Type // Type expected by the visitor
	Encoded Type // Type actually encoded

	ctx string
}

// Error implements the error interface
func (t TypeError) Error() string {
	out := "cbor: attempted to decode type " + quoteStr(t.Encoded.String()) + " with method for " + quoteStr(t.Method.String())
	if t.ctx != "" {
		out += " at " + t.ctx
	}
	return out
}

// Resumable returns 'true' for TypeErrors
func (t TypeError) Resumable() bool { return true }

func (t TypeError) withContext(ctx string) error { t.ctx = addCtx(t.ctx, ctx); return t }

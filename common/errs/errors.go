package errs

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure so callers can react without string matching.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidData
	KindUnknownType
	KindDecodeFailure
	KindRemoteSigning
	KindEncodingInvariant
	KindTimeout
	KindMissingField
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidData:
		return "invalid data"
	case KindUnknownType:
		return "unknown message type"
	case KindDecodeFailure:
		return "decode failure"
	case KindRemoteSigning:
		return "remote signing failure"
	case KindEncodingInvariant:
		return "encoding invariant violation"
	case KindTimeout:
		return "timeout"
	case KindMissingField:
		return "missing field"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error carries the failure kind and the stage that produced it,
// e.g. "type lookup", "bech32 decode" or "remote signing".
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with a formatted cause.
func New(kind Kind, stage string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Stage: stage, Err: errors.Errorf(format, args...)}
}

// Wrap attaches kind and stage to err. A nil err stays nil.
func Wrap(kind Kind, stage string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// As returns the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ContextKind maps a context error to KindTimeout for an expired deadline
// and KindCanceled for anything else.
func ContextKind(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindCanceled
}

// KindOf returns the kind of the outermost *Error, or KindUnknown.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

package meta

import (
	"github.com/pkg/errors"
)

// ErrKind classifies the failure modes of metadata block parsing and
// serialization.
type ErrKind uint8

// Error kinds.
const (
	// KindIO denotes an error from the underlying reader or writer.
	KindIO ErrKind = iota
	// KindStringDecoding denotes a string field containing invalid UTF-8.
	KindStringDecoding
	// KindInvalidInput denotes a malformed or out-of-range block payload.
	KindInvalidInput
)

func (kind ErrKind) String() string {
	switch kind {
	case KindIO:
		return "IO"
	case KindStringDecoding:
		return "string decoding"
	case KindInvalidInput:
		return "invalid input"
	}
	return "unknown"
}

// Error is a classified metadata error. The underlying cause remains
// reachable through Unwrap.
type Error struct {
	// Kind of the error.
	Kind ErrKind
	// Underlying error.
	Err error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is an *Error of the given
// kind.
func IsKind(err error, kind ErrKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func errIO(err error) error {
	return &Error{Kind: KindIO, Err: err}
}

func errInvalid(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidInput, Err: errors.Errorf(format, args...)}
}

func errDecode(format string, args ...interface{}) error {
	return &Error{Kind: KindStringDecoding, Err: errors.Errorf(format, args...)}
}

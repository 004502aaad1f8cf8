package metaflac

import (
	"github.com/jameshurst/go-metaflac/meta"
)

// Error and its kinds are re-exported from the meta package so that callers
// of the tag API need not import both packages to classify failures.
type (
	Error   = meta.Error
	ErrKind = meta.ErrKind
)

// Error kinds.
const (
	KindIO             = meta.KindIO
	KindStringDecoding = meta.KindStringDecoding
	KindInvalidInput   = meta.KindInvalidInput
)

// IsKind reports whether any error in err's chain is an *Error of the given
// kind.
func IsKind(err error, kind ErrKind) bool {
	return meta.IsKind(err, kind)
}

func ioErr(err error) error {
	return &Error{Kind: KindIO, Err: err}
}

package pipeline

import (
	"errors"
	"fmt"

	"github.com/leofalp/wfextract/core/canon"
	"github.com/leofalp/wfextract/core/recovery"
)

var (
	// ErrStreamFailure is wrapped by every [StreamError].
	ErrStreamFailure = errors.New("wfextract: stream failure")

	// ErrBufferLimit is the cause of a [StreamError] raised when a stream
	// grows beyond the configured maximum size.
	ErrBufferLimit = errors.New("wfextract: stream exceeded buffer limit")
)

// StreamError reports that the chunk sequence failed, was cancelled or grew
// too large. No extraction is attempted on the partial data.
type StreamError struct {
	Err error
	// Received is the number of bytes read before the failure.
	Received int
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%v after %d bytes: %v", ErrStreamFailure, e.Received, e.Err)
}

func (e *StreamError) Unwrap() []error {
	return []error{ErrStreamFailure, e.Err}
}

// Error kinds reported by [ErrorKind].
const (
	KindStream   = "stream"
	KindNoRegion = "no_region"
	KindSyntax   = "syntax"
	KindSchema   = "schema"
	KindUnknown  = "unknown"
)

// ErrorKind classifies an error returned by Run. It returns "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStreamFailure):
		return KindStream
	case errors.Is(err, recovery.ErrNoStructuredRegion):
		return KindNoRegion
	case errors.Is(err, canon.ErrSyntax):
		return KindSyntax
	case errors.Is(err, canon.ErrSchemaRepair):
		return KindSchema
	default:
		return KindUnknown
	}
}

// RawText returns the unsalvageable text attached to a recovery, syntax or
// schema error, and false for other errors.
func RawText(err error) (string, bool) {
	var recoveryErr *recovery.RecoveryError
	if errors.As(err, &recoveryErr) {
		return recoveryErr.RawText, true
	}
	var syntaxErr *canon.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.RawText, true
	}
	var schemaErr *canon.SchemaRepairError
	if errors.As(err, &schemaErr) {
		return schemaErr.RawText, true
	}
	return "", false
}

package canon

import (
	"errors"
	"fmt"

	"github.com/leofalp/wfextract/internal/utils"
)

var (
	// ErrSyntax is wrapped by every [SyntaxError].
	ErrSyntax = errors.New("wfextract: payload is not valid JSON")

	// ErrSchemaRepair is wrapped by every [SchemaRepairError].
	ErrSchemaRepair = errors.New("wfextract: payload does not match the workflow document shape")
)

// SyntaxError reports a payload that could not be parsed. RawText is the
// text after fence stripping, exactly as it was handed to the parser.
type SyntaxError struct {
	RawText string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %v (text: %s)", ErrSyntax, e.Err, utils.TruncateStringDefault(e.RawText))
}

// Unwrap returns both the category sentinel and the parser error, so that
// errors.Is(err, ErrSyntax) and errors.As(err, **json.SyntaxError) both work.
func (e *SyntaxError) Unwrap() []error {
	return []error{ErrSyntax, e.Err}
}

// SchemaRepairError reports a parsed payload that no repair rule could turn
// into a canonical document.
type SchemaRepairError struct {
	RawText string
	Reason  string
}

func (e *SchemaRepairError) Error() string {
	return fmt.Sprintf("%v: %s (text: %s)", ErrSchemaRepair, e.Reason, utils.TruncateStringDefault(e.RawText))
}

func (e *SchemaRepairError) Unwrap() error {
	return ErrSchemaRepair
}

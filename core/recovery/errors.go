package recovery

import (
	"errors"
	"fmt"

	"github.com/leofalp/wfextract/internal/utils"
)

// ErrNoStructuredRegion is wrapped by every [RecoveryError]. Use [errors.Is]
// to detect that a response contained no salvageable object.
var ErrNoStructuredRegion = errors.New("wfextract: no structured region found")

// RecoveryError reports that no strategy could locate a payload. RawText holds
// the full text that was searched, label prefix stripped.
type RecoveryError struct {
	Reason  string
	RawText string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("%v: %s (text: %s)", ErrNoStructuredRegion, e.Reason, utils.TruncateString(e.RawText, 200))
}

func (e *RecoveryError) Unwrap() error {
	return ErrNoStructuredRegion
}

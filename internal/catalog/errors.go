package catalog

import (
	"errors"
	"strings"
)

// ValidationError carries the field-level messages for a rejected write.
// The request is recoverable by client resubmission.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "catalog: validation failed: " + strings.Join(e.Errors, "; ")
}

// AsValidation unwraps err into a ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

package customer

import (
	"errors"
	"fmt"
)

// ErrDuplicateIdentity is returned when an insert collides with an existing
// identity. The caller may treat this as "already registered"; the store is
// left unchanged.
var ErrDuplicateIdentity = errors.New("identity already registered")

// ValidationError reports malformed input rejected before any storage attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

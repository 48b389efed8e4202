package atlas

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError reports a rejected value, such as a non-positive tile size
// or one wider than the atlas.
type ValidationError struct {
	Field string
	Value int
	// Max is the largest accepted value, when there is one.
	Max int
}

func (e *ValidationError) Error() string {
	if e.Max > 0 && e.Value > e.Max {
		return fmt.Sprintf("atlas: invalid %s %d: must be at most %d", e.Field, e.Value, e.Max)
	}
	return fmt.Sprintf("atlas: invalid %s %d: must be positive", e.Field, e.Value)
}

// IsValidationError reports whether err, or anything it wraps, is a
// *ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

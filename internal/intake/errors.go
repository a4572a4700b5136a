package intake

import "fmt"

// ValidationError represents input rejected before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

package export

import "fmt"

// TransformError represents a failure converting resume fields into the
// structured document, including schema violations in the model output.
type TransformError struct {
	Message string
	Cause   error
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transform error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transform error: %s", e.Message)
}

func (e *TransformError) Unwrap() error {
	return e.Cause
}

// RenderError represents a failure producing the HTML rendering of a
// structured document.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// PrintError represents a failure in the browser print step.
type PrintError struct {
	Message string
	Cause   error
}

func (e *PrintError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("print error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("print error: %s", e.Message)
}

func (e *PrintError) Unwrap() error {
	return e.Cause
}

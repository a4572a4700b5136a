package llm

import "fmt"

// CompletionError represents a failed completion call: a transport failure,
// a non-success HTTP status, or a provider-reported error.
type CompletionError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *CompletionError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Cause != nil:
		return fmt.Sprintf("completion failed (status %d): %s: %v", e.StatusCode, e.Message, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("completion failed (status %d): %s", e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("completion failed: %s: %v", e.Message, e.Cause)
	default:
		return fmt.Sprintf("completion failed: %s", e.Message)
	}
}

func (e *CompletionError) Unwrap() error {
	return e.Cause
}

// ParseError represents a response body that decoded but is missing the
// expected field path (choices[0].message.content).
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

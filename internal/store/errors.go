// Package store provides the HTTP client for the resume persistence API.
package store

import "fmt"

// StoreError represents a non-success response from the persistence API.
type StoreError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *StoreError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("store %s failed (status %d): %s", e.Op, e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("store %s failed: %s: %v", e.Op, e.Message, e.Cause)
	default:
		return fmt.Sprintf("store %s failed: %s", e.Op, e.Message)
	}
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NotFoundError represents a lookup the backend reported as failed.
type NotFoundError struct {
	ResumeID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resume %d not found", e.ResumeID)
}

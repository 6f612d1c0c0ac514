package safebrowsing

import (
	"fmt"
)

// The lookup service returned a non-2xx status, or a body which could not be parsed.
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("safe browsing lookup failed (status %d): %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("safe browsing lookup failed (status %d): %s", e.StatusCode, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

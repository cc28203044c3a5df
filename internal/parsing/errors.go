// Package parsing normalizes raw table cells and period labels into typed values.
package parsing

import "fmt"

// ParseError represents a value that could not be interpreted
type ParseError struct {
	Input   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s %q: %v", e.Message, e.Input, e.Cause)
	}
	return fmt.Sprintf("parse error: %s %q", e.Message, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

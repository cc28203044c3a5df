// Package extraction turns the AFIP category tables (live page and historical documents)
// into normalized dataset records.
package extraction

import "fmt"

// ExtractionError represents a failure reading or interpreting a source table
type ExtractionError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error in %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error in %s: %s", e.Source, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// TableNotFoundError is returned when the expected table or its header is missing
type TableNotFoundError struct {
	Message string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table not found: %s", e.Message)
}

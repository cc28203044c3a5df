// Package inflation loads the monthly inflation series and builds deflation indexes from it.
package inflation

import (
	"errors"
	"fmt"
)

var (
	// ErrBasePeriodNotFound is returned when the requested base period is not in the series.
	ErrBasePeriodNotFound = errors.New("base period not found in inflation series")
	// ErrMissingPeriods is returned in strict mode when amounts fall in periods the series lacks.
	ErrMissingPeriods = errors.New("periods missing from inflation series")
	// ErrEmptySeries is returned when the endpoint yields no usable points.
	ErrEmptySeries = errors.New("inflation series is empty")
)

// IndexError represents a failure fetching or decoding the inflation series
type IndexError struct {
	URL     string
	Message string
	Cause   error
}

func (e *IndexError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("inflation index error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("inflation index error for %s: %s", e.URL, e.Message)
}

func (e *IndexError) Unwrap() error {
	return e.Cause
}

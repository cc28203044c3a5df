// Package charts renders the analysis result as PNG charts.
package charts

import "fmt"

// ChartError represents a failure building or saving a chart
type ChartError struct {
	Chart   string
	Message string
	Cause   error
}

func (e *ChartError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("chart error for %s: %s: %v", e.Chart, e.Message, e.Cause)
	}
	return fmt.Sprintf("chart error for %s: %s", e.Chart, e.Message)
}

func (e *ChartError) Unwrap() error {
	return e.Cause
}

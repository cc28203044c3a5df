package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecords is returned when a run extracted nothing usable
	ErrNoRecords = errors.New("no records extracted")
	// ErrHTTPRequestFailed is returned when a source cannot be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
)

// DocumentError describes why one historical document was skipped.
type DocumentError struct {
	Period string
	Stage  string // period, download, extract, build
	Cause  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Period, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Package store persists the aggregated dataset and merges new periods into it.
package store

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned when a merge is attempted with no records.
var ErrEmptyBatch = errors.New("no records to merge")

// StoreError represents a failure reading or writing the dataset file
type StoreError struct {
	Path    string
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("store error for %s: %s", e.Path, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

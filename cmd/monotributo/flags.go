package main

import (
	"fmt"
	"time"
)

func checkDate(flag, value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("--%s must be a YYYY-MM-DD date, got %q", flag, value)
	}
	return nil
}

func checkYearMonth(flag, value string) error {
	if _, err := time.Parse("2006-01", value); err != nil {
		return fmt.Errorf("--%s must be a YYYY-MM month, got %q", flag, value)
	}
	return nil
}

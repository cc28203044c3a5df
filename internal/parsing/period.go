package parsing

import (
	"fmt"
	"strconv"
	"strings"
)

// monthLengths holds day counts for every month except February
var monthLengths = map[int]int{
	1: 31, 3: 31, 4: 30, 5: 31, 6: 30, 7: 31, 8: 31, 9: 30, 10: 31, 11: 30, 12: 31,
}

// IsLeapYear applies the Gregorian rule: divisible by 4, except centuries not divisible by 400.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year, month int) int {
	if days, ok := monthLengths[month]; ok {
		return days
	}
	if IsLeapYear(year) {
		return 29
	}
	return 28
}

// ResolvePeriod converts a "YYYY-MM_YYYY-MM" label into explicit start and end dates.
// The start is the first day of the start month; the end is the last day of the end month.
func ResolvePeriod(period string) (startDate, endDate string, err error) {
	parts := strings.Split(period, "_")
	if len(parts) != 2 {
		return "", "", &ParseError{Input: period, Message: "period must look like YYYY-MM_YYYY-MM"}
	}

	if _, _, err := parseYearMonth(parts[0]); err != nil {
		return "", "", &ParseError{Input: period, Message: "invalid start month", Cause: err}
	}
	year, month, err := parseYearMonth(parts[1])
	if err != nil {
		return "", "", &ParseError{Input: period, Message: "invalid end month", Cause: err}
	}

	startDate = parts[0] + "-01"
	endDate = fmt.Sprintf("%s-%02d", parts[1], LastDayOfMonth(year, month))
	if endDate < startDate {
		return "", "", &ParseError{Input: period, Message: "period ends before it starts"}
	}
	return startDate, endDate, nil
}

// parseYearMonth splits "YYYY-MM" into its numeric parts.
func parseYearMonth(s string) (year, month int, err error) {
	if len(s) != 7 || s[4] != '-' {
		return 0, 0, fmt.Errorf("expected YYYY-MM, got %q", s)
	}
	year, err = strconv.Atoi(s[:4])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	month, err = strconv.Atoi(s[5:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month out of range in %q", s)
	}
	return year, month, nil
}

package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var spanishMonths = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6,
	"julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9, "octubre": 10,
	"noviembre": 11, "diciembre": 12,
}

var (
	// "vigencia desde agosto 2025", "a partir de agosto de 2025", "vigentes a partir del 1 de agosto de 2025"
	validityMonthPattern = regexp.MustCompile(`(?i)(?:vigen\w*|a partir)\D{0,40}?(?:\d{1,2}\s+de\s+)?(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre)(?:\s+de)?\s+(\d{4})`)
	// "a partir del 1/8/2025"
	validityDatePattern = regexp.MustCompile(`(?i)(?:vigen\w*|a partir)\D{0,40}?\d{1,2}/(\d{1,2})/(\d{4})`)
)

// DetectValidityStart scans page text for a validity phrase and returns the first day of
// the month it names, formatted YYYY-MM-DD.
func DetectValidityStart(text string) (string, bool) {
	if m := validityMonthPattern.FindStringSubmatch(text); m != nil {
		month := spanishMonths[strings.ToLower(m[1])]
		year, err := strconv.Atoi(m[2])
		if err == nil && month > 0 {
			return fmt.Sprintf("%04d-%02d-01", year, month), true
		}
	}
	if m := validityDatePattern.FindStringSubmatch(text); m != nil {
		month, errM := strconv.Atoi(m[1])
		year, errY := strconv.Atoi(m[2])
		if errM == nil && errY == nil && month >= 1 && month <= 12 {
			return fmt.Sprintf("%04d-%02d-01", year, month), true
		}
	}
	return "", false
}

package parsing

import (
	"strconv"
	"strings"
)

// placeholders are cell contents that mean "no value"
var placeholders = map[string]bool{
	"":     true,
	"-":    true,
	"None": true,
	"null": true,
}

// amountCleaner strips currency signs, spaces and the thousands separator.
var amountCleaner = strings.NewReplacer("$", "", " ", "", "\u00a0", "", ".", "")

// NormalizeNumber turns a currency cell such as "$ 1.234.567,89" into 1234567.
// The decimal part after the comma is truncated, never rounded. It returns nil for
// empty or placeholder cells and for anything that is not an optionally signed integer
// once cleaned.
func NormalizeNumber(value string) *int64 {
	if placeholders[strings.TrimSpace(value)] {
		return nil
	}

	cleaned := amountCleaner.Replace(value)
	if i := strings.Index(cleaned, ","); i >= 0 {
		cleaned = cleaned[:i]
	}

	digits := strings.TrimLeft(cleaned, "-")
	if digits == "" || !isDigits(digits) {
		return nil
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

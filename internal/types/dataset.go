package types

import "sort"

// Default metadata values for datasets built from the AFIP sources
const (
	DefaultSource    = "AFIP - Monotributo"
	DefaultSourceURL = "https://www.afip.gob.ar/monotributo/montos-y-categorias-anteriores.asp"
)

// Dataset is the persisted aggregate: metadata plus every record.
type Dataset struct {
	Metadata Metadata               `json:"metadata"`
	Data     []CategoryPeriodRecord `json:"data"`
}

// Metadata summarizes the dataset contents.
type Metadata struct {
	Source           string    `json:"source"`
	URL              string    `json:"url"`
	TotalRecords     int       `json:"total_records"`
	TotalPeriods     int       `json:"total_periods"`
	UniqueCategories []string  `json:"unique_categories"`
	DateRange        DateRange `json:"date_range"`
}

// DateRange bounds the dataset's validity dates.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// UniqueCategories returns the sorted set of category letters present in records.
func UniqueCategories(records []CategoryPeriodRecord) []string {
	seen := make(map[string]bool)
	categories := make([]string, 0, len(Categories))
	for _, r := range records {
		if !seen[r.Categoria] {
			seen[r.Categoria] = true
			categories = append(categories, r.Categoria)
		}
	}
	sort.Strings(categories)
	return categories
}

// Periods returns the distinct period keys in first-seen order.
func Periods(records []CategoryPeriodRecord) []PeriodKey {
	seen := make(map[PeriodKey]bool)
	var keys []PeriodKey
	for i := range records {
		key := records[i].Period()
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// DateBounds returns the minimum start date and maximum end date. Dates are ISO
// formatted, so string comparison matches chronological order.
func DateBounds(records []CategoryPeriodRecord) (from, to string) {
	for i, r := range records {
		if i == 0 || r.StartDate < from {
			from = r.StartDate
		}
		if i == 0 || r.EndDate > to {
			to = r.EndDate
		}
	}
	return from, to
}

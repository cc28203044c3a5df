package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/jonathan/monotributo-historico/internal/types"
	"github.com/shopspring/decimal"
)

// Deflator supplies the inflation multiplier for a YYYY-MM month and whether the month is covered.
type Deflator interface {
	Factor(yearMonth string) (decimal.Decimal, bool)
}

// Observation is one category amount in one period.
type Observation struct {
	Categoria string
	Period    string // YYYY-MM of the start date
	StartDate time.Time
	Nominal   decimal.Decimal
	Real      decimal.Decimal
}

// Result holds everything derived from one analysis run.
type Result struct {
	Tipo       string
	Component  Component
	Categories []string                 // sorted
	Periods    []string                 // sorted YYYY-MM
	Series     map[string][]Observation // per category, sorted by start date
	Growth     []Growth                 // per category, in category order
	// MissingPeriods lists months whose amounts were left unadjusted.
	MissingPeriods []string
}

// Analyze filters the dataset by activity type and computes nominal and real amounts of
// the chosen component, plus growth figures per category.
func Analyze(ds *types.Dataset, tipo string, component Component, deflator Deflator) (*Result, error) {
	if tipo != types.ActivityServices && tipo != types.ActivitySales {
		return nil, fmt.Errorf("unknown activity type %q", tipo)
	}

	result := &Result{
		Tipo:      tipo,
		Component: component,
		Series:    make(map[string][]Observation),
	}

	periods := make(map[string]bool)
	missing := make(map[string]bool)
	for i := range ds.Data {
		r := &ds.Data[i]
		if r.TipoActividad != tipo {
			continue
		}
		start, err := time.Parse("2006-01-02", r.StartDate)
		if err != nil {
			return nil, fmt.Errorf("record %s/%s has invalid start_date %q: %w", r.Categoria, r.TipoActividad, r.StartDate, err)
		}

		ym := r.YearMonth()
		nominal := Amount(r, component)
		factor, ok := deflator.Factor(ym)
		if !ok {
			missing[ym] = true
		}

		periods[ym] = true
		result.Series[r.Categoria] = append(result.Series[r.Categoria], Observation{
			Categoria: r.Categoria,
			Period:    ym,
			StartDate: start,
			Nominal:   nominal,
			Real:      Adjust(nominal, factor),
		})
	}

	for cat, obs := range result.Series {
		sort.SliceStable(obs, func(i, j int) bool { return obs[i].StartDate.Before(obs[j].StartDate) })
		result.Categories = append(result.Categories, cat)
	}
	sort.Strings(result.Categories)
	result.Periods = sortedKeys(periods)
	result.MissingPeriods = sortedKeys(missing)

	for _, cat := range result.Categories {
		result.Growth = append(result.Growth, ComputeGrowth(cat, result.Series[cat]))
	}

	return result, nil
}

// FirstPeriod returns the earliest YYYY-MM month with data, or "" when there is none.
func FirstPeriod(ds *types.Dataset, tipo string) string {
	first := ""
	for i := range ds.Data {
		r := &ds.Data[i]
		if r.TipoActividad != tipo {
			continue
		}
		if ym := r.YearMonth(); first == "" || ym < first {
			first = ym
		}
	}
	return first
}

// Adjust multiplies an amount by a deflation factor at full precision; rounding is left
// to display.
func Adjust(amount, factor decimal.Decimal) decimal.Decimal {
	return amount.Mul(factor)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package inflation

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Point is one monthly value of the series.
type Point struct {
	Date      time.Time
	YearMonth string // YYYY-MM of Date
	Value     decimal.Decimal
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// Label renders the point's month the way reports name the base ("enero 2010").
func (p Point) Label() string {
	return fmt.Sprintf("%s %d", monthNames[p.Date.Month()-1], p.Date.Year())
}

// Series is the inflation series ordered by date, with one lookup entry per month.
type Series struct {
	Points  []Point
	byMonth map[string]Point
}

// NewSeries sorts points by date and indexes them by month. When a month appears more
// than once the earliest point wins.
func NewSeries(points []Point) *Series {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	byMonth := make(map[string]Point, len(sorted))
	for i := range sorted {
		if sorted[i].YearMonth == "" {
			sorted[i].YearMonth = sorted[i].Date.Format("2006-01")
		}
		if _, ok := byMonth[sorted[i].YearMonth]; !ok {
			byMonth[sorted[i].YearMonth] = sorted[i]
		}
	}
	return &Series{Points: sorted, byMonth: byMonth}
}

// Len returns the number of points.
func (s *Series) Len() int {
	return len(s.Points)
}

// Lookup returns the point for a YYYY-MM month.
func (s *Series) Lookup(yearMonth string) (Point, bool) {
	p, ok := s.byMonth[yearMonth]
	return p, ok
}

// Range returns the first and last months of the series.
func (s *Series) Range() (first, last string) {
	if len(s.Points) == 0 {
		return "", ""
	}
	return s.Points[0].YearMonth, s.Points[len(s.Points)-1].YearMonth
}

// Base chooses the base point: the requested month when given (it must exist), otherwise
// datasetFirst when the series has it, otherwise the first point of the series.
func (s *Series) Base(requested, datasetFirst string) (Point, error) {
	if len(s.Points) == 0 {
		return Point{}, ErrEmptySeries
	}
	if requested != "" {
		p, ok := s.Lookup(requested)
		if !ok {
			first, last := s.Range()
			return Point{}, fmt.Errorf("%w: %q (available %s to %s)", ErrBasePeriodNotFound, requested, first, last)
		}
		return p, nil
	}
	if p, ok := s.Lookup(datasetFirst); ok {
		return p, nil
	}
	return s.Points[0], nil
}

// Deflator maps each month to base / value: the multiplier that expresses an amount of
// that month in terms of the base month.
type Deflator struct {
	Base    Point
	factors map[string]decimal.Decimal
}

// NewDeflator builds the deflation index of the series relative to base. Months whose
// value is zero have no factor.
func (s *Series) NewDeflator(base Point) *Deflator {
	factors := make(map[string]decimal.Decimal, len(s.byMonth))
	for ym, p := range s.byMonth {
		if p.Value.IsZero() {
			continue
		}
		factors[ym] = base.Value.Div(p.Value)
	}
	return &Deflator{Base: base, factors: factors}
}

// Factor returns the multiplier for a month and whether the series covers it. Uncovered
// months get a multiplier of 1.
func (d *Deflator) Factor(yearMonth string) (decimal.Decimal, bool) {
	f, ok := d.factors[yearMonth]
	if !ok {
		return decimal.NewFromInt(1), false
	}
	return f, true
}

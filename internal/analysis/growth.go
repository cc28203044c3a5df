package analysis

import (
	"math"
	"time"
)

// DaysPerYear converts day spans to years for annualized rates.
const DaysPerYear = 365.25

// Growth compares the first and last observations of a category.
type Growth struct {
	Categoria    string
	FirstDate    time.Time
	LastDate     time.Time
	FirstNominal float64
	LastNominal  float64
	FirstReal    float64
	LastReal     float64
	NominalPct   float64 // NaN when undefined
	RealPct      float64
	NominalCAGR  float64
	RealCAGR     float64
}

// ComputeGrowth derives percentage change and compound annual growth from observations
// sorted by start date.
func ComputeGrowth(categoria string, obs []Observation) Growth {
	g := Growth{
		Categoria:   categoria,
		NominalPct:  math.NaN(),
		RealPct:     math.NaN(),
		NominalCAGR: math.NaN(),
		RealCAGR:    math.NaN(),
	}
	if len(obs) == 0 {
		return g
	}

	first, last := obs[0], obs[len(obs)-1]
	g.FirstDate, g.LastDate = first.StartDate, last.StartDate
	g.FirstNominal, g.LastNominal = first.Nominal.InexactFloat64(), last.Nominal.InexactFloat64()
	g.FirstReal, g.LastReal = first.Real.InexactFloat64(), last.Real.InexactFloat64()

	years := g.LastDate.Sub(g.FirstDate).Hours() / 24 / DaysPerYear
	g.NominalPct = PercentChange(g.FirstNominal, g.LastNominal)
	g.RealPct = PercentChange(g.FirstReal, g.LastReal)
	g.NominalCAGR = CAGR(g.FirstNominal, g.LastNominal, years)
	g.RealCAGR = CAGR(g.FirstReal, g.LastReal, years)
	return g
}

// PercentChange returns (last - first) / first * 100, or NaN when first is zero.
func PercentChange(first, last float64) float64 {
	if first == 0 {
		return math.NaN()
	}
	return (last - first) / first * 100
}

// CAGR returns the compound annual growth rate in percent over years, or NaN when the
// rate is undefined.
func CAGR(first, last, years float64) float64 {
	if first == 0 || years <= 0 {
		return math.NaN()
	}
	rate := math.Pow(last/first, 1/years)
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return math.NaN()
	}
	return (rate - 1) * 100
}

// Verdict classifies a real percentage change.
type Verdict int

const (
	// VerdictUnknown means the change could not be computed
	VerdictUnknown Verdict = iota
	// VerdictLoss is a real decrease
	VerdictLoss
	// VerdictGain is a real increase
	VerdictGain
	// VerdictNoChange means the real value held
	VerdictNoChange
)

// RealVerdict classifies the category's real percentage change.
func (g Growth) RealVerdict() Verdict {
	switch {
	case math.IsNaN(g.RealPct):
		return VerdictUnknown
	case g.RealPct < 0:
		return VerdictLoss
	case g.RealPct > 0:
		return VerdictGain
	default:
		return VerdictNoChange
	}
}

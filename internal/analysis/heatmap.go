package analysis

import "math"

// Matrix is the category by period grid of real amounts. Missing cells are NaN.
type Matrix struct {
	Categories []string
	Periods    []string
	Values     [][]float64 // Values[category][period]
}

// RealMatrix builds the heatmap grid from the result. When a category has more than one
// observation in a month the first one is kept.
func (r *Result) RealMatrix() *Matrix {
	m := &Matrix{Categories: r.Categories, Periods: r.Periods}
	col := make(map[string]int, len(r.Periods))
	for i, p := range r.Periods {
		col[p] = i
	}

	m.Values = make([][]float64, len(r.Categories))
	for i, cat := range r.Categories {
		row := make([]float64, len(r.Periods))
		filled := make([]bool, len(r.Periods))
		for j := range row {
			row[j] = math.NaN()
		}
		for _, o := range r.Series[cat] {
			j := col[o.Period]
			if filled[j] {
				continue
			}
			row[j] = o.Real.InexactFloat64()
			filled[j] = true
		}
		m.Values[i] = row
	}
	return m
}

// Range returns the smallest and largest non-NaN values.
func (m *Matrix) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range m.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

package analysis

import (
	"math"
	"testing"

	"github.com/jonathan/monotributo-historico/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDeflator map[string]string

func (f fixedDeflator) Factor(ym string) (decimal.Decimal, bool) {
	v, ok := f[ym]
	if !ok {
		return decimal.NewFromInt(1), false
	}
	return decimal.RequireFromString(v), true
}

func record(start, cat, tipo string, total int64) types.CategoryPeriodRecord {
	return types.CategoryPeriodRecord{
		StartDate:     start,
		EndDate:       start,
		Categoria:     cat,
		TipoActividad: tipo,
		Total:         types.Int64Ptr(total),
	}
}

func dataset() *types.Dataset {
	return &types.Dataset{Data: []types.CategoryPeriodRecord{
		record("2022-01-01", "B", types.ActivityServices, 400),
		record("2021-01-01", "A", types.ActivityServices, 100),
		record("2022-01-01", "A", types.ActivityServices, 200),
		record("2021-01-01", "B", types.ActivityServices, 300),
		record("2021-01-01", "A", types.ActivitySales, 90),
		record("2023-01-01", "A", types.ActivityServices, 300),
	}}
}

func TestAmount(t *testing.T) {
	r := types.CategoryPeriodRecord{
		ImpuestoIntegrado: types.Int64Ptr(10),
		AporteSIPA:        types.Int64Ptr(20),
	}

	assert.True(t, Amount(&r, ComponentTotal).Equal(decimal.NewFromInt(30)), "total falls back to the sum of parts")
	assert.True(t, Amount(&r, ComponentAporteObraSocial).IsZero())
	assert.True(t, Amount(&r, ComponentAporteSIPA).Equal(decimal.NewFromInt(20)))

	r.Total = types.Int64Ptr(99)
	assert.True(t, Amount(&r, ComponentTotal).Equal(decimal.NewFromInt(99)))
	assert.True(t, Amount(&r, ComponentImpuesto).Equal(decimal.NewFromInt(10)))
}

func TestParseComponent(t *testing.T) {
	c, err := ParseComponent("aporte_sipa")
	require.NoError(t, err)
	assert.Equal(t, ComponentAporteSIPA, c)
	assert.Equal(t, "Aporte SIPA", c.Label())

	_, err = ParseComponent("iva")
	assert.Error(t, err)
}

func TestAnalyze_FiltersSortsAndAdjusts(t *testing.T) {
	deflator := fixedDeflator{"2021-01": "2", "2022-01": "1.5"}

	result, err := Analyze(dataset(), types.ActivityServices, ComponentTotal, deflator)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, result.Categories)
	assert.Equal(t, []string{"2021-01", "2022-01", "2023-01"}, result.Periods)
	assert.Equal(t, []string{"2023-01"}, result.MissingPeriods)

	a := result.Series["A"]
	require.Len(t, a, 3)
	assert.Equal(t, "2021-01", a[0].Period)
	assert.True(t, a[0].Real.Equal(decimal.NewFromInt(200)))
	assert.True(t, a[1].Real.Equal(decimal.NewFromInt(300)))
	// uncovered month keeps the nominal amount
	assert.True(t, a[2].Real.Equal(decimal.NewFromInt(300)))

	require.Len(t, result.Growth, 2)
	growthA := result.Growth[0]
	assert.Equal(t, "A", growthA.Categoria)
	assert.InDelta(t, 200.0, growthA.NominalPct, 1e-9)
	assert.InDelta(t, 50.0, growthA.RealPct, 1e-9)
	assert.Equal(t, VerdictGain, growthA.RealVerdict())
}

func TestAnalyze_RejectsUnknownActivity(t *testing.T) {
	_, err := Analyze(dataset(), "alquileres", ComponentTotal, fixedDeflator{})
	assert.Error(t, err)
}

func TestFirstPeriod(t *testing.T) {
	assert.Equal(t, "2021-01", FirstPeriod(dataset(), types.ActivityServices))
	assert.Equal(t, "", FirstPeriod(&types.Dataset{}, types.ActivitySales))
}

func TestAdjust_KeepsFullPrecision(t *testing.T) {
	got := Adjust(decimal.NewFromInt(1000), decimal.RequireFromString("0.333333"))
	assert.True(t, got.Equal(decimal.RequireFromString("333.333")), got.String())

	// growth is computed from the unrounded real amounts
	a := Adjust(decimal.NewFromInt(100), decimal.RequireFromString("1.00001"))
	b := Adjust(decimal.NewFromInt(100), decimal.RequireFromString("1.00002"))
	assert.False(t, a.Equal(b))
}

func TestRealMatrix(t *testing.T) {
	result, err := Analyze(dataset(), types.ActivityServices, ComponentTotal, fixedDeflator{})
	require.NoError(t, err)

	m := result.RealMatrix()
	require.Len(t, m.Values, 2)
	assert.Equal(t, []float64{100, 200, 300}, m.Values[0])
	assert.Equal(t, 300.0, m.Values[1][0])
	assert.True(t, math.IsNaN(m.Values[1][2]))

	lo, hi := m.Range()
	assert.Equal(t, 100.0, lo)
	assert.Equal(t, 400.0, hi)
}

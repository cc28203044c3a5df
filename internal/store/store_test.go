package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/monotributo-historico/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(start, end, cat, tipo string, total int64) types.CategoryPeriodRecord {
	return types.CategoryPeriodRecord{
		StartDate:     start,
		EndDate:       end,
		Categoria:     cat,
		TipoActividad: tipo,
		Total:         types.Int64Ptr(total),
	}
}

func seeded() *types.Dataset {
	ds := New()
	ds.Metadata.TotalPeriods = 2
	ds.Data = []types.CategoryPeriodRecord{
		rec("2021-01-01", "2021-06-30", "A", types.ActivityServices, 100),
		rec("2021-01-01", "2021-06-30", "B", types.ActivityServices, 200),
		rec("2021-07-01", "2021-12-31", "A", types.ActivityServices, 150),
		rec("2021-07-01", "2021-12-31", "A", types.ActivitySales, 140),
	}
	ds.Metadata.TotalRecords = 4
	ds.Metadata.DateRange = types.DateRange{From: "2021-01-01", To: "2021-12-31"}
	return ds
}

func TestMerge_ReplacesWholePeriod(t *testing.T) {
	ds := seeded()
	batch := []types.CategoryPeriodRecord{
		rec("2021-07-01", "2021-12-31", "A", types.ActivityServices, 175),
	}

	result, err := Merge(ds, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RemovedRecords)
	assert.Equal(t, 1, result.AddedRecords)
	assert.Equal(t, []types.PeriodKey{{StartDate: "2021-07-01", EndDate: "2021-12-31"}}, result.ReplacedPeriods)

	require.Len(t, ds.Data, 3)
	assert.Equal(t, int64(175), *ds.Data[2].Total)
	for _, r := range ds.Data {
		if r.StartDate == "2021-07-01" {
			assert.Equal(t, types.ActivityServices, r.TipoActividad)
		}
	}
}

func TestMerge_IsIdempotent(t *testing.T) {
	batch := []types.CategoryPeriodRecord{
		rec("2022-01-01", "2022-06-30", "A", types.ActivityServices, 300),
		rec("2022-01-01", "2022-06-30", "B", types.ActivityServices, 400),
	}

	once := seeded()
	_, err := Merge(once, batch)
	require.NoError(t, err)

	twice := seeded()
	_, err = Merge(twice, batch)
	require.NoError(t, err)
	_, err = Merge(twice, batch)
	require.NoError(t, err)

	assert.Equal(t, once.Data, twice.Data)
	assert.Equal(t, once.Metadata, twice.Metadata)
}

func TestMerge_MetadataConsistency(t *testing.T) {
	ds := seeded()
	_, err := Merge(ds, []types.CategoryPeriodRecord{
		rec("2025-08-01", "2099-12-31", "K", types.ActivitySales, 999),
		rec("2020-01-01", "2020-12-31", "C", types.ActivityServices, 50),
	})
	require.NoError(t, err)

	assert.Equal(t, len(ds.Data), ds.Metadata.TotalRecords)
	assert.Equal(t, "2099-12-31", ds.Metadata.DateRange.To)
	assert.Equal(t, "2020-01-01", ds.Metadata.DateRange.From)
	assert.Equal(t, []string{"A", "B", "C", "K"}, ds.Metadata.UniqueCategories)
	assert.Equal(t, 4, ds.Metadata.TotalPeriods)
	assert.Empty(t, CheckConsistency(ds))

	// sorted by start date
	for i := 1; i < len(ds.Data); i++ {
		assert.LessOrEqual(t, ds.Data[i-1].StartDate, ds.Data[i].StartDate)
	}
}

func TestMerge_MultiPeriodBatchReplacesEachPeriod(t *testing.T) {
	ds := seeded()
	result, err := Merge(ds, []types.CategoryPeriodRecord{
		rec("2021-01-01", "2021-06-30", "A", types.ActivityServices, 1),
		rec("2021-07-01", "2021-12-31", "A", types.ActivityServices, 2),
	})
	require.NoError(t, err)
	assert.Len(t, result.ReplacedPeriods, 2)
	assert.Equal(t, 4, result.RemovedRecords)
	assert.Len(t, ds.Data, 2)
}

func TestMerge_SameStartDifferentEndIsAnotherPeriod(t *testing.T) {
	ds := seeded()
	result, err := Merge(ds, []types.CategoryPeriodRecord{
		rec("2021-01-01", "2021-03-31", "A", types.ActivityServices, 90),
	})
	require.NoError(t, err)
	assert.Zero(t, result.RemovedRecords)
	assert.Empty(t, result.ReplacedPeriods)

	require.Len(t, ds.Data, 5)
	var kept int
	for _, r := range ds.Data {
		if r.StartDate == "2021-01-01" && r.EndDate == "2021-06-30" {
			kept++
		}
	}
	assert.Equal(t, 2, kept)
	assert.Equal(t, 3, ds.Metadata.TotalPeriods)
}

func TestMerge_Errors(t *testing.T) {
	_, err := Merge(seeded(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = Merge(seeded(), []types.CategoryPeriodRecord{rec("2021-01-01", "2021-06-30", "Z", types.ActivityServices, 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Categoria")
}

func TestSaveLoad_RoundTripPreservesText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "monotributo_historico.json")
	ds := seeded()
	ds.Data[0].EnergiaElectrica = types.StringPtr("Hasta 3330 Kw <año>")

	require.NoError(t, Save(path, ds))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Hasta 3330 Kw <año>")
	assert.True(t, strings.HasPrefix(string(raw), "{\n  \"metadata\""))
	assert.Contains(t, string(raw), `"ingresos_brutos": null`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ds, loaded)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = Load(bad)
	require.ErrorAs(t, err, &storeErr)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestLoadOrNew(t *testing.T) {
	ds, existed, err := LoadOrNew(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, types.DefaultSource, ds.Metadata.Source)
	assert.Empty(t, ds.Data)
}

func TestNewHistorical(t *testing.T) {
	records := []types.CategoryPeriodRecord{
		rec("2024-01-01", "2024-07-31", "B", types.ActivityServices, 10),
		rec("2010-01-01", "2012-06-30", "A", types.ActivityServices, 5),
	}

	ds, err := NewHistorical(records, "", 20)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultSource, ds.Metadata.Source)
	assert.Equal(t, types.DefaultSourceURL, ds.Metadata.URL)
	assert.Equal(t, 2, ds.Metadata.TotalRecords)
	assert.Equal(t, 20, ds.Metadata.TotalPeriods)
	assert.Equal(t, []string{"A", "B"}, ds.Metadata.UniqueCategories)
	assert.Equal(t, types.DateRange{From: "2010-01-01", To: "2024-07-31"}, ds.Metadata.DateRange)

	_, err = NewHistorical(nil, "", 20)
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestCheckConsistency(t *testing.T) {
	ds := seeded()
	ds.Metadata.TotalRecords = 99
	ds.Metadata.DateRange.To = "2020-01-01"

	problems := CheckConsistency(ds)
	assert.Len(t, problems, 2)
}

package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/monotributo-historico/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(start, end, cat, tipo string, total int64) types.CategoryPeriodRecord {
	return types.CategoryPeriodRecord{
		StartDate:     start,
		EndDate:       end,
		Categoria:     cat,
		TipoActividad: tipo,
		Total:         types.Int64Ptr(total),
	}
}

func TestDeletePeriodQuery(t *testing.T) {
	query, args, err := DeletePeriodQuery(types.PeriodKey{StartDate: "2025-02-01", EndDate: "2025-07-31"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "DELETE FROM monotributo_records WHERE"))
	assert.Contains(t, query, "start_date = $")
	assert.Contains(t, query, "end_date = $")
	require.Len(t, args, 2)
	assert.Contains(t, args, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, args, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC))
}

func TestDeletePeriodQuery_InvalidDate(t *testing.T) {
	_, _, err := DeletePeriodQuery(types.PeriodKey{StartDate: "01/02/2025", EndDate: "2025-07-31"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid start date")
}

func TestInsertRecordsQuery(t *testing.T) {
	batchID := uuid.New()
	records := []types.CategoryPeriodRecord{
		record("2025-02-01", "2025-07-31", "A", types.ActivityServices, 32221),
		record("2025-02-01", "2025-07-31", "A", types.ActivitySales, 32221),
	}

	query, args, err := InsertRecordsQuery(batchID, records)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO monotributo_records (batch_id,start_date,end_date,categoria"))
	assert.Contains(t, query, "$28")
	assert.NotContains(t, query, "$29")
	require.Len(t, args, 2*len(recordColumns))
	assert.Equal(t, batchID, args[0])
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), args[1])
	assert.Equal(t, "A", args[3])
	assert.Equal(t, types.ActivitySales, args[len(recordColumns)+4])
}

func TestInsertRecordsQuery_Errors(t *testing.T) {
	_, _, err := InsertRecordsQuery(uuid.New(), nil)
	assert.Error(t, err)

	_, _, err = InsertRecordsQuery(uuid.New(), []types.CategoryPeriodRecord{
		record("2025-02-01", "31/07/2025", "A", types.ActivityServices, 1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid end date")
}

func TestSelectPeriodQuery(t *testing.T) {
	query, args, err := SelectPeriodQuery(types.PeriodKey{StartDate: "2025-08-01", EndDate: "2099-12-31"})
	require.NoError(t, err)

	assert.Contains(t, query, "to_char(start_date, 'YYYY-MM-DD')")
	assert.Contains(t, query, "FROM monotributo_records")
	assert.Contains(t, query, "ORDER BY categoria ASC, tipo_actividad ASC")
	assert.Len(t, args, 2)
}

func TestCountQuery(t *testing.T) {
	query, args, err := CountQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM monotributo_records", query)
	assert.Empty(t, args)
}

func TestSchemaStatements(t *testing.T) {
	require.NotEmpty(t, schemaStatements)
	assert.Contains(t, schemaStatements[0], "CREATE TABLE IF NOT EXISTS monotributo_records")
	for _, col := range recordColumns {
		assert.Contains(t, schemaStatements[0], col)
	}
}

func TestGroupByPeriod(t *testing.T) {
	records := []types.CategoryPeriodRecord{
		record("2025-02-01", "2025-07-31", "A", types.ActivityServices, 1),
		record("2024-08-01", "2025-01-31", "A", types.ActivityServices, 2),
		record("2025-02-01", "2025-07-31", "B", types.ActivityServices, 3),
	}

	groups := GroupByPeriod(records)
	require.Len(t, groups, 2)
	assert.Equal(t, "2025-02-01_2025-07-31", groups[0].Key.String())
	assert.Len(t, groups[0].Records, 2)
	assert.Equal(t, "B", groups[0].Records[1].Categoria)
	assert.Equal(t, "2024-08-01", groups[1].Key.StartDate)

	assert.Empty(t, GroupByPeriod(nil))
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoDatabaseURL)
}

func TestSyncDataset_RejectsEmptyDataset(t *testing.T) {
	_, err := SyncDataset(context.Background(), "postgres://localhost/none", &types.Dataset{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no records")
}

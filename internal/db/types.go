package db

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/monotributo-historico/internal/types"
)

// ErrNoDatabaseURL is returned when no connection string is configured.
var ErrNoDatabaseURL = errors.New("database URL is not set")

// SyncResult summarizes a ReplacePeriods call.
type SyncResult struct {
	BatchID  uuid.UUID
	Periods  []types.PeriodKey
	Deleted  int64
	Inserted int64
}

// Row is a mirrored record with its sync bookkeeping.
type Row struct {
	BatchID  uuid.UUID
	Record   types.CategoryPeriodRecord
	SyncedAt time.Time
}

// PeriodGroup holds the records of one period in input order.
type PeriodGroup struct {
	Key     types.PeriodKey
	Records []types.CategoryPeriodRecord
}

// GroupByPeriod splits records by period, keeping the order periods first appear in.
func GroupByPeriod(records []types.CategoryPeriodRecord) []PeriodGroup {
	index := make(map[types.PeriodKey]int)
	var groups []PeriodGroup
	for _, r := range records {
		key := r.Period()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, PeriodGroup{Key: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

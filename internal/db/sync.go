package db

import (
	"context"
	"fmt"

	"github.com/jonathan/monotributo-historico/internal/types"
)

// SyncDataset connects to databaseURL, creates the table if needed and replaces every
// period present in the dataset.
func SyncDataset(ctx context.Context, databaseURL string, ds *types.Dataset) (*SyncResult, error) {
	if ds == nil || len(ds.Data) == 0 {
		return nil, fmt.Errorf("dataset has no records to sync")
	}

	database, err := Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return database.ReplacePeriods(ctx, ds.Data)
}

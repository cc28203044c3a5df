package main

import (
	"fmt"
	"os"

	"github.com/jonathan/monotributo-historico/internal/db"
	"github.com/jonathan/monotributo-historico/internal/logging"
	"github.com/jonathan/monotributo-historico/internal/store"
	"github.com/spf13/cobra"
)

var syncDBCmd = &cobra.Command{
	Use:   "sync-db",
	Short: "Mirror the store into PostgreSQL",
	Long:  "Creates the monotributo_records table if needed and replaces every period of the store in it, one transaction per period.",
	Args:  cobra.NoArgs,
	RunE:  runSyncDB,
}

var (
	syncStore       string
	syncDatabaseURL string
)

func init() {
	syncDBCmd.Flags().StringVar(&syncStore, "store", "", "Store file (defaults to store_path)")
	syncDBCmd.Flags().StringVar(&syncDatabaseURL, "database-url", "", "PostgreSQL connection string (defaults to database_url)")

	rootCmd.AddCommand(syncDBCmd)
}

func runSyncDB(cmd *cobra.Command, _ []string) error {
	databaseURL := orDefault(syncDatabaseURL, cfg.DatabaseURL)
	if databaseURL == "" {
		return fmt.Errorf("--database-url or MONOTRIBUTO_DATABASE_URL is required")
	}
	storePath := orDefault(syncStore, cfg.StorePath)
	log := logging.ForRun("sync-db")

	ds, err := store.Load(storePath)
	if err != nil {
		return err
	}

	result, err := db.SyncDataset(cmd.Context(), databaseURL, ds)
	if err != nil {
		return err
	}
	log.WithField("batch_id", result.BatchID).Infof("mirrored %d period(s)", len(result.Periods))

	fmt.Fprintf(os.Stdout, "Synced %d record(s) in %d period(s), replaced %d row(s) (batch %s)\n",
		result.Inserted, len(result.Periods), result.Deleted, result.BatchID)
	return nil
}

// Command sync_postgres mirrors the monotributo store into PostgreSQL.
//
// Every period in the store replaces the rows of the same period in the
// monotributo_records table, one transaction per period.
//
// Usage:
//
//	go run cmd/tools/sync_postgres/main.go [store.json]
//
// Requires DATABASE_URL (or MONOTRIBUTO_DATABASE_URL) environment variable to be set.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/monotributo-historico/internal/config"
	"github.com/jonathan/monotributo-historico/internal/db"
	"github.com/jonathan/monotributo-historico/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.DatabaseURL
	}
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	storePath := cfg.StorePath
	if len(os.Args) > 1 {
		storePath = os.Args[1]
	}

	ctx := context.Background()

	fmt.Println("=== Monotributo PostgreSQL Sync ===")
	fmt.Println()

	ds, err := store.Load(storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load store: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d record(s) from %s\n\n", len(ds.Data), storePath)

	database, err := db.Connect(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	synced := 0
	failed := 0
	var inserted, deleted int64
	for _, group := range db.GroupByPeriod(ds.Data) {
		result, err := database.ReplacePeriods(ctx, group.Records)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", group.Key, err)
			failed++
			continue
		}
		fmt.Printf("  ✓ %s: %d row(s) replaced by %d\n", group.Key, result.Deleted, result.Inserted)
		inserted += result.Inserted
		deleted += result.Deleted
		synced++
	}

	total, err := database.CountRecords(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to count records: %v\n", err)
	}

	fmt.Println()
	fmt.Println("=== Sync Summary ===")
	fmt.Printf("  Periods synced: %d\n", synced)
	fmt.Printf("  Periods failed: %d\n", failed)
	fmt.Printf("  Rows deleted: %d\n", deleted)
	fmt.Printf("  Rows inserted: %d\n", inserted)
	fmt.Printf("  Rows in table: %d\n", total)

	if failed > 0 {
		os.Exit(1)
	}
}

// Package db mirrors the monotributo dataset into PostgreSQL.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/monotributo-historico/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	if databaseURL == "" {
		return nil, ErrNoDatabaseURL
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the records table and its indexes when missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// ReplacePeriods mirrors records into the table. Every period present in records is
// replaced in its own transaction: its existing rows are deleted and the new ones
// inserted, so a failure leaves earlier periods committed and the failing one untouched.
func (db *DB) ReplacePeriods(ctx context.Context, records []types.CategoryPeriodRecord) (*SyncResult, error) {
	result := &SyncResult{BatchID: uuid.New()}
	if len(records) == 0 {
		return result, nil
	}

	for _, group := range GroupByPeriod(records) {
		deleted, err := db.replacePeriod(ctx, result.BatchID, group)
		if err != nil {
			return result, err
		}
		result.Periods = append(result.Periods, group.Key)
		result.Deleted += deleted
		result.Inserted += int64(len(group.Records))
	}

	return result, nil
}

func (db *DB) replacePeriod(ctx context.Context, batchID uuid.UUID, group PeriodGroup) (int64, error) {
	deleteSQL, deleteArgs, err := DeletePeriodQuery(group.Key)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}
	insertSQL, insertArgs, err := InsertRecordsQuery(batchID, group.Records)
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, deleteSQL, deleteArgs...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete period %s: %w", group.Key, err)
	}
	if _, err := tx.Exec(ctx, insertSQL, insertArgs...); err != nil {
		return 0, fmt.Errorf("failed to insert period %s: %w", group.Key, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit period %s: %w", group.Key, err)
	}
	return tag.RowsAffected(), nil
}

// CountRecords returns the number of mirrored rows.
func (db *DB) CountRecords(ctx context.Context) (int64, error) {
	query, args, err := CountQuery()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var count int64
	if err := db.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// ListPeriod returns the mirrored rows of one period ordered by category and activity.
func (db *DB) ListPeriod(ctx context.Context, key types.PeriodKey) ([]Row, error) {
	query, args, err := SelectPeriodQuery(key)
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list period %s: %w", key, err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var r Row
		rec := &r.Record
		if err := rows.Scan(
			&r.BatchID, &rec.StartDate, &rec.EndDate, &rec.Categoria, &rec.TipoActividad,
			&rec.IngresosBrutos, &rec.SuperficieAfectada, &rec.EnergiaElectrica,
			&rec.AlquileresDevengados, &rec.PrecioUnitarioMaximo, &rec.ImpuestoIntegrado,
			&rec.AporteSIPA, &rec.AporteObraSocial, &rec.Total, &r.SyncedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return result, nil
}

package db

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jonathan/monotributo-historico/internal/types"
)

// RecordsTable is the mirror table name.
const RecordsTable = "monotributo_records"

const dateLayout = "2006-01-02"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + RecordsTable + ` (
		id                     BIGSERIAL PRIMARY KEY,
		batch_id               UUID        NOT NULL,
		start_date             DATE        NOT NULL,
		end_date               DATE        NOT NULL,
		categoria              CHAR(1)     NOT NULL,
		tipo_actividad         TEXT        NOT NULL CHECK (tipo_actividad IN ('servicios', 'ventas')),
		ingresos_brutos        BIGINT,
		superficie_afectada    TEXT,
		energia_electrica      TEXT,
		alquileres_devengados  BIGINT,
		precio_unitario_maximo BIGINT,
		impuesto_integrado     BIGINT,
		aporte_sipa            BIGINT,
		aporte_obra_social     BIGINT,
		total                  BIGINT,
		synced_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_` + RecordsTable + `_period ON ` + RecordsTable + ` (start_date, end_date)`,
}

var recordColumns = []string{
	"batch_id", "start_date", "end_date", "categoria", "tipo_actividad",
	"ingresos_brutos", "superficie_afectada", "energia_electrica",
	"alquileres_devengados", "precio_unitario_maximo", "impuesto_integrado",
	"aporte_sipa", "aporte_obra_social", "total",
}

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func periodFilter(key types.PeriodKey) (squirrel.Eq, error) {
	start, err := time.Parse(dateLayout, key.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", key.StartDate, err)
	}
	end, err := time.Parse(dateLayout, key.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", key.EndDate, err)
	}
	return squirrel.Eq{"start_date": start, "end_date": end}, nil
}

// DeletePeriodQuery builds the statement removing every row of a period.
func DeletePeriodQuery(key types.PeriodKey) (string, []interface{}, error) {
	filter, err := periodFilter(key)
	if err != nil {
		return "", nil, err
	}
	return psql().Delete(RecordsTable).Where(filter).ToSql()
}

// InsertRecordsQuery builds one multi-row insert for records, tagged with batchID.
func InsertRecordsQuery(batchID uuid.UUID, records []types.CategoryPeriodRecord) (string, []interface{}, error) {
	if len(records) == 0 {
		return "", nil, fmt.Errorf("no records to insert")
	}

	insert := psql().Insert(RecordsTable).Columns(recordColumns...)
	for _, r := range records {
		start, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return "", nil, fmt.Errorf("invalid start date %q: %w", r.StartDate, err)
		}
		end, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return "", nil, fmt.Errorf("invalid end date %q: %w", r.EndDate, err)
		}
		insert = insert.Values(
			batchID, start, end, r.Categoria, r.TipoActividad,
			r.IngresosBrutos, r.SuperficieAfectada, r.EnergiaElectrica,
			r.AlquileresDevengados, r.PrecioUnitarioMaximo, r.ImpuestoIntegrado,
			r.AporteSIPA, r.AporteObraSocial, r.Total,
		)
	}
	return insert.ToSql()
}

// SelectPeriodQuery builds the query listing one period's rows.
func SelectPeriodQuery(key types.PeriodKey) (string, []interface{}, error) {
	filter, err := periodFilter(key)
	if err != nil {
		return "", nil, err
	}
	return psql().
		Select(
			"batch_id",
			"to_char(start_date, 'YYYY-MM-DD')",
			"to_char(end_date, 'YYYY-MM-DD')",
			"categoria", "tipo_actividad",
			"ingresos_brutos", "superficie_afectada", "energia_electrica",
			"alquileres_devengados", "precio_unitario_maximo", "impuesto_integrado",
			"aporte_sipa", "aporte_obra_social", "total", "synced_at",
		).
		From(RecordsTable).
		Where(filter).
		OrderBy("categoria ASC", "tipo_actividad ASC").
		ToSql()
}

// CountQuery builds the query counting mirrored rows.
func CountQuery() (string, []interface{}, error) {
	return psql().Select("COUNT(*)").From(RecordsTable).ToSql()
}

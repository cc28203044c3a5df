package extraction

import (
	"fmt"

	"github.com/jonathan/monotributo-historico/internal/types"
)

// BuildRecords expands category rows into dataset records for the given period. Each
// row yields a servicios record when its service total is present and a ventas record
// when the sales total is present and differs from the service total.
func BuildRecords(rows []CategoryRow, startDate, endDate string) ([]types.CategoryPeriodRecord, error) {
	var records []types.CategoryPeriodRecord
	for _, row := range rows {
		if row.TotalServicios != nil {
			records = append(records, row.record(startDate, endDate, types.ActivityServices, row.ImpuestoServicios, row.TotalServicios))
		}
		if row.TotalVentas != nil && !sameAmount(row.TotalVentas, row.TotalServicios) {
			records = append(records, row.record(startDate, endDate, types.ActivitySales, row.ImpuestoVentas, row.TotalVentas))
		}
	}

	for i := range records {
		if err := types.ValidateRecord(&records[i]); err != nil {
			return nil, &ExtractionError{
				Source:  fmt.Sprintf("period %s_%s", startDate, endDate),
				Message: "built an invalid record",
				Cause:   err,
			}
		}
	}
	return records, nil
}

func (r CategoryRow) record(startDate, endDate, tipo string, impuesto, total *int64) types.CategoryPeriodRecord {
	return types.CategoryPeriodRecord{
		StartDate:            startDate,
		EndDate:              endDate,
		Categoria:            r.Categoria,
		TipoActividad:        tipo,
		IngresosBrutos:       r.IngresosBrutos,
		SuperficieAfectada:   r.SuperficieAfectada,
		EnergiaElectrica:     r.EnergiaElectrica,
		AlquileresDevengados: r.AlquileresDevengados,
		PrecioUnitarioMaximo: r.PrecioUnitarioMaximo,
		ImpuestoIntegrado:    impuesto,
		AporteSIPA:           r.AporteSIPA,
		AporteObraSocial:     r.AporteObraSocial,
		Total:                total,
	}
}

func sameAmount(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Package types provides type definitions for the monotributo dataset shared across packages.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Activity types a category amount applies to
const (
	ActivityServices = "servicios"
	ActivitySales    = "ventas"
)

// Categories lists the monotributo brackets in ascending order.
var Categories = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}

// IsCategory reports whether s is one of the known category letters.
func IsCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

// CategoryPeriodRecord is one row of the dataset: the amounts in force for a category
// and activity type during a period.
type CategoryPeriodRecord struct {
	StartDate            string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Categoria            string  `json:"categoria" validate:"required,oneof=A B C D E F G H I J K"`
	TipoActividad        string  `json:"tipo_actividad" validate:"required,oneof=servicios ventas"`
	IngresosBrutos       *int64  `json:"ingresos_brutos"`
	SuperficieAfectada   *string `json:"superficie_afectada"`
	EnergiaElectrica     *string `json:"energia_electrica"`
	AlquileresDevengados *int64  `json:"alquileres_devengados"`
	PrecioUnitarioMaximo *int64  `json:"precio_unitario_maximo"`
	ImpuestoIntegrado    *int64  `json:"impuesto_integrado"`
	AporteSIPA           *int64  `json:"aporte_sipa"`
	AporteObraSocial     *int64  `json:"aporte_obra_social"`
	Total                *int64  `json:"total"`
}

// PeriodKey identifies the validity period a record belongs to.
type PeriodKey struct {
	StartDate string
	EndDate   string
}

// String renders the key the way it appears in logs ("start_end").
func (k PeriodKey) String() string {
	return k.StartDate + "_" + k.EndDate
}

// Period returns the record's period key.
func (r *CategoryPeriodRecord) Period() PeriodKey {
	return PeriodKey{StartDate: r.StartDate, EndDate: r.EndDate}
}

// YearMonth returns the YYYY-MM prefix of the start date, used to join against monthly series.
func (r *CategoryPeriodRecord) YearMonth() string {
	if len(r.StartDate) < 7 {
		return r.StartDate
	}
	return r.StartDate[:7]
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

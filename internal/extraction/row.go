package extraction

// CategoryRow holds the values read from one category row of a source table, before
// they are split into per-activity records.
type CategoryRow struct {
	Categoria            string
	IngresosBrutos       *int64
	SuperficieAfectada   *string
	EnergiaElectrica     *string
	AlquileresDevengados *int64
	PrecioUnitarioMaximo *int64
	ImpuestoServicios    *int64
	ImpuestoVentas       *int64
	AporteSIPA           *int64
	AporteObraSocial     *int64
	TotalServicios       *int64
	TotalVentas          *int64
}

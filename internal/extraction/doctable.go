package extraction

import (
	"strings"

	"github.com/jonathan/monotributo-historico/internal/parsing"
	"github.com/jonathan/monotributo-historico/internal/types"
)

// MinDocumentTableRows is the smallest table worth classifying.
const MinDocumentTableRows = 3

// Numeric layouts found at the right edge of document rows
const (
	fullNumericLayout    = 6 // impuesto servicios/ventas, SIPA, obra social, total servicios/ventas
	compactNumericLayout = 4 // SIPA, obra social, total servicios/ventas
)

// DocumentLayout reports which numeric layout was used for a row.
type DocumentLayout int

const (
	// LayoutNone means too few numbers were found to read totals
	LayoutNone DocumentLayout = iota
	// LayoutFull is the six-number layout with split taxes
	LayoutFull
	// LayoutCompact is the four-number layout without the tax columns
	LayoutCompact
)

// DocumentTable is the classification result for one document table.
type DocumentTable struct {
	Rows []CategoryRow
	// CompactRows counts rows read with the four-number fallback, whose column meaning
	// could not be confirmed.
	CompactRows int
}

// ParseDocumentTable classifies the rows of a table extracted from a historical document.
// Rows whose first cell is a category letter are data rows; every field is located by
// position or by content since column order is only mostly stable across years.
func ParseDocumentTable(table [][]string) DocumentTable {
	var result DocumentTable
	if len(table) < MinDocumentTableRows {
		return result
	}

	for _, row := range table {
		if len(row) == 0 {
			continue
		}
		categoria := strings.TrimSpace(row[0])
		if !types.IsCategory(categoria) {
			continue
		}

		values := make([]string, len(row))
		for i, cell := range row {
			values[i] = strings.TrimSpace(cell)
		}

		parsed, layout := classifyDocumentRow(categoria, values)
		if layout == LayoutCompact {
			result.CompactRows++
		}
		result.Rows = append(result.Rows, parsed)
	}

	return result
}

func classifyDocumentRow(categoria string, values []string) (CategoryRow, DocumentLayout) {
	row := CategoryRow{Categoria: categoria}

	if len(values) > 1 {
		row.IngresosBrutos = parsing.NormalizeNumber(values[1])
	}

	// unit-qualified thresholds live somewhere in the middle columns
	for _, val := range sliceRange(values, 2, 8) {
		switch {
		case strings.Contains(val, "m2") || strings.Contains(val, "M2"):
			row.SuperficieAfectada = textValue(val)
		case strings.Contains(val, "Kw") || strings.Contains(val, "KW") || strings.Contains(val, "kw"):
			row.EnergiaElectrica = textValue(val)
		}
	}

	// rent and unit price are the first two non-zero numbers after the thresholds
	for idx := 4; idx < min(len(values), 8); idx++ {
		val := parsing.NormalizeNumber(values[idx])
		if val == nil || *val == 0 {
			continue
		}
		if row.AlquileresDevengados == nil {
			row.AlquileresDevengados = val
		} else {
			row.PrecioUnitarioMaximo = val
			break
		}
	}

	numbers := trailingNumbers(values, fullNumericLayout)
	switch {
	case len(numbers) >= fullNumericLayout:
		row.ImpuestoServicios = numbers[0]
		row.ImpuestoVentas = numbers[1]
		row.AporteSIPA = numbers[2]
		row.AporteObraSocial = numbers[3]
		row.TotalServicios = numbers[4]
		row.TotalVentas = numbers[5]
		return row, LayoutFull
	case len(numbers) >= compactNumericLayout:
		row.AporteSIPA = numbers[0]
		row.AporteObraSocial = numbers[1]
		row.TotalServicios = numbers[2]
		row.TotalVentas = numbers[3]
		return row, LayoutCompact
	default:
		return row, LayoutNone
	}
}

// trailingNumbers collects up to limit parseable numbers scanning from the right and
// returns them in left-to-right order.
func trailingNumbers(values []string, limit int) []*int64 {
	var found []*int64
	for idx := len(values) - 1; idx >= 0 && len(found) < limit; idx-- {
		if val := parsing.NormalizeNumber(values[idx]); val != nil {
			found = append(found, val)
		}
	}
	for i, j := 0, len(found)-1; i < j; i, j = i+1, j-1 {
		found[i], found[j] = found[j], found[i]
	}
	return found
}

func sliceRange(values []string, from, to int) []string {
	if from >= len(values) {
		return nil
	}
	return values[from:min(to, len(values))]
}

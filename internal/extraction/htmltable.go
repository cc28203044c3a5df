package extraction

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/monotributo-historico/internal/parsing"
	"github.com/jonathan/monotributo-historico/internal/types"
)

// CurrentTableCells is the number of data cells in a row of the live categories table.
const CurrentTableCells = 11

// Positions of the data cells in a live table row
const (
	cellIngresos = iota
	cellSuperficie
	cellEnergia
	cellAlquileres
	cellPrecio
	cellImpuestoServicios
	cellImpuestoVentas
	cellSIPA
	cellObraSocial
	cellTotalServicios
	cellTotalVentas
)

// ParseCurrentTable reads the first table of the live categories page. The header row is
// the first one mentioning "Categ"; data starts after the sub-header that follows it. Rows
// with exactly 11 cells are assigned categories A..K in order.
func ParseCurrentTable(html string) ([]CategoryRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ExtractionError{Source: "current page", Message: "failed to parse HTML", Cause: err}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &TableNotFoundError{Message: "no table on the categories page"}
	}

	rows := table.Find("tr")
	dataStart := -1
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		found := false
		row.Find("td, th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			if strings.Contains(cellText(cell), "Categ") {
				found = true
				return false
			}
			return true
		})
		if found {
			dataStart = i + 2 // skip header and sub-header
			return false
		}
		return true
	})
	if dataStart < 0 {
		return nil, &TableNotFoundError{Message: "no header row containing \"Categ\""}
	}

	var result []CategoryRow
	rows.Slice(min(dataStart, rows.Length()), rows.Length()).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() != CurrentTableCells {
			return true
		}
		if len(result) >= len(types.Categories) {
			return false
		}

		values := make([]string, 0, CurrentTableCells)
		cells.Each(func(_ int, cell *goquery.Selection) {
			values = append(values, cellText(cell))
		})

		result = append(result, CategoryRow{
			Categoria:            types.Categories[len(result)],
			IngresosBrutos:       parsing.NormalizeNumber(values[cellIngresos]),
			SuperficieAfectada:   textValue(values[cellSuperficie]),
			EnergiaElectrica:     textValue(values[cellEnergia]),
			AlquileresDevengados: parsing.NormalizeNumber(values[cellAlquileres]),
			PrecioUnitarioMaximo: parsing.NormalizeNumber(values[cellPrecio]),
			ImpuestoServicios:    parsing.NormalizeNumber(values[cellImpuestoServicios]),
			ImpuestoVentas:       parsing.NormalizeNumber(values[cellImpuestoVentas]),
			AporteSIPA:           parsing.NormalizeNumber(values[cellSIPA]),
			AporteObraSocial:     parsing.NormalizeNumber(values[cellObraSocial]),
			TotalServicios:       parsing.NormalizeNumber(values[cellTotalServicios]),
			TotalVentas:          parsing.NormalizeNumber(values[cellTotalVentas]),
		})
		return true
	})

	return result, nil
}

// HasTable reports whether html contains at least one table element.
func HasTable(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find("table").Length() > 0
}

// cellText joins the cell's text nodes, each trimmed, with nothing in between, so markup
// such as "<span>$</span>\n<span>1.000</span>" reads as "$1.000".
func cellText(cell *goquery.Selection) string {
	var b strings.Builder
	appendText(&b, cell)
	return b.String()
}

func appendText(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, node *goquery.Selection) {
		switch goquery.NodeName(node) {
		case "#text":
			b.WriteString(strings.TrimSpace(node.Text()))
		case "#comment", "script", "style":
		default:
			appendText(b, node)
		}
	})
}

// textValue keeps free-text thresholds as they appear, dropping empty cells.
func textValue(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

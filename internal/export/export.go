// Package export writes the analysis summary as a spreadsheet.
package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/jonathan/monotributo-historico/internal/analysis"
	"github.com/xuri/excelize/v2"
)

// Sheet names
const (
	SummarySheet = "Resumen"
	SeriesSheet  = "Serie"
)

var summaryHeaders = []string{
	"Categoría", "Fecha inicial", "Fecha final",
	"Inicial", "Final", "Inc% Nominal",
	"Real inicial", "Real final", "Inc% Real",
	"CAGR Nominal (%)", "CAGR Real (%)",
}

var seriesHeaders = []string{"Categoría", "Período", "Fecha inicio", "Nominal", "Real"}

// FileName returns the workbook name for an activity type and component.
func FileName(tipo string, component analysis.Component) string {
	return fmt.Sprintf("monotributo_%s_%s_resumen.xlsx", tipo, component)
}

// WriteSummary saves a workbook with the growth summary and the full observation series.
// Undefined growth figures are left blank.
func WriteSummary(result *analysis.Result, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeHeaders(f, SummarySheet, summaryHeaders); err != nil {
		return err
	}
	for i, g := range result.Growth {
		row := i + 2
		values := []interface{}{
			g.Categoria, g.FirstDate.Format("2006-01-02"), g.LastDate.Format("2006-01-02"),
			g.FirstNominal, g.LastNominal, optional(g.NominalPct),
			g.FirstReal, g.LastReal, optional(g.RealPct),
			optional(g.NominalCAGR), optional(g.RealCAGR),
		}
		if err := writeRow(f, SummarySheet, row, values); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SeriesSheet); err != nil {
		return fmt.Errorf("failed to create series sheet: %w", err)
	}
	if err := writeHeaders(f, SeriesSheet, seriesHeaders); err != nil {
		return err
	}
	row := 2
	for _, cat := range result.Categories {
		for _, o := range result.Series[cat] {
			values := []interface{}{
				o.Categoria, o.Period, o.StartDate.Format("2006-01-02"),
				o.Nominal.InexactFloat64(), o.Real.InexactFloat64(),
			}
			if err := writeRow(f, SeriesSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", header, err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, 16); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// optional maps undefined figures to nil so the cell stays empty.
func optional(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return math.Round(v*100) / 100
}

// Package observability provides formatted console output for the CLI commands.
package observability

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonathan/monotributo-historico/internal/analysis"
	"github.com/jonathan/monotributo-historico/internal/store"
	"github.com/jonathan/monotributo-historico/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 80
	// notAvailable is printed for undefined figures
	notAvailable = "N/A"
)

// Printer handles formatted output for the commands
type Printer struct {
	out     io.Writer
	heading lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer. Styles degrade to
// plain text when the writer is not a color terminal.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")),
		good:    r.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		bad:     r.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
	}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s%s │\n", p.heading.Render(title), strings.Repeat(" ", max(0, boxWidth-4-len([]rune(title)))))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		runes := []rune(line)
		if len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// Heading prints a section title.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Heading(title string) {
	rule := strings.Repeat("=", boxWidth)
	fmt.Fprintf(p.out, "\n%s\n%s\n%s\n", rule, p.heading.Render(title), rule)
}

// PrintMerge summarizes a merge into the store.
func (p *Printer) PrintMerge(period string, added int, result *store.MergeResult, ds *types.Dataset) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Período:             %s\n", period))
	sb.WriteString(fmt.Sprintf("Registros extraídos: %d\n", added))
	if result != nil && len(result.ReplacedPeriods) > 0 {
		sb.WriteString(fmt.Sprintf("Reemplazados:        %d registro(s) de %d período(s)\n", result.RemovedRecords, len(result.ReplacedPeriods)))
	}
	sb.WriteString(fmt.Sprintf("Total de registros:  %d\n", ds.Metadata.TotalRecords))
	sb.WriteString(fmt.Sprintf("Rango de fechas:     %s → %s\n", ds.Metadata.DateRange.From, ds.Metadata.DateRange.To))
	p.printBox("Archivo histórico actualizado", sb.String())
}

// DocumentOutcome is the result of processing one historical document.
type DocumentOutcome struct {
	Period  string
	File    string
	Records int
	Err     error
}

// PrintHistory summarizes a historical run.
func (p *Printer) PrintHistory(outcomes []DocumentOutcome, ds *types.Dataset) {
	var sb strings.Builder
	for _, o := range outcomes {
		if o.Err != nil {
			sb.WriteString(fmt.Sprintf("✗ %s  %s\n", o.Period, o.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s  %d registro(s)\n", o.Period, o.Records))
	}
	if ds != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Total de registros:  %d\n", ds.Metadata.TotalRecords))
		sb.WriteString(fmt.Sprintf("Categorías únicas:   %d\n", len(ds.Metadata.UniqueCategories)))
		sb.WriteString(fmt.Sprintf("Rango de fechas:     %s → %s\n", ds.Metadata.DateRange.From, ds.Metadata.DateRange.To))
	}
	p.printBox("Datos históricos", sb.String())
}

// PrintAnalysisHeader describes what an analysis run covers.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAnalysisHeader(result *analysis.Result, records int, baseLabel string) {
	p.Heading("ANÁLISIS DE EVOLUCIÓN DEL MONOTRIBUTO POR CATEGORÍA")
	fmt.Fprintf(p.out, "Componente:           %s\n", result.Component.Label())
	fmt.Fprintf(p.out, "Tipo de actividad:    %s\n", result.Tipo)
	fmt.Fprintf(p.out, "Categorías:           %s\n", strings.Join(result.Categories, ", "))
	if len(result.Periods) > 0 {
		fmt.Fprintf(p.out, "Períodos analizados:  %s - %s\n", result.Periods[0], result.Periods[len(result.Periods)-1])
	}
	fmt.Fprintf(p.out, "Total de registros:   %d\n", records)
	fmt.Fprintf(p.out, "Ajuste por inflación: valores en pesos de %s\n", baseLabel)
	if len(result.MissingPeriods) > 0 {
		fmt.Fprintf(p.out, "%s\n", p.bad.Render("Sin dato de inflación (sin ajuste): "+strings.Join(result.MissingPeriods, ", ")))
	}
}

// PrintGrowthSummary prints first/last amounts and percentage change per category.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintGrowthSummary(growth []analysis.Growth) {
	p.Heading("RESUMEN DE INCREMENTOS POR CATEGORÍA - NOMINAL VS REAL")
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Cat\tInicial\tFinal\tInc%Nom\tRealIni\tRealFin\tInc%Real\t")
	for _, g := range growth {
		fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%s\t%.0f\t%.0f\t%s\t\n",
			g.Categoria, g.FirstNominal, g.LastNominal, FormatPercent(g.NominalPct),
			g.FirstReal, g.LastReal, FormatPercent(g.RealPct))
	}
	tw.Flush()
}

// PrintCAGR prints compound annual growth per category.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCAGR(growth []analysis.Growth) {
	p.Heading("TASA DE CRECIMIENTO ANUAL COMPUESTA (CAGR) - NOMINAL VS REAL")
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Categoría\tCAGR Nominal (%)\tCAGR Real (%)\t")
	for _, g := range growth {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", g.Categoria, FormatPercent(g.NominalCAGR), FormatPercent(g.RealCAGR))
	}
	tw.Flush()
}

// PrintRealVerdicts prints whether each category gained or lost real value.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRealVerdicts(growth []analysis.Growth) {
	p.Heading("ANÁLISIS DE PÉRDIDA/GANANCIA DE VALOR REAL")
	for _, g := range growth {
		switch g.RealVerdict() {
		case analysis.VerdictLoss:
			fmt.Fprintln(p.out, p.bad.Render(fmt.Sprintf("Categoría %s: PÉRDIDA de %.1f%% en términos reales", g.Categoria, math.Abs(g.RealPct))))
		case analysis.VerdictGain:
			fmt.Fprintln(p.out, p.good.Render(fmt.Sprintf("Categoría %s: GANANCIA de %.1f%% en términos reales", g.Categoria, g.RealPct)))
		case analysis.VerdictNoChange:
			fmt.Fprintf(p.out, "Categoría %s: SIN CAMBIO en términos reales\n", g.Categoria)
		default:
			fmt.Fprintf(p.out, "Categoría %s: %s\n", g.Categoria, notAvailable)
		}
	}
}

// PrintOutputs lists the files an analysis produced.
func (p *Printer) PrintOutputs(paths []string) {
	var sb strings.Builder
	for i, path := range paths {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, path))
	}
	p.printBox("Archivos generados", sb.String())
}

// FormatPercent renders a percentage with two decimals, or N/A when undefined.
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", v)
}

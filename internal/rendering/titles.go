package rendering

import (
	"path/filepath"
	"slices"
	"strings"
)

var chartKindTitles = map[string]string{
	"nominal":    "Nominal",
	"real":       "Real",
	"incremento": "Incremento",
	"heatmap":    "Mapa de Calor",
}

var chartKindDescriptions = map[string]string{
	"nominal":    "Evolución en valores nominales",
	"real":       "Evolución ajustada por inflación (valores reales)",
	"incremento": "Comparación de incrementos: nominal vs real",
	"heatmap":    "Mapa de calor por período y categoría",
}

// DefaultDescription is used for chart files of an unknown kind.
const DefaultDescription = "Gráfico del monotributo"

// chartParts splits "monotributo_<tipo>_<componente>_<kind>.<ext>" into its words.
func chartParts(filename string) []string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimPrefix(base, "monotributo_")
	return strings.Split(base, "_")
}

// ChartTitle builds a readable title from a chart file name, e.g.
// "monotributo_servicios_aporte_sipa_real.png" becomes "Servicios - Aporte SIPA - Real".
// Unrecognized names are returned unchanged.
func ChartTitle(filename string) string {
	parts := chartParts(filename)
	var title []string

	switch {
	case slices.Contains(parts, "servicios"):
		title = append(title, "Servicios")
	case slices.Contains(parts, "ventas"):
		title = append(title, "Ventas")
	}

	switch {
	case slices.Contains(parts, "impuesto") && slices.Contains(parts, "integrado"):
		title = append(title, "Impuesto Integrado")
	case slices.Contains(parts, "aporte") && slices.Contains(parts, "sipa"):
		title = append(title, "Aporte SIPA")
	case slices.Contains(parts, "obra") && slices.Contains(parts, "social"):
		title = append(title, "Aporte Obra Social")
	case slices.Contains(parts, "total"):
		title = append(title, "Total")
	}

	if kind := chartKind(parts); kind != "" {
		title = append(title, chartKindTitles[kind])
	}

	if len(title) == 0 {
		return filepath.Base(filename)
	}
	return strings.Join(title, " - ")
}

// ChartDescription describes a chart file by its kind.
func ChartDescription(filename string) string {
	if kind := chartKind(chartParts(filename)); kind != "" {
		return chartKindDescriptions[kind]
	}
	return DefaultDescription
}

// chartKind returns the last word naming a chart kind, or "".
func chartKind(parts []string) string {
	for i := len(parts) - 1; i >= 0; i-- {
		if _, ok := chartKindTitles[parts[i]]; ok {
			return parts[i]
		}
	}
	return ""
}

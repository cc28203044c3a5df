package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChartTitle(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"monotributo_servicios_total_nominal.png", "Servicios - Total - Nominal"},
		{"graficos/monotributo_ventas_impuesto_integrado_real.png", "Ventas - Impuesto Integrado - Real"},
		{"monotributo_servicios_aporte_sipa_incremento.png", "Servicios - Aporte SIPA - Incremento"},
		{"monotributo_ventas_aporte_obra_social_heatmap.png", "Ventas - Aporte Obra Social - Mapa de Calor"},
		{"monotributo_servicios_total_resumen.xlsx", "Servicios - Total"},
		{"monotributo_otro.png", "monotributo_otro.png"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChartTitle(tt.filename))
		})
	}
}

func TestChartDescription(t *testing.T) {
	assert.Equal(t, "Evolución en valores nominales", ChartDescription("monotributo_servicios_total_nominal.png"))
	assert.Equal(t, "Mapa de calor por período y categoría", ChartDescription("monotributo_ventas_total_heatmap.png"))
	assert.Equal(t, DefaultDescription, ChartDescription("monotributo_servicios_total_resumen.xlsx"))
}

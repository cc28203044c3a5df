// Package analysis computes nominal and inflation-adjusted series, growth figures and the
// category by period matrix from the stored dataset.
package analysis

import (
	"fmt"

	"github.com/jonathan/monotributo-historico/internal/types"
	"github.com/shopspring/decimal"
)

// Component selects which amount of a record is analyzed.
type Component string

// Supported components
const (
	ComponentTotal            Component = "total"
	ComponentImpuesto         Component = "impuesto_integrado"
	ComponentAporteSIPA       Component = "aporte_sipa"
	ComponentAporteObraSocial Component = "aporte_obra_social"
)

// Components lists the supported components in display order.
var Components = []Component{ComponentTotal, ComponentImpuesto, ComponentAporteSIPA, ComponentAporteObraSocial}

// ParseComponent validates a component name.
func ParseComponent(s string) (Component, error) {
	for _, c := range Components {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown component %q (expected total, impuesto_integrado, aporte_sipa or aporte_obra_social)", s)
}

// Label returns the human-readable component name.
func (c Component) Label() string {
	switch c {
	case ComponentTotal:
		return "Total"
	case ComponentImpuesto:
		return "Impuesto Integrado"
	case ComponentAporteSIPA:
		return "Aporte SIPA"
	case ComponentAporteObraSocial:
		return "Aporte Obra Social"
	default:
		return string(c)
	}
}

// Amount returns the analyzed amount of a record. The total falls back to the sum of its
// non-null parts; other components count a missing value as zero.
func Amount(r *types.CategoryPeriodRecord, c Component) decimal.Decimal {
	switch c {
	case ComponentTotal:
		if r.Total != nil {
			return decimal.NewFromInt(*r.Total)
		}
		sum := decimal.Zero
		for _, part := range []*int64{r.ImpuestoIntegrado, r.AporteSIPA, r.AporteObraSocial} {
			if part != nil {
				sum = sum.Add(decimal.NewFromInt(*part))
			}
		}
		return sum
	case ComponentImpuesto:
		return orZero(r.ImpuestoIntegrado)
	case ComponentAporteSIPA:
		return orZero(r.AporteSIPA)
	case ComponentAporteObraSocial:
		return orZero(r.AporteObraSocial)
	default:
		return decimal.Zero
	}
}

func orZero(v *int64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(*v)
}

// Package manufacturing contiene los servicios de dominio puros del motor
// de producción: evaluación de requerimientos de una BOM contra el stock
// actual y la máquina de estados de las órdenes.
package manufacturing

import (
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
)

// ComponentRequirement resultado por componente de EvaluateBOM.
// Los valores monetarios se mantienen sin redondear; el redondeo a 2
// decimales ocurre solo al mapear a DTO.
type ComponentRequirement struct {
	ComponentID string
	SKU         string
	Name        string
	Required    decimal.Decimal
	Available   decimal.Decimal
	Shortfall   decimal.Decimal // max(0, Required - Available)
	UnitCost    decimal.Decimal
	LineCost    decimal.Decimal // Required * UnitCost
	CanFulfill  bool
}

// Evaluation resultado agregado de EvaluateBOM.
type Evaluation struct {
	Requirements   []ComponentRequirement // en el orden de los items de la BOM
	TotalCost      decimal.Decimal
	CanFulfill     bool
	ShortfallCount int
}

// EvaluateBOM calcula costo total y viabilidad de producir producedQty
// unidades según la BOM, contra las existencias de components (indexadas
// por StockItem.ID). Función pura: no muta stock y es segura de repetir.
//
// Por item: required = item.Quantity * producedQty;
// shortfall = max(0, required - disponible); lineCost = required * unitCost.
func EvaluateBOM(bom *entity.BillOfMaterials, producedQty decimal.Decimal, components map[string]*entity.StockItem) (*Evaluation, error) {
	if bom == nil || len(bom.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !producedQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	ev := &Evaluation{
		Requirements: make([]ComponentRequirement, 0, len(bom.Items)),
		TotalCost:    decimal.Zero,
		CanFulfill:   true,
	}
	for _, item := range bom.Items {
		comp, ok := components[item.ComponentID]
		if !ok || comp == nil {
			return nil, domain.ErrNotFound
		}
		required := item.Quantity.Mul(producedQty)
		shortfall := required.Sub(comp.Quantity)
		if shortfall.LessThan(decimal.Zero) {
			shortfall = decimal.Zero
		}
		lineCost := required.Mul(comp.UnitCost)

		r := ComponentRequirement{
			ComponentID: comp.ID,
			SKU:         comp.SKU,
			Name:        comp.Name,
			Required:    required,
			Available:   comp.Quantity,
			Shortfall:   shortfall,
			UnitCost:    comp.UnitCost,
			LineCost:    lineCost,
			CanFulfill:  shortfall.IsZero(),
		}
		if !r.CanFulfill {
			ev.CanFulfill = false
			ev.ShortfallCount++
		}
		ev.TotalCost = ev.TotalCost.Add(lineCost)
		ev.Requirements = append(ev.Requirements, r)
	}
	return ev, nil
}

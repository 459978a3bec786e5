package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMItemInput item de una BOM al crear/editar (la lista se reemplaza completa).
type BOMItemInput struct {
	ComponentID string          `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"` // por unidad de producto, > 0
	Unit        string          `json:"unit,omitempty"`
}

// CreateBOMRequest body para POST /api/boms. Requiere al menos un item.
type CreateBOMRequest struct {
	ProductID string         `json:"product_id"`
	Name      string         `json:"name"`
	Notes     string         `json:"notes,omitempty"`
	Items     []BOMItemInput `json:"items"`
}

// UpdateBOMRequest body para PUT /api/boms/:id. Items != nil reemplaza la
// lista completa (delete-and-recreate).
type UpdateBOMRequest struct {
	Name  *string        `json:"name,omitempty"`
	Notes *string        `json:"notes,omitempty"`
	Items []BOMItemInput `json:"items,omitempty"`
}

// BOMItemResponse item con el componente resuelto.
type BOMItemResponse struct {
	ID          string          `json:"id"`
	ComponentID string          `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	Sequence    int             `json:"sequence"`
}

// BOMResponse representación de una BOM con sus items.
type BOMResponse struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	Version   int               `json:"version"`
	Status    string            `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	Items     []BOMItemResponse `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// BOMListResponse listado paginado.
type BOMListResponse struct {
	Items []BOMResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// CalculateRequirementsRequest body para POST /api/boms/calculate-requirements.
type CalculateRequirementsRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// RequirementDTO resultado por componente de la evaluación.
// Los montos van redondeados a 2 decimales (solo en la presentación).
type RequirementDTO struct {
	ComponentID string          `json:"component_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Required    decimal.Decimal `json:"required"`
	Available   decimal.Decimal `json:"available"`
	Shortfall   decimal.Decimal `json:"shortfall"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineCost    decimal.Decimal `json:"line_cost"`
	CanFulfill  bool            `json:"can_fulfill"`
}

// RequirementsSummaryDTO agregado de la evaluación.
type RequirementsSummaryDTO struct {
	TotalCost      decimal.Decimal `json:"total_cost"`
	CanFulfill     bool            `json:"can_fulfill"`
	ShortfallCount int             `json:"shortfall_count"`
}

// CalculateRequirementsResponse respuesta completa de la evaluación.
type CalculateRequirementsResponse struct {
	BOMID        string                 `json:"bom_id"`
	Requirements []RequirementDTO       `json:"requirements"`
	Summary      RequirementsSummaryDTO `json:"summary"`
}

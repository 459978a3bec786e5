package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockItemRequest body para POST /api/stock.
type CreateStockItemRequest struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Category     string           `json:"category,omitempty"`
	Quantity     decimal.Decimal  `json:"quantity"` // existencia inicial
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	ReorderPoint decimal.Decimal  `json:"reorder_point"`
	MaxStock     *decimal.Decimal `json:"max_stock,omitempty"`
	Unit         string           `json:"unit,omitempty"`
	Location     string           `json:"location,omitempty"`
}

// UpdateStockItemRequest body para PUT /api/stock/:id.
// Quantity no aparece: solo cambia vía movimientos.
type UpdateStockItemRequest struct {
	Name         *string          `json:"name,omitempty"`
	Category     *string          `json:"category,omitempty"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	ReorderPoint *decimal.Decimal `json:"reorder_point,omitempty"`
	MaxStock     *decimal.Decimal `json:"max_stock,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	Location     *string          `json:"location,omitempty"`
}

// StockItemResponse representación de un item de stock.
type StockItemResponse struct {
	ID           string           `json:"id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Category     string           `json:"category,omitempty"`
	Quantity     decimal.Decimal  `json:"quantity"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	ReorderPoint decimal.Decimal  `json:"reorder_point"`
	MaxStock     *decimal.Decimal `json:"max_stock,omitempty"`
	Unit         string           `json:"unit,omitempty"`
	Location     string           `json:"location,omitempty"`
	Status       string           `json:"status"`
	LowStock     bool             `json:"low_stock"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// StockItemListResponse listado paginado.
type StockItemListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// PostMovementRequest body para POST /api/stock/movements.
// quantity > 0 para IN/OUT (la dirección la da type); para ADJUSTMENT es
// la nueva cantidad absoluta.
type PostMovementRequest struct {
	StockItemID string          `json:"stock_item_id"`
	Type        string          `json:"type"` // IN, OUT, ADJUSTMENT
	Quantity    decimal.Decimal `json:"quantity"`
	Reference   string          `json:"reference,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// MovementResponse movimiento registrado del ledger.
type MovementResponse struct {
	ID               string          `json:"id"`
	StockItemID      string          `json:"stock_item_id"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	Delta            decimal.Decimal `json:"delta"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Reference        string          `json:"reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	CreatedBy        string          `json:"created_by"`
}

// PostMovementResponse movimiento creado + item actualizado.
type PostMovementResponse struct {
	Movement  MovementResponse  `json:"movement"`
	StockItem StockItemResponse `json:"stock_item"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

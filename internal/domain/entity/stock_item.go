package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para StockItem.
const (
	StockItemActive   = "active"
	StockItemArchived = "archived"
)

// StockItem material o componente rastreado por el ledger de stock.
// Quantity solo cambia registrando movimientos, nunca por edición directa,
// y no puede quedar negativa.
type StockItem struct {
	ID           string
	SKU          string // único por normalización lower(sku)
	Name         string
	Category     string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal
	ReorderPoint decimal.Decimal
	MaxStock     *decimal.Decimal // opcional
	Unit         string           // und, kg, m, l
	Location     string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

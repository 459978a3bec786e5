package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto terminado: lo que describen las BOM y lo
// que fabrican las órdenes de producción.
type Product struct {
	ID          string
	SKU         string // único por normalización lower(sku)
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal // precio de venta
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

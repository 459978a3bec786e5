package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockSummaryResult agregado de inventario para el dashboard.
type StockSummaryResult struct {
	ItemCount     int
	TotalValue    decimal.Decimal // SUM(quantity * unit_cost) de items activos
	LowStockCount int             // items con quantity <= reorder_point
}

// OrderStatusCount conteo de órdenes de producción por estado.
type OrderStatusCount struct {
	Status string
	Count  int
}

// MovementSummaryResult resumen del ledger en un período.
type MovementSummaryResult struct {
	Type     string
	Count    int
	NetDelta decimal.Decimal // suma de deltas con signo
}

// ConsumedComponentResult componente consumido (OUT) en un período.
type ConsumedComponentResult struct {
	StockItemID string
	SKU         string
	Name        string
	Quantity    decimal.Decimal // magnitud total consumida
	TotalCost   decimal.Decimal
}

// AnalyticsRepository consultas read-only de agregación para reportes.
type AnalyticsRepository interface {
	GetStockSummary(ctx context.Context) (*StockSummaryResult, error)
	CountOrdersByStatus(ctx context.Context) ([]OrderStatusCount, error)
	CountOrdersDueBefore(ctx context.Context, deadline time.Time) (int, error)
	GetMovementSummary(ctx context.Context, from, to time.Time) ([]MovementSummaryResult, error)
	GetTopConsumedComponents(ctx context.Context, from, to time.Time, limit int) ([]ConsumedComponentResult, error)
}

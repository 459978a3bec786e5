package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO resumen para GET /api/reports/dashboard.
type DashboardSummaryDTO struct {
	StockItemCount  int             `json:"stock_item_count"`
	StockValue      decimal.Decimal `json:"stock_value"` // SUM(qty * unit_cost), 2 decimales
	LowStockCount   int             `json:"low_stock_count"`
	OrdersByStatus  map[string]int  `json:"orders_by_status"`
	OrdersDueSoon   int             `json:"orders_due_soon"` // deadline en los próximos 7 días
}

// MovementSummaryDTO resumen del ledger por tipo en el período.
type MovementSummaryDTO struct {
	Type     string          `json:"type"`
	Count    int             `json:"count"`
	NetDelta decimal.Decimal `json:"net_delta"`
}

// ConsumedComponentDTO componente más consumido del período.
type ConsumedComponentDTO struct {
	StockItemID string          `json:"stock_item_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

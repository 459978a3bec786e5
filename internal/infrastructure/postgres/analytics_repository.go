package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas read-only de agregación sobre PostgreSQL.
// Siempre va contra el pool: los reportes no participan en transacciones.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de reportes.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetStockSummary agrega conteo, valor total y items bajo el punto de
// reorden, solo de items activos.
func (r *AnalyticsRepo) GetStockSummary(ctx context.Context) (*repository.StockSummaryResult, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(quantity * unit_cost), 0),
		       COUNT(*) FILTER (WHERE quantity <= reorder_point)
		FROM stock_items
		WHERE status = $1`
	var s repository.StockSummaryResult
	err := r.pool.QueryRow(ctx, query, entity.StockItemActive).Scan(
		&s.ItemCount, &s.TotalValue, &s.LowStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	return &s, nil
}

// CountOrdersByStatus cuenta órdenes de producción por estado.
func (r *AnalyticsRepo) CountOrdersByStatus(ctx context.Context) ([]repository.OrderStatusCount, error) {
	query := `SELECT status, COUNT(*) FROM manufacturing_orders GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}
	defer rows.Close()
	var out []repository.OrderStatusCount
	for rows.Next() {
		var c repository.OrderStatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountOrdersDueBefore cuenta órdenes no terminales con deadline antes de
// la fecha dada.
func (r *AnalyticsRepo) CountOrdersDueBefore(ctx context.Context, deadline time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM manufacturing_orders
		WHERE deadline IS NOT NULL AND deadline <= $1 AND status NOT IN ($2, $3)`
	var n int
	err := r.pool.QueryRow(ctx, query, deadline,
		entity.OrderStatusCompleted, entity.OrderStatusCancelled).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count orders due: %w", err)
	}
	return n, nil
}

// GetMovementSummary resume el ledger por tipo en el período.
func (r *AnalyticsRepo) GetMovementSummary(ctx context.Context, from, to time.Time) ([]repository.MovementSummaryResult, error) {
	query := `
		SELECT type, COUNT(*), COALESCE(SUM(delta), 0)
		FROM stock_movements
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY type
		ORDER BY type`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("movement summary: %w", err)
	}
	defer rows.Close()
	var out []repository.MovementSummaryResult
	for rows.Next() {
		var m repository.MovementSummaryResult
		if err := rows.Scan(&m.Type, &m.Count, &m.NetDelta); err != nil {
			return nil, fmt.Errorf("scan movement summary: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetTopConsumedComponents lista los componentes con mayor salida (OUT)
// del período, valorizados al costo unitario vigente del item.
func (r *AnalyticsRepo) GetTopConsumedComponents(ctx context.Context, from, to time.Time, limit int) ([]repository.ConsumedComponentResult, error) {
	query := `
		SELECT i.id, i.sku, i.name,
		       COALESCE(SUM(m.quantity), 0),
		       COALESCE(SUM(m.quantity * i.unit_cost), 0)
		FROM stock_movements m
		JOIN stock_items i ON i.id = m.stock_item_id
		WHERE m.type = $1 AND m.created_at >= $2 AND m.created_at <= $3
		GROUP BY i.id, i.sku, i.name
		ORDER BY SUM(m.quantity) DESC
		LIMIT $4`
	rows, err := r.pool.Query(ctx, query, entity.MovementTypeOUT, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top consumed components: %w", err)
	}
	defer rows.Close()
	var out []repository.ConsumedComponentResult
	for rows.Next() {
		var c repository.ConsumedComponentResult
		var qty, cost decimal.Decimal
		if err := rows.Scan(&c.StockItemID, &c.SKU, &c.Name, &qty, &cost); err != nil {
			return nil, fmt.Errorf("scan consumed component: %w", err)
		}
		c.Quantity = qty
		c.TotalCost = cost
		out = append(out, c)
	}
	return out, rows.Err()
}

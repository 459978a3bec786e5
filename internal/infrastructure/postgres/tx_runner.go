package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowforge/flowforge-api/internal/application/bom"
	"github.com/flowforge/flowforge-api/internal/application/orders"
	"github.com/flowforge/flowforge-api/internal/application/stock"
	"github.com/flowforge/flowforge-api/internal/application/workorders"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// Ensure TxRunner implements the application tx ports.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ bom.TxRunner = (*TxRunner)(nil)
var _ orders.TxRunner = (*TxRunner)(nil)
var _ workorders.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del ledger de stock y hace
// Commit o Rollback según el resultado de fn.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockItemRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBOM inicia una transacción con los repos de BOM y producto (la
// activación bloquea la fila del producto antes de desactivar hermanas).
func (r *TxRunner) RunBOM(ctx context.Context, fn func(
	bomRepo repository.BOMRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBOMRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunOrder inicia una transacción con los repos del ciclo de vida de una
// orden de producción (transiciones con consumo de materiales).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.ManufacturingOrderRepository,
	woRepo repository.WorkOrderRepository,
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewManufacturingOrderRepository(tx),
		NewWorkOrderRepository(tx),
		NewStockItemRepository(tx),
		NewStockMovementRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunWorkOrder inicia una transacción con los repos de órdenes de trabajo
// y de producción (completar acumula costo y avance en el padre).
func (r *TxRunner) RunWorkOrder(ctx context.Context, fn func(
	woRepo repository.WorkOrderRepository,
	orderRepo repository.ManufacturingOrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewWorkOrderRepository(tx), NewManufacturingOrderRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

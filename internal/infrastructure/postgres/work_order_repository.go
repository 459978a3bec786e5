package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

const workOrderColumns = `id, manufacturing_order_id, work_center_id, name, sequence, status, estimated_hours, actual_hours, assigned_to_id, started_at, completed_at, created_at, updated_at`

// WorkOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create persiste una orden de trabajo.
func (r *WorkOrderRepo) Create(wo *entity.WorkOrder) error {
	query := `
		INSERT INTO work_orders (` + workOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		wo.ID, wo.ManufacturingOrderID, wo.WorkCenterID, wo.Name, wo.Sequence,
		wo.Status, wo.EstimatedHours, wo.ActualHours, nullable(wo.AssignedToID),
		wo.StartedAt, wo.CompletedAt, wo.CreatedAt, wo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create work order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de trabajo por ID.
func (r *WorkOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get work order")
}

// GetForUpdate bloquea la fila para transiciones de estado.
func (r *WorkOrderRepo) GetForUpdate(id string) (*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get work order for update")
}

// Update persiste el estado completo de la orden de trabajo.
func (r *WorkOrderRepo) Update(wo *entity.WorkOrder) error {
	query := `
		UPDATE work_orders
		SET name = $2, sequence = $3, status = $4, estimated_hours = $5,
		    actual_hours = $6, assigned_to_id = $7, started_at = $8,
		    completed_at = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		wo.ID, wo.Name, wo.Sequence, wo.Status, wo.EstimatedHours,
		wo.ActualHours, nullable(wo.AssignedToID), wo.StartedAt,
		wo.CompletedAt, wo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrder lista las órdenes de trabajo de una orden de producción.
func (r *WorkOrderRepo) ListByOrder(manufacturingOrderID string) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE manufacturing_order_id = $1 ORDER BY sequence`
	rows, err := r.q.Query(context.Background(), query, manufacturingOrderID)
	if err != nil {
		return nil, fmt.Errorf("list work orders by order: %w", err)
	}
	defer rows.Close()
	return collectWorkOrders(rows)
}

// CountActiveByOrder cuenta trabajos en STARTED o PAUSED (bloquean la
// cancelación del padre).
func (r *WorkOrderRepo) CountActiveByOrder(manufacturingOrderID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM work_orders
		WHERE manufacturing_order_id = $1 AND status IN ($2, $3)`
	var n int
	err := r.q.QueryRow(context.Background(), query,
		manufacturingOrderID, entity.OrderStatusStarted, entity.OrderStatusPaused).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active work orders: %w", err)
	}
	return n, nil
}

// List lista órdenes de trabajo con filtros enumerados.
func (r *WorkOrderRepo) List(qry repository.WorkOrderQuery) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE 1=1`
	args := []any{}
	pos := 1
	if qry.ManufacturingOrderID != "" {
		query += fmt.Sprintf(" AND manufacturing_order_id = $%d", pos)
		args = append(args, qry.ManufacturingOrderID)
		pos++
	}
	if qry.WorkCenterID != "" {
		query += fmt.Sprintf(" AND work_center_id = $%d", pos)
		args = append(args, qry.WorkCenterID)
		pos++
	}
	if qry.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, qry.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, qry.Limit, qry.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()
	return collectWorkOrders(rows)
}

func (r *WorkOrderRepo) scanOne(row pgx.Row, op string) (*entity.WorkOrder, error) {
	wo, err := scanWorkOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wo, nil
}

func collectWorkOrders(rows pgx.Rows) ([]*entity.WorkOrder, error) {
	var list []*entity.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		list = append(list, wo)
	}
	return list, rows.Err()
}

func scanWorkOrder(row pgx.Row) (*entity.WorkOrder, error) {
	var w entity.WorkOrder
	var assignedTo *string
	err := row.Scan(
		&w.ID, &w.ManufacturingOrderID, &w.WorkCenterID, &w.Name, &w.Sequence,
		&w.Status, &w.EstimatedHours, &w.ActualHours, &assignedTo,
		&w.StartedAt, &w.CompletedAt, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if assignedTo != nil {
		w.AssignedToID = *assignedTo
	}
	return &w, nil
}

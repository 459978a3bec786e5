package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

var _ repository.ManufacturingOrderRepository = (*ManufacturingOrderRepo)(nil)

const orderColumns = `id, order_number, product_id, bom_id, quantity, deadline, priority, status, estimated_cost, actual_cost, progress, assigned_to_id, notes, started_at, completed_at, created_at, updated_at, created_by`

// ManufacturingOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type ManufacturingOrderRepo struct {
	q Querier
}

// NewManufacturingOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewManufacturingOrderRepository(q Querier) *ManufacturingOrderRepo {
	return &ManufacturingOrderRepo{q: q}
}

// Create persiste una orden de producción.
func (r *ManufacturingOrderRepo) Create(order *entity.ManufacturingOrder) error {
	query := `
		INSERT INTO manufacturing_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	createdBy := (*string)(nil)
	if order.CreatedBy != "" {
		createdBy = &order.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.ProductID, order.BOMID, order.Quantity,
		order.Deadline, order.Priority, order.Status, order.EstimatedCost,
		order.ActualCost, order.Progress, nullable(order.AssignedToID), order.Notes,
		order.StartedAt, order.CompletedAt, order.CreatedAt, order.UpdatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create manufacturing order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *ManufacturingOrderRepo) GetByID(id string) (*entity.ManufacturingOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM manufacturing_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get order")
}

// GetForUpdate bloquea la fila de la orden para transiciones de estado.
func (r *ManufacturingOrderRepo) GetForUpdate(id string) (*entity.ManufacturingOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM manufacturing_orders WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get order for update")
}

// Update persiste el estado completo de la orden.
func (r *ManufacturingOrderRepo) Update(order *entity.ManufacturingOrder) error {
	query := `
		UPDATE manufacturing_orders
		SET quantity = $2, deadline = $3, priority = $4, status = $5,
		    estimated_cost = $6, actual_cost = $7, progress = $8,
		    assigned_to_id = $9, notes = $10, started_at = $11,
		    completed_at = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		order.ID, order.Quantity, order.Deadline, order.Priority, order.Status,
		order.EstimatedCost, order.ActualCost, order.Progress, nullable(order.AssignedToID),
		order.Notes, order.StartedAt, order.CompletedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update manufacturing order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddActualCost suma amount al costo real acumulado de la orden.
func (r *ManufacturingOrderRepo) AddActualCost(id string, amount decimal.Decimal) error {
	query := `UPDATE manufacturing_orders SET actual_cost = actual_cost + $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, amount)
	if err != nil {
		return fmt.Errorf("add actual cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Namespace de locks consultivos para la numeración de órdenes.
const orderSequenceLockClass = 7201

// NextSequence devuelve el siguiente consecutivo del año para numerar
// órdenes (MO-{año}-{seq}). Llamar dentro de la tx de creación: el lock
// consultivo por año serializa creaciones concurrentes, de modo que dos
// tx no pueden leer el mismo MAX y acuñar el mismo número.
func (r *ManufacturingOrderRepo) NextSequence(year int) (int, error) {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx,
		`SELECT pg_advisory_xact_lock($1, $2)`, orderSequenceLockClass, year,
	); err != nil {
		return 0, fmt.Errorf("lock order sequence: %w", err)
	}
	query := `
		SELECT COALESCE(MAX(split_part(order_number, '-', 3)::int), 0) + 1
		FROM manufacturing_orders
		WHERE order_number LIKE 'MO-' || $1::text || '-%'`
	var next int
	if err := r.q.QueryRow(ctx, query, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("next order sequence: %w", err)
	}
	return next, nil
}

// List lista órdenes con filtros enumerados.
func (r *ManufacturingOrderRepo) List(qry repository.OrderQuery) ([]*entity.ManufacturingOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM manufacturing_orders WHERE 1=1`
	args := []any{}
	pos := 1
	if qry.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, qry.Status)
		pos++
	}
	if qry.Priority != "" {
		query += fmt.Sprintf(" AND priority = $%d", pos)
		args = append(args, qry.Priority)
		pos++
	}
	if qry.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, qry.ProductID)
		pos++
	}
	if qry.Search != "" {
		query += fmt.Sprintf(" AND order_number ILIKE $%d", pos)
		args = append(args, "%"+qry.Search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, qry.Limit, qry.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.ManufacturingOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, order)
	}
	return list, rows.Err()
}

func (r *ManufacturingOrderRepo) scanOne(row pgx.Row, op string) (*entity.ManufacturingOrder, error) {
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func scanOrder(row pgx.Row) (*entity.ManufacturingOrder, error) {
	var o entity.ManufacturingOrder
	var assignedTo, createdBy *string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ProductID, &o.BOMID, &o.Quantity, &o.Deadline,
		&o.Priority, &o.Status, &o.EstimatedCost, &o.ActualCost, &o.Progress,
		&assignedTo, &o.Notes, &o.StartedAt, &o.CompletedAt,
		&o.CreatedAt, &o.UpdatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if assignedTo != nil {
		o.AssignedToID = *assignedTo
	}
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	return &o, nil
}

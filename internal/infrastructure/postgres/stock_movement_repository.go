package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const stockMovementColumns = `id, stock_item_id, type, quantity, delta, previous_quantity, new_quantity, reference, notes, created_at, created_by`

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: sin UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + stockMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.StockItemID, movement.Type, movement.Quantity,
		movement.Delta, movement.PreviousQuantity, movement.NewQuantity,
		movement.Reference, movement.Notes, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanStockMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista movimientos con filtros enumerados, del más reciente al más
// antiguo.
func (r *StockMovementRepo) List(qry repository.MovementQuery) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE 1=1`
	args := []any{}
	pos := 1
	if qry.StockItemID != "" {
		query += fmt.Sprintf(" AND stock_item_id = $%d", pos)
		args = append(args, qry.StockItemID)
		pos++
	}
	if qry.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, qry.Type)
		pos++
	}
	if qry.Reference != "" {
		query += fmt.Sprintf(" AND reference = $%d", pos)
		args = append(args, qry.Reference)
		pos++
	}
	if qry.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *qry.From)
		pos++
	}
	if qry.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *qry.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, qry.Limit, qry.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanStockMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanStockMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.StockItemID, &m.Type, &m.Quantity, &m.Delta,
		&m.PreviousQuantity, &m.NewQuantity, &m.Reference, &m.Notes,
		&m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

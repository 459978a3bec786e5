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

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const stockItemColumns = `id, sku, name, category, quantity, unit_cost, reorder_point, max_stock, unit, location, status, created_at, updated_at`

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL
// (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Create persiste un item de stock.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, item.Category, item.Quantity, item.UnitCost,
		item.ReorderPoint, item.MaxStock, item.Unit, item.Location, item.Status,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock item: %w", err)
	}
	return nil
}

// GetByID obtiene un item por ID.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get stock item")
}

// GetBySKU obtiene un item por SKU (case-insensitive).
func (r *StockItemRepo) GetBySKU(sku string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE lower(sku) = lower($1)`
	return r.scanOne(r.q.QueryRow(context.Background(), query, sku), "get stock item by sku")
}

// GetForUpdate obtiene el item y bloquea la fila (SELECT FOR UPDATE) para
// que la validación de existencia y la escritura del movimiento sean una
// sola unidad.
func (r *StockItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get stock item for update")
}

// UpdateQuantity fija la cantidad del item. Solo lo llama el registro de
// movimientos; la edición de datos maestros nunca pasa por aquí.
func (r *StockItemRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	query := `UPDATE stock_items SET quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantity)
	if err != nil {
		return fmt.Errorf("update quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update actualiza los datos maestros del item (sin tocar quantity).
func (r *StockItemRepo) Update(item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET name = $2, category = $3, unit_cost = $4, reorder_point = $5,
		    max_stock = $6, unit = $7, location = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Category, item.UnitCost, item.ReorderPoint,
		item.MaxStock, item.Unit, item.Location, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Archive archiva el item (soft delete).
func (r *StockItemRepo) Archive(id string) error {
	query := `UPDATE stock_items SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, entity.StockItemArchived)
	if err != nil {
		return fmt.Errorf("archive stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista items con filtros enumerados y paginación.
func (r *StockItemRepo) List(qry repository.StockItemQuery) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE 1=1`
	args := []any{}
	pos := 1
	if qry.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, qry.Status)
		pos++
	}
	if qry.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, qry.Category)
		pos++
	}
	if qry.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR sku ILIKE $%d)", pos, pos)
		args = append(args, "%"+qry.Search+"%")
		pos++
	}
	if qry.LowStock {
		query += " AND quantity <= reorder_point"
	}
	query += fmt.Sprintf(" ORDER BY sku LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, qry.Limit, qry.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		item, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func (r *StockItemRepo) scanOne(row pgx.Row, op string) (*entity.StockItem, error) {
	item, err := scanStockItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(
		&it.ID, &it.SKU, &it.Name, &it.Category, &it.Quantity, &it.UnitCost,
		&it.ReorderPoint, &it.MaxStock, &it.Unit, &it.Location, &it.Status,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

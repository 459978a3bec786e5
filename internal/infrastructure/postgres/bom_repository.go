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

var _ repository.BOMRepository = (*BOMRepo)(nil)

const bomColumns = `id, product_id, name, version, status, notes, created_at, updated_at, created_by`

// BOMRepo implementación de BOMRepository sobre PostgreSQL (usable con
// pool o tx). Los items viven en bom_items y se reemplazan completos al
// editar (delete-and-recreate).
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// Create persiste la BOM y sus items.
func (r *BOMRepo) Create(bom *entity.BillOfMaterials) error {
	query := `
		INSERT INTO boms (` + bomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if bom.CreatedBy != "" {
		createdBy = &bom.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		bom.ID, bom.ProductID, bom.Name, bom.Version, bom.Status, bom.Notes,
		bom.CreatedAt, bom.UpdatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create bom: %w", err)
	}
	return r.insertItems(bom.ID, bom.Items)
}

// GetByID obtiene la BOM con sus items ordenados por sequence.
func (r *BOMRepo) GetByID(id string) (*entity.BillOfMaterials, error) {
	query := `SELECT ` + bomColumns + ` FROM boms WHERE id = $1`
	bom, err := scanBOM(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom: %w", err)
	}
	items, err := r.loadItems(bom.ID)
	if err != nil {
		return nil, err
	}
	bom.Items = items
	return bom, nil
}

// FindActiveByProduct devuelve todas las BOM ACTIVE del producto, con
// items. Más de una es una violación de integridad que reporta el caller.
func (r *BOMRepo) FindActiveByProduct(productID string) ([]*entity.BillOfMaterials, error) {
	query := `SELECT ` + bomColumns + ` FROM boms WHERE product_id = $1 AND status = $2 ORDER BY version`
	rows, err := r.q.Query(context.Background(), query, productID, entity.BOMStatusActive)
	if err != nil {
		return nil, fmt.Errorf("find active boms: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillOfMaterials
	for rows.Next() {
		bom, err := scanBOM(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		list = append(list, bom)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, bom := range list {
		items, err := r.loadItems(bom.ID)
		if err != nil {
			return nil, err
		}
		bom.Items = items
	}
	return list, nil
}

// NextVersion devuelve el siguiente consecutivo de versión del producto.
func (r *BOMRepo) NextVersion(productID string) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) + 1 FROM boms WHERE product_id = $1`
	var next int
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next bom version: %w", err)
	}
	return next, nil
}

// Update actualiza los datos de cabecera de la BOM (no los items).
func (r *BOMRepo) Update(bom *entity.BillOfMaterials) error {
	query := `UPDATE boms SET name = $2, notes = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, bom.ID, bom.Name, bom.Notes, bom.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update bom: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems borra la lista de items y la recrea completa.
func (r *BOMRepo) ReplaceItems(bomID string, items []entity.BOMItem) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM bom_items WHERE bom_id = $1`, bomID); err != nil {
		return fmt.Errorf("delete bom items: %w", err)
	}
	return r.insertItems(bomID, items)
}

// DeactivateByProduct marca INACTIVE toda BOM ACTIVE del producto excepto
// exceptID. Usar en la misma tx que la activación.
func (r *BOMRepo) DeactivateByProduct(productID, exceptID string) error {
	query := `
		UPDATE boms SET status = $3, updated_at = now()
		WHERE product_id = $1 AND id <> $2 AND status = $4`
	_, err := r.q.Exec(context.Background(), query,
		productID, exceptID, entity.BOMStatusInactive, entity.BOMStatusActive)
	if err != nil {
		return fmt.Errorf("deactivate boms: %w", err)
	}
	return nil
}

// SetStatus fija el estado de la BOM.
func (r *BOMRepo) SetStatus(bomID, status string) error {
	query := `UPDATE boms SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, bomID, status)
	if err != nil {
		return fmt.Errorf("set bom status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista BOMs (cabeceras con items) con filtros enumerados.
func (r *BOMRepo) List(qry repository.BOMQuery) ([]*entity.BillOfMaterials, error) {
	query := `SELECT ` + bomColumns + ` FROM boms WHERE 1=1`
	args := []any{}
	pos := 1
	if qry.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, qry.ProductID)
		pos++
	}
	if qry.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, qry.Status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY product_id, version DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, qry.Limit, qry.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list boms: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillOfMaterials
	for rows.Next() {
		bom, err := scanBOM(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		list = append(list, bom)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, bom := range list {
		items, err := r.loadItems(bom.ID)
		if err != nil {
			return nil, err
		}
		bom.Items = items
	}
	return list, nil
}

func (r *BOMRepo) insertItems(bomID string, items []entity.BOMItem) error {
	query := `
		INSERT INTO bom_items (id, bom_id, component_id, quantity, unit, sequence)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, it := range items {
		_, err := r.q.Exec(context.Background(), query,
			it.ID, bomID, it.ComponentID, it.Quantity, it.Unit, it.Sequence)
		if err != nil {
			return fmt.Errorf("insert bom item: %w", err)
		}
	}
	return nil
}

func (r *BOMRepo) loadItems(bomID string) ([]entity.BOMItem, error) {
	query := `
		SELECT id, bom_id, component_id, quantity, unit, sequence
		FROM bom_items WHERE bom_id = $1 ORDER BY sequence`
	rows, err := r.q.Query(context.Background(), query, bomID)
	if err != nil {
		return nil, fmt.Errorf("load bom items: %w", err)
	}
	defer rows.Close()
	var items []entity.BOMItem
	for rows.Next() {
		var it entity.BOMItem
		if err := rows.Scan(&it.ID, &it.BOMID, &it.ComponentID, &it.Quantity, &it.Unit, &it.Sequence); err != nil {
			return nil, fmt.Errorf("scan bom item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanBOM(row pgx.Row) (*entity.BillOfMaterials, error) {
	var b entity.BillOfMaterials
	var createdBy *string
	err := row.Scan(
		&b.ID, &b.ProductID, &b.Name, &b.Version, &b.Status, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		b.CreatedBy = *createdBy
	}
	return &b, nil
}

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

var _ repository.WorkCenterRepository = (*WorkCenterRepo)(nil)

const workCenterColumns = `id, code, name, description, cost_per_hour, capacity, status, created_at, updated_at`

// WorkCenterRepo implementación sobre PostgreSQL (usable con pool o tx).
type WorkCenterRepo struct {
	q Querier
}

// NewWorkCenterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkCenterRepository(q Querier) *WorkCenterRepo {
	return &WorkCenterRepo{q: q}
}

// Create persiste un centro de trabajo.
func (r *WorkCenterRepo) Create(wc *entity.WorkCenter) error {
	query := `
		INSERT INTO work_centers (` + workCenterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		wc.ID, wc.Code, wc.Name, wc.Description, wc.CostPerHour,
		wc.Capacity, wc.Status, wc.CreatedAt, wc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create work center: %w", err)
	}
	return nil
}

// GetByID obtiene un centro de trabajo por ID.
func (r *WorkCenterRepo) GetByID(id string) (*entity.WorkCenter, error) {
	query := `SELECT ` + workCenterColumns + ` FROM work_centers WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get work center")
}

// GetByCode obtiene un centro de trabajo por código (case-insensitive).
func (r *WorkCenterRepo) GetByCode(code string) (*entity.WorkCenter, error) {
	query := `SELECT ` + workCenterColumns + ` FROM work_centers WHERE lower(code) = lower($1)`
	return r.scanOne(r.q.QueryRow(context.Background(), query, code), "get work center by code")
}

// Update actualiza el centro de trabajo.
func (r *WorkCenterRepo) Update(wc *entity.WorkCenter) error {
	query := `
		UPDATE work_centers
		SET name = $2, description = $3, cost_per_hour = $4, capacity = $5,
		    status = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		wc.ID, wc.Name, wc.Description, wc.CostPerHour, wc.Capacity,
		wc.Status, wc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work center: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista centros de trabajo, opcionalmente por estado.
func (r *WorkCenterRepo) List(status string, limit, offset int) ([]*entity.WorkCenter, error) {
	query := `SELECT ` + workCenterColumns + ` FROM work_centers WHERE 1=1`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY code LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work centers: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkCenter
	for rows.Next() {
		wc, err := scanWorkCenter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work center: %w", err)
		}
		list = append(list, wc)
	}
	return list, rows.Err()
}

func (r *WorkCenterRepo) scanOne(row pgx.Row, op string) (*entity.WorkCenter, error) {
	wc, err := scanWorkCenter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wc, nil
}

func scanWorkCenter(row pgx.Row) (*entity.WorkCenter, error) {
	var wc entity.WorkCenter
	err := row.Scan(
		&wc.ID, &wc.Code, &wc.Name, &wc.Description, &wc.CostPerHour,
		&wc.Capacity, &wc.Status, &wc.CreatedAt, &wc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wc, nil
}

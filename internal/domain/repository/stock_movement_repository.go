package repository

import (
	"time"

	"github.com/flowforge/flowforge-api/internal/domain/entity"
)

// MovementQuery filtros enumerados para listar movimientos.
type MovementQuery struct {
	StockItemID string
	Type        string // IN, OUT, ADJUSTMENT, vacío = todos
	From        *time.Time
	To          *time.Time
	Reference   string
	Limit       int
	Offset      int
}

// StockMovementRepository puerto del ledger append-only: solo Create y
// lecturas. No existen Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(q MovementQuery) ([]*entity.StockMovement, error)
}

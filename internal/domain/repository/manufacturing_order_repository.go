package repository

import (
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/domain/entity"
)

// OrderQuery filtros enumerados para listar órdenes de producción.
type OrderQuery struct {
	Status    string
	Priority  string
	ProductID string
	Search    string // matchea order_number
	Limit     int
	Offset    int
}

// ManufacturingOrderRepository puerto de persistencia para ManufacturingOrder.
type ManufacturingOrderRepository interface {
	Create(order *entity.ManufacturingOrder) error
	GetByID(id string) (*entity.ManufacturingOrder, error)
	// GetForUpdate bloquea la fila de la orden para transiciones de estado.
	GetForUpdate(id string) (*entity.ManufacturingOrder, error)
	Update(order *entity.ManufacturingOrder) error
	AddActualCost(id string, amount decimal.Decimal) error
	// NextSequence devuelve el siguiente consecutivo para el año (MO-{año}-{seq}).
	NextSequence(year int) (int, error)
	List(q OrderQuery) ([]*entity.ManufacturingOrder, error)
}

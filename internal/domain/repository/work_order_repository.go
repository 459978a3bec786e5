package repository

import "github.com/flowforge/flowforge-api/internal/domain/entity"

// WorkOrderQuery filtros enumerados para listar órdenes de trabajo.
type WorkOrderQuery struct {
	ManufacturingOrderID string
	WorkCenterID         string
	Status               string
	Limit                int
	Offset               int
}

// WorkOrderRepository puerto de persistencia para WorkOrder.
type WorkOrderRepository interface {
	Create(wo *entity.WorkOrder) error
	GetByID(id string) (*entity.WorkOrder, error)
	GetForUpdate(id string) (*entity.WorkOrder, error)
	Update(wo *entity.WorkOrder) error
	ListByOrder(manufacturingOrderID string) ([]*entity.WorkOrder, error)
	// CountActiveByOrder cuenta las órdenes de trabajo en STARTED o PAUSED
	// de una orden de producción (bloquean la cancelación del padre).
	CountActiveByOrder(manufacturingOrderID string) (int, error)
	List(q WorkOrderQuery) ([]*entity.WorkOrder, error)
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrder paso de trabajo de una orden de producción, ejecutado en un
// centro de trabajo. Comparte la máquina de estados de ManufacturingOrder.
type WorkOrder struct {
	ID                   string
	ManufacturingOrderID string
	WorkCenterID         string
	Name                 string
	Sequence             int
	Status               string
	EstimatedHours       decimal.Decimal
	ActualHours          decimal.Decimal
	AssignedToID         string
	StartedAt            *time.Time
	CompletedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

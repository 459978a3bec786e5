package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de producción (y de sus órdenes de trabajo).
// COMPLETED y CANCELLED son terminales.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusStarted   = "STARTED"
	OrderStatusPaused    = "PAUSED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Prioridades válidas.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// ManufacturingOrder orden de producción de un producto terminado.
// EstimatedCost se deriva de la BOM ACTIVE al crear; ActualCost se acumula
// al consumir materiales y completar órdenes de trabajo.
type ManufacturingOrder struct {
	ID            string
	OrderNumber   string // MO-{año}-{consecutivo}
	ProductID     string
	BOMID         string // BOM ACTIVE capturada al crear
	Quantity      decimal.Decimal
	Deadline      *time.Time
	Priority      string // LOW, MEDIUM, HIGH, URGENT
	Status        string
	EstimatedCost decimal.Decimal
	ActualCost    decimal.Decimal
	Progress      int // 0-100
	AssignedToID  string
	Notes         string
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}

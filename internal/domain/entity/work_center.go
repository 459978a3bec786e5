package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para WorkCenter.
const (
	WorkCenterActive      = "active"
	WorkCenterMaintenance = "maintenance"
	WorkCenterInactive    = "inactive"
)

// WorkCenter centro de trabajo donde se ejecutan órdenes de trabajo.
type WorkCenter struct {
	ID          string
	Code        string // único
	Name        string
	Description string
	CostPerHour decimal.Decimal
	Capacity    int // órdenes de trabajo concurrentes
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/manufacturing-orders.
type CreateOrderRequest struct {
	ProductID    string          `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	Priority     string          `json:"priority,omitempty"` // default MEDIUM
	AssignedToID string          `json:"assigned_to_id,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// TransitionOrderRequest body para PUT /api/manufacturing-orders/:id/status.
type TransitionOrderRequest struct {
	Status string `json:"status"`
}

// UpdateProgressRequest body para PUT /api/manufacturing-orders/:id/progress.
type UpdateProgressRequest struct {
	Progress int `json:"progress"` // 0-100
}

// OrderResponse representación de una orden de producción.
type OrderResponse struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	ProductID     string          `json:"product_id"`
	BOMID         string          `json:"bom_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Priority      string          `json:"priority"`
	Status        string          `json:"status"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	ActualCost    decimal.Decimal `json:"actual_cost"`
	Progress      int             `json:"progress"`
	AssignedToID  string          `json:"assigned_to_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderListResponse listado paginado.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// CreateWorkOrderRequest body para POST /api/work-orders.
type CreateWorkOrderRequest struct {
	ManufacturingOrderID string          `json:"manufacturing_order_id"`
	WorkCenterID         string          `json:"work_center_id"`
	Name                 string          `json:"name"`
	Sequence             int             `json:"sequence"`
	EstimatedHours       decimal.Decimal `json:"estimated_hours"`
	AssignedToID         string          `json:"assigned_to_id,omitempty"`
}

// TransitionWorkOrderRequest body para PUT /api/work-orders/:id/status.
// ActualHours solo aplica al completar.
type TransitionWorkOrderRequest struct {
	Status      string           `json:"status"`
	ActualHours *decimal.Decimal `json:"actual_hours,omitempty"`
}

// WorkOrderResponse representación de una orden de trabajo.
type WorkOrderResponse struct {
	ID                   string          `json:"id"`
	ManufacturingOrderID string          `json:"manufacturing_order_id"`
	WorkCenterID         string          `json:"work_center_id"`
	Name                 string          `json:"name"`
	Sequence             int             `json:"sequence"`
	Status               string          `json:"status"`
	EstimatedHours       decimal.Decimal `json:"estimated_hours"`
	ActualHours          decimal.Decimal `json:"actual_hours"`
	AssignedToID         string          `json:"assigned_to_id,omitempty"`
	StartedAt            *time.Time      `json:"started_at,omitempty"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// WorkOrderListResponse listado paginado.
type WorkOrderListResponse struct {
	Items []WorkOrderResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateWorkCenterRequest body para POST /api/work-centers.
type CreateWorkCenterRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
	Capacity    int             `json:"capacity"`
}

// UpdateWorkCenterRequest body para PUT /api/work-centers/:id.
type UpdateWorkCenterRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	CostPerHour *decimal.Decimal `json:"cost_per_hour,omitempty"`
	Capacity    *int             `json:"capacity,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

// WorkCenterResponse representación de un centro de trabajo.
type WorkCenterResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CostPerHour decimal.Decimal `json:"cost_per_hour"`
	Capacity    int             `json:"capacity"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WorkCenterListResponse listado paginado.
type WorkCenterListResponse struct {
	Items []WorkCenterResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

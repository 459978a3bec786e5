package workorders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/manufacturing"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// WorkOrderUseCase casos de uso de órdenes de trabajo: pasos de una orden
// de producción ejecutados en un centro de trabajo. Comparten la máquina
// de estados de las órdenes; completar uno acumula horas * costo/hora del
// centro en el costo real del padre.
type WorkOrderUseCase struct {
	txRunner  TxRunner
	woRepo    repository.WorkOrderRepository
	orderRepo repository.ManufacturingOrderRepository
	wcRepo    repository.WorkCenterRepository
}

// NewWorkOrderUseCase construye el caso de uso.
func NewWorkOrderUseCase(
	txRunner TxRunner,
	woRepo repository.WorkOrderRepository,
	orderRepo repository.ManufacturingOrderRepository,
	wcRepo repository.WorkCenterRepository,
) *WorkOrderUseCase {
	return &WorkOrderUseCase{
		txRunner:  txRunner,
		woRepo:    woRepo,
		orderRepo: orderRepo,
		wcRepo:    wcRepo,
	}
}

// Create crea una orden de trabajo PENDING colgada de una orden de
// producción no terminal.
func (uc *WorkOrderUseCase) Create(in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	if in.ManufacturingOrderID == "" || in.WorkCenterID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.EstimatedHours.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(in.ManufacturingOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if manufacturing.IsTerminal(order.Status) {
		return nil, domain.ErrConflict
	}
	wc, err := uc.wcRepo.GetByID(in.WorkCenterID)
	if err != nil {
		return nil, err
	}
	if wc == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	wo := &entity.WorkOrder{
		ID:                   uuid.New().String(),
		ManufacturingOrderID: in.ManufacturingOrderID,
		WorkCenterID:         in.WorkCenterID,
		Name:                 in.Name,
		Sequence:             in.Sequence,
		Status:               entity.OrderStatusPending,
		EstimatedHours:       in.EstimatedHours,
		ActualHours:          decimal.Zero,
		AssignedToID:         in.AssignedToID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.woRepo.Create(wo); err != nil {
		return nil, err
	}
	return toWorkOrderResponse(wo), nil
}

// GetByID obtiene una orden de trabajo por ID.
func (uc *WorkOrderUseCase) GetByID(id string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.woRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	return toWorkOrderResponse(wo), nil
}

// List lista órdenes de trabajo con filtros enumerados.
func (uc *WorkOrderUseCase) List(q repository.WorkOrderQuery) (*dto.WorkOrderListResponse, error) {
	list, err := uc.woRepo.List(q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WorkOrderResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWorkOrderResponse(w))
	}
	return &dto.WorkOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Transition cambia el estado de la orden de trabajo con la misma máquina
// de estados que las órdenes de producción. Al completar: estampa
// CompletedAt, fija ActualHours (las estimadas si no se reportan), acumula
// horas * costo/hora del centro en el costo real del padre y recalcula su
// avance como completadas/total.
func (uc *WorkOrderUseCase) Transition(ctx context.Context, id string, in dto.TransitionWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	if !manufacturing.ValidStatus(in.Status) {
		return nil, domain.ErrInvalidInput
	}
	if in.ActualHours != nil && in.ActualHours.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.WorkOrderResponse
	err := uc.txRunner.RunWorkOrder(ctx, func(
		woRepo repository.WorkOrderRepository,
		orderRepo repository.ManufacturingOrderRepository,
	) error {
		wo, err := woRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if wo == nil {
			return domain.ErrNotFound
		}
		if err := manufacturing.ValidateTransition(wo.Status, in.Status); err != nil {
			return err
		}

		now := time.Now()
		switch in.Status {
		case entity.OrderStatusStarted:
			if wo.StartedAt == nil {
				wo.StartedAt = &now
			}
		case entity.OrderStatusCompleted:
			wo.CompletedAt = &now
			wo.ActualHours = wo.EstimatedHours
			if in.ActualHours != nil {
				wo.ActualHours = *in.ActualHours
			}
		}
		wo.Status = in.Status
		wo.UpdatedAt = now
		if err := woRepo.Update(wo); err != nil {
			return err
		}

		if in.Status == entity.OrderStatusCompleted {
			if err := uc.accrueToParent(woRepo, orderRepo, wo); err != nil {
				return err
			}
		}
		out = toWorkOrderResponse(wo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// accrueToParent suma el costo del trabajo terminado al padre y actualiza
// su avance. Si el padre ya está en un estado terminal solo acumula costo.
func (uc *WorkOrderUseCase) accrueToParent(
	woRepo repository.WorkOrderRepository,
	orderRepo repository.ManufacturingOrderRepository,
	wo *entity.WorkOrder,
) error {
	wc, err := uc.wcRepo.GetByID(wo.WorkCenterID)
	if err != nil {
		return err
	}
	if wc == nil {
		return domain.ErrNotFound
	}
	cost := wo.ActualHours.Mul(wc.CostPerHour)
	if err := orderRepo.AddActualCost(wo.ManufacturingOrderID, cost); err != nil {
		return err
	}

	order, err := orderRepo.GetForUpdate(wo.ManufacturingOrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	if manufacturing.IsTerminal(order.Status) {
		return nil
	}
	all, err := woRepo.ListByOrder(wo.ManufacturingOrderID)
	if err != nil {
		return err
	}
	completed := 0
	for _, w := range all {
		if w.Status == entity.OrderStatusCompleted {
			completed++
		}
	}
	if len(all) > 0 {
		order.Progress = completed * 100 / len(all)
	}
	order.UpdatedAt = time.Now()
	return orderRepo.Update(order)
}

func toWorkOrderResponse(w *entity.WorkOrder) *dto.WorkOrderResponse {
	if w == nil {
		return nil
	}
	return &dto.WorkOrderResponse{
		ID:                   w.ID,
		ManufacturingOrderID: w.ManufacturingOrderID,
		WorkCenterID:         w.WorkCenterID,
		Name:                 w.Name,
		Sequence:             w.Sequence,
		Status:               w.Status,
		EstimatedHours:       w.EstimatedHours,
		ActualHours:          w.ActualHours,
		AssignedToID:         w.AssignedToID,
		StartedAt:            w.StartedAt,
		CompletedAt:          w.CompletedAt,
		CreatedAt:            w.CreatedAt,
		UpdatedAt:            w.UpdatedAt,
	}
}

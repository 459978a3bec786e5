package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/application/bom"
	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/application/stock"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/manufacturing"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// OrderUseCase casos de uso de órdenes de producción: creación con
// estimación de costo desde la BOM ACTIVE, transiciones de estado con
// consumo de materiales y avance manual.
type OrderUseCase struct {
	txRunner    TxRunner
	orderRepo   repository.ManufacturingOrderRepository
	bomRepo     repository.BOMRepository
	itemRepo    repository.StockItemRepository
	productRepo repository.ProductRepository
	movementUC  *stock.PostMovementUseCase
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.ManufacturingOrderRepository,
	bomRepo repository.BOMRepository,
	itemRepo repository.StockItemRepository,
	productRepo repository.ProductRepository,
	movementUC *stock.PostMovementUseCase,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		bomRepo:     bomRepo,
		itemRepo:    itemRepo,
		productRepo: productRepo,
		movementUC:  movementUC,
	}
}

// Create crea una orden PENDING. El costo estimado sale de evaluar la BOM
// ACTIVE del producto; sin BOM ACTIVE la creación falla y no se persiste
// nada. Un faltante de stock no bloquea la creación, solo el arranque.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !manufacturing.ValidPriority(priority) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	activeBOM, err := bom.ResolveActiveBOM(uc.bomRepo, in.ProductID)
	if err != nil {
		return nil, err
	}
	components, err := loadComponents(uc.itemRepo, activeBOM)
	if err != nil {
		return nil, err
	}
	ev, err := manufacturing.EvaluateBOM(activeBOM, in.Quantity, components)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.ManufacturingOrder{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		BOMID:         activeBOM.ID,
		Quantity:      in.Quantity,
		Deadline:      in.Deadline,
		Priority:      priority,
		Status:        entity.OrderStatusPending,
		EstimatedCost: ev.TotalCost,
		ActualCost:    decimal.Zero,
		AssignedToID:  in.AssignedToID,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     userID,
	}

	// El consecutivo y el insert van en la misma tx para no quemar números
	// ni duplicarlos bajo creaciones concurrentes.
	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.ManufacturingOrderRepository,
		_ repository.WorkOrderRepository,
		_ repository.StockItemRepository,
		_ repository.StockMovementRepository,
	) error {
		seq, err := orderRepo.NextSequence(now.Year())
		if err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("MO-%d-%03d", now.Year(), seq)
		return orderRepo.Create(order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByID obtiene una orden por ID.
func (uc *OrderUseCase) GetByID(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order), nil
}

// List lista órdenes con filtros enumerados.
func (uc *OrderUseCase) List(q repository.OrderQuery) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.List(q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// Transition cambia el estado de la orden validando la máquina de estados.
// El primer paso a STARTED consume los materiales de la BOM via el ledger
// (salidas OUT referenciando el número de orden) y acumula el costo real;
// si algún componente no alcanza, toda la transición se revierte.
// COMPLETED estampa CompletedAt y fija el avance en 100. CANCELLED se
// bloquea mientras existan órdenes de trabajo activas.
func (uc *OrderUseCase) Transition(ctx context.Context, id, newStatus, userID string) (*dto.OrderResponse, error) {
	if !manufacturing.ValidStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.OrderResponse
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.ManufacturingOrderRepository,
		woRepo repository.WorkOrderRepository,
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		order, err := orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := manufacturing.ValidateTransition(order.Status, newStatus); err != nil {
			return err
		}

		now := time.Now()
		switch newStatus {
		case entity.OrderStatusStarted:
			// Solo el primer arranque consume materiales; reanudar desde
			// PAUSED no vuelve a descontar
			if order.Status == entity.OrderStatusPending {
				consumed, err := uc.consumeMaterials(itemRepo, movRepo, order, userID, now)
				if err != nil {
					return err
				}
				order.ActualCost = order.ActualCost.Add(consumed)
				order.StartedAt = &now
			}
		case entity.OrderStatusCompleted:
			order.CompletedAt = &now
			order.Progress = 100
		case entity.OrderStatusCancelled:
			active, err := woRepo.CountActiveByOrder(order.ID)
			if err != nil {
				return err
			}
			if active > 0 {
				return domain.ErrActiveWorkOrders
			}
		}

		order.Status = newStatus
		order.UpdatedAt = now
		if err := orderRepo.Update(order); err != nil {
			return err
		}
		out = toOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProgress fija el avance manual (0-100). Solo tiene sentido con la
// orden en curso; el 100 definitivo lo pone la transición a COMPLETED.
func (uc *OrderUseCase) UpdateProgress(id string, progress int) (*dto.OrderResponse, error) {
	if progress < 0 || progress > 100 {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStatusStarted && order.Status != entity.OrderStatusPaused {
		return nil, domain.ErrConflict
	}
	order.Progress = progress
	order.UpdatedAt = time.Now()
	if err := uc.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// consumeMaterials descuenta del ledger cada componente de la BOM de la
// orden (cantidad por unidad * unidades a producir) y devuelve el costo
// total de los materiales consumidos.
func (uc *OrderUseCase) consumeMaterials(
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	order *entity.ManufacturingOrder,
	userID string,
	now time.Time,
) (decimal.Decimal, error) {
	bomEntity, err := uc.bomRepo.GetByID(order.BOMID)
	if err != nil {
		return decimal.Zero, err
	}
	if bomEntity == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	total := decimal.Zero
	for _, it := range bomEntity.Items {
		required := it.Quantity.Mul(order.Quantity)
		_, item, err := uc.movementUC.PostOUTInTx(
			itemRepo, movRepo, it.ComponentID, required, order.OrderNumber, userID, now,
		)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(required.Mul(item.UnitCost))
	}
	return total, nil
}

func loadComponents(itemRepo repository.StockItemRepository, b *entity.BillOfMaterials) (map[string]*entity.StockItem, error) {
	components := make(map[string]*entity.StockItem, len(b.Items))
	for _, it := range b.Items {
		comp, err := itemRepo.GetByID(it.ComponentID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			return nil, domain.ErrNotFound
		}
		components[comp.ID] = comp
	}
	return components, nil
}

func toOrderResponse(o *entity.ManufacturingOrder) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		ProductID:     o.ProductID,
		BOMID:         o.BOMID,
		Quantity:      o.Quantity,
		Deadline:      o.Deadline,
		Priority:      o.Priority,
		Status:        o.Status,
		EstimatedCost: o.EstimatedCost.Round(2),
		ActualCost:    o.ActualCost.Round(2),
		Progress:      o.Progress,
		AssignedToID:  o.AssignedToID,
		Notes:         o.Notes,
		StartedAt:     o.StartedAt,
		CompletedAt:   o.CompletedAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

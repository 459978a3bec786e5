package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// SheetLine línea de material de la hoja de orden.
type SheetLine struct {
	SKU      string
	Name     string
	PerUnit  decimal.Decimal
	Required decimal.Decimal
	Unit     string
}

// SheetWorkOrder paso de trabajo de la hoja de orden.
type SheetWorkOrder struct {
	Sequence       int
	Name           string
	WorkCenter     string
	Status         string
	EstimatedHours decimal.Decimal
	ActualHours    decimal.Decimal
}

// SheetData todo lo que necesita la hoja de orden imprimible.
type SheetData struct {
	Order      *entity.ManufacturingOrder
	Product    *entity.Product
	Lines      []SheetLine
	WorkOrders []SheetWorkOrder
}

// SheetGenerator renderiza la hoja de orden. Lo implementa infrastructure/pdf.
type SheetGenerator interface {
	GenerateOrderSheet(ctx context.Context, data SheetData) ([]byte, error)
}

// SheetUseCase arma la hoja de orden de producción imprimible: la orden,
// su producto, los materiales de la BOM capturada y los pasos de trabajo.
type SheetUseCase struct {
	orderRepo   repository.ManufacturingOrderRepository
	productRepo repository.ProductRepository
	bomRepo     repository.BOMRepository
	itemRepo    repository.StockItemRepository
	woRepo      repository.WorkOrderRepository
	wcRepo      repository.WorkCenterRepository
	generator   SheetGenerator
}

// NewSheetUseCase construye el caso de uso.
func NewSheetUseCase(
	orderRepo repository.ManufacturingOrderRepository,
	productRepo repository.ProductRepository,
	bomRepo repository.BOMRepository,
	itemRepo repository.StockItemRepository,
	woRepo repository.WorkOrderRepository,
	wcRepo repository.WorkCenterRepository,
	generator SheetGenerator,
) *SheetUseCase {
	return &SheetUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		bomRepo:     bomRepo,
		itemRepo:    itemRepo,
		woRepo:      woRepo,
		wcRepo:      wcRepo,
		generator:   generator,
	}
}

// Generate devuelve los bytes del PDF de la hoja de orden.
func (uc *SheetUseCase) Generate(ctx context.Context, orderID string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(order.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	bom, err := uc.bomRepo.GetByID(order.BOMID)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}

	lines := make([]SheetLine, 0, len(bom.Items))
	for _, it := range bom.Items {
		comp, err := uc.itemRepo.GetByID(it.ComponentID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			return nil, domain.ErrNotFound
		}
		lines = append(lines, SheetLine{
			SKU:      comp.SKU,
			Name:     comp.Name,
			PerUnit:  it.Quantity,
			Required: it.Quantity.Mul(order.Quantity),
			Unit:     it.Unit,
		})
	}

	wos, err := uc.woRepo.ListByOrder(order.ID)
	if err != nil {
		return nil, err
	}
	steps := make([]SheetWorkOrder, 0, len(wos))
	for _, wo := range wos {
		centerName := wo.WorkCenterID
		if wc, err := uc.wcRepo.GetByID(wo.WorkCenterID); err == nil && wc != nil {
			centerName = wc.Name
		}
		steps = append(steps, SheetWorkOrder{
			Sequence:       wo.Sequence,
			Name:           wo.Name,
			WorkCenter:     centerName,
			Status:         wo.Status,
			EstimatedHours: wo.EstimatedHours,
			ActualHours:    wo.ActualHours,
		})
	}

	return uc.generator.GenerateOrderSheet(ctx, SheetData{
		Order:      order,
		Product:    product,
		Lines:      lines,
		WorkOrders: steps,
	})
}

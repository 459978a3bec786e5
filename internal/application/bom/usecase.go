package bom

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

// BOMUseCase casos de uso para listas de materiales: CRUD, activación
// transaccional y evaluación de requerimientos contra el stock actual.
type BOMUseCase struct {
	txRunner    TxRunner
	bomRepo     repository.BOMRepository
	productRepo repository.ProductRepository
	itemRepo    repository.StockItemRepository
}

// NewBOMUseCase construye el caso de uso.
func NewBOMUseCase(
	txRunner TxRunner,
	bomRepo repository.BOMRepository,
	productRepo repository.ProductRepository,
	itemRepo repository.StockItemRepository,
) *BOMUseCase {
	return &BOMUseCase{
		txRunner:    txRunner,
		bomRepo:     bomRepo,
		productRepo: productRepo,
		itemRepo:    itemRepo,
	}
}

// Create crea una BOM en estado DRAFT con al menos un item. La versión es
// el siguiente consecutivo del producto.
func (uc *BOMUseCase) Create(userID string, in dto.CreateBOMRequest) (*dto.BOMResponse, error) {
	if in.ProductID == "" || in.Name == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	version, err := uc.bomRepo.NextVersion(in.ProductID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	bom := &entity.BillOfMaterials{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Name:      in.Name,
		Version:   version,
		Status:    entity.BOMStatusDraft,
		Notes:     in.Notes,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
	}
	for i := range bom.Items {
		bom.Items[i].BOMID = bom.ID
	}
	if err := uc.bomRepo.Create(bom); err != nil {
		return nil, err
	}
	return toBOMResponse(bom), nil
}

// GetByID obtiene una BOM con sus items.
func (uc *BOMUseCase) GetByID(id string) (*dto.BOMResponse, error) {
	bom, err := uc.bomRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}
	return toBOMResponse(bom), nil
}

// Update actualiza nombre/notas y, si Items viene, reemplaza la lista
// completa (delete-and-recreate). Los items de una BOM ACTIVE están
// congelados: para cambiar la receta vigente se crea y activa otra versión.
func (uc *BOMUseCase) Update(id string, in dto.UpdateBOMRequest) (*dto.BOMResponse, error) {
	bom, err := uc.bomRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		bom.Name = *in.Name
	}
	if in.Notes != nil {
		bom.Notes = *in.Notes
	}
	if in.Items != nil {
		if bom.Status == entity.BOMStatusActive {
			return nil, domain.ErrConflict
		}
		if len(in.Items) == 0 {
			return nil, domain.ErrInvalidInput
		}
		items, err := uc.buildItems(in.Items)
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].BOMID = bom.ID
		}
		if err := uc.bomRepo.ReplaceItems(bom.ID, items); err != nil {
			return nil, err
		}
		bom.Items = items
	}
	bom.UpdatedAt = time.Now()
	if err := uc.bomRepo.Update(bom); err != nil {
		return nil, err
	}
	return toBOMResponse(bom), nil
}

// Activate marca la BOM como ACTIVE desactivando a sus hermanas en la
// misma transacción (a lo sumo una ACTIVE por producto).
func (uc *BOMUseCase) Activate(ctx context.Context, id string) (*dto.BOMResponse, error) {
	var out *dto.BOMResponse
	err := uc.txRunner.RunBOM(ctx, func(bomRepo repository.BOMRepository, productRepo repository.ProductRepository) error {
		bom, err := bomRepo.GetByID(id)
		if err != nil {
			return err
		}
		if bom == nil {
			return domain.ErrNotFound
		}
		if len(bom.Items) == 0 {
			return domain.ErrInvalidInput
		}
		// Serializa activaciones concurrentes del mismo producto: sin el
		// lock, dos tx pueden desactivar sobre un snapshot sin ACTIVE y
		// terminar ambas en ACTIVE.
		product, err := productRepo.GetForUpdate(bom.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := bomRepo.DeactivateByProduct(bom.ProductID, bom.ID); err != nil {
			return err
		}
		if err := bomRepo.SetStatus(bom.ID, entity.BOMStatusActive); err != nil {
			return err
		}
		bom.Status = entity.BOMStatusActive
		bom.UpdatedAt = time.Now()
		out = toBOMResponse(bom)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List lista BOMs con filtros enumerados.
func (uc *BOMUseCase) List(q repository.BOMQuery) (*dto.BOMListResponse, error) {
	list, err := uc.bomRepo.List(q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BOMResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBOMResponse(b))
	}
	return &dto.BOMListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// EvaluateRequirements resuelve la BOM ACTIVE del producto y calcula
// requerimientos y costo para quantity unidades. Lectura pura: seguro de
// llamar repetidamente (previews de UI) sin afectar stock.
func (uc *BOMUseCase) EvaluateRequirements(productID string, quantity decimal.Decimal) (*dto.CalculateRequirementsResponse, error) {
	bom, err := ResolveActiveBOM(uc.bomRepo, productID)
	if err != nil {
		return nil, err
	}
	components, err := loadComponents(uc.itemRepo, bom)
	if err != nil {
		return nil, err
	}
	ev, err := manufacturing.EvaluateBOM(bom, quantity, components)
	if err != nil {
		return nil, err
	}
	return toRequirementsResponse(bom.ID, ev), nil
}

// ResolveActiveBOM devuelve la única BOM ACTIVE del producto.
// Cero activas es un error de negocio (sin receta); más de una es una
// violación de integridad que nunca debe ocurrir.
func ResolveActiveBOM(bomRepo repository.BOMRepository, productID string) (*entity.BillOfMaterials, error) {
	active, err := bomRepo.FindActiveByProduct(productID)
	if err != nil {
		return nil, err
	}
	switch len(active) {
	case 0:
		return nil, domain.ErrNoActiveBOM
	case 1:
		return active[0], nil
	default:
		return nil, domain.ErrMultipleActiveBOM
	}
}

func loadComponents(itemRepo repository.StockItemRepository, bom *entity.BillOfMaterials) (map[string]*entity.StockItem, error) {
	components := make(map[string]*entity.StockItem, len(bom.Items))
	for _, it := range bom.Items {
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

func (uc *BOMUseCase) buildItems(inputs []dto.BOMItemInput) ([]entity.BOMItem, error) {
	items := make([]entity.BOMItem, 0, len(inputs))
	for i, in := range inputs {
		if in.ComponentID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		comp, err := uc.itemRepo.GetByID(in.ComponentID)
		if err != nil {
			return nil, err
		}
		if comp == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.BOMItem{
			ID:          uuid.New().String(),
			ComponentID: in.ComponentID,
			Quantity:    in.Quantity,
			Unit:        in.Unit,
			Sequence:    i + 1,
		})
	}
	return items, nil
}

func toBOMResponse(b *entity.BillOfMaterials) *dto.BOMResponse {
	if b == nil {
		return nil
	}
	items := make([]dto.BOMItemResponse, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, dto.BOMItemResponse{
			ID:          it.ID,
			ComponentID: it.ComponentID,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			Sequence:    it.Sequence,
		})
	}
	return &dto.BOMResponse{
		ID:        b.ID,
		ProductID: b.ProductID,
		Name:      b.Name,
		Version:   b.Version,
		Status:    b.Status,
		Notes:     b.Notes,
		Items:     items,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// toRequirementsResponse mapea la evaluación al DTO. El redondeo a 2
// decimales de los montos ocurre solo aquí, nunca durante el cálculo.
func toRequirementsResponse(bomID string, ev *manufacturing.Evaluation) *dto.CalculateRequirementsResponse {
	reqs := make([]dto.RequirementDTO, 0, len(ev.Requirements))
	for _, r := range ev.Requirements {
		reqs = append(reqs, dto.RequirementDTO{
			ComponentID: r.ComponentID,
			SKU:         r.SKU,
			Name:        r.Name,
			Required:    r.Required,
			Available:   r.Available,
			Shortfall:   r.Shortfall,
			UnitCost:    r.UnitCost.Round(2),
			LineCost:    r.LineCost.Round(2),
			CanFulfill:  r.CanFulfill,
		})
	}
	return &dto.CalculateRequirementsResponse{
		BOMID:        bomID,
		Requirements: reqs,
		Summary: dto.RequirementsSummaryDTO{
			TotalCost:      ev.TotalCost.Round(2),
			CanFulfill:     ev.CanFulfill,
			ShortfallCount: ev.ShortfallCount,
		},
	}
}

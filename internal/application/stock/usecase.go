package stock

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// StockUseCase casos de uso CRUD para items de stock. La cantidad no se
// edita aquí: solo cambia vía PostMovementUseCase.
type StockUseCase struct {
	itemRepo repository.StockItemRepository
	movRepo  repository.StockMovementRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(itemRepo repository.StockItemRepository, movRepo repository.StockMovementRepository) *StockUseCase {
	return &StockUseCase{itemRepo: itemRepo, movRepo: movRepo}
}

// Create crea un item de stock. El SKU es único (case-insensitive).
// La existencia inicial queda registrada como el punto de partida del
// ledger; los cambios posteriores van siempre por movimientos.
func (uc *StockUseCase) Create(userID string, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity.LessThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	existing, err := uc.itemRepo.GetBySKU(strings.ToLower(in.SKU))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.StockItem{
		ID:           uuid.New().String(),
		SKU:          in.SKU,
		Name:         in.Name,
		Category:     in.Category,
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		ReorderPoint: in.ReorderPoint,
		MaxStock:     in.MaxStock,
		Unit:         in.Unit,
		Location:     in.Location,
		Status:       entity.StockItemActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return toStockItemResponse(item), nil
}

// GetByID obtiene un item por ID.
func (uc *StockUseCase) GetByID(id string) (*dto.StockItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toStockItemResponse(item), nil
}

// Update actualiza los datos maestros del item. No toca Quantity.
func (uc *StockUseCase) Update(id string, in dto.UpdateStockItemRequest) (*dto.StockItemResponse, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.UnitCost != nil {
		if in.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.UnitCost = *in.UnitCost
	}
	if in.ReorderPoint != nil {
		item.ReorderPoint = *in.ReorderPoint
	}
	if in.MaxStock != nil {
		item.MaxStock = in.MaxStock
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	return toStockItemResponse(item), nil
}

// Archive archiva el item (soft delete). Los items nunca se borran
// físicamente: su historial de movimientos debe seguir siendo auditable.
func (uc *StockUseCase) Archive(id string) error {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.itemRepo.Archive(id)
}

// List lista items con filtros enumerados y paginación.
func (uc *StockUseCase) List(q repository.StockItemQuery) (*dto.StockItemListResponse, error) {
	list, err := uc.itemRepo.List(q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toStockItemResponse(it))
	}
	return &dto.StockItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// ListMovements lista movimientos del ledger con filtros enumerados.
func (uc *StockUseCase) ListMovements(q repository.MovementQuery) (*dto.MovementListResponse, error) {
	list, err := uc.movRepo.List(q)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

func toStockItemResponse(it *entity.StockItem) *dto.StockItemResponse {
	if it == nil {
		return nil
	}
	return &dto.StockItemResponse{
		ID:           it.ID,
		SKU:          it.SKU,
		Name:         it.Name,
		Category:     it.Category,
		Quantity:     it.Quantity,
		UnitCost:     it.UnitCost.Round(2),
		ReorderPoint: it.ReorderPoint,
		MaxStock:     it.MaxStock,
		Unit:         it.Unit,
		Location:     it.Location,
		Status:       it.Status,
		LowStock:     it.Quantity.LessThanOrEqual(it.ReorderPoint),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:               m.ID,
		StockItemID:      m.StockItemID,
		Type:             m.Type,
		Quantity:         m.Quantity,
		Delta:            m.Delta,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reference:        m.Reference,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}

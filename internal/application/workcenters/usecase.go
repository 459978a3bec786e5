package workcenters

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// WorkCenterUseCase CRUD de centros de trabajo.
type WorkCenterUseCase struct {
	wcRepo repository.WorkCenterRepository
}

// NewWorkCenterUseCase construye el caso de uso.
func NewWorkCenterUseCase(wcRepo repository.WorkCenterRepository) *WorkCenterUseCase {
	return &WorkCenterUseCase{wcRepo: wcRepo}
}

// Create crea un centro de trabajo. El código es único.
func (uc *WorkCenterUseCase) Create(in dto.CreateWorkCenterRequest) (*dto.WorkCenterResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CostPerHour.LessThan(decimal.Zero) || in.Capacity < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.wcRepo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	wc := &entity.WorkCenter{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		CostPerHour: in.CostPerHour,
		Capacity:    in.Capacity,
		Status:      entity.WorkCenterActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.wcRepo.Create(wc); err != nil {
		return nil, err
	}
	return toWorkCenterResponse(wc), nil
}

// GetByID obtiene un centro de trabajo por ID.
func (uc *WorkCenterUseCase) GetByID(id string) (*dto.WorkCenterResponse, error) {
	wc, err := uc.wcRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wc == nil {
		return nil, domain.ErrNotFound
	}
	return toWorkCenterResponse(wc), nil
}

// Update actualiza los datos del centro de trabajo.
func (uc *WorkCenterUseCase) Update(id string, in dto.UpdateWorkCenterRequest) (*dto.WorkCenterResponse, error) {
	wc, err := uc.wcRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wc == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		wc.Name = *in.Name
	}
	if in.Description != nil {
		wc.Description = *in.Description
	}
	if in.CostPerHour != nil {
		if in.CostPerHour.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		wc.CostPerHour = *in.CostPerHour
	}
	if in.Capacity != nil {
		if *in.Capacity < 0 {
			return nil, domain.ErrInvalidInput
		}
		wc.Capacity = *in.Capacity
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.WorkCenterActive, entity.WorkCenterMaintenance, entity.WorkCenterInactive:
			wc.Status = *in.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	wc.UpdatedAt = time.Now()
	if err := uc.wcRepo.Update(wc); err != nil {
		return nil, err
	}
	return toWorkCenterResponse(wc), nil
}

// List lista centros de trabajo, opcionalmente por estado.
func (uc *WorkCenterUseCase) List(status string, limit, offset int) (*dto.WorkCenterListResponse, error) {
	list, err := uc.wcRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WorkCenterResponse, 0, len(list))
	for _, wc := range list {
		items = append(items, *toWorkCenterResponse(wc))
	}
	return &dto.WorkCenterListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toWorkCenterResponse(wc *entity.WorkCenter) *dto.WorkCenterResponse {
	if wc == nil {
		return nil
	}
	return &dto.WorkCenterResponse{
		ID:          wc.ID,
		Code:        wc.Code,
		Name:        wc.Name,
		Description: wc.Description,
		CostPerHour: wc.CostPerHour.Round(2),
		Capacity:    wc.Capacity,
		Status:      wc.Status,
		CreatedAt:   wc.CreatedAt,
		UpdatedAt:   wc.UpdatedAt,
	}
}

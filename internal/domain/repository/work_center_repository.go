package repository

import "github.com/flowforge/flowforge-api/internal/domain/entity"

// WorkCenterRepository puerto de persistencia para WorkCenter.
type WorkCenterRepository interface {
	Create(wc *entity.WorkCenter) error
	GetByID(id string) (*entity.WorkCenter, error)
	GetByCode(code string) (*entity.WorkCenter, error)
	Update(wc *entity.WorkCenter) error
	List(status string, limit, offset int) ([]*entity.WorkCenter, error)
}

package repository

import "github.com/flowforge/flowforge-api/internal/domain/entity"

// BOMQuery filtros enumerados para listar BOMs.
type BOMQuery struct {
	ProductID string
	Status    string // DRAFT, ACTIVE, INACTIVE, vacío = todos
	Limit     int
	Offset    int
}

// BOMRepository puerto de persistencia para BillOfMaterials y sus items.
// ReplaceItems implementa la edición delete-and-recreate de la lista.
type BOMRepository interface {
	Create(bom *entity.BillOfMaterials) error
	GetByID(id string) (*entity.BillOfMaterials, error) // incluye items
	// FindActiveByProduct devuelve todas las BOM ACTIVE del producto.
	// Más de una es una violación de integridad que el caller debe reportar.
	FindActiveByProduct(productID string) ([]*entity.BillOfMaterials, error)
	NextVersion(productID string) (int, error)
	Update(bom *entity.BillOfMaterials) error
	ReplaceItems(bomID string, items []entity.BOMItem) error
	// DeactivateByProduct marca INACTIVE toda BOM ACTIVE del producto,
	// excepto exceptID. Usar en la misma tx que la activación.
	DeactivateByProduct(productID, exceptID string) error
	SetStatus(bomID, status string) error
	List(q BOMQuery) ([]*entity.BillOfMaterials, error)
}

package repository

import "github.com/flowforge/flowforge-api/internal/domain/entity"

// ProductQuery filtros enumerados para listar productos.
type ProductQuery struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar la activación de BOMs por producto. Solo tiene sentido
	// dentro de una tx.
	GetForUpdate(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(q ProductQuery) ([]*entity.Product, error)
	Delete(id string) error
}

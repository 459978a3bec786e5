package repository

import (
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/domain/entity"
)

// StockItemQuery filtros enumerados para listar items de stock.
// Reemplaza filtros dinámicos ad hoc: todo filtro soportado está aquí.
type StockItemQuery struct {
	Status   string // active, archived, vacío = todos
	Category string
	Search   string // matchea SKU o nombre
	LowStock bool   // solo items con quantity <= reorder_point
	Limit    int
	Offset   int
}

// StockItemRepository define el puerto de persistencia para StockItem (DIP).
// La cantidad solo se modifica vía UpdateQuantity dentro de la transacción
// del ledger, nunca por Update.
type StockItemRepository interface {
	Create(item *entity.StockItem) error
	GetByID(id string) (*entity.StockItem, error)
	GetBySKU(sku string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para la secuencia
	// leer-validar-escribir del ledger. Solo tiene sentido dentro de una tx.
	GetForUpdate(id string) (*entity.StockItem, error)
	UpdateQuantity(id string, quantity decimal.Decimal) error
	Update(item *entity.StockItem) error
	Archive(id string) error
	List(q StockItemQuery) ([]*entity.StockItem, error)
}

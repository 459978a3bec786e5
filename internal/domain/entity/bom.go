package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados válidos para BillOfMaterials.
const (
	BOMStatusDraft    = "DRAFT"
	BOMStatusActive   = "ACTIVE"
	BOMStatusInactive = "INACTIVE"
)

// BillOfMaterials receta versionada de un producto.
// Invariante: a lo sumo una BOM ACTIVE por producto; activar una versión
// desactiva a sus hermanas en la misma transacción.
type BillOfMaterials struct {
	ID        string
	ProductID string
	Name      string
	Version   int // consecutivo por producto
	Status    string
	Notes     string
	Items     []BOMItem // ordenados por Sequence
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

// BOMItem requerimiento de un componente por unidad de producto.
// La lista de items se reemplaza completa al editar la BOM (delete-and-recreate).
type BOMItem struct {
	ID          string
	BOMID       string
	ComponentID string          // StockItem
	Quantity    decimal.Decimal // por unidad de producto, > 0
	Unit        string
	Sequence    int
}

package bom

import (
	"context"

	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de BOM y producto atados a esa tx. La activación bloquea
// la fila del producto y luego desactiva hermanas + marca ACTIVE, de modo
// que dos activaciones concurrentes del mismo producto se serializan y el
// invariante de una sola BOM activa se preserva.
type TxRunner interface {
	RunBOM(ctx context.Context, fn func(
		bomRepo repository.BOMRepository,
		productRepo repository.ProductRepository,
	) error) error
}

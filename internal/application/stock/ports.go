package stock

import (
	"context"

	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger:
// el registro del movimiento y la actualización de la cantidad se
// confirman juntos o no se confirma ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

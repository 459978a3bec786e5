package orders

import (
	"context"

	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que participan en el ciclo de vida de una orden de
// producción atados a esa tx. La transición a STARTED consume materiales
// del ledger de stock en la misma transacción que el cambio de estado:
// o pasa todo o no pasa nada.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.ManufacturingOrderRepository,
		woRepo repository.WorkOrderRepository,
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

package workorders

import (
	"context"

	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de órdenes de trabajo y de producción atados a esa tx.
// Completar una orden de trabajo acumula su costo en la orden padre y
// recalcula el avance: ambos efectos van juntos o no van.
type TxRunner interface {
	RunWorkOrder(ctx context.Context, fn func(
		woRepo repository.WorkOrderRepository,
		orderRepo repository.ManufacturingOrderRepository,
	) error) error
}

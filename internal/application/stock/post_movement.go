package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// PostMovementUseCase registra movimientos del ledger de stock de forma
// transaccional (IN, OUT, ADJUSTMENT) con bloqueo de fila (SELECT FOR
// UPDATE) y Commit/Rollback.
type PostMovementUseCase struct {
	txRunner TxRunner
}

// NewPostMovementUseCase construye el caso de uso.
func NewPostMovementUseCase(txRunner TxRunner) *PostMovementUseCase {
	return &PostMovementUseCase{txRunner: txRunner}
}

// MovementInput entrada para registrar un movimiento.
// Para IN/OUT, Quantity es la magnitud (> 0); para ADJUSTMENT es la nueva
// cantidad absoluta (>= 0) y el delta almacenado puede ser negativo.
type MovementInput struct {
	StockItemID string
	Type        string
	Quantity    decimal.Decimal
	Reference   string
	Notes       string
	UserID      string
}

// PostMovement valida la entrada, bloquea la fila del item, aplica el
// cambio según el tipo y persiste cantidad + movimiento en una sola
// transacción. Devuelve el movimiento creado y el item actualizado.
func (uc *PostMovementUseCase) PostMovement(ctx context.Context, input MovementInput) (*dto.PostMovementResponse, error) {
	if input.StockItemID == "" || input.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
	case entity.MovementTypeADJUSTMENT:
		if input.Quantity.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	var out *dto.PostMovementResponse
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		mov, item, err := applyMovement(itemRepo, movRepo, input, time.Now())
		if err != nil {
			return err
		}
		out = &dto.PostMovementResponse{
			Movement:  *toMovementResponse(mov),
			StockItem: *toStockItemResponse(item),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PostOUTInTx registra una salida usando los repositorios del caller
// (misma transacción). Lo usa la transición a STARTED de una orden de
// producción para consumir materiales junto con el resto de sus efectos.
// Devuelve el movimiento y el item ya actualizado (con su costo unitario).
func (uc *PostMovementUseCase) PostOUTInTx(
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	stockItemID string,
	quantity decimal.Decimal,
	reference, userID string,
	now time.Time,
) (*entity.StockMovement, *entity.StockItem, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidQuantity
	}
	return applyMovement(itemRepo, movRepo, MovementInput{
		StockItemID: stockItemID,
		Type:        entity.MovementTypeOUT,
		Quantity:    quantity,
		Reference:   reference,
		UserID:      userID,
	}, now)
}

// applyMovement ejecuta la secuencia leer-validar-escribir sobre repos ya
// atados a una transacción. El caller garantiza la validación de entrada.
func applyMovement(
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	input MovementInput,
	now time.Time,
) (*entity.StockMovement, *entity.StockItem, error) {
	// Bloquea la fila del item para que chequeo y escritura sean una unidad
	item, err := itemRepo.GetForUpdate(input.StockItemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.ErrNotFound
	}

	previous := item.Quantity
	var newQty, delta decimal.Decimal
	switch input.Type {
	case entity.MovementTypeIN:
		newQty = previous.Add(input.Quantity)
		delta = input.Quantity
	case entity.MovementTypeOUT:
		if previous.LessThan(input.Quantity) {
			return nil, nil, &domain.InsufficientStockError{
				Available: previous,
				Requested: input.Quantity,
			}
		}
		newQty = previous.Sub(input.Quantity)
		delta = input.Quantity.Neg()
	case entity.MovementTypeADJUSTMENT:
		// Quantity es el nuevo valor absoluto; el delta guardado puede ser negativo
		newQty = input.Quantity
		delta = input.Quantity.Sub(previous)
	default:
		return nil, nil, domain.ErrInvalidInput
	}

	if err := itemRepo.UpdateQuantity(item.ID, newQty); err != nil {
		return nil, nil, err
	}
	item.Quantity = newQty
	item.UpdatedAt = now

	mov := &entity.StockMovement{
		ID:               uuid.New().String(),
		StockItemID:      item.ID,
		Type:             input.Type,
		Quantity:         input.Quantity,
		Delta:            delta,
		PreviousQuantity: previous,
		NewQuantity:      newQty,
		Reference:        input.Reference,
		Notes:            input.Notes,
		CreatedAt:        now,
		CreatedBy:        input.UserID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, nil, err
	}
	return mov, item, nil
}

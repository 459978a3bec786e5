package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de stock.
// Para IN/OUT, Quantity es la magnitud (siempre positiva); la dirección la
// define el tipo. Para ADJUSTMENT, Quantity es la nueva cantidad absoluta.
const (
	MovementTypeIN         = "IN"
	MovementTypeOUT        = "OUT"
	MovementTypeADJUSTMENT = "ADJUSTMENT"
)

// StockMovement registro inmutable de auditoría de un cambio de existencia.
// Invariante: PreviousQuantity + Delta == NewQuantity, NewQuantity >= 0.
// Append-only: nunca se actualiza ni se borra después de creado.
type StockMovement struct {
	ID               string
	StockItemID      string
	Type             string          // IN, OUT, ADJUSTMENT
	Quantity         decimal.Decimal // magnitud (IN/OUT) o valor absoluto (ADJUSTMENT)
	Delta            decimal.Decimal // cambio aplicado con signo
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	Reference        string // orden, OC, nota de ajuste, etc.
	Notes            string
	CreatedAt        time.Time
	CreatedBy        string // UserID
}

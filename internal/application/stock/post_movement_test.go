package stock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge-api/internal/application/stock"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia
// ──────────────────────────────────────────────────────────────────────────────

type fakeItemRepo struct {
	items map[string]*entity.StockItem
}

func (r *fakeItemRepo) Create(item *entity.StockItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) GetByID(id string) (*entity.StockItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) GetBySKU(string) (*entity.StockItem, error) { return nil, nil }

func (r *fakeItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	return r.GetByID(id)
}

func (r *fakeItemRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	return nil
}

func (r *fakeItemRepo) Update(item *entity.StockItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) Archive(id string) error {
	it, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Status = entity.StockItemArchived
	return nil
}

func (r *fakeItemRepo) List(repository.StockItemQuery) ([]*entity.StockItem, error) {
	return nil, nil
}

type fakeMovRepo struct {
	movements []*entity.StockMovement
	failNext  bool
}

func (r *fakeMovRepo) Create(m *entity.StockMovement) error {
	if r.failNext {
		r.failNext = false
		return errors.New("db caída")
	}
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovRepo) GetByID(string) (*entity.StockMovement, error) { return nil, nil }

func (r *fakeMovRepo) List(repository.MovementQuery) ([]*entity.StockMovement, error) {
	return r.movements, nil
}

// fakeTxRunner ejecuta el callback sobre los fakes sin transacción real.
type fakeTxRunner struct {
	items *fakeItemRepo
	movs  *fakeMovRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	itemRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return fn(r.items, r.movs)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newLedger(initialQty string) (*stock.PostMovementUseCase, *fakeItemRepo, *fakeMovRepo) {
	items := &fakeItemRepo{items: map[string]*entity.StockItem{
		"item-1": {
			ID:       "item-1",
			SKU:      "MAT-001",
			Name:     "Tornillo M6",
			Quantity: dec(initialQty),
			UnitCost: dec("0.35"),
			Status:   entity.StockItemActive,
		},
	}}
	movs := &fakeMovRepo{}
	uc := stock.NewPostMovementUseCase(&fakeTxRunner{items: items, movs: movs})
	return uc, items, movs
}

// ──────────────────────────────────────────────────────────────────────────────
// PostMovement
// ──────────────────────────────────────────────────────────────────────────────

// Entrada: 150 + IN 100 = 250, con previous/new registrados en el movimiento.
func TestPostMovement_Entrada(t *testing.T) {
	uc, items, movs := newLedger("150")

	out, err := uc.PostMovement(context.Background(), stock.MovementInput{
		StockItemID: "item-1",
		Type:        entity.MovementTypeIN,
		Quantity:    dec("100"),
		Reference:   "OC-2026-001",
		UserID:      "user-1",
	})
	require.NoError(t, err)

	assert.True(t, out.Movement.PreviousQuantity.Equal(dec("150")))
	assert.True(t, out.Movement.NewQuantity.Equal(dec("250")))
	assert.True(t, out.Movement.Delta.Equal(dec("100")))
	assert.True(t, out.StockItem.Quantity.Equal(dec("250")))
	assert.True(t, items.items["item-1"].Quantity.Equal(dec("250")),
		"la cantidad persistida debe reflejar el movimiento")
	require.Len(t, movs.movements, 1)
	assert.Equal(t, "user-1", movs.movements[0].CreatedBy)
}

// Salida que excede la existencia: falla con disponible vs solicitado y
// la cantidad no cambia (sin aplicación parcial).
func TestPostMovement_SalidaInsuficiente(t *testing.T) {
	uc, items, movs := newLedger("75")

	_, err := uc.PostMovement(context.Background(), stock.MovementInput{
		StockItemID: "item-1",
		Type:        entity.MovementTypeOUT,
		Quantity:    dec("100"),
		UserID:      "user-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.True(t, ise.Available.Equal(dec("75")))
	assert.True(t, ise.Requested.Equal(dec("100")))

	assert.True(t, items.items["item-1"].Quantity.Equal(dec("75")),
		"la cantidad debe quedar intacta tras el fallo")
	assert.Empty(t, movs.movements, "no debe registrarse movimiento")
}

// Frontera: OUT por exactamente la existencia deja el item en cero;
// una unidad más falla.
func TestPostMovement_SalidaExacta(t *testing.T) {
	uc, items, _ := newLedger("60")

	out, err := uc.PostMovement(context.Background(), stock.MovementInput{
		StockItemID: "item-1",
		Type:        entity.MovementTypeOUT,
		Quantity:    dec("60"),
		UserID:      "user-1",
	})
	require.NoError(t, err)
	assert.True(t, out.StockItem.Quantity.IsZero())

	_, err = uc.PostMovement(context.Background(), stock.MovementInput{
		StockItemID: "item-1",
		Type:        entity.MovementTypeOUT,
		Quantity:    dec("1"),
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, items.items["item-1"].Quantity.IsZero())
}

// ADJUSTMENT interpreta quantity como valor absoluto; el delta guardado
// puede ser negativo.
func TestPostMovement_AjusteAbsoluto(t *testing.T) {
	uc, _, movs := newLedger("120")

	out, err := uc.PostMovement(context.Background(), stock.MovementInput{
		StockItemID: "item-1",
		Type:        entity.MovementTypeADJUSTMENT,
		Quantity:    dec("80"),
		Reference:   "conteo físico",
		UserID:      "user-1",
	})
	require.NoError(t, err)

	assert.True(t, out.Movement.NewQuantity.Equal(dec("80")))
	assert.True(t, out.Movement.Delta.Equal(dec("-40")),
		"delta = 80 - 120 = -40")
	require.Len(t, movs.movements, 1)
}

// Ajuste a cero es válido; ajuste negativo no.
func TestPostMovement_AjusteFronteras(t *testing.T) {
	uc, items, _ := newLedger("10")

	_, err := uc.PostMovement(context.Background(), stock.MovementInput{
		StockItemID: "item-1",
		Type:        entity.MovementTypeADJUSTMENT,
		Quantity:    decimal.Zero,
		UserID:      "user-1",
	})
	require.NoError(t, err)
	assert.True(t, items.items["item-1"].Quantity.IsZero())

	_, err = uc.PostMovement(context.Background(), stock.MovementInput{
		StockItemID: "item-1",
		Type:        entity.MovementTypeADJUSTMENT,
		Quantity:    dec("-5"),
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Cantidades <= 0 para IN/OUT se rechazan antes de tocar la BD.
func TestPostMovement_CantidadInvalida(t *testing.T) {
	uc, _, movs := newLedger("10")

	for _, typ := range []string{entity.MovementTypeIN, entity.MovementTypeOUT} {
		_, err := uc.PostMovement(context.Background(), stock.MovementInput{
			StockItemID: "item-1",
			Type:        typ,
			Quantity:    decimal.Zero,
			UserID:      "user-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "tipo %s", typ)

		_, err = uc.PostMovement(context.Background(), stock.MovementInput{
			StockItemID: "item-1",
			Type:        typ,
			Quantity:    dec("-3"),
			UserID:      "user-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "tipo %s", typ)
	}
	assert.Empty(t, movs.movements)
}

func TestPostMovement_ItemInexistente(t *testing.T) {
	uc, _, _ := newLedger("10")
	_, err := uc.PostMovement(context.Background(), stock.MovementInput{
		StockItemID: "no-existe",
		Type:        entity.MovementTypeIN,
		Quantity:    dec("1"),
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostMovement_TipoDesconocido(t *testing.T) {
	uc, _, _ := newLedger("10")
	_, err := uc.PostMovement(context.Background(), stock.MovementInput{
		StockItemID: "item-1",
		Type:        "TRANSFER",
		Quantity:    dec("1"),
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Conservación: tras una secuencia de movimientos, la cantidad final es la
// inicial más la suma de los deltas aplicados, y nunca fue negativa.
func TestPostMovement_ConservacionDeCantidades(t *testing.T) {
	uc, items, movs := newLedger("100")

	steps := []stock.MovementInput{
		{StockItemID: "item-1", Type: entity.MovementTypeIN, Quantity: dec("50"), UserID: "u"},
		{StockItemID: "item-1", Type: entity.MovementTypeOUT, Quantity: dec("30"), UserID: "u"},
		{StockItemID: "item-1", Type: entity.MovementTypeADJUSTMENT, Quantity: dec("95"), UserID: "u"},
		{StockItemID: "item-1", Type: entity.MovementTypeOUT, Quantity: dec("95"), UserID: "u"},
		{StockItemID: "item-1", Type: entity.MovementTypeIN, Quantity: dec("7.5"), UserID: "u"},
	}
	for _, s := range steps {
		_, err := uc.PostMovement(context.Background(), s)
		require.NoError(t, err)
	}

	sum := decimal.Zero
	for _, m := range movs.movements {
		assert.True(t, m.PreviousQuantity.Add(m.Delta).Equal(m.NewQuantity),
			"invariante previous + delta == new en %s", m.Type)
		assert.False(t, m.NewQuantity.IsNegative())
		sum = sum.Add(m.Delta)
	}
	final := items.items["item-1"].Quantity
	assert.True(t, final.Equal(dec("100").Add(sum)),
		"final %s = inicial 100 + suma de deltas %s", final, sum)
	assert.True(t, final.Equal(dec("7.5")))
}

package workorders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/application/workorders"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeWORepo struct {
	workOrders map[string]*entity.WorkOrder
}

func (r *fakeWORepo) Create(w *entity.WorkOrder) error {
	cp := *w
	r.workOrders[w.ID] = &cp
	return nil
}

func (r *fakeWORepo) GetByID(id string) (*entity.WorkOrder, error) {
	w, ok := r.workOrders[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWORepo) GetForUpdate(id string) (*entity.WorkOrder, error) { return r.GetByID(id) }

func (r *fakeWORepo) Update(w *entity.WorkOrder) error {
	cp := *w
	r.workOrders[w.ID] = &cp
	return nil
}

func (r *fakeWORepo) ListByOrder(orderID string) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for _, w := range r.workOrders {
		if w.ManufacturingOrderID == orderID {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeWORepo) CountActiveByOrder(orderID string) (int, error) {
	n := 0
	for _, w := range r.workOrders {
		if w.ManufacturingOrderID == orderID &&
			(w.Status == entity.OrderStatusStarted || w.Status == entity.OrderStatusPaused) {
			n++
		}
	}
	return n, nil
}

func (r *fakeWORepo) List(repository.WorkOrderQuery) ([]*entity.WorkOrder, error) {
	return nil, nil
}

type fakeOrderRepo struct {
	orders map[string]*entity.ManufacturingOrder
}

func (r *fakeOrderRepo) Create(o *entity.ManufacturingOrder) error { return nil }

func (r *fakeOrderRepo) GetByID(id string) (*entity.ManufacturingOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.ManufacturingOrder, error) {
	return r.GetByID(id)
}

func (r *fakeOrderRepo) Update(o *entity.ManufacturingOrder) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) AddActualCost(id string, amount decimal.Decimal) error {
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.ActualCost = o.ActualCost.Add(amount)
	return nil
}

func (r *fakeOrderRepo) NextSequence(int) (int, error) { return 1, nil }

func (r *fakeOrderRepo) List(repository.OrderQuery) ([]*entity.ManufacturingOrder, error) {
	return nil, nil
}

type fakeWCRepo struct {
	centers map[string]*entity.WorkCenter
}

func (r *fakeWCRepo) Create(wc *entity.WorkCenter) error { return nil }

func (r *fakeWCRepo) GetByID(id string) (*entity.WorkCenter, error) {
	wc, ok := r.centers[id]
	if !ok {
		return nil, nil
	}
	return wc, nil
}

func (r *fakeWCRepo) GetByCode(string) (*entity.WorkCenter, error) { return nil, nil }
func (r *fakeWCRepo) Update(*entity.WorkCenter) error              { return nil }
func (r *fakeWCRepo) List(string, int, int) ([]*entity.WorkCenter, error) {
	return nil, nil
}

type fakeTxRunner struct {
	wos    *fakeWORepo
	orders *fakeOrderRepo
}

func (r *fakeTxRunner) RunWorkOrder(_ context.Context, fn func(
	repository.WorkOrderRepository,
	repository.ManufacturingOrderRepository,
) error) error {
	return fn(r.wos, r.orders)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newWOFixture() (*workorders.WorkOrderUseCase, *fakeWORepo, *fakeOrderRepo) {
	wos := &fakeWORepo{workOrders: map[string]*entity.WorkOrder{}}
	ords := &fakeOrderRepo{orders: map[string]*entity.ManufacturingOrder{
		"mo-1": {
			ID: "mo-1", OrderNumber: "MO-2026-001",
			Status:     entity.OrderStatusStarted,
			ActualCost: dec("278.00"),
		},
	}}
	wcs := &fakeWCRepo{centers: map[string]*entity.WorkCenter{
		"wc-corte": {
			ID: "wc-corte", Code: "CORTE", Name: "Estación de corte",
			CostPerHour: dec("40"), Capacity: 2, Status: entity.WorkCenterActive,
		},
	}}
	uc := workorders.NewWorkOrderUseCase(&fakeTxRunner{wos: wos, orders: ords}, wos, ords, wcs)
	return uc, wos, ords
}

func createWO(t *testing.T, uc *workorders.WorkOrderUseCase, name string, hours string) *dto.WorkOrderResponse {
	t.Helper()
	out, err := uc.Create(dto.CreateWorkOrderRequest{
		ManufacturingOrderID: "mo-1",
		WorkCenterID:         "wc-corte",
		Name:                 name,
		Sequence:             1,
		EstimatedHours:       dec(hours),
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateWorkOrder(t *testing.T) {
	uc, _, _ := newWOFixture()

	out := createWO(t, uc, "Cortar tableros", "3.5")
	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.True(t, out.EstimatedHours.Equal(dec("3.5")))
	assert.True(t, out.ActualHours.IsZero())
}

// No se cuelgan trabajos de una orden terminal.
func TestCreateWorkOrder_OrdenTerminal(t *testing.T) {
	uc, _, ords := newWOFixture()
	ords.orders["mo-1"].Status = entity.OrderStatusCancelled

	_, err := uc.Create(dto.CreateWorkOrderRequest{
		ManufacturingOrderID: "mo-1",
		WorkCenterID:         "wc-corte",
		Name:                 "tarde",
		EstimatedHours:       dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateWorkOrder_Invalida(t *testing.T) {
	uc, _, _ := newWOFixture()

	_, err := uc.Create(dto.CreateWorkOrderRequest{
		ManufacturingOrderID: "mo-1", WorkCenterID: "wc-corte",
		Name: "negativa", EstimatedHours: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(dto.CreateWorkOrderRequest{
		ManufacturingOrderID: "no-existe", WorkCenterID: "wc-corte",
		Name: "huérfana", EstimatedHours: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones y acumulación en el padre
// ──────────────────────────────────────────────────────────────────────────────

// Completar acumula horas reales * costo/hora del centro en el costo real
// del padre y recalcula su avance como completadas/total.
func TestTransitionWorkOrder_CompletarAcumulaCosto(t *testing.T) {
	uc, _, ords := newWOFixture()
	first := createWO(t, uc, "Cortar", "3.5")
	createWO(t, uc, "Ensamblar", "2")

	_, err := uc.Transition(context.Background(), first.ID, dto.TransitionWorkOrderRequest{
		Status: entity.OrderStatusStarted,
	})
	require.NoError(t, err)

	hours := dec("4") // reportadas, distintas de las estimadas
	out, err := uc.Transition(context.Background(), first.ID, dto.TransitionWorkOrderRequest{
		Status:      entity.OrderStatusCompleted,
		ActualHours: &hours,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCompleted, out.Status)
	require.NotNil(t, out.CompletedAt)
	assert.True(t, out.ActualHours.Equal(dec("4")))

	parent := ords.orders["mo-1"]
	assert.True(t, parent.ActualCost.Equal(dec("438.00")),
		"278 de materiales + 4h * 40/h")
	assert.Equal(t, 50, parent.Progress, "1 de 2 trabajos completados")
}

// Sin horas reportadas se toman las estimadas.
func TestTransitionWorkOrder_CompletarSinHoras(t *testing.T) {
	uc, _, ords := newWOFixture()
	wo := createWO(t, uc, "Cortar", "3.5")

	_, err := uc.Transition(context.Background(), wo.ID, dto.TransitionWorkOrderRequest{
		Status: entity.OrderStatusStarted,
	})
	require.NoError(t, err)
	out, err := uc.Transition(context.Background(), wo.ID, dto.TransitionWorkOrderRequest{
		Status: entity.OrderStatusCompleted,
	})
	require.NoError(t, err)

	assert.True(t, out.ActualHours.Equal(dec("3.5")))
	parent := ords.orders["mo-1"]
	assert.True(t, parent.ActualCost.Equal(dec("418.00")), "278 + 3.5 * 40")
	assert.Equal(t, 100, parent.Progress, "único trabajo completado")
}

func TestTransitionWorkOrder_Invalida(t *testing.T) {
	uc, _, _ := newWOFixture()
	wo := createWO(t, uc, "Cortar", "1")

	_, err := uc.Transition(context.Background(), wo.ID, dto.TransitionWorkOrderRequest{
		Status: entity.OrderStatusCompleted,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "PENDING no salta a COMPLETED")

	_, err = uc.Transition(context.Background(), wo.ID, dto.TransitionWorkOrderRequest{
		Status: "DONE",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negativas := dec("-2")
	_, err = uc.Transition(context.Background(), wo.ID, dto.TransitionWorkOrderRequest{
		Status:      entity.OrderStatusCompleted,
		ActualHours: &negativas,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Pausar y reanudar no toca ni horas ni costo del padre.
func TestTransitionWorkOrder_PausaYReanuda(t *testing.T) {
	uc, _, ords := newWOFixture()
	wo := createWO(t, uc, "Cortar", "2")

	_, err := uc.Transition(context.Background(), wo.ID, dto.TransitionWorkOrderRequest{
		Status: entity.OrderStatusStarted,
	})
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), wo.ID, dto.TransitionWorkOrderRequest{
		Status: entity.OrderStatusPaused,
	})
	require.NoError(t, err)
	out, err := uc.Transition(context.Background(), wo.ID, dto.TransitionWorkOrderRequest{
		Status: entity.OrderStatusStarted,
	})
	require.NoError(t, err)

	assert.True(t, out.ActualHours.IsZero())
	assert.True(t, ords.orders["mo-1"].ActualCost.Equal(dec("278.00")))
}

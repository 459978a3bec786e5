package bom_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge-api/internal/application/bom"
	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeBOMRepo struct {
	boms map[string]*entity.BillOfMaterials
}

func newFakeBOMRepo() *fakeBOMRepo {
	return &fakeBOMRepo{boms: map[string]*entity.BillOfMaterials{}}
}

func (r *fakeBOMRepo) Create(b *entity.BillOfMaterials) error {
	cp := *b
	r.boms[b.ID] = &cp
	return nil
}

func (r *fakeBOMRepo) GetByID(id string) (*entity.BillOfMaterials, error) {
	b, ok := r.boms[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBOMRepo) FindActiveByProduct(productID string) ([]*entity.BillOfMaterials, error) {
	var out []*entity.BillOfMaterials
	for _, b := range r.boms {
		if b.ProductID == productID && b.Status == entity.BOMStatusActive {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBOMRepo) NextVersion(productID string) (int, error) {
	max := 0
	for _, b := range r.boms {
		if b.ProductID == productID && b.Version > max {
			max = b.Version
		}
	}
	return max + 1, nil
}

func (r *fakeBOMRepo) Update(b *entity.BillOfMaterials) error {
	stored, ok := r.boms[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	items := stored.Items
	cp := *b
	cp.Items = items
	r.boms[b.ID] = &cp
	return nil
}

func (r *fakeBOMRepo) ReplaceItems(bomID string, items []entity.BOMItem) error {
	b, ok := r.boms[bomID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Items = append([]entity.BOMItem(nil), items...)
	return nil
}

func (r *fakeBOMRepo) DeactivateByProduct(productID, exceptID string) error {
	for _, b := range r.boms {
		if b.ProductID == productID && b.ID != exceptID && b.Status == entity.BOMStatusActive {
			b.Status = entity.BOMStatusInactive
		}
	}
	return nil
}

func (r *fakeBOMRepo) SetStatus(bomID, status string) error {
	b, ok := r.boms[bomID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeBOMRepo) List(q repository.BOMQuery) ([]*entity.BillOfMaterials, error) {
	var out []*entity.BillOfMaterials
	for _, b := range r.boms {
		if q.ProductID != "" && b.ProductID != q.ProductID {
			continue
		}
		if q.Status != "" && b.Status != q.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
	locked   []string // IDs bloqueados vía GetForUpdate, en orden
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	r.locked = append(r.locked, id)
	return r.GetByID(id)
}

func (r *fakeProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error           { return nil }
func (r *fakeProductRepo) Delete(string) error                      { return nil }
func (r *fakeProductRepo) List(repository.ProductQuery) ([]*entity.Product, error) {
	return nil, nil
}

type fakeItemRepo struct {
	items map[string]*entity.StockItem
}

func (r *fakeItemRepo) Create(it *entity.StockItem) error { r.items[it.ID] = it; return nil }
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
func (r *fakeItemRepo) UpdateQuantity(string, decimal.Decimal) error { return nil }
func (r *fakeItemRepo) Update(*entity.StockItem) error               { return nil }
func (r *fakeItemRepo) Archive(string) error                         { return nil }
func (r *fakeItemRepo) List(repository.StockItemQuery) ([]*entity.StockItem, error) {
	return nil, nil
}

type fakeBOMTxRunner struct {
	boms     *fakeBOMRepo
	products *fakeProductRepo
}

func (r *fakeBOMTxRunner) RunBOM(_ context.Context, fn func(repository.BOMRepository, repository.ProductRepository) error) error {
	return fn(r.boms, r.products)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newBOMFixture() (*bom.BOMUseCase, *fakeBOMRepo) {
	boms := newFakeBOMRepo()
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", SKU: "SILLA-01", Name: "Silla ergonómica"},
	}}
	items := &fakeItemRepo{items: map[string]*entity.StockItem{
		"comp-madera": {
			ID: "comp-madera", SKU: "MAD-001", Name: "Tablero de madera",
			Quantity: dec("500"), UnitCost: dec("12.50"), Status: entity.StockItemActive,
		},
		"comp-tornillo": {
			ID: "comp-tornillo", SKU: "TOR-001", Name: "Tornillo M6",
			Quantity: dec("80"), UnitCost: dec("8.75"), Status: entity.StockItemActive,
		},
	}}
	uc := bom.NewBOMUseCase(&fakeBOMTxRunner{boms: boms, products: products}, boms, products, items)
	return uc, boms
}

func createDraft(t *testing.T, uc *bom.BOMUseCase) *dto.BOMResponse {
	t.Helper()
	out, err := uc.Create("user-1", dto.CreateBOMRequest{
		ProductID: "prod-1",
		Name:      "Silla v1",
		Items: []dto.BOMItemInput{
			{ComponentID: "comp-madera", Quantity: dec("1"), Unit: "und"},
			{ComponentID: "comp-tornillo", Quantity: dec("1"), Unit: "und"},
		},
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBOM_VersionConsecutiva(t *testing.T) {
	uc, _ := newBOMFixture()

	first := createDraft(t, uc)
	second := createDraft(t, uc)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, entity.BOMStatusDraft, first.Status)
	require.Len(t, first.Items, 2)
	assert.Equal(t, 1, first.Items[0].Sequence)
	assert.Equal(t, 2, first.Items[1].Sequence)
}

func TestCreateBOM_SinItems(t *testing.T) {
	uc, _ := newBOMFixture()
	_, err := uc.Create("user-1", dto.CreateBOMRequest{
		ProductID: "prod-1",
		Name:      "vacía",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateBOM_ComponenteInexistente(t *testing.T) {
	uc, _ := newBOMFixture()
	_, err := uc.Create("user-1", dto.CreateBOMRequest{
		ProductID: "prod-1",
		Name:      "rota",
		Items:     []dto.BOMItemInput{{ComponentID: "no-existe", Quantity: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBOM_CantidadInvalida(t *testing.T) {
	uc, _ := newBOMFixture()
	_, err := uc.Create("user-1", dto.CreateBOMRequest{
		ProductID: "prod-1",
		Name:      "mala",
		Items:     []dto.BOMItemInput{{ComponentID: "comp-madera", Quantity: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Editar items de una BOM ACTIVE se rechaza: la receta vigente está
// congelada, se versiona en su lugar.
func TestUpdateBOM_ItemsCongeladosEnActive(t *testing.T) {
	uc, _ := newBOMFixture()
	created := createDraft(t, uc)

	_, err := uc.Activate(context.Background(), created.ID)
	require.NoError(t, err)

	_, err = uc.Update(created.ID, dto.UpdateBOMRequest{
		Items: []dto.BOMItemInput{{ComponentID: "comp-madera", Quantity: dec("4")}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	name := "Silla v1 (rev)"
	out, err := uc.Update(created.ID, dto.UpdateBOMRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
}

// El reemplazo de items es wholesale: la lista anterior desaparece.
func TestUpdateBOM_ReemplazoCompleto(t *testing.T) {
	uc, _ := newBOMFixture()
	created := createDraft(t, uc)

	out, err := uc.Update(created.ID, dto.UpdateBOMRequest{
		Items: []dto.BOMItemInput{{ComponentID: "comp-tornillo", Quantity: dec("12"), Unit: "und"}},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "comp-tornillo", out.Items[0].ComponentID)
	assert.True(t, out.Items[0].Quantity.Equal(dec("12")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Activación: a lo sumo una ACTIVE por producto
// ──────────────────────────────────────────────────────────────────────────────

func TestActivateBOM_DesactivaHermanas(t *testing.T) {
	uc, boms := newBOMFixture()
	v1 := createDraft(t, uc)
	v2 := createDraft(t, uc)

	_, err := uc.Activate(context.Background(), v1.ID)
	require.NoError(t, err)

	out, err := uc.Activate(context.Background(), v2.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BOMStatusActive, out.Status)

	active, err := boms.FindActiveByProduct("prod-1")
	require.NoError(t, err)
	require.Len(t, active, 1, "solo una BOM ACTIVE por producto")
	assert.Equal(t, v2.ID, active[0].ID)
	assert.Equal(t, entity.BOMStatusInactive, boms.boms[v1.ID].Status)
}

func TestActivateBOM_Inexistente(t *testing.T) {
	uc, _ := newBOMFixture()
	_, err := uc.Activate(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La activación bloquea la fila del producto dentro de la tx antes de
// desactivar hermanas: dos activaciones concurrentes del mismo producto
// se serializan sobre ese lock en vez de ver ambas un snapshot sin ACTIVE.
func TestActivateBOM_BloqueaFilaDeProducto(t *testing.T) {
	boms := newFakeBOMRepo()
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", SKU: "SILLA-01", Name: "Silla ergonómica"},
	}}
	items := &fakeItemRepo{items: map[string]*entity.StockItem{
		"comp-madera": {
			ID: "comp-madera", SKU: "MAD-001", Name: "Tablero de madera",
			Quantity: dec("500"), UnitCost: dec("12.50"), Status: entity.StockItemActive,
		},
		"comp-tornillo": {
			ID: "comp-tornillo", SKU: "TOR-001", Name: "Tornillo M6",
			Quantity: dec("80"), UnitCost: dec("8.75"), Status: entity.StockItemActive,
		},
	}}
	uc := bom.NewBOMUseCase(&fakeBOMTxRunner{boms: boms, products: products}, boms, products, items)

	created := createDraft(t, uc)
	_, err := uc.Activate(context.Background(), created.ID)
	require.NoError(t, err)

	require.Len(t, products.locked, 1, "la activación debe tomar el lock del producto")
	assert.Equal(t, "prod-1", products.locked[0])

	// Producto borrado entre la creación de la BOM y la activación.
	delete(products.products, "prod-1")
	otra := createDraft(t, uc)
	_, err = uc.Activate(context.Background(), otra.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Evaluación de requerimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluateRequirements_SinBOMActiva(t *testing.T) {
	uc, _ := newBOMFixture()
	createDraft(t, uc) // queda en DRAFT

	_, err := uc.EvaluateRequirements("prod-1", dec("10"))
	assert.ErrorIs(t, err, domain.ErrNoActiveBOM)
}

func TestEvaluateRequirements_MultiplesActivas(t *testing.T) {
	uc, boms := newBOMFixture()
	v1 := createDraft(t, uc)
	v2 := createDraft(t, uc)
	// Corrompe el estado a propósito: dos ACTIVE simultáneas
	boms.boms[v1.ID].Status = entity.BOMStatusActive
	boms.boms[v2.ID].Status = entity.BOMStatusActive

	_, err := uc.EvaluateRequirements("prod-1", dec("1"))
	assert.ErrorIs(t, err, domain.ErrMultipleActiveBOM)
}

// 50 unidades con 1 madera (12.50) + 1 tornillo (8.75) por unidad:
// costo total 50 * 21.25 = 1062.50; el tornillo (80 en stock) queda corto.
func TestEvaluateRequirements_CostoYFaltante(t *testing.T) {
	uc, _ := newBOMFixture()
	created := createDraft(t, uc)
	_, err := uc.Activate(context.Background(), created.ID)
	require.NoError(t, err)

	out, err := uc.EvaluateRequirements("prod-1", dec("50"))
	require.NoError(t, err)

	assert.True(t, out.Summary.TotalCost.Equal(dec("1062.50")),
		"total = 50 * (12.50 + 8.75)")
	assert.True(t, out.Summary.CanFulfill, "80 tornillos alcanzan para 50 unidades")
	assert.Equal(t, 0, out.Summary.ShortfallCount)

	out, err = uc.EvaluateRequirements("prod-1", dec("100"))
	require.NoError(t, err)
	assert.False(t, out.Summary.CanFulfill)
	assert.Equal(t, 1, out.Summary.ShortfallCount)
	require.Len(t, out.Requirements, 2)
	tornillo := out.Requirements[1]
	assert.True(t, tornillo.Shortfall.Equal(dec("20")), "100 requeridos - 80 disponibles")
	assert.True(t, tornillo.LineCost.Equal(dec("875.00")))
}

// La evaluación es una lectura pura: repetirla no altera existencias.
func TestEvaluateRequirements_NoMutaStock(t *testing.T) {
	uc, _ := newBOMFixture()
	created := createDraft(t, uc)
	_, err := uc.Activate(context.Background(), created.ID)
	require.NoError(t, err)

	first, err := uc.EvaluateRequirements("prod-1", dec("10"))
	require.NoError(t, err)
	second, err := uc.EvaluateRequirements("prod-1", dec("10"))
	require.NoError(t, err)

	assert.True(t, first.Summary.TotalCost.Equal(second.Summary.TotalCost))
	for i := range first.Requirements {
		assert.True(t, first.Requirements[i].Available.Equal(second.Requirements[i].Available))
	}
}

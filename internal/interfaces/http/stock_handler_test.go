package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge-api/internal/application/stock"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
	apphttp "github.com/flowforge/flowforge-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeStockItemRepo struct {
	items map[string]*entity.StockItem
}

func newFakeStockItemRepo() *fakeStockItemRepo {
	return &fakeStockItemRepo{items: map[string]*entity.StockItem{}}
}

func (r *fakeStockItemRepo) Create(item *entity.StockItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeStockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	return r.items[id], nil
}

func (r *fakeStockItemRepo) GetBySKU(sku string) (*entity.StockItem, error) {
	for _, it := range r.items {
		if it.SKU == sku {
			return it, nil
		}
	}
	return nil, nil
}

func (r *fakeStockItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	return r.items[id], nil
}

func (r *fakeStockItemRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	r.items[id].Quantity = quantity
	return nil
}

func (r *fakeStockItemRepo) Update(item *entity.StockItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeStockItemRepo) Archive(id string) error {
	r.items[id].Status = entity.StockItemArchived
	return nil
}

func (r *fakeStockItemRepo) List(q repository.StockItemQuery) ([]*entity.StockItem, error) {
	out := make([]*entity.StockItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	return out, nil
}

type fakeMovementRepo struct{}

func (fakeMovementRepo) Create(m *entity.StockMovement) error          { return nil }
func (fakeMovementRepo) GetByID(string) (*entity.StockMovement, error) { return nil, nil }
func (fakeMovementRepo) List(repository.MovementQuery) ([]*entity.StockMovement, error) {
	return nil, nil
}

// buildStockApp monta las rutas de stock sin middleware de auth: lo que se
// prueba aquí es el mapeo de errores de dominio a HTTP.
func buildStockApp(itemRepo *fakeStockItemRepo) *fiber.App {
	uc := stock.NewStockUseCase(itemRepo, fakeMovementRepo{})
	handler := apphttp.NewStockHandler(uc, nil)

	app := fiber.New()
	app.Get("/stock/:id", handler.GetByID)
	app.Put("/stock/:id", handler.Update)
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests — recursos inexistentes responden 404, nunca 200 con null
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStockItem_Inexistente_Retorna404(t *testing.T) {
	app := buildStockApp(newFakeStockItemRepo())

	req := httptest.NewRequest(http.MethodGet, "/stock/no-existe", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode,
		"un ID desconocido debe responder 404, no 200 con cuerpo null")

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestUpdateStockItem_Inexistente_Retorna404(t *testing.T) {
	app := buildStockApp(newFakeStockItemRepo())

	req := httptest.NewRequest(http.MethodPut, "/stock/no-existe", strings.NewReader(`{"name":"otro"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetStockItem_Existente_Retorna200(t *testing.T) {
	repo := newFakeStockItemRepo()
	require.NoError(t, repo.Create(&entity.StockItem{
		ID:       "item-1",
		SKU:      "MAD-001",
		Name:     "Madera de pino",
		Quantity: decimal.NewFromInt(500),
		Status:   entity.StockItemActive,
	}))
	app := buildStockApp(repo)

	req := httptest.NewRequest(http.MethodGet, "/stock/item-1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "MAD-001", body["sku"])
}

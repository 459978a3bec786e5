package stock_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/application/stock"
	"github.com/flowforge/flowforge-api/internal/domain"
	"github.com/flowforge/flowforge-api/internal/domain/entity"
)

// erroringItemRepo simula una BD caída en la verificación de SKU.
type erroringItemRepo struct {
	fakeItemRepo
	skuErr error
}

func (r *erroringItemRepo) GetBySKU(string) (*entity.StockItem, error) {
	return nil, r.skuErr
}

func TestCreateStockItem_ErrorEnVerificacionDeSKU(t *testing.T) {
	dbErr := errors.New("conexión perdida")
	repo := &erroringItemRepo{
		fakeItemRepo: fakeItemRepo{items: map[string]*entity.StockItem{}},
		skuErr:       dbErr,
	}
	uc := stock.NewStockUseCase(repo, &fakeMovRepo{})

	_, err := uc.Create("user-1", dto.CreateStockItemRequest{
		SKU: "MAD-001", Name: "Tablero de madera",
		Quantity: dec("10"), UnitCost: dec("12.50"),
	})

	// Un fallo transitorio de la BD no puede leerse como "no hay duplicado".
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, repo.items, "con la verificación fallida no se crea nada")
}

func TestGetStockItem_Inexistente(t *testing.T) {
	repo := &fakeItemRepo{items: map[string]*entity.StockItem{}}
	uc := stock.NewStockUseCase(repo, &fakeMovRepo{})

	out, err := uc.GetByID("no-existe")
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/application/stock"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// StockHandler maneja items de stock y el ledger de movimientos (protegido).
type StockHandler struct {
	uc         *stock.StockUseCase
	movementUC *stock.PostMovementUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.StockUseCase, movementUC *stock.PostMovementUseCase) *StockHandler {
	return &StockHandler{uc: uc, movementUC: movementUC}
}

// Create godoc
// @Summary      Crear item de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "sku, name, quantity inicial, unit_cost, reorder_point"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	item, err := h.uc.Create(GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetByID godoc
// @Summary      Consultar item de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del item"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(item)
}

// Update godoc
// @Summary      Actualizar item de stock (la cantidad solo cambia vía movimientos)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del item"
// @Param        body  body  dto.UpdateStockItemRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	item, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(item)
}

// Archive godoc
// @Summary      Archivar item de stock (soft delete)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del item"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/archive [post]
func (h *StockHandler) Archive(c *fiber.Ctx) error {
	if err := h.uc.Archive(c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "item archivado"})
}

// List godoc
// @Summary      Listar items de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "active | archived"
// @Param        category  query  string  false  "filtrar por categoría"
// @Param        search    query  string  false  "matchea SKU o nombre"
// @Param        low_stock query  bool    false  "solo items en o bajo el punto de reorden"
// @Param        limit     query  int     false  "máx 100, default 20"
// @Param        offset    query  int     false  "default 0"
// @Success      200  {object}  dto.StockItemListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(repository.StockItemQuery{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		LowStock: c.QueryBool("low_stock"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// ListLow godoc
// @Summary      Items en o bajo el punto de reorden
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockItemListResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) ListLow(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(repository.StockItemQuery{
		Status:   "active",
		LowStock: true,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// PostMovement godoc
// @Summary      Registrar movimiento de stock (IN, OUT o ADJUSTMENT)
// @Description  IN/OUT llevan la magnitud en quantity; ADJUSTMENT lleva la
//
//	nueva cantidad absoluta. Una salida mayor al disponible se
//	rechaza completa.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostMovementRequest  true  "stock_item_id, type, quantity, reference y notes opcionales"
// @Success      201   {object}  dto.PostMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) PostMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.PostMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.movementUC.PostMovement(c.Context(), stock.MovementInput{
		StockItemID: in.StockItemID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Reference:   in.Reference,
		Notes:       in.Notes,
		UserID:      userID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListMovements godoc
// @Summary      Consultar el ledger de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        stock_item_id  query  string  false  "filtrar por item"
// @Param        type           query  string  false  "IN | OUT | ADJUSTMENT"
// @Param        reference      query  string  false  "filtrar por referencia (ej. número de orden)"
// @Param        from           query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to             query  string  false  "RFC3339 o YYYY-MM-DD"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido: use RFC3339 o YYYY-MM-DD"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido: use RFC3339 o YYYY-MM-DD"})
	}

	list, err := h.uc.ListMovements(repository.MovementQuery{
		StockItemID: c.Query("stock_item_id"),
		Type:        c.Query("type"),
		Reference:   c.Query("reference"),
		From:        from,
		To:          to,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// parseTimeQuery acepta RFC3339 o fecha simple YYYY-MM-DD. Vacío = nil.
func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

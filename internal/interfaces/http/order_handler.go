package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/application/orders"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// OrderHandler maneja órdenes de producción: creación con estimación desde
// la BOM activa, transiciones de estado, progreso y hoja imprimible.
type OrderHandler struct {
	uc      *orders.OrderUseCase
	sheetUC *orders.SheetUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase, sheetUC *orders.SheetUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, sheetUC: sheetUC}
}

// Create godoc
// @Summary      Crear orden de producción
// @Description  Captura la BOM activa del producto y calcula el costo
//
//	estimado. Un faltante de stock no bloquea la creación;
//	bloquea el arranque.
//
// @Tags         manufacturing-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "product_id, quantity, deadline y priority opcionales"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Consultar orden de producción
// @Tags         manufacturing-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar órdenes de producción
// @Tags         manufacturing-orders
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "PENDING | STARTED | PAUSED | COMPLETED | CANCELLED"
// @Param        priority    query  string  false  "LOW | MEDIUM | HIGH | URGENT"
// @Param        product_id  query  string  false  "filtrar por producto"
// @Param        search      query  string  false  "matchea número de orden"
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/manufacturing-orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(repository.OrderQuery{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		ProductID: c.Query("product_id"),
		Search:    c.Query("search"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// Transition godoc
// @Summary      Transicionar estado de la orden
// @Description  PENDING -> STARTED consume los materiales de la BOM en una
//
//	sola transacción; con stock insuficiente no se consume nada.
//
// @Tags         manufacturing-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.TransitionOrderRequest  true  "status destino"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/status [put]
func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransitionOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Transition(c.Context(), c.Params("id"), in.Status, userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// UpdateProgress godoc
// @Summary      Actualizar progreso manual (solo STARTED o PAUSED)
// @Tags         manufacturing-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.UpdateProgressRequest  true  "progress 0-100"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/progress [put]
func (h *OrderHandler) UpdateProgress(c *fiber.Ctx) error {
	var in dto.UpdateProgressRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.UpdateProgress(c.Params("id"), in.Progress)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// Sheet godoc
// @Summary      Hoja de orden de producción (PDF)
// @Tags         manufacturing-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing-orders/{id}/sheet [get]
func (h *OrderHandler) Sheet(c *fiber.Ctx) error {
	pdfBytes, err := h.sheetUC.Generate(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", "orden-"+c.Params("id")+".pdf"))
	return c.Send(pdfBytes)
}

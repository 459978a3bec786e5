package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/application/workorders"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// WorkOrderHandler maneja los pasos de trabajo de una orden de producción.
type WorkOrderHandler struct {
	uc *workorders.WorkOrderUseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *workorders.WorkOrderUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkOrderRequest  true  "manufacturing_order_id, work_center_id, name, sequence, estimated_hours"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Create(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Consultar orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden de trabajo"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar órdenes de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        manufacturing_order_id  query  string  false  "filtrar por orden padre"
// @Param        work_center_id          query  string  false  "filtrar por centro de trabajo"
// @Param        status                  query  string  false  "PENDING | STARTED | PAUSED | COMPLETED | CANCELLED"
// @Success      200  {object}  dto.WorkOrderListResponse
// @Router       /api/work-orders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(repository.WorkOrderQuery{
		ManufacturingOrderID: c.Query("manufacturing_order_id"),
		WorkCenterID:         c.Query("work_center_id"),
		Status:               c.Query("status"),
		Limit:                page.Limit,
		Offset:               page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// Transition godoc
// @Summary      Transicionar estado de la orden de trabajo
// @Description  Al completar, actual_hours (o las estimadas si no viene)
//
//	por el costo/hora del centro se acumula al costo real de
//	la orden padre.
//
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden de trabajo"
// @Param        body  body  dto.TransitionWorkOrderRequest  true  "status destino, actual_hours opcional al completar"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/status [put]
func (h *WorkOrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Transition(c.Context(), c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

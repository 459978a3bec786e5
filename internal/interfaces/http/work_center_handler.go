package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/application/workcenters"
)

// WorkCenterHandler maneja los centros de trabajo.
type WorkCenterHandler struct {
	uc *workcenters.WorkCenterUseCase
}

// NewWorkCenterHandler construye el handler.
func NewWorkCenterHandler(uc *workcenters.WorkCenterUseCase) *WorkCenterHandler {
	return &WorkCenterHandler{uc: uc}
}

// Create godoc
// @Summary      Crear centro de trabajo
// @Tags         work-centers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkCenterRequest  true  "code único, name, cost_per_hour, capacity"
// @Success      201   {object}  dto.WorkCenterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/work-centers [post]
func (h *WorkCenterHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkCenterRequest
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
// @Summary      Consultar centro de trabajo
// @Tags         work-centers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del centro"
// @Success      200  {object}  dto.WorkCenterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-centers/{id} [get]
func (h *WorkCenterHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary      Actualizar centro de trabajo
// @Tags         work-centers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del centro"
// @Param        body  body  dto.UpdateWorkCenterRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.WorkCenterResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/work-centers/{id} [put]
func (h *WorkCenterHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateWorkCenterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar centros de trabajo
// @Tags         work-centers
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "active | maintenance | inactive"
// @Success      200  {object}  dto.WorkCenterListResponse
// @Router       /api/work-centers [get]
func (h *WorkCenterHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

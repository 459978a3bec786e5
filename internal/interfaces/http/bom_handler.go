package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowforge/flowforge-api/internal/application/bom"
	"github.com/flowforge/flowforge-api/internal/application/dto"
	"github.com/flowforge/flowforge-api/internal/domain/repository"
)

// BOMHandler maneja listas de materiales y la evaluación de requerimientos.
type BOMHandler struct {
	uc *bom.BOMUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *bom.BOMUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// Create godoc
// @Summary      Crear BOM (nace en DRAFT con versión consecutiva)
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBOMRequest  true  "product_id, name, items (al menos uno)"
// @Success      201   {object}  dto.BOMResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/boms [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Create(GetUserID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Consultar BOM con sus items
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la BOM"
// @Success      200  {object}  dto.BOMResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [get]
func (h *BOMHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary      Actualizar BOM
// @Description  items reemplaza la lista completa. Los items de una BOM
//
//	ACTIVE están congelados: para cambiarlos se crea una nueva
//	versión y se activa.
//
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la BOM"
// @Param        body  body  dto.UpdateBOMRequest  true  "name, notes, items opcionales"
// @Success      200   {object}  dto.BOMResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/boms/{id} [put]
func (h *BOMHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBOMRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// Activate godoc
// @Summary      Activar BOM (desactiva las demás versiones del producto)
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la BOM"
// @Success      200  {object}  dto.BOMResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id}/activate [post]
func (h *BOMHandler) Activate(c *fiber.Ctx) error {
	resp, err := h.uc.Activate(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar BOMs
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "filtrar por producto"
// @Param        status      query  string  false  "DRAFT | ACTIVE | INACTIVE"
// @Success      200  {object}  dto.BOMListResponse
// @Router       /api/boms [get]
func (h *BOMHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(repository.BOMQuery{
		ProductID: c.Query("product_id"),
		Status:    c.Query("status"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(list)
}

// CalculateRequirements godoc
// @Summary      Evaluar requerimientos de materiales para una cantidad
// @Description  Evaluación pura contra la BOM activa del producto: no
//
//	reserva ni muta stock.
//
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CalculateRequirementsRequest  true  "product_id y quantity"
// @Success      200   {object}  dto.CalculateRequirementsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/boms/calculate-requirements [post]
func (h *BOMHandler) CalculateRequirements(c *fiber.Ctx) error {
	var in dto.CalculateRequirementsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.EvaluateRequirements(in.ProductID, in.Quantity)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(resp)
}

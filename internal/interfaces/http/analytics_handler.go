package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/flowforge/flowforge-api/internal/application/analytics"
	"github.com/flowforge/flowforge-api/internal/application/dto"
)

// AnalyticsHandler maneja los reportes de solo lectura.
type AnalyticsHandler struct {
	uc *analytics.AnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Resumen del tablero
// @Description  Valorización de stock, items bajo punto de reorden, órdenes
//
//	por estado y órdenes con deadline en los próximos 7 días.
//
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/reports/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.uc.GetDashboard(c.Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(summary)
}

// Movements godoc
// @Summary      Resumen de movimientos por tipo en el período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "RFC3339 o YYYY-MM-DD; default hace 30 días"
// @Param        to    query  string  false  "RFC3339 o YYYY-MM-DD; default ahora"
// @Success      200  {array}  dto.MovementSummaryDTO
// @Router       /api/reports/movements [get]
func (h *AnalyticsHandler) Movements(c *fiber.Ctx) error {
	from, to, err := periodFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "período inválido: use RFC3339 o YYYY-MM-DD"})
	}
	summary, err := h.uc.GetMovementSummary(c.Context(), from, to)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(summary)
}

// TopConsumed godoc
// @Summary      Componentes más consumidos del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "RFC3339 o YYYY-MM-DD; default hace 30 días"
// @Param        to     query  string  false  "RFC3339 o YYYY-MM-DD; default ahora"
// @Param        limit  query  int     false  "default 10, máx 100"
// @Success      200  {array}  dto.ConsumedComponentDTO
// @Router       /api/reports/top-consumed [get]
func (h *AnalyticsHandler) TopConsumed(c *fiber.Ctx) error {
	from, to, err := periodFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "período inválido: use RFC3339 o YYYY-MM-DD"})
	}
	top, err := h.uc.GetTopConsumedComponents(c.Context(), from, to, c.QueryInt("limit"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(top)
}

// periodFromQuery resuelve from/to con default de los últimos 30 días.
func periodFromQuery(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if p, err := parseTimeQuery(c.Query("from")); err != nil {
		return from, to, err
	} else if p != nil {
		from = *p
	}
	if p, err := parseTimeQuery(c.Query("to")); err != nil {
		return from, to, err
	} else if p != nil {
		to = *p
	}
	return from, to, nil
}

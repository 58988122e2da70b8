package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retail-pos/internal/application/analytics"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
)

// DashboardHandler maneja los resúmenes de ventas e inventario (protegido).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Manager godoc
// @Summary      Dashboard de manager
// @Description  Ventas por período, conteos del catálogo, top productos y actividad reciente.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ManagerDashboardDTO
// @Router       /api/dashboard/manager [get]
func (h *DashboardHandler) Manager(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	summary, err := h.uc.ManagerDashboard(c.Context(), businessID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}

// Cashier godoc
// @Summary      Dashboard de cajero
// @Description  Total y número de ventas del cajero en el día en curso.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashierDashboardDTO
// @Router       /api/dashboard/cashier [get]
func (h *DashboardHandler) Cashier(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	summary, err := h.uc.CashierDashboard(c.Context(), businessID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(summary)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/retail-pos/internal/application/dto"
	"github.com/tu-usuario/retail-pos/internal/application/inventory"
	"github.com/tu-usuario/retail-pos/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de stock: reposiciones, ajustes,
// bitácora y alertas (protegido).
type InventoryHandler struct {
	stockUC *inventory.StockUseCase
	queryUC *inventory.StockQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stockUC *inventory.StockUseCase, queryUC *inventory.StockQueryUseCase) *InventoryHandler {
	return &InventoryHandler{stockUC: stockUC, queryUC: queryUC}
}

// Restock godoc
// @Summary      Registrar reposición de mercancía
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RestockRequest  true  "product_id, quantity, precios opcionales"
// @Success      201   {object}  dto.StockLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/restock [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	logEntry, err := h.stockUC.Restock(c.Context(), businessID, userID, in)
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToStockLogResponse(logEntry))
}

// Adjust godoc
// @Summary      Registrar ajuste manual de stock
// @Description  quantity con signo: negativo descuenta, nunca por debajo de cero.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_id, quantity, note"
// @Success      201   {object}  dto.StockLogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	logEntry, err := h.stockUC.Adjust(c.Context(), businessID, userID, in)
	if err != nil {
		return h.mutationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToStockLogResponse(logEntry))
}

// StockLogs godoc
// @Summary      Consultar bitácora de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        action      query  string  false  "restock | sale | adjustment | initial"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusivo)"
// @Success      200  {array}  dto.StockLogResponse
// @Router       /api/inventory/stock-logs [get]
func (h *InventoryHandler) StockLogs(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var filter dto.StockLogFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	logs, err := h.queryUC.StockLogs(c.Context(), businessID, filter)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rango de fechas inválido"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(logs)
}

// RestockHistory godoc
// @Summary      Historial de reposiciones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockLogResponse
// @Router       /api/inventory/restock-history [get]
func (h *InventoryHandler) RestockHistory(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	logs, err := h.queryUC.RestockHistory(c.Context(), businessID, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(logs)
}

// LowStock godoc
// @Summary      Productos en o bajo su umbral de alerta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	products, err := h.queryUC.LowStockProducts(c.Context(), businessID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(products)
}

func (h *InventoryHandler) mutationError(c *fiber.Ctx, err error) error {
	if err == domain.ErrInvalidInput || err == domain.ErrInvalidQuantity {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if err == domain.ErrNotFound {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	if err == domain.ErrInsufficientStock {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
)

// StockHandler consultas de stock y diario de movimientos.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetStock godoc
// @Summary      Stock de un ítem (por almacén o total)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        code          path   string  true   "Código de material o producto"
// @Param        warehouse_id  query  string  false  "Almacén o all"
// @Success      200  {object}  dto.StockResponse
// @Router       /api/stock/{code} [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.uc.GetStock(c.UserContext(), c.Params("code"), c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Diario de movimientos de inventario
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_code     query  string  false  "Ítem"
// @Param        warehouse_id  query  string  false  "Almacén"
// @Param        limit         query  int     false  "Límite"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 50), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListMovements(c.UserContext(), c.Query("item_code"), c.Query("warehouse_id"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/shopspring/decimal"
)

// BOMHandler recetas, costo y explosión de materiales.
type BOMHandler struct {
	uc *usecase.BOMUseCase
}

// NewBOMHandler construye el handler.
func NewBOMHandler(uc *usecase.BOMUseCase) *BOMHandler {
	return &BOMHandler{uc: uc}
}

// ProductCost godoc
// @Summary      Costo unitario de un producto según su BOM
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código del producto"
// @Success      200   {object}  dto.ProductCostResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/bom/products/{code}/cost [get]
func (h *BOMHandler) ProductCost(c *fiber.Ctx) error {
	out, err := h.uc.ProductCost(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BaseMaterials godoc
// @Summary      Materiales base para fabricar una cantidad
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        code      path   string  true   "Código del producto"
// @Param        quantity  query  string  false  "Cantidad (default 1)"
// @Success      200   {object}  dto.BaseMaterialsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bom/products/{code}/base-materials [get]
func (h *BOMHandler) BaseMaterials(c *fiber.Ctx) error {
	qty := decimal.NewFromInt(1)
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser numérico"})
		}
		qty = parsed
	}
	out, err := h.uc.BaseMaterials(c.UserContext(), c.Params("code"), qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetRecipe godoc
// @Summary      Receta de un producto
// @Tags         bom
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código del producto"
// @Success      200   {object}  dto.RecipeResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recipes/{code} [get]
func (h *BOMHandler) GetRecipe(c *fiber.Ctx) error {
	out, err := h.uc.GetRecipe(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SaveRecipe godoc
// @Summary      Reemplazar la receta de un producto
// @Tags         bom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string                 true  "Código del producto"
// @Param        body  body  dto.SaveRecipeRequest  true  "Ingredientes"
// @Success      200   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/recipes/{code} [put]
func (h *BOMHandler) SaveRecipe(c *fiber.Ctx) error {
	var in dto.SaveRecipeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SaveRecipe(c.UserContext(), c.Params("code"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

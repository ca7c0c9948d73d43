package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredientDTO línea de receta.
type IngredientDTO struct {
	Type     string          `json:"type" validate:"required,oneof=material product"`
	Code     string          `json:"code" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// SaveRecipeRequest reemplaza la receta completa de un producto.
type SaveRecipeRequest struct {
	Ingredients []IngredientDTO `json:"ingredients" validate:"required,min=1,dive"`
}

// RecipeResponse receta con su costo unitario calculado.
type RecipeResponse struct {
	ProductCode string          `json:"product_code"`
	Ingredients []IngredientDTO `json:"ingredients"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductCostResponse costo unitario de un producto según su BOM.
type ProductCostResponse struct {
	ProductCode string          `json:"product_code"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// MaterialRequirementDTO cantidad de un material base.
type MaterialRequirementDTO struct {
	MaterialCode string          `json:"material_code"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// BaseMaterialsResponse explosión de un producto a materiales base.
type BaseMaterialsResponse struct {
	ProductCode string                   `json:"product_code"`
	Quantity    decimal.Decimal          `json:"quantity"`
	Materials   []MaterialRequirementDTO `json:"materials"`
}

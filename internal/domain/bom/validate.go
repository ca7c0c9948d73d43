package bom

import (
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateRecipe verifica una receta antes de guardarla: lista no vacía, tipos y cantidades válidos,
// códigos existentes y que el grafo resultante siga siendo acíclico.
func ValidateRecipe(cat *catalog.Catalog, recipe *entity.Recipe) error {
	if recipe == nil || recipe.ProductCode == "" {
		return domain.Invalid("product_code", "es obligatorio")
	}
	if _, ok := cat.Product(recipe.ProductCode); !ok {
		return domain.NotFound("producto", recipe.ProductCode)
	}
	if len(recipe.Ingredients) == 0 {
		return domain.Invalid("ingredients", "la receta no puede estar vacía")
	}
	for i, ing := range recipe.Ingredients {
		field := fmt.Sprintf("ingredients[%d]", i)
		if ing.Code == "" {
			return domain.Invalid(field+".code", "es obligatorio")
		}
		if !ing.Quantity.IsPositive() {
			return domain.Invalid(field+".quantity", "debe ser mayor que cero")
		}
		switch ing.Type {
		case entity.IngredientMaterial:
			if _, ok := cat.Material(ing.Code); !ok {
				return domain.NotFound("material", ing.Code)
			}
		case entity.IngredientProduct:
			if ing.Code == recipe.ProductCode {
				return &domain.CyclicRecipeError{Path: []string{recipe.ProductCode, ing.Code}}
			}
			if _, ok := cat.Product(ing.Code); !ok {
				return domain.NotFound("producto", ing.Code)
			}
		default:
			return domain.Invalid(field+".type", "debe ser material o product")
		}
	}
	_, err := NewEngine(cat.WithRecipe(recipe)).ProductRequirements(recipe.ProductCode, decimal.NewFromInt(1))
	return err
}

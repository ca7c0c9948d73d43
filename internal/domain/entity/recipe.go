package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ingrediente de una receta.
const (
	IngredientMaterial = "material"
	IngredientProduct  = "product"
)

// Ingredient línea de la receta: cantidad necesaria para producir UNA unidad del producto padre.
type Ingredient struct {
	Type     string          `json:"type"`
	Code     string          `json:"code"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Recipe (BOM) de un producto: lista ordenada de ingredientes.
type Recipe struct {
	ProductCode string
	Ingredients []Ingredient
	UpdatedAt   time.Time
}

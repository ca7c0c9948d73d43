package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para registrar un producto terminado o semielaborado.
type CreateProductRequest struct {
	Code        string `json:"code" validate:"required,min=1,max=64"`
	Description string `json:"description" validate:"max=500"`
	Unit        string `json:"unit" validate:"max=20"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Unit        string    `json:"unit"`
	HasRecipe   bool      `json:"has_recipe"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateMaterialRequest entrada para registrar una materia prima.
type CreateMaterialRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=64"`
	Description string          `json:"description" validate:"max=500"`
	Unit        string          `json:"unit" validate:"max=20"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
}

// UpdateMaterialCostRequest entrada para el mantenimiento manual del costo estándar.
type UpdateMaterialCostRequest struct {
	Cost decimal.Decimal `json:"cost" validate:"gte=0"`
}

// MaterialResponse salida de una materia prima con su inventario por almacén.
type MaterialResponse struct {
	Code        string                     `json:"code"`
	Description string                     `json:"description"`
	Unit        string                     `json:"unit"`
	Cost        decimal.Decimal            `json:"cost"`
	Inventory   map[string]decimal.Decimal `json:"inventory"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

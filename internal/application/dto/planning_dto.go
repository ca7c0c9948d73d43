package dto

import "github.com/shopspring/decimal"

// DemandDTO demanda de un producto terminado.
type DemandDTO struct {
	ProductCode string          `json:"product_code" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// PlanRequest pronóstico a planificar. WarehouseID vacío o "all" suma todos los almacenes.
type PlanRequest struct {
	Forecast    []DemandDTO `json:"forecast" validate:"required,min=1,dive"`
	WarehouseID string      `json:"warehouse_id"`
}

// NetRequirementDTO requerimiento neto de un producto.
type NetRequirementDTO struct {
	ProductCode string          `json:"product_code"`
	Gross       decimal.Decimal `json:"gross"`
	Stock       decimal.Decimal `json:"stock"`
	Net         decimal.Decimal `json:"net"`
}

// SuggestedOrderDTO orden sugerida (cantidad redondeada hacia arriba).
type SuggestedOrderDTO struct {
	ProductCode   string          `json:"product_code"`
	Quantity      decimal.Decimal `json:"quantity"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}

// MaterialBalanceDTO requerido vs disponible de una materia prima.
type MaterialBalanceDTO struct {
	MaterialCode string          `json:"material_code"`
	Required     decimal.Decimal `json:"required"`
	Stock        decimal.Decimal `json:"stock"`
	Balance      decimal.Decimal `json:"balance"`
	Shortfall    decimal.Decimal `json:"shortfall"`
}

// PlanResponse resultado de la planificación.
type PlanResponse struct {
	WarehouseID  string                     `json:"warehouse_id"`
	Gross        map[string]decimal.Decimal `json:"gross"`
	Net          []NetRequirementDTO        `json:"net"`
	Suggestions  []SuggestedOrderDTO        `json:"suggestions"`
	RawMaterials []MaterialBalanceDTO       `json:"raw_materials"`
	Shortages    []MaterialBalanceDTO       `json:"shortages"`
}

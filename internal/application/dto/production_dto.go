package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest entrada para crear una orden de producción.
type CreateOrderRequest struct {
	ProductCode string          `json:"product_code" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	OperatorID  string          `json:"operator_id"`
	EquipoID    string          `json:"equipo_id"`
	WarehouseID string          `json:"warehouse_id"`
}

// CompleteOrderRequest entrada para completar una orden.
type CompleteOrderRequest struct {
	QuantityProduced decimal.Decimal `json:"quantity_produced" validate:"gt=0"`
	WarehouseID      string          `json:"warehouse_id"`
}

// MaterialLineDTO línea de materiales de una orden.
type MaterialLineDTO struct {
	MaterialCode string          `json:"material_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	Type         string          `json:"type"`
}

// OrderResponse salida de una orden de producción.
type OrderResponse struct {
	OrderID             int64             `json:"order_id"`
	ProductCode         string            `json:"product_code"`
	Quantity            decimal.Decimal   `json:"quantity"`
	QuantityProduced    *decimal.Decimal  `json:"quantity_produced"`
	OperatorID          string            `json:"operator_id"`
	EquipoID            string            `json:"equipo_id"`
	AlmacenID           string            `json:"almacen_id,omitempty"`
	AlmacenProduccionID *string           `json:"almacen_produccion_id"`
	CostStandardUnit    decimal.Decimal   `json:"cost_standard_unit"`
	CostStandard        decimal.Decimal   `json:"cost_standard"`
	CostExtra           decimal.Decimal   `json:"cost_extra"`
	CostReal            *decimal.Decimal  `json:"cost_real"`
	Overcost            *decimal.Decimal  `json:"overcost"`
	Status              string            `json:"status"`
	MaterialsUsed       []MaterialLineDTO `json:"materials_used"`
	MaterialsConsumed   []MaterialLineDTO `json:"materials_consumed,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	CompletedAt         *time.Time        `json:"completed_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ValeLineRequest línea de un vale.
type ValeLineRequest struct {
	MaterialCode string          `json:"material_code" validate:"required"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// ApplyValeRequest entrada para registrar un vale sobre una orden.
type ApplyValeRequest struct {
	Type        string            `json:"type" validate:"required,oneof=salida devolucion"`
	WarehouseID string            `json:"warehouse_id"`
	Materials   []ValeLineRequest `json:"materials" validate:"required,min=1,dive"`
}

// ValeMaterialDTO línea de vale con el costo congelado.
type ValeMaterialDTO struct {
	MaterialCode string          `json:"material_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	CostAtTime   decimal.Decimal `json:"cost_at_time"`
}

// ValeResponse salida de un vale.
type ValeResponse struct {
	ValeID    string            `json:"vale_id"`
	OrderID   int64             `json:"order_id"`
	Seq       int               `json:"seq"`
	Type      string            `json:"type"`
	AlmacenID string            `json:"almacen_id"`
	Materials []ValeMaterialDTO `json:"materials"`
	Cost      decimal.Decimal   `json:"cost"`
	CreatedAt time.Time         `json:"created_at"`
	CreatedBy string            `json:"created_by"`
}

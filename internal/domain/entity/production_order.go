package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de producción.
const (
	OrderStatusPending   = "Pendiente"
	OrderStatusCompleted = "Completada"
)

// MaterialLine línea de materiales de una orden (snapshot de receta o consumo real).
type MaterialLine struct {
	MaterialCode string          `json:"material_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	Type         string          `json:"type"`
}

// ProductionOrder orden de producción. Pendiente → Completada → (reabrir) → Pendiente.
type ProductionOrder struct {
	OrderID             int64
	ProductCode         string
	Quantity            decimal.Decimal  // cantidad planificada
	QuantityProduced    *decimal.Decimal // nil mientras está Pendiente
	OperatorID          string
	EquipoID            string
	AlmacenID           string  // almacén planificado al crear
	AlmacenProduccionID *string // almacén donde se movió el inventario al completar
	CostStandardUnit    decimal.Decimal
	CostStandard        decimal.Decimal
	CostExtra           decimal.Decimal // sobrecosto acumulado por vales
	CostReal            *decimal.Decimal
	Overcost            *decimal.Decimal
	CreatedAt           time.Time
	CompletedAt         *time.Time
	Status              string
	MaterialsUsed       []MaterialLine // snapshot al crear
	MaterialsConsumed   []MaterialLine // materiales base descontados al completar
	// ConsumptionRecorded indica que MaterialsConsumed es la foto real de la completación,
	// aunque esté vacía.
	ConsumptionRecorded bool
}

// IsCompleted indica si la orden ya descontó inventario.
func (o *ProductionOrder) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// Clone copia profunda para trabajar sobre snapshots sin compartir punteros.
func (o *ProductionOrder) Clone() *ProductionOrder {
	if o == nil {
		return nil
	}
	c := *o
	if o.QuantityProduced != nil {
		v := *o.QuantityProduced
		c.QuantityProduced = &v
	}
	if o.AlmacenProduccionID != nil {
		v := *o.AlmacenProduccionID
		c.AlmacenProduccionID = &v
	}
	if o.CostReal != nil {
		v := *o.CostReal
		c.CostReal = &v
	}
	if o.Overcost != nil {
		v := *o.Overcost
		c.Overcost = &v
	}
	if o.CompletedAt != nil {
		v := *o.CompletedAt
		c.CompletedAt = &v
	}
	c.MaterialsUsed = append([]MaterialLine(nil), o.MaterialsUsed...)
	c.MaterialsConsumed = append([]MaterialLine(nil), o.MaterialsConsumed...)
	return &c
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario generados por producción y vales.
const (
	MovementProductionConsume  = "PRODUCTION_CONSUME"
	MovementProductionOutput   = "PRODUCTION_OUTPUT"
	MovementProductionReversal = "PRODUCTION_REVERSAL"
	MovementValeSalida         = "VALE_SALIDA"
	MovementValeDevolucion     = "VALE_DEVOLUCION"
)

// InventoryMovement registro de cada delta aplicado al stock.
type InventoryMovement struct {
	ID            string
	TransactionID string
	ItemCode      string
	WarehouseID   string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Reference     string // orden o vale
	Date          time.Time
	CreatedBy     string
}

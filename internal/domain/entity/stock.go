package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock cantidad de un ítem (material o producto terminado) en un almacén.
type Stock struct {
	ItemCode    string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}

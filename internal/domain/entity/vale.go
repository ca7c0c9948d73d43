package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de vale.
const (
	ValeSalida     = "salida"     // descuenta stock y suma costo
	ValeDevolucion = "devolucion" // devuelve stock y resta costo
)

// ValeMaterial línea de un vale. CostAtTime se congela al crear el vale (costeo histórico).
type ValeMaterial struct {
	MaterialCode string          `json:"material_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	CostAtTime   decimal.Decimal `json:"cost_at_time"`
}

// Vale ajuste de materiales fuera de receta ligado a una orden.
type Vale struct {
	ValeID    string
	OrderID   int64
	Seq       int
	Type      string
	AlmacenID string
	Materials []ValeMaterial
	Cost      decimal.Decimal // con signo: + salida, − devolución
	CreatedAt time.Time
	CreatedBy string
}

// ValeID construye el identificador "{order_id}-{seq}".
func ValeID(orderID int64, seq int) string {
	return fmt.Sprintf("%d-%d", orderID, seq)
}

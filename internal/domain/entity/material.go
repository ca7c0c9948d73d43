package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa una materia prima con costo estándar unitario mantenido manualmente.
// Inventory es la vista por almacén (almacenID → cantidad) cargada desde la tabla stock.
type Material struct {
	Code        string
	Description string
	Unit        string
	Cost        decimal.Decimal // costo estándar unitario, no se recalcula por consumo
	Inventory   map[string]decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package entity

import "time"

// Warehouse representa un almacén. Como máximo uno es el predeterminado de producción.
type Warehouse struct {
	ID        string
	Name      string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

package entity

import "time"

// Product representa un producto fabricable. Su código es disjunto de los códigos de material.
// Sin receta no puede fabricarse.
type Product struct {
	Code        string
	Description string
	Unit        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

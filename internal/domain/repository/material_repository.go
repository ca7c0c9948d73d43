package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MaterialRepository define el puerto de persistencia para materias primas.
// GetByCode devuelve (nil, nil) si el material no existe.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
	List(ctx context.Context) ([]*entity.Material, error)
	UpdateCost(ctx context.Context, code string, cost decimal.Decimal) error
}

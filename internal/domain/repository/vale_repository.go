package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ValeRepository define el puerto de persistencia para vales de almacén.
type ValeRepository interface {
	Create(ctx context.Context, vale *entity.Vale) error
	ListByOrder(ctx context.Context, orderID int64) ([]*entity.Vale, error)
	CountByOrder(ctx context.Context, orderID int64) (int, error)
}

package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para almacenes.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context) ([]*entity.Warehouse, error)
	// SetDefault marca el almacén como predeterminado y desmarca todos los demás.
	SetDefault(ctx context.Context, id string) error
}

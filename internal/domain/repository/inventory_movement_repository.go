package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para el diario de movimientos.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByItem(ctx context.Context, itemCode string, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryMovement, error)
}

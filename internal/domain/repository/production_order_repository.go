package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProductionOrderRepository define el puerto de persistencia para órdenes de producción.
type ProductionOrderRepository interface {
	Create(ctx context.Context, order *entity.ProductionOrder) error
	GetByID(ctx context.Context, orderID int64) (*entity.ProductionOrder, error)
	// GetForUpdate bloquea la orden dentro de la transacción en curso.
	GetForUpdate(ctx context.Context, orderID int64) (*entity.ProductionOrder, error)
	Update(ctx context.Context, order *entity.ProductionOrder) error
	Delete(ctx context.Context, orderID int64) error
	List(ctx context.Context, limit, offset int) ([]*entity.ProductionOrder, error)
	MaxOrderID(ctx context.Context) (int64, error)
}

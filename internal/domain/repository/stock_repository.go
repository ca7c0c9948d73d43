package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por ítem+almacén.
// Get y GetForUpdate devuelven cantidad cero si no hay fila.
type StockRepository interface {
	Get(ctx context.Context, itemCode, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemCode, warehouseID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	ListByItem(ctx context.Context, itemCode string) ([]*entity.Stock, error)
	List(ctx context.Context) ([]*entity.Stock, error)
}

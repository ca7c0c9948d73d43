package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o
// fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepos arma todos los repositorios sobre q (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Products:   NewProductRepository(q),
		Materials:  NewMaterialRepository(q),
		Recipes:    NewRecipeRepository(q),
		Warehouses: NewWarehouseRepository(q),
		Stock:      NewStockRepository(q),
		Orders:     NewProductionOrderRepository(q),
		Vales:      NewValeRepository(q),
		Movements:  NewInventoryMovementRepository(q),
	}
}

package repository

import "context"

// Repos agrupa los repositorios atados a una misma conexión o transacción.
type Repos struct {
	Products   ProductRepository
	Materials  MaterialRepository
	Recipes    RecipeRepository
	Warehouses WarehouseRepository
	Stock      StockRepository
	Orders     ProductionOrderRepository
	Vales      ValeRepository
	Movements  InventoryMovementRepository
}

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace Rollback; si no, Commit. Todas las escrituras se confirman juntas o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

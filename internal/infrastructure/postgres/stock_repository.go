package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un ítem en un almacén.
func (r *StockRepo) Get(ctx context.Context, itemCode, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT item_code, warehouse_id, quantity, updated_at
		FROM stock WHERE item_code = $1 AND warehouse_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, itemCode, warehouseID).Scan(
		&s.ItemCode, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ItemCode: itemCode, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
// Si la celda no existe se crea en cero antes de bloquearla, así dos transacciones que
// ingresan el mismo ítem nuevo también se serializan.
func (r *StockRepo) GetForUpdate(ctx context.Context, itemCode, warehouseID string) (*entity.Stock, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (item_code, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (item_code, warehouse_id) DO NOTHING`,
		itemCode, warehouseID,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	query := `
		SELECT item_code, warehouse_id, quantity, updated_at
		FROM stock WHERE item_code = $1 AND warehouse_id = $2
		FOR UPDATE`
	var s entity.Stock
	err = r.q.QueryRow(ctx, query, itemCode, warehouseID).Scan(
		&s.ItemCode, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por ítem y almacén).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (item_code, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_code, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.ItemCode, stock.WarehouseID, stock.Quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.NotFoundError{Entity: "almacén", ID: stock.WarehouseID}
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByItem lista el stock de un ítem en todos los almacenes.
func (r *StockRepo) ListByItem(ctx context.Context, itemCode string) ([]*entity.Stock, error) {
	return r.list(ctx, `
		SELECT item_code, warehouse_id, quantity, updated_at
		FROM stock WHERE item_code = $1 ORDER BY warehouse_id`, itemCode)
}

// List lista todas las celdas de stock.
func (r *StockRepo) List(ctx context.Context) ([]*entity.Stock, error) {
	return r.list(ctx, `
		SELECT item_code, warehouse_id, quantity, updated_at
		FROM stock ORDER BY item_code, warehouse_id`)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ItemCode, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

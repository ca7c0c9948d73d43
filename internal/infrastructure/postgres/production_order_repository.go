package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)

// orderIDLock clave del advisory lock que serializa la asignación de order_id.
const orderIDLock = 7310420

// ProductionOrderRepo órdenes de producción sobre PostgreSQL. Las fotos de materiales van en JSONB.
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

const orderColumns = `order_id, product_code, quantity, quantity_produced, operator_id, equipo_id,
	almacen_id, almacen_produccion_id, cost_standard_unit, cost_standard, cost_extra, cost_real, overcost,
	status, materials_used, materials_consumed, consumption_recorded, created_at, completed_at`

// Create persiste una orden nueva.
func (r *ProductionOrderRepo) Create(ctx context.Context, o *entity.ProductionOrder) error {
	query := `INSERT INTO production_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query, orderArgs(o)...)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateCodeError{Entity: "orden", Code: fmt.Sprint(o.OrderID)}
		}
		return fmt.Errorf("insert production order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *ProductionOrderRepo) GetByID(ctx context.Context, orderID int64) (*entity.ProductionOrder, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM production_orders WHERE order_id = $1`, orderID)
}

// GetForUpdate obtiene la orden y bloquea su fila (SELECT FOR UPDATE).
func (r *ProductionOrderRepo) GetForUpdate(ctx context.Context, orderID int64) (*entity.ProductionOrder, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM production_orders WHERE order_id = $1 FOR UPDATE`, orderID)
}

func (r *ProductionOrderRepo) get(ctx context.Context, query string, orderID int64) (*entity.ProductionOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production order: %w", err)
	}
	return o, nil
}

// Update reescribe todos los campos mutables de la orden.
func (r *ProductionOrderRepo) Update(ctx context.Context, o *entity.ProductionOrder) error {
	query := `
		UPDATE production_orders SET
			product_code = $2, quantity = $3, quantity_produced = $4, operator_id = $5, equipo_id = $6,
			almacen_id = $7, almacen_produccion_id = $8, cost_standard_unit = $9, cost_standard = $10,
			cost_extra = $11, cost_real = $12, overcost = $13, status = $14, materials_used = $15,
			materials_consumed = $16, consumption_recorded = $17, created_at = $18, completed_at = $19
		WHERE order_id = $1`
	cmd, err := r.q.Exec(ctx, query, orderArgs(o)...)
	if err != nil {
		return fmt.Errorf("update production order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "orden", ID: fmt.Sprint(o.OrderID)}
	}
	return nil
}

// Delete elimina la orden.
func (r *ProductionOrderRepo) Delete(ctx context.Context, orderID int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM production_orders WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete production order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "orden", ID: fmt.Sprint(orderID)}
	}
	return nil
}

// List lista órdenes, más recientes primero.
func (r *ProductionOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.ProductionOrder, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+orderColumns+` FROM production_orders ORDER BY order_id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductionOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// MaxOrderID devuelve el mayor order_id (0 si no hay órdenes). Dentro de una transacción toma
// un advisory lock hasta el commit para que dos altas concurrentes no obtengan el mismo valor.
func (r *ProductionOrderRepo) MaxOrderID(ctx context.Context) (int64, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, orderIDLock); err != nil {
		return 0, fmt.Errorf("lock order id: %w", err)
	}
	var max int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(order_id), 0) FROM production_orders`).Scan(&max); err != nil {
		return 0, fmt.Errorf("max order id: %w", err)
	}
	return max, nil
}

func orderArgs(o *entity.ProductionOrder) []any {
	used := o.MaterialsUsed
	if used == nil {
		used = []entity.MaterialLine{}
	}
	consumed := o.MaterialsConsumed
	if consumed == nil {
		consumed = []entity.MaterialLine{}
	}
	return []any{
		o.OrderID, o.ProductCode, o.Quantity, o.QuantityProduced, o.OperatorID, o.EquipoID,
		o.AlmacenID, o.AlmacenProduccionID, o.CostStandardUnit, o.CostStandard, o.CostExtra,
		o.CostReal, o.Overcost, o.Status, used, consumed, o.ConsumptionRecorded, o.CreatedAt, o.CompletedAt,
	}
}

func scanOrder(row pgx.Row) (*entity.ProductionOrder, error) {
	var o entity.ProductionOrder
	err := row.Scan(
		&o.OrderID, &o.ProductCode, &o.Quantity, &o.QuantityProduced, &o.OperatorID, &o.EquipoID,
		&o.AlmacenID, &o.AlmacenProduccionID, &o.CostStandardUnit, &o.CostStandard, &o.CostExtra,
		&o.CostReal, &o.Overcost, &o.Status, &o.MaterialsUsed, &o.MaterialsConsumed,
		&o.ConsumptionRecorded, &o.CreatedAt, &o.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(o.MaterialsConsumed) == 0 {
		o.MaterialsConsumed = nil
	}
	return &o, nil
}

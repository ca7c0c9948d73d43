package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ValeRepository = (*ValeRepo)(nil)

// ValeRepo vales de almacén sobre PostgreSQL.
type ValeRepo struct {
	q Querier
}

// NewValeRepository construye el adaptador de vales. Pasar pool o tx (Querier).
func NewValeRepository(q Querier) *ValeRepo {
	return &ValeRepo{q: q}
}

// Create persiste un vale con sus líneas en JSONB.
func (r *ValeRepo) Create(ctx context.Context, v *entity.Vale) error {
	query := `
		INSERT INTO vales (vale_id, order_id, seq, type, almacen_id, materials, cost, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		v.ValeID, v.OrderID, v.Seq, v.Type, v.AlmacenID, v.Materials, v.Cost, v.CreatedAt, v.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateCodeError{Entity: "vale", Code: v.ValeID}
		}
		return fmt.Errorf("insert vale: %w", err)
	}
	return nil
}

// ListByOrder lista los vales de una orden por secuencia.
func (r *ValeRepo) ListByOrder(ctx context.Context, orderID int64) ([]*entity.Vale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT vale_id, order_id, seq, type, almacen_id, materials, cost, created_at, created_by
		FROM vales WHERE order_id = $1 ORDER BY seq`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list vales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Vale
	for rows.Next() {
		var v entity.Vale
		if err := rows.Scan(&v.ValeID, &v.OrderID, &v.Seq, &v.Type, &v.AlmacenID, &v.Materials,
			&v.Cost, &v.CreatedAt, &v.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan vale: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// CountByOrder cuenta los vales de una orden.
func (r *ValeRepo) CountByOrder(ctx context.Context, orderID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM vales WHERE order_id = $1`, orderID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vales: %w", err)
	}
	return n, nil
}

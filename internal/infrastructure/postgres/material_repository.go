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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación de MaterialRepository sobre PostgreSQL. Inventory se arma
// agregando la tabla stock por almacén.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador de materias primas. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialSelect = `
	SELECT m.code, m.description, m.unit, m.cost, m.created_at, m.updated_at,
		COALESCE(jsonb_object_agg(s.warehouse_id, s.quantity) FILTER (WHERE s.warehouse_id IS NOT NULL), '{}'::jsonb)
	FROM materials m
	LEFT JOIN stock s ON s.item_code = m.code`

// Create persiste una materia prima.
func (r *MaterialRepo) Create(ctx context.Context, material *entity.Material) error {
	query := `
		INSERT INTO materials (code, description, unit, cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		material.Code, material.Description, material.Unit, material.Cost,
		material.CreatedAt, material.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateCodeError{Entity: "material", Code: material.Code}
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByCode obtiene una materia prima con su inventario por almacén.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	query := materialSelect + ` WHERE m.code = $1 GROUP BY m.code`
	m, err := scanMaterial(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// List lista las materias primas por código.
func (r *MaterialRepo) List(ctx context.Context) ([]*entity.Material, error) {
	rows, err := r.q.Query(ctx, materialSelect+` GROUP BY m.code ORDER BY m.code`)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// UpdateCost actualiza el costo estándar unitario (mantenimiento manual).
func (r *MaterialRepo) UpdateCost(ctx context.Context, code string, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE materials SET cost = $2, updated_at = now() WHERE code = $1`,
		code, cost,
	)
	if err != nil {
		return fmt.Errorf("update material cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("material", code)
	}
	return nil
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	if err := row.Scan(&m.Code, &m.Description, &m.Unit, &m.Cost, &m.CreatedAt, &m.UpdatedAt, &m.Inventory); err != nil {
		return nil, err
	}
	return &m, nil
}

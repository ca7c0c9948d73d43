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

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo recetas sobre PostgreSQL; los ingredientes se guardan como JSONB en su orden.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador de recetas. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// Get obtiene la receta de un producto.
func (r *RecipeRepo) Get(ctx context.Context, productCode string) (*entity.Recipe, error) {
	var rc entity.Recipe
	err := r.q.QueryRow(ctx,
		`SELECT product_code, ingredients, updated_at FROM recipes WHERE product_code = $1`,
		productCode,
	).Scan(&rc.ProductCode, &rc.Ingredients, &rc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &rc, nil
}

// Save inserta o reemplaza la receta completa del producto.
func (r *RecipeRepo) Save(ctx context.Context, recipe *entity.Recipe) error {
	query := `
		INSERT INTO recipes (product_code, ingredients, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_code)
		DO UPDATE SET ingredients = EXCLUDED.ingredients, updated_at = EXCLUDED.updated_at`
	ingredients := recipe.Ingredients
	if ingredients == nil {
		ingredients = []entity.Ingredient{}
	}
	if _, err := r.q.Exec(ctx, query, recipe.ProductCode, ingredients, recipe.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return &domain.NotFoundError{Entity: "producto", ID: recipe.ProductCode}
		}
		return fmt.Errorf("save recipe: %w", err)
	}
	return nil
}

// List lista todas las recetas.
func (r *RecipeRepo) List(ctx context.Context) ([]*entity.Recipe, error) {
	rows, err := r.q.Query(ctx, `SELECT product_code, ingredients, updated_at FROM recipes ORDER BY product_code`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Recipe
	for rows.Next() {
		var rc entity.Recipe
		if err := rows.Scan(&rc.ProductCode, &rc.Ingredients, &rc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		list = append(list, &rc)
	}
	return list, rows.Err()
}

package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// RecipeRepository define el puerto de persistencia para recetas, una por producto.
type RecipeRepository interface {
	Get(ctx context.Context, productCode string) (*entity.Recipe, error)
	Save(ctx context.Context, recipe *entity.Recipe) error
	List(ctx context.Context) ([]*entity.Recipe, error)
}

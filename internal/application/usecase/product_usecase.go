package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ProductUseCase alta y consulta de productos terminados y semielaborados.
type ProductUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner repository.TxRunner, repos repository.Repos) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repos: repos}
}

// Create registra un producto. El código no puede existir ni como producto ni como material.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.Invalid("code", "es obligatorio")
	}
	now := time.Now()
	product := &entity.Product{
		Code:        code,
		Description: in.Description,
		Unit:        in.Unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := ensureCodeFree(ctx, repos, code); err != nil {
			return err
		}
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, false), nil
}

// GetByCode obtiene un producto.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	p, err := uc.repos.Products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", code)
	}
	recipe, err := uc.repos.Recipes.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p, recipe != nil && len(recipe.Ingredients) > 0), nil
}

// List lista los productos indicando cuáles tienen receta.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := uc.repos.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	recipes, err := uc.repos.Recipes.List(ctx)
	if err != nil {
		return nil, err
	}
	withRecipe := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		withRecipe[r.ProductCode] = len(r.Ingredients) > 0
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *toProductResponse(p, withRecipe[p.Code]))
	}
	return items, nil
}

// ensureCodeFree falla con DuplicateCodeError si el código ya es producto o material.
func ensureCodeFree(ctx context.Context, repos repository.Repos, code string) error {
	p, err := repos.Products.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if p != nil {
		return &domain.DuplicateCodeError{Entity: "producto", Code: code}
	}
	m, err := repos.Materials.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if m != nil {
		return &domain.DuplicateCodeError{Entity: "material", Code: code}
	}
	return nil
}

func toProductResponse(p *entity.Product, hasRecipe bool) *dto.ProductResponse {
	return &dto.ProductResponse{
		Code:        p.Code,
		Description: p.Description,
		Unit:        p.Unit,
		HasRecipe:   hasRecipe,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

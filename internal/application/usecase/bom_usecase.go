package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/bom"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BOMUseCase mantenimiento de recetas y consultas de costo y explosión de materiales.
type BOMUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      zerolog.Logger
}

// NewBOMUseCase construye el caso de uso.
func NewBOMUseCase(txRunner repository.TxRunner, repos repository.Repos, log zerolog.Logger) *BOMUseCase {
	return &BOMUseCase{txRunner: txRunner, repos: repos, log: log}
}

func (uc *BOMUseCase) engine(ctx context.Context) (*bom.Engine, error) {
	cat, err := catalog.Load(ctx, catalogSources(uc.repos))
	if err != nil {
		return nil, err
	}
	return bom.NewEngine(cat), nil
}

// ProductCost costo unitario de un producto según su receta vigente.
func (uc *BOMUseCase) ProductCost(ctx context.Context, productCode string) (*dto.ProductCostResponse, error) {
	e, err := uc.engine(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := e.Catalog().Product(productCode); !ok {
		return nil, domain.NotFound("producto", productCode)
	}
	cost, err := e.ProductCost(productCode)
	if err != nil {
		return nil, err
	}
	return &dto.ProductCostResponse{ProductCode: productCode, UnitCost: cost}, nil
}

// BaseMaterials explota quantity unidades del producto a materiales base.
func (uc *BOMUseCase) BaseMaterials(ctx context.Context, productCode string, quantity decimal.Decimal) (*dto.BaseMaterialsResponse, error) {
	if !quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	e, err := uc.engine(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := e.Catalog().Product(productCode); !ok {
		return nil, domain.NotFound("producto", productCode)
	}
	reqs, err := e.BaseMaterials(productCode, quantity)
	if err != nil {
		return nil, err
	}
	out := &dto.BaseMaterialsResponse{
		ProductCode: productCode,
		Quantity:    quantity,
		Materials:   make([]dto.MaterialRequirementDTO, 0, len(reqs)),
	}
	for _, r := range reqs {
		out.Materials = append(out.Materials, dto.MaterialRequirementDTO{MaterialCode: r.Code, Quantity: r.Quantity})
	}
	return out, nil
}

// GetRecipe devuelve la receta con su costo unitario.
func (uc *BOMUseCase) GetRecipe(ctx context.Context, productCode string) (*dto.RecipeResponse, error) {
	e, err := uc.engine(ctx)
	if err != nil {
		return nil, err
	}
	recipe, ok := e.Catalog().Recipe(productCode)
	if !ok {
		if _, exists := e.Catalog().Product(productCode); !exists {
			return nil, domain.NotFound("producto", productCode)
		}
		return nil, &domain.NoRecipeError{ProductCode: productCode}
	}
	cost, err := e.RecipeCost(productCode, recipe.Ingredients)
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe, cost), nil
}

// SaveRecipe valida y reemplaza la receta completa de un producto. Rechaza referencias a
// códigos inexistentes y recetas que cerrarían un ciclo.
func (uc *BOMUseCase) SaveRecipe(ctx context.Context, productCode string, in dto.SaveRecipeRequest) (*dto.RecipeResponse, error) {
	recipe := &entity.Recipe{
		ProductCode: productCode,
		Ingredients: make([]entity.Ingredient, 0, len(in.Ingredients)),
		UpdatedAt:   time.Now(),
	}
	for _, ing := range in.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, entity.Ingredient{
			Type:     ing.Type,
			Code:     ing.Code,
			Quantity: ing.Quantity,
		})
	}

	var cost decimal.Decimal
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		cat, err := catalog.Load(ctx, catalogSources(repos))
		if err != nil {
			return err
		}
		if err := bom.ValidateRecipe(cat, recipe); err != nil {
			return err
		}
		if err := repos.Recipes.Save(ctx, recipe); err != nil {
			return err
		}
		cost, err = bom.NewEngine(cat.WithRecipe(recipe)).RecipeCost(productCode, recipe.Ingredients)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("product_code", productCode).Msg("receta rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("product_code", productCode).
		Int("ingredients", len(recipe.Ingredients)).
		Str("unit_cost", cost.String()).
		Msg("receta guardada")
	return toRecipeResponse(recipe, cost), nil
}

func catalogSources(repos repository.Repos) catalog.Sources {
	return catalog.Sources{
		Products:   repos.Products,
		Materials:  repos.Materials,
		Recipes:    repos.Recipes,
		Warehouses: repos.Warehouses,
	}
}

func toRecipeResponse(r *entity.Recipe, cost decimal.Decimal) *dto.RecipeResponse {
	out := &dto.RecipeResponse{
		ProductCode: r.ProductCode,
		Ingredients: make([]dto.IngredientDTO, 0, len(r.Ingredients)),
		UnitCost:    cost,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, ing := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, dto.IngredientDTO{Type: ing.Type, Code: ing.Code, Quantity: ing.Quantity})
	}
	return out
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// MaterialUseCase alta, consulta y mantenimiento de costo de materias primas.
type MaterialUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	log      zerolog.Logger
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(txRunner repository.TxRunner, repos repository.Repos, log zerolog.Logger) *MaterialUseCase {
	return &MaterialUseCase{txRunner: txRunner, repos: repos, log: log}
}

// Create registra una materia prima con su costo estándar.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, domain.Invalid("code", "es obligatorio")
	}
	if in.Cost.IsNegative() {
		return nil, domain.Invalid("cost", "no puede ser negativo")
	}
	now := time.Now()
	material := &entity.Material{
		Code:        code,
		Description: in.Description,
		Unit:        in.Unit,
		Cost:        in.Cost,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := ensureCodeFree(ctx, repos, code); err != nil {
			return err
		}
		return repos.Materials.Create(ctx, material)
	})
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

// GetByCode obtiene una materia prima con su inventario por almacén.
func (uc *MaterialUseCase) GetByCode(ctx context.Context, code string) (*dto.MaterialResponse, error) {
	m, err := uc.repos.Materials.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("material", code)
	}
	return toMaterialResponse(m), nil
}

// List lista las materias primas.
func (uc *MaterialUseCase) List(ctx context.Context) ([]dto.MaterialResponse, error) {
	list, err := uc.repos.Materials.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMaterialResponse(m))
	}
	return items, nil
}

// UpdateCost cambia el costo estándar. No recalcula órdenes existentes: sus costos quedaron
// congelados al crearlas.
func (uc *MaterialUseCase) UpdateCost(ctx context.Context, code string, cost decimal.Decimal) (*dto.MaterialResponse, error) {
	if cost.IsNegative() {
		return nil, domain.Invalid("cost", "no puede ser negativo")
	}
	if err := uc.repos.Materials.UpdateCost(ctx, code, cost); err != nil {
		return nil, err
	}
	uc.log.Info().Str("material_code", code).Str("cost", cost.String()).Msg("costo de material actualizado")
	return uc.GetByCode(ctx, code)
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	inv := m.Inventory
	if inv == nil {
		inv = map[string]decimal.Decimal{}
	}
	return &dto.MaterialResponse{
		Code:        m.Code,
		Description: m.Description,
		Unit:        m.Unit,
		Cost:        m.Cost,
		Inventory:   inv,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

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

// WarehouseUseCase casos de uso de almacenes.
type WarehouseUseCase struct {
	txRunner repository.TxRunner
	repo     repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(txRunner repository.TxRunner, repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{txRunner: txRunner, repo: repo}
}

// Create crea un almacén. Si llega marcado como predeterminado desmarca a los demás.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, domain.Invalid("id", "es obligatorio")
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        id,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Warehouses.Create(ctx, warehouse); err != nil {
			return err
		}
		if !in.IsDefault {
			return nil
		}
		warehouse.IsDefault = true
		return repos.Warehouses.SetDefault(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene un almacén por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.NotFound("almacén", id)
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista los almacenes.
func (uc *WarehouseUseCase) List(ctx context.Context) ([]dto.WarehouseResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return items, nil
}

// SetDefault marca el almacén como predeterminado.
func (uc *WarehouseUseCase) SetDefault(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	if err := uc.repo.SetDefault(ctx, id); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		IsDefault: w.IsDefault,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

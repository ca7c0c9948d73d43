package usecase

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockUseCase consultas de stock y del diario de movimientos.
type StockUseCase struct {
	repos repository.Repos
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repos repository.Repos) *StockUseCase {
	return &StockUseCase{repos: repos}
}

// GetStock stock de un ítem en un almacén, o la suma de todos con "" / "all".
func (uc *StockUseCase) GetStock(ctx context.Context, itemCode, warehouseID string) (*dto.StockResponse, error) {
	if itemCode == "" {
		return nil, domain.Invalid("item_code", "es obligatorio")
	}
	rows, err := uc.repos.Stock.ListByItem(ctx, itemCode)
	if err != nil {
		return nil, err
	}
	if warehouseID == "" {
		warehouseID = inventory.AllWarehouses
	}
	out := &dto.StockResponse{
		ItemCode:    itemCode,
		WarehouseID: warehouseID,
		Quantity:    inventory.FromStock(rows).TotalStock(itemCode, warehouseID),
		Cells:       make([]dto.StockCellDTO, 0, len(rows)),
	}
	for _, s := range rows {
		if warehouseID != inventory.AllWarehouses && s.WarehouseID != warehouseID {
			continue
		}
		out.Cells = append(out.Cells, dto.StockCellDTO{WarehouseID: s.WarehouseID, Quantity: s.Quantity})
	}
	if len(out.Cells) == 0 && warehouseID != inventory.AllWarehouses {
		out.Cells = append(out.Cells, dto.StockCellDTO{WarehouseID: warehouseID, Quantity: decimal.Zero})
	}
	return out, nil
}

// ListMovements lista el diario por ítem o por almacén (uno de los dos es obligatorio).
func (uc *StockUseCase) ListMovements(ctx context.Context, itemCode, warehouseID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	var (
		list []*entity.InventoryMovement
		err  error
	)
	switch {
	case itemCode != "":
		list, err = uc.repos.Movements.ListByItem(ctx, itemCode, page.Limit, page.Offset)
	case warehouseID != "":
		list, err = uc.repos.Movements.ListByWarehouse(ctx, warehouseID, page.Limit, page.Offset)
	default:
		return nil, domain.Invalid("item_code", "indique item_code o warehouse_id")
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		if itemCode != "" && warehouseID != "" && m.WarehouseID != warehouseID {
			continue
		}
		items = append(items, dto.MovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ItemCode:      m.ItemCode,
			WarehouseID:   m.WarehouseID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			Reference:     m.Reference,
			Date:          m.Date,
			CreatedBy:     m.CreatedBy,
		})
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

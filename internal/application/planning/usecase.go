package planning

import (
	"context"
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain/bom"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// UseCase arma los snapshots de catálogo y stock y ejecuta la planeación.
type UseCase struct {
	sources   catalog.Sources
	stockRepo repository.StockRepository
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso de planeación.
func NewUseCase(sources catalog.Sources, stockRepo repository.StockRepository, log zerolog.Logger) *UseCase {
	return &UseCase{sources: sources, stockRepo: stockRepo, log: log}
}

// Plan corre la planeación del pronóstico contra el stock del almacén (o "all").
func (uc *UseCase) Plan(ctx context.Context, forecast []Demand, warehouseID string) (*Plan, error) {
	cat, err := catalog.Load(ctx, uc.sources)
	if err != nil {
		return nil, err
	}
	ledger, err := inventory.Load(ctx, uc.stockRepo)
	if err != nil {
		return nil, err
	}
	plan, err := NewEngine(bom.NewEngine(cat), ledger).Plan(forecast, warehouseID)
	if err != nil {
		return nil, err
	}
	if plan.HasShortages() {
		uc.log.Warn().
			Str("warehouse_id", plan.WarehouseID).
			Int("shortages", len(plan.Shortages)).
			Msg("planeación con faltantes de materia prima")
	}
	return plan, nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

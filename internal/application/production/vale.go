package production

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/event"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ValeLine material y cantidad de un vale.
type ValeLine struct {
	MaterialCode string
	Quantity     decimal.Decimal
}

// ApplyValeInput entrada para registrar un vale sobre una orden.
type ApplyValeInput struct {
	OrderID     int64
	Type        string // salida | devolucion
	WarehouseID string
	Materials   []ValeLine
	UserID      string
}

// ApplyVale registra un vale de salida o devolución. Una salida valida stock de todas las líneas
// antes de descontar; si alguna no alcanza se rechaza el vale completo. El costo de cada línea se
// congela con el costo unitario vigente del material.
func (uc *UseCase) ApplyVale(ctx context.Context, in ApplyValeInput) (*entity.Vale, error) {
	if in.Type != entity.ValeSalida && in.Type != entity.ValeDevolucion {
		return nil, domain.Invalid("type", "debe ser salida o devolucion")
	}
	if len(in.Materials) == 0 {
		return nil, domain.Invalid("materials", "el vale debe tener al menos un material")
	}
	for i, m := range in.Materials {
		if m.MaterialCode == "" {
			return nil, domain.Invalid(fmt.Sprintf("materials[%d].material_code", i), "es obligatorio")
		}
		if !m.Quantity.IsPositive() {
			return nil, domain.Invalid(fmt.Sprintf("materials[%d].quantity", i), "debe ser mayor que cero")
		}
	}

	var (
		vale    *entity.Vale
		changes []inventory.Change
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		order, err := repos.Orders.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return orderNotFound(in.OrderID)
		}
		cat, err := catalog.Load(ctx, sources(repos))
		if err != nil {
			return err
		}
		produccion := ""
		if order.AlmacenProduccionID != nil {
			produccion = *order.AlmacenProduccionID
		}
		warehouseID, err := uc.resolveWarehouse(cat, in.WarehouseID, produccion, order.AlmacenID)
		if err != nil {
			return err
		}

		sign, movementType := decimal.NewFromInt(1), entity.MovementValeSalida
		if in.Type == entity.ValeDevolucion {
			sign, movementType = decimal.NewFromInt(-1), entity.MovementValeDevolucion
		}

		lines := make([]entity.ValeMaterial, 0, len(in.Materials))
		deltas := make([]stockDelta, 0, len(in.Materials))
		total := decimal.Zero
		for _, m := range in.Materials {
			material, ok := cat.Material(m.MaterialCode)
			if !ok {
				return domain.NotFound("material", m.MaterialCode)
			}
			lines = append(lines, entity.ValeMaterial{
				MaterialCode: m.MaterialCode,
				Quantity:     m.Quantity,
				CostAtTime:   material.Cost,
			})
			deltas = append(deltas, stockDelta{
				Delta:        inventory.Delta{ItemCode: m.MaterialCode, WarehouseID: warehouseID, Quantity: m.Quantity.Mul(sign.Neg())},
				MovementType: movementType,
				UnitCost:     material.Cost,
			})
			total = total.Add(m.Quantity.Mul(material.Cost))
		}
		cost := total.Mul(sign)

		count, err := repos.Vales.CountByOrder(ctx, order.OrderID)
		if err != nil {
			return err
		}
		seq := count + 1
		valeID := entity.ValeID(order.OrderID, seq)

		changes, err = applyStockDeltas(ctx, repos, deltas, movementMeta{
			Reference: "VALE-" + valeID,
			UserID:    in.UserID,
			Date:      uc.now(),
		})
		if err != nil {
			return err
		}

		vale = &entity.Vale{
			ValeID:    valeID,
			OrderID:   order.OrderID,
			Seq:       seq,
			Type:      in.Type,
			AlmacenID: warehouseID,
			Materials: lines,
			Cost:      cost,
			CreatedAt: uc.now(),
			CreatedBy: in.UserID,
		}
		if err := repos.Vales.Create(ctx, vale); err != nil {
			return err
		}

		order.CostExtra = order.CostExtra.Add(cost)
		if order.IsCompleted() && order.QuantityProduced != nil {
			costReal := order.CostStandardUnit.Mul(*order.QuantityProduced).Add(order.CostExtra)
			overcost := order.CostExtra
			order.CostReal = &costReal
			order.Overcost = &overcost
		}
		return repos.Orders.Update(ctx, order)
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("order_id", in.OrderID).Str("type", in.Type).Msg("vale rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("vale_id", vale.ValeID).
		Str("type", vale.Type).
		Str("cost", vale.Cost.String()).
		Msg("vale aplicado")
	evs := []event.Event{event.New(event.TypeValeApplied, event.ValeApplied{
		ValeID:    vale.ValeID,
		OrderID:   vale.OrderID,
		Type:      vale.Type,
		AlmacenID: vale.AlmacenID,
		Cost:      vale.Cost,
	})}
	uc.events.Publish(append(evs, stockEvents(changes)...)...)
	return vale, nil
}

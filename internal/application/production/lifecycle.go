package production

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/bom"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/event"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CreateOrderInput entrada para crear una orden de producción.
type CreateOrderInput struct {
	ProductCode string
	Quantity    decimal.Decimal
	OperatorID  string
	EquipoID    string
	WarehouseID string // opcional: almacén planificado
}

// CreateOrder crea una orden Pendiente con costo estándar de la receta actual y la foto de
// materiales escalada a la cantidad. Falla con NoRecipeError si el producto no tiene receta.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.ProductionOrder, error) {
	if in.ProductCode == "" {
		return nil, domain.Invalid("product_code", "es obligatorio")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "debe ser mayor que cero")
	}

	var created *entity.ProductionOrder
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		cat, err := catalog.Load(ctx, sources(repos))
		if err != nil {
			return err
		}
		if _, ok := cat.Product(in.ProductCode); !ok {
			return domain.NotFound("producto", in.ProductCode)
		}
		recipe, ok := cat.Recipe(in.ProductCode)
		if !ok || len(recipe.Ingredients) == 0 {
			return &domain.NoRecipeError{ProductCode: in.ProductCode}
		}
		if in.WarehouseID != "" {
			if _, ok := cat.Warehouse(in.WarehouseID); !ok {
				return domain.NotFound("almacén", in.WarehouseID)
			}
		}

		engine := bom.NewEngine(cat)
		unitCost, err := engine.RecipeCost(in.ProductCode, recipe.Ingredients)
		if err != nil {
			return err
		}
		maxID, err := repos.Orders.MaxOrderID(ctx)
		if err != nil {
			return err
		}

		order := &entity.ProductionOrder{
			OrderID:          maxID + 1,
			ProductCode:      in.ProductCode,
			Quantity:         in.Quantity,
			OperatorID:       in.OperatorID,
			EquipoID:         in.EquipoID,
			AlmacenID:        in.WarehouseID,
			CostStandardUnit: unitCost,
			CostStandard:     unitCost.Mul(in.Quantity),
			CostExtra:        decimal.Zero,
			CreatedAt:        uc.now(),
			Status:           entity.OrderStatusPending,
			MaterialsUsed:    engine.Snapshot(in.ProductCode, in.Quantity),
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("product_code", in.ProductCode).Msg("crear orden rechazado")
		return nil, err
	}

	uc.log.Info().
		Int64("order_id", created.OrderID).
		Str("product_code", created.ProductCode).
		Str("quantity", created.Quantity.String()).
		Msg("orden de producción creada")
	uc.events.Publish(orderEvent(event.TypeOrderCreated, created))
	return created, nil
}

// CompleteOrderInput entrada para completar una orden.
type CompleteOrderInput struct {
	OrderID     int64
	RealQty     decimal.Decimal
	WarehouseID string
	UserID      string
}

// CompleteOrder descuenta los materiales base de realQty unidades, ingresa realQty unidades del
// producto terminado en el almacén y cierra la orden con su costo real. Si la orden ya está
// Completada devuelve la orden sin tocar el inventario.
func (uc *UseCase) CompleteOrder(ctx context.Context, in CompleteOrderInput) (*entity.ProductionOrder, error) {
	if !in.RealQty.IsPositive() {
		return nil, domain.Invalid("quantity_produced", "debe ser mayor que cero")
	}

	var (
		result  *entity.ProductionOrder
		changes []inventory.Change
		noop    bool
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		order, err := repos.Orders.GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return orderNotFound(in.OrderID)
		}
		if order.IsCompleted() {
			result, noop = order, true
			return nil
		}

		cat, err := catalog.Load(ctx, sources(repos))
		if err != nil {
			return err
		}
		warehouseID, err := uc.resolveWarehouse(cat, in.WarehouseID, order.AlmacenID)
		if err != nil {
			return err
		}

		consumed, err := bom.NewEngine(cat).BaseMaterials(order.ProductCode, in.RealQty)
		if err != nil {
			return err
		}
		deltas := make([]stockDelta, 0, len(consumed)+1)
		lines := make([]entity.MaterialLine, 0, len(consumed))
		for _, m := range consumed {
			deltas = append(deltas, stockDelta{
				Delta:        inventory.Delta{ItemCode: m.Code, WarehouseID: warehouseID, Quantity: m.Quantity.Neg()},
				MovementType: entity.MovementProductionConsume,
				UnitCost:     materialCost(cat, m.Code),
			})
			lines = append(lines, entity.MaterialLine{MaterialCode: m.Code, Quantity: m.Quantity, Type: entity.IngredientMaterial})
		}
		deltas = append(deltas, stockDelta{
			Delta:        inventory.Delta{ItemCode: order.ProductCode, WarehouseID: warehouseID, Quantity: in.RealQty},
			MovementType: entity.MovementProductionOutput,
			UnitCost:     order.CostStandardUnit,
		})

		now := uc.now()
		changes, err = applyStockDeltas(ctx, repos, deltas, movementMeta{
			Reference: orderReference(order.OrderID),
			UserID:    in.UserID,
			Date:      now,
		})
		if err != nil {
			return err
		}

		produced := in.RealQty
		costReal := order.CostStandardUnit.Mul(produced).Add(order.CostExtra)
		overcost := order.CostExtra
		order.QuantityProduced = &produced
		order.CostReal = &costReal
		order.Overcost = &overcost
		order.Status = entity.OrderStatusCompleted
		order.CompletedAt = &now
		order.AlmacenProduccionID = &warehouseID
		order.MaterialsConsumed = lines
		order.ConsumptionRecorded = true
		if err := repos.Orders.Update(ctx, order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("order_id", in.OrderID).Msg("completar orden rechazado")
		return nil, err
	}
	if noop {
		uc.log.Debug().Int64("order_id", in.OrderID).Msg("orden ya completada, sin cambios")
		return result, nil
	}

	uc.log.Info().
		Int64("order_id", result.OrderID).
		Str("warehouse_id", *result.AlmacenProduccionID).
		Str("quantity_produced", result.QuantityProduced.String()).
		Str("cost_real", result.CostReal.String()).
		Msg("orden de producción completada")
	uc.events.Publish(append([]event.Event{orderEvent(event.TypeOrderCompleted, result)}, stockEvents(changes)...)...)
	return result, nil
}

// ReopenOrder revierte exactamente el efecto de la completación y deja la orden Pendiente.
func (uc *UseCase) ReopenOrder(ctx context.Context, orderID int64, userID string) (*entity.ProductionOrder, error) {
	var (
		result  *entity.ProductionOrder
		changes []inventory.Change
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		order, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return orderNotFound(orderID)
		}
		if !order.IsCompleted() {
			return &domain.InvalidTransitionError{OrderID: orderID, From: order.Status, Action: "reabrir"}
		}
		if order.AlmacenProduccionID == nil || *order.AlmacenProduccionID == "" {
			return &domain.MissingWarehouseError{OrderID: orderID}
		}
		warehouseID := *order.AlmacenProduccionID
		produced := decimal.Zero
		if order.QuantityProduced != nil {
			produced = *order.QuantityProduced
		}

		cat, err := catalog.Load(ctx, sources(repos))
		if err != nil {
			return err
		}
		consumed := order.MaterialsConsumed
		if !order.ConsumptionRecorded {
			// Registros sin foto de consumo: se recalcula con la receta vigente.
			base, err := bom.NewEngine(cat).BaseMaterials(order.ProductCode, produced)
			if err != nil {
				return err
			}
			for _, m := range base {
				consumed = append(consumed, entity.MaterialLine{MaterialCode: m.Code, Quantity: m.Quantity, Type: entity.IngredientMaterial})
			}
		}

		deltas := make([]stockDelta, 0, len(consumed)+1)
		for _, m := range consumed {
			deltas = append(deltas, stockDelta{
				Delta:        inventory.Delta{ItemCode: m.MaterialCode, WarehouseID: warehouseID, Quantity: m.Quantity},
				MovementType: entity.MovementProductionReversal,
				UnitCost:     materialCost(cat, m.MaterialCode),
			})
		}
		deltas = append(deltas, stockDelta{
			Delta:        inventory.Delta{ItemCode: order.ProductCode, WarehouseID: warehouseID, Quantity: produced.Neg()},
			MovementType: entity.MovementProductionReversal,
			UnitCost:     order.CostStandardUnit,
		})

		changes, err = applyStockDeltas(ctx, repos, deltas, movementMeta{
			Reference: orderReference(orderID),
			UserID:    userID,
			Date:      uc.now(),
		})
		if err != nil {
			return err
		}

		order.Status = entity.OrderStatusPending
		order.QuantityProduced = nil
		order.CostReal = nil
		order.Overcost = nil
		order.CompletedAt = nil
		order.AlmacenProduccionID = nil
		order.MaterialsConsumed = nil
		order.ConsumptionRecorded = false
		if err := repos.Orders.Update(ctx, order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Int64("order_id", orderID).Msg("reabrir orden rechazado")
		return nil, err
	}

	uc.log.Info().Int64("order_id", orderID).Msg("orden de producción reabierta")
	uc.events.Publish(append([]event.Event{orderEvent(event.TypeOrderReopened, result)}, stockEvents(changes)...)...)
	return result, nil
}

// DeleteOrder elimina una orden Pendiente sin producción registrada ni vales.
func (uc *UseCase) DeleteOrder(ctx context.Context, orderID int64) error {
	var deleted *entity.ProductionOrder
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		order, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return orderNotFound(orderID)
		}
		if order.IsCompleted() || order.QuantityProduced != nil {
			return &domain.InvalidTransitionError{OrderID: orderID, From: order.Status, Action: "eliminar"}
		}
		vales, err := repos.Vales.CountByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if vales > 0 {
			return &domain.InvalidTransitionError{
				OrderID: orderID,
				From:    fmt.Sprintf("%s con %d vale(s)", order.Status, vales),
				Action:  "eliminar",
			}
		}
		deleted = order
		return repos.Orders.Delete(ctx, orderID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("order_id", orderID).Msg("orden de producción eliminada")
	uc.events.Publish(orderEvent(event.TypeOrderDeleted, deleted))
	return nil
}

func materialCost(cat *catalog.Catalog, code string) decimal.Decimal {
	if m, ok := cat.Material(code); ok {
		return m.Cost
	}
	return decimal.Zero
}

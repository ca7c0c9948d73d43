package production

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/event"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// stockDelta delta del libro con los datos del movimiento que lo registra.
type stockDelta struct {
	inventory.Delta
	MovementType string
	UnitCost     decimal.Decimal
}

// movementMeta datos comunes de los movimientos de una operación.
type movementMeta struct {
	Reference string
	UserID    string
	Date      time.Time
}

// applyStockDeltas bloquea las celdas afectadas (GetForUpdate), valida el lote completo en un
// libro en memoria y, solo si ningún saldo queda negativo, persiste saldos y movimientos.
// Lectura de validación y escritura ocurren en la misma transacción.
func applyStockDeltas(ctx context.Context, repos repository.Repos, deltas []stockDelta, meta movementMeta) ([]inventory.Change, error) {
	type cell struct{ item, wh string }
	locked := make(map[cell]bool)
	var rows []*entity.Stock
	plain := make([]inventory.Delta, 0, len(deltas))
	byCell := make(map[cell]stockDelta, len(deltas))
	for _, d := range deltas {
		k := cell{d.ItemCode, d.WarehouseID}
		if !locked[k] {
			s, err := repos.Stock.GetForUpdate(ctx, d.ItemCode, d.WarehouseID)
			if err != nil {
				return nil, err
			}
			rows = append(rows, s)
			locked[k] = true
			byCell[k] = d
		}
		plain = append(plain, d.Delta)
	}

	changes, err := inventory.FromStock(rows).ApplyBatch(plain)
	if err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	for _, c := range changes {
		if err := repos.Stock.Upsert(ctx, &entity.Stock{
			ItemCode:    c.ItemCode,
			WarehouseID: c.WarehouseID,
			Quantity:    c.Balance,
			UpdatedAt:   meta.Date,
		}); err != nil {
			return nil, err
		}
		d := byCell[cell{c.ItemCode, c.WarehouseID}]
		if err := repos.Movements.Create(ctx, &entity.InventoryMovement{
			TransactionID: txID,
			ItemCode:      c.ItemCode,
			WarehouseID:   c.WarehouseID,
			Type:          d.MovementType,
			Quantity:      c.Delta,
			UnitCost:      d.UnitCost,
			TotalCost:     c.Delta.Mul(d.UnitCost),
			Reference:     meta.Reference,
			Date:          meta.Date,
			CreatedBy:     meta.UserID,
		}); err != nil {
			return nil, err
		}
	}
	return changes, nil
}

func stockEvents(changes []inventory.Change) []event.Event {
	out := make([]event.Event, 0, len(changes))
	for _, c := range changes {
		out = append(out, event.New(event.TypeStockChanged, event.StockChanged{
			ItemCode:    c.ItemCode,
			WarehouseID: c.WarehouseID,
			Delta:       c.Delta,
			Balance:     c.Balance,
		}))
	}
	return out
}

func orderEvent(eventType string, o *entity.ProductionOrder) event.Event {
	data := event.OrderChanged{
		OrderID:          o.OrderID,
		ProductCode:      o.ProductCode,
		Status:           o.Status,
		QuantityProduced: o.QuantityProduced,
	}
	if o.AlmacenProduccionID != nil {
		data.WarehouseID = *o.AlmacenProduccionID
	}
	return event.New(eventType, data)
}

func formatID(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}

func orderReference(orderID int64) string {
	return "OP-" + formatID(orderID)
}

// Package inventory mantiene el libro de existencias por ítem y almacén. Toda mutación es un delta
// con signo; un lote de deltas se valida completo antes de aplicarse, de modo que una salida que
// dejaría stock negativo no modifica nada.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// AllWarehouses selector para sumar el stock de todos los almacenes.
const AllWarehouses = "all"

// Delta cambio con signo sobre una celda ítem+almacén.
type Delta struct {
	ItemCode    string
	WarehouseID string
	Quantity    decimal.Decimal
}

// Change resultado aplicado sobre una celda: delta neto y saldo final.
type Change struct {
	ItemCode    string
	WarehouseID string
	Delta       decimal.Decimal
	Balance     decimal.Decimal
}

// Ledger existencias en memoria: ítem → almacén → cantidad.
type Ledger struct {
	stock map[string]map[string]decimal.Decimal
}

// NewLedger crea un libro vacío.
func NewLedger() *Ledger {
	return &Ledger{stock: make(map[string]map[string]decimal.Decimal)}
}

// FromStock crea un libro a partir de filas de stock.
func FromStock(rows []*entity.Stock) *Ledger {
	l := NewLedger()
	for _, s := range rows {
		if s == nil {
			continue
		}
		l.set(s.ItemCode, s.WarehouseID, l.Stock(s.ItemCode, s.WarehouseID).Add(s.Quantity))
	}
	return l
}

// Load lee todo el stock del repositorio.
func Load(ctx context.Context, repo repository.StockRepository) (*Ledger, error) {
	rows, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar stock: %w", err)
	}
	return FromStock(rows), nil
}

// Stock cantidad del ítem en el almacén (0 si no existe).
func (l *Ledger) Stock(itemCode, warehouseID string) decimal.Decimal {
	return l.stock[itemCode][warehouseID]
}

// TotalStock cantidad en un almacén o, con AllWarehouses (o vacío), la suma de todos.
func (l *Ledger) TotalStock(itemCode, warehouseID string) decimal.Decimal {
	if warehouseID != AllWarehouses && warehouseID != "" {
		return l.Stock(itemCode, warehouseID)
	}
	total := decimal.Zero
	for _, q := range l.stock[itemCode] {
		total = total.Add(q)
	}
	return total
}

// ApplyDelta aplica un único delta y devuelve el nuevo saldo.
func (l *Ledger) ApplyDelta(itemCode, warehouseID string, delta decimal.Decimal) (decimal.Decimal, error) {
	changes, err := l.ApplyBatch([]Delta{{ItemCode: itemCode, WarehouseID: warehouseID, Quantity: delta}})
	if err != nil {
		return l.Stock(itemCode, warehouseID), err
	}
	if len(changes) == 0 {
		return l.Stock(itemCode, warehouseID), nil
	}
	return changes[0].Balance, nil
}

// ApplyBatch agrupa los deltas por celda (en orden de primera aparición), verifica que ningún saldo
// quede negativo y solo entonces los aplica todos. Ante el primer faltante devuelve
// *domain.InsufficientStockError y el libro queda intacto.
func (l *Ledger) ApplyBatch(deltas []Delta) ([]Change, error) {
	type cell struct{ item, wh string }
	var order []cell
	net := make(map[cell]decimal.Decimal)
	for _, d := range deltas {
		if d.ItemCode == "" || d.WarehouseID == "" {
			return nil, domain.Invalid("delta", "ítem y almacén son obligatorios")
		}
		k := cell{d.ItemCode, d.WarehouseID}
		if _, seen := net[k]; !seen {
			order = append(order, k)
		}
		net[k] = net[k].Add(d.Quantity)
	}

	changes := make([]Change, 0, len(order))
	for _, k := range order {
		delta := net[k]
		if delta.IsZero() {
			continue
		}
		current := l.Stock(k.item, k.wh)
		balance := current.Add(delta)
		if balance.IsNegative() {
			return nil, &domain.InsufficientStockError{
				MaterialCode: k.item,
				WarehouseID:  k.wh,
				Available:    current,
				Required:     delta.Neg(),
			}
		}
		changes = append(changes, Change{ItemCode: k.item, WarehouseID: k.wh, Delta: delta, Balance: balance})
	}
	for _, c := range changes {
		l.set(c.ItemCode, c.WarehouseID, c.Balance)
	}
	return changes, nil
}

// Rows devuelve el contenido como filas de stock ordenadas por ítem y almacén.
func (l *Ledger) Rows() []*entity.Stock {
	var rows []*entity.Stock
	for item, byWh := range l.stock {
		for wh, q := range byWh {
			rows = append(rows, &entity.Stock{ItemCode: item, WarehouseID: wh, Quantity: q})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ItemCode != rows[j].ItemCode {
			return rows[i].ItemCode < rows[j].ItemCode
		}
		return rows[i].WarehouseID < rows[j].WarehouseID
	})
	return rows
}

func (l *Ledger) set(itemCode, warehouseID string, qty decimal.Decimal) {
	byWh, ok := l.stock[itemCode]
	if !ok {
		byWh = make(map[string]decimal.Decimal)
		l.stock[itemCode] = byWh
	}
	byWh[warehouseID] = qty
}

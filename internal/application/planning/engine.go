// Package planning calcula requerimientos brutos y netos (MRP simplificado) a partir de un
// pronóstico de demanda, sugiere órdenes de producción y reporta faltantes de materia prima.
package planning

import (
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/bom"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// Demand renglón del pronóstico.
type Demand struct {
	ProductCode string
	Quantity    decimal.Decimal
}

// NetRequirement requerimiento neto de un producto: bruto − stock; Suggested es el neto
// redondeado hacia arriba (0 si no hace falta producir).
type NetRequirement struct {
	ProductCode string
	Gross       decimal.Decimal
	Stock       decimal.Decimal
	Net         decimal.Decimal
	Suggested   decimal.Decimal
}

// SuggestedOrder orden de producción sugerida.
type SuggestedOrder struct {
	ProductCode   string
	Quantity      decimal.Decimal
	EstimatedCost decimal.Decimal
}

// MaterialBalance consumo total de una materia prima frente al stock. Balance negativo = faltante.
type MaterialBalance struct {
	MaterialCode string
	Required     decimal.Decimal
	Stock        decimal.Decimal
	Balance      decimal.Decimal
}

// Shortfall cantidad faltante (0 si alcanza).
func (b MaterialBalance) Shortfall() decimal.Decimal {
	if b.Balance.IsNegative() {
		return b.Balance.Neg()
	}
	return decimal.Zero
}

// Plan resultado completo de una corrida de planeación.
type Plan struct {
	WarehouseID  string
	Gross        []bom.Requirement
	Net          []NetRequirement
	Suggestions  []SuggestedOrder
	RawMaterials []MaterialBalance
	Shortages    []MaterialBalance
}

// HasShortages indica si algún material no alcanza. Es informativo, no bloquea.
func (p *Plan) HasShortages() bool {
	return len(p.Shortages) > 0
}

// Engine motor de planeación sobre un snapshot de catálogo (vía BOM) y de stock.
type Engine struct {
	bom    *bom.Engine
	ledger *inventory.Ledger
}

// NewEngine construye el motor.
func NewEngine(bomEngine *bom.Engine, ledger *inventory.Ledger) *Engine {
	return &Engine{bom: bomEngine, ledger: ledger}
}

// GrossRequirements explota cada renglón del pronóstico en su propio producto más todos los
// productos intermedios que requiere, acumulando cantidades por código.
func (e *Engine) GrossRequirements(forecast []Demand) ([]bom.Requirement, error) {
	if err := e.validate(forecast); err != nil {
		return nil, err
	}
	acc := make(map[string]decimal.Decimal)
	for _, d := range forecast {
		if err := e.bom.AccumulateProducts(d.ProductCode, d.Quantity, acc); err != nil {
			return nil, err
		}
	}
	out := make([]bom.Requirement, 0, len(acc))
	for _, code := range sortedKeys(acc) {
		out = append(out, bom.Requirement{Code: code, Quantity: acc[code]})
	}
	return out, nil
}

// NetRequirements resta el stock (por almacén o agregado) a cada requerimiento bruto.
func (e *Engine) NetRequirements(gross []bom.Requirement, warehouseID string) []NetRequirement {
	out := make([]NetRequirement, 0, len(gross))
	for _, g := range gross {
		stock := e.ledger.TotalStock(g.Code, warehouseID)
		net := g.Quantity.Sub(stock)
		suggested := decimal.Zero
		if net.IsPositive() {
			suggested = net.Ceil()
		}
		out = append(out, NetRequirement{
			ProductCode: g.Code,
			Gross:       g.Quantity,
			Stock:       stock,
			Net:         net,
			Suggested:   suggested,
		})
	}
	return out
}

// RawMaterialBalance calcula el consumo total de materia prima del pronóstico: los materiales
// directos de cada producto del requerimiento bruto por su cantidad bruta. Como cada nivel aparece
// una sola vez en el bruto, cada material se cuenta una vez por rama.
func (e *Engine) RawMaterialBalance(gross []bom.Requirement, warehouseID string) []MaterialBalance {
	acc := make(map[string]decimal.Decimal)
	for _, g := range gross {
		for _, m := range e.bom.DirectMaterials(g.Code, g.Quantity) {
			acc[m.Code] = acc[m.Code].Add(m.Quantity)
		}
	}
	out := make([]MaterialBalance, 0, len(acc))
	for _, code := range sortedKeys(acc) {
		stock := e.ledger.TotalStock(code, warehouseID)
		out = append(out, MaterialBalance{
			MaterialCode: code,
			Required:     acc[code],
			Stock:        stock,
			Balance:      stock.Sub(acc[code]),
		})
	}
	return out
}

// Plan ejecuta la corrida completa: bruto, neto, sugerencias y verificación de materia prima.
func (e *Engine) Plan(forecast []Demand, warehouseID string) (*Plan, error) {
	if warehouseID == "" {
		warehouseID = inventory.AllWarehouses
	}
	gross, err := e.GrossRequirements(forecast)
	if err != nil {
		return nil, err
	}
	plan := &Plan{
		WarehouseID:  warehouseID,
		Gross:        gross,
		Net:          e.NetRequirements(gross, warehouseID),
		RawMaterials: e.RawMaterialBalance(gross, warehouseID),
	}
	for _, b := range plan.RawMaterials {
		if b.Balance.IsNegative() {
			plan.Shortages = append(plan.Shortages, b)
		}
	}
	for _, n := range plan.Net {
		if !n.Suggested.IsPositive() {
			continue
		}
		unitCost, err := e.bom.ProductCost(n.ProductCode)
		if err != nil {
			return nil, err
		}
		plan.Suggestions = append(plan.Suggestions, SuggestedOrder{
			ProductCode:   n.ProductCode,
			Quantity:      n.Suggested,
			EstimatedCost: unitCost.Mul(n.Suggested),
		})
	}
	return plan, nil
}

func (e *Engine) validate(forecast []Demand) error {
	if len(forecast) == 0 {
		return domain.Invalid("forecast", "el pronóstico no puede estar vacío")
	}
	for i, d := range forecast {
		if d.ProductCode == "" {
			return domain.Invalid(fmt.Sprintf("forecast[%d].product_code", i), "es obligatorio")
		}
		if !d.Quantity.IsPositive() {
			return domain.Invalid(fmt.Sprintf("forecast[%d].quantity", i), "debe ser mayor que cero")
		}
		if _, ok := e.bom.Catalog().Product(d.ProductCode); !ok {
			return domain.NotFound("producto", d.ProductCode)
		}
	}
	return nil
}

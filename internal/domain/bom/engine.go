// Package bom implementa el cálculo recursivo de costos y la explosión de la lista de materiales
// sobre el grafo de recetas. Toda receta debe ser acíclica: un producto que se contiene a sí
// mismo, directa o transitivamente, produce domain.CyclicRecipeError en lugar de recursión infinita.
//
// Las referencias a productos o materiales inexistentes y las cantidades no positivas aportan cero:
// las recetas pueden apuntar a ítems borrados recientemente y el costo mostrado prefiere un total
// parcial a un fallo.
package bom

import (
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Requirement cantidad requerida de un código (material o producto).
type Requirement struct {
	Code     string
	Quantity decimal.Decimal
}

// Engine motor BOM sobre un snapshot del catálogo. No es seguro para uso concurrente:
// crear uno por operación.
type Engine struct {
	cat      *catalog.Catalog
	costMemo map[string]decimal.Decimal
}

// NewEngine construye el motor sobre el snapshot dado.
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{cat: cat, costMemo: make(map[string]decimal.Decimal)}
}

// Catalog devuelve el snapshot sobre el que opera el motor.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// path pila de productos en recorrido, para detectar ciclos.
type path struct {
	codes []string
	on    map[string]bool
}

func newPath() *path {
	return &path{on: make(map[string]bool)}
}

func (p *path) push(code string) error {
	if p.on[code] {
		cycle := append([]string(nil), p.codes[p.index(code):]...)
		return &domain.CyclicRecipeError{Path: append(cycle, code)}
	}
	p.codes = append(p.codes, code)
	p.on[code] = true
	return nil
}

func (p *path) pop() {
	last := p.codes[len(p.codes)-1]
	p.codes = p.codes[:len(p.codes)-1]
	delete(p.on, last)
}

func (p *path) index(code string) int {
	for i, c := range p.codes {
		if c == code {
			return i
		}
	}
	return 0
}

// RecipeCost suma el costo de una lista de ingredientes: material → costo*cantidad,
// producto → costo de su receta*cantidad (0 si no tiene receta).
// productCode identifica al dueño de la lista para detectar autorreferencias; puede ser vacío.
func (e *Engine) RecipeCost(productCode string, ingredients []entity.Ingredient) (decimal.Decimal, error) {
	p := newPath()
	if productCode != "" {
		if err := p.push(productCode); err != nil {
			return decimal.Zero, err
		}
	}
	return e.ingredientsCost(ingredients, p)
}

// ProductCost costo estándar unitario de un producto según su receta actual.
func (e *Engine) ProductCost(productCode string) (decimal.Decimal, error) {
	return e.productCost(productCode, newPath())
}

func (e *Engine) ingredientsCost(ingredients []entity.Ingredient, p *path) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, ing := range ingredients {
		if !ing.Quantity.IsPositive() {
			continue
		}
		switch ing.Type {
		case entity.IngredientMaterial:
			m, ok := e.cat.Material(ing.Code)
			if !ok {
				continue
			}
			total = total.Add(m.Cost.Mul(ing.Quantity))
		case entity.IngredientProduct:
			sub, err := e.productCost(ing.Code, p)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(sub.Mul(ing.Quantity))
		}
	}
	return total, nil
}

func (e *Engine) productCost(code string, p *path) (decimal.Decimal, error) {
	if err := p.push(code); err != nil {
		return decimal.Zero, err
	}
	defer p.pop()
	// Un valor memorizado implica que su subárbol se recorrió completo sin ciclos.
	if cost, ok := e.costMemo[code]; ok {
		return cost, nil
	}
	ingredients := e.cat.Ingredients(code)
	if ingredients == nil {
		return decimal.Zero, nil
	}
	cost, err := e.ingredientsCost(ingredients, p)
	if err != nil {
		return decimal.Zero, err
	}
	e.costMemo[code] = cost
	return cost, nil
}

// BaseMaterials explota la receta de productCode para requiredQty unidades y devuelve solo las
// hojas de tipo material, acumulando cantidades repetidas entre ramas. Orden ascendente por código.
func (e *Engine) BaseMaterials(productCode string, requiredQty decimal.Decimal) ([]Requirement, error) {
	acc := make(map[string]decimal.Decimal)
	if requiredQty.IsPositive() {
		if err := e.explodeMaterials(productCode, requiredQty, newPath(), acc); err != nil {
			return nil, err
		}
	}
	return sorted(acc), nil
}

func (e *Engine) explodeMaterials(code string, qty decimal.Decimal, p *path, acc map[string]decimal.Decimal) error {
	if err := p.push(code); err != nil {
		return err
	}
	defer p.pop()
	for _, ing := range e.cat.Ingredients(code) {
		if !ing.Quantity.IsPositive() || ing.Code == "" {
			continue
		}
		need := ing.Quantity.Mul(qty)
		switch ing.Type {
		case entity.IngredientMaterial:
			if _, ok := e.cat.Material(ing.Code); !ok {
				continue
			}
			acc[ing.Code] = acc[ing.Code].Add(need)
		case entity.IngredientProduct:
			if err := e.explodeMaterials(ing.Code, need, p, acc); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProductRequirements explota productCode incluyendo el propio producto y todos los productos
// intermedios requeridos transitivamente (no las hojas de material).
func (e *Engine) ProductRequirements(productCode string, qty decimal.Decimal) ([]Requirement, error) {
	acc := make(map[string]decimal.Decimal)
	if err := e.AccumulateProducts(productCode, qty, acc); err != nil {
		return nil, err
	}
	return sorted(acc), nil
}

// AccumulateProducts suma en acc los requerimientos de productos de productCode por qty unidades.
func (e *Engine) AccumulateProducts(productCode string, qty decimal.Decimal, acc map[string]decimal.Decimal) error {
	if !qty.IsPositive() || productCode == "" {
		return nil
	}
	return e.explodeProducts(productCode, qty, newPath(), acc)
}

func (e *Engine) explodeProducts(code string, qty decimal.Decimal, p *path, acc map[string]decimal.Decimal) error {
	if err := p.push(code); err != nil {
		return err
	}
	defer p.pop()
	acc[code] = acc[code].Add(qty)
	for _, ing := range e.cat.Ingredients(code) {
		if ing.Type != entity.IngredientProduct || !ing.Quantity.IsPositive() || ing.Code == "" {
			continue
		}
		if err := e.explodeProducts(ing.Code, ing.Quantity.Mul(qty), p, acc); err != nil {
			return err
		}
	}
	return nil
}

// DirectMaterials devuelve los ingredientes de tipo material del primer nivel de la receta,
// multiplicados por qty.
func (e *Engine) DirectMaterials(productCode string, qty decimal.Decimal) []Requirement {
	acc := make(map[string]decimal.Decimal)
	for _, ing := range e.cat.Ingredients(productCode) {
		if ing.Type != entity.IngredientMaterial || !ing.Quantity.IsPositive() || ing.Code == "" {
			continue
		}
		if _, ok := e.cat.Material(ing.Code); !ok {
			continue
		}
		acc[ing.Code] = acc[ing.Code].Add(ing.Quantity.Mul(qty))
	}
	return sorted(acc)
}

// Snapshot escala la receta actual de productCode a qty unidades, conservando el tipo de cada línea
// y su orden. Es la foto de materiales que guarda una orden al crearse.
func (e *Engine) Snapshot(productCode string, qty decimal.Decimal) []entity.MaterialLine {
	ingredients := e.cat.Ingredients(productCode)
	lines := make([]entity.MaterialLine, 0, len(ingredients))
	for _, ing := range ingredients {
		if !ing.Quantity.IsPositive() || ing.Code == "" {
			continue
		}
		lines = append(lines, entity.MaterialLine{
			MaterialCode: ing.Code,
			Quantity:     ing.Quantity.Mul(qty),
			Type:         ing.Type,
		})
	}
	return lines
}

func sorted(acc map[string]decimal.Decimal) []Requirement {
	out := make([]Requirement, 0, len(acc))
	for code, qty := range acc {
		out = append(out, Requirement{Code: code, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

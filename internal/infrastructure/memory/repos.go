package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository           = (*ProductRepo)(nil)
	_ repository.MaterialRepository          = (*MaterialRepo)(nil)
	_ repository.RecipeRepository            = (*RecipeRepo)(nil)
	_ repository.WarehouseRepository         = (*WarehouseRepo)(nil)
	_ repository.StockRepository             = (*StockRepo)(nil)
	_ repository.ProductionOrderRepository   = (*ProductionOrderRepo)(nil)
	_ repository.ValeRepository              = (*ValeRepo)(nil)
	_ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ b *binding }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.products[p.Code]; ok {
			return &domain.DuplicateCodeError{Entity: "producto", Code: p.Code}
		}
		c := *p
		st.products[p.Code] = &c
		return nil
	})
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	r.b.read(func(st *state) {
		if p, ok := st.products[code]; ok {
			c := *p
			out = &c
		}
	})
	return out, nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	r.b.read(func(st *state) {
		for _, p := range st.products {
			c := *p
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// MaterialRepo materias primas en memoria; Inventory se arma desde el stock.
type MaterialRepo struct{ b *binding }

func (r *MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.materials[m.Code]; ok {
			return &domain.DuplicateCodeError{Entity: "material", Code: m.Code}
		}
		st.materials[m.Code] = cloneMaterial(m)
		return nil
	})
}

func (r *MaterialRepo) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	var out *entity.Material
	r.b.read(func(st *state) {
		if m, ok := st.materials[code]; ok {
			out = cloneMaterial(m)
			out.Inventory = st.inventoryOf(code)
		}
	})
	return out, nil
}

func (r *MaterialRepo) List(_ context.Context) ([]*entity.Material, error) {
	var out []*entity.Material
	r.b.read(func(st *state) {
		for code, m := range st.materials {
			c := cloneMaterial(m)
			c.Inventory = st.inventoryOf(code)
			out = append(out, c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *MaterialRepo) UpdateCost(_ context.Context, code string, cost decimal.Decimal) error {
	return r.b.write(func(st *state) error {
		m, ok := st.materials[code]
		if !ok {
			return domain.NotFound("material", code)
		}
		m.Cost = cost
		return nil
	})
}

// RecipeRepo recetas en memoria.
type RecipeRepo struct{ b *binding }

func (r *RecipeRepo) Get(_ context.Context, productCode string) (*entity.Recipe, error) {
	var out *entity.Recipe
	r.b.read(func(st *state) {
		if rc, ok := st.recipes[productCode]; ok {
			out = cloneRecipe(rc)
		}
	})
	return out, nil
}

func (r *RecipeRepo) Save(_ context.Context, recipe *entity.Recipe) error {
	return r.b.write(func(st *state) error {
		st.recipes[recipe.ProductCode] = cloneRecipe(recipe)
		return nil
	})
}

func (r *RecipeRepo) List(_ context.Context) ([]*entity.Recipe, error) {
	var out []*entity.Recipe
	r.b.read(func(st *state) {
		for _, rc := range st.recipes {
			out = append(out, cloneRecipe(rc))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ProductCode < out[j].ProductCode })
	return out, nil
}

// WarehouseRepo almacenes en memoria.
type WarehouseRepo struct{ b *binding }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return &domain.DuplicateCodeError{Entity: "almacén", Code: w.ID}
		}
		c := *w
		st.warehouses[w.ID] = &c
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.b.read(func(st *state) {
		if w, ok := st.warehouses[id]; ok {
			c := *w
			out = &c
		}
	})
	return out, nil
}

func (r *WarehouseRepo) List(_ context.Context) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	r.b.read(func(st *state) {
		for _, w := range st.warehouses {
			c := *w
			out = append(out, &c)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *WarehouseRepo) SetDefault(_ context.Context, id string) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.warehouses[id]; !ok {
			return domain.NotFound("almacén", id)
		}
		for wid, w := range st.warehouses {
			w.IsDefault = wid == id
		}
		return nil
	})
}

// StockRepo saldos por ítem y almacén. GetForUpdate no necesita bloquear: la transacción
// ya serializa el acceso.
type StockRepo struct{ b *binding }

func (r *StockRepo) Get(_ context.Context, itemCode, warehouseID string) (*entity.Stock, error) {
	out := &entity.Stock{ItemCode: itemCode, WarehouseID: warehouseID, Quantity: decimal.Zero}
	r.b.read(func(st *state) {
		if s, ok := st.stock[stockKey{itemCode, warehouseID}]; ok {
			c := *s
			out = &c
		}
	})
	return out, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, itemCode, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, itemCode, warehouseID)
}

func (r *StockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	return r.b.write(func(st *state) error {
		c := *s
		st.stock[stockKey{s.ItemCode, s.WarehouseID}] = &c
		return nil
	})
}

func (r *StockRepo) ListByItem(_ context.Context, itemCode string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	r.b.read(func(st *state) {
		for k, s := range st.stock {
			if k.item == itemCode {
				c := *s
				out = append(out, &c)
			}
		}
	})
	sortStock(out)
	return out, nil
}

func (r *StockRepo) List(_ context.Context) ([]*entity.Stock, error) {
	var out []*entity.Stock
	r.b.read(func(st *state) {
		for _, s := range st.stock {
			c := *s
			out = append(out, &c)
		}
	})
	sortStock(out)
	return out, nil
}

func sortStock(rows []*entity.Stock) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ItemCode != rows[j].ItemCode {
			return rows[i].ItemCode < rows[j].ItemCode
		}
		return rows[i].WarehouseID < rows[j].WarehouseID
	})
}

// ProductionOrderRepo órdenes en memoria.
type ProductionOrderRepo struct{ b *binding }

func (r *ProductionOrderRepo) Create(_ context.Context, o *entity.ProductionOrder) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.orders[o.OrderID]; ok {
			return &domain.DuplicateCodeError{Entity: "orden", Code: formatID(o.OrderID)}
		}
		st.orders[o.OrderID] = o.Clone()
		return nil
	})
}

func (r *ProductionOrderRepo) GetByID(_ context.Context, orderID int64) (*entity.ProductionOrder, error) {
	var out *entity.ProductionOrder
	r.b.read(func(st *state) {
		if o, ok := st.orders[orderID]; ok {
			out = o.Clone()
		}
	})
	return out, nil
}

func (r *ProductionOrderRepo) GetForUpdate(ctx context.Context, orderID int64) (*entity.ProductionOrder, error) {
	return r.GetByID(ctx, orderID)
}

func (r *ProductionOrderRepo) Update(_ context.Context, o *entity.ProductionOrder) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.orders[o.OrderID]; !ok {
			return &domain.NotFoundError{Entity: "orden", ID: formatID(o.OrderID)}
		}
		st.orders[o.OrderID] = o.Clone()
		return nil
	})
}

func (r *ProductionOrderRepo) Delete(_ context.Context, orderID int64) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.orders[orderID]; !ok {
			return &domain.NotFoundError{Entity: "orden", ID: formatID(orderID)}
		}
		delete(st.orders, orderID)
		return nil
	})
}

// List ordena por order_id descendente, como el listado de PostgreSQL.
func (r *ProductionOrderRepo) List(_ context.Context, limit, offset int) ([]*entity.ProductionOrder, error) {
	var out []*entity.ProductionOrder
	r.b.read(func(st *state) {
		for _, o := range st.orders {
			out = append(out, o.Clone())
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID > out[j].OrderID })
	return page(out, limit, offset), nil
}

func (r *ProductionOrderRepo) MaxOrderID(_ context.Context) (int64, error) {
	var max int64
	r.b.read(func(st *state) {
		for id := range st.orders {
			if id > max {
				max = id
			}
		}
	})
	return max, nil
}

// ValeRepo vales por orden, en orden de secuencia.
type ValeRepo struct{ b *binding }

func (r *ValeRepo) Create(_ context.Context, v *entity.Vale) error {
	return r.b.write(func(st *state) error {
		for _, existing := range st.vales[v.OrderID] {
			if existing.ValeID == v.ValeID {
				return &domain.DuplicateCodeError{Entity: "vale", Code: v.ValeID}
			}
		}
		st.vales[v.OrderID] = append(st.vales[v.OrderID], cloneVale(v))
		return nil
	})
}

func (r *ValeRepo) ListByOrder(_ context.Context, orderID int64) ([]*entity.Vale, error) {
	var out []*entity.Vale
	r.b.read(func(st *state) {
		for _, v := range st.vales[orderID] {
			out = append(out, cloneVale(v))
		}
	})
	return out, nil
}

func (r *ValeRepo) CountByOrder(_ context.Context, orderID int64) (int, error) {
	var n int
	r.b.read(func(st *state) { n = len(st.vales[orderID]) })
	return n, nil
}

// InventoryMovementRepo diario de movimientos (más recientes primero al listar).
type InventoryMovementRepo struct{ b *binding }

func (r *InventoryMovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	return r.b.write(func(st *state) error {
		c := *m
		if c.ID == "" {
			c.ID = newID()
		}
		st.movements = append(st.movements, &c)
		return nil
	})
}

func (r *InventoryMovementRepo) ListByItem(_ context.Context, itemCode string, limit, offset int) ([]*entity.InventoryMovement, error) {
	return r.filter(func(m *entity.InventoryMovement) bool { return m.ItemCode == itemCode }, limit, offset), nil
}

func (r *InventoryMovementRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	return r.filter(func(m *entity.InventoryMovement) bool { return m.WarehouseID == warehouseID }, limit, offset), nil
}

func (r *InventoryMovementRepo) filter(keep func(*entity.InventoryMovement) bool, limit, offset int) []*entity.InventoryMovement {
	var out []*entity.InventoryMovement
	r.b.read(func(st *state) {
		for i := len(st.movements) - 1; i >= 0; i-- {
			if m := st.movements[i]; keep(m) {
				c := *m
				out = append(out, &c)
			}
		}
	})
	return page(out, limit, offset)
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

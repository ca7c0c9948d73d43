// Package memory implementa los puertos de persistencia en memoria. Las transacciones trabajan
// sobre una copia del estado y la publican al confirmar; se serializan con un único mutex.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.TxRunner = (*Store)(nil)

type stockKey struct {
	item      string
	warehouse string
}

type state struct {
	products   map[string]*entity.Product
	materials  map[string]*entity.Material
	recipes    map[string]*entity.Recipe
	warehouses map[string]*entity.Warehouse
	stock      map[stockKey]*entity.Stock
	orders     map[int64]*entity.ProductionOrder
	vales      map[int64][]*entity.Vale
	movements  []*entity.InventoryMovement
}

func newState() *state {
	return &state{
		products:   make(map[string]*entity.Product),
		materials:  make(map[string]*entity.Material),
		recipes:    make(map[string]*entity.Recipe),
		warehouses: make(map[string]*entity.Warehouse),
		stock:      make(map[stockKey]*entity.Stock),
		orders:     make(map[int64]*entity.ProductionOrder),
		vales:      make(map[int64][]*entity.Vale),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.materials {
		c.materials[k] = cloneMaterial(v)
	}
	for k, v := range s.recipes {
		c.recipes[k] = cloneRecipe(v)
	}
	for k, v := range s.warehouses {
		w := *v
		c.warehouses[k] = &w
	}
	for k, v := range s.stock {
		st := *v
		c.stock[k] = &st
	}
	for k, v := range s.orders {
		c.orders[k] = v.Clone()
	}
	for k, list := range s.vales {
		cp := make([]*entity.Vale, len(list))
		for i, v := range list {
			cp[i] = cloneVale(v)
		}
		c.vales[k] = cp
	}
	c.movements = append([]*entity.InventoryMovement(nil), s.movements...)
	return c
}

// Store base de datos en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repos devuelve repositorios fuera de transacción: cada llamada toma el lock del store.
func (s *Store) Repos() repository.Repos {
	return s.bind(&binding{store: s})
}

// Run ejecuta fn sobre una copia del estado. Si fn no falla la copia reemplaza al estado;
// si falla se descarta y el estado queda intacto.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(s.bind(&binding{tx: work})); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) bind(b *binding) repository.Repos {
	return repository.Repos{
		Products:   &ProductRepo{b},
		Materials:  &MaterialRepo{b},
		Recipes:    &RecipeRepo{b},
		Warehouses: &WarehouseRepo{b},
		Stock:      &StockRepo{b},
		Orders:     &ProductionOrderRepo{b},
		Vales:      &ValeRepo{b},
		Movements:  &InventoryMovementRepo{b},
	}
}

// binding ata un repositorio al estado vivo (con lock) o a la copia de una transacción (sin lock,
// la transacción ya lo tiene).
type binding struct {
	store *Store
	tx    *state
}

func (b *binding) read(fn func(st *state)) {
	if b.tx != nil {
		fn(b.tx)
		return
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	fn(b.store.st)
}

func (b *binding) write(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

func cloneMaterial(m *entity.Material) *entity.Material {
	c := *m
	c.Inventory = nil
	return &c
}

func cloneRecipe(r *entity.Recipe) *entity.Recipe {
	c := *r
	c.Ingredients = append([]entity.Ingredient(nil), r.Ingredients...)
	return &c
}

func cloneVale(v *entity.Vale) *entity.Vale {
	c := *v
	c.Materials = append([]entity.ValeMaterial(nil), v.Materials...)
	return &c
}

// inventoryOf vista por almacén del stock de un ítem.
func (s *state) inventoryOf(code string) map[string]decimal.Decimal {
	inv := make(map[string]decimal.Decimal)
	for k, v := range s.stock {
		if k.item == code {
			inv[k.warehouse] = v.Quantity
		}
	}
	return inv
}

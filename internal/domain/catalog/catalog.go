// Package catalog expone una vista inmutable de productos, materiales, recetas y almacenes
// indexada por código. Los motores de cálculo trabajan sobre este snapshot en lugar de
// leer estado global.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// Catalog snapshot de entidades del catálogo.
type Catalog struct {
	products   map[string]*entity.Product
	materials  map[string]*entity.Material
	recipes    map[string]*entity.Recipe
	warehouses map[string]*entity.Warehouse
}

// New construye el snapshot. Entradas nil o con código vacío se ignoran.
func New(
	products []*entity.Product,
	materials []*entity.Material,
	recipes []*entity.Recipe,
	warehouses []*entity.Warehouse,
) *Catalog {
	c := &Catalog{
		products:   make(map[string]*entity.Product, len(products)),
		materials:  make(map[string]*entity.Material, len(materials)),
		recipes:    make(map[string]*entity.Recipe, len(recipes)),
		warehouses: make(map[string]*entity.Warehouse, len(warehouses)),
	}
	for _, p := range products {
		if p != nil && p.Code != "" {
			c.products[p.Code] = p
		}
	}
	for _, m := range materials {
		if m != nil && m.Code != "" {
			c.materials[m.Code] = m
		}
	}
	for _, r := range recipes {
		if r != nil && r.ProductCode != "" {
			c.recipes[r.ProductCode] = r
		}
	}
	for _, w := range warehouses {
		if w != nil && w.ID != "" {
			c.warehouses[w.ID] = w
		}
	}
	return c
}

// Sources repositorios desde los que se arma el snapshot.
type Sources struct {
	Products   repository.ProductRepository
	Materials  repository.MaterialRepository
	Recipes    repository.RecipeRepository
	Warehouses repository.WarehouseRepository
}

// Load lee todas las colecciones y arma el snapshot.
func Load(ctx context.Context, src Sources) (*Catalog, error) {
	products, err := src.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar productos: %w", err)
	}
	materials, err := src.Materials.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar materiales: %w", err)
	}
	recipes, err := src.Recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar recetas: %w", err)
	}
	warehouses, err := src.Warehouses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar almacenes: %w", err)
	}
	return New(products, materials, recipes, warehouses), nil
}

// Product busca un producto por código.
func (c *Catalog) Product(code string) (*entity.Product, bool) {
	p, ok := c.products[code]
	return p, ok
}

// Material busca un material por código.
func (c *Catalog) Material(code string) (*entity.Material, bool) {
	m, ok := c.materials[code]
	return m, ok
}

// Recipe devuelve la receta de un producto.
func (c *Catalog) Recipe(productCode string) (*entity.Recipe, bool) {
	r, ok := c.recipes[productCode]
	return r, ok
}

// Ingredients devuelve los ingredientes de la receta, o nil si el producto no tiene receta.
func (c *Catalog) Ingredients(productCode string) []entity.Ingredient {
	if r, ok := c.recipes[productCode]; ok {
		return r.Ingredients
	}
	return nil
}

// Warehouse busca un almacén por ID.
func (c *Catalog) Warehouse(id string) (*entity.Warehouse, bool) {
	w, ok := c.warehouses[id]
	return w, ok
}

// DefaultWarehouse devuelve el almacén predeterminado de producción, si existe.
func (c *Catalog) DefaultWarehouse() (*entity.Warehouse, bool) {
	for _, id := range c.WarehouseIDs() {
		if w := c.warehouses[id]; w.IsDefault {
			return w, true
		}
	}
	return nil, false
}

// HasCode indica si el código ya existe como producto o material.
func (c *Catalog) HasCode(code string) bool {
	_, p := c.products[code]
	_, m := c.materials[code]
	return p || m
}

// WarehouseIDs devuelve los IDs de almacén en orden ascendente.
func (c *Catalog) WarehouseIDs() []string {
	ids := make([]string, 0, len(c.warehouses))
	for id := range c.warehouses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// WithRecipe devuelve una copia del snapshot con la receta indicada reemplazada.
// Se usa para validar una receta antes de guardarla.
func (c *Catalog) WithRecipe(recipe *entity.Recipe) *Catalog {
	out := &Catalog{
		products:   c.products,
		materials:  c.materials,
		recipes:    make(map[string]*entity.Recipe, len(c.recipes)+1),
		warehouses: c.warehouses,
	}
	for k, v := range c.recipes {
		out.recipes[k] = v
	}
	out.recipes[recipe.ProductCode] = recipe
	return out
}

package production_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/event"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type env struct {
	store  *memory.Store
	uc     *production.UseCase
	events *event.Recorder
}

// newEnv arma un catálogo con M1 (costo 2), M2 (costo 5), P1 = 3×M1, P2 = 2×P1 + 1×M2 y P3 sin
// receta. Almacenes GENERAL (predeterminado) y PLANTA. Stock inicial en GENERAL: M1 100, M2 10.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	for _, p := range []string{"P1", "P2", "P3"} {
		require.NoError(t, repos.Products.Create(ctx, &entity.Product{Code: p}))
	}
	require.NoError(t, repos.Materials.Create(ctx, &entity.Material{Code: "M1", Cost: d("2")}))
	require.NoError(t, repos.Materials.Create(ctx, &entity.Material{Code: "M2", Cost: d("5")}))
	require.NoError(t, repos.Recipes.Save(ctx, &entity.Recipe{ProductCode: "P1", Ingredients: []entity.Ingredient{
		{Type: entity.IngredientMaterial, Code: "M1", Quantity: d("3")},
	}}))
	require.NoError(t, repos.Recipes.Save(ctx, &entity.Recipe{ProductCode: "P2", Ingredients: []entity.Ingredient{
		{Type: entity.IngredientProduct, Code: "P1", Quantity: d("2")},
		{Type: entity.IngredientMaterial, Code: "M2", Quantity: d("1")},
	}}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "GENERAL", IsDefault: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "PLANTA"}))
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{ItemCode: "M1", WarehouseID: "GENERAL", Quantity: d("100")}))
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{ItemCode: "M2", WarehouseID: "GENERAL", Quantity: d("10")}))

	rec := &event.Recorder{}
	fixed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	uc := production.NewUseCase(store, repos, rec, zerolog.Nop(), production.Config{DefaultWarehouseID: "GENERAL"}).
		WithClock(func() time.Time { return fixed })
	return &env{store: store, uc: uc, events: rec}
}

func (e *env) stock(t *testing.T, item, wh string) decimal.Decimal {
	t.Helper()
	s, err := e.store.Repos().Stock.Get(context.Background(), item, wh)
	require.NoError(t, err)
	return s.Quantity
}

func (e *env) create(t *testing.T, product, qty string) *entity.ProductionOrder {
	t.Helper()
	o, err := e.uc.CreateOrder(context.Background(), production.CreateOrderInput{
		ProductCode: product,
		Quantity:    d(qty),
		OperatorID:  "op-1",
	})
	require.NoError(t, err)
	return o
}

func (e *env) complete(t *testing.T, orderID int64, qty string) *entity.ProductionOrder {
	t.Helper()
	o, err := e.uc.CompleteOrder(context.Background(), production.CompleteOrderInput{
		OrderID: orderID,
		RealQty: d(qty),
		UserID:  "u-1",
	})
	require.NoError(t, err)
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// Crear orden
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_CostoEstandarYFoto(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, "P1", "10")

	assert.Equal(t, int64(1), o.OrderID)
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.True(t, o.CostStandardUnit.Equal(d("6")))
	assert.True(t, o.CostStandard.Equal(d("60")))
	assert.Nil(t, o.QuantityProduced)
	require.Len(t, o.MaterialsUsed, 1)
	assert.Equal(t, "M1", o.MaterialsUsed[0].MaterialCode)
	assert.True(t, o.MaterialsUsed[0].Quantity.Equal(d("30")))

	o2 := e.create(t, "P2", "1")
	assert.Equal(t, int64(2), o2.OrderID)
	assert.True(t, o2.CostStandard.Equal(d("17")))

	assert.Len(t, e.events.OfType(event.TypeOrderCreated), 2)
}

func TestCreateOrder_SinRecetaFalla(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.CreateOrder(context.Background(), production.CreateOrderInput{ProductCode: "P3", Quantity: d("1")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoRecipe))
}

func TestCreateOrder_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.CreateOrder(ctx, production.CreateOrderInput{ProductCode: "P1", Quantity: d("0")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = e.uc.CreateOrder(ctx, production.CreateOrderInput{ProductCode: "PX", Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = e.uc.CreateOrder(ctx, production.CreateOrderInput{ProductCode: "P1", Quantity: d("1"), WarehouseID: "NOPE"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Completar y reabrir
// ──────────────────────────────────────────────────────────────────────────────

func TestCompleteOrder_MueveInventarioYCierraCosto(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, "P1", "10")
	done := e.complete(t, o.OrderID, "10")

	assert.Equal(t, entity.OrderStatusCompleted, done.Status)
	require.NotNil(t, done.AlmacenProduccionID)
	assert.Equal(t, "GENERAL", *done.AlmacenProduccionID)
	assert.True(t, done.QuantityProduced.Equal(d("10")))
	assert.True(t, done.CostReal.Equal(d("60")))
	assert.True(t, done.Overcost.IsZero())
	require.NotNil(t, done.CompletedAt)

	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("70")))
	assert.True(t, e.stock(t, "P1", "GENERAL").Equal(d("10")))

	movs, err := e.store.Repos().Movements.ListByItem(context.Background(), "M1", 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementProductionConsume, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(d("-30")))
	assert.Equal(t, "OP-1", movs[0].Reference)

	assert.Len(t, e.events.OfType(event.TypeOrderCompleted), 1)
	assert.Len(t, e.events.OfType(event.TypeStockChanged), 2)
}

func TestCompleteOrder_AnidadoDescuentaSoloMaterialesBase(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, "P2", "5")
	e.complete(t, o.OrderID, "5")

	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("70")))
	assert.True(t, e.stock(t, "M2", "GENERAL").Equal(d("5")))
	assert.True(t, e.stock(t, "P1", "GENERAL").IsZero(), "los intermedios no se mueven")
	assert.True(t, e.stock(t, "P2", "GENERAL").Equal(d("5")))
}

func TestCompleteOrder_Idempotente(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, "P1", "10")
	e.complete(t, o.OrderID, "10")
	again := e.complete(t, o.OrderID, "4")

	assert.True(t, again.QuantityProduced.Equal(d("10")))
	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("70")))
	assert.True(t, e.stock(t, "P1", "GENERAL").Equal(d("10")))
	assert.Len(t, e.events.OfType(event.TypeOrderCompleted), 1)
}

func TestCompleteOrder_StockInsuficienteNoModificaNada(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, "P1", "50")

	_, err := e.uc.CompleteOrder(context.Background(), production.CompleteOrderInput{OrderID: o.OrderID, RealQty: d("50")})
	require.Error(t, err)
	var ins *domain.InsufficientStockError
	require.True(t, errors.As(err, &ins))
	assert.Equal(t, "M1", ins.MaterialCode)
	assert.True(t, ins.Shortfall().Equal(d("50")))

	got, err := e.uc.GetOrder(context.Background(), o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, got.Status)
	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("100")))
	assert.True(t, e.stock(t, "P1", "GENERAL").IsZero())

	movs, err := e.store.Repos().Movements.ListByWarehouse(context.Background(), "GENERAL", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestCompleteOrder_AlmacenExplicitoSinStock(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, "P1", "1")
	_, err := e.uc.CompleteOrder(context.Background(), production.CompleteOrderInput{
		OrderID: o.OrderID, RealQty: d("1"), WarehouseID: "PLANTA",
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
}

func TestCompleteOrder_OrdenInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.CompleteOrder(context.Background(), production.CompleteOrderInput{OrderID: 99, RealQty: d("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReopenOrder_RestauraInventarioExacto(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, "P2", "5")
	e.complete(t, o.OrderID, "5")

	reopened, err := e.uc.ReopenOrder(context.Background(), o.OrderID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, reopened.Status)
	assert.Nil(t, reopened.QuantityProduced)
	assert.Nil(t, reopened.CostReal)
	assert.Nil(t, reopened.AlmacenProduccionID)
	assert.Empty(t, reopened.MaterialsConsumed)

	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("100")))
	assert.True(t, e.stock(t, "M2", "GENERAL").Equal(d("10")))
	assert.True(t, e.stock(t, "P2", "GENERAL").IsZero())
	assert.Len(t, e.events.OfType(event.TypeOrderReopened), 1)
}

func TestReopenOrder_DejaLaOrdenIgualQueAntesDeCompletar(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.create(t, "P2", "5")
	_, err := e.uc.ApplyVale(ctx, production.ApplyValeInput{
		OrderID:   o.OrderID,
		Type:      entity.ValeSalida,
		Materials: []production.ValeLine{{MaterialCode: "M2", Quantity: d("2")}},
		UserID:    "u-1",
	})
	require.NoError(t, err)

	before, err := e.uc.GetOrder(ctx, o.OrderID)
	require.NoError(t, err)
	require.True(t, before.CostExtra.Equal(d("10")))
	stockBefore := map[string]decimal.Decimal{}
	for _, item := range []string{"M1", "M2", "P1", "P2"} {
		stockBefore[item] = e.stock(t, item, "GENERAL")
	}

	e.complete(t, o.OrderID, "4")
	_, err = e.uc.ReopenOrder(ctx, o.OrderID, "u-1")
	require.NoError(t, err)

	after, err := e.uc.GetOrder(ctx, o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	for item, qty := range stockBefore {
		assert.True(t, qty.Equal(e.stock(t, item, "GENERAL")), "%s: antes %s, después %s", item, qty, e.stock(t, item, "GENERAL"))
	}
}

func TestReopenOrder_CompletacionSinConsumoNoUsaRecetaNueva(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	repos := e.store.Repos()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{Code: "P4"}))
	require.NoError(t, repos.Recipes.Save(ctx, &entity.Recipe{ProductCode: "P3", Ingredients: []entity.Ingredient{
		{Type: entity.IngredientProduct, Code: "P4", Quantity: d("1")},
	}}))

	o := e.create(t, "P3", "5")
	done := e.complete(t, o.OrderID, "5")
	assert.Empty(t, done.MaterialsConsumed)
	assert.True(t, done.ConsumptionRecorded)
	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("100")))

	// P4 recibe receta después de la completación.
	require.NoError(t, repos.Recipes.Save(ctx, &entity.Recipe{ProductCode: "P4", Ingredients: []entity.Ingredient{
		{Type: entity.IngredientMaterial, Code: "M1", Quantity: d("3")},
	}}))

	_, err := e.uc.ReopenOrder(ctx, o.OrderID, "u-1")
	require.NoError(t, err)
	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("100")), "obtenido %s", e.stock(t, "M1", "GENERAL"))
	assert.True(t, e.stock(t, "P3", "GENERAL").IsZero())
}

func TestReopenOrder_RegistroSinFotoRecalculaConReceta(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	qty := d("2")
	wh := "GENERAL"
	require.NoError(t, e.store.Repos().Orders.Create(ctx, &entity.ProductionOrder{
		OrderID:             8,
		ProductCode:         "P1",
		Quantity:            qty,
		QuantityProduced:    &qty,
		AlmacenProduccionID: &wh,
		Status:              entity.OrderStatusCompleted,
	}))
	require.NoError(t, e.store.Repos().Stock.Upsert(ctx, &entity.Stock{ItemCode: "P1", WarehouseID: "GENERAL", Quantity: d("2")}))

	_, err := e.uc.ReopenOrder(ctx, 8, "u-1")
	require.NoError(t, err)
	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("106")))
	assert.True(t, e.stock(t, "P1", "GENERAL").IsZero())
}

func TestReopenOrder_ProductoYaConsumidoNoAlcanza(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, "P1", "10")
	e.complete(t, o.OrderID, "10")
	require.NoError(t, e.store.Repos().Stock.Upsert(context.Background(),
		&entity.Stock{ItemCode: "P1", WarehouseID: "GENERAL", Quantity: d("4")}))

	_, err := e.uc.ReopenOrder(context.Background(), o.OrderID, "u-1")
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	got, err := e.uc.GetOrder(context.Background(), o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, got.Status)
	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("70")))
}

func TestReopenOrder_PendienteEsTransicionInvalida(t *testing.T) {
	e := newEnv(t)
	o := e.create(t, "P1", "1")
	_, err := e.uc.ReopenOrder(context.Background(), o.OrderID, "u-1")
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestReopenOrder_CompletadaSinAlmacen(t *testing.T) {
	e := newEnv(t)
	qty := d("1")
	require.NoError(t, e.store.Repos().Orders.Create(context.Background(), &entity.ProductionOrder{
		OrderID:          7,
		ProductCode:      "P1",
		Quantity:         qty,
		QuantityProduced: &qty,
		Status:           entity.OrderStatusCompleted,
	}))

	_, err := e.uc.ReopenOrder(context.Background(), 7, "u-1")
	assert.True(t, errors.Is(err, domain.ErrMissingWarehouse))
}

// ──────────────────────────────────────────────────────────────────────────────
// Vales
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyVale_SalidaYDevolucion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.create(t, "P1", "10")
	e.complete(t, o.OrderID, "10")

	salida, err := e.uc.ApplyVale(ctx, production.ApplyValeInput{
		OrderID:   o.OrderID,
		Type:      entity.ValeSalida,
		Materials: []production.ValeLine{{MaterialCode: "M2", Quantity: d("2")}},
		UserID:    "u-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "1-1", salida.ValeID)
	assert.Equal(t, "GENERAL", salida.AlmacenID)
	assert.True(t, salida.Cost.Equal(d("10")))
	assert.True(t, salida.Materials[0].CostAtTime.Equal(d("5")))
	assert.True(t, e.stock(t, "M2", "GENERAL").Equal(d("8")))

	got, err := e.uc.GetOrder(ctx, o.OrderID)
	require.NoError(t, err)
	assert.True(t, got.CostExtra.Equal(d("10")))
	assert.True(t, got.CostReal.Equal(d("70")))
	assert.True(t, got.Overcost.Equal(d("10")))

	dev, err := e.uc.ApplyVale(ctx, production.ApplyValeInput{
		OrderID:   o.OrderID,
		Type:      entity.ValeDevolucion,
		Materials: []production.ValeLine{{MaterialCode: "M2", Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "1-2", dev.ValeID)
	assert.True(t, dev.Cost.Equal(d("-5")))
	assert.True(t, e.stock(t, "M2", "GENERAL").Equal(d("9")))

	got, err = e.uc.GetOrder(ctx, o.OrderID)
	require.NoError(t, err)
	assert.True(t, got.CostExtra.Equal(d("5")))
	assert.True(t, got.CostReal.Equal(d("65")))

	vales, err := e.uc.ListVales(ctx, o.OrderID)
	require.NoError(t, err)
	require.Len(t, vales, 2)
	assert.Equal(t, "1-1", vales[0].ValeID)
	assert.Len(t, e.events.OfType(event.TypeValeApplied), 2)
}

func TestApplyVale_SalidaSinStockRechazaValeCompleto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.create(t, "P1", "1")

	_, err := e.uc.ApplyVale(ctx, production.ApplyValeInput{
		OrderID: o.OrderID,
		Type:    entity.ValeSalida,
		Materials: []production.ValeLine{
			{MaterialCode: "M1", Quantity: d("1")},
			{MaterialCode: "M2", Quantity: d("11")},
		},
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.True(t, e.stock(t, "M1", "GENERAL").Equal(d("100")))

	vales, err := e.uc.ListVales(ctx, o.OrderID)
	require.NoError(t, err)
	assert.Empty(t, vales)
	got, err := e.uc.GetOrder(ctx, o.OrderID)
	require.NoError(t, err)
	assert.True(t, got.CostExtra.IsZero())
}

func TestApplyVale_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.create(t, "P1", "1")

	_, err := e.uc.ApplyVale(ctx, production.ApplyValeInput{OrderID: o.OrderID, Type: "otro",
		Materials: []production.ValeLine{{MaterialCode: "M1", Quantity: d("1")}}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = e.uc.ApplyVale(ctx, production.ApplyValeInput{OrderID: o.OrderID, Type: entity.ValeSalida})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = e.uc.ApplyVale(ctx, production.ApplyValeInput{OrderID: o.OrderID, Type: entity.ValeSalida,
		Materials: []production.ValeLine{{MaterialCode: "MX", Quantity: d("1")}}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminar
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteOrder_PendienteSinVales(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.create(t, "P1", "1")

	require.NoError(t, e.uc.DeleteOrder(ctx, o.OrderID))
	_, err := e.uc.GetOrder(ctx, o.OrderID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Len(t, e.events.OfType(event.TypeOrderDeleted), 1)
}

func TestDeleteOrder_ConValesOCompletadaEsConflicto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	conVale := e.create(t, "P1", "1")
	_, err := e.uc.ApplyVale(ctx, production.ApplyValeInput{OrderID: conVale.OrderID, Type: entity.ValeSalida,
		Materials: []production.ValeLine{{MaterialCode: "M1", Quantity: d("1")}}})
	require.NoError(t, err)
	assert.True(t, errors.Is(e.uc.DeleteOrder(ctx, conVale.OrderID), domain.ErrConflict))

	completada := e.create(t, "P1", "1")
	e.complete(t, completada.OrderID, "1")
	assert.True(t, errors.Is(e.uc.DeleteOrder(ctx, completada.OrderID), domain.ErrConflict))

	assert.True(t, errors.Is(e.uc.DeleteOrder(ctx, 99), domain.ErrNotFound))
}

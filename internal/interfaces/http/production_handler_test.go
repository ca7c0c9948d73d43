package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/event"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Produccion-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildAPI arma el router completo sobre el almacén en memoria con M1 (costo 2), P1 = 3×M1 y
// 12 unidades de M1 en GENERAL.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	log := zerolog.Nop()

	require.NoError(t, repos.Products.Create(ctx, &entity.Product{Code: "P1"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{Code: "P2"}))
	require.NoError(t, repos.Materials.Create(ctx, &entity.Material{Code: "M1", Cost: decimal.NewFromInt(2)}))
	require.NoError(t, repos.Recipes.Save(ctx, &entity.Recipe{ProductCode: "P1", Ingredients: []entity.Ingredient{
		{Type: entity.IngredientMaterial, Code: "M1", Quantity: decimal.NewFromInt(3)},
	}}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "GENERAL", IsDefault: true}))
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.Stock{ItemCode: "M1", WarehouseID: "GENERAL", Quantity: decimal.NewFromInt(12)}))

	sources := catalog.Sources{Products: repos.Products, Materials: repos.Materials, Recipes: repos.Recipes, Warehouses: repos.Warehouses}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:    usecase.NewProductUseCase(store, repos),
		MaterialUC:   usecase.NewMaterialUseCase(store, repos, log),
		WarehouseUC:  usecase.NewWarehouseUseCase(store, repos.Warehouses),
		BOMUC:        usecase.NewBOMUseCase(store, repos, log),
		StockUC:      usecase.NewStockUseCase(repos),
		PlanningUC:   planning.NewUseCase(sources, repos.Stock, log),
		ProductionUC: production.NewUseCase(store, repos, event.Nop{}, log, production.Config{DefaultWarehouseID: "GENERAL"}),
		JWTSecret:    testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body, role string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", tokenForRole(t, role))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de producción
// ──────────────────────────────────────────────────────────────────────────────

func TestProductionAPI_CrearYCompletar(t *testing.T) {
	app := buildAPI(t)

	status, raw := call(t, app, http.MethodPost, "/api/production-orders", `{"product_code":"P1","quantity":"4"}`, pkgjwt.RoleOperator)
	require.Equal(t, http.StatusCreated, status, string(raw))
	var order dto.OrderResponse
	require.NoError(t, json.Unmarshal(raw, &order))
	assert.Equal(t, int64(1), order.OrderID)
	assert.True(t, order.CostStandard.Equal(decimal.NewFromInt(24)))

	status, raw = call(t, app, http.MethodPost, "/api/production-orders/1/complete", `{"quantity_produced":"4"}`, pkgjwt.RoleOperator)
	require.Equal(t, http.StatusOK, status, string(raw))
	require.NoError(t, json.Unmarshal(raw, &order))
	assert.Equal(t, entity.OrderStatusCompleted, order.Status)

	status, _ = call(t, app, http.MethodGet, "/api/stock/M1?warehouse_id=GENERAL", "", pkgjwt.RoleOperator)
	assert.Equal(t, http.StatusOK, status)
}

func TestProductionAPI_StockInsuficienteEs409(t *testing.T) {
	app := buildAPI(t)
	status, _ := call(t, app, http.MethodPost, "/api/production-orders", `{"product_code":"P1","quantity":"5"}`, pkgjwt.RoleOperator)
	require.Equal(t, http.StatusCreated, status)

	status, raw := call(t, app, http.MethodPost, "/api/production-orders/1/complete", `{"quantity_produced":"5"}`, pkgjwt.RoleOperator)
	assert.Equal(t, http.StatusConflict, status)
	body := decodeError(t, raw)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Contains(t, body.Details, "material_code=M1")
	assert.Contains(t, body.Details, "shortfall=3")
}

func TestProductionAPI_Errores(t *testing.T) {
	app := buildAPI(t)

	status, raw := call(t, app, http.MethodPost, "/api/production-orders", `{"product_code":"P1","quantity":"0"}`, pkgjwt.RoleOperator)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decodeError(t, raw).Code)

	status, raw = call(t, app, http.MethodPost, "/api/production-orders", `{"product_code":"P2","quantity":"1"}`, pkgjwt.RoleOperator)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "NO_RECIPE", decodeError(t, raw).Code)

	status, raw = call(t, app, http.MethodGet, "/api/production-orders/99", "", pkgjwt.RoleOperator)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)

	status, _ = call(t, app, http.MethodPost, "/api/production-orders", `{"product_code":"P1","quantity":"1"}`, pkgjwt.RoleOperator)
	require.Equal(t, http.StatusCreated, status)
	status, raw = call(t, app, http.MethodPost, "/api/production-orders/1/reopen", "", pkgjwt.RoleOperator)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", decodeError(t, raw).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recetas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecipeAPI_CicloEs422YRequiereRol(t *testing.T) {
	app := buildAPI(t)

	status, _ := call(t, app, http.MethodPut, "/api/recipes/P2", `{"ingredients":[{"type":"product","code":"P1","quantity":"1"}]}`, pkgjwt.RoleOperator)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := call(t, app, http.MethodPut, "/api/recipes/P2", `{"ingredients":[{"type":"product","code":"P1","quantity":"1"}]}`, pkgjwt.RoleAdmin)
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = call(t, app, http.MethodPut, "/api/recipes/P1", `{"ingredients":[{"type":"product","code":"P2","quantity":"1"}]}`, pkgjwt.RoleAdmin)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "CYCLIC_RECIPE", decodeError(t, raw).Code)
}

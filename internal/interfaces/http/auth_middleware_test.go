package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	pkgjwt "github.com/jhoicas/Produccion-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "produccion-api-test"
	testExpMin    = 60
)

// tokenForRole genera el header Authorization con un JWT del rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// send hace la petición con el header Authorization tal cual (vacío = sin header).
func send(t *testing.T, app *fiber.App, method, path, body, authHeader string) (int, dto.ErrorResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out dto.ErrorResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

// ──────────────────────────────────────────────────────────────────────────────
// Token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_HealthNoRequiereToken(t *testing.T) {
	app := buildAPI(t)
	status, _ := send(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestAuth_TokenAusenteOInvalido(t *testing.T) {
	app := buildAPI(t)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, pkgjwt.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secret", testUserID, pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"otro secret", "Bearer " + otherSecret, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := send(t, app, http.MethodGet, "/api/stock/M1", "", tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestAuth_TokenSinRolPuedeLeerPeroNoAdministrar(t *testing.T) {
	app := buildAPI(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	status, _ := send(t, app, http.MethodGet, "/api/products", "", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, status)

	status, body := send(t, app, http.MethodPatch, "/api/materials/M1/cost", `{"cost":"3"}`, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_ROLE", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mantenimiento de catálogo (admin | supervisor)
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogAdmin_OperadorRechazadoEnCadaRuta(t *testing.T) {
	app := buildAPI(t)
	routes := []struct{ method, path, body string }{
		{http.MethodPost, "/api/products", `{"code":"P9","description":"x"}`},
		{http.MethodPost, "/api/materials", `{"code":"M9","cost":"1"}`},
		{http.MethodPatch, "/api/materials/M1/cost", `{"cost":"3"}`},
		{http.MethodPost, "/api/warehouses", `{"id":"PLANTA","name":"Planta"}`},
		{http.MethodPut, "/api/warehouses/GENERAL/default", ""},
		{http.MethodPut, "/api/recipes/P1", `{"ingredients":[{"type":"material","code":"M1","quantity":"1"}]}`},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			status, body := send(t, app, r.method, r.path, r.body, tokenForRole(t, pkgjwt.RoleOperator))
			assert.Equal(t, http.StatusForbidden, status)
			assert.Equal(t, "FORBIDDEN", body.Code)
		})
	}

	// Nada cambió: el costo de P1 sigue siendo 3×2.
	status, raw := call(t, app, http.MethodGet, "/api/bom/products/P1/cost", "", pkgjwt.RoleOperator)
	require.Equal(t, http.StatusOK, status)
	var cost dto.ProductCostResponse
	require.NoError(t, json.Unmarshal(raw, &cost))
	assert.Equal(t, "6", cost.UnitCost.String())
}

func TestCatalogAdmin_SupervisorYAdminPermitidos(t *testing.T) {
	app := buildAPI(t)

	status, raw := call(t, app, http.MethodPatch, "/api/materials/M1/cost", `{"cost":"2.5"}`, pkgjwt.RoleSupervisor)
	require.Equal(t, http.StatusOK, status, string(raw))
	var mat dto.MaterialResponse
	require.NoError(t, json.Unmarshal(raw, &mat))
	assert.Equal(t, "2.5", mat.Cost.String())

	status, raw = call(t, app, http.MethodPost, "/api/warehouses", `{"id":"PLANTA","name":"Planta"}`, pkgjwt.RoleAdmin)
	assert.Equal(t, http.StatusCreated, status, string(raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes (cualquier rol autenticado)
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_UsuarioDelTokenQuedaEnElDiario(t *testing.T) {
	app := buildAPI(t)

	status, raw := call(t, app, http.MethodPost, "/api/production-orders", `{"product_code":"P1","quantity":"2"}`, pkgjwt.RoleOperator)
	require.Equal(t, http.StatusCreated, status, string(raw))
	status, raw = call(t, app, http.MethodPost, "/api/production-orders/1/complete", `{"quantity_produced":"2"}`, pkgjwt.RoleOperator)
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = call(t, app, http.MethodGet, "/api/movements?item_code=M1", "", pkgjwt.RoleOperator)
	require.Equal(t, http.StatusOK, status, string(raw))
	var list dto.MovementListResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, testUserID, list.Items[0].CreatedBy)
	assert.Equal(t, "-6", list.Items[0].Quantity.String())
}

package planning_test

import (
	"errors"
	"testing"

	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/bom"
	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// M1 cuesta 2, M2 cuesta 5; P1 = 3×M1; P2 = 2×P1 + 1×M2.
func newEngine(stock ...*entity.Stock) *planning.Engine {
	cat := catalog.New(
		[]*entity.Product{{Code: "P1"}, {Code: "P2"}},
		[]*entity.Material{{Code: "M1", Cost: d("2")}, {Code: "M2", Cost: d("5")}},
		[]*entity.Recipe{
			{ProductCode: "P1", Ingredients: []entity.Ingredient{
				{Type: entity.IngredientMaterial, Code: "M1", Quantity: d("3")},
			}},
			{ProductCode: "P2", Ingredients: []entity.Ingredient{
				{Type: entity.IngredientProduct, Code: "P1", Quantity: d("2")},
				{Type: entity.IngredientMaterial, Code: "M2", Quantity: d("1")},
			}},
		},
		[]*entity.Warehouse{{ID: "GENERAL", IsDefault: true}, {ID: "PLANTA"}},
	)
	return planning.NewEngine(bom.NewEngine(cat), inventory.FromStock(stock))
}

func gross(reqs []bom.Requirement) map[string]string {
	out := make(map[string]string, len(reqs))
	for _, r := range reqs {
		out[r.Code] = r.Quantity.String()
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Requerimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestGrossRequirements_IncluyeIntermedios(t *testing.T) {
	e := newEngine()
	reqs, err := e.GrossRequirements([]planning.Demand{{ProductCode: "P2", Quantity: d("5")}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"P2": "5", "P1": "10"}, gross(reqs))
}

func TestGrossRequirements_AcumulaRenglones(t *testing.T) {
	e := newEngine()
	reqs, err := e.GrossRequirements([]planning.Demand{
		{ProductCode: "P2", Quantity: d("5")},
		{ProductCode: "P1", Quantity: d("4")},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"P2": "5", "P1": "14"}, gross(reqs))
}

func TestGrossRequirements_Validaciones(t *testing.T) {
	e := newEngine()

	_, err := e.GrossRequirements(nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = e.GrossRequirements([]planning.Demand{{ProductCode: "P1", Quantity: d("0")}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = e.GrossRequirements([]planning.Demand{{ProductCode: "PX", Quantity: d("1")}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestNetRequirements_RestaStockYRedondeaSugerencia(t *testing.T) {
	e := newEngine(&entity.Stock{ItemCode: "P1", WarehouseID: "GENERAL", Quantity: d("3.5")})
	net := e.NetRequirements([]bom.Requirement{{Code: "P1", Quantity: d("10")}}, inventory.AllWarehouses)
	require.Len(t, net, 1)
	assert.True(t, net[0].Net.Equal(d("6.5")))
	assert.True(t, net[0].Suggested.Equal(d("7")))
}

func TestNetRequirements_StockSobranteNoSugiere(t *testing.T) {
	e := newEngine(&entity.Stock{ItemCode: "P1", WarehouseID: "GENERAL", Quantity: d("20")})
	net := e.NetRequirements([]bom.Requirement{{Code: "P1", Quantity: d("10")}}, "GENERAL")
	require.Len(t, net, 1)
	assert.True(t, net[0].Net.Equal(d("-10")))
	assert.True(t, net[0].Suggested.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Plan completo
// ──────────────────────────────────────────────────────────────────────────────

func TestPlan_SinStockSugiereYReportaFaltantes(t *testing.T) {
	e := newEngine()
	plan, err := e.Plan([]planning.Demand{{ProductCode: "P2", Quantity: d("5")}}, "")
	require.NoError(t, err)

	assert.Equal(t, inventory.AllWarehouses, plan.WarehouseID)
	require.Len(t, plan.Suggestions, 2)
	byCode := map[string]planning.SuggestedOrder{}
	for _, s := range plan.Suggestions {
		byCode[s.ProductCode] = s
	}
	assert.True(t, byCode["P1"].Quantity.Equal(d("10")))
	assert.True(t, byCode["P1"].EstimatedCost.Equal(d("60")))
	assert.True(t, byCode["P2"].Quantity.Equal(d("5")))
	assert.True(t, byCode["P2"].EstimatedCost.Equal(d("85")))

	assert.True(t, plan.HasShortages())
	shortages := map[string]string{}
	for _, s := range plan.Shortages {
		shortages[s.MaterialCode] = s.Shortfall().String()
	}
	assert.Equal(t, map[string]string{"M1": "30", "M2": "5"}, shortages)
}

func TestPlan_StockSuficienteNoTieneFaltantes(t *testing.T) {
	e := newEngine(
		&entity.Stock{ItemCode: "M1", WarehouseID: "PLANTA", Quantity: d("30")},
		&entity.Stock{ItemCode: "M2", WarehouseID: "PLANTA", Quantity: d("8")},
	)
	plan, err := e.Plan([]planning.Demand{{ProductCode: "P2", Quantity: d("5")}}, "PLANTA")
	require.NoError(t, err)
	assert.False(t, plan.HasShortages())
	require.Len(t, plan.RawMaterials, 2)
	assert.Equal(t, "M1", plan.RawMaterials[0].MaterialCode)
	assert.True(t, plan.RawMaterials[0].Balance.IsZero())
	assert.True(t, plan.RawMaterials[1].Balance.Equal(d("3")))
}

func TestPlan_StockDeOtroAlmacenNoCuenta(t *testing.T) {
	e := newEngine(&entity.Stock{ItemCode: "M1", WarehouseID: "GENERAL", Quantity: d("100")})
	plan, err := e.Plan([]planning.Demand{{ProductCode: "P1", Quantity: d("1")}}, "PLANTA")
	require.NoError(t, err)
	require.Len(t, plan.Shortages, 1)
	assert.Equal(t, "M1", plan.Shortages[0].MaterialCode)
}

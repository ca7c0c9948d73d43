package catalog_test

import (
	"testing"

	"github.com/jhoicas/Produccion-api/internal/domain/catalog"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_LookupsYDefault(t *testing.T) {
	cat := catalog.New(
		[]*entity.Product{{Code: "P1"}, nil, {Code: ""}},
		[]*entity.Material{{Code: "M1", Cost: decimal.NewFromInt(2)}},
		[]*entity.Recipe{{ProductCode: "P1", Ingredients: []entity.Ingredient{
			{Type: entity.IngredientMaterial, Code: "M1", Quantity: decimal.NewFromInt(3)},
		}}},
		[]*entity.Warehouse{{ID: "PLANTA"}, {ID: "GENERAL", IsDefault: true}},
	)

	_, ok := cat.Product("P1")
	assert.True(t, ok)
	assert.True(t, cat.HasCode("M1"))
	assert.False(t, cat.HasCode("MX"))
	assert.Len(t, cat.Ingredients("P1"), 1)
	assert.Nil(t, cat.Ingredients("MX"))

	w, ok := cat.DefaultWarehouse()
	require.True(t, ok)
	assert.Equal(t, "GENERAL", w.ID)
	assert.Equal(t, []string{"GENERAL", "PLANTA"}, cat.WarehouseIDs())
}

func TestCatalog_WithRecipeNoModificaOriginal(t *testing.T) {
	cat := catalog.New([]*entity.Product{{Code: "P1"}}, nil, nil, nil)
	next := cat.WithRecipe(&entity.Recipe{ProductCode: "P1", Ingredients: []entity.Ingredient{
		{Type: entity.IngredientMaterial, Code: "M1", Quantity: decimal.NewFromInt(1)},
	}})

	_, ok := cat.Recipe("P1")
	assert.False(t, ok)
	_, ok = next.Recipe("P1")
	assert.True(t, ok)
}
